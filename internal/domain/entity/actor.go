package entity

// Actor identifica al operador que ejecuta una operación (id + nombre para mostrar).
type Actor struct {
	ID   string
	Name string
}
