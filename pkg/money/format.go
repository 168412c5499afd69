// Package money formatea montos para textos legibles (bitácora, mensajes).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.LatinAmericanSpanish)

// Format devuelve el monto con separador de miles y dos decimales, ej. "100.000,00".
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// Units formatea una cantidad entera con separador de miles.
func Units(n int64) string {
	return printer.Sprintf("%d", n)
}
