package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio (Viper: variables de entorno y, opcionalmente, archivo).
type Config struct {
	App        AppConfig
	Store      StoreConfig
	DB         DBConfig
	Tx         TxConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Audit      AuditConfig
	Purchasing PurchasingConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig elige el backend de persistencia.
type StoreConfig struct {
	Backend string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa tal cual como connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	ForceIPv4   bool // resolver el host a IPv4 antes de conectar (contenedores sin IPv6)
}

// ConnectionString devuelve DatabaseURL si está definido, si no el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma el connection string con la contraseña escapada.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// TxConfig reintentos ante conflictos de concurrencia.
type TxConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuditConfig bitácora asíncrona y sus destinos.
type AuditConfig struct {
	Buffer       int
	WriteTimeout time.Duration
	Sinks        []string // log, db, redis, kafka

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string
	RedisMaxLen   int64

	KafkaBrokers []string
	KafkaTopic   string

	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// HasSink indica si name está entre los sinks configurados.
func (c AuditConfig) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// PurchasingConfig reglas configurables del ciclo de compras.
type PurchasingConfig struct {
	ReverseDebtOnCancel bool // al cancelar, descontar de la deuda del proveedor lo que quedaba pendiente
	AllowDraftReception bool // permitir recibir una orden que sigue en borrador
}

// Load lee la configuración. Las variables de entorno tienen prioridad sobre el archivo.
// Nombres esperados: APP_ENV, STORE_BACKEND, DB_HOST, TX_MAX_RETRIES, AUDIT_SINKS, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "retail-ops"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getString(v, "STORE_BACKEND", "postgres")),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "retail_ops"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		Tx: TxConfig{
			MaxRetries:  getInt(v, "TX_MAX_RETRIES", 10),
			BaseBackoff: getDuration(v, "TX_BASE_BACKOFF", 5*time.Millisecond),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "retail-ops"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Audit: AuditConfig{
			Buffer:          getInt(v, "AUDIT_BUFFER", 1024),
			WriteTimeout:    getDuration(v, "AUDIT_WRITE_TIMEOUT", 5*time.Second),
			Sinks:           getList(v, "AUDIT_SINKS", []string{"log", "db"}),
			RedisAddr:       getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword:   getString(v, "REDIS_PASSWORD", ""),
			RedisDB:         getInt(v, "REDIS_DB", 0),
			RedisStream:     getString(v, "AUDIT_REDIS_STREAM", "retail:audit"),
			RedisMaxLen:     int64(getInt(v, "AUDIT_REDIS_MAXLEN", 100000)),
			KafkaBrokers:    getList(v, "KAFKA_BROKERS", []string{"localhost:9092"}),
			KafkaTopic:      getString(v, "AUDIT_KAFKA_TOPIC", "retail.audit"),
			BreakerFailures: uint32(getInt(v, "AUDIT_BREAKER_FAILURES", 5)),
			BreakerTimeout:  getDuration(v, "AUDIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Purchasing: PurchasingConfig{
			ReverseDebtOnCancel: getBool(v, "PURCHASING_REVERSE_DEBT_ON_CANCEL", false),
			AllowDraftReception: getBool(v, "PURCHASING_ALLOW_DRAFT_RECEPTION", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORE_BACKEND desconocido %q", c.Store.Backend)
	}
	if c.Tx.MaxRetries < 0 {
		return fmt.Errorf("config: TX_MAX_RETRIES no puede ser negativo")
	}
	for _, s := range c.Audit.Sinks {
		switch s {
		case "log", "db", "redis", "kafka":
		default:
			return fmt.Errorf("config: sink de auditoría desconocido %q", s)
		}
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return b
	}
	return v.GetBool(key)
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return d
}

// getList acepta valores separados por coma ("log,db").
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
