package config

import "time"

type Config struct {
	App      AppConfig      `env-prefix:"APP_"`
	HTTP     HTTPConfig     `env-prefix:"HTTP_"`
	Database DatabaseConfig `env-prefix:"DB_"`
	JWT      JWTConfig      `env-prefix:"JWT_"`
	Auth     AuthConfig     `env-prefix:"AUTH_"`
	Events   EventsConfig   `env-prefix:"EVENTS_"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Addr         string   `env:"ADDR" env-default:":3000"`
	BodyLimit    int      `env:"BODY_LIMIT" env-default:"1048576"`
	AllowOrigins []string `env:"ALLOW_ORIGINS" env-separator:"," env-default:"http://localhost:5173,https://localhost:5173,http://127.0.0.1:5173"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver           string `env:"DRIVER" env-default:"postgres"`
	ConnectionString string `env:"CONNECTION_STRING"`
	SQLitePath       string `env:"SQLITE_PATH" env-default:"notebook.db"`
	RetryAttempts    uint   `env:"RETRY_ATTEMPTS" env-default:"5"`
}

type JWTConfig struct {
	Key      string        `env:"KEY" env-required:"true"`
	Issuer   string        `env:"ISSUER" env-default:"NoteBookApp"`
	Audience string        `env:"AUDIENCE" env-default:"NoteBookAppUsers"`
	TTL      time.Duration `env:"TTL" env-default:"24h"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST" env-default:"10"`
}

type EventsConfig struct {
	Topic string `env:"TOPIC" env-default:"note.events"`
}
