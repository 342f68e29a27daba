package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const minJWTKeyLength = 32

func Parse() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.ConnectionString == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required for driver %q", DriverPostgres)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if len(c.JWT.Key) < minJWTKeyLength {
		return fmt.Errorf("JWT_KEY must be at least %d bytes", minJWTKeyLength)
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}
