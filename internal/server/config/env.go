package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotEnvFile = ".env"

// loadDotEnv copies variables from the .env file into the process
// environment. Variables already set win; a missing file is fine.
func loadDotEnv() error {
	err := godotenv.Load(dotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", dotEnvFile, err)
}

// legacyEnv holds the variable names older deployments use. They are only
// consulted when the canonical variables are absent.
type legacyEnv struct {
	Port       string `env:"PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
}

// parseEnv overlays config with environment variables. Unset variables leave
// the current value alone.
func parseEnv(config *Config) error {
	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if _, ok := os.LookupEnv("SERVER_ADDRESS"); !ok && legacy.Port != "" {
		config.Addr = ":" + legacy.Port
	}
	if _, ok := os.LookupEnv("DATABASE_DSN"); !ok && legacy.DBHost != "" {
		config.DatabaseDSN = legacy.dsn()
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (l legacyEnv) dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(l.DBHost, l.DBPort),
		Path:     "/" + l.DBName,
		RawQuery: "sslmode=require",
	}
	if l.DBUser != "" {
		if l.DBPassword != "" {
			u.User = url.UserPassword(l.DBUser, l.DBPassword)
		} else {
			u.User = url.User(l.DBUser)
		}
	}
	return u.String()
}
