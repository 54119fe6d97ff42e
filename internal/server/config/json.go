package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted. Pointer
// fields distinguish "absent" from "false"/zero.
type JsonConfig struct {
	Addr            string          `json:"server_address"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"jwt_secret"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	LogLevel        string          `json:"log_level"`
	MigrateOnStart  *bool           `json:"migrate_on_start"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, and copies the
// fields it sets into config.
func parseJson(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.MigrateOnStart != nil {
		config.MigrateOnStart = *c.MigrateOnStart
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
