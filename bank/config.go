package bank

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/0903lokchan/banking/internal/logging"
)

// Config is the application configuration.
type Config struct {
	// DBPath is the SQLite database file; created when missing.
	DBPath string `mapstructure:"db_path"`
	// BINPrefix is the 6-digit issuer identification number every
	// generated card number starts with.
	BINPrefix string `mapstructure:"bin_prefix"`
	// PINLength is the number of digits in generated PINs.
	PINLength int `mapstructure:"pin_length"`
	// CreateRetries bounds transparent regeneration when a freshly
	// minted card number collides with an existing row.
	CreateRetries int `mapstructure:"create_retries"`

	Logging logging.Config `mapstructure:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:        "card.s3db",
		BINPrefix:     "400000",
		PINLength:     4,
		CreateRetries: 5,
		Logging: logging.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing
// file is fine: defaults apply; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("bin_prefix", cfg.BINPrefix)
	v.SetDefault("pin_length", cfg.PINLength)
	v.SetDefault("create_retries", cfg.CreateRetries)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
