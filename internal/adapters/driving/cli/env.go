package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig carries environment overrides. Resolution order for import
// settings is: explicit flag, environment, config file, built-in
// default.
type EnvConfig struct {
	// DataDir overrides the event database directory.
	DataDir string `env:"CHRONICLE_DATA_DIR"`

	// ConfigDir overrides the config file directory.
	ConfigDir string `env:"CHRONICLE_CONFIG_DIR"`

	// UserID is the default owner stamped onto imported events.
	UserID string `env:"CHRONICLE_USER"`

	// DateOrder disambiguates slash-separated dates ("mdy" or "dmy").
	DateOrder string `env:"CHRONICLE_DATE_ORDER"`

	// Workers bounds import concurrency.
	Workers int `env:"CHRONICLE_WORKERS"`
}

// envCfg is populated by main via SetEnv.
var envCfg EnvConfig

// LoadEnv reads configuration from environment variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SetEnv installs the environment overrides used by the commands.
func SetEnv(cfg EnvConfig) {
	envCfg = cfg
}
