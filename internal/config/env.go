package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides holds optional DECALC_* environment overrides. Unset variables
// leave the pointer fields nil so lower-precedence sources stay in effect.
type EnvOverrides struct {
	MaxHistorySize *int    `env:"DECALC_MAX_HISTORY_SIZE"`
	Precision      *int    `env:"DECALC_PRECISION"`
	MaxInputValue  *string `env:"DECALC_MAX_INPUT_VALUE"`
	AutoSave       *bool   `env:"DECALC_AUTO_SAVE"`
	HistoryFile    *string `env:"DECALC_HISTORY_FILE"`
	DBFile         *string `env:"DECALC_DB_FILE"`
	LogFile        *string `env:"DECALC_LOG_FILE"`
}

// ParseEnv reads overrides from the environment.
func ParseEnv() (EnvOverrides, error) {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return overrides, nil
}
