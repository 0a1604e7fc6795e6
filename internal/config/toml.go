package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish "unset" from a zero value.
type FileConfig struct {
	Calc    CalcConfig    `toml:"calc"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// CalcConfig maps arithmetic-related settings.
type CalcConfig struct {
	Precision *int    `toml:"precision"`
	MaxInput  *string `toml:"max-input"`
}

// HistoryConfig maps history and persistence settings.
type HistoryConfig struct {
	MaxSize  *int    `toml:"max-size"`
	File     *string `toml:"file"`
	AutoSave *bool   `toml:"auto-save"`
	StatsDB  *string `toml:"stats-db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
