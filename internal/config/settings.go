package config

import (
	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calcerr"
)

// Settings holds the resolved session configuration. The calculator core
// treats these values as already validated.
type Settings struct {
	MaxHistorySize int
	Precision      int
	MaxInputValue  decimal.Decimal
	AutoSave       bool
	HistoryFile    string
	DBFile         string
	LogFile        string
}

// Default returns the built-in settings with XDG file locations.
func Default() Settings {
	return Settings{
		MaxHistorySize: 1000,
		Precision:      10,
		MaxInputValue:  decimal.RequireFromString("1e999"),
		AutoSave:       true,
		HistoryFile:    DefaultHistoryPath(),
		DBFile:         DefaultDBPath(),
		LogFile:        DefaultLogPath(),
	}
}

// Validate checks the settings for usable values.
func (s Settings) Validate() error {
	if s.MaxHistorySize <= 0 {
		return &calcerr.ConfigurationError{Msg: "max history size must be positive"}
	}
	if s.Precision <= 0 {
		return &calcerr.ConfigurationError{Msg: "precision must be positive"}
	}
	if !s.MaxInputValue.IsPositive() {
		return &calcerr.ConfigurationError{Msg: "max input value must be positive"}
	}
	return nil
}

// Resolve layers the TOML file and environment overrides onto the defaults
// and validates the result. CLI flags are applied by the command layer on
// top of the returned settings.
func Resolve(fileCfg FileConfig, envCfg EnvOverrides) (Settings, error) {
	s := Default()

	applyInt(&s.Precision, fileCfg.Calc.Precision)
	if err := applyDecimal(&s.MaxInputValue, fileCfg.Calc.MaxInput); err != nil {
		return Settings{}, err
	}
	applyInt(&s.MaxHistorySize, fileCfg.History.MaxSize)
	applyString(&s.HistoryFile, fileCfg.History.File)
	applyBool(&s.AutoSave, fileCfg.History.AutoSave)
	applyString(&s.DBFile, fileCfg.History.StatsDB)
	applyString(&s.LogFile, fileCfg.Log.File)

	applyInt(&s.Precision, envCfg.Precision)
	if err := applyDecimal(&s.MaxInputValue, envCfg.MaxInputValue); err != nil {
		return Settings{}, err
	}
	applyInt(&s.MaxHistorySize, envCfg.MaxHistorySize)
	applyString(&s.HistoryFile, envCfg.HistoryFile)
	applyBool(&s.AutoSave, envCfg.AutoSave)
	applyString(&s.DBFile, envCfg.DBFile)
	applyString(&s.LogFile, envCfg.LogFile)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func applyInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func applyString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyDecimal(target *decimal.Decimal, value *string) error {
	if value == nil {
		return nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return &calcerr.ConfigurationError{Msg: "invalid max input value: " + *value}
	}
	*target = parsed
	return nil
}
