package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkruglikov/decalc/internal/calcerr"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Calc.Precision != nil || cfg.History.MaxSize != nil {
		t.Errorf("missing file produced non-zero config: %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("LoadConfig(\"\") did not fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[calc]
precision = 4
max-input = "1e6"

[history]
max-size = 50
auto-save = false
file = "/tmp/hist.csv"

[log]
file = "/tmp/decalc.log"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Calc.Precision == nil || *cfg.Calc.Precision != 4 {
		t.Errorf("precision = %v, want 4", cfg.Calc.Precision)
	}
	if cfg.History.AutoSave == nil || *cfg.History.AutoSave {
		t.Errorf("auto-save = %v, want false", cfg.History.AutoSave)
	}
	if cfg.Log.File == nil || *cfg.Log.File != "/tmp/decalc.log" {
		t.Errorf("log file = %v", cfg.Log.File)
	}
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(FileConfig{}, EnvOverrides{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.MaxHistorySize != 1000 {
		t.Errorf("MaxHistorySize = %d, want 1000", s.MaxHistorySize)
	}
	if s.Precision != 10 {
		t.Errorf("Precision = %d, want 10", s.Precision)
	}
	if !s.AutoSave {
		t.Error("AutoSave = false, want true")
	}
	if s.MaxInputValue.Exponent() != 999 || s.MaxInputValue.Coefficient().Int64() != 1 {
		t.Errorf("MaxInputValue = %se%d, want 1e999", s.MaxInputValue.Coefficient(), s.MaxInputValue.Exponent())
	}
	if s.HistoryFile == "" || s.DBFile == "" || s.LogFile == "" {
		t.Errorf("default paths missing: %+v", s)
	}
}

func TestResolvePrecedence(t *testing.T) {
	filePrecision := 4
	fileHistory := "/tmp/file.csv"
	envPrecision := 2
	fileCfg := FileConfig{
		Calc:    CalcConfig{Precision: &filePrecision},
		History: HistoryConfig{File: &fileHistory},
	}
	envCfg := EnvOverrides{Precision: &envPrecision}

	s, err := Resolve(fileCfg, envCfg)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.Precision != 2 {
		t.Errorf("Precision = %d, want env override 2", s.Precision)
	}
	if s.HistoryFile != "/tmp/file.csv" {
		t.Errorf("HistoryFile = %q, want file value", s.HistoryFile)
	}
}

func TestResolveInvalidMaxInput(t *testing.T) {
	bad := "not-a-number"
	_, err := Resolve(FileConfig{Calc: CalcConfig{MaxInput: &bad}}, EnvOverrides{})
	var cerr *calcerr.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("Resolve() error = %v, want ConfigurationError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{name: "zero history size", mutate: func(s *Settings) { s.MaxHistorySize = 0 }},
		{name: "negative precision", mutate: func(s *Settings) { s.Precision = -1 }},
		{name: "zero max input", mutate: func(s *Settings) { s.MaxInputValue = s.MaxInputValue.Sub(s.MaxInputValue) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			var cerr *calcerr.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Errorf("Validate() error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DECALC_PRECISION", "6")
	t.Setenv("DECALC_AUTO_SAVE", "false")
	t.Setenv("DECALC_HISTORY_FILE", "/tmp/env.csv")

	overrides, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv() error: %v", err)
	}
	if overrides.Precision == nil || *overrides.Precision != 6 {
		t.Errorf("Precision = %v, want 6", overrides.Precision)
	}
	if overrides.AutoSave == nil || *overrides.AutoSave {
		t.Errorf("AutoSave = %v, want false", overrides.AutoSave)
	}
	if overrides.HistoryFile == nil || *overrides.HistoryFile != "/tmp/env.csv" {
		t.Errorf("HistoryFile = %v", overrides.HistoryFile)
	}
	if overrides.MaxHistorySize != nil {
		t.Errorf("MaxHistorySize = %v, want nil for unset variable", overrides.MaxHistorySize)
	}
}
