// Package config resolves mapsweep settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCMake    = "CMAKE"
	EnvPlan     = "MAPSWEEP_PLAN"
	EnvLogLevel = "MAPSWEEP_LOG_LEVEL"
	EnvReport   = "MAPSWEEP_REPORT"
)

// Report formats.
const (
	ReportMarkdown = "markdown"
	ReportJSON     = "json"
	ReportNone     = "none"
)

// Config holds the resolved settings.
type Config struct {
	CMake    string
	PlanPath string
	LogLevel slog.Level
	Report   string
}

// Default returns the settings used when nothing is set.
func Default() Config {
	return Config{
		CMake:    "cmake",
		LogLevel: slog.LevelInfo,
		Report:   ReportMarkdown,
	}
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvCMake); v != "" {
		cfg.CMake = v
	}

	cfg.PlanPath = getenv(EnvPlan)

	if v := getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if v := strings.ToLower(getenv(EnvReport)); v != "" {
		switch v {
		case ReportMarkdown, ReportJSON, ReportNone:
			cfg.Report = v
		default:
			return Config{}, fmt.Errorf("%s: unknown report format %q", EnvReport, v)
		}
	}

	return cfg, nil
}

// Load reads the optional .env file and then the process environment.
func Load(dotEnvPath string) (Config, error) {
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return Config{}, err
	}

	return FromEnv(os.Getenv)
}
