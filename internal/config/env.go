package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read after the config file.
const (
	EnvPalette  = "SATURN_PALETTE"
	EnvTable    = "SATURN_TABLE"
	EnvListen   = "SATURN_LISTEN"
	EnvLogLevel = "SATURN_LOG_LEVEL"
	EnvLogFile  = "SATURN_LOG_FILE"
)

// loadDotEnv reads a .env file into the process environment. A missing file
// is fine; variables already set are not overwritten.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// applyEnv applies SATURN_* environment overrides to the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPalette); v != "" {
		cfg.Palette.File = v
	}
	if v := os.Getenv(EnvTable); v != "" {
		cfg.Palette.Table = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.LogFile = v
	}
}
