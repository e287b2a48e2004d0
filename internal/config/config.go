// Package config handles editor configuration loading and management.
package config

import "time"

// Config holds all editor settings.
type Config struct {
	Palette PaletteConfig `yaml:"palette"`
	Editor  EditorConfig  `yaml:"editor"`
	Preview PreviewConfig `yaml:"preview"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// PaletteConfig selects the starting palette and code layout.
type PaletteConfig struct {
	File  string `yaml:"file"`  // YAML palette loaded at startup; empty means stock colors
	Table string `yaml:"table"` // Address table used for codes
}

// EditorConfig holds randomization settings.
type EditorConfig struct {
	RandomMode     string        `yaml:"random_mode"`      // "uniform" or "hsv"
	LuckyMaxRounds int           `yaml:"lucky_max_rounds"` // Upper bound of re-rolls for "I Feel Lucky"
	LuckyInterval  time.Duration `yaml:"lucky_interval"`   // Pause between re-rolls in interactive editors
}

// PreviewConfig holds swatch window settings.
type PreviewConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins"` // WebSocket origins; empty allows any
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Palette: PaletteConfig{
			Table: "sm64-us",
		},
		Editor: EditorConfig{
			RandomMode:     "uniform",
			LuckyMaxRounds: 100,
			LuckyInterval:  50 * time.Millisecond,
		},
		Preview: PreviewConfig{
			Width:  720,
			Height: 480,
			VSync:  true,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8064",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
