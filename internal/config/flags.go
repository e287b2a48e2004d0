package config

import "flag"

// Flags holds the CLI overrides shared by every subcommand.
type Flags struct {
	Config  string
	Debug   bool
	Palette string
	Table   string
	Listen  string
	LogFile string
}

// RegisterFlags adds the common flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Palette, "palette", "", "Palette YAML file to start from")
	fs.StringVar(&f.Table, "table", "", "Address table name")
	fs.StringVar(&f.Listen, "listen", "", "HTTP listen address")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Palette != "" {
		cfg.Palette.File = f.Palette
	}
	if f.Table != "" {
		cfg.Palette.Table = f.Table
	}
	if f.Listen != "" {
		cfg.Server.Listen = f.Listen
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
