package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Palette.Table != "sm64-us" {
		t.Errorf("expected table sm64-us, got %s", cfg.Palette.Table)
	}
	if cfg.Palette.File != "" {
		t.Errorf("expected no palette file, got %s", cfg.Palette.File)
	}
	if cfg.Editor.RandomMode != "uniform" {
		t.Errorf("expected random mode uniform, got %s", cfg.Editor.RandomMode)
	}
	if cfg.Editor.LuckyMaxRounds != 100 {
		t.Errorf("expected 100 lucky rounds, got %d", cfg.Editor.LuckyMaxRounds)
	}
	if cfg.Editor.LuckyInterval != 50*time.Millisecond {
		t.Errorf("expected 50ms lucky interval, got %v", cfg.Editor.LuckyInterval)
	}
	if cfg.Preview.Width != 720 || cfg.Preview.Height != 480 {
		t.Errorf("expected 720x480 preview, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.Server.Listen != "127.0.0.1:8064" {
		t.Errorf("expected listen 127.0.0.1:8064, got %s", cfg.Server.Listen)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saturn.yaml")

	yamlContent := `
palette:
  file: "luigi.yaml"
  table: "sm64-us"

editor:
  random_mode: "hsv"
  lucky_max_rounds: 10
  lucky_interval: 20ms

preview:
  width: 1024
  height: 600
  vsync: false

server:
  listen: ":9000"
  allowed_origins: ["http://localhost:3000"]

logging:
  level: "debug"
  log_file: "saturn.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Palette.File != "luigi.yaml" {
		t.Errorf("expected palette file luigi.yaml, got %s", cfg.Palette.File)
	}
	if cfg.Editor.RandomMode != "hsv" {
		t.Errorf("expected random mode hsv, got %s", cfg.Editor.RandomMode)
	}
	if cfg.Editor.LuckyMaxRounds != 10 {
		t.Errorf("expected 10 lucky rounds, got %d", cfg.Editor.LuckyMaxRounds)
	}
	if cfg.Editor.LuckyInterval != 20*time.Millisecond {
		t.Errorf("expected 20ms interval, got %v", cfg.Editor.LuckyInterval)
	}
	if cfg.Preview.Width != 1024 || cfg.Preview.VSync {
		t.Errorf("unexpected preview config %+v", cfg.Preview)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %s", cfg.Server.Listen)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "saturn.log" {
		t.Errorf("expected log file 'saturn.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
preview:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "saturn.yaml")
	if err := os.WriteFile(configPath, []byte("preview:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find saturn.yaml in current directory")
	}
}

func TestFlagsApply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	err := fs.Parse([]string{"-debug", "-palette", "p.yaml", "-listen", ":1", "-log", "x.log", "-table", "sm64-us"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := Default()
	flags.apply(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Palette.File != "p.yaml" {
		t.Errorf("expected palette p.yaml, got %s", cfg.Palette.File)
	}
	if cfg.Server.Listen != ":1" {
		t.Errorf("expected listen :1, got %s", cfg.Server.Listen)
	}
	if cfg.Logging.LogFile != "x.log" {
		t.Errorf("expected log x.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	configPath := filepath.Join(tmpDir, "custom.yaml")
	yamlContent := `
server:
  listen: ":7000"
logging:
  level: "warn"
  log_file: "file.log"
palette:
  table: "from-file"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("SATURN_LOG_FILE=env.log\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFile, "")
	os.Unsetenv(EnvLogFile)

	cfg, err := Load(&Flags{Config: configPath, Listen: ":7001"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Server.Listen != ":7001" {
		t.Errorf("expected listen :7001 from flag, got %s", cfg.Server.Listen)
	}
	// Environment beats file.
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level error from env, got %s", cfg.Logging.Level)
	}
	// .env feeds the environment.
	if cfg.Logging.LogFile != "env.log" {
		t.Errorf("expected log file env.log from .env, got %s", cfg.Logging.LogFile)
	}
	// File beats defaults.
	if cfg.Palette.Table != "from-file" {
		t.Errorf("expected table from-file, got %s", cfg.Palette.Table)
	}
}

func TestLoadWithoutFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvListen, "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != Default().Server.Listen {
		t.Errorf("expected default listen, got %s", cfg.Server.Listen)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Editor.RandomMode = "hsv"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Editor.RandomMode != "hsv" {
		t.Errorf("expected hsv after reload, got %s", loaded.Editor.RandomMode)
	}
}

func TestSaveIsFoundByLoad(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir follows XDG_CONFIG_HOME only on unix")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Server.Listen = "127.0.0.1:9999"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ConfigDir(), "config.yaml")); err != nil {
		t.Fatalf("config not written to config dir: %v", err)
	}

	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Listen != "127.0.0.1:9999" {
		t.Errorf("expected saved listen address, got %s", loaded.Server.Listen)
	}
}
