package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// LoadPalette reads a YAML palette file. Slots missing from the file keep
// their stock colors.
func LoadPalette(path string) (palette.Palette, error) {
	p := palette.Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading palette: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return palette.Default(), fmt.Errorf("parsing palette %s: %w", path, err)
	}
	return p, nil
}

// SavePalette writes p as YAML, creating parent directories.
func SavePalette(path string, p palette.Palette) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load replaces the session palette with a file's contents.
func (s *Session) Load(path string) error {
	p, err := LoadPalette(path)
	if err != nil {
		return err
	}
	s.Replace(p)
	return nil
}

// Save writes the session palette to a file.
func (s *Session) Save(path string) error {
	return SavePalette(path, s.Snapshot())
}

// ErrNoFile is returned by SaveFile when the session has no palette file.
var ErrNoFile = errors.New("no palette file configured")

// File returns the palette file the session saves to.
func (s *Session) File() string {
	return s.file
}

// SaveFile writes the palette to the session's file and returns its path.
func (s *Session) SaveFile() (string, error) {
	if s.file == "" {
		return "", ErrNoFile
	}
	if err := s.Save(s.file); err != nil {
		s.log.Warn("saving palette failed", zap.String("path", s.file), zap.Error(err))
		return s.file, fmt.Errorf("saving palette: %w", err)
	}
	s.log.Info("palette saved", zap.String("path", s.file))
	return s.file, nil
}
