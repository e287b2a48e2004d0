// Package clipboard moves code text to and from the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// ErrEmpty is returned when the clipboard holds no text.
var ErrEmpty = errors.New("clipboard is empty")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Memory is an in-process clipboard, used when no display is available.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.text == "" {
		return "", ErrEmpty
	}
	return m.text, nil
}

// WriteText replaces the stored text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// SDL uses the SDL2 clipboard. SDL's video subsystem must be initialized
// before use, either by the preview window or by Open.
type SDL struct {
	owned bool
}

// OpenSDL initializes SDL's video subsystem for clipboard access only. Call
// Close when done.
func OpenSDL() (*SDL, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL_InitSubSystem failed: %w", err)
	}
	return &SDL{owned: true}, nil
}

// AttachSDL uses an SDL instance that someone else initialized.
func AttachSDL() *SDL {
	return &SDL{}
}

// ReadText returns the clipboard text.
func (c *SDL) ReadText() (string, error) {
	if !sdl.HasClipboardText() {
		return "", ErrEmpty
	}
	text, err := sdl.GetClipboardText()
	if err != nil {
		return "", fmt.Errorf("SDL_GetClipboardText failed: %w", err)
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// WriteText replaces the clipboard text.
func (c *SDL) WriteText(text string) error {
	if err := sdl.SetClipboardText(text); err != nil {
		return fmt.Errorf("SDL_SetClipboardText failed: %w", err)
	}
	return nil
}

// Close releases the video subsystem if OpenSDL initialized it.
func (c *SDL) Close() {
	if c.owned {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		c.owned = false
	}
}
