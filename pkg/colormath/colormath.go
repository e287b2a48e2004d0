// Package colormath converts between packed 24-bit RGB values, channel
// triples and the hex text forms used by palette files and color pickers.
package colormath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned when hex color text cannot be parsed.
var ErrFormat = errors.New("invalid hex color")

// Mask keeps the low 24 bits of a packed color.
const Mask = 0xFFFFFF

// Color is a packed 0xRRGGBB value. Bits above 24 are ignored.
type Color uint32

// New masks v into the 24-bit color domain.
func New(v uint32) Color {
	return Color(v & Mask)
}

// FromChannels packs three 8-bit channels.
func FromChannels(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels splits c into its red, green and blue bytes.
func (c Color) Channels() (r, g, b uint8) {
	v := uint32(c) & Mask
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Channels is the function form of Color.Channels.
func Channels(c Color) (r, g, b uint8) {
	return c.Channels()
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&Mask)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// RGBA implements color.Color with full opacity.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.Channels()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xffff
}

// Float returns the channels scaled to [0, 1], as renderers expect them.
func (c Color) Float() [3]float32 {
	r, g, b := c.Channels()
	return [3]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

// ParseHex parses "#RRGGBB" or "0xRRGGBB". Digits may be in either case, but
// there must be exactly six of them after the prefix.
func ParseHex(s string) (Color, error) {
	digits := s
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	default:
		return 0, fmt.Errorf("%w %q: missing # or 0x prefix", ErrFormat, s)
	}
	if len(digits) != 6 {
		return 0, fmt.Errorf("%w %q: want 6 hex digits, got %d", ErrFormat, s, len(digits))
	}
	// ParseUint would accept a sign or underscores; reject them first.
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return 0, fmt.Errorf("%w %q: bad digit %q", ErrFormat, s, digits[i])
		}
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrFormat, s, err)
	}
	return Color(v), nil
}

// DeriveAmbient dims a color into its shade companion: each channel becomes
// round((ch+1)/2), rounding halves up.
func DeriveAmbient(c Color) Color {
	r, g, b := c.Channels()
	return FromChannels(halve(r), halve(g), halve(b))
}

func halve(ch uint8) uint8 {
	v := (int(ch) + 2) / 2
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
