package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/saturn-colors/pkg/colormath"
)

// Code parsing errors.
var (
	ErrEmpty         = errors.New("empty code")
	ErrMalformedLine = errors.New("malformed code line")
)

// LineError reports the first line of a code block that failed to parse.
type LineError struct {
	Line int // 1-based
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v %d: %q", ErrMalformedLine, e.Line, e.Text)
}

// Unwrap lets errors.Is match ErrMalformedLine.
func (e *LineError) Unwrap() error {
	return ErrMalformedLine
}

// Write is a single 16-bit memory patch.
type Write struct {
	Address uint32
	Value   uint16
}

// String formats the write as "AAAAAAAA VVVV".
func (w Write) String() string {
	return fmt.Sprintf("%08X %04X", w.Address, w.Value)
}

// lineLen is len("AAAAAAAA VVVV").
const lineLen = 8 + 1 + 4

// ParseWrite parses one "AAAAAAAA VVVV" line. Hex digits may be in either
// case; widths and the single space separator are fixed.
func ParseWrite(line string) (Write, bool) {
	if len(line) != lineLen || line[8] != ' ' {
		return Write{}, false
	}
	addr, ok := parseHexWord(line[:8])
	if !ok {
		return Write{}, false
	}
	val, ok := parseHexWord(line[9:])
	if !ok {
		return Write{}, false
	}
	return Write{Address: addr, Value: uint16(val)}, true
}

func parseHexWord(s string) (uint32, bool) {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		default:
			return 0, false
		}
		v = v<<4 | uint32(d)
	}
	return v, true
}

// Codec converts palettes to and from code text using one address table.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	table *Table
}

// NewCodec returns a codec for the given table.
func NewCodec(t *Table) *Codec {
	return &Codec{table: t}
}

// Table returns the codec's address table.
func (c *Codec) Table() *Table {
	return c.table
}

// Writes lists the patches for p: slots in export order, primary before
// ambient, RRGG word before BB00 word.
func (c *Codec) Writes(p Palette) []Write {
	writes := make([]Write, 0, SlotCount*FieldCount*wordsPerColor)
	for _, s := range Slots() {
		for _, f := range []Field{Primary, Ambient} {
			addr := c.table.Address(s, f)
			r, g, b := p[s].Get(f).Channels()
			writes = append(writes,
				Write{Address: addr, Value: uint16(r)<<8 | uint16(g)},
				Write{Address: addr + 2, Value: uint16(b) << 8},
			)
		}
	}
	return writes
}

// Encode renders p as newline-separated code lines with no trailing newline.
func (c *Codec) Encode(p Palette) string {
	writes := c.Writes(p)
	var sb strings.Builder
	sb.Grow(len(writes) * (lineLen + 1))
	for i, w := range writes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(w.String())
	}
	return sb.String()
}

// Decode parses a code block on top of the default palette.
func (c *Codec) Decode(text string) (Palette, error) {
	return c.DecodeOnto(Default(), text)
}

// DecodeOnto parses a code block on top of base. Lines for addresses outside
// the table are skipped. Any malformed line fails the whole block and base
// is returned unchanged.
func (c *Codec) DecodeOnto(base Palette, text string) (Palette, error) {
	writes, err := ParseWrites(text)
	if err != nil {
		return base, err
	}
	p := base
	for _, w := range writes {
		c.apply(&p, w)
	}
	return p, nil
}

// ParseWrites splits a code block into writes. Blank lines before the first
// write and after the last one are skipped, and CRLF line endings are
// tolerated. Every other line must be a valid write, whitespace included.
// Line numbers in errors count from the start of text.
func ParseWrites(text string) ([]Write, error) {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	first, last := 0, len(lines)-1
	for first <= last && isBlank(lines[first]) {
		first++
	}
	for last >= first && isBlank(lines[last]) {
		last--
	}
	if first > last {
		return nil, ErrEmpty
	}

	writes := make([]Write, 0, last-first+1)
	for i := first; i <= last; i++ {
		w, ok := ParseWrite(lines[i])
		if !ok {
			return nil, &LineError{Line: i + 1, Text: lines[i]}
		}
		writes = append(writes, w)
	}
	return writes, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func (c *Codec) apply(p *Palette, w Write) {
	loc, word, ok := c.table.Lookup(w.Address)
	if !ok {
		return
	}
	r, g, b := p[loc.Slot].Get(loc.Field).Channels()
	switch word {
	case 0:
		r, g = uint8(w.Value>>8), uint8(w.Value)
	case 1:
		b = uint8(w.Value >> 8)
	}
	p[loc.Slot].Set(loc.Field, colormath.FromChannels(r, g, b))
}

var defaultCodec = NewCodec(TableSM64US)

// Encode renders p with the US address table.
func Encode(p Palette) string {
	return defaultCodec.Encode(p)
}

// Decode parses text with the US address table on top of Default().
func Decode(text string) (Palette, error) {
	return defaultCodec.Decode(text)
}

// DecodeOnto parses text with the US address table on top of base.
func DecodeOnto(base Palette, text string) (Palette, error) {
	return defaultCodec.DecodeOnto(base, text)
}
