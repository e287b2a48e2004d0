package preview

import (
	"github.com/Faultbox/saturn-colors/internal/skin"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// Rect is a pixel rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H int
}

// Inset shrinks r by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// Column is what a swatch shows.
type Column int

const (
	ColumnPrimary Column = iota
	ColumnAmbient
	ColumnShaded // approximate on-model color

	columnCount = int(ColumnShaded) + 1
)

// Swatch is one colored cell of the preview grid.
type Swatch struct {
	Slot   palette.Slot
	Column Column
	Rect   Rect
}

const (
	margin = 12
	gap    = 6
)

// Layout splits a window into one row per slot and one column per Column.
func Layout(width, height int) []Swatch {
	rows := palette.SlotCount
	cellW := (width - 2*margin - (columnCount-1)*gap) / columnCount
	cellH := (height - 2*margin - (rows-1)*gap) / rows
	if cellW < 1 || cellH < 1 {
		return nil
	}

	swatches := make([]Swatch, 0, rows*columnCount)
	for row, s := range palette.Slots() {
		for col := 0; col < columnCount; col++ {
			swatches = append(swatches, Swatch{
				Slot:   s,
				Column: Column(col),
				Rect: Rect{
					X: margin + col*(cellW+gap),
					Y: margin + row*(cellH+gap),
					W: cellW,
					H: cellH,
				},
			})
		}
	}
	return swatches
}

// SwatchColor returns the RGB a swatch is filled with.
func SwatchColor(e palette.Entry, c Column) [3]float32 {
	switch c {
	case ColumnPrimary:
		return e.Primary.Float()
	case ColumnAmbient:
		return e.Ambient.Float()
	}
	base, glow := e.Ambient.Float(), e.Primary.Float()
	var out [3]float32
	for i := range out {
		v := base[i] + glow[i]*skin.EmissiveIntensity
		if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}
