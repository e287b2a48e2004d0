package server

import (
	"fmt"

	"github.com/Faultbox/saturn-colors/pkg/colormath"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// SlotJSON is one slot on the wire. Colors are "#rrggbb".
type SlotJSON struct {
	Name    string `json:"name"`
	Label   string `json:"label,omitempty"`
	Primary string `json:"primary,omitempty"`
	Ambient string `json:"ambient,omitempty"`
}

// PaletteJSON is a palette on the wire, in export order.
type PaletteJSON struct {
	Slots []SlotJSON `json:"slots"`
	Code  string     `json:"code,omitempty"`
}

// Message is a WebSocket frame in either direction.
type Message struct {
	Type    string       `json:"type"`
	Palette *PaletteJSON `json:"palette,omitempty"`
	Slot    string       `json:"slot,omitempty"`
	Field   string       `json:"field,omitempty"`
	Color   string       `json:"color,omitempty"`
	Code    string       `json:"code,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Message types.
const (
	TypePalette = "palette" // server → client: current palette
	TypeError   = "error"   // server → client: request failed
	TypeSet     = "set"     // client → server: slot, field, color
	TypeRandom  = "random"
	TypeLucky   = "lucky"
	TypeReset   = "reset"
	TypeImport  = "import" // client → server: code
)

func toJSON(p palette.Palette, codec *palette.Codec) PaletteJSON {
	out := PaletteJSON{
		Slots: make([]SlotJSON, 0, palette.SlotCount),
		Code:  codec.Encode(p),
	}
	for _, s := range palette.Slots() {
		out.Slots = append(out.Slots, SlotJSON{
			Name:    s.String(),
			Label:   s.Label(),
			Primary: p[s].Primary.Hex(),
			Ambient: p[s].Ambient.Hex(),
		})
	}
	return out
}

// applyJSON merges the slots in in onto base. Missing slots and empty colors
// keep base values.
func applyJSON(base palette.Palette, in PaletteJSON) (palette.Palette, error) {
	p := base
	for _, sj := range in.Slots {
		s, err := palette.ParseSlot(sj.Name)
		if err != nil {
			return base, err
		}
		for _, fc := range []struct {
			field palette.Field
			text  string
		}{
			{palette.Primary, sj.Primary},
			{palette.Ambient, sj.Ambient},
		} {
			if fc.text == "" {
				continue
			}
			c, err := colormath.ParseHex(fc.text)
			if err != nil {
				return base, fmt.Errorf("%s %s: %w", s, fc.field, err)
			}
			p.SetColor(s, fc.field, c)
		}
	}
	return p, nil
}
