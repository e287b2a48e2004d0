// Package palette holds the six-slot character palette and converts it to and
// from GameShark memory-patch codes.
package palette

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/saturn-colors/pkg/colormath"
)

// Entry is the pair of colors assigned to a slot.
type Entry struct {
	Primary colormath.Color
	Ambient colormath.Color
}

// Get returns the color stored in field f.
func (e Entry) Get(f Field) colormath.Color {
	if f == Ambient {
		return e.Ambient
	}
	return e.Primary
}

// Set replaces the color stored in field f.
func (e *Entry) Set(f Field, c colormath.Color) {
	c = colormath.New(uint32(c))
	if f == Ambient {
		e.Ambient = c
		return
	}
	e.Primary = c
}

// Palette is a complete set of slot colors, indexed by Slot. It is a value
// type: assigning it takes a snapshot.
type Palette [SlotCount]Entry

// Default returns the stock character colors.
func Default() Palette {
	return Palette{
		Hat:     {Primary: 0xFF0000, Ambient: 0x7F0000},
		Hair:    {Primary: 0x730600, Ambient: 0x390300},
		Gloves:  {Primary: 0xFFFFFF, Ambient: 0x7F7F7F},
		Overall: {Primary: 0x0000FF, Ambient: 0x00007F},
		Shoes:   {Primary: 0x721C0E, Ambient: 0x390E07},
		Face:    {Primary: 0xFEC179, Ambient: 0x7F603C},
	}
}

// Entry returns the colors of slot s.
func (p Palette) Entry(s Slot) Entry {
	return p[s]
}

// Color returns one color of slot s.
func (p Palette) Color(s Slot, f Field) colormath.Color {
	return p[s].Get(f)
}

// SetColor replaces one color of slot s.
func (p *Palette) SetColor(s Slot, f Field, c colormath.Color) {
	p[s].Set(f, c)
}

type entryYAML struct {
	Primary string `yaml:"primary,omitempty"`
	Ambient string `yaml:"ambient,omitempty"`
}

// MarshalYAML writes the palette as a mapping of slot names to hex colors,
// keeping export order.
func (p Palette) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range Slots() {
		var val yaml.Node
		if err := val.Encode(entryYAML{
			Primary: p[s].Primary.Hex(),
			Ambient: p[s].Ambient.Hex(),
		}); err != nil {
			return nil, err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.String()},
			&val,
		)
	}
	return root, nil
}

// UnmarshalYAML merges a slot mapping into p. Slots or fields missing from
// the document keep their current colors.
func (p *Palette) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]entryYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	next := *p
	for name, e := range raw {
		s, err := ParseSlot(name)
		if err != nil {
			return err
		}
		if e.Primary != "" {
			c, err := colormath.ParseHex(e.Primary)
			if err != nil {
				return fmt.Errorf("%s primary: %w", s, err)
			}
			next[s].Primary = c
		}
		if e.Ambient != "" {
			c, err := colormath.ParseHex(e.Ambient)
			if err != nil {
				return fmt.Errorf("%s ambient: %w", s, err)
			}
			next[s].Ambient = c
		}
	}
	*p = next
	return nil
}
