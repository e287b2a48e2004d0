package palette

import (
	"fmt"
	"strings"
)

// Slot identifies one recolorable part of the character. The declaration
// order is the order slots are written in exported codes.
type Slot int

const (
	Hat Slot = iota
	Hair
	Gloves
	Overall
	Shoes
	Face

	SlotCount = int(Face) + 1
)

var slotNames = [SlotCount]string{"Hat", "Hair", "Gloves", "Overall", "Shoes", "Face"}

// Slots returns every slot in export order.
func Slots() []Slot {
	return []Slot{Hat, Hair, Gloves, Overall, Shoes, Face}
}

// String returns the slot name as used for model material names.
func (s Slot) String() string {
	if s.Valid() {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// Label is the caption shown next to the slot in editors. The hat color also
// tints the shirt on the model.
func (s Slot) Label() string {
	if s == Hat {
		return "Hat / Body"
	}
	return s.String()
}

// Valid reports whether s is one of the six known slots.
func (s Slot) Valid() bool {
	return s >= Hat && s <= Face
}

// ParseSlot resolves a slot name, ignoring case.
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if strings.EqualFold(n, name) {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", name)
}

// Field selects one of the two colors held by a slot.
type Field int

const (
	Primary Field = iota // light / emissive color
	Ambient              // shade color

	FieldCount = int(Ambient) + 1
)

// String returns "primary" or "ambient".
func (f Field) String() string {
	switch f {
	case Primary:
		return "primary"
	case Ambient:
		return "ambient"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField resolves "primary" or "ambient", ignoring case.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(name) {
	case "primary", "color":
		return Primary, nil
	case "ambient", "shade":
		return Ambient, nil
	}
	return 0, fmt.Errorf("unknown field %q", name)
}
