package palette

import (
	"fmt"
	"sort"
)

// A color occupies two consecutive 16-bit words: RRGG at the field address
// and BB00 at address+2.
const wordsPerColor = 2

// Location names the color a memory address belongs to.
type Location struct {
	Slot  Slot
	Field Field
}

type target struct {
	loc  Location
	word int
}

// Table maps each slot color to the memory address the game reads it from.
type Table struct {
	name  string
	addrs [SlotCount][FieldCount]uint32
	index map[uint32]target
}

// TableSM64US is Mario's light table in the US ROM: one 0x18-byte block per
// part starting at 0x8107EC20, shade color first, light color at +8.
var TableSM64US = mustTable("sm64-us", [SlotCount][FieldCount]uint32{
	Hat:     {0x8107EC40, 0x8107EC38},
	Hair:    {0x8107ECA0, 0x8107EC98},
	Gloves:  {0x8107EC58, 0x8107EC50},
	Overall: {0x8107EC28, 0x8107EC20},
	Shoes:   {0x8107EC70, 0x8107EC68},
	Face:    {0x8107EC88, 0x8107EC80},
})

var tables = map[string]*Table{
	TableSM64US.name: TableSM64US,
}

// LookupTable returns a registered table by name.
func LookupTable(name string) (*Table, error) {
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown address table %q (known: %v)", name, TableNames())
	}
	return t, nil
}

// TableNames lists the registered table names, sorted.
func TableNames() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewTable builds a table from per-slot, per-field addresses. Every color
// needs its own pair of words, so addresses must be even and must not overlap.
func NewTable(name string, addrs [SlotCount][FieldCount]uint32) (*Table, error) {
	t := &Table{
		name:  name,
		addrs: addrs,
		index: make(map[uint32]target, SlotCount*FieldCount*wordsPerColor),
	}
	for s := range addrs {
		for f := range addrs[s] {
			base := addrs[s][f]
			if base%2 != 0 {
				return nil, fmt.Errorf("table %s: %s %s address %08X is not word aligned",
					name, Slot(s), Field(f), base)
			}
			for w := 0; w < wordsPerColor; w++ {
				addr := base + uint32(2*w)
				if prev, ok := t.index[addr]; ok {
					return nil, fmt.Errorf("table %s: address %08X used by both %s %s and %s %s",
						name, addr, prev.loc.Slot, prev.loc.Field, Slot(s), Field(f))
				}
				t.index[addr] = target{loc: Location{Slot(s), Field(f)}, word: w}
			}
		}
	}
	return t, nil
}

func mustTable(name string, addrs [SlotCount][FieldCount]uint32) *Table {
	t, err := NewTable(name, addrs)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table's registered name.
func (t *Table) Name() string {
	return t.name
}

// Address returns the first word address of a slot color.
func (t *Table) Address(s Slot, f Field) uint32 {
	return t.addrs[s][f]
}

// Lookup resolves an address back to its slot color and word index.
func (t *Table) Lookup(addr uint32) (loc Location, word int, ok bool) {
	tg, ok := t.index[addr]
	return tg.loc, tg.word, ok
}
