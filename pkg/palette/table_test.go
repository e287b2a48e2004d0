package palette

import "testing"

func TestTableSM64USLookup(t *testing.T) {
	for _, s := range Slots() {
		for _, f := range []Field{Primary, Ambient} {
			addr := TableSM64US.Address(s, f)
			for w := 0; w < 2; w++ {
				loc, word, ok := TableSM64US.Lookup(addr + uint32(2*w))
				if !ok {
					t.Fatalf("%s %s word %d not found", s, f, w)
				}
				if loc != (Location{s, f}) || word != w {
					t.Errorf("Lookup(%08X) = %v word %d, want %s %s word %d",
						addr+uint32(2*w), loc, word, s, f, w)
				}
			}
		}
	}
	if _, _, ok := TableSM64US.Lookup(0x8107EC24); ok {
		t.Error("Lookup(8107EC24) should not resolve")
	}
}

func TestNewTableRejectsOverlap(t *testing.T) {
	addrs := TableSM64US.addrs
	addrs[Hair][Primary] = addrs[Hat][Primary] + 2
	if _, err := NewTable("bad", addrs); err == nil {
		t.Error("expected overlap error")
	}
}

func TestNewTableRejectsOddAddress(t *testing.T) {
	addrs := TableSM64US.addrs
	addrs[Face][Ambient] = 0x8107EC81
	if _, err := NewTable("bad", addrs); err == nil {
		t.Error("expected alignment error")
	}
}

func TestLookupTable(t *testing.T) {
	tbl, err := LookupTable("sm64-us")
	if err != nil {
		t.Fatalf("LookupTable: %v", err)
	}
	if tbl != TableSM64US {
		t.Error("LookupTable returned a different table")
	}
	if _, err := LookupTable("sm64-jp"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestCustomTableCodec(t *testing.T) {
	var addrs [SlotCount][FieldCount]uint32
	for i := range addrs {
		addrs[i][Primary] = 0x81000000 + uint32(i*8)
		addrs[i][Ambient] = 0x81000000 + uint32(i*8) + 4
	}
	tbl, err := NewTable("test", addrs)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	c := NewCodec(tbl)
	p := Default()
	p[Shoes].Ambient = 0x0A0B0C
	got, err := c.Decode(c.Encode(p))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}
