package palette

import (
	"math/rand/v2"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/saturn-colors/pkg/colormath"
)

func TestDefault(t *testing.T) {
	p := Default()
	tests := []struct {
		slot             Slot
		primary, ambient colormath.Color
	}{
		{Hat, 0xFF0000, 0x7F0000},
		{Hair, 0x730600, 0x390300},
		{Gloves, 0xFFFFFF, 0x7F7F7F},
		{Overall, 0x0000FF, 0x00007F},
		{Shoes, 0x721C0E, 0x390E07},
		{Face, 0xFEC179, 0x7F603C},
	}
	for _, tt := range tests {
		e := p.Entry(tt.slot)
		if e.Primary != tt.primary || e.Ambient != tt.ambient {
			t.Errorf("%s = %v/%v, want %v/%v", tt.slot, e.Primary, e.Ambient, tt.primary, tt.ambient)
		}
	}
}

func TestSlotOrder(t *testing.T) {
	var names []string
	for _, s := range Slots() {
		names = append(names, s.String())
	}
	if got := strings.Join(names, ","); got != "Hat,Hair,Gloves,Overall,Shoes,Face" {
		t.Errorf("slot order = %s", got)
	}
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("overall")
	if err != nil || s != Overall {
		t.Errorf("ParseSlot(overall) = %v, %v", s, err)
	}
	if _, err := ParseSlot("Cape"); err == nil {
		t.Error("expected error for unknown slot")
	}
}

func TestSetColorMasks(t *testing.T) {
	p := Default()
	p.SetColor(Gloves, Ambient, colormath.Color(0xFF123456))
	if got := p.Color(Gloves, Ambient); got != 0x123456 {
		t.Errorf("Color = %v, want #123456", got)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	p := Default()
	p[Hair].Primary = 0x00AA55
	data, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	if strings.Index(text, "Hat:") > strings.Index(text, "Face:") {
		t.Errorf("slots not in export order:\n%s", text)
	}
	if !strings.Contains(text, "#00aa55") {
		t.Errorf("missing hair color:\n%s", text)
	}

	var got Palette
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != p {
		t.Errorf("YAML round trip = %v, want %v", got, p)
	}
}

func TestYAMLMergesPartialDocument(t *testing.T) {
	p := Default()
	doc := "shoes:\n  primary: \"#102030\"\n"
	if err := yaml.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Default()
	want[Shoes].Primary = 0x102030
	if p != want {
		t.Errorf("merged palette = %v, want %v", p, want)
	}
}

func TestYAMLRejectsBadInput(t *testing.T) {
	docs := []string{
		"Cape:\n  primary: \"#102030\"\n",
		"Hat:\n  primary: \"#1020\"\n",
		"Hat:\n  ambient: red\n",
	}
	for _, doc := range docs {
		p := Default()
		if err := yaml.Unmarshal([]byte(doc), &p); err == nil {
			t.Errorf("expected error for %q", doc)
		}
		if p != Default() {
			t.Errorf("failed unmarshal modified the palette for %q", doc)
		}
	}
}

func TestRandomize(t *testing.T) {
	for _, mode := range []RandomMode{RandomUniform, RandomHSV} {
		rng := rand.New(rand.NewPCG(3, 4))
		p := Randomize(Default(), mode, rng)
		if p[Face] != Default()[Face] {
			t.Errorf("%s: Face was randomized", mode)
		}
		for _, s := range Slots() {
			if s == Face {
				continue
			}
			if p[s].Ambient != colormath.DeriveAmbient(p[s].Primary) {
				t.Errorf("%s: %s ambient %v is not derived from %v", mode, s, p[s].Ambient, p[s].Primary)
			}
		}
	}
}

func TestRandomizeDeterministic(t *testing.T) {
	a := Randomize(Default(), RandomUniform, rand.New(rand.NewPCG(9, 9)))
	b := Randomize(Default(), RandomUniform, rand.New(rand.NewPCG(9, 9)))
	if a != b {
		t.Error("same seed produced different palettes")
	}
}

func TestParseRandomMode(t *testing.T) {
	if m, err := ParseRandomMode(""); err != nil || m != RandomUniform {
		t.Errorf("ParseRandomMode(\"\") = %v, %v", m, err)
	}
	if m, err := ParseRandomMode("hsv"); err != nil || m != RandomHSV {
		t.Errorf("ParseRandomMode(hsv) = %v, %v", m, err)
	}
	if _, err := ParseRandomMode("pastel"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestAccessorsOnReturnedValue(t *testing.T) {
	get := func() Palette { return Default() }
	if got := get().Color(Hat, Ambient); got != 0x7F0000 {
		t.Errorf("Color(Hat, Ambient) = %v, want #7f0000", got)
	}
	if got := get().Entry(Face); got != (Entry{Primary: 0xFEC179, Ambient: 0x7F603C}) {
		t.Errorf("Entry(Face) = %+v", got)
	}
}
