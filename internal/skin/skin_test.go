package skin

import (
	"testing"

	"github.com/Faultbox/saturn-colors/pkg/model"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

type fakeMaterial struct {
	base, emissive [3]float32
	intensity      float32
	calls          int
}

func (m *fakeMaterial) SetLambert(base, emissive [3]float32, intensity float32) {
	m.base, m.emissive, m.intensity = base, emissive, intensity
	m.calls++
}

type fakeScene map[string]*fakeMaterial

func (s fakeScene) ForEachNamedMaterial(visit func(name string, m Material)) {
	for name, m := range s {
		visit(name, m)
	}
}

func TestApply(t *testing.T) {
	scene := fakeScene{
		"Hat":   {},
		"Face":  {},
		"Belt":  {},
		"Shoes": {},
	}
	p := palette.Default()
	n := Apply(scene, p)
	if n != 3 {
		t.Errorf("Apply changed %d materials, want 3", n)
	}
	hat := scene["Hat"]
	if hat.base != [3]float32{127.0 / 255, 0, 0} {
		t.Errorf("Hat base = %v", hat.base)
	}
	if hat.emissive != [3]float32{1, 0, 0} {
		t.Errorf("Hat emissive = %v", hat.emissive)
	}
	if hat.intensity != EmissiveIntensity {
		t.Errorf("Hat intensity = %v", hat.intensity)
	}
	if scene["Belt"].calls != 0 {
		t.Error("unmatched material was recolored")
	}
}

func TestUnmatched(t *testing.T) {
	scene := fakeScene{"Hat": {}, "Belt": {}}
	got := Unmatched(scene)
	if len(got) != 1 || got[0] != "Belt" {
		t.Errorf("Unmatched = %v, want [Belt]", got)
	}
}

func TestApplyModel(t *testing.T) {
	js := `{"asset":{"version":"2.0"},"nodes":[{"mesh":0}],` +
		`"meshes":[{"primitives":[{"material":0},{"material":1}]}],` +
		`"materials":[{"name":"Overall"},{"name":"Buttons"}]}`
	doc, err := model.Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := palette.Default()
	if n := Apply(Model(doc), p); n != 1 {
		t.Errorf("Apply changed %d materials, want 1", n)
	}
	overall := doc.Materials[0]
	if got := overall.BaseColor(); got != [4]float32{0, 0, 127.0 / 255, 1} {
		t.Errorf("Overall base = %v", got)
	}
	if got := overall.Emissive(); got[2] != float32(EmissiveIntensity) {
		t.Errorf("Overall emissive = %v", got)
	}
	if doc.Materials[1].BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Error("Buttons material was recolored")
	}
}
