// Package skin recolors a model's named materials from a palette.
package skin

import (
	"github.com/Faultbox/saturn-colors/pkg/model"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// EmissiveIntensity is how strongly the primary color glows over the
// ambient base.
const EmissiveIntensity = 0.3

// Material is a recolorable surface.
type Material interface {
	SetLambert(base, emissive [3]float32, intensity float32)
}

// Scene exposes the named materials of a loaded model.
type Scene interface {
	ForEachNamedMaterial(visit func(name string, m Material))
}

// Apply recolors every material whose name matches a slot and returns how
// many material references were changed. Other materials are left alone.
func Apply(scene Scene, p palette.Palette) int {
	n := 0
	scene.ForEachNamedMaterial(func(name string, m Material) {
		s, err := palette.ParseSlot(name)
		if err != nil {
			return
		}
		e := p.Entry(s)
		m.SetLambert(e.Ambient.Float(), e.Primary.Float(), EmissiveIntensity)
		n++
	})
	return n
}

// Unmatched lists material names that do not correspond to any slot.
func Unmatched(scene Scene) []string {
	var names []string
	seen := make(map[string]bool)
	scene.ForEachNamedMaterial(func(name string, _ Material) {
		if _, err := palette.ParseSlot(name); err == nil || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})
	return names
}

// Model adapts a loaded glTF model to Scene.
func Model(doc *model.Document) Scene {
	return modelScene{doc: doc}
}

type modelScene struct {
	doc *model.Document
}

func (g modelScene) ForEachNamedMaterial(visit func(name string, m Material)) {
	g.doc.ForEachNamedMaterial(func(name string, m *model.Material) {
		visit(name, m)
	})
}
