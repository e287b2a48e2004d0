package palette

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/saturn-colors/pkg/colormath"
)

// RandomMode selects how random primaries are picked.
type RandomMode string

const (
	// RandomUniform draws any 24-bit color.
	RandomUniform RandomMode = "uniform"
	// RandomHSV draws a random hue with saturation and value kept high
	// enough to avoid muddy colors.
	RandomHSV RandomMode = "hsv"
)

// ParseRandomMode validates a mode name. An empty name means RandomUniform.
func ParseRandomMode(s string) (RandomMode, error) {
	switch RandomMode(s) {
	case "", RandomUniform:
		return RandomUniform, nil
	case RandomHSV:
		return RandomHSV, nil
	}
	return "", fmt.Errorf("unknown random mode %q", s)
}

// RandomColor draws one primary color.
func RandomColor(mode RandomMode, rng *rand.Rand) colormath.Color {
	if mode == RandomHSV {
		h := rng.Float64() * 360
		s := 0.55 + rng.Float64()*0.45
		v := 0.45 + rng.Float64()*0.55
		r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
		return colormath.FromChannels(r, g, b)
	}
	return colormath.Color(rng.Uint32N(colormath.Mask + 1))
}

// Randomize returns p with a random primary, and the matching derived
// ambient, for every slot except Face.
func Randomize(p Palette, mode RandomMode, rng *rand.Rand) Palette {
	for _, s := range Slots() {
		if s == Face {
			continue
		}
		c := RandomColor(mode, rng)
		p[s] = Entry{Primary: c, Ambient: colormath.DeriveAmbient(c)}
	}
	return p
}
