package graph

import (
	"math"

	"github.com/sociogram-live/influence-lab/internal/channels"
)

// maxDominantStrength caps how much of the base color the dominant channel
// contributes, so even a single-channel node stays slightly below full
// saturation.
const maxDominantStrength = 0.8

// secondaryFactor scales the contribution of non-dominant channels to half
// of their share.
const secondaryFactor = 0.5

// BlendColor maps a raw embedding vector to one display color. The blend is
// deliberately saturation-biased rather than a weighted average: the
// dominant channel sets the base hue at up to maxDominantStrength of its
// full color, and every other active channel adds half its proportional
// share on top. A zero vector gets the neutral gray.
func BlendColor(v Vector) channels.RGB {
	total := v.Total()
	if total == 0 {
		return channels.Neutral
	}

	dominant, _ := v.Dominant()
	strength := math.Min(maxDominantStrength, float64(v[dominant])/float64(total))

	base := channels.ColorOf(dominant)
	r := float64(base.R) * strength
	g := float64(base.G) * strength
	b := float64(base.B) * strength

	for _, d := range channels.All() {
		if d.ID == dominant || v[d.ID] <= 0 {
			continue
		}
		share := float64(v[d.ID]) / float64(total) * secondaryFactor
		r += float64(d.Color.R) * share
		g += float64(d.Color.G) * share
		b += float64(d.Color.B) * share
	}

	return channels.RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(f float64) int {
	v := int(math.Round(f))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
