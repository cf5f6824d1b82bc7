// Market climate: a smooth per-round demand index derived from simplex
// noise over the round axis. Purely observational color for the
// reporting layer; it never feeds bidding, scoring, or learning.
package engine

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// climateFrequency controls how fast the demand index drifts. Lower
// values give multi-round weather-like trends instead of flicker.
const climateFrequency = 0.05

// Climate generates the demand index series. Deterministic per seed.
type Climate struct {
	noise opensimplex.Noise
}

// NewClimate creates a climate generator from the run seed.
func NewClimate(seed int64) *Climate {
	return &Climate{noise: opensimplex.NewNormalized(seed)}
}

// Index returns the demand index for a round, in [0, 1].
func (c *Climate) Index(round int) float64 {
	return c.noise.Eval2(float64(round)*climateFrequency, 0)
}
