// The simulated evaluator panel. Each evaluator converts a normalized
// MEAT score into a 1-10 rating with an attitude bias and expertise
// noise. Ratings are produced per bidder per round and never retained.
package scoring

import (
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/mathx"
)

// Attitude is an evaluator's fixed rating temperament.
type Attitude uint8

const (
	Medium Attitude = iota
	Extreme
)

// Evaluator is one member of the scoring panel. Attitude and expertise
// are fixed at creation.
type Evaluator struct {
	Attitude  Attitude `json:"attitude"`
	Expertise float64  `json:"expertise"` // 0-1; lower means noisier ratings
}

// NewPanel builds a panel of n evaluators. Roughly a third of the panel
// is extreme; expertise is drawn from [0.5, 1.0).
func NewPanel(n int, rng *entropy.Source) []Evaluator {
	panel := make([]Evaluator, n)
	for i := range panel {
		attitude := Medium
		if rng.Intn(3) == 0 {
			attitude = Extreme
		}
		panel[i] = Evaluator{
			Attitude:  attitude,
			Expertise: rng.Range(0.5, 1.0),
		}
	}
	return panel
}

// Rate maps a MEAT score in [0,1] to a rating in [1,10], applying the
// evaluator's attitude bias and expertise noise.
func (e Evaluator) Rate(meatScore float64, rng *entropy.Source) float64 {
	rating := 1 + meatScore*9

	// Extreme evaluators exaggerate: strong offers get stronger,
	// weak offers get weaker.
	if e.Attitude == Extreme {
		if rating > 7 {
			rating *= 1.2
		} else if rating < 4 {
			rating *= 0.8
		}
	}

	noiseBand := (1 - e.Expertise) * 0.3
	rating *= rng.Jitter(noiseBand)

	return mathx.Clamp(rating, 1, 10)
}

// PanelRatings runs every evaluator over every bidder's MEAT score and
// returns the mean rating per bidder, in input order.
func PanelRatings(panel []Evaluator, meatScores []float64, rng *entropy.Source) []float64 {
	means := make([]float64, len(meatScores))
	if len(panel) == 0 {
		return means
	}
	for i, score := range meatScores {
		total := 0.0
		for _, ev := range panel {
			total += ev.Rate(score, rng)
		}
		means[i] = total / float64(len(panel))
	}
	return means
}
