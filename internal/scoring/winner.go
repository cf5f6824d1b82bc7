// Winner resolution: MEAT score and panel rating combine into a final
// score; the maximum wins with a deterministic, total tie-break
// cascade.
package scoring

import (
	"github.com/okranz/tender-arena/internal/entropy"
)

// Weight split between the objective MEAT score and the subjective
// panel rating. The two terms combine on their native scales, so the
// 1-10 rating dominates the ordering unless MEAT scores separate the
// pool strongly.
const (
	meatWeight   = 0.6
	ratingWeight = 0.4
)

// FinalScores combines MEAT scores with mean evaluator ratings.
func FinalScores(meatScores, meanRatings []float64) []float64 {
	scores := make([]float64, len(meatScores))
	for i := range meatScores {
		scores[i] = meatScores[i]*meatWeight + meanRatings[i]*ratingWeight
	}
	return scores
}

// ResolveWinner returns the index of the winning bidder, or -1 for an
// empty pool. Ties on final score are broken by highest experience,
// then lowest bid; a full tie falls to a uniform random choice, still
// reproducible under a fixed seed.
func ResolveWinner(finalScores []float64, entries []Entry, rng *entropy.Source) int {
	if len(finalScores) == 0 || len(finalScores) != len(entries) {
		return -1
	}

	// Max final score.
	best := []int{0}
	for i := 1; i < len(finalScores); i++ {
		switch {
		case finalScores[i] > finalScores[best[0]]:
			best = []int{i}
		case finalScores[i] == finalScores[best[0]]:
			best = append(best, i)
		}
	}
	if len(best) == 1 {
		return best[0]
	}

	// Highest experience among max-score bidders.
	best = filterMax(best, func(i int) float64 { return entries[i].Experience })
	if len(best) == 1 {
		return best[0]
	}

	// Lowest bid.
	best = filterMax(best, func(i int) float64 { return -entries[i].Bid })
	if len(best) == 1 {
		return best[0]
	}

	return best[rng.Intn(len(best))]
}

// filterMax keeps the candidate indices maximizing key.
func filterMax(candidates []int, key func(int) float64) []int {
	kept := []int{candidates[0]}
	for _, i := range candidates[1:] {
		switch {
		case key(i) > key(kept[0]):
			kept = []int{i}
		case key(i) == key(kept[0]):
			kept = append(kept, i)
		}
	}
	return kept
}
