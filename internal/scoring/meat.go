// Package scoring implements MEAT (Most Economically Advantageous
// Tender) evaluation: criterion normalization across the bidder pool,
// the simulated evaluator panel, and winner resolution.
package scoring

import (
	"github.com/okranz/tender-arena/internal/mathx"
)

// Entry is one bidder's offer as seen by the evaluation stage: a frozen
// snapshot taken after every player has finished bidding.
type Entry struct {
	Bid        float64
	Quality    float64
	Experience float64
}

// Weights are the MEAT criterion weights. They are renormalized
// defensively before use; a zero sum is treated as a sum of 1.
type Weights struct {
	Price      float64
	Quality    float64
	Experience float64
}

// normalized returns weights scaled to sum to 1.
func (w Weights) normalized() Weights {
	sum := w.Price + w.Quality + w.Experience
	if sum <= 0 {
		return w
	}
	return Weights{Price: w.Price / sum, Quality: w.Quality / sum, Experience: w.Experience / sum}
}

// MEATScores combines the normalized price, quality, and experience
// criteria into one score per bidder, in input order. Price rewards
// lower bids; quality and experience reward higher values. When every
// bidder offers the same value on a criterion, all score 1 on it.
func MEATScores(entries []Entry, w Weights) []float64 {
	if len(entries) == 0 {
		return nil
	}
	w = w.normalized()

	minBid, maxBid := minMax(entries, func(e Entry) float64 { return e.Bid })
	minQ, maxQ := minMax(entries, func(e Entry) float64 { return e.Quality })
	minE, maxE := minMax(entries, func(e Entry) float64 { return e.Experience })

	scores := make([]float64, len(entries))
	for i, e := range entries {
		price := 1.0
		if maxBid > minBid {
			price = (maxBid - e.Bid) / (maxBid - minBid)
		}
		quality := 1.0
		if maxQ > minQ {
			quality = (e.Quality - minQ) / (maxQ - minQ)
		}
		experience := 1.0
		if maxE > minE {
			experience = (e.Experience - minE) / (maxE - minE)
		}

		scores[i] = mathx.Clamp(
			price*w.Price+quality*w.Quality+experience*w.Experience, 0, 1)
	}
	return scores
}

func minMax(entries []Entry, get func(Entry) float64) (lo, hi float64) {
	lo, hi = get(entries[0]), get(entries[0])
	for _, e := range entries[1:] {
		v := get(e)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
