// Round-level statistics accumulation and the end-of-run summary.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/okranz/tender-arena/internal/mathx"
)

// RoundStats is the per-round record appended to the capped time
// series after learning completes. Read-only thereafter.
type RoundStats struct {
	Round            int     `json:"round" db:"round"`
	AvgBid           float64 `json:"avg_bid" db:"avg_bid"`
	MinBid           float64 `json:"min_bid" db:"min_bid"`
	MaxBid           float64 `json:"max_bid" db:"max_bid"`
	Spread           float64 `json:"spread" db:"spread"`
	AvgQuality       float64 `json:"avg_quality" db:"avg_quality"`
	WinnerExperience float64 `json:"winner_experience" db:"winner_experience"`
	HHI              float64 `json:"hhi" db:"hhi"`
	Climate          float64 `json:"climate" db:"climate"`
}

// recordStats appends the round record. Appended exactly once per
// round by the orchestrator; no other component writes the series.
func (s *Simulation) recordStats(bidders []int, winner int) {
	rs := RoundStats{
		Round:   s.Round,
		Climate: s.climate.Index(s.Round),
		HHI:     s.hhi(),
	}

	if len(bidders) > 0 {
		bids := make([]float64, len(bidders))
		qualities := make([]float64, len(bidders))
		rs.MinBid = s.Players[bidders[0]].Bid
		rs.MaxBid = rs.MinBid
		for i, idx := range bidders {
			p := s.Players[idx]
			bids[i] = p.Bid
			qualities[i] = p.CurrentQuality
			if p.Bid < rs.MinBid {
				rs.MinBid = p.Bid
			}
			if p.Bid > rs.MaxBid {
				rs.MaxBid = p.Bid
			}
		}
		rs.AvgBid = mathx.Mean(bids)
		rs.Spread = rs.MaxBid - rs.MinBid
		rs.AvgQuality = mathx.Mean(qualities)
	}

	if winner >= 0 {
		rs.WinnerExperience = s.Players[winner].Experience
	}

	s.stats.Push(rs)

	slog.Debug("round settled",
		"round", rs.Round,
		"tender", s.Tender.ID,
		"value", fmt.Sprintf("%.2f", s.Tender.Value),
		"avg_bid", fmt.Sprintf("%.2f", rs.AvgBid),
		"spread", fmt.Sprintf("%.2f", rs.Spread),
		"winner", winner,
		"hhi", fmt.Sprintf("%.3f", rs.HHI),
	)
}

// hhi is the Herfindahl-Hirschman index over win-count market shares.
func (s *Simulation) hhi() float64 {
	total := 0.0
	for _, p := range s.Players {
		total += p.MarketShare * p.MarketShare
	}
	return total
}

// logSummary reports the end-of-run market state.
func (s *Simulation) logSummary() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.stats.Values()
	if len(stats) == 0 {
		slog.Info("run finished", "rounds", s.Round)
		return
	}

	first, last := stats[0], stats[len(stats)-1]
	slog.Info("run finished",
		"run_id", s.RunID,
		"rounds", s.Round,
		"first_avg_bid", fmt.Sprintf("%.2f", first.AvgBid),
		"last_avg_bid", fmt.Sprintf("%.2f", last.AvgBid),
		"last_spread", fmt.Sprintf("%.2f", last.Spread),
		"last_hhi", fmt.Sprintf("%.3f", last.HHI),
		"experience_performance_corr", fmt.Sprintf("%.3f", s.experiencePerformanceCorr()),
	)
}
