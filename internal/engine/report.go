// The per-round query surface consumed by the reporting and
// visualization layers. Every accessor is a pure read over the context
// snapshot, safe to call concurrently with Step.
package engine

import (
	"github.com/okranz/tender-arena/internal/agents"
	"github.com/okranz/tender-arena/internal/mathx"
	"github.com/okranz/tender-arena/internal/tender"
)

// PlayerReport is one player's public per-round view.
type PlayerReport struct {
	ID                 agents.PlayerID `json:"id"`
	Archetype          string          `json:"archetype"`
	Bid                float64         `json:"bid"`
	IdealBid           float64         `json:"ideal_bid"`
	Quality            float64         `json:"quality"`
	Experience         float64         `json:"experience"`
	WinRate            float64         `json:"win_rate"`
	MarketShare        float64         `json:"market_share"`
	MarketPosition     float64         `json:"market_position"`
	TargetMargin       float64         `json:"target_margin"`
	AchievedMargin     float64         `json:"achieved_margin"`
	CostAccuracy       float64         `json:"cost_accuracy"`
	LearningSpeed      float64         `json:"learning_speed"`
	RiskPremium        float64         `json:"risk_premium"`
	OverallPerformance float64         `json:"overall_performance"`
	Winner             bool            `json:"winner"`
}

// PlayerReports returns the public view of every player.
func (s *Simulation) PlayerReports() []PlayerReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]PlayerReport, len(s.Players))
	for i, p := range s.Players {
		reports[i] = PlayerReport{
			ID:                 p.ID,
			Archetype:          agents.ArchetypeName(p.Archetype),
			Bid:                p.Bid,
			IdealBid:           p.IdealBid,
			Quality:            p.CurrentQuality,
			Experience:         p.Experience,
			WinRate:            p.WinRate(),
			MarketShare:        p.MarketShare,
			MarketPosition:     p.MarketPosition,
			TargetMargin:       p.TargetProfitMargin,
			AchievedMargin:     mathx.Mean(p.ProfitHistory.Values()),
			CostAccuracy:       p.CostEstimationAccuracy,
			LearningSpeed:      p.LearningCurveSpeed,
			RiskPremium:        p.RiskPremium,
			OverallPerformance: p.OverallPerformance,
			Winner:             p.Winner,
		}
	}
	return reports
}

// ArchetypeDistribution counts players per behavioral class.
func (s *Simulation) ArchetypeDistribution() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[string]int, agents.NumArchetypes)
	for _, p := range s.Players {
		dist[agents.ArchetypeName(p.Archetype)]++
	}
	return dist
}

// ExperiencePerformanceCorrelation is the Pearson correlation between
// player experience and overall performance across the population.
func (s *Simulation) ExperiencePerformanceCorrelation() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.experiencePerformanceCorr()
}

func (s *Simulation) experiencePerformanceCorr() float64 {
	xs := make([]float64, len(s.Players))
	ys := make([]float64, len(s.Players))
	for i, p := range s.Players {
		xs[i] = p.Experience
		ys[i] = p.OverallPerformance
	}
	return mathx.Pearson(xs, ys)
}

// StatsSeries returns a copy of the capped round-statistics series,
// oldest first.
func (s *Simulation) StatsSeries() []RoundStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.stats.Values()
	out := make([]RoundStats, len(src))
	copy(out, src)
	return out
}

// LastStats returns the most recent round record, if any.
func (s *Simulation) LastStats() (RoundStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Last()
}

// WinningBids returns a copy of the retained winning-bid series.
func (s *Simulation) WinningBids() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.winningBids.Values()
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// CurrentRound returns the number of completed rounds.
func (s *Simulation) CurrentRound() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Round
}

// ActiveTender returns the current tender and whether one exists yet.
func (s *Simulation) ActiveTender() (tender.Tender, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Tender, s.HasTender
}
