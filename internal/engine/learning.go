// The social-learning phase. Every player updates its own state from
// the settled round outcome plus read-only snapshots of its peers,
// taken before any learning mutation so update order cannot leak
// between agents.
package engine

import (
	"github.com/okranz/tender-arena/internal/agents"
	"github.com/okranz/tender-arena/internal/mathx"
)

// volatilityWindow is how many recent rounds of bid spread feed the
// market-volatility signal conservative players react to.
const volatilityWindow = 10

// peerSnapshot freezes the public state peers may observe this round.
type peerSnapshot struct {
	strategy    float64
	performance float64
	archetype   agents.Archetype
}

// learn runs the full adaptation sequence for every player.
func (s *Simulation) learn(winner int, winningBid float64) {
	hasWinner := winner >= 0

	// Frozen peer snapshots: observation reads pre-update values no
	// matter where a player sits in the loop.
	snaps := make([]peerSnapshot, len(s.Players))
	for i, p := range s.Players {
		snaps[i] = peerSnapshot{
			strategy:    p.BidStrategy,
			performance: p.OverallPerformance,
			archetype:   p.Archetype,
		}
	}

	volatility := s.marketVolatility()
	popWinRate := s.populationWinRate()
	winBids := s.winningBids.Values()

	for _, p := range s.Players {
		for _, partner := range p.LearningPartners {
			if int(partner) >= len(snaps) {
				continue
			}
			snap := snaps[partner]
			p.Observe(agents.Observation{
				PartnerID:   partner,
				Strategy:    snap.strategy,
				Performance: snap.performance,
				Archetype:   snap.archetype,
				Round:       s.Round,
			})
		}

		p.BlendMarketKnowledge(s.Config)
		p.ConsiderImitation(s.Config, s.rng)
		p.AdjustByArchetype(s.Config, p.Winner, volatility)
		p.ApplyOutcome(s.Config, p.Winner)
		p.UpdateBidAdjustment(winBids)
		p.RefreshRiskAttitude(s.Config)

		if popWinRate > 0 {
			p.MarketPosition = mathx.Clamp(p.WinRate()/popWinRate, 0, 2.0)
		} else {
			p.MarketPosition = 0
		}

		p.AdaptMargin(s.Config, p.Winner, s.Tender.EstimatedCost)
		p.ImproveCostAccuracy()
		p.RecordIntelligence(s.Tender.Value, winningBid, hasWinner)
		p.UpdatePerformance(s.Config)
	}

	s.updateMarketShares()
}

// marketVolatility is the variance-to-mean ratio of recent bid spreads.
func (s *Simulation) marketVolatility() float64 {
	stats := s.stats.Values()
	start := len(stats) - volatilityWindow
	if start < 0 {
		start = 0
	}

	var spreads []float64
	for _, rs := range stats[start:] {
		spreads = append(spreads, rs.Spread)
	}
	mean := mathx.Mean(spreads)
	if mean <= 0 {
		return 0
	}
	return mathx.Variance(spreads) / mean
}

// populationWinRate is the average lifetime win rate across players,
// read from the fully-settled post-evaluation state.
func (s *Simulation) populationWinRate() float64 {
	if len(s.Players) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range s.Players {
		total += p.WinRate()
	}
	return total / float64(len(s.Players))
}

// updateMarketShares recomputes each player's share of all contract
// wins so far. Shares feed the HHI concentration index.
func (s *Simulation) updateMarketShares() {
	totalWins := 0
	for _, p := range s.Players {
		totalWins += p.WinCount
	}
	for _, p := range s.Players {
		if totalWins == 0 {
			p.MarketShare = 0
			continue
		}
		p.MarketShare = float64(p.WinCount) / float64(totalWins)
	}
}
