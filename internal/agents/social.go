// Per-agent pieces of the social-learning and adaptation loop. The
// engine sequences these every round; each function mutates only the
// receiving player and reads peers through observation snapshots.
package agents

import (
	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/mathx"
)

// imitationCooldownRounds is the minimum spacing between strategy
// imitations; without it followers oscillate between peers.
const imitationCooldownRounds = 3

// Observe snapshots a learning partner's public state into the bounded
// observation window.
func (p *Player) Observe(obs Observation) {
	p.Observations.Push(obs)
}

// observedMeans returns the mean strategy and mean performance over the
// observation window, and whether any observations exist.
func (p *Player) observedMeans() (strategy, performance float64, ok bool) {
	obs := p.Observations.Values()
	if len(obs) == 0 {
		return 0, 0, false
	}
	for _, o := range obs {
		strategy += o.Strategy
		performance += o.Performance
	}
	n := float64(len(obs))
	return strategy / n, performance / n, true
}

// BlendMarketKnowledge moves the player's market knowledge and bid
// strategy toward the observed peer means via an exponential moving
// average. The blend rate scales with both the global market
// intelligence level and the strategy adaptation rate.
func (p *Player) BlendMarketKnowledge(cfg config.Config) {
	meanStrategy, meanPerf, ok := p.observedMeans()
	if !ok {
		return
	}
	rate := cfg.MarketIntelligence * cfg.StrategyAdaptationRate

	p.MarketKnowledge = mathx.Clamp(p.MarketKnowledge+rate*(meanPerf-p.MarketKnowledge), 0, 1)
	p.BidStrategy = mathx.Clamp(p.BidStrategy+rate*(meanStrategy-p.BidStrategy),
		MinBidStrategy, MaxBidStrategy)
}

// ConsiderImitation partially adopts the best observed strategy when a
// peer is outperforming the player by enough, a random draw confirms,
// and the imitation cooldown has elapsed.
func (p *Player) ConsiderImitation(cfg config.Config, rng *entropy.Source) {
	if p.ImitationCooldown > 0 {
		p.ImitationCooldown--
		return
	}

	obs := p.Observations.Values()
	if len(obs) == 0 {
		return
	}
	best := obs[0]
	for _, o := range obs[1:] {
		if o.Performance > best.Performance {
			best = o
		}
	}

	gap := best.Performance - p.OverallPerformance
	if gap <= 0 || p.SocialInfluence*gap <= cfg.ImitationThreshold {
		return
	}
	if rng.Float() >= p.SocialInfluence {
		return
	}

	fraction := p.SocialInfluence * cfg.SocialLearningRate
	p.BidStrategy = mathx.Clamp(
		p.BidStrategy+(best.Strategy-p.BidStrategy)*fraction,
		MinBidStrategy, MaxBidStrategy)
	p.StrategyConfidence *= 0.9
	p.ImitationCooldown = imitationCooldownRounds
}

// AdjustByArchetype applies the archetype-specific strategy rule.
// volatility is the variance-to-mean ratio of recent bid spreads,
// computed by the engine from the settled round statistics.
func (p *Player) AdjustByArchetype(cfg config.Config, won bool, volatility float64) {
	switch p.Archetype {
	case Aggressive:
		// Losing barely moves an aggressive player; margin comes first.
		if !won {
			p.BidStrategy *= 0.998
		}
	case Conservative:
		// High market volatility forces even cautious players to compete.
		if volatility > 0.3 {
			p.BidStrategy *= 0.98
		}
	case Adaptive:
		trend := mathx.Clamp(p.RecentWinRate()-p.WinRate(), -0.5, 0.5)
		p.BidStrategy *= 1 + trend*cfg.StrategyAdaptationRate
	case Follower:
		if meanStrategy, _, ok := p.observedMeans(); ok {
			pull := p.SocialInfluence * cfg.StrategyAdaptationRate
			p.BidStrategy += (meanStrategy - p.BidStrategy) * pull
		}
	}
	p.BidStrategy = mathx.Clamp(p.BidStrategy, MinBidStrategy, MaxBidStrategy)
}

// ApplyOutcome records the round result and applies the post-outcome
// experience and strategy updates.
func (p *Player) ApplyOutcome(cfg config.Config, won bool) {
	p.RecentResults.Push(won)

	if won {
		p.Experience += cfg.WinnerExpGain
		// Winners relax slightly; there is margin to reclaim.
		p.BidStrategy *= 0.995
		if p.BidStrategy < 20 {
			p.BidStrategy = 20
		}
	} else {
		p.Experience += cfg.LoserExpGain
		// The rolling window decides, so a strong lifetime record does
		// not shield a player from a recent losing streak.
		if p.RecentWinRate() < 0.2 {
			p.BidStrategy *= 0.99
		}
	}
	p.BidStrategy = mathx.Clamp(p.BidStrategy, MinBidStrategy, MaxBidStrategy)
}

// UpdateBidAdjustment compares the player's historical bids against the
// historical winning bids index-by-index over the overlap window and
// derives the multiplicative correction applied to future bids.
func (p *Player) UpdateBidAdjustment(winningBids []float64) {
	own := p.BidHistory.Values()
	n := len(own)
	if len(winningBids) < n {
		n = len(winningBids)
	}
	if n == 0 {
		return
	}

	// Align the two series from the most recent entry backward.
	ownTail := own[len(own)-n:]
	winTail := winningBids[len(winningBids)-n:]

	var ratios []float64
	for i := 0; i < n; i++ {
		if winTail[i] <= 0 {
			continue
		}
		ratios = append(ratios, ownTail[i]/winTail[i])
	}
	if len(ratios) == 0 {
		return
	}

	p.BidAdjustment = mathx.Clamp((1-mathx.Mean(ratios))*0.5, -0.2, 0.2)
}

// AdaptMargin nudges the target profit margin toward the recent
// realized average after a win. Adaptive players chase harder,
// conservative ones damp the correction.
func (p *Player) AdaptMargin(cfg config.Config, won bool, tenderEstimatedCost float64) {
	if !won || p.Bid <= 0 {
		return
	}

	actual := (p.Bid - tenderEstimatedCost) / p.Bid
	p.ProfitHistory.Push(actual)

	recent := mathx.Mean(p.ProfitHistory.Values())
	gap := recent - p.TargetProfitMargin

	rate := p.MarginAdjustmentRate * p.LearningCurveSpeed
	switch p.Archetype {
	case Adaptive:
		rate *= 1.5
	case Conservative:
		rate *= 0.5
	}

	p.TargetProfitMargin = mathx.Clamp(p.TargetProfitMargin+gap*rate,
		cfg.MinProfitMargin, cfg.MaxProfitMargin)
}

// ImproveCostAccuracy applies the learning-curve gain to cost
// estimation, capped at 0.95 so estimates never become perfect.
func (p *Player) ImproveCostAccuracy() {
	p.CostEstimationAccuracy = mathx.Clamp(
		p.CostEstimationAccuracy+p.LearningCurveSpeed*0.01, 0, 0.95)
}

// RecordIntelligence appends this round's market observations to the
// three bounded intelligence lists.
func (p *Player) RecordIntelligence(tenderValue, winningBid float64, hasWinner bool) {
	p.SeenOwnBids.Push(p.Bid)
	p.SeenTenderValues.Push(tenderValue)
	if hasWinner {
		p.SeenWinningBids.Push(winningBid)
	}
}
