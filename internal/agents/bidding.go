// Margin-based bid construction. Each player computes its bid
// independently from the immutable tender snapshot and its own state,
// so the outcome is order-independent across the population.
package agents

import (
	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/mathx"
	"github.com/okranz/tender-arena/internal/tender"
)

// costRatioBounds gives the kind-dependent base cost ratio a player
// assumes when estimating delivery cost. Larger tenders enjoy scale:
// the ratio falls as the contract grows.
func costRatioBounds(k tender.Kind) (lo, hi float64) {
	switch k {
	case tender.Small:
		return 0.75, 0.85
	case tender.Medium:
		return 0.65, 0.75
	default:
		return 0.55, 0.65
	}
}

// ConstructBid runs the full per-round bid pipeline for the active
// tender: quality offer, cost estimate, margin-adjusted ideal bid,
// strategic adjustment, and the value-awareness cap.
func (p *Player) ConstructBid(t tender.Tender, cfg config.Config, rng *entropy.Source) {
	p.Winner = false

	p.offerQuality(t, cfg, rng)
	cost := p.estimateCost(t, rng)
	p.IdealBid = p.idealBidFor(t, cfg, cost)
	p.Bid = p.strategicBid(t, cfg, rng)

	p.CurrentProfitMargin = 0
	if p.Bid > 0 {
		p.CurrentProfitMargin = mathx.Clamp((p.Bid-cost)/p.Bid, 0, 1)
	}

	p.BidHistory.Push(p.Bid)
	p.QualityHistory.Push(p.CurrentQuality)
	p.TotalBids++
}

// offerQuality sets the quality offered this round. Effort is drawn per
// round; complexity rewards capable players and penalizes weak ones.
func (p *Player) offerQuality(t tender.Tender, cfg config.Config, rng *entropy.Source) {
	effort := rng.Float()
	qualityRange := (cfg.MaxQuality - cfg.MinQuality) * 0.2

	complexityAdj := t.ComplexityFactor*0.2 -
		(1-p.BaseQuality/cfg.MaxQuality)*t.ComplexityFactor*0.3

	p.CurrentQuality = mathx.Clamp(
		p.BaseQuality+effort*qualityRange+complexityAdj,
		cfg.MinQuality, cfg.MaxQuality,
	)
}

// estimateCost computes the player's cost estimate for the tender: a
// kind-dependent base ratio plus a complexity surcharge, perturbed by
// an error band that narrows as estimation accuracy improves.
func (p *Player) estimateCost(t tender.Tender, rng *entropy.Source) float64 {
	lo, hi := costRatioBounds(t.Kind)
	cost := rng.Range(lo, hi)*t.Value + t.ComplexityFactor*0.05*t.Value

	errBand := (1 - p.CostEstimationAccuracy) * 0.3
	cost *= rng.Jitter(errBand)

	p.CostEstimates.Push(cost)
	return cost
}

// idealBidFor is the bid that exactly satisfies the player's adjusted
// target profit margin, before competitive/strategic adjustment.
func (p *Player) idealBidFor(t tender.Tender, cfg config.Config, cost float64) float64 {
	margin := p.TargetProfitMargin

	// Complex tenders squeeze the margin: a fixed discount for medium
	// and large kinds, scaled again by how far complexity exceeds 1.0.
	if t.Kind != tender.Small {
		discount := cfg.ComplexityMarginDiscount
		margin -= discount
		margin -= (t.ComplexityFactor - 1.0) * p.MarginSensitivity * discount
	}

	switch p.Archetype {
	case Aggressive:
		margin += p.RiskPremium
	case Conservative:
		margin -= p.RiskPremium
	}

	margin = mathx.Clamp(margin, cfg.MinProfitMargin, cfg.MaxProfitMargin)
	return cost / (1 - margin)
}

// strategicBid applies the learned strategy multiplier, the
// risk-attitude fine-tuning, the learned bid adjustment, and a final
// ±2% jitter, then caps the result by value awareness.
func (p *Player) strategicBid(t tender.Tender, cfg config.Config, rng *entropy.Source) float64 {
	bid := p.IdealBid * (p.BidStrategy / 100)

	// Risk-seeking newcomers pad the bid; everyone else shaves it. The
	// experience term is additive in both branches.
	if p.Experience < cfg.LowExperience {
		bid += bid*p.RiskAttitude*0.5 + p.Experience/20
	} else {
		bid -= bid*p.RiskAttitude*0.5 - p.Experience/20
	}

	bid *= 1 + p.BidAdjustment
	bid *= rng.Jitter(0.02)
	bid = mathx.Round2(bid)

	// Value awareness: market-literate players rein in bids that exceed
	// what the contract is worth.
	if bid > t.Value {
		awareness := 0.5 + p.MarketKnowledge*0.5
		bid = mathx.Round2(t.Value + (bid-t.Value)*(1-awareness))
	}
	if bid < 1 {
		bid = 1
	}
	return bid
}
