// Package agents provides the bidding-agent data model, margin-based
// bid construction, and the per-agent pieces of the social-learning
// loop. Agents mutate only their own state; peers are read through
// frozen snapshots taken by the engine.
package agents

import (
	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/mathx"
)

// PlayerID identifies a player, stable 0..N-1 for the whole run.
type PlayerID int

// Archetype is a player's fixed behavioral class. It governs the
// strategy-update branches and the risk-premium sign in bidding.
type Archetype uint8

const (
	Aggressive Archetype = iota
	Conservative
	Adaptive
	Follower
)

// NumArchetypes is the number of behavioral classes.
const NumArchetypes = 4

// ArchetypeName returns a display name for an archetype.
func ArchetypeName(a Archetype) string {
	switch a {
	case Aggressive:
		return "aggressive"
	case Conservative:
		return "conservative"
	case Adaptive:
		return "adaptive"
	case Follower:
		return "follower"
	}
	return "unknown"
}

// Strategy multiplier bounds. The submitted bid is the ideal bid times
// bidStrategy/100, so 100 means "bid exactly the ideal bid".
const (
	MinBidStrategy = 10.0
	MaxBidStrategy = 200.0
)

// Window capacities.
const (
	BidHistoryCap     = 50
	QualityHistoryCap = 50
	RecentResultsCap  = 5
	ProfitHistoryCap  = 10
	CostEstimatesCap  = 10
	ObservationsCap   = 10
	IntelligenceCap   = 10
)

// Observation is one snapshot of a learning partner's public state.
type Observation struct {
	PartnerID   PlayerID
	Strategy    float64
	Performance float64
	Archetype   Archetype
	Round       int
}

// Player is a persistent bidding agent. Created at setup, mutated every
// round by its own procedures, never destroyed during a run.
type Player struct {
	ID PlayerID `json:"id"`

	// Capability.
	Experience  float64 `json:"experience"`
	BaseQuality float64 `json:"base_quality"`

	// Per-round working state.
	CurrentQuality      float64 `json:"current_quality"`
	Bid                 float64 `json:"bid"`
	IdealBid            float64 `json:"ideal_bid"`
	CurrentProfitMargin float64 `json:"current_profit_margin"`
	Winner              bool    `json:"winner"`

	// Strategy.
	BidStrategy   float64   `json:"bid_strategy"`
	Archetype     Archetype `json:"archetype"`
	RiskAttitude  float64   `json:"risk_attitude"`
	BidAdjustment float64   `json:"bid_adjustment"`

	// Learning.
	TargetProfitMargin     float64 `json:"target_profit_margin"`
	CostEstimationAccuracy float64 `json:"cost_estimation_accuracy"`
	LearningCurveSpeed     float64 `json:"learning_curve_speed"`
	MarginAdjustmentRate   float64 `json:"margin_adjustment_rate"`
	RiskPremium            float64 `json:"risk_premium"`
	MarginSensitivity      float64 `json:"margin_sensitivity"`

	// Social.
	LearningPartners   []PlayerID `json:"learning_partners"`
	SocialInfluence    float64    `json:"social_influence"`
	MarketKnowledge    float64    `json:"market_knowledge"`
	StrategyConfidence float64    `json:"strategy_confidence"`
	ImitationCooldown  int        `json:"imitation_cooldown"`
	Observations       *Window[Observation]

	// Bounded memories.
	BidHistory     *Window[float64]
	QualityHistory *Window[float64]
	RecentResults  *Window[bool]
	ProfitHistory  *Window[float64]
	CostEstimates  *Window[float64]

	// Market intelligence: three independent bounded lists.
	SeenOwnBids      *Window[float64]
	SeenTenderValues *Window[float64]
	SeenWinningBids  *Window[float64]

	// Derived aggregates.
	WinCount           int     `json:"win_count"`
	TotalBids          int     `json:"total_bids"`
	MarketShare        float64 `json:"market_share"`
	MarketPosition     float64 `json:"market_position"`
	OverallPerformance float64 `json:"overall_performance"`
}

// NewPlayer spawns a player with randomized capability, strategy, and
// learning parameters.
func NewPlayer(id PlayerID, cfg config.Config, rng *entropy.Source) *Player {
	p := &Player{
		ID:          id,
		Experience:  rng.Range(0, 10),
		BaseQuality: rng.Range(cfg.MinQuality+2, cfg.MaxQuality-1),

		BidStrategy: rng.Range(80, 120),
		Archetype:   Archetype(rng.Intn(NumArchetypes)),

		TargetProfitMargin:     rng.Range(0.10, 0.30),
		CostEstimationAccuracy: rng.Range(0.30, 0.80),
		LearningCurveSpeed:     rng.Range(0.1, 1.0),
		MarginAdjustmentRate:   rng.Range(0.05, 0.20),
		RiskPremium:            rng.Range(0.0, 0.05),
		MarginSensitivity:      rng.Range(0.5, 1.5),

		SocialInfluence:    rng.Range(0.0, 1.0),
		MarketKnowledge:    rng.Range(0.0, 0.5),
		StrategyConfidence: rng.Range(0.5, 1.0),

		Observations:   NewWindow[Observation](ObservationsCap),
		BidHistory:     NewWindow[float64](BidHistoryCap),
		QualityHistory: NewWindow[float64](QualityHistoryCap),
		RecentResults:  NewWindow[bool](RecentResultsCap),
		ProfitHistory:  NewWindow[float64](ProfitHistoryCap),
		CostEstimates:  NewWindow[float64](CostEstimatesCap),

		SeenOwnBids:      NewWindow[float64](IntelligenceCap),
		SeenTenderValues: NewWindow[float64](IntelligenceCap),
		SeenWinningBids:  NewWindow[float64](IntelligenceCap),
	}
	p.RefreshRiskAttitude(cfg)
	return p
}

// AssignPartners gives the player a random set of learning partners.
// Partners are observed read-only; no cross-agent mutation happens.
func (p *Player) AssignPartners(population int, rng *entropy.Source) {
	if population < 2 {
		return
	}
	want := 2 + rng.Intn(3) // 2-4 partners
	if want > population-1 {
		want = population - 1
	}
	seen := map[PlayerID]bool{p.ID: true}
	for len(p.LearningPartners) < want {
		cand := PlayerID(rng.Intn(population))
		if seen[cand] {
			continue
		}
		seen[cand] = true
		p.LearningPartners = append(p.LearningPartners, cand)
	}
}

// WinRate is the lifetime share of submitted bids that won.
func (p *Player) WinRate() float64 {
	if p.TotalBids == 0 {
		return 0
	}
	return float64(p.WinCount) / float64(p.TotalBids)
}

// RecentWinRate is the win share over the rolling results window.
func (p *Player) RecentWinRate() float64 {
	results := p.RecentResults.Values()
	if len(results) == 0 {
		return 0
	}
	wins := 0
	for _, won := range results {
		if won {
			wins++
		}
	}
	return float64(wins) / float64(len(results))
}

// UpdatePerformance recomputes the overall performance metric: a blend
// of lifetime win rate, rolling win rate, and realized profitability.
// Peers read this through observation snapshots.
func (p *Player) UpdatePerformance(cfg config.Config) {
	profit := mathx.Mean(p.ProfitHistory.Values())
	profitScore := 0.0
	if cfg.MaxProfitMargin > 0 {
		profitScore = mathx.Clamp(profit/cfg.MaxProfitMargin, 0, 1)
	}
	p.OverallPerformance = 0.5*p.WinRate() + 0.3*p.RecentWinRate() + 0.2*profitScore
}

// RefreshRiskAttitude sets the risk-attitude magnitude piecewise by
// experience band: the propensity for newcomers, an aversion otherwise.
// The attitude is always positive; the bidding branch supplies the
// direction, padding newcomer bids and shaving seasoned ones.
func (p *Player) RefreshRiskAttitude(cfg config.Config) {
	switch {
	case p.Experience < cfg.LowExperience:
		p.RiskAttitude = cfg.RiskPropensity
	case p.Experience < cfg.HighExperience:
		p.RiskAttitude = cfg.RiskAversionMedium
	default:
		p.RiskAttitude = cfg.RiskAversionHigh
	}
}
