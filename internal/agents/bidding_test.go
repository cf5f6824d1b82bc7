package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/tender"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Sanitize()
	return cfg
}

func TestNewPlayer_InitialStateWithinBounds(t *testing.T) {
	cfg := testConfig()
	rng := entropy.NewSource(1)

	for i := 0; i < 50; i++ {
		p := NewPlayer(PlayerID(i), cfg, rng)

		assert.GreaterOrEqual(t, p.BaseQuality, cfg.MinQuality)
		assert.LessOrEqual(t, p.BaseQuality, cfg.MaxQuality)
		assert.GreaterOrEqual(t, p.BidStrategy, MinBidStrategy)
		assert.LessOrEqual(t, p.BidStrategy, MaxBidStrategy)
		assert.GreaterOrEqual(t, p.TargetProfitMargin, cfg.MinProfitMargin)
		assert.LessOrEqual(t, p.TargetProfitMargin, cfg.MaxProfitMargin)
		assert.LessOrEqual(t, p.CostEstimationAccuracy, 0.95)
		assert.True(t, p.Archetype < NumArchetypes)
	}
}

func TestConstructBid_InvariantsOverManyRounds(t *testing.T) {
	cfg := testConfig()
	rng := entropy.NewSource(2)
	gen := tender.NewGenerator(cfg, rng)
	p := NewPlayer(0, cfg, rng)

	for i := 0; i < 300; i++ {
		td := gen.Next()
		p.ConstructBid(td, cfg, rng)

		assert.GreaterOrEqual(t, p.CurrentQuality, cfg.MinQuality)
		assert.LessOrEqual(t, p.CurrentQuality, cfg.MaxQuality)
		assert.GreaterOrEqual(t, p.Bid, 1.0)
		assert.Greater(t, p.IdealBid, 0.0)
		assert.GreaterOrEqual(t, p.CurrentProfitMargin, 0.0)
		assert.LessOrEqual(t, p.CurrentProfitMargin, 1.0)
	}

	assert.Equal(t, 300, p.TotalBids)
	assert.Equal(t, BidHistoryCap, p.BidHistory.Len())
	assert.Equal(t, CostEstimatesCap, p.CostEstimates.Len())
}

func TestConstructBid_ValueAwarenessCapsBid(t *testing.T) {
	cfg := testConfig()
	rng := entropy.NewSource(3)
	p := NewPlayer(0, cfg, rng)

	// Fully market-literate player bidding at the ceiling strategy.
	p.MarketKnowledge = 1.0
	p.BidStrategy = MaxBidStrategy
	p.BidAdjustment = 0.2

	td := tender.Tender{
		ID: 1, Kind: tender.Small, Value: 500,
		ComplexityFactor: 0.8, EstimatedCost: 320,
	}
	for i := 0; i < 100; i++ {
		p.ConstructBid(td, cfg, rng)
		// Awareness of 1.0 collapses any overshoot onto the tender value.
		assert.LessOrEqual(t, p.Bid, td.Value+0.01)
	}
}

func TestConstructBid_RiskBranchesDiffer(t *testing.T) {
	cfg := testConfig()

	build := func(exp float64) float64 {
		rng := entropy.NewSource(4)
		p := NewPlayer(0, cfg, rng)
		p.Experience = exp
		p.RiskAttitude = 0.3
		p.BidAdjustment = 0

		td := tender.Tender{ID: 1, Kind: tender.Medium, Value: 100000,
			ComplexityFactor: 1.0, EstimatedCost: 67500}
		p.ConstructBid(td, cfg, rng)
		return p.Bid / p.IdealBid
	}

	// Same draws, same positive risk attitude: the low-experience branch
	// inflates the bid, the seasoned branch deflates it.
	low := build(cfg.LowExperience - 1)
	high := build(cfg.LowExperience + 1)
	require.Greater(t, low, high)
}

func TestRefreshRiskAttitude_PiecewiseByExperience(t *testing.T) {
	cfg := testConfig()
	rng := entropy.NewSource(5)
	p := NewPlayer(0, cfg, rng)

	p.Experience = cfg.LowExperience - 1
	p.RefreshRiskAttitude(cfg)
	assert.Equal(t, cfg.RiskPropensity, p.RiskAttitude)

	p.Experience = cfg.LowExperience + 1
	p.RefreshRiskAttitude(cfg)
	assert.Equal(t, cfg.RiskAversionMedium, p.RiskAttitude)

	p.Experience = cfg.HighExperience + 1
	p.RefreshRiskAttitude(cfg)
	assert.Equal(t, cfg.RiskAversionHigh, p.RiskAttitude)
}

func TestConstructBid_DerivedAversionShavesSeasonedBid(t *testing.T) {
	cfg := testConfig()

	build := func(risk float64) float64 {
		rng := entropy.NewSource(6)
		p := NewPlayer(0, cfg, rng)
		p.Experience = cfg.HighExperience + 5
		p.RiskAttitude = risk
		p.BidAdjustment = 0

		td := tender.Tender{ID: 1, Kind: tender.Medium, Value: 100000,
			ComplexityFactor: 1.0, EstimatedCost: 67500}
		p.ConstructBid(td, cfg, rng)
		return p.Bid
	}

	seasoned := NewPlayer(0, cfg, entropy.NewSource(6))
	seasoned.Experience = cfg.HighExperience + 5
	seasoned.RefreshRiskAttitude(cfg)
	require.Equal(t, cfg.RiskAversionHigh, seasoned.RiskAttitude)

	// Same draws: the derived aversion must lower the bid, not raise it.
	assert.Less(t, build(seasoned.RiskAttitude), build(0))
}
