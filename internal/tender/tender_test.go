package tender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
)

func TestEstimateCost_FixedRatio(t *testing.T) {
	// A complexity of 1.1 puts the cost ratio at exactly 0.70.
	assert.InDelta(t, 70.0, EstimateCost(100, 1.1), 0.005)
}

func TestGenerator_ProducesValidTenders(t *testing.T) {
	cfg := config.Default()
	cfg.Sanitize()
	gen := NewGenerator(cfg, entropy.NewSource(7))

	for i := 0; i < 500; i++ {
		td := gen.Next()

		assert.Equal(t, i+1, td.ID)
		assert.Greater(t, td.Value, 0.0)
		assert.GreaterOrEqual(t, td.ComplexityFactor, 0.7)
		assert.LessOrEqual(t, td.ComplexityFactor, 1.5)

		// Estimated cost stays a 55%-85% fraction of value.
		ratio := td.EstimatedCost / td.Value
		assert.InDelta(t, 0.70, ratio, 0.155, "round %d ratio %f", i, ratio)

		// Currency precision.
		assert.InDelta(t, td.Value, math.Round(td.Value*100)/100, 1e-9)
		assert.InDelta(t, td.EstimatedCost, math.Round(td.EstimatedCost*100)/100, 1e-9)
	}
}

func TestGenerator_KindRangesRespected(t *testing.T) {
	cfg := config.Default()
	cfg.TenderValueVariance = 0 // isolate the per-kind multiplier ranges
	cfg.Sanitize()
	gen := NewGenerator(cfg, entropy.NewSource(11))

	seen := map[Kind]int{}
	for i := 0; i < 2000; i++ {
		td := gen.Next()
		seen[td.Kind]++

		p := profiles[td.Kind]
		assert.GreaterOrEqual(t, td.Value, cfg.BaseTenderValue*p.valueLo-0.01)
		assert.LessOrEqual(t, td.Value, cfg.BaseTenderValue*p.valueHi+0.01)
		assert.GreaterOrEqual(t, td.ComplexityFactor, p.complexityLo)
		assert.LessOrEqual(t, td.ComplexityFactor, p.complexityHi)
	}

	// 40/40/20 split, loosely.
	require.Greater(t, seen[Small], 600)
	require.Greater(t, seen[Medium], 600)
	require.Greater(t, seen[Large], 250)
	assert.Greater(t, seen[Small], seen[Large])
}

func TestGenerator_DeterministicPerSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Sanitize()

	a := NewGenerator(cfg, entropy.NewSource(99))
	b := NewGenerator(cfg, entropy.NewSource(99))

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "small", KindName(Small))
	assert.Equal(t, "medium", KindName(Medium))
	assert.Equal(t, "large", KindName(Large))
	assert.Equal(t, "unknown", KindName(Kind(9)))
}
