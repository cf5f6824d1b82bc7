package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMEATScores_PriceRewardsLowerBids(t *testing.T) {
	entries := []Entry{
		{Bid: 80, Quality: 5, Experience: 5},
		{Bid: 100, Quality: 5, Experience: 5},
		{Bid: 120, Quality: 5, Experience: 5},
	}
	w := Weights{Price: 1}

	scores := MEATScores(entries, w)
	require.Len(t, scores, 3)
	assert.Equal(t, 1.0, scores[0])
	assert.Equal(t, 0.5, scores[1])
	assert.Equal(t, 0.0, scores[2])
}

func TestMEATScores_EqualCriterionScoresOne(t *testing.T) {
	entries := []Entry{
		{Bid: 100, Quality: 7, Experience: 3},
		{Bid: 100, Quality: 7, Experience: 3},
	}
	scores := MEATScores(entries, Weights{Price: 0.5, Quality: 0.3, Experience: 0.2})

	assert.Equal(t, []float64{1, 1}, scores)
}

func TestMEATScores_WeightsRenormalized(t *testing.T) {
	entries := []Entry{
		{Bid: 80, Quality: 10, Experience: 10},
		{Bid: 120, Quality: 1, Experience: 0},
	}
	// Same ratios, different magnitudes: identical scores.
	a := MEATScores(entries, Weights{Price: 0.5, Quality: 0.3, Experience: 0.2})
	b := MEATScores(entries, Weights{Price: 5, Quality: 3, Experience: 2})

	require.Len(t, a, 2)
	assert.InDelta(t, a[0], b[0], 1e-12)
	assert.InDelta(t, a[1], b[1], 1e-12)
	assert.Equal(t, 1.0, a[0])
	assert.Equal(t, 0.0, a[1])
}

func TestMEATScores_ZeroSumWeightsUsedAsIs(t *testing.T) {
	entries := []Entry{
		{Bid: 80, Quality: 10, Experience: 10},
		{Bid: 120, Quality: 1, Experience: 0},
	}
	scores := MEATScores(entries, Weights{})

	assert.Equal(t, []float64{0, 0}, scores)
}

func TestMEATScores_EmptyPool(t *testing.T) {
	assert.Nil(t, MEATScores(nil, Weights{Price: 1}))
}

func TestMEATScores_BoundedZeroOne(t *testing.T) {
	entries := []Entry{
		{Bid: 50, Quality: 1, Experience: 20},
		{Bid: 200, Quality: 10, Experience: 0},
		{Bid: 125, Quality: 4, Experience: 7},
	}
	for _, s := range MEATScores(entries, Weights{Price: 0.5, Quality: 0.3, Experience: 0.2}) {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
