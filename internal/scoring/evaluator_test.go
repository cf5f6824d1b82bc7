package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okranz/tender-arena/internal/entropy"
)

func TestRate_NoiselessMediumIsLinear(t *testing.T) {
	rng := entropy.NewSource(1)
	ev := Evaluator{Attitude: Medium, Expertise: 1.0}

	assert.InDelta(t, 1.0, ev.Rate(0, rng), 1e-9)
	assert.InDelta(t, 5.5, ev.Rate(0.5, rng), 1e-9)
	assert.InDelta(t, 10.0, ev.Rate(1, rng), 1e-9)
}

func TestRate_ExtremeExaggerates(t *testing.T) {
	rng := entropy.NewSource(2)
	medium := Evaluator{Attitude: Medium, Expertise: 1.0}
	extreme := Evaluator{Attitude: Extreme, Expertise: 1.0}

	// Strong offer: 1 + 0.9*9 = 9.1, exaggerated to 10.92, clamped to 10.
	assert.InDelta(t, 10.0, extreme.Rate(0.9, rng), 1e-9)
	assert.Greater(t, extreme.Rate(0.9, rng), medium.Rate(0.9, rng))

	// Weak offer: 1 + 0.2*9 = 2.8, deflated to 2.24.
	assert.InDelta(t, 2.24, extreme.Rate(0.2, rng), 1e-9)
	assert.Less(t, extreme.Rate(0.2, rng), medium.Rate(0.2, rng))
}

func TestRate_AlwaysWithinOneToTen(t *testing.T) {
	rng := entropy.NewSource(3)
	ev := Evaluator{Attitude: Extreme, Expertise: 0.5} // max noise band

	for i := 0; i < 1000; i++ {
		r := ev.Rate(rng.Float(), rng)
		assert.GreaterOrEqual(t, r, 1.0)
		assert.LessOrEqual(t, r, 10.0)
	}
}

func TestNewPanel_ExpertiseBandsAndAttitudeMix(t *testing.T) {
	rng := entropy.NewSource(4)
	panel := NewPanel(300, rng)
	require.Len(t, panel, 300)

	extremes := 0
	for _, ev := range panel {
		assert.GreaterOrEqual(t, ev.Expertise, 0.5)
		assert.Less(t, ev.Expertise, 1.0)
		if ev.Attitude == Extreme {
			extremes++
		}
	}
	// Roughly one in three.
	assert.InDelta(t, 100, extremes, 35)
}

func TestPanelRatings_MeanPerBidder(t *testing.T) {
	rng := entropy.NewSource(5)
	panel := []Evaluator{
		{Attitude: Medium, Expertise: 1.0},
		{Attitude: Medium, Expertise: 1.0},
	}
	ratings := PanelRatings(panel, []float64{0, 1}, rng)

	require.Len(t, ratings, 2)
	assert.InDelta(t, 1.0, ratings[0], 1e-9)
	assert.InDelta(t, 10.0, ratings[1], 1e-9)
}

func TestPanelRatings_EmptyPanelZeroRatings(t *testing.T) {
	rng := entropy.NewSource(6)
	ratings := PanelRatings(nil, []float64{0.5, 0.8}, rng)
	assert.Equal(t, []float64{0, 0}, ratings)
}
