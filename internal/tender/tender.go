// Package tender provides the contract-opportunity model and its
// generator. One tender is active per round; it is immutable once
// created and logically replaced at the start of the next round.
package tender

import (
	"math"

	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
)

// Kind classifies a tender by contract size.
type Kind uint8

const (
	Small Kind = iota
	Medium
	Large
)

// KindName returns a display name for a tender kind.
func KindName(k Kind) string {
	switch k {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	}
	return "unknown"
}

// Tender is a single procurement opportunity.
type Tender struct {
	ID               int     `json:"id"`
	Kind             Kind    `json:"kind"`
	Value            float64 `json:"value"`
	ComplexityFactor float64 `json:"complexity_factor"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

// kindProfile fixes the value and complexity ranges a kind draws from.
type kindProfile struct {
	valueLo, valueHi           float64 // multiplier over the base tender value
	complexityLo, complexityHi float64
}

var profiles = [3]kindProfile{
	Small:  {valueLo: 0.5, valueHi: 1.0, complexityLo: 0.7, complexityHi: 1.0},
	Medium: {valueLo: 0.8, valueHi: 1.2, complexityLo: 0.8, complexityHi: 1.2},
	Large:  {valueLo: 1.2, valueHi: 2.0, complexityLo: 1.0, complexityHi: 1.5},
}

// Generator produces one tender per round from the categorical kind
// distribution 40% small / 40% medium / 20% large.
type Generator struct {
	cfg    config.Config
	rng    *entropy.Source
	nextID int
}

// NewGenerator creates a tender generator drawing from src.
func NewGenerator(cfg config.Config, src *entropy.Source) *Generator {
	return &Generator{cfg: cfg, rng: src, nextID: 1}
}

// Next draws the active tender for a new round.
func (g *Generator) Next() Tender {
	kind := g.drawKind()
	p := profiles[kind]

	value := g.cfg.BaseTenderValue * g.rng.Range(p.valueLo, p.valueHi)
	value *= g.rng.Jitter(g.cfg.TenderValueVariance)
	value = round2(value)

	complexity := g.rng.Range(p.complexityLo, p.complexityHi)

	t := Tender{
		ID:               g.nextID,
		Kind:             kind,
		Value:            value,
		ComplexityFactor: complexity,
		EstimatedCost:    EstimateCost(value, complexity),
	}
	g.nextID++
	return t
}

// drawKind picks a kind via cumulative thresholds 0.4 / 0.8.
func (g *Generator) drawKind() Kind {
	r := g.rng.Float()
	switch {
	case r < 0.4:
		return Small
	case r < 0.8:
		return Medium
	default:
		return Large
	}
}

// EstimateCost derives the authority's cost estimate from value and
// complexity. The complexity range keeps the ratio inside ~60%-80%.
func EstimateCost(value, complexity float64) float64 {
	return round2(value * (0.60 + (complexity-0.7)*0.25))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
