// Package config holds the global simulation configuration: population
// sizes, quality and margin bounds, MEAT weights, tender economics, and
// the social-learning knobs. Set once at startup, immutable during a run.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide simulation configuration.
type Config struct {
	// Population and run length.
	Players      int   `yaml:"players"`
	Rounds       int   `yaml:"rounds"`
	Evaluators   int   `yaml:"evaluators"`
	Seed         int64 `yaml:"seed"`

	// Quality bounds for offered quality and base capability.
	MinQuality float64 `yaml:"min_quality"`
	MaxQuality float64 `yaml:"max_quality"`

	// Profit-margin bounds every adaptation step clamps to.
	MinProfitMargin float64 `yaml:"min_profit_margin"`
	MaxProfitMargin float64 `yaml:"max_profit_margin"`

	// MEAT weights. Renormalized to sum 1 by Sanitize, with a warning
	// when the configured values are off by more than 0.01.
	PriceWeight      float64 `yaml:"price_weight"`
	QualityWeight    float64 `yaml:"quality_weight"`
	ExperienceWeight float64 `yaml:"experience_weight"`

	// Tender economics.
	BaseTenderValue     float64 `yaml:"base_tender_value"`
	TenderValueVariance float64 `yaml:"tender_value_variance"`

	// Margin discount applied for medium/large tender complexity.
	ComplexityMarginDiscount float64 `yaml:"complexity_margin_discount"`

	// Experience thresholds and post-round deltas.
	LowExperience  float64 `yaml:"low_experience"`
	HighExperience float64 `yaml:"high_experience"`
	WinnerExpGain  float64 `yaml:"winner_exp_gain"`
	LoserExpGain   float64 `yaml:"loser_exp_gain"`

	// Risk attitude by experience band.
	RiskPropensity     float64 `yaml:"risk_propensity"`      // low-experience players
	RiskAversionMedium float64 `yaml:"risk_aversion_medium"` // mid-experience players
	RiskAversionHigh   float64 `yaml:"risk_aversion_high"`   // seasoned players

	// Social learning.
	SocialLearningRate     float64 `yaml:"social_learning_rate"`
	ImitationThreshold     float64 `yaml:"imitation_threshold"`
	MarketIntelligence     float64 `yaml:"market_intelligence"`
	StrategyAdaptationRate float64 `yaml:"strategy_adaptation_rate"`

	// Infrastructure.
	DBPath  string `yaml:"db_path"`
	APIPort int    `yaml:"api_port"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Players:    8,
		Rounds:     200,
		Evaluators: 3,
		Seed:       42,

		MinQuality: 1.0,
		MaxQuality: 10.0,

		MinProfitMargin: 0.05,
		MaxProfitMargin: 0.40,

		PriceWeight:      0.5,
		QualityWeight:    0.3,
		ExperienceWeight: 0.2,

		BaseTenderValue:     1000.0,
		TenderValueVariance: 0.30,

		ComplexityMarginDiscount: 0.03,

		LowExperience:  5.0,
		HighExperience: 15.0,
		WinnerExpGain:  2.0,
		LoserExpGain:   0.5,

		RiskPropensity:     0.30,
		RiskAversionMedium: 0.10,
		RiskAversionHigh:   0.25,

		SocialLearningRate:     0.30,
		ImitationThreshold:     0.10,
		MarketIntelligence:     0.50,
		StrategyAdaptationRate: 0.10,

		DBPath:  "data/tender-arena.db",
		APIPort: 8080,
	}
}

// Load reads a YAML config file over the defaults. A missing path is
// not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Sanitize applies safety defaults and renormalizes the MEAT weights.
// Configuration anomalies are corrected, never fatal.
func (c *Config) Sanitize() {
	if c.Players < 1 {
		c.Players = 1
	}
	if c.Rounds < 1 {
		c.Rounds = 1
	}
	if c.Evaluators < 1 {
		c.Evaluators = 1
	}
	if c.MaxQuality <= c.MinQuality {
		c.MinQuality, c.MaxQuality = 1.0, 10.0
	}
	if c.MinProfitMargin < 0 || c.MaxProfitMargin <= c.MinProfitMargin {
		c.MinProfitMargin, c.MaxProfitMargin = 0.05, 0.40
	}
	if c.BaseTenderValue <= 0 {
		c.BaseTenderValue = 1000.0
	}
	if c.TenderValueVariance < 0 || c.TenderValueVariance >= 1 {
		c.TenderValueVariance = 0.30
	}
	if c.HighExperience <= c.LowExperience {
		c.LowExperience, c.HighExperience = 5.0, 15.0
	}

	c.normalizeWeights()
}

// normalizeWeights forces the three MEAT weights to sum to exactly 1.
func (c *Config) normalizeWeights() {
	sum := c.PriceWeight + c.QualityWeight + c.ExperienceWeight
	if sum <= 0 {
		// Degenerate zero-sum configuration: fall back to the defaults.
		c.PriceWeight, c.QualityWeight, c.ExperienceWeight = 0.5, 0.3, 0.2
		slog.Warn("MEAT weights sum to zero, using defaults")
		return
	}
	if math.Abs(sum-1.0) > 0.01 {
		slog.Warn("MEAT weights renormalized",
			"configured_sum", fmt.Sprintf("%.4f", sum),
			"price", fmt.Sprintf("%.3f", c.PriceWeight/sum),
			"quality", fmt.Sprintf("%.3f", c.QualityWeight/sum),
			"experience", fmt.Sprintf("%.3f", c.ExperienceWeight/sum),
		)
	}
	c.PriceWeight /= sum
	c.QualityWeight /= sum
	c.ExperienceWeight /= sum
}
