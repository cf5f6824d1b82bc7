// Package engine sequences the per-round tender market: tender
// generation, bid collection, MEAT evaluation, social learning, and
// statistics accumulation. The Simulation struct is the single owned
// context every phase mutates; nothing else touches it.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okranz/tender-arena/internal/agents"
	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/entropy"
	"github.com/okranz/tender-arena/internal/scoring"
	"github.com/okranz/tender-arena/internal/tender"
)

// RoundStatsCap bounds the retained round-statistics time series.
const RoundStatsCap = 500

// Simulation holds the complete market state and wires the phases
// together. Created by New, advanced only by Step/RunRounds.
type Simulation struct {
	mu sync.RWMutex

	Config  config.Config
	RunID   uuid.UUID
	Players []*agents.Player
	Panel   []scoring.Evaluator

	rng       *entropy.Source
	generator *tender.Generator
	climate   *Climate

	// Active tender, replaced at the start of every round.
	Tender    tender.Tender
	HasTender bool

	Round int

	stats       *agents.Window[RoundStats]
	winningBids *agents.Window[float64]

	stopped atomic.Bool
}

// New builds the simulation context: players with randomized
// capabilities and learning partners, the evaluator panel, the tender
// generator, and the statistics series. The configuration must already
// be sanitized.
func New(cfg config.Config) *Simulation {
	rng := entropy.NewSource(cfg.Seed)

	players := make([]*agents.Player, cfg.Players)
	for i := range players {
		players[i] = agents.NewPlayer(agents.PlayerID(i), cfg, rng)
	}
	for _, p := range players {
		p.AssignPartners(len(players), rng)
	}

	sim := &Simulation{
		Config:      cfg,
		RunID:       uuid.New(),
		Players:     players,
		Panel:       scoring.NewPanel(cfg.Evaluators, rng),
		rng:         rng,
		generator:   tender.NewGenerator(cfg, rng),
		climate:     NewClimate(cfg.Seed),
		stats:       agents.NewWindow[RoundStats](RoundStatsCap),
		winningBids: agents.NewWindow[float64](RoundStatsCap),
	}

	slog.Info("simulation ready",
		"run_id", sim.RunID,
		"players", len(players),
		"evaluators", len(sim.Panel),
		"seed", cfg.Seed,
	)
	return sim
}

// Step advances the simulation by exactly one round through the fixed
// phase sequence: GenerateTender, CollectBids, Evaluate, Learn,
// RecordStats. No phase is skipped; evaluation degrades to a no-op
// when no positive bids exist.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

func (s *Simulation) step() {
	s.Round++

	s.generateTender()
	bidders := s.collectBids()
	winner, winningBid := s.evaluate(bidders)
	s.learn(winner, winningBid)
	s.recordStats(bidders, winner)
}

// RunRounds advances n rounds (or until Stop is called) and logs a
// summary of the resulting market state.
func (s *Simulation) RunRounds(n int) {
	for i := 0; i < n && !s.stopped.Load(); i++ {
		s.Step()
	}
	s.logSummary()
}

// Stop signals RunRounds to terminate after the current round.
func (s *Simulation) Stop() {
	s.stopped.Store(true)
}

// generateTender replaces the active tender.
func (s *Simulation) generateTender() {
	s.Tender = s.generator.Next()
	s.HasTender = true
}

// collectBids has every player construct its bid against the same
// immutable tender snapshot, in deterministic player order, and
// returns the indices of players with a positive bid.
func (s *Simulation) collectBids() []int {
	var bidders []int
	for i, p := range s.Players {
		p.ConstructBid(s.Tender, s.Config, s.rng)
		if p.Bid > 0 {
			bidders = append(bidders, i)
		}
	}
	return bidders
}

// evaluate runs MEAT scoring, the evaluator panel, and winner
// resolution over a frozen snapshot of all bids. Returns the winning
// player index (-1 for a no-bidder round) and the winning bid.
func (s *Simulation) evaluate(bidders []int) (winner int, winningBid float64) {
	if len(bidders) == 0 {
		return -1, 0
	}

	entries := make([]scoring.Entry, len(bidders))
	for i, idx := range bidders {
		p := s.Players[idx]
		entries[i] = scoring.Entry{
			Bid:        p.Bid,
			Quality:    p.CurrentQuality,
			Experience: p.Experience,
		}
	}

	weights := scoring.Weights{
		Price:      s.Config.PriceWeight,
		Quality:    s.Config.QualityWeight,
		Experience: s.Config.ExperienceWeight,
	}
	meat := scoring.MEATScores(entries, weights)
	ratings := scoring.PanelRatings(s.Panel, meat, s.rng)
	finals := scoring.FinalScores(meat, ratings)

	won := scoring.ResolveWinner(finals, entries, s.rng)
	if won < 0 {
		return -1, 0
	}

	winner = bidders[won]
	for i, p := range s.Players {
		p.Winner = i == winner
	}
	s.Players[winner].WinCount++

	winningBid = s.Players[winner].Bid
	s.winningBids.Push(winningBid)
	return winner, winningBid
}
