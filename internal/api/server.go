// Package api provides the read-only HTTP query surface external
// reporting and visualization layers consume. All handlers are pure
// reads over the simulation's guarded snapshot accessors.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okranz/tender-arena/internal/agents"
	"github.com/okranz/tender-arena/internal/engine"
	"github.com/okranz/tender-arena/internal/tender"
)

// Server serves the simulation state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	Port int
}

// Router builds the chi router for the query surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/players", s.handlePlayers)
		r.Get("/player/{id}", s.handlePlayer)
		r.Get("/round", s.handleRound)
		r.Get("/stats", s.handleStats)
		r.Get("/stats/history", s.handleStatsHistory)
		r.Get("/market", s.handleMarket)
	})
	return r
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, s.Router()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	last, _ := s.Sim.LastStats()
	writeJSON(w, map[string]any{
		"name":    "tender-arena",
		"run_id":  s.Sim.RunID,
		"round":   s.Sim.CurrentRound(),
		"players": len(s.Sim.Players),
		"avg_bid": last.AvgBid,
		"spread":  last.Spread,
		"hhi":     last.HHI,
		"climate": last.Climate,
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.PlayerReports())
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	for _, report := range s.Sim.PlayerReports() {
		if report.ID == agents.PlayerID(id) {
			writeJSON(w, report)
			return
		}
	}
	http.Error(w, "player not found", http.StatusNotFound)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	t, ok := s.Sim.ActiveTender()
	if !ok {
		http.Error(w, "no round has run yet", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"round": s.Sim.CurrentRound(),
		"tender": map[string]any{
			"id":                t.ID,
			"kind":              tender.KindName(t.Kind),
			"value":             t.Value,
			"complexity_factor": t.ComplexityFactor,
			"estimated_cost":    t.EstimatedCost,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	last, ok := s.Sim.LastStats()
	if !ok {
		http.Error(w, "no statistics yet", http.StatusNotFound)
		return
	}
	writeJSON(w, last)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	series := s.Sim.StatsSeries()

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n < len(series) {
			series = series[len(series)-n:]
		}
	}
	writeJSON(w, series)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"archetypes":                  s.Sim.ArchetypeDistribution(),
		"winning_bids":                s.Sim.WinningBids(),
		"experience_performance_corr": s.Sim.ExperiencePerformanceCorrelation(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
