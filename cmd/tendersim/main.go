// Command tendersim runs the repeated procurement-tender market
// simulation and serves its state over HTTP while it runs.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/okranz/tender-arena/internal/api"
	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/engine"
	"github.com/okranz/tender-arena/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TENDERSIM_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyEnvOverrides(&cfg)
	cfg.Sanitize()

	slog.Info("tender arena",
		"players", cfg.Players,
		"rounds", cfg.Rounds,
		"evaluators", cfg.Evaluators,
		"seed", cfg.Seed,
		"weights", fmt.Sprintf("price=%.2f quality=%.2f experience=%.2f",
			cfg.PriceWeight, cfg.QualityWeight, cfg.ExperienceWeight),
	)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.New(cfg)

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{Sim: sim, Port: cfg.APIPort}
	apiServer.Start()

	// ── Run ───────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping after current round", "signal", sig)
		sim.Stop()
	}()

	fmt.Printf("Tender arena: %d players bidding over %d rounds.\n", cfg.Players, cfg.Rounds)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)

	sim.RunRounds(cfg.Rounds)

	// ── Persist and summarize ─────────────────────────────────────────
	if err := db.SaveRun(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	awarded := 0.0
	for _, bid := range sim.WinningBids() {
		awarded += bid
	}
	fmt.Printf("Simulation finished after %d rounds; %s in contracts awarded.\n",
		sim.CurrentRound(), humanize.CommafWithDigits(awarded, 2))
}

// logLevel reads TENDERSIM_LOG_LEVEL (debug/info/warn/error).
func logLevel() slog.Level {
	switch os.Getenv("TENDERSIM_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyEnvOverrides lets the environment override the file config for
// the knobs a researcher sweeps most often.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("TENDERSIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv("TENDERSIM_PLAYERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Players = n
		}
	}
	if v := os.Getenv("TENDERSIM_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rounds = n
		}
	}
	if v := os.Getenv("TENDERSIM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TENDERSIM_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.APIPort = n
		}
	}
}
