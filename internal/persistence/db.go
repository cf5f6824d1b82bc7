// Package persistence provides SQLite-backed storage of round
// statistics and final standings, so external plotting layers can read
// a run after the process exits.
package persistence

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okranz/tender-arena/internal/agents"
	"github.com/okranz/tender-arena/internal/engine"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path, creating
// parent directories as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS round_stats (
		run_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		avg_bid REAL NOT NULL,
		min_bid REAL NOT NULL,
		max_bid REAL NOT NULL,
		spread REAL NOT NULL,
		avg_quality REAL NOT NULL,
		winner_experience REAL NOT NULL,
		hhi REAL NOT NULL,
		climate REAL NOT NULL,
		PRIMARY KEY (run_id, round)
	);

	CREATE TABLE IF NOT EXISTS standings (
		run_id TEXT NOT NULL,
		player_id INTEGER NOT NULL,
		archetype TEXT NOT NULL,
		wins INTEGER NOT NULL,
		total_bids INTEGER NOT NULL,
		experience REAL NOT NULL,
		target_margin REAL NOT NULL,
		cost_accuracy REAL NOT NULL,
		market_share REAL NOT NULL,
		PRIMARY KEY (run_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		run_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (run_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_round_stats_run ON round_stats(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRoundStats replaces the stored statistics series for a run.
func (db *DB) SaveRoundStats(runID string, series []engine.RoundStats) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM round_stats WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO round_stats
		(run_id, round, avg_bid, min_bid, max_bid, spread, avg_quality,
		 winner_experience, hhi, climate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rs := range series {
		_, err := stmt.Exec(runID, rs.Round, rs.AvgBid, rs.MinBid, rs.MaxBid,
			rs.Spread, rs.AvgQuality, rs.WinnerExperience, rs.HHI, rs.Climate)
		if err != nil {
			return fmt.Errorf("insert round %d: %w", rs.Round, err)
		}
	}

	return tx.Commit()
}

// SaveStandings replaces the stored final standings for a run.
func (db *DB) SaveStandings(runID string, players []*agents.Player) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM standings WHERE run_id = ?", runID); err != nil {
		return err
	}

	for _, p := range players {
		_, err := tx.Exec(`INSERT INTO standings
			(run_id, player_id, archetype, wins, total_bids, experience,
			 target_margin, cost_accuracy, market_share)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, p.ID, agents.ArchetypeName(p.Archetype), p.WinCount,
			p.TotalBids, p.Experience, p.TargetProfitMargin,
			p.CostEstimationAccuracy, p.MarketShare,
		)
		if err != nil {
			return fmt.Errorf("insert player %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair for a run.
func (db *DB) SaveMeta(runID, key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, ?, ?)",
		runID, key, value,
	)
	return err
}

// GetMeta retrieves a run metadata value.
func (db *DB) GetMeta(runID, key string) (string, error) {
	var value string
	err := db.conn.Get(&value,
		"SELECT value FROM run_meta WHERE run_id = ? AND key = ?", runID, key)
	return value, err
}

// LoadRoundStats returns the stored series for a run, oldest first.
func (db *DB) LoadRoundStats(runID string, limit int) ([]engine.RoundStats, error) {
	var rows []engine.RoundStats
	err := db.conn.Select(&rows, `
		SELECT round, avg_bid, min_bid, max_bid, spread, avg_quality,
		       winner_experience, hhi, climate
		FROM round_stats WHERE run_id = ? ORDER BY round ASC LIMIT ?`,
		runID, limit)
	return rows, err
}

// SaveRun performs a full save of the simulation's persistent outputs.
func (db *DB) SaveRun(sim *engine.Simulation) error {
	runID := sim.RunID.String()
	slog.Info("saving run", "run_id", runID, "rounds", sim.CurrentRound())

	if err := db.SaveRoundStats(runID, sim.StatsSeries()); err != nil {
		return fmt.Errorf("save round stats: %w", err)
	}
	if err := db.SaveStandings(runID, sim.Players); err != nil {
		return fmt.Errorf("save standings: %w", err)
	}
	if err := db.SaveMeta(runID, "rounds", fmt.Sprintf("%d", sim.CurrentRound())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(runID, "seed", fmt.Sprintf("%d", sim.Config.Seed)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("run saved")
	return nil
}
