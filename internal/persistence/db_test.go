package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okranz/tender-arena/internal/config"
	"github.com/okranz/tender-arena/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs", "test.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SaveMeta("run-a", "rounds", "1"))
	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	cfg := config.Default()
	cfg.Players = 4
	cfg.Seed = 11
	cfg.Sanitize()

	sim := engine.New(cfg)
	sim.RunRounds(15)

	require.NoError(t, db.SaveRun(sim))

	runID := sim.RunID.String()

	loaded, err := db.LoadRoundStats(runID, 100)
	require.NoError(t, err)
	assert.Equal(t, sim.StatsSeries(), loaded)

	rounds, err := db.GetMeta(runID, "rounds")
	require.NoError(t, err)
	assert.Equal(t, "15", rounds)

	seed, err := db.GetMeta(runID, "seed")
	require.NoError(t, err)
	assert.Equal(t, "11", seed)
}

func TestSaveRoundStats_ReplacesExistingSeries(t *testing.T) {
	db := openTestDB(t)

	first := []engine.RoundStats{
		{Round: 1, AvgBid: 900},
		{Round: 2, AvgBid: 880},
	}
	require.NoError(t, db.SaveRoundStats("run-a", first))

	second := []engine.RoundStats{{Round: 1, AvgBid: 910}}
	require.NoError(t, db.SaveRoundStats("run-a", second))

	loaded, err := db.LoadRoundStats("run-a", 100)
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestLoadRoundStats_RunsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveRoundStats("run-a", []engine.RoundStats{{Round: 1}}))
	require.NoError(t, db.SaveRoundStats("run-b", []engine.RoundStats{{Round: 1}, {Round: 2}}))

	a, err := db.LoadRoundStats("run-a", 100)
	require.NoError(t, err)
	assert.Len(t, a, 1)

	b, err := db.LoadRoundStats("run-b", 100)
	require.NoError(t, err)
	assert.Len(t, b, 2)
}

func TestGetMeta_MissingKey(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetMeta("run-a", "absent")
	assert.Error(t, err)
}

func TestSaveMeta_Overwrites(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("run-a", "rounds", "10"))
	require.NoError(t, db.SaveMeta("run-a", "rounds", "20"))

	v, err := db.GetMeta("run-a", "rounds")
	require.NoError(t, err)
	assert.Equal(t, "20", v)
}
