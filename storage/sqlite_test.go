package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "runs.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestOpenTwiceKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	_, err = store.RecordRun(Run{Level: "runner_01", Outcome: OutcomeComplete, Elapsed: 30})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.RecentRuns("runner_01", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, r := range []Run{
		{Level: "runner_01", Outcome: OutcomeDeath, Elapsed: 4.5, Jumps: 1},
		{Level: "runner_01", Outcome: OutcomeDeath, Elapsed: 9, Jumps: 3},
		{Level: "runner_01", Outcome: OutcomeComplete, Elapsed: 24.25, Jumps: 8},
		{Level: "other", Outcome: OutcomeComplete, Elapsed: 12},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		id, err := store.RecordRun(r)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	runs, err := store.RecentRuns("runner_01", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, OutcomeComplete, runs[0].Outcome)
	assert.Equal(t, 24.25, runs[0].Elapsed)
	assert.Equal(t, 8, runs[0].Jumps)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, 9.0, runs[1].Elapsed)

	all, err := store.RecentRuns("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "other", all[0].Level)

	deaths, err := store.Deaths("runner_01")
	require.NoError(t, err)
	assert.Equal(t, 2, deaths)
}

func TestBestTime(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.BestTime("runner_01")
	require.NoError(t, err)
	assert.False(t, ok, "no completions yet")

	for _, elapsed := range []float64{30, 21.5, 26} {
		_, err := store.RecordRun(Run{Level: "runner_01", Outcome: OutcomeComplete, Elapsed: elapsed})
		require.NoError(t, err)
	}
	_, err = store.RecordRun(Run{Level: "runner_01", Outcome: OutcomeDeath, Elapsed: 2})
	require.NoError(t, err)

	best, ok, err := store.BestTime("runner_01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 21.5, best)
}

func TestRecordRunRejectsBadRuns(t *testing.T) {
	store := openTestStore(t)

	_, err := store.RecordRun(Run{Outcome: OutcomeDeath})
	assert.Error(t, err)
	_, err = store.RecordRun(Run{Level: "runner_01", Outcome: "quit"})
	assert.Error(t, err)
}

func TestCloseNilStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
