package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/autobake/api"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "history.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func sampleRun(scene string, started time.Time) api.RunRecord {
	return api.RunRecord{
		Scene:       scene,
		Object:      "Crate",
		Material:    "CrateMat",
		TextureSize: 512,
		Maps:        []api.MapType{api.MapDiffuse, api.MapNormal},
		OutputDir:   "/tmp/out",
		Status:      api.StatusFinished,
		Warnings:    2,
		StartedAt:   started,
		DurationMS:  120,
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	l := openLedger(t)

	first := sampleRun("a", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	second := sampleRun("b", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	require.NoError(t, l.Record(first))
	require.NoError(t, l.Record(second))

	runs, err := l.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// newest first
	assert.Equal(t, second, runs[0])
	assert.Equal(t, first, runs[1])
}

func TestLedgerLimit(t *testing.T) {
	l := openLedger(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Record(sampleRun("s", time.Now().UTC().Truncate(time.Second))))
	}

	runs, err := l.List(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLedgerEmpty(t *testing.T) {
	l := openLedger(t)
	runs, err := l.List(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLedgerNoMaps(t *testing.T) {
	l := openLedger(t)
	rec := sampleRun("s", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	rec.Maps = nil
	rec.Status = api.StatusCancelled
	require.NoError(t, l.Record(rec))

	runs, err := l.List(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Maps)
	assert.Equal(t, api.StatusCancelled, runs[0].Status)
}

func TestLedgerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(sampleRun("s", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.List(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
