// SPDX-License-Identifier: MIT
package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/storage"
)

func TestWatcherReportsDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	np := writeFixture(t, dir, "nodes.csv", nodesCSV)
	other := writeFixture(t, dir, "notes.txt", "x")

	w, err := storage.NewWatcher(50*time.Millisecond, np)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Burst of writes plus an unrelated file.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(np, []byte(nodesCSV), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))

	abs, err := filepath.Abs(np)
	require.NoError(t, err)
	select {
	case c := <-w.Changes:
		require.Equal(t, abs, c.File)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// The burst folds into one change.
	select {
	case c := <-w.Changes:
		t.Fatalf("unexpected second change for %s", c.File)
	case <-time.After(200 * time.Millisecond):
	}
}

// TestWatcherSettledRunIsNotAChange stores runs into the database being
// watched; once settled, those writes must not read as input changes, while a
// later write by another store still does.
func TestWatcherSettledRunIsNotAChange(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "net.db")
	s, err := storage.OpenSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s.SaveNetwork(ctx, mustNodes(t), mustEdges(t)))
	require.NoError(t, s.Close())

	files := []string{db, db + "-wal"}
	w, err := storage.NewWatcher(50*time.Millisecond, files...)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	for round := 0; round < 3; round++ {
		w.Settle(files...)
		s, err := storage.OpenSQLite(ctx, db)
		require.NoError(t, err)
		net, err := s.LoadNetwork(ctx)
		require.NoError(t, err)
		res, err := analysis.Run(net.Nodes, net.Edges)
		require.NoError(t, err)
		_, err = s.SaveRun(ctx, res)
		require.NoError(t, err)
		require.NoError(t, s.Close())
		w.Settle(files...)
	}

	quiet := time.After(300 * time.Millisecond)
drain:
	for {
		select {
		case c := <-w.Changes:
			assert.False(t, w.Changed(c.File), "stored run re-triggered %s", c.File)
		case <-quiet:
			break drain
		}
	}

	other, err := storage.OpenSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, other.SaveNetwork(ctx, mustNodes(t)[:3], mustEdges(t)[:2]))
	require.NoError(t, other.Close())

	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Changes:
			if w.Changed(c.File) {
				return
			}
		case <-timeout:
			t.Fatal("external write not reported")
		}
	}
}

func TestWatcherStartFailsOnMissingDirectory(t *testing.T) {
	w, err := storage.NewWatcher(0, filepath.Join(t.TempDir(), "absent", "nodes.csv"))
	require.NoError(t, err)
	require.Error(t, w.Start())
	w.Stop() // must not block after a failed Start

	assert.True(t, w.Changed(filepath.Join(t.TempDir(), "never-settled.csv")))
}
