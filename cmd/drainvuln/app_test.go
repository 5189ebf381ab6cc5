// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/config"
	"github.com/katalvlaran/drainvuln/metrics"
	"github.com/katalvlaran/drainvuln/storage"
)

const testNodes = `node_id,latitude,longitude,type,elevation,flow_capacity,rainfall_intensity,sediment_risk,hydraulic_load
1,-6.200,106.816,junction,4.0,1.0,70.0,0.60,0.80
2,-6.201,106.817,manhole,10.0,3.5,50.0,0.10,0.40
3,-6.202,106.818,manhole,8.2,1.5,60.0,0.45,0.70
4,-6.203,106.819,outfall,5.0,6.0,55.0,0.05,0.20
`

const testEdges = `source,target
1,2
1,3
2,3
1,4
`

// testApp writes the fixture network into a temp dir and configures every sink there.
func testApp(t *testing.T) (*app, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.csv"), []byte(testNodes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.csv"), []byte(testEdges), 0o644))

	v := viper.New()
	v.Set("input.nodes", filepath.Join(dir, "nodes.csv"))
	v.Set("input.edges", filepath.Join(dir, "edges.csv"))
	v.Set("output.csv", filepath.Join(dir, "out", "results.csv"))
	v.Set("output.json", filepath.Join(dir, "out", "results.json"))
	v.Set("output.sqlite", filepath.Join(dir, "runs.db"))
	v.Set("metrics.textfile", filepath.Join(dir, "metrics", "drainvuln.prom"))
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)

	var out bytes.Buffer
	return &app{cfg: cfg, log: zaptest.NewLogger(t), metrics: metrics.NewRegistry(), out: &out}, dir, &out
}

func TestAppAnalyzeWritesAllSinks(t *testing.T) {
	a, dir, out := testApp(t)
	ctx := context.Background()

	res, err := a.analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Table[0].NodeID, "the hub with the worst hydraulics ranks first")
	assert.Contains(t, out.String(), "NETWORK STATISTICS")

	f, err := os.Open(filepath.Join(dir, "out", "results.csv"))
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 5)

	assert.FileExists(t, filepath.Join(dir, "out", "results.json"))
	prom, err := os.ReadFile(filepath.Join(dir, "metrics", "drainvuln.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "drainvuln_runs_total")

	store, err := storage.OpenSQLite(ctx, filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	rows, err := store.RunRows(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, res.Table, rows)
}

func TestAppAnalyzeStructuralFailure(t *testing.T) {
	a, dir, _ := testApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.csv"), []byte("source,target\n1,9\n"), 0o644))

	_, err := a.analyze(context.Background())
	require.ErrorIs(t, err, analysis.ErrStructural)

	prom, err := os.ReadFile(filepath.Join(dir, "metrics", "drainvuln.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "drainvuln_failures_total")
	assert.NoFileExists(t, filepath.Join(dir, "out", "results.csv"))
}

func TestAppMissingColumnCountsAsStructuralFailure(t *testing.T) {
	a, dir, _ := testApp(t)
	nodes := strings.Replace(testNodes, ",sediment_risk,", ",sediment,", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.csv"), []byte(nodes), 0o644))

	_, err := a.analyze(context.Background())
	require.ErrorIs(t, err, analysis.ErrStructural)
	require.ErrorIs(t, err, storage.ErrMissingColumn)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.FailuresTotal.WithLabelValues(string(analysis.StageInput))))

	prom, err := os.ReadFile(filepath.Join(dir, "metrics", "drainvuln.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `drainvuln_failures_total{stage="input"} 1`)
}

func TestAppLoadsFromSQLite(t *testing.T) {
	a, dir, _ := testApp(t)
	ctx := context.Background()
	net, err := storage.ReadCSV(ctx, a.cfg.Input.Nodes, a.cfg.Input.Edges)
	require.NoError(t, err)

	db := filepath.Join(dir, "network.db")
	store, err := storage.OpenSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, store.SaveNetwork(ctx, net.Nodes, net.Edges))
	require.NoError(t, store.Close())

	a.cfg.Input.SQLite = db
	got, err := a.loadNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, net, got)
}

func TestWatchStoringIntoItsInputRunsOnce(t *testing.T) {
	a, dir, _ := testApp(t)
	ctx := context.Background()
	net, err := storage.ReadCSV(ctx, a.cfg.Input.Nodes, a.cfg.Input.Edges)
	require.NoError(t, err)

	db := filepath.Join(dir, "network.db")
	store, err := storage.OpenSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, store.SaveNetwork(ctx, net.Nodes, net.Edges))
	require.NoError(t, store.Close())

	a.cfg.Input.SQLite = db
	a.cfg.Output.SQLite = db
	a.cfg.Watch.Debounce = 50 * time.Millisecond

	wctx, cancel := context.WithTimeout(ctx, 800*time.Millisecond)
	defer cancel()
	require.NoError(t, a.watch(wctx))

	store, err = storage.OpenSQLite(ctx, db)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "each stored run must not trigger another")
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1), "debug disabled")

	_, err = newLogger(config.LogConfig{Level: "loud", Format: "console"})
	require.Error(t, err)
}
