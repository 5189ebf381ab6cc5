// SPDX-License-Identifier: MIT
package storage_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/storage"
)

const nodesCSV = `node_id,latitude,longitude,type,elevation,flow_capacity,rainfall_intensity,sediment_risk,hydraulic_load,notes
1,-6.200,106.816,manhole,12.5,2.0,45.0,0.30,0.55,north
2,-6.201,106.817,junction,10.0,3.5,50.0,0.10,0.40,
3,-6.202,106.818,manhole,8.2,1.5,60.0,0.45,0.70,
4,-6.203,106.819,outfall,5.0,6.0,55.0,0.05,0.20,river
`

const edgesCSV = `source,target
1,2
2,3
3,4
`

// writeFixture writes content into dir/name and returns the path.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	np := writeFixture(t, dir, "nodes.csv", nodesCSV)
	ep := writeFixture(t, dir, "edges.csv", edgesCSV)

	net, err := storage.ReadCSV(context.Background(), np, ep)
	require.NoError(t, err)
	require.Len(t, net.Nodes, 4)
	require.Len(t, net.Edges, 3)

	assert.Equal(t, network.Node{
		ID: 3, Latitude: -6.202, Longitude: 106.818, Type: network.TypeManhole,
		Elevation: 8.2, FlowCapacity: 1.5, RainfallIntensity: 60, SedimentRisk: 0.45, HydraulicLoad: 0.7,
	}, net.Nodes[2])
	assert.Equal(t, network.Edge{Source: 3, Target: 4}, net.Edges[2])
}

func TestReadCSVMissingColumnIsStructural(t *testing.T) {
	dir := t.TempDir()
	np := writeFixture(t, dir, "nodes.csv", strings.Replace(nodesCSV, ",hydraulic_load,", ",load,", 1))
	ep := writeFixture(t, dir, "edges.csv", edgesCSV)

	_, err := storage.ReadCSV(context.Background(), np, ep)
	require.ErrorIs(t, err, analysis.ErrStructural)
	require.ErrorIs(t, err, storage.ErrMissingColumn)
	assert.Contains(t, err.Error(), "hydraulic_load")
}

func TestReadCSVMissingFile(t *testing.T) {
	dir := t.TempDir()
	np := writeFixture(t, dir, "nodes.csv", nodesCSV)
	_, err := storage.ReadCSV(context.Background(), np, filepath.Join(dir, "absent.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadNodesErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing column", "node_id,latitude,longitude,type,elevation,flow_capacity,rainfall_intensity,sediment_risk\n", storage.ErrMissingColumn},
		{"bad float", strings.Replace(nodesCSV, "12.5", "high", 1), storage.ErrInvalidRecord},
		{"sediment above 1", strings.Replace(nodesCSV, "0.30,0.55", "1.30,0.55", 1), storage.ErrInvalidRecord},
		{"negative capacity", strings.Replace(nodesCSV, "2.0,45.0", "-2.0,45.0", 1), storage.ErrInvalidRecord},
		{"empty type", strings.Replace(nodesCSV, "outfall", "", 1), storage.ErrInvalidRecord},
		{"zero id", strings.Replace(nodesCSV, "\n1,", "\n0,", 1), storage.ErrInvalidRecord},
		{"short row", nodesCSV + "5,-6.2\n", storage.ErrInvalidRecord},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := storage.ReadNodes(ctx, strings.NewReader(tc.body))
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.want == storage.ErrMissingColumn, errors.Is(err, analysis.ErrStructural))
		})
	}
}

func TestReadEdgesErrors(t *testing.T) {
	ctx := context.Background()
	_, err := storage.ReadEdges(ctx, strings.NewReader("from,to\n1,2\n"))
	require.ErrorIs(t, err, storage.ErrMissingColumn)
	require.ErrorIs(t, err, analysis.ErrStructural)
	var se *analysis.StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, analysis.StageInput, se.Stage)
	_, err = storage.ReadEdges(ctx, strings.NewReader("source,target\n1,x\n"))
	require.ErrorIs(t, err, storage.ErrInvalidRecord)
	_, err = storage.ReadEdges(ctx, strings.NewReader("source,target\n-1,2\n"))
	require.ErrorIs(t, err, storage.ErrInvalidRecord)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = storage.ReadEdges(cancelled, strings.NewReader(edgesCSV))
	require.ErrorIs(t, err, context.Canceled)
}

func runFixture(t *testing.T) *analysis.Result {
	t.Helper()
	ctx := context.Background()
	nodes, err := storage.ReadNodes(ctx, strings.NewReader(nodesCSV))
	require.NoError(t, err)
	edges, err := storage.ReadEdges(ctx, strings.NewReader(edgesCSV))
	require.NoError(t, err)
	res, err := analysis.Run(nodes, edges)
	require.NoError(t, err)

	return res
}

func TestWriteCSV(t *testing.T) {
	res := runFixture(t)
	var buf bytes.Buffer
	require.NoError(t, storage.WriteCSV(&buf, res.Table))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, storage.ResultColumns, recs[0])
	assert.Equal(t, "0.95", recs[1][8], "top row carries the maximum score")
	assert.Equal(t, string(res.Table[0].VulnerabilityCategory), recs[1][9])
}

func TestWriteJSON(t *testing.T) {
	res := runFixture(t)
	var buf bytes.Buffer
	require.NoError(t, storage.WriteJSON(&buf, res))

	var doc struct {
		Summary struct {
			Nodes int `json:"nodes"`
		} `json:"summary"`
		Warnings []analysis.Warning `json:"warnings"`
		Nodes    []analysis.Row     `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 4, doc.Summary.Nodes)
	assert.NotNil(t, doc.Warnings)
	assert.Equal(t, res.Table, doc.Nodes)
}
