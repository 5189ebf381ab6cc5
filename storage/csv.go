// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/network"
)

// Network is a loaded node table plus edge list.
type Network struct {
	Nodes []network.Node
	Edges []network.Edge
}

// ReadCSV loads the node and edge tables concurrently. The first error
// cancels the other reader.
func ReadCSV(ctx context.Context, nodesPath, edgesPath string) (Network, error) {
	var net Network
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodes, err := readFile(ctx, nodesPath, ReadNodes)
		net.Nodes = nodes
		return err
	})
	g.Go(func() error {
		edges, err := readFile(ctx, edgesPath, ReadEdges)
		net.Edges = edges
		return err
	})
	if err := g.Wait(); err != nil {
		return Network{}, err
	}

	return net, nil
}

func readFile[T any](ctx context.Context, path string, read func(context.Context, io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", path, err)
	}

	return out, nil
}

// header maps required column names to their positions. A missing column is
// a structural error.
func header(r *csv.Reader, required []string) (map[string]int, error) {
	cols, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[strings.TrimSpace(strings.ToLower(c))] = i
	}
	for _, want := range required {
		if _, ok := idx[want]; !ok {
			return nil, analysis.NewStructuralError(analysis.StageInput, "required columns present",
				fmt.Errorf("%w: %q", ErrMissingColumn, want))
		}
	}

	return idx, nil
}

// fieldReader pulls typed cells out of one CSV record.
type fieldReader struct {
	rec  []string
	idx  map[string]int
	line int
	err  error
}

func (f *fieldReader) str(col string) string {
	return strings.TrimSpace(f.rec[f.idx[col]])
}

func (f *fieldReader) float(col string) float64 {
	if f.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(f.str(col), 64)
	if err != nil {
		f.err = fmt.Errorf("%w: line %d: %s: %v", ErrInvalidRecord, f.line, col, err)
	}

	return v
}

func (f *fieldReader) integer(col string) int {
	if f.err != nil {
		return 0
	}
	v, err := strconv.Atoi(f.str(col))
	if err != nil {
		f.err = fmt.Errorf("%w: line %d: %s: %v", ErrInvalidRecord, f.line, col, err)
	}

	return v
}

// ReadNodes parses a node table. Extra columns are ignored.
func ReadNodes(ctx context.Context, r io.Reader) ([]network.Node, error) {
	cr := csv.NewReader(r)
	idx, err := header(cr, NodeColumns)
	if err != nil {
		return nil, err
	}

	var nodes []network.Node
	for line := 2; ; line++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}
		f := &fieldReader{rec: rec, idx: idx, line: line}
		nr := nodeRecord{
			ID:                f.integer("node_id"),
			Latitude:          f.float("latitude"),
			Longitude:         f.float("longitude"),
			Type:              f.str("type"),
			Elevation:         f.float("elevation"),
			FlowCapacity:      f.float("flow_capacity"),
			RainfallIntensity: f.float("rainfall_intensity"),
			SedimentRisk:      f.float("sediment_risk"),
			HydraulicLoad:     f.float("hydraulic_load"),
		}
		if f.err != nil {
			return nil, f.err
		}
		if err = validate.Struct(nr); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, formatValidationError(err))
		}
		nodes = append(nodes, nr.node())
	}

	return nodes, nil
}

// ReadEdges parses an edge table. Extra columns are ignored.
func ReadEdges(ctx context.Context, r io.Reader) ([]network.Edge, error) {
	cr := csv.NewReader(r)
	idx, err := header(cr, EdgeColumns)
	if err != nil {
		return nil, err
	}

	var edges []network.Edge
	for line := 2; ; line++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}
		f := &fieldReader{rec: rec, idx: idx, line: line}
		er := edgeRecord{Source: f.integer("source"), Target: f.integer("target")}
		if f.err != nil {
			return nil, f.err
		}
		if err = validate.Struct(er); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, formatValidationError(err))
		}
		edges = append(edges, network.Edge{Source: er.Source, Target: er.Target})
	}

	return edges, nil
}

// ResultColumns is the column order of the ranked results table.
var ResultColumns = []string{
	"node_id", "latitude", "longitude", "type", "degree",
	"eigenvalue_centrality", "degree_centrality", "hydraulic_vulnerability",
	"vulnerability_score", "vulnerability_category",
	"elevation", "flow_capacity", "rainfall_intensity", "sediment_risk", "hydraulic_load",
}

// WriteCSV writes the ranked table with a header row.
func WriteCSV(w io.Writer, rows []analysis.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return fmt.Errorf("storage: write header: %w", err)
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.NodeID), ff(r.Latitude), ff(r.Longitude), string(r.Type), strconv.Itoa(r.Degree),
			ff(r.EigenvalueCentrality), ff(r.DegreeCentrality), ff(r.HydraulicVulnerability),
			ff(r.VulnerabilityScore), string(r.VulnerabilityCategory),
			ff(r.Elevation), ff(r.FlowCapacity), ff(r.RainfallIntensity), ff(r.SedimentRisk), ff(r.HydraulicLoad),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("storage: write node %d: %w", r.NodeID, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// jsonReport is the document written by WriteJSON.
type jsonReport struct {
	Summary  analysis.Summary   `json:"summary"`
	Warnings []analysis.Warning `json:"warnings"`
	Nodes    []analysis.Row     `json:"nodes"`
}

// WriteJSON writes the summary, warnings and ranked table as indented JSON.
func WriteJSON(w io.Writer, res *analysis.Result) error {
	doc := jsonReport{Summary: res.Summary, Warnings: res.Warnings, Nodes: res.Table}
	if doc.Warnings == nil {
		doc.Warnings = []analysis.Warning{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("storage: encode json: %w", err)
	}

	return nil
}
