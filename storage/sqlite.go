// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

// schemaV1 holds the input tables and the run history.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

CREATE TABLE IF NOT EXISTS nodes (
    node_id            INTEGER PRIMARY KEY,
    latitude           REAL NOT NULL,
    longitude          REAL NOT NULL,
    type               TEXT NOT NULL,
    elevation          REAL NOT NULL,
    flow_capacity      REAL NOT NULL,
    rainfall_intensity REAL NOT NULL,
    sediment_risk      REAL NOT NULL,
    hydraulic_load     REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    source INTEGER NOT NULL,
    target INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id                     TEXT PRIMARY KEY,
    created_at             TEXT NOT NULL,
    seed                   INTEGER NOT NULL,
    nodes                  INTEGER NOT NULL,
    edges                  INTEGER NOT NULL,
    algebraic_connectivity REAL NOT NULL,
    spectral_radius        REAL NOT NULL,
    power_iteration        TEXT NOT NULL,
    high_count             INTEGER NOT NULL,
    medium_count           INTEGER NOT NULL,
    low_count              INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_rows (
    run_id                  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    rank                    INTEGER NOT NULL,
    node_id                 INTEGER NOT NULL,
    latitude                REAL NOT NULL,
    longitude               REAL NOT NULL,
    type                    TEXT NOT NULL,
    degree                  INTEGER NOT NULL,
    eigenvalue_centrality   REAL NOT NULL,
    degree_centrality       REAL NOT NULL,
    hydraulic_vulnerability REAL NOT NULL,
    vulnerability_score     REAL NOT NULL,
    vulnerability_category  TEXT NOT NULL,
    elevation               REAL NOT NULL,
    flow_capacity           REAL NOT NULL,
    rainfall_intensity      REAL NOT NULL,
    sediment_risk           REAL NOT NULL,
    hydraulic_load          REAL NOT NULL,
    PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

// RunInfo is one stored run header.
type RunInfo struct {
	ID                    string
	CreatedAt             time.Time
	Seed                  int64
	Nodes                 int
	Edges                 int
	AlgebraicConnectivity float64
	SpectralRadius        float64
	PowerIteration        string
	Counts                map[vulnerability.Category]int
}

// SQLiteStore keeps input networks and run history in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path, enables WAL and a busy
// timeout, and migrates the schema. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	// One writer only; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
		if _, err = db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}
	s := &SQLiteStore{db: db, now: time.Now}
	if err = s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'").Scan(&tables); err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	version := 0 // fresh database
	if tables > 0 {
		err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read schema version: %w", err)
		}
	}

	if version < 1 {
		if _, err := s.db.ExecContext(ctx, schemaV1); err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (1)"); err != nil {
			return err
		}
	}

	return nil
}

// SaveNetwork replaces the stored network with nodes and edges.
func (s *SQLiteStore) SaveNetwork(ctx context.Context, nodes []network.Node, edges []network.Edge) (err error) {
	for _, n := range nodes {
		if err = ValidateNode(n); err != nil {
			return err
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return fmt.Errorf("storage: clear edges: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("storage: clear nodes: %w", err)
	}
	const qn = `INSERT INTO nodes (node_id, latitude, longitude, type, elevation, flow_capacity,
		rainfall_intensity, sediment_risk, hydraulic_load) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, n := range nodes {
		if _, err = tx.ExecContext(ctx, qn, n.ID, n.Latitude, n.Longitude, string(n.Type), n.Elevation,
			n.FlowCapacity, n.RainfallIntensity, n.SedimentRisk, n.HydraulicLoad); err != nil {
			return fmt.Errorf("storage: insert node %d: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if _, err = tx.ExecContext(ctx, "INSERT INTO edges (source, target) VALUES (?, ?)", e.Source, e.Target); err != nil {
			return fmt.Errorf("storage: insert edge %s: %w", e, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}

	return nil
}

// LoadNetwork reads nodes ordered by id and edges in insertion order.
func (s *SQLiteStore) LoadNetwork(ctx context.Context) (Network, error) {
	var net Network
	rows, err := s.db.QueryContext(ctx, `SELECT node_id, latitude, longitude, type, elevation, flow_capacity,
		rainfall_intensity, sediment_risk, hydraulic_load FROM nodes ORDER BY node_id`)
	if err != nil {
		return Network{}, fmt.Errorf("storage: query nodes: %w", err)
	}
	for rows.Next() {
		var n network.Node
		var typ string
		if err = rows.Scan(&n.ID, &n.Latitude, &n.Longitude, &typ, &n.Elevation, &n.FlowCapacity,
			&n.RainfallIntensity, &n.SedimentRisk, &n.HydraulicLoad); err != nil {
			rows.Close()
			return Network{}, fmt.Errorf("storage: scan node: %w", err)
		}
		n.Type = network.NodeType(typ)
		net.Nodes = append(net.Nodes, n)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return Network{}, fmt.Errorf("storage: nodes: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, "SELECT source, target FROM edges ORDER BY id")
	if err != nil {
		return Network{}, fmt.Errorf("storage: query edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e network.Edge
		if err = rows.Scan(&e.Source, &e.Target); err != nil {
			return Network{}, fmt.Errorf("storage: scan edge: %w", err)
		}
		net.Edges = append(net.Edges, e)
	}
	if err = rows.Err(); err != nil {
		return Network{}, fmt.Errorf("storage: edges: %w", err)
	}

	return net, nil
}

// SaveRun stores a finished run and its ranked rows under a fresh UUID.
func (s *SQLiteStore) SaveRun(ctx context.Context, res *analysis.Result) (info RunInfo, err error) {
	sum := res.Summary
	info = RunInfo{
		ID:                    uuid.NewString(),
		CreatedAt:             s.now().UTC(),
		Seed:                  sum.Seed,
		Nodes:                 sum.Nodes,
		Edges:                 sum.Edges,
		AlgebraicConnectivity: sum.AlgebraicConnectivity,
		SpectralRadius:        sum.SpectralRadius,
		PowerIteration:        sum.PowerOutcome,
		Counts: map[vulnerability.Category]int{
			vulnerability.High:   sum.Counts[vulnerability.High],
			vulnerability.Medium: sum.Counts[vulnerability.Medium],
			vulnerability.Low:    sum.Counts[vulnerability.Low],
		},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunInfo{}, fmt.Errorf("storage: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qr = `INSERT INTO runs (id, created_at, seed, nodes, edges, algebraic_connectivity, spectral_radius,
		power_iteration, high_count, medium_count, low_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, qr, info.ID, info.CreatedAt.Format(time.RFC3339Nano), info.Seed, info.Nodes,
		info.Edges, info.AlgebraicConnectivity, info.SpectralRadius, info.PowerIteration,
		info.Counts[vulnerability.High], info.Counts[vulnerability.Medium], info.Counts[vulnerability.Low]); err != nil {
		return RunInfo{}, fmt.Errorf("storage: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_rows (run_id, rank, node_id, latitude, longitude, type,
		degree, eigenvalue_centrality, degree_centrality, hydraulic_vulnerability, vulnerability_score,
		vulnerability_category, elevation, flow_capacity, rainfall_intensity, sediment_risk, hydraulic_load)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return RunInfo{}, fmt.Errorf("storage: prepare rows: %w", err)
	}
	defer stmt.Close()
	for rank, r := range res.Table {
		if _, err = stmt.ExecContext(ctx, info.ID, rank+1, r.NodeID, r.Latitude, r.Longitude, string(r.Type),
			r.Degree, r.EigenvalueCentrality, r.DegreeCentrality, r.HydraulicVulnerability, r.VulnerabilityScore,
			string(r.VulnerabilityCategory), r.Elevation, r.FlowCapacity, r.RainfallIntensity, r.SedimentRisk,
			r.HydraulicLoad); err != nil {
			return RunInfo{}, fmt.Errorf("storage: insert row %d: %w", r.NodeID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return RunInfo{}, fmt.Errorf("storage: commit: %w", err)
	}

	return info, nil
}

// ListRuns returns up to limit runs, newest first. limit ≤ 0 returns all.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	q := `SELECT id, created_at, seed, nodes, edges, algebraic_connectivity, spectral_radius,
		power_iteration, high_count, medium_count, low_count FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var (
			ri             RunInfo
			created        string
			high, med, low int
		)
		if err = rows.Scan(&ri.ID, &created, &ri.Seed, &ri.Nodes, &ri.Edges, &ri.AlgebraicConnectivity,
			&ri.SpectralRadius, &ri.PowerIteration, &high, &med, &low); err != nil {
			return nil, fmt.Errorf("storage: scan run: %w", err)
		}
		if ri.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("storage: run %s timestamp: %w", ri.ID, err)
		}
		ri.Counts = map[vulnerability.Category]int{vulnerability.High: high, vulnerability.Medium: med, vulnerability.Low: low}
		out = append(out, ri)
	}

	return out, rows.Err()
}

// RunRows returns the ranked table of a stored run.
func (s *SQLiteStore) RunRows(ctx context.Context, runID string) ([]analysis.Row, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: lookup run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT node_id, latitude, longitude, type, degree, eigenvalue_centrality,
		degree_centrality, hydraulic_vulnerability, vulnerability_score, vulnerability_category, elevation,
		flow_capacity, rainfall_intensity, sediment_risk, hydraulic_load
		FROM run_rows WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage: query rows: %w", err)
	}
	defer rows.Close()

	var out []analysis.Row
	for rows.Next() {
		var r analysis.Row
		var typ, cat string
		if err = rows.Scan(&r.NodeID, &r.Latitude, &r.Longitude, &typ, &r.Degree, &r.EigenvalueCentrality,
			&r.DegreeCentrality, &r.HydraulicVulnerability, &r.VulnerabilityScore, &cat, &r.Elevation,
			&r.FlowCapacity, &r.RainfallIntensity, &r.SedimentRisk, &r.HydraulicLoad); err != nil {
			return nil, fmt.Errorf("storage: scan row: %w", err)
		}
		r.Type = network.NodeType(typ)
		r.VulnerabilityCategory = vulnerability.Category(cat)
		out = append(out, r)
	}

	return out, rows.Err()
}
