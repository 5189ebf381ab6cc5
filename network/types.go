// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/drainvuln/matrix"
)

// Sentinel errors returned by the builder.
var (
	// ErrTooFewNodes indicates n < 2: no second Laplacian eigenvalue exists and
	// degree normalization by n−1 is undefined.
	ErrTooFewNodes = errors.New("network: at least two nodes are required")

	// ErrNodeOutOfRange indicates an edge endpoint outside [1, n].
	ErrNodeOutOfRange = errors.New("network: edge endpoint out of range")

	// ErrBadSelfLoopPolicy indicates an unknown SelfLoopPolicy value.
	ErrBadSelfLoopPolicy = errors.New("network: unknown self-loop policy")
)

// NodeType is the categorical kind of a drainage structure.
type NodeType string

// Known node types. Loaders accept any non-empty value; these are the ones
// the field surveys produce.
const (
	TypeManhole  NodeType = "manhole"
	TypeJunction NodeType = "junction"
	TypeOutfall  NodeType = "outfall"
	TypeInlet    NodeType = "inlet"
)

// Node is one drainage structure with its static physical attributes.
type Node struct {
	ID                int      // 1-based identifier; equals row position
	Latitude          float64  // decimal degrees
	Longitude         float64  // decimal degrees
	Type              NodeType // categorical kind
	Elevation         float64  // meters
	FlowCapacity      float64  // m³/s
	RainfallIntensity float64  // mm/h
	SedimentRisk      float64  // unitless, expected in [0,1]
	HydraulicLoad     float64  // unitless, expected in [0,1]
}

// Edge is an unordered pair of 1-based node identifiers.
type Edge struct {
	Source int
	Target int
}

// String renders the edge as "s-t".
func (e Edge) String() string { return fmt.Sprintf("%d-%d", e.Source, e.Target) }

// Matrices bundles the builder output. Every matrix is n×n and owned by the
// caller; downstream stages treat them as read-only.
type Matrices struct {
	Adjacency *matrix.Dense // symmetric, binary
	Degree    *matrix.Dense // diag(Degrees)
	Laplacian *matrix.Dense // Degree − Adjacency
	Degrees   []float64     // row sums of Adjacency
}

// N returns the node count.
func (m Matrices) N() int { return len(m.Degrees) }

// SelfLoopPolicy decides what a (k,k) edge does to the adjacency matrix.
type SelfLoopPolicy int

const (
	// SelfLoopDrop ignores self-loops; A keeps a zero diagonal.
	SelfLoopDrop SelfLoopPolicy = iota

	// SelfLoopKeep sets A[k,k] = 1; the node's degree grows by exactly 1.
	SelfLoopKeep
)

// String implements fmt.Stringer.
func (p SelfLoopPolicy) String() string {
	switch p {
	case SelfLoopDrop:
		return "drop"
	case SelfLoopKeep:
		return "keep"
	default:
		return fmt.Sprintf("SelfLoopPolicy(%d)", int(p))
	}
}

// ParseSelfLoopPolicy maps "drop"/"keep" onto a policy.
func ParseSelfLoopPolicy(s string) (SelfLoopPolicy, error) {
	switch s {
	case "", "drop":
		return SelfLoopDrop, nil
	case "keep":
		return SelfLoopKeep, nil
	default:
		return SelfLoopDrop, fmt.Errorf("%w: %q", ErrBadSelfLoopPolicy, s)
	}
}

// Options configures BuildMatrices.
type Options struct {
	SelfLoops SelfLoopPolicy
}

// Option is a functional option for BuildMatrices.
type Option func(*Options)

// DefaultOptions returns the builder defaults: self-loops dropped.
func DefaultOptions() Options {
	return Options{SelfLoops: SelfLoopDrop}
}

// WithSelfLoops selects the self-loop policy.
func WithSelfLoops(p SelfLoopPolicy) Option {
	return func(o *Options) {
		o.SelfLoops = p
	}
}
