// SPDX-License-Identifier: MIT

package analysis

import (
	"errors"
	"fmt"
)

// ErrStructural matches every *StructuralError via errors.Is.
var ErrStructural = errors.New("analysis: structural error")

// ErrNodeID indicates a node identifier that does not equal its 1-based position.
var ErrNodeID = errors.New("analysis: node id does not match its position")

// Stage names a pipeline step in errors, warnings and logs.
type Stage string

// Pipeline stages.
const (
	StageInput          Stage = "input"
	StageGraph          Stage = "graph"
	StageSpectral       Stage = "spectral"
	StageCentrality     Stage = "centrality"
	StageHydraulic      Stage = "hydraulic"
	StageIntegration    Stage = "integration"
	StageClassification Stage = "classification"
)

// StructuralError is a fatal input defect: the stage that detected it and the
// precondition it violated.
type StructuralError struct {
	Stage        Stage
	Precondition string
	Err          error
}

// Error implements error.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("analysis: %s: %s: %v", e.Stage, e.Precondition, e.Err)
}

// Unwrap exposes the underlying sentinel.
func (e *StructuralError) Unwrap() error { return e.Err }

// Is reports ErrStructural.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// NewStructuralError reports a fatal defect found at stage. Loaders use it
// for input the pipeline can never accept, such as a missing column.
func NewStructuralError(stage Stage, precondition string, err error) error {
	return &StructuralError{Stage: stage, Precondition: precondition, Err: err}
}

func structural(stage Stage, precondition string, err error) error {
	return NewStructuralError(stage, precondition, err)
}

// StageOf returns the stage of a structural error, or StageInput for any
// other failure.
func StageOf(err error) Stage {
	var se *StructuralError
	if errors.As(err, &se) {
		return se.Stage
	}

	return StageInput
}

// stageError wraps a non-structural failure with its stage.
func stageError(stage Stage, err error) error {
	return fmt.Errorf("analysis: %s: %w", stage, err)
}

// WarningKind classifies soft, locally handled conditions.
type WarningKind string

// Warning kinds.
const (
	DegenerateInput WarningKind = "degenerate-input"
	NumericCollapse WarningKind = "numeric-collapse"
)

// Warning records a condition handled in place.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Stage  Stage       `json:"stage"`
	Detail string      `json:"detail"`
}

// String renders "kind[stage]: detail".
func (w Warning) String() string {
	return fmt.Sprintf("%s[%s]: %s", w.Kind, w.Stage, w.Detail)
}
