// SPDX-License-Identifier: MIT

package storage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/drainvuln/network"
)

var (
	// ErrMissingColumn indicates a required column is absent from a table
	// header. It arrives wrapped in an *analysis.StructuralError.
	ErrMissingColumn = errors.New("storage: missing required column")

	// ErrInvalidRecord indicates a row that fails parsing or validation.
	ErrInvalidRecord = errors.New("storage: invalid record")

	// ErrRunNotFound indicates an unknown run identifier.
	ErrRunNotFound = errors.New("storage: run not found")
)

// validate is a singleton validator instance.
var validate = validator.New()

// Required columns, in the order results are written back.
var (
	NodeColumns = []string{
		"node_id", "latitude", "longitude", "type", "elevation",
		"flow_capacity", "rainfall_intensity", "sediment_risk", "hydraulic_load",
	}
	EdgeColumns = []string{"source", "target"}
)

// nodeRecord is the validated shape of one node row.
type nodeRecord struct {
	ID                int     `validate:"required,min=1"`
	Latitude          float64 `validate:"gte=-90,lte=90"`
	Longitude         float64 `validate:"gte=-180,lte=180"`
	Type              string  `validate:"required,max=64"`
	Elevation         float64
	FlowCapacity      float64 `validate:"gte=0"`
	RainfallIntensity float64 `validate:"gte=0"`
	SedimentRisk      float64 `validate:"gte=0,lte=1"`
	HydraulicLoad     float64 `validate:"gte=0,lte=1"`
}

func (r nodeRecord) node() network.Node {
	return network.Node{
		ID:                r.ID,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		Type:              network.NodeType(r.Type),
		Elevation:         r.Elevation,
		FlowCapacity:      r.FlowCapacity,
		RainfallIntensity: r.RainfallIntensity,
		SedimentRisk:      r.SedimentRisk,
		HydraulicLoad:     r.HydraulicLoad,
	}
}

// edgeRecord is the validated shape of one edge row.
type edgeRecord struct {
	Source int `validate:"required,min=1"`
	Target int `validate:"required,min=1"`
}

// ValidateNode checks a node against the record constraints.
func ValidateNode(n network.Node) error {
	rec := nodeRecord{
		ID: n.ID, Latitude: n.Latitude, Longitude: n.Longitude, Type: string(n.Type),
		Elevation: n.Elevation, FlowCapacity: n.FlowCapacity, RainfallIntensity: n.RainfallIntensity,
		SedimentRisk: n.SedimentRisk, HydraulicLoad: n.HydraulicLoad,
	}
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: node %d: %v", ErrInvalidRecord, n.ID, formatValidationError(err))
	}

	return nil
}

// formatValidationError renders the first field error in a readable form.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", e.Field(), e.Param())
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", e.Field(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}

	return err
}
