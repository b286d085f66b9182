// Package tasplan plans collision-free movement paths for a triple-axis
// spectrometer. The two scattering angles a2 (monochromator) and a4
// (sample) span a two-dimensional configuration space; obstacles are
// rasterised into it, their boundaries are simplified into convex
// polygons, and the Voronoi diagram of those polygons serves as a
// roadmap on which shortest paths are found.
//
// This package is a thin facade over the pipeline packages; use
// builder.Builder directly for fine-grained control over the stages.
package tasplan

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/tastools/tasplan/builder"
	"github.com/tastools/tasplan/configspace"
	"github.com/tastools/tasplan/geom"
	"github.com/tastools/tasplan/instrument"
	"github.com/tastools/tasplan/voronoi"
)

type (
	Space          = instrument.Space
	InstrumentPath = builder.InstrumentPath
)

// LoadInstrument reads an instrument definition file.
func LoadInstrument(path string) (*Space, error) {
	return instrument.Load(path)
}

// NewPlanner wires a builder to an instrument space with default
// settings.
func NewPlanner(space *Space, logger golog.Logger) *builder.Builder {
	b := builder.New(logger)
	b.SetInstrumentSpace(space)
	return b
}

// Calculate runs the full pipeline over the instrument's angular limits
// at the given resolution (radians per cell).
func Calculate(b *builder.Builder, space *Space, da2, da4 float64) error {
	a2lo, a2hi, a4lo, a4hi := space.AngularLimits()
	bounds := configspace.Bounds{A2Lo: a2lo, A2Hi: a2hi, A4Lo: a4lo, A4Hi: a4hi}
	if !b.CalculateConfigSpace(da2, da4, bounds) {
		return errors.New("configuration space calculation failed")
	}
	if !b.CalculateWallIndexTree() {
		return errors.New("wall index calculation failed")
	}
	if !b.CalculateWallContours(true, true) {
		return errors.New("wall contour calculation failed")
	}
	if !b.CalculateLineSegments(true) {
		return errors.New("line segment calculation failed")
	}
	if !b.CalculateVoronoi(true, voronoi.BackendIntScaled, true) {
		return errors.New("voronoi calculation failed")
	}
	return nil
}

// Plan is the one-shot convenience: load, calculate, query. Angles are
// (a2, a4) radians; the returned waypoints are (a2, a4) radians too.
func Plan(space *Space, a2Cur, a4Cur, a2Tgt, a4Tgt float64) ([]geom.Vec2, error) {
	logger := golog.NewLogger(instrument.ProgramIdent)
	b := NewPlanner(space, logger)

	a2lo, a2hi, a4lo, a4hi := space.AngularLimits()
	da2 := (a2hi - a2lo) / 256
	da4 := (a4hi - a4lo) / 256
	if err := Calculate(b, space, da2, da4); err != nil {
		return nil, err
	}

	path := b.FindPath(a2Cur, a4Cur, a2Tgt, a4Tgt, builder.StrategyShortest)
	if !path.Ok {
		return nil, errors.New("no collision-free path found")
	}
	return b.GetPathVertices(path, true, false), nil
}
