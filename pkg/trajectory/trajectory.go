// Package trajectory normalizes contour points into arm workspace coordinates.
//
// Every stage is a pure function: the input set is never modified and a new
// set of the same length and order is returned. Normalize applies the stages
// in their fixed order: center, flip Y, scale to radius, translate.
package trajectory

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/menta2k/contour-trace/pkg/types"
)

// Config holds the tunable parameters of the normalization pipeline
type Config struct {
	TargetRadius float64 `json:"target_radius"` // cm
	ShiftX       float64 `json:"shift_x"`       // cm
	ShiftY       float64 `json:"shift_y"`       // cm
	Stride       int     `json:"stride"`
}

// DefaultConfig returns the parameters used to generate the flower pattern
func DefaultConfig() Config {
	return Config{
		TargetRadius: 8.0,
		ShiftX:       -8.0,
		ShiftY:       -1.0,
		Stride:       5,
	}
}

// coincidenceTolerance is the spread, relative to the centroid distance,
// below which a point set counts as a single point
const coincidenceTolerance = 1e-12

// Subsample keeps every stride-th point starting with the first one
func Subsample(ps types.PointSet, stride int) (types.PointSet, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStride, stride)
	}
	return lo.Filter(ps, func(_ types.Point, i int) bool {
		return i%stride == 0
	}), nil
}

// Centroid returns the arithmetic mean of the x and y coordinates
func Centroid(ps types.PointSet) (types.Point, error) {
	if len(ps) == 0 {
		return types.Point{}, ErrNoContours
	}
	return types.Point{
		X: stat.Mean(ps.Xs(), nil),
		Y: stat.Mean(ps.Ys(), nil),
	}, nil
}

// Center subtracts the centroid from every point
func Center(ps types.PointSet) (types.PointSet, error) {
	c, err := Centroid(ps)
	if err != nil {
		return nil, err
	}
	return Translate(ps, -c.X, -c.Y), nil
}

// FlipY negates every y value, turning image rows into math coordinates
func FlipY(ps types.PointSet) types.PointSet {
	return lo.Map(ps, func(p types.Point, _ int) types.Point {
		return types.Point{X: p.X, Y: -p.Y}
	})
}

// MaxNorm returns the largest distance from the origin across the set
func MaxNorm(ps types.PointSet) (float64, error) {
	if len(ps) == 0 {
		return 0, ErrNoContours
	}
	norms := lo.Map(ps, func(p types.Point, _ int) float64 {
		return p.Norm()
	})
	return floats.Max(norms), nil
}

// ScaleToRadius scales the set uniformly so its farthest point lies at radius
func ScaleToRadius(ps types.PointSet, radius float64) (types.PointSet, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, ErrInvalidRadius{radius: radius}
	}
	maxNorm, err := MaxNorm(ps)
	if err != nil {
		return nil, err
	}
	if maxNorm == 0 || math.IsNaN(maxNorm) || math.IsInf(maxNorm, 0) {
		return nil, fmt.Errorf("%w: max norm %v", ErrDegenerate, maxNorm)
	}
	scale := radius / maxNorm
	return lo.Map(ps, func(p types.Point, _ int) types.Point {
		return types.Point{X: p.X * scale, Y: p.Y * scale}
	}), nil
}

// Translate adds a fixed offset to every point
func Translate(ps types.PointSet, dx, dy float64) types.PointSet {
	return lo.Map(ps, func(p types.Point, _ int) types.Point {
		return types.Point{X: p.X + dx, Y: p.Y + dy}
	})
}

// Normalize centers, flips, scales and translates the set in that order
func Normalize(ps types.PointSet, cfg Config) (types.PointSet, error) {
	c, err := Centroid(ps)
	if err != nil {
		return nil, err
	}
	centered := Translate(ps, -c.X, -c.Y)

	// Coincident points leave only rounding noise of the mean after centering
	maxNorm, err := MaxNorm(centered)
	if err != nil {
		return nil, err
	}
	if maxNorm <= coincidenceTolerance*math.Max(1, c.Norm()) {
		return nil, fmt.Errorf("%w: max norm %v", ErrDegenerate, maxNorm)
	}

	scaled, err := ScaleToRadius(FlipY(centered), cfg.TargetRadius)
	if err != nil {
		return nil, err
	}
	return Translate(scaled, cfg.ShiftX, cfg.ShiftY), nil
}

// Process subsamples the raw contour points and normalizes the result
func Process(raw types.PointSet, cfg Config) (types.PointSet, error) {
	sampled, err := Subsample(raw, cfg.Stride)
	if err != nil {
		return nil, err
	}
	return Normalize(sampled, cfg)
}
