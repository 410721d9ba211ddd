package types

import "math"

// Point is a 2D coordinate. Pixel space until normalized, centimeters after.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Norm returns the Euclidean distance of the point from the origin
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// PointSet is an ordered sequence of points. Order only matters for rendering continuity.
type PointSet []Point

// Xs returns the x coordinates in order
func (ps PointSet) Xs() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.X
	}
	return out
}

// Ys returns the y coordinates in order
func (ps PointSet) Ys() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Y
	}
	return out
}

// Clone returns an independent copy of the set
func (ps PointSet) Clone() PointSet {
	if ps == nil {
		return nil
	}
	out := make(PointSet, len(ps))
	copy(out, ps)
	return out
}

// Box represents a normalized bounding box with coordinates in [0,1] range
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Subject is the shape located by a vision model
type Subject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// LocateResult contains the complete answer from the vision model
type LocateResult struct {
	Subject     Subject `json:"subject"`
	Description string  `json:"description"`
}
