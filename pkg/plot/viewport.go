package plot

import (
	"math"

	"github.com/menta2k/contour-trace/pkg/types"
)

const (
	marginLeft   = 56
	marginRight  = 16
	marginTop    = 36
	marginBottom = 48
	padding      = 0.05
)

// viewport maps data coordinates to pixels with equal scaling on both axes
type viewport struct {
	minX, maxY float64 // data value at the left and top edges
	span       float64 // data units covered by the plot side
	left, top  float64 // pixel position of the plot area
	side       float64 // plot area side in pixels
	scale      float64 // pixels per data unit
}

func newViewport(ps types.PointSet, radius float64, size int) viewport {
	minX, maxX := -radius, radius
	minY, maxY := -radius, radius
	for _, p := range ps {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span <= 0 {
		span = 1
	}
	span *= 1 + 2*padding

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	side := math.Min(float64(size-marginLeft-marginRight), float64(size-marginTop-marginBottom))

	return viewport{
		minX:  cx - span/2,
		maxY:  cy + span/2,
		span:  span,
		left:  marginLeft,
		top:   marginTop,
		side:  side,
		scale: side / span,
	}
}

func (v viewport) toPixel(x, y float64) (float64, float64) {
	return v.left + (x-v.minX)*v.scale, v.top + (v.maxY-y)*v.scale
}

// ticksX returns round values inside the visible horizontal range
func (v viewport) ticksX() []float64 {
	return ticks(v.minX, v.span)
}

// ticksY returns round values inside the visible vertical range
func (v viewport) ticksY() []float64 {
	return ticks(v.maxY-v.span, v.span)
}

func ticks(lo, span float64) []float64 {
	step := niceStep(span / 6)
	var out []float64
	for i := math.Ceil(lo / step); i*step <= lo+span; i++ {
		out = append(out, i*step)
	}
	return out
}

// niceStep rounds a raw step up to 1, 2 or 5 times a power of ten
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / mag; {
	case f <= 1:
		return mag
	case f <= 2:
		return 2 * mag
	case f <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
