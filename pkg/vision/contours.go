package vision

import (
	"image"

	"github.com/menta2k/contour-trace/pkg/types"
)

// Contour is a closed sequence of border pixel coordinates in traversal order.
// Pixels of one-pixel-wide strokes appear twice, once per side.
type Contour []image.Point

// Len returns the number of pixels in the contour
func (c Contour) Len() int {
	return len(c)
}

// Bounds returns the smallest rectangle containing every contour pixel
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// Points converts the contour to floating point coordinates
func (c Contour) Points() types.PointSet {
	ps := make(types.PointSet, len(c))
	for i, p := range c {
		ps[i] = types.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return ps
}

// Flatten concatenates the contours into a single point set, preserving order
func Flatten(contours []Contour) types.PointSet {
	var n int
	for _, c := range contours {
		n += len(c)
	}
	ps := make(types.PointSet, 0, n)
	for _, c := range contours {
		ps = append(ps, c.Points()...)
	}
	return ps
}

// FindContours returns the outer borders of the non-zero regions of a binary
// image. Regions lying inside a hole of another region are skipped and every
// border pixel is kept.
func FindContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	on := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			on[y*w+x] = mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0
		}
	}
	contours := findExternalContours(on, w, h)
	if b.Min != (image.Point{}) {
		for _, c := range contours {
			for i := range c {
				c[i] = c[i].Add(b.Min)
			}
		}
	}
	return contours
}

// borderGrid is a foreground mask padded with one background pixel on every side
type borderGrid struct {
	w, h int
	fg   []bool
}

func newBorderGrid(mask []bool, w, h int) *borderGrid {
	g := &borderGrid{w: w + 2, h: h + 2, fg: make([]bool, (w+2)*(h+2))}
	for y := 0; y < h; y++ {
		copy(g.fg[(y+1)*g.w+1:(y+1)*g.w+1+w], mask[y*w:(y+1)*w])
	}
	return g
}

func (g *borderGrid) index(p image.Point) int {
	return p.Y*g.w + p.X
}

func (g *borderGrid) on(p image.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= g.w || p.Y >= g.h {
		return false
	}
	return g.fg[g.index(p)]
}

// outside marks background reachable from the padding through 4-connected steps
func (g *borderGrid) outside() []bool {
	seen := make([]bool, len(g.fg))
	stack := []image.Point{{0, 0}}
	seen[0] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{1, 0}, {0, -1}, {-1, 0}, {0, 1}} {
			n := p.Add(d)
			if n.X < 0 || n.Y < 0 || n.X >= g.w || n.Y >= g.h {
				continue
			}
			i := g.index(n)
			if seen[i] || g.fg[i] {
				continue
			}
			seen[i] = true
			stack = append(stack, n)
		}
	}
	return seen
}

// component collects an 8-connected foreground region starting from its
// first pixel in raster order and reports whether it touches outer background
func (g *borderGrid) component(start image.Point, labels []bool, outer []bool) bool {
	external := false
	stack := []image.Point{start}
	labels[g.index(start)] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for k, d := range directions {
			n := p.Add(d)
			i := g.index(n)
			if k%2 == 0 && outer[i] {
				external = true
			}
			if !g.fg[i] || labels[i] {
				continue
			}
			labels[i] = true
			stack = append(stack, n)
		}
	}
	return external
}

// trace follows the outer border starting at its top-left pixel, whose west
// neighbour is background.
func (g *borderGrid) trace(start image.Point) Contour {
	// find the first foreground neighbour clockwise from the west
	first := -1
	for k := 0; k < 8; k++ {
		d := (4 - k + 8) % 8
		if g.on(start.Add(directions[d])) {
			first = d
			break
		}
	}
	if first < 0 {
		return Contour{start}
	}

	var contour Contour
	p1 := start.Add(directions[first])
	prev, cur := p1, start
	for {
		back := directionTo(cur, prev)
		var next image.Point
		for k := 1; k <= 8; k++ {
			n := cur.Add(directions[(back+k)%8])
			if g.on(n) {
				next = n
				break
			}
		}
		contour = append(contour, cur)
		if next == start && cur == p1 {
			break
		}
		prev, cur = cur, next
	}
	return contour
}

// directionTo returns the index in directions of the step from a to its neighbour b
func directionTo(a, b image.Point) int {
	d := b.Sub(a)
	for i, dir := range directions {
		if dir == d {
			return i
		}
	}
	return 0
}

func findExternalContours(mask []bool, w, h int) []Contour {
	if w == 0 || h == 0 {
		return nil
	}
	g := newBorderGrid(mask, w, h)
	outer := g.outside()
	labels := make([]bool, len(g.fg))

	var contours []Contour
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			i := y*g.w + x
			if !g.fg[i] || labels[i] {
				continue
			}
			start := image.Pt(x, y)
			if !g.component(start, labels, outer) {
				continue
			}
			c := g.trace(start)
			for j := range c {
				c[j] = c[j].Sub(image.Pt(1, 1))
			}
			contours = append(contours, c)
		}
	}
	return contours
}
