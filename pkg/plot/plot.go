// Package plot renders a diagnostic scatter plot of trajectory points.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/contour-trace/pkg/types"
)

// Config holds configuration for plot rendering
type Config struct {
	Size            int     // square canvas side in pixels
	ReferenceRadius float64 // dashed circle around the origin, in data units
	MarkerRadius    float64 // point marker radius in pixels
	Title           string
	XLabel          string
	YLabel          string
}

// DefaultConfig returns the layout of the flower diagnostic plot
func DefaultConfig() Config {
	return Config{
		Size:            600,
		ReferenceRadius: 20,
		MarkerRadius:    1.5,
		Title:           "Plot from coords",
		XLabel:          "X (cm)",
		YLabel:          "Y (cm)",
	}
}

const minSize = 64

var (
	background = color.NRGBA{255, 255, 255, 255}
	frameColor = color.NRGBA{60, 60, 60, 255}
	axisColor  = color.NRGBA{200, 200, 200, 255}
	pointColor = color.NRGBA{0, 0, 0, 255}
	circleRed  = color.NRGBA{255, 0, 0, 255}
	labelColor = color.NRGBA{0, 0, 0, 255}
)

// Plotter renders point sets onto an image
type Plotter struct {
	config Config
}

// New creates a new Plotter with default configuration
func New() *Plotter {
	return &Plotter{config: DefaultConfig()}
}

// NewWithConfig creates a new Plotter with custom configuration
func NewWithConfig(config Config) *Plotter {
	return &Plotter{config: config}
}

// Render draws the points as dots together with the reference circle, equal
// axis scaling, ticks and labels
func (p *Plotter) Render(ps types.PointSet) (*image.NRGBA, error) {
	if p.config.Size < minSize {
		return nil, fmt.Errorf("plot size %d is smaller than %d", p.config.Size, minSize)
	}

	size := p.config.Size
	img := imaging.New(size, size, background)
	v := newViewport(ps, p.config.ReferenceRadius, size)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	dasher := rasterx.NewDasher(size, size, scanner)

	// axes through the origin
	dasher.SetStroke(fixed.Int26_6(64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)
	dasher.SetColor(axisColor)
	ox, oy := v.toPixel(0, 0)
	if oy >= v.top && oy <= v.top+v.side {
		line(dasher, v.left, oy, v.left+v.side, oy)
	}
	if ox >= v.left && ox <= v.left+v.side {
		line(dasher, ox, v.top, ox, v.top+v.side)
	}
	dasher.Draw()
	dasher.Clear()

	// frame
	dasher.SetColor(frameColor)
	rasterx.AddRect(v.left, v.top, v.left+v.side, v.top+v.side, 0, dasher)
	for _, tick := range v.ticksX() {
		tx, _ := v.toPixel(tick, 0)
		line(dasher, tx, v.top+v.side, tx, v.top+v.side+5)
	}
	for _, tick := range v.ticksY() {
		_, ty := v.toPixel(0, tick)
		line(dasher, v.left-5, ty, v.left, ty)
	}
	dasher.Draw()
	dasher.Clear()

	// dashed reference circle
	if p.config.ReferenceRadius > 0 {
		dasher.SetStroke(fixed.Int26_6(1.5*64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Round, []float64{8, 5}, 0)
		dasher.SetColor(circleRed)
		rasterx.AddCircle(ox, oy, p.config.ReferenceRadius*v.scale, dasher)
		dasher.Draw()
		dasher.Clear()
	}

	// point markers
	filler := rasterx.NewFiller(size, size, scanner)
	filler.SetColor(pointColor)
	for _, pt := range ps {
		x, y := v.toPixel(pt.X, pt.Y)
		rasterx.AddCircle(x, y, p.config.MarkerRadius, filler)
	}
	filler.Draw()

	p.drawLabels(img, v)
	return img, nil
}

func (p *Plotter) drawLabels(img *image.NRGBA, v viewport) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: face}

	drawCentered := func(s string, cx, baseline float64) {
		width := d.MeasureString(s).Ceil()
		d.Dot = fixed.P(int(cx)-width/2, int(baseline))
		d.DrawString(s)
	}

	drawCentered(p.config.Title, v.left+v.side/2, v.top-10)
	drawCentered(p.config.XLabel, v.left+v.side/2, v.top+v.side+32)

	d.Dot = fixed.P(4, int(v.top)-10)
	d.DrawString(p.config.YLabel)

	for _, tick := range v.ticksX() {
		tx, _ := v.toPixel(tick, 0)
		drawCentered(formatTick(tick), tx, v.top+v.side+18)
	}
	for _, tick := range v.ticksY() {
		label := formatTick(tick)
		_, ty := v.toPixel(0, tick)
		width := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(int(v.left)-8-width, int(ty)+4)
		d.DrawString(label)
	}
}

func line(d *rasterx.Dasher, x0, y0, x1, y1 float64) {
	d.Start(rasterx.ToFixedP(x0, y0))
	d.Line(rasterx.ToFixedP(x1, y1))
	d.Stop(false)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
