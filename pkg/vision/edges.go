package vision

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// neighbour offsets for 8-connectivity, counterclockwise on screen starting east
var directions = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// intensityPlane converts an image to a row-major luminance plane in [0,255]
func intensityPlane(img image.Image, sigma float64) ([]float64, int, int) {
	gray := imaging.Grayscale(img)
	if sigma > 0 {
		gray = imaging.Blur(gray, sigma)
	}

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	plane := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			plane[y*w+x] = float64(row[x*4])
		}
	}
	return plane, w, h
}

// canny runs gradient, non-maximum suppression and hysteresis on a luminance
// plane and returns a w*h mask of edge pixels. The gradient magnitude is the
// L1 norm |gx|+|gy| of a 3x3 Sobel operator with replicated borders.
func canny(plane []float64, w, h int, low, high float64) []bool {
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return plane[y*w+x]
	}

	mag := make([]float64, w*h)
	dir := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)

			i := y*w + x
			mag[i] = math.Abs(gx) + math.Abs(gy)
			dir[i] = quantizeDirection(gx, gy)
		}
	}

	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, w*h)
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			var a, b float64
			switch dir[i] {
			case 0:
				a, b = magAt(x-1, y), magAt(x+1, y)
			case 1:
				a, b = magAt(x+1, y-1), magAt(x-1, y+1)
			case 2:
				a, b = magAt(x, y-1), magAt(x, y+1)
			default:
				a, b = magAt(x-1, y-1), magAt(x+1, y+1)
			}
			// ties are broken towards the earlier neighbour so plateaus stay one pixel wide
			if m <= a || m < b {
				continue
			}

			if m > high {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	edges := make([]bool, w*h)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if edges[i] {
			continue
		}
		edges[i] = true

		x, y := i%w, i/w
		for _, d := range directions {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if class[j] != none && !edges[j] {
				stack = append(stack, j)
			}
		}
	}
	return edges
}

// quantizeDirection maps a gradient to one of four orientations:
// 0 horizontal, 1 diagonal /, 2 vertical, 3 diagonal \ (screen coordinates)
func quantizeDirection(gx, gy float64) uint8 {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return 0
	case angle < 67.5:
		return 3
	case angle < 112.5:
		return 2
	default:
		return 1
	}
}

// maskToGray renders an edge mask as a binary 8-bit image
func maskToGray(mask []bool, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, on := range mask {
		if on {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}
	return out
}
