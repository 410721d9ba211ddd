// Package vision turns raster images into contour pixel coordinates.
//
// The default NativeExtractor is pure Go: grayscale conversion, Canny edge
// detection and external border following. Building with the gocv tag adds
// GocvExtractor, which performs the same steps through OpenCV.
package vision

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmptyImage is returned for images without pixels
var ErrEmptyImage = errors.New("empty image")

// ErrUnknownBackend is returned by NewBackend for unregistered backend names
var ErrUnknownBackend = errors.New("unknown vision backend")

// BackendNative is the name of the pure Go extractor
const BackendNative = "native"

var backends = map[string]func(ExtractionConfig) Extractor{
	BackendNative: func(config ExtractionConfig) Extractor { return NewWithConfig(config) },
}

// NewBackend returns the extractor registered under name. The gocv backend
// is only registered in binaries built with the gocv tag.
func NewBackend(name string, config ExtractionConfig) (Extractor, error) {
	if name == "" {
		name = BackendNative
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return factory(config), nil
}

// Extractor finds the outer contours of the shapes in an image
type Extractor interface {
	Extract(img image.Image) ([]Contour, error)
}

// ExtractionConfig holds configuration for edge detection and contour filtering
type ExtractionConfig struct {
	CannyLow         float64
	CannyHigh        float64
	BlurSigma        float64
	MinContourLength int
}

// DefaultConfig returns the thresholds used to trace the flower pattern
func DefaultConfig() ExtractionConfig {
	return ExtractionConfig{
		CannyLow:  50,
		CannyHigh: 150,
	}
}

// NativeExtractor implements Extractor without cgo dependencies
type NativeExtractor struct {
	config ExtractionConfig
}

// New creates a new NativeExtractor with default configuration
func New() *NativeExtractor {
	return &NativeExtractor{config: DefaultConfig()}
}

// NewWithConfig creates a new NativeExtractor with custom configuration
func NewWithConfig(config ExtractionConfig) *NativeExtractor {
	return &NativeExtractor{config: config}
}

// EdgeMap returns the binary Canny edge map of an image
func (e *NativeExtractor) EdgeMap(img image.Image) (*image.Gray, error) {
	mask, w, h, err := e.edges(img)
	if err != nil {
		return nil, err
	}
	return maskToGray(mask, w, h), nil
}

// Extract detects edges and returns the external contours in raster order of
// their top-left pixel
func (e *NativeExtractor) Extract(img image.Image) ([]Contour, error) {
	mask, w, h, err := e.edges(img)
	if err != nil {
		return nil, err
	}
	return filterContours(findExternalContours(mask, w, h), e.config.MinContourLength), nil
}

func (e *NativeExtractor) edges(img image.Image) ([]bool, int, int, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, 0, 0, ErrEmptyImage
	}
	plane, w, h := intensityPlane(img, e.config.BlurSigma)
	return canny(plane, w, h, e.config.CannyLow, e.config.CannyHigh), w, h, nil
}

func filterContours(contours []Contour, minLength int) []Contour {
	if minLength <= 0 {
		return contours
	}
	kept := contours[:0]
	for _, c := range contours {
		if c.Len() >= minLength {
			kept = append(kept, c)
		}
	}
	return kept
}
