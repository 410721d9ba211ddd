//go:build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// BackendGocv is the name of the OpenCV extractor
const BackendGocv = "gocv"

func init() {
	backends[BackendGocv] = func(config ExtractionConfig) Extractor { return NewGocv(config) }
}

// GocvExtractor implements Extractor with OpenCV
type GocvExtractor struct {
	config ExtractionConfig
}

// NewGocv creates a new GocvExtractor with custom configuration
func NewGocv(config ExtractionConfig) *GocvExtractor {
	return &GocvExtractor{config: config}
}

// Extract converts the image to grayscale, runs Canny and returns every point
// of the external contours
func (e *GocvExtractor) Extract(img image.Image) ([]Contour, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to mat: %w", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	if e.config.BlurSigma > 0 {
		gocv.GaussianBlur(gray, &gray, image.Pt(0, 0), e.config.BlurSigma, e.config.BlurSigma, gocv.BorderDefault)
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(e.config.CannyLow), float32(e.config.CannyHigh))

	found := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pv := found.At(i)
		contours = append(contours, Contour(pv.ToPoints()))
	}
	return filterContours(contours, e.config.MinContourLength), nil
}
