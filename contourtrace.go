// Package contourtrace turns a raster drawing of a flower into trajectory
// points for a two-link drawing arm.
//
// A run loads the image, extracts the external contours of its Canny edges,
// keeps every Nth contour pixel, then centers, flips, scales and shifts the
// points into the arm's workspace. The points are written as a C array the
// firmware iterates over, and a scatter plot is rendered for inspection.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		contourtrace "github.com/menta2k/contour-trace"
//	)
//
//	func main() {
//		tracer := contourtrace.New()
//		tracer.SetLogger(log.Default())
//
//		result, err := tracer.Run(context.Background())
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("%d points from %d contours", len(result.Points), result.Contours)
//	}
//
// The package ties together:
//
// 1. Processing (pkg/processing): image loading from files or URLs
// 2. Vision (pkg/vision): Canny edges and external contour following
// 3. Trajectory (pkg/trajectory): subsampling and normalization
// 4. Emitter (pkg/emitter): C array, CSV and JSON output
// 5. Plot (pkg/plot): the diagnostic scatter plot
// 6. Kinematics (pkg/kinematics): reachability of the points for the arm
// 7. Detection (pkg/detection): optional cropping to the shape located by an
// Ollama or llama.cpp vision model
package contourtrace

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/menta2k/contour-trace/internal/config"
	"github.com/menta2k/contour-trace/internal/utils"
	"github.com/menta2k/contour-trace/pkg/client"
	"github.com/menta2k/contour-trace/pkg/detection"
	"github.com/menta2k/contour-trace/pkg/emitter"
	"github.com/menta2k/contour-trace/pkg/kinematics"
	"github.com/menta2k/contour-trace/pkg/llamacpp"
	"github.com/menta2k/contour-trace/pkg/ollama"
	"github.com/menta2k/contour-trace/pkg/plot"
	"github.com/menta2k/contour-trace/pkg/processing"
	"github.com/menta2k/contour-trace/pkg/trajectory"
	"github.com/menta2k/contour-trace/pkg/types"
	"github.com/menta2k/contour-trace/pkg/vision"
)

// Version of the contour-trace library
const Version = "1.0.0"

// plotQuality is used when the plot is saved as JPEG or WebP
const plotQuality = 92

// Tracer runs the image to trajectory pipeline
type Tracer struct {
	config    *config.Config
	processor *processing.Processor
	extractor vision.Extractor
	plotter   *plot.Plotter
	locator   *detection.Locator
	logger    *log.Logger
}

// Result holds the points of every pipeline stage
type Result struct {
	Raw      types.PointSet      `json:"-"`
	Sampled  types.PointSet      `json:"-"`
	Points   types.PointSet      `json:"points"`
	Contours int                 `json:"contours"`
	Subject  *types.LocateResult `json:"subject,omitempty"`
	Reach    *kinematics.Report  `json:"reach,omitempty"`
}

// New creates a new Tracer with default configuration
func New() *Tracer {
	cfg := config.Default()
	return &Tracer{
		config:    cfg,
		processor: processing.NewProcessor(),
		extractor: vision.NewWithConfig(cfg.ExtractionConfig()),
		plotter:   plot.NewWithConfig(cfg.PlotConfig()),
		logger:    log.New(io.Discard, "", 0),
	}
}

// NewWithConfig creates a new Tracer after validating cfg. The subject
// locator is only set up when cfg.Input.Locate is enabled.
func NewWithConfig(cfg *config.Config) (*Tracer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	extractor, err := vision.NewBackend(cfg.Vision.Backend, cfg.ExtractionConfig())
	if err != nil {
		return nil, err
	}

	t := &Tracer{
		config:    cfg,
		processor: processing.NewProcessor(),
		extractor: extractor,
		plotter:   plot.NewWithConfig(cfg.PlotConfig()),
		logger:    log.New(io.Discard, "", 0),
	}

	if cfg.Input.Locate {
		visionClient, err := newVisionClient(cfg.Input)
		if err != nil {
			return nil, err
		}
		t.locator = detection.NewLocator(visionClient, cfg.Input.Model)
	}

	return t, nil
}

// newVisionClient creates the client for the configured locator backend
func newVisionClient(input config.InputConfig) (client.VisionClient, error) {
	switch input.Locator {
	case config.LocatorLlamaCpp:
		c, err := llamacpp.NewClient(input.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp client: %w", err)
		}
		return c, nil
	default:
		url := input.URL
		if url == "" {
			url = ollama.DefaultURL
		}
		c, err := ollama.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return c, nil
	}
}

// SetLogger sets the logger used for progress messages. A nil logger
// silences them.
func (t *Tracer) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	t.logger = logger
}

// SetLocator replaces the subject locator; nil disables cropping
func (t *Tracer) SetLocator(locator *detection.Locator) {
	t.locator = locator
}

// Config returns the configuration the tracer runs with
func (t *Tracer) Config() *config.Config {
	return t.config
}

// TraceImage extracts, subsamples and normalizes the contours of img
func (t *Tracer) TraceImage(img image.Image) (*Result, error) {
	contours, err := t.extractor.Extract(img)
	if err != nil {
		return nil, fmt.Errorf("contour extraction failed: %w", err)
	}

	raw := vision.Flatten(contours)
	sampled, err := trajectory.Subsample(raw, t.config.Trajectory.Stride)
	if err != nil {
		return nil, err
	}

	points, err := trajectory.Normalize(sampled, t.config.Trajectory)
	if err != nil {
		return nil, err
	}

	return &Result{
		Raw:      raw,
		Sampled:  sampled,
		Points:   points,
		Contours: len(contours),
	}, nil
}

// TraceFile loads an image from a path or URL and traces it. With a locator
// configured the image is first cropped to the located shape.
func (t *Tracer) TraceFile(ctx context.Context, source string) (*Result, error) {
	img, err := t.processor.LoadImageSmart(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	var subject *types.LocateResult
	if t.locator != nil {
		img, subject, err = t.locator.Crop(ctx, img)
		if err != nil {
			return nil, err
		}
		t.logger.Printf("subject=%q conf=%.2f box=%.3fx%.3f@%.3f,%.3f",
			subject.Subject.Label, subject.Subject.Confidence,
			subject.Subject.Box.W, subject.Subject.Box.H, subject.Subject.Box.X, subject.Subject.Box.Y)
	}

	info := t.processor.GetImageInfo(img)
	t.logger.Printf("tracing %s (%dx%d)", source, info.Width, info.Height)

	result, err := t.TraceImage(img)
	if err != nil {
		return nil, err
	}
	result.Subject = subject
	return result, nil
}

// Emit writes the normalized points to the configured coordinates file
func (t *Tracer) Emit(result *Result) error {
	out := t.config.Output
	format, err := emitter.ParseFormat(out.Format)
	if err != nil {
		return err
	}
	if err := utils.EnsureParentDir(out.CoordsFile); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := emitter.WriteFile(out.CoordsFile, format, out.ArrayName, result.Points); err != nil {
		return err
	}

	t.logger.Printf("Saved %d coordinates in %s format to %s (%s)",
		len(result.Points), format, out.CoordsFile, utils.FormatFileSize(utils.FileSize(out.CoordsFile)))
	return nil
}

// Plot renders the diagnostic scatter plot to the configured plot file
func (t *Tracer) Plot(result *Result) error {
	path := t.config.Output.PlotFile
	img, err := t.plotter.Render(result.Points)
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := t.processor.SaveImage(img, path, plotQuality); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}

	t.logger.Printf("wrote %s", path)
	return nil
}

// CheckReach replays the points through the configured arm
func (t *Tracer) CheckReach(result *Result) kinematics.Report {
	report := kinematics.Check(t.config.Arm.Arm, t.config.Arm.Replay, result.Points)
	result.Reach = &report
	return report
}

// Run traces the configured input image, writes the coordinates file and,
// when configured, the plot and the reachability report
func (t *Tracer) Run(ctx context.Context) (*Result, error) {
	result, err := t.TraceFile(ctx, t.config.Input.Image)
	if err != nil {
		return nil, err
	}
	t.logger.Printf("%d contours, %d contour points, %d kept", result.Contours, len(result.Raw), len(result.Sampled))

	if err := t.Emit(result); err != nil {
		return nil, err
	}

	if t.config.Output.PlotFile != "" {
		if err := t.Plot(result); err != nil {
			return nil, err
		}
	}

	if t.config.Arm.Check {
		report := t.CheckReach(result)
		t.logger.Printf("reach: %s", report)
		if len(report.Unreachable) > 0 {
			t.logger.Printf("unreachable point indices: %v", report.Unreachable)
		}
	}

	return result, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
