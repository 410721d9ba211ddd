package detection

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/samber/lo"

	"github.com/menta2k/contour-trace/pkg/client"
	"github.com/menta2k/contour-trace/pkg/processing"
	"github.com/menta2k/contour-trace/pkg/types"
)

// DefaultPrompt asks the model for the bounding box of the drawn shape
const DefaultPrompt = `You are a shape locator for a drawing robot.

Return JSON only:
{
  "subject": {
    "label": "string",
    "confidence": 0.0,
    "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}
  },
  "description": "short neutral sentence"
}

RULES
- All coordinates are normalized to [0,1] (NOT pixels); x,y is the top-left corner.
- The box must tightly enclose the single flower, clover or outline shape to be traced, including all petals.
- If no such shape is present, use label "none" and the full frame box {"x":0,"y":0,"w":1,"h":1}.
- JSON only. No markdown, no comments, no trailing commas.`

// DefaultModel is a small vision model that handles bounding boxes well
const DefaultModel = "llava:7b"

// Locator crops images to the shape reported by a vision model
type Locator struct {
	client    client.VisionClient
	processor *processing.Processor
	model     string
	prompt    string
	maxDim    int
	padding   float64
}

// NewLocator creates a new locator using the given vision client and model
func NewLocator(c client.VisionClient, model string) *Locator {
	if model == "" {
		model = DefaultModel
	}
	return &Locator{
		client:    c,
		processor: processing.NewProcessor(),
		model:     model,
		prompt:    DefaultPrompt,
		maxDim:    1024,
		padding:   0.05,
	}
}

// Locate returns the normalized bounding box of the shape in img
func (l *Locator) Locate(ctx context.Context, img image.Image) (*types.LocateResult, error) {
	imgB64, err := l.processor.PrepareImageForModel(img, "jpg", l.maxDim, 85)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for model: %w", err)
	}

	result, err := l.client.LocateSubject(ctx, l.model, l.prompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("subject location failed: %w", err)
	}

	result.Subject.Box = normalizeBox(result.Subject.Box)
	return result, nil
}

// Crop locates the shape and crops the image to it with a small margin.
// When the model reports no shape the original image is returned.
func (l *Locator) Crop(ctx context.Context, img image.Image) (image.Image, *types.LocateResult, error) {
	result, err := l.Locate(ctx, img)
	if err != nil {
		return nil, nil, err
	}
	if isNone(result.Subject) {
		return img, result, nil
	}

	cropped, err := l.processor.CropImageToBox(img, padBox(result.Subject.Box, l.padding))
	if err != nil {
		return nil, result, fmt.Errorf("failed to crop to subject: %w", err)
	}
	return cropped, result, nil
}

func isNone(s types.Subject) bool {
	return strings.EqualFold(strings.TrimSpace(s.Label), "none") || s.Box.W <= 0 || s.Box.H <= 0
}

// normalizeBox clamps the box to the unit square
func normalizeBox(b types.Box) types.Box {
	x0, y0 := lo.Clamp(b.X, 0, 1), lo.Clamp(b.Y, 0, 1)
	x1, y1 := lo.Clamp(b.X+b.W, 0, 1), lo.Clamp(b.Y+b.H, 0, 1)
	return types.Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// padBox grows the box by ratio of its size on every side, staying in [0,1]
func padBox(b types.Box, ratio float64) types.Box {
	dx, dy := b.W*ratio, b.H*ratio
	return normalizeBox(types.Box{X: b.X - dx, Y: b.Y - dy, W: b.W + 2*dx, H: b.H + 2*dy})
}
