package client

import (
	"context"

	"github.com/menta2k/contour-trace/pkg/types"
)

// VisionClient asks a vision model where the traced shape sits in an image
type VisionClient interface {
	LocateSubject(ctx context.Context, model, prompt, imgB64 string) (*types.LocateResult, error)
}
