//go:build !gocv

package contourtrace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/menta2k/contour-trace/internal/config"
	"github.com/menta2k/contour-trace/pkg/vision"
)

func TestNewWithConfigGocvUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.Vision.Backend = config.BackendGocv

	_, err := NewWithConfig(cfg)
	assert.True(t, errors.Is(err, vision.ErrUnknownBackend), "got %v", err)
}
