package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "flower.png", cfg.Input.Image)
	assert.False(t, cfg.Input.Locate)
	assert.Equal(t, LocatorOllama, cfg.Input.Locator)
	assert.Empty(t, cfg.Input.URL)
	assert.Equal(t, BackendNative, cfg.Vision.Backend)
	assert.Equal(t, 50.0, cfg.Vision.CannyLow)
	assert.Equal(t, 150.0, cfg.Vision.CannyHigh)
	assert.Equal(t, 8.0, cfg.Trajectory.TargetRadius)
	assert.Equal(t, -8.0, cfg.Trajectory.ShiftX)
	assert.Equal(t, -1.0, cfg.Trajectory.ShiftY)
	assert.Equal(t, 5, cfg.Trajectory.Stride)
	assert.Equal(t, "flower_coords.c", cfg.Output.CoordsFile)
	assert.Equal(t, "flower_coords", cfg.Output.ArrayName)
	assert.Equal(t, "c", cfg.Output.Format)
	assert.Equal(t, 20.0, cfg.Plot.ReferenceRadius)
	assert.Equal(t, 10.0, cfg.Arm.L1)
	assert.Equal(t, 0.5, cfg.Arm.Scale)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty image", func(c *Config) { c.Input.Image = "" }},
		{"unknown locator", func(c *Config) { c.Input.Locator = "vllm" }},
		{"unknown backend", func(c *Config) { c.Vision.Backend = "halcon" }},
		{"negative low threshold", func(c *Config) { c.Vision.CannyLow = -1 }},
		{"thresholds swapped", func(c *Config) { c.Vision.CannyLow = 200 }},
		{"negative blur", func(c *Config) { c.Vision.BlurSigma = -0.5 }},
		{"zero radius", func(c *Config) { c.Trajectory.TargetRadius = 0 }},
		{"zero stride", func(c *Config) { c.Trajectory.Stride = 0 }},
		{"empty coords file", func(c *Config) { c.Output.CoordsFile = "" }},
		{"unknown format", func(c *Config) { c.Output.Format = "yaml" }},
		{"plot extension", func(c *Config) { c.Output.PlotFile = "plot.gif" }},
		{"plot too small", func(c *Config) { c.Plot.Size = 32 }},
		{"zero marker", func(c *Config) { c.Plot.MarkerRadius = 0 }},
		{"zero link", func(c *Config) { c.Arm.L2 = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateWithoutPlot(t *testing.T) {
	cfg := Default()
	cfg.Output.PlotFile = ""
	cfg.Plot.Size = 0
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Input.Image = "clover.png"
	cfg.Trajectory.Stride = 3
	cfg.Output.Format = "csv"
	cfg.Arm.Check = true
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"trajectory": {"target_radius": 6.5}, "arm": {"l1": 12}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6.5, cfg.Trajectory.TargetRadius)
	assert.Equal(t, 5, cfg.Trajectory.Stride)
	assert.Equal(t, -8.0, cfg.Trajectory.ShiftX)
	assert.Equal(t, 12.0, cfg.Arm.L1)
	assert.Equal(t, 10.0, cfg.Arm.L2)
	assert.Equal(t, 0.5, cfg.Arm.Scale)
	assert.Equal(t, "flower.png", cfg.Input.Image)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Vision.BlurSigma = 1.2
	cfg.Vision.MinContourLength = 10
	cfg.Plot.ReferenceRadius = 8

	ext := cfg.ExtractionConfig()
	assert.Equal(t, 50.0, ext.CannyLow)
	assert.Equal(t, 150.0, ext.CannyHigh)
	assert.Equal(t, 1.2, ext.BlurSigma)
	assert.Equal(t, 10, ext.MinContourLength)

	pc := cfg.PlotConfig()
	assert.Equal(t, 600, pc.Size)
	assert.Equal(t, 8.0, pc.ReferenceRadius)
	assert.Equal(t, "Plot from coords", pc.Title)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	assert.Equal(t, "config.json", filepath.Base(path))
}
