package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/contour-trace/internal/utils"
	"github.com/menta2k/contour-trace/pkg/emitter"
	"github.com/menta2k/contour-trace/pkg/kinematics"
	"github.com/menta2k/contour-trace/pkg/plot"
	"github.com/menta2k/contour-trace/pkg/trajectory"
	"github.com/menta2k/contour-trace/pkg/vision"
)

// Config holds the application configuration
type Config struct {
	Input      InputConfig       `json:"input"`
	Vision     VisionConfig      `json:"vision"`
	Trajectory trajectory.Config `json:"trajectory"`
	Output     OutputConfig      `json:"output"`
	Plot       PlotConfig        `json:"plot"`
	Arm        ArmConfig         `json:"arm"`
}

// InputConfig selects the source image and the optional subject locator.
// An empty URL means the locator's local default address.
type InputConfig struct {
	Image   string `json:"image"`
	Locate  bool   `json:"locate"`
	Locator string `json:"locator"`
	URL     string `json:"url"`
	Model   string `json:"model"`
}

// VisionConfig holds configuration for edge detection and contour extraction
type VisionConfig struct {
	Backend          string  `json:"backend"`
	CannyLow         float64 `json:"canny_low"`
	CannyHigh        float64 `json:"canny_high"`
	BlurSigma        float64 `json:"blur_sigma"`
	MinContourLength int     `json:"min_contour_length"`
}

// OutputConfig holds configuration for the coordinate file
type OutputConfig struct {
	CoordsFile string `json:"coords_file"`
	ArrayName  string `json:"array_name"`
	Format     string `json:"format"`
	PlotFile   string `json:"plot_file"`
}

// PlotConfig holds configuration for the diagnostic plot
type PlotConfig struct {
	Size            int     `json:"size"`
	ReferenceRadius float64 `json:"reference_radius"`
	MarkerRadius    float64 `json:"marker_radius"`
}

// ArmConfig describes the arm used for the reachability report
type ArmConfig struct {
	kinematics.Arm
	kinematics.Replay
	Check bool `json:"check"`
}

const (
	BackendNative = "native"
	BackendGocv   = "gocv"

	LocatorOllama   = "ollama"
	LocatorLlamaCpp = "llamacpp"
)

// Default returns a configuration that reproduces the flower pattern run
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Image:   "flower.png",
			Locator: LocatorOllama,
			Model:   "llava:7b",
		},
		Vision: VisionConfig{
			Backend:   BackendNative,
			CannyLow:  50,
			CannyHigh: 150,
		},
		Trajectory: trajectory.DefaultConfig(),
		Output: OutputConfig{
			CoordsFile: "flower_coords.c",
			ArrayName:  emitter.DefaultArrayName,
			Format:     string(emitter.FormatC),
			PlotFile:   "flower_plot.png",
		},
		Plot: PlotConfig{
			Size:            600,
			ReferenceRadius: 20,
			MarkerRadius:    1.5,
		},
		Arm: ArmConfig{
			Arm:    kinematics.DefaultArm(),
			Replay: kinematics.DefaultReplay(),
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Image == "" {
		return fmt.Errorf("input.image cannot be empty")
	}

	if c.Input.Locator != LocatorOllama && c.Input.Locator != LocatorLlamaCpp {
		return fmt.Errorf("input.locator must be %q or %q", LocatorOllama, LocatorLlamaCpp)
	}

	if c.Vision.Backend != BackendNative && c.Vision.Backend != BackendGocv {
		return fmt.Errorf("vision.backend must be %q or %q", BackendNative, BackendGocv)
	}

	if c.Vision.CannyLow < 0 || c.Vision.CannyHigh < c.Vision.CannyLow {
		return fmt.Errorf("vision.canny_low must be non-negative and not above vision.canny_high")
	}

	if c.Vision.BlurSigma < 0 {
		return fmt.Errorf("vision.blur_sigma cannot be negative")
	}

	if !(c.Trajectory.TargetRadius > 0) {
		return fmt.Errorf("trajectory.target_radius must be positive")
	}

	if c.Trajectory.Stride < 1 {
		return fmt.Errorf("trajectory.stride must be at least 1")
	}

	if c.Output.CoordsFile == "" {
		return fmt.Errorf("output.coords_file cannot be empty")
	}

	if _, err := emitter.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if c.Output.PlotFile != "" {
		if !utils.IsPlotFile(c.Output.PlotFile) {
			return fmt.Errorf("output.plot_file must end in .png, .jpg, .jpeg or .webp")
		}
		if c.Plot.Size < 64 {
			return fmt.Errorf("plot.size must be at least 64")
		}
	}

	if c.Plot.ReferenceRadius < 0 || c.Plot.MarkerRadius <= 0 {
		return fmt.Errorf("plot.reference_radius cannot be negative and plot.marker_radius must be positive")
	}

	if c.Arm.L1 <= 0 || c.Arm.L2 <= 0 {
		return fmt.Errorf("arm link lengths must be positive")
	}

	return nil
}

// ExtractionConfig returns the contour extraction settings
func (c *Config) ExtractionConfig() vision.ExtractionConfig {
	return vision.ExtractionConfig{
		CannyLow:         c.Vision.CannyLow,
		CannyHigh:        c.Vision.CannyHigh,
		BlurSigma:        c.Vision.BlurSigma,
		MinContourLength: c.Vision.MinContourLength,
	}
}

// PlotConfig returns the plot rendering settings
func (c *Config) PlotConfig() plot.Config {
	cfg := plot.DefaultConfig()
	cfg.Size = c.Plot.Size
	cfg.ReferenceRadius = c.Plot.ReferenceRadius
	cfg.MarkerRadius = c.Plot.MarkerRadius
	return cfg
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "contour-trace", "config.json")
}
