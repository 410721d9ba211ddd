package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	contourtrace "github.com/menta2k/contour-trace"
	"github.com/menta2k/contour-trace/internal/config"
	"github.com/menta2k/contour-trace/internal/utils"
)

func main() {
	var configPath, saveConfig string
	var in, out, format, plotFile, arrayName string
	var radius, shiftX, shiftY float64
	var stride int
	var backend, locator, url, model string
	var locate, reach, noPlot, version bool

	flag.StringVar(&configPath, "config", "", "JSON config file (defaults are used when empty)")
	flag.StringVar(&saveConfig, "save-config", "", "write the effective config to this file and exit")

	flag.StringVar(&in, "in", "", "input image path or URL (png/jpg/webp)")
	flag.StringVar(&out, "out", "", "coordinates output file")
	flag.StringVar(&format, "format", "", "coordinates format: c|csv|json (default from -out extension)")
	flag.StringVar(&arrayName, "name", "", "C array name")
	flag.StringVar(&plotFile, "plot", "", "plot output file (png/jpg/webp)")
	flag.BoolVar(&noPlot, "no-plot", false, "skip the diagnostic plot")

	flag.Float64Var(&radius, "radius", 0, "target radius in cm")
	flag.Float64Var(&shiftX, "shift-x", 0, "x shift in cm applied after scaling")
	flag.Float64Var(&shiftY, "shift-y", 0, "y shift in cm applied after scaling")
	flag.IntVar(&stride, "stride", 0, "keep every Nth contour point")

	flag.StringVar(&backend, "backend", "", "contour backend: native or gocv")
	flag.BoolVar(&locate, "locate", false, "crop to the shape located by a vision model first")
	flag.StringVar(&locator, "locator", "", "locator backend: ollama or llamacpp")
	flag.StringVar(&url, "url", "", "locator server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", "", "locator vision model")

	flag.BoolVar(&reach, "reach", false, "report which points the arm can reach")
	flag.BoolVar(&version, "version", false, "print version and exit")

	flag.Parse()

	if version {
		log.Printf("contour-trace %s", contourtrace.GetVersion())
		return
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	// Flags override the config file only when given explicitly
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["in"] {
		cfg.Input.Image = in
	}
	if set["out"] {
		cfg.Output.CoordsFile = out
		if !set["format"] {
			cfg.Output.Format = utils.FormatFromFilename(out)
		}
	}
	if set["format"] {
		cfg.Output.Format = format
	}
	if set["name"] {
		cfg.Output.ArrayName = arrayName
	}
	if set["plot"] {
		cfg.Output.PlotFile = plotFile
	}
	if noPlot {
		cfg.Output.PlotFile = ""
	}
	if set["radius"] {
		cfg.Trajectory.TargetRadius = radius
	}
	if set["shift-x"] {
		cfg.Trajectory.ShiftX = shiftX
	}
	if set["shift-y"] {
		cfg.Trajectory.ShiftY = shiftY
	}
	if set["stride"] {
		cfg.Trajectory.Stride = stride
	}
	if set["backend"] {
		cfg.Vision.Backend = backend
	}
	if set["locate"] {
		cfg.Input.Locate = locate
	}
	if set["locator"] {
		cfg.Input.Locator = locator
	}
	if set["url"] {
		cfg.Input.URL = url
	}
	if set["model"] {
		cfg.Input.Model = model
	}
	if set["reach"] {
		cfg.Arm.Check = reach
	}

	if saveConfig != "" {
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
		if err := cfg.SaveToFile(saveConfig); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", saveConfig)
		return
	}

	if _, err := os.Stat(cfg.Input.Image); err != nil && !isURL(cfg.Input.Image) {
		log.Fatalf("usage: %s [-in flower.png|URL] [-out flower_coords.c] [-plot flower_plot.png] [-config %s]: %v",
			filepath.Base(os.Args[0]), config.GetConfigPath(), err)
	}

	tracer, err := contourtrace.NewWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	tracer.SetLogger(log.Default())

	if _, err := tracer.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
