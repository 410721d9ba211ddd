// Package emitter serializes trajectory points for firmware and tooling.
package emitter

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/menta2k/contour-trace/pkg/types"
)

// Format selects the serialization of the point list
type Format string

const (
	FormatC    Format = "c"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultArrayName matches the symbol the flower firmware iterates over
const DefaultArrayName = "flower_coords"

// Formats returns the supported output formats
func Formats() []Format {
	return []Format{FormatC, FormatCSV, FormatJSON}
}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Formats(), f) {
		return "", ErrUnknownFormat{format: s}
	}
	return f, nil
}

// ErrUnknownFormat reports an output format that cannot be written
type ErrUnknownFormat struct {
	format string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown output format %q, must be one of %v", e.format, Formats())
}

// Write serializes the points in the given format
func Write(w io.Writer, format Format, name string, ps types.PointSet) error {
	switch format {
	case FormatC:
		return WriteC(w, name, ps)
	case FormatCSV:
		return WriteCSV(w, ps)
	case FormatJSON:
		return WriteJSON(w, name, ps)
	default:
		return ErrUnknownFormat{format: string(format)}
	}
}

// WriteFile creates or truncates path and writes the points to it
func WriteFile(path string, format Format, name string, ps types.PointSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(f, format, name, ps); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteC writes a C array declaration with one "{ x, y }," entry per line
func WriteC(w io.Writer, name string, ps types.PointSet) error {
	if name == "" {
		name = DefaultArrayName
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "float %s[][2] = {\n", name)
	for _, p := range ps {
		fmt.Fprintf(bw, "    { %s, %s },\n", fixed2(p.X), fixed2(p.Y))
	}
	fmt.Fprint(bw, "};\n")
	return bw.Flush()
}

// WriteCSV writes an x,y header followed by one row per point
func WriteCSV(w io.Writer, ps types.PointSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, p := range ps {
		if err := cw.Write([]string{fixed2(p.X), fixed2(p.Y)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonDocument struct {
	Name   string           `json:"name"`
	Count  int              `json:"count"`
	Points [][2]json.Number `json:"points"`
}

// WriteJSON writes the points as {"name": ..., "count": n, "points": [[x, y], ...]}
func WriteJSON(w io.Writer, name string, ps types.PointSet) error {
	if name == "" {
		name = DefaultArrayName
	}
	doc := jsonDocument{
		Name:  name,
		Count: len(ps),
		Points: lo.Map(ps, func(p types.Point, _ int) [2]json.Number {
			return [2]json.Number{json.Number(fixed2(p.X)), json.Number(fixed2(p.Y))}
		}),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// fixed2 formats with two decimals and never emits negative zero
func fixed2(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
