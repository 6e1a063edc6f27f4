// Tool for reporting and visualizing how completely a pack of tiles
// covers its requested window.
//
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/text/language"

	"github.com/hamersaw/satmod/coordinate"
	"github.com/hamersaw/satmod/geocode"
	"github.com/hamersaw/satmod/report"
	"github.com/hamersaw/satmod/stats"
	"github.com/hamersaw/satmod/store"
)

var logger *log.Logger

func main() {
	input := flag.String("input", "", "path to the pack file to report on")
	variant := flag.String("variant", "geohash", "geocode family the pack's tiles are addressed by: geohash or quadtile")
	band := flag.Int("band", 0, "band index to compute coverage over")
	plot := flag.String("plot", "", "if set, path to a coverage-grid PNG being written")
	flag.Parse()

	logger = log.New(os.Stderr, "coverage: ", log.Ltime)

	if *input == "" {
		logger.Fatal("missing required -input flag")
	}

	summary, err := Run(*input, *variant, *band, *plot)
	if err != nil {
		logger.Fatal(err)
	}
	fmt.Println(summary)
}

// Run computes per-tile and aggregate non-null-pixel coverage for the
// pack at inputPath, optionally rendering a coverage-grid PNG to
// plotPath, and returns a human-readable summary line.
func Run(inputPath, variant string, band int, plotPath string) (string, error) {
	g, err := geocodeForVariant(variant)
	if err != nil {
		return "", err
	}

	packed, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("coverage: %w", err)
	}
	entries, err := store.Unpack(packed)
	if err != nil {
		return "", fmt.Errorf("coverage: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("coverage: pack %q has no tiles", inputPath)
	}

	windows := make([]coordinate.Window, len(entries))
	covered := make([]bool, len(entries))
	var sum float64
	for i, e := range entries {
		c, err := stats.Coverage(e.Dataset, band)
		if err != nil {
			return "", fmt.Errorf("coverage: tile %q: %w", e.Geocode, err)
		}
		sum += c
		covered[i] = c > 0

		minX, maxX, minY, maxY, err := g.Decode(e.Geocode)
		if err != nil {
			return "", fmt.Errorf("coverage: tile %q: %w", e.Geocode, err)
		}
		windows[i] = coordinate.Window{MinCX: minX, MaxCX: maxX, MinCY: minY, MaxCY: maxY}
	}

	if plotPath != "" {
		if err := report.PlotCoverage(windows, covered, plotPath); err != nil {
			return "", fmt.Errorf("coverage: %w", err)
		}
	}

	avg := sum / float64(len(entries))
	return report.FormatSummary(language.English, len(entries), avg), nil
}

func geocodeForVariant(variant string) (geocode.Geocode, error) {
	switch variant {
	case "geohash":
		return geocode.NewGeohash(), nil
	case "quadtile":
		return geocode.NewQuadTile(), nil
	default:
		return geocode.Geocode{}, fmt.Errorf("coverage: unknown geocode variant %q", variant)
	}
}
