// SPDX-License-Identifier: MIT

// Package report renders human-facing output for satmod's tile
// pipeline: a coverage-grid PNG for inspecting which windows of a
// mosaic actually received data, and locale-aware number formatting
// for CLI summaries. Grounded on cmd/plot-qrank-distribution/main.go's
// use of github.com/fogleman/gg for the plotting half; the formatting
// half is a fresh, narrow use of the teacher's already-required
// golang.org/x/text dependency (no existing teacher call site formats
// numbers, so there's no prior pattern to imitate beyond the import
// itself).
package report

import (
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hamersaw/satmod/coordinate"
)

// Error wraps a report operation with the package-specific context
// that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("report: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// CellSize is the pixel edge length each window is rendered as, large
// enough that the covered/uncovered fill is visible without per-window
// labels.
const CellSize = 24

// PlotCoverage renders a grid of windows as a PNG: one cell per
// window, laid out by its (i, j) tile-grid position (derived from
// windows[i].MinCX/MinCY divided by the uniform window interval),
// filled blue if covered[i] is true and white otherwise, bordered in
// black. Modeled on PlotDistribution's raster-to-gg-context flow from
// plot-qrank-distribution/main.go, simplified from a line/axis plot to
// a fill grid since coverage is binary per window rather than a
// continuous series.
func PlotCoverage(windows []coordinate.Window, covered []bool, outPath string) error {
	if len(windows) != len(covered) {
		return newError("plot coverage", fmt.Errorf("%d windows but %d coverage flags", len(windows), len(covered)))
	}
	if len(windows) == 0 {
		return newError("plot coverage", fmt.Errorf("no windows to plot"))
	}

	interval := windows[0].MaxCX - windows[0].MinCX
	if interval <= 0 {
		return newError("plot coverage", fmt.Errorf("non-positive window interval %v", interval))
	}

	minI, maxI, minJ, maxJ := 0, 0, 0, 0
	cells := make([][2]int, len(windows))
	for idx, w := range windows {
		i := int(w.MinCX / interval)
		j := int(w.MinCY / interval)
		cells[idx] = [2]int{i, j}
		if idx == 0 || i < minI {
			minI = i
		}
		if idx == 0 || i > maxI {
			maxI = i
		}
		if idx == 0 || j < minJ {
			minJ = j
		}
		if idx == 0 || j > maxJ {
			maxJ = j
		}
	}

	cols := maxI - minI + 1
	rows := maxJ - minJ + 1
	dc := gg.NewContext(cols*CellSize, rows*CellSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for idx, cell := range cells {
		col := cell[0] - minI
		// Window j increases northward; flip to screen rows so the
		// grid reads top-to-bottom the way a map does.
		row := maxJ - cell[1]
		x := float64(col * CellSize)
		y := float64(row * CellSize)

		if covered[idx] {
			dc.SetRGB(0, 0.4, 1)
		} else {
			dc.SetRGB(1, 1, 1)
		}
		dc.DrawRectangle(x, y, CellSize, CellSize)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, y, CellSize, CellSize)
		dc.Stroke()
	}

	if err := dc.SavePNG(outPath); err != nil {
		return newError("plot coverage", err)
	}
	return nil
}

// FormatSummary renders a split/merge run summary with locale-aware
// thousands separators, e.g. "built 12,480 tiles covering 96.3% of the
// requested window" in en-US, or the equivalent grouping for other
// locales. tag selects the locale; golang.org/x/text/language.English
// is a reasonable default.
func FormatSummary(tag language.Tag, tileCount int, coverage float64) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("built %d tiles covering %.1f%% of the requested window", tileCount, coverage*100)
}
