// SPDX-License-Identifier: MIT
package report

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"github.com/hamersaw/satmod/coordinate"
)

func TestPlotCoverageWritesPNG(t *testing.T) {
	windows := coordinate.GetWindows(0, 3, 0, 2, 1, 1)
	covered := make([]bool, len(windows))
	for i := range covered {
		covered[i] = i%2 == 0
	}

	outPath := filepath.Join(t.TempDir(), "coverage.png")
	if err := PlotCoverage(windows, covered, outPath); err != nil {
		t.Fatalf("PlotCoverage: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty PNG file")
	}
}

func TestPlotCoverageRejectsMismatchedLengths(t *testing.T) {
	windows := coordinate.GetWindows(0, 1, 0, 1, 1, 1)
	if err := PlotCoverage(windows, nil, filepath.Join(t.TempDir(), "out.png")); err == nil {
		t.Fatal("expected error for mismatched windows/covered lengths")
	}
}

func TestPlotCoverageRejectsEmptyWindows(t *testing.T) {
	if err := PlotCoverage(nil, nil, filepath.Join(t.TempDir(), "out.png")); err == nil {
		t.Fatal("expected error for no windows")
	}
}

func TestFormatSummaryGroupsThousands(t *testing.T) {
	got := FormatSummary(language.English, 12480, 0.963)
	want := "built 12,480 tiles covering 96.3% of the requested window"
	if got != want {
		t.Errorf("FormatSummary() = %q, want %q", got, want)
	}
}
