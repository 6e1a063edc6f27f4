// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamersaw/satmod/geocode"
	"github.com/hamersaw/satmod/raster"
	"github.com/hamersaw/satmod/store"
)

func writeTestPack(t *testing.T) string {
	t.Helper()
	g := geocode.NewGeohash()
	noData := 0.0

	full, err := raster.InitDataset(raster.U8, 4, 4, 1, &noData)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}
	fullData, _ := raster.BandData[uint8](full.Band(0))
	for i := range fullData {
		fullData[i] = 9
	}

	empty, err := raster.InitDataset(raster.U8, 4, 4, 1, &noData)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}

	fullCode, err := g.Encode(-10, -10, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	emptyCode, err := g.Encode(10, 10, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	entries := []store.Entry{
		{Geocode: fullCode, Dataset: full},
		{Geocode: emptyCode, Dataset: empty},
	}
	packed, err := store.Pack(entries, store.None)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tiles.pack")
	if err := os.WriteFile(path, packed, 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestRunReportsPartialCoverage(t *testing.T) {
	inputPath := writeTestPack(t)

	summary, err := Run(inputPath, "geohash", 0, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(summary, "built 2 tiles") {
		t.Errorf("summary = %q, want it to mention 2 tiles", summary)
	}
	if !strings.Contains(summary, "50.0%") {
		t.Errorf("summary = %q, want 50%% coverage (one full, one empty tile)", summary)
	}
}

func TestRunWritesPlot(t *testing.T) {
	inputPath := writeTestPack(t)
	plotPath := filepath.Join(t.TempDir(), "coverage.png")

	if _, err := Run(inputPath, "geohash", 0, plotPath); err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, err := os.Stat(plotPath)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty plot file")
	}
}

func TestRunRejectsUnknownVariant(t *testing.T) {
	inputPath := writeTestPack(t)
	if _, err := Run(inputPath, "bogus", 0, ""); err == nil {
		t.Fatal("expected error for unknown geocode variant")
	}
}
