// SPDX-License-Identifier: MIT
package stats

import (
	"testing"

	"github.com/hamersaw/satmod/raster"
)

func TestCoverageNoNoData(t *testing.T) {
	ds, _ := raster.InitDataset(raster.U8, 4, 4, 1, nil)
	c, err := Coverage(ds, 0)
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if c != 1.0 {
		t.Errorf("Coverage = %v, want 1.0", c)
	}
}

func TestCoverageHalfNull(t *testing.T) {
	noData := 0.0
	ds, _ := raster.InitDataset(raster.U8, 4, 4, 1, &noData)
	data, _ := raster.BandData[uint8](ds.Band(0))
	for i := 0; i < len(data)/2; i++ {
		data[i] = 1
	}
	c, err := Coverage(ds, 0)
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if c != 0.5 {
		t.Errorf("Coverage = %v, want 0.5", c)
	}
}

func TestFillPrefersEarlierNonNullDataset(t *testing.T) {
	noData := 0.0
	a, _ := raster.InitDataset(raster.U8, 2, 2, 1, &noData)
	b, _ := raster.InitDataset(raster.U8, 2, 2, 1, &noData)

	aData, _ := raster.BandData[uint8](a.Band(0))
	aData[0] = 5 // only pixel 0 populated in a

	bData, _ := raster.BandData[uint8](b.Band(0))
	bData[0] = 9
	bData[1] = 7 // pixel 1 populated only in b

	filled, err := Fill([]*raster.Dataset{a, b})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	fData, _ := raster.BandData[uint8](filled.Band(0))
	if fData[0] != 5 {
		t.Errorf("pixel 0 = %v, want 5 (from a)", fData[0])
	}
	if fData[1] != 7 {
		t.Errorf("pixel 1 = %v, want 7 (from b)", fData[1])
	}
	if fData[2] != 0 || fData[3] != 0 {
		t.Errorf("pixels 2,3 = %v,%v, want no-data (0) since null in both", fData[2], fData[3])
	}
}

func TestFillRejectsMismatchedDimensions(t *testing.T) {
	a, _ := raster.InitDataset(raster.U8, 2, 2, 1, nil)
	b, _ := raster.InitDataset(raster.U8, 3, 3, 1, nil)
	if _, err := Fill([]*raster.Dataset{a, b}); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestFillRejectsEmptyInput(t *testing.T) {
	if _, err := Fill(nil); err == nil {
		t.Fatal("expected error for empty dataset slice")
	}
}
