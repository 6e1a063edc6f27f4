// SPDX-License-Identifier: MIT
package coordinate

import (
	"testing"

	"github.com/hamersaw/satmod/crs"
	"github.com/hamersaw/satmod/raster"
)

func TestGetWindowsNineUnitSquares(t *testing.T) {
	windows := GetWindows(0, 3, 0, 3, 1, 1)
	if len(windows) != 9 {
		t.Fatalf("len(windows) = %d, want 9", len(windows))
	}
	seen := make(map[[4]float64]bool)
	for _, w := range windows {
		if w.MaxCX-w.MinCX != 1 || w.MaxCY-w.MinCY != 1 {
			t.Errorf("window %+v is not a unit square", w)
		}
		seen[[4]float64{w.MinCX, w.MaxCX, w.MinCY, w.MaxCY}] = true
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			key := [4]float64{float64(i), float64(i + 1), float64(j), float64(j + 1)}
			if !seen[key] {
				t.Errorf("missing window %v", key)
			}
		}
	}
}

func TestGetBoundsIdentityProjection(t *testing.T) {
	ds, err := raster.InitDataset(raster.U8, 10, 10, 1, nil)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}
	ds.SetGeoTransform([6]float64{0, 1, 0, 10, 0, -1})
	ds.SetProjection(`GEOGCS["WGS 84",AUTHORITY["EPSG","4326"]]`)

	minCX, maxCX, minCY, maxCY, err := GetBounds(ds, 4326)
	if err != nil {
		t.Fatalf("GetBounds: %v", err)
	}
	if minCX != 0 || maxCX != 10 || minCY != 0 || maxCY != 10 {
		t.Errorf("bounds = (%v,%v,%v,%v), want (0,10,0,10)", minCX, maxCX, minCY, maxCY)
	}
}

func TestInvertAffine(t *testing.T) {
	t6 := [6]float64{100, 2, 0, 200, 0, -2}
	px, py := InvertAffine(t6, 110, 190)
	if px != 5 || py != 5 {
		t.Errorf("InvertAffine = (%v, %v), want (5, 5)", px, py)
	}
}

func TestTransformPixelsMismatchedLengths(t *testing.T) {
	tr := crs.NewTransformerBetween(mustProjection(t, 4326), mustProjection(t, 3857))
	t6 := [6]float64{0, 1, 0, 0, 0, 1}
	err := TransformPixels(t6, tr, []float64{1}, []float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected error for mismatched slice lengths")
	}
}

func mustProjection(t *testing.T, epsg uint32) crs.Projection {
	t.Helper()
	p, err := crs.ForEPSG(epsg)
	if err != nil {
		t.Fatalf("ForEPSG(%d): %v", epsg, err)
	}
	return p
}
