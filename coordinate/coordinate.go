// SPDX-License-Identifier: MIT

// Package coordinate wraps the crs package with the affine geo-transform
// math satmod's tile engine needs: deriving a dataset's bounding box in a
// target CRS, enumerating the grid windows that box intersects, and
// mapping pixel indices to and from projected coordinates.
//
// Grounded on original_source/src/coordinate.rs's get_window_bounds and
// transform.rs's corner-transform/envelope code.
package coordinate

import (
	"fmt"
	"math"

	"github.com/hamersaw/satmod/crs"
	"github.com/hamersaw/satmod/raster"
)

// Window is an axis-aligned rectangle in a target CRS, sized to a
// geocode's cell intervals.
type Window struct {
	MinCX, MaxCX float64
	MinCY, MaxCY float64
}

// GetBounds transforms a dataset's four corner pixels (0,0), (W,0),
// (0,H), (W,H) through its geo-transform then through a
// source-CRS-to-target-CRS transformer, and returns the axis-aligned
// envelope of the results.
func GetBounds(ds *raster.Dataset, targetEPSG uint32) (minCX, maxCX, minCY, maxCY float64, err error) {
	src, err := crs.ForWKT(ds.Projection())
	if err != nil {
		return 0, 0, 0, 0, err
	}
	dst, err := crs.ForEPSG(targetEPSG)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	tr := crs.NewTransformerBetween(src, dst)

	t := ds.GeoTransform()
	w, h := float64(ds.Width()), float64(ds.Height())

	corners := [4][2]float64{
		{0, 0}, {w, 0}, {0, h}, {w, h},
	}
	xs := make([]float64, 4)
	ys := make([]float64, 4)
	zs := make([]float64, 4)
	for i, c := range corners {
		xs[i] = t[0] + c[0]*t[1] + c[1]*t[2]
		ys[i] = t[3] + c[0]*t[4] + c[1]*t[5]
	}
	if err := tr.TransformCoords(xs, ys, zs); err != nil {
		return 0, 0, 0, 0, err
	}

	minCX, maxCX = xs[0], xs[0]
	minCY, maxCY = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minCX = math.Min(minCX, xs[i])
		maxCX = math.Max(maxCX, xs[i])
		minCY = math.Min(minCY, ys[i])
		maxCY = math.Max(maxCY, ys[i])
	}
	return minCX, maxCX, minCY, maxCY, nil
}

// GetWindows enumerates every Window sized to (xInterval, yInterval)
// that intersects [minCX, maxCX) x [minCY, maxCY), in x-major then y
// order. i ranges over [floor(minCX/xInterval), ceil(maxCX/xInterval))
// and j over [floor(minCY/yInterval), ceil(maxCY/yInterval)).
func GetWindows(minCX, maxCX, minCY, maxCY, xInterval, yInterval float64) []Window {
	iMin := int(math.Floor(minCX / xInterval))
	iMax := int(math.Ceil(maxCX / xInterval))
	jMin := int(math.Floor(minCY / yInterval))
	jMax := int(math.Ceil(maxCY / yInterval))

	windows := make([]Window, 0, (iMax-iMin)*(jMax-jMin))
	for i := iMin; i < iMax; i++ {
		for j := jMin; j < jMax; j++ {
			windows = append(windows, Window{
				MinCX: float64(i) * xInterval,
				MaxCX: float64(i+1) * xInterval,
				MinCY: float64(j) * yInterval,
				MaxCY: float64(j+1) * yInterval,
			})
		}
	}
	return windows
}

// TransformPixel applies a dataset's affine geo-transform to pixel (x,
// y), then maps the resulting source-CRS coordinate through tr.
func TransformPixel(t [6]float64, tr *crs.Transformer, x, y, z float64) (float64, float64, float64, error) {
	worldX := t[0] + x*t[1] + y*t[2]
	worldY := t[3] + x*t[4] + y*t[5]
	return tr.TransformCoord(worldX, worldY, z)
}

// TransformPixels applies TransformPixel to parallel slices of pixel
// coordinates in place, amortizing the per-call cost of a batch
// transform over many points.
func TransformPixels(t [6]float64, tr *crs.Transformer, xs, ys, zs []float64) error {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return fmt.Errorf("coordinate: mismatched slice lengths: %d x, %d y, %d z", len(xs), len(ys), len(zs))
	}
	for i := range xs {
		worldX := t[0] + xs[i]*t[1] + ys[i]*t[2]
		worldY := t[3] + xs[i]*t[4] + ys[i]*t[5]
		xs[i], ys[i] = worldX, worldY
	}
	return tr.TransformCoords(xs, ys, zs)
}

// InvertAffine inverts a pixel (x, y) from a world coordinate, assuming
// the rotation/shear coefficients c and e are zero — used for
// center-pixel seeding in the split algorithm, per spec.md §4.3 step 2.
func InvertAffine(t [6]float64, worldX, worldY float64) (px, py float64) {
	px = (worldX - t[0]) / t[1]
	py = (worldY - t[3]) / t[5]
	return px, py
}
