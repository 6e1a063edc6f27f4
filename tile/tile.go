// SPDX-License-Identifier: MIT

// Package tile implements satmod's split and merge operators: carving a
// tile-aligned sub-dataset out of a larger source, and unifying several
// aligned sub-datasets back into one.
//
// Grounded directly on original_source/src/transform.rs's split/merge,
// translated pixel-for-pixel: the center-seed growth loop, the
// conservative inner-corner envelope, and the shortfall tie-break all
// follow the Rust source's control flow.
package tile

import (
	"fmt"
	"math"

	"github.com/hamersaw/satmod/coordinate"
	"github.com/hamersaw/satmod/crs"
	"github.com/hamersaw/satmod/raster"
)

// Error reports a failure in split or merge that originates from this
// package rather than from the crs or raster packages it calls into.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("tile: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Split carves a new in-memory dataset out of src whose reprojected
// footprint contains the target-CRS window [minCX,maxCX) x [minCY,maxCY),
// cropped from src along axis-aligned pixel boundaries and padded with
// src's no-data value outside the original image. Returns (nil, nil) if
// the window's containing pixel rectangle lies entirely outside src —
// per spec.md §7 this is an expected outcome, not an error.
func Split(src *raster.Dataset, minCX, maxCX, minCY, maxCY float64, targetEPSG uint32) (*raster.Dataset, error) {
	srcWidth, srcHeight := src.Width(), src.Height()

	srcProj, err := crs.ForWKT(src.Projection())
	if err != nil {
		return nil, newError("Split", err)
	}
	dstProj, err := crs.ForEPSG(targetEPSG)
	if err != nil {
		return nil, newError("Split", err)
	}
	forward := crs.NewTransformerBetween(srcProj, dstProj)
	reverse := forward.Reverse()

	t := src.GeoTransform()

	midCX := (minCX + maxCX) / 2.0
	midCY := (minCY + maxCY) / 2.0

	centerTX, centerTY, _, err := reverse.TransformCoord(midCX, midCY, 0)
	if err != nil {
		return nil, newError("Split", err)
	}
	centerPX, centerPY := coordinate.InvertAffine(t, centerTX, centerTY)

	boundMinPX := int(math.Floor(centerPX))
	boundMaxPX := int(math.Floor(centerPX))
	boundMinPY := int(math.Floor(centerPY))
	boundMaxPY := int(math.Floor(centerPY))

	// The source-to-target transform's y-axis may run in either
	// direction depending on the sign of T[5] (DESIGN.md open question
	// 2): when T[5] < 0, increasing pixel y decreases world y, so the
	// rectangle's bottom corners (max_py) carry the smaller world-y
	// values used for the conservative lower bound. When T[5] > 0 that
	// relationship inverts, so the corner pairs feeding bound_min_cy and
	// bound_max_cy must swap.
	yFlipped := t[5] < 0

	var boundMinCX, boundMaxCX, boundMinCY, boundMaxCY float64
	for {
		xs := []float64{
			float64(boundMinPX), float64(boundMaxPX),
			float64(boundMinPX), float64(boundMaxPX),
		}
		ys := []float64{
			float64(boundMinPY), float64(boundMinPY),
			float64(boundMaxPY), float64(boundMaxPY),
		}
		zs := make([]float64, 4)

		if err := coordinate.TransformPixels(t, forward, xs, ys, zs); err != nil {
			return nil, newError("Split", err)
		}
		xUL, xUR, xLL, xLR := xs[0], xs[1], xs[2], xs[3]
		yUL, yUR, yLL, yLR := ys[0], ys[1], ys[2], ys[3]

		boundMinCX = math.Max(xUL, xLL)
		boundMaxCX = math.Min(xUR, xLR)
		if yFlipped {
			boundMinCY = math.Max(yLL, yLR)
			boundMaxCY = math.Min(yUL, yUR)
		} else {
			boundMinCY = math.Max(yUL, yUR)
			boundMaxCY = math.Min(yLL, yLR)
		}

		if boundMinCX <= minCX && boundMaxCX >= maxCX &&
			boundMinCY <= minCY && boundMaxCY >= maxCY {
			break
		}

		shortfalls := [4]float64{
			boundMinCX - minCX,
			maxCX - boundMaxCX,
			boundMinCY - minCY,
			maxCY - boundMaxCY,
		}
		index, value := 0, shortfalls[0]
		for i := 1; i < 4; i++ {
			if shortfalls[i] > value {
				value = shortfalls[i]
				index = i
			}
		}
		switch index {
		case 0:
			boundMinPX--
		case 1:
			boundMaxPX++
		case 2:
			if yFlipped {
				boundMaxPY++
			} else {
				boundMinPY--
			}
		case 3:
			if yFlipped {
				boundMinPY--
			} else {
				boundMaxPY++
			}
		}
	}

	if boundMaxPX <= 0 || boundMinPX >= srcWidth || boundMaxPY <= 0 || boundMinPY >= srcHeight {
		return nil, nil
	}

	srcXOffset := max(boundMinPX, 0)
	srcYOffset := max(boundMinPY, 0)
	bufWidth := min(boundMaxPX, srcWidth) - max(boundMinPX, 0)
	bufHeight := min(boundMaxPY, srcHeight) - max(boundMinPY, 0)

	dstXOffset := max(-boundMinPX, 0)
	dstYOffset := max(-boundMinPY, 0)

	dstWidth := boundMaxPX - boundMinPX
	dstHeight := boundMaxPY - boundMinPY

	pixelType := src.Band(0).PixelType()
	var noData *float64
	if nd, ok := src.Band(0).NoData(); ok {
		noData = &nd
	}

	dst, err := raster.InitDataset(pixelType, dstWidth, dstHeight, src.RasterCount(), noData)
	if err != nil {
		return nil, newError("Split", err)
	}

	dstTransform := t
	dstTransform[0] = t[0] + float64(boundMinPX)*t[1] + float64(boundMinPY)*t[2]
	dstTransform[3] = t[3] + float64(boundMinPX)*t[4] + float64(boundMinPY)*t[5]
	dst.SetGeoTransform(dstTransform)
	dst.SetProjection(src.Projection())

	for i := 0; i < src.RasterCount(); i++ {
		srcRect := raster.Rect{X: srcXOffset, Y: srcYOffset, W: bufWidth, H: bufHeight}
		dstRect := raster.Rect{X: dstXOffset, Y: dstYOffset, W: bufWidth, H: bufHeight}
		if err := raster.CopyRaster(src, i, srcRect, dst, i, dstRect); err != nil {
			return nil, newError("Split", err)
		}
	}

	return dst, nil
}

// Merge unifies datasets, all sharing a projection and pixel size, into
// a single larger dataset whose footprint is the union of their
// reprojected envelopes. Callers must guarantee the shared-CRS/pixel-size
// precondition; Merge does not itself re-derive or verify it (per
// original_source/src/transform.rs's own "TODO - ensure datasets are in
// same spatial reference system").
func Merge(datasets []*raster.Dataset) (*raster.Dataset, error) {
	if len(datasets) == 0 {
		return nil, newError("Merge", fmt.Errorf("no datasets given"))
	}

	minCX, maxCX := math.Inf(1), math.Inf(-1)
	minCY, maxCY := math.Inf(1), math.Inf(-1)

	for _, ds := range datasets {
		t := ds.GeoTransform()
		w, h := float64(ds.Width()), float64(ds.Height())

		imageMinCX := t[0]
		imageMaxCX := t[0] + w*t[1] + h*t[2]
		imageMinCY := t[3] + w*t[4] + h*t[5]
		imageMaxCY := t[3]

		minCX = math.Min(minCX, imageMinCX)
		maxCX = math.Max(maxCX, imageMaxCX)
		minCY = math.Min(minCY, imageMinCY)
		maxCY = math.Max(maxCY, imageMaxCY)
	}

	t := datasets[0].GeoTransform()
	minPX := (minCX - t[0]) / t[1]
	maxPX := (maxCX - t[0]) / t[1]
	minPY := (minCY - t[3]) / t[5] * -1.0
	maxPY := (maxCY - t[3]) / t[5] * -1.0

	dstWidth := int(maxPX - minPX)
	dstHeight := int(maxPY - minPY)

	pixelType := datasets[0].Band(0).PixelType()
	var noData *float64
	if nd, ok := datasets[0].Band(0).NoData(); ok {
		noData = &nd
	}

	dst, err := raster.InitDataset(pixelType, dstWidth, dstHeight, datasets[0].RasterCount(), noData)
	if err != nil {
		return nil, newError("Merge", err)
	}

	dstTransform := t
	dstTransform[0] = minCX
	dstTransform[3] = maxCY
	dst.SetGeoTransform(dstTransform)
	dst.SetProjection(datasets[0].Projection())

	for _, ds := range datasets {
		srcTransform := ds.GeoTransform()
		srcWidth, srcHeight := ds.Width(), ds.Height()

		dstXOffset := int((srcTransform[0] - dstTransform[0]) / dstTransform[1])
		dstYOffset := int((srcTransform[3] - dstTransform[3]) / dstTransform[5])

		for i := 0; i < ds.RasterCount(); i++ {
			srcRect := raster.Rect{X: 0, Y: 0, W: srcWidth, H: srcHeight}
			dstRect := raster.Rect{X: dstXOffset, Y: dstYOffset, W: srcWidth, H: srcHeight}
			if err := raster.CopyRaster(ds, i, srcRect, dst, i, dstRect); err != nil {
				return nil, newError("Merge", err)
			}
		}
	}

	return dst, nil
}
