// SPDX-License-Identifier: MIT

// Package stats implements the two dataset-level statistics spec.md §1
// calls out as external collaborators of the tile engine: coverage
// (fraction of non-null pixels) and fill (pixel-wise hole-filling across
// ordered datasets).
//
// original_source/src/lib.rs's StImage::geohash_coverage computes an
// analogous ratio (requested cell area over decoded geohash cell area);
// Coverage generalizes that idea to a raster's own no-data sentinel
// rather than a geohash cell footprint. No fill body survived the
// original_source filter — prelude.rs only re-exports `crate::fill` — so
// Fill's pixel-priority semantics are reconstructed from spec.md §1's
// description: "multi-dataset fill (pixel-wise hole-filling across
// ordered datasets)".
package stats

import (
	"fmt"

	"github.com/hamersaw/satmod/raster"
)

// Error reports a failure computing a dataset statistic — e.g. a
// dimension mismatch between datasets passed to Fill.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("stats: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Coverage returns the fraction, in [0, 1], of band i's pixels that are
// not equal to the band's no-data value. A band with no no-data sentinel
// set is fully covered by definition.
func Coverage(ds *raster.Dataset, band int) (float64, error) {
	b := ds.Band(band)
	noData, ok := b.NoData()
	total := b.Width() * b.Height()
	if total == 0 {
		return 0, newError("Coverage", fmt.Errorf("band has zero pixels"))
	}
	if !ok {
		return 1.0, nil
	}

	var nonNull int
	switch b.PixelType() {
	case raster.U8:
		data, _ := raster.BandData[uint8](b)
		for _, v := range data {
			if float64(v) != noData {
				nonNull++
			}
		}
	case raster.I16:
		data, _ := raster.BandData[int16](b)
		for _, v := range data {
			if float64(v) != noData {
				nonNull++
			}
		}
	case raster.U16:
		data, _ := raster.BandData[uint16](b)
		for _, v := range data {
			if float64(v) != noData {
				nonNull++
			}
		}
	case raster.F32:
		data, _ := raster.BandData[float32](b)
		for _, v := range data {
			if float64(v) != noData {
				nonNull++
			}
		}
	default:
		return 0, fmt.Errorf("%w: %v", raster.ErrUnsupportedPixelType, b.PixelType())
	}

	return float64(nonNull) / float64(total), nil
}

// Fill returns a new dataset with the same dimensions and pixel type as
// datasets[0], where each pixel takes the value of the first dataset (in
// slice order) whose corresponding pixel is not its no-data value,
// falling back to datasets[0]'s no-data value if every dataset is null
// at that pixel. Datasets must share dimensions, pixel type, and band
// count.
func Fill(datasets []*raster.Dataset) (*raster.Dataset, error) {
	if len(datasets) == 0 {
		return nil, newError("Fill", fmt.Errorf("no datasets given"))
	}
	first := datasets[0]
	width, height := first.Width(), first.Height()
	rasterCount := first.RasterCount()
	pixelType := first.Band(0).PixelType()

	for _, ds := range datasets[1:] {
		if ds.Width() != width || ds.Height() != height {
			return nil, newError("Fill", fmt.Errorf(
				"mismatched dimensions: %dx%d vs %dx%d", ds.Width(), ds.Height(), width, height))
		}
		if ds.RasterCount() != rasterCount {
			return nil, newError("Fill", fmt.Errorf(
				"mismatched band count: %d vs %d", ds.RasterCount(), rasterCount))
		}
		if ds.Band(0).PixelType() != pixelType {
			return nil, newError("Fill", fmt.Errorf(
				"mismatched pixel type: %v vs %v", ds.Band(0).PixelType(), pixelType))
		}
	}

	var noData *float64
	if nd, ok := first.Band(0).NoData(); ok {
		noData = &nd
	}

	dst, err := raster.InitDataset(pixelType, width, height, rasterCount, noData)
	if err != nil {
		return nil, newError("Fill", err)
	}
	dst.SetGeoTransform(first.GeoTransform())
	dst.SetProjection(first.Projection())

	for band := 0; band < rasterCount; band++ {
		switch pixelType {
		case raster.U8:
			if err := fillTyped[uint8](datasets, dst, band); err != nil {
				return nil, newError("Fill", err)
			}
		case raster.I16:
			if err := fillTyped[int16](datasets, dst, band); err != nil {
				return nil, newError("Fill", err)
			}
		case raster.U16:
			if err := fillTyped[uint16](datasets, dst, band); err != nil {
				return nil, newError("Fill", err)
			}
		case raster.F32:
			if err := fillTyped[float32](datasets, dst, band); err != nil {
				return nil, newError("Fill", err)
			}
		default:
			return nil, fmt.Errorf("%w: %v", raster.ErrUnsupportedPixelType, pixelType)
		}
	}

	return dst, nil
}

func fillTyped[T raster.PixelValue](datasets []*raster.Dataset, dst *raster.Dataset, band int) error {
	dstData, err := raster.BandData[T](dst.Band(band))
	if err != nil {
		return err
	}

	type source struct {
		data   []T
		noData float64
		hasND  bool
	}
	sources := make([]source, len(datasets))
	for i, ds := range datasets {
		data, err := raster.BandData[T](ds.Band(band))
		if err != nil {
			return err
		}
		noData, hasND := ds.Band(band).NoData()
		sources[i] = source{data: data, noData: noData, hasND: hasND}
	}

	for px := range dstData {
		for _, s := range sources {
			v := s.data[px]
			if s.hasND && float64(v) == s.noData {
				continue
			}
			dstData[px] = v
			break
		}
	}
	return nil
}
