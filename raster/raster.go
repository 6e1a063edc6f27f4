// SPDX-License-Identifier: MIT

// Package raster implements satmod's own in-memory ("Mem driver"
// equivalent) dataset and band storage, plus the closed-world pixel-type
// dispatch spec.md §4.5 and §9 describe.
//
// A real GDAL binding is deliberately not wired here: spec.md's
// Non-goals exclude on-disk raster format decoding, and the original
// Rust source this system was distilled from (see
// _examples/original_source) only ever materializes split/merge output
// against GDAL's in-memory ("Mem") driver — disk formats never appear in
// the hot path this spec describes. An in-house memory-backed
// implementation is therefore the faithful translation, not a corner cut.
package raster

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPixelType is returned when a caller-supplied pixel-type
// tag falls outside the closed set {U8, I16, U16, F32} — e.g. while
// decoding an untrusted serialized stream. Internal type switches that
// can never see an out-of-range PixelType (because the value always
// originated from this package's own closed constructors) panic instead,
// per spec.md §9: those are unreachable match arms, not recoverable
// errors.
var ErrUnsupportedPixelType = errors.New("raster: unsupported pixel type")

// RasterError reports a failure performing a raster read/write/allocate
// operation.
type RasterError struct {
	Op  string
	Err error
}

func (e *RasterError) Error() string { return fmt.Sprintf("raster: %s: %v", e.Op, e.Err) }
func (e *RasterError) Unwrap() error { return e.Err }

func newRasterError(op string, err error) error {
	return &RasterError{Op: op, Err: err}
}

// PixelType is satmod's closed set of supported band pixel types.
type PixelType int

const (
	U8 PixelType = iota
	I16
	U16
	F32
)

// Size reports the number of bytes one pixel of this type occupies, as
// used by the serialize package's row-major encoding.
func (t PixelType) Size() int {
	switch t {
	case U8:
		return 1
	case I16, U16:
		return 2
	case F32:
		return 4
	default:
		panic(fmt.Sprintf("raster: unreachable pixel type %d", int(t)))
	}
}

func (t PixelType) String() string {
	switch t {
	case U8:
		return "U8"
	case I16:
		return "I16"
	case U16:
		return "U16"
	case F32:
		return "F32"
	default:
		return fmt.Sprintf("PixelType(%d)", int(t))
	}
}

// ParsePixelType validates a raw pixel-type tag read from an untrusted
// source (e.g. the serialize package), returning ErrUnsupportedPixelType
// for any tag outside the closed set.
func ParsePixelType(tag uint32) (PixelType, error) {
	switch PixelType(tag) {
	case U8, I16, U16, F32:
		return PixelType(tag), nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrUnsupportedPixelType, tag)
	}
}

// PixelValue is the set of Go types backing satmod's closed pixel-type
// set, in the same order as PixelType's constants.
type PixelValue interface {
	~uint8 | ~int16 | ~uint16 | ~float32
}

// Band is one raster band of a Dataset: a row-major pixel grid of a
// single pixel type, with an optional no-data sentinel.
type Band struct {
	pixelType PixelType
	width     int
	height    int
	noData    *float64
	data      any // []uint8, []int16, []uint16, or []float32
}

func newBand(pixelType PixelType, width, height int) *Band {
	b := &Band{pixelType: pixelType, width: width, height: height}
	size := width * height
	switch pixelType {
	case U8:
		b.data = make([]uint8, size)
	case I16:
		b.data = make([]int16, size)
	case U16:
		b.data = make([]uint16, size)
	case F32:
		b.data = make([]float32, size)
	default:
		panic(fmt.Sprintf("raster: unreachable pixel type %d", int(pixelType)))
	}
	return b
}

// Width and Height report the band's pixel grid dimensions.
func (b *Band) Width() int  { return b.width }
func (b *Band) Height() int { return b.height }

// PixelType reports the band's pixel type.
func (b *Band) PixelType() PixelType { return b.pixelType }

// NoData returns the band's no-data sentinel, if one is set.
func (b *Band) NoData() (float64, bool) {
	if b.noData == nil {
		return 0, false
	}
	return *b.noData, true
}

// SetNoData sets the band's no-data sentinel.
func (b *Band) SetNoData(value float64) {
	v := value
	b.noData = &v
}

// ClearNoData removes the band's no-data sentinel.
func (b *Band) ClearNoData() { b.noData = nil }

// fill overwrites every pixel in the band with value, cast narrowly to
// the band's pixel type.
func (b *Band) fill(value float64) {
	switch data := b.data.(type) {
	case []uint8:
		v := uint8(value)
		for i := range data {
			data[i] = v
		}
	case []int16:
		v := int16(value)
		for i := range data {
			data[i] = v
		}
	case []uint16:
		v := uint16(value)
		for i := range data {
			data[i] = v
		}
	case []float32:
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	default:
		panic("raster: unreachable band data type")
	}
}

// BandData returns the band's underlying pixel slice, typed as T. The
// returned slice aliases the band's storage: writes through it mutate
// the band in place. Returns an error if T does not match the band's
// actual pixel type.
func BandData[T PixelValue](b *Band) ([]T, error) {
	data, ok := b.data.([]T)
	if !ok {
		return nil, newRasterError("BandData", fmt.Errorf(
			"band pixel type is %s, cannot view as requested type", b.pixelType))
	}
	return data, nil
}

// Dataset is satmod's in-memory raster dataset: width/height, an affine
// geo-transform, a WKT projection string, and one or more bands.
type Dataset struct {
	width, height int
	transform     [6]float64
	projection    string
	bands         []*Band
}

// Width, Height, RasterCount report the dataset's dimensions and band
// count.
func (d *Dataset) Width() int       { return d.width }
func (d *Dataset) Height() int      { return d.height }
func (d *Dataset) RasterCount() int { return len(d.bands) }

// GeoTransform returns the dataset's six-coefficient affine geo-transform
// (a, b, c, d, e, f) such that Xworld = a + x*b + y*c, Yworld = d + x*e + y*f.
func (d *Dataset) GeoTransform() [6]float64 { return d.transform }

// SetGeoTransform replaces the dataset's geo-transform.
func (d *Dataset) SetGeoTransform(t [6]float64) { d.transform = t }

// Projection returns the dataset's WKT projection string.
func (d *Dataset) Projection() string { return d.projection }

// SetProjection replaces the dataset's WKT projection string.
func (d *Dataset) SetProjection(wkt string) { d.projection = wkt }

// Band returns the i'th band (0-indexed).
func (d *Dataset) Band(i int) *Band { return d.bands[i] }

// InitDataset allocates a new in-memory dataset with rasterCount bands of
// the given pixel type. If noData is non-nil, every band's no-data
// sentinel is set to *noData and every pixel is pre-filled with that
// value cast to the band's pixel type, per spec.md §4.5.
func InitDataset(pixelType PixelType, width, height, rasterCount int, noData *float64) (*Dataset, error) {
	if width <= 0 || height <= 0 {
		return nil, newRasterError("InitDataset", fmt.Errorf(
			"invalid dimensions %dx%d", width, height))
	}
	if rasterCount <= 0 {
		return nil, newRasterError("InitDataset", fmt.Errorf(
			"invalid raster count %d", rasterCount))
	}

	switch pixelType {
	case U8, I16, U16, F32:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelType, pixelType)
	}

	bands := make([]*Band, rasterCount)
	for i := range bands {
		bands[i] = newBand(pixelType, width, height)
		if noData != nil {
			bands[i].SetNoData(*noData)
			bands[i].fill(*noData)
		}
	}

	return &Dataset{width: width, height: height, bands: bands}, nil
}

// Rect is an axis-aligned pixel-space rectangle: an offset and a size.
type Rect struct {
	X, Y int
	W, H int
}

// CopyRaster copies a rectangle of pixels from src band srcBand (window
// srcRect) into dst band dstBand (window dstRect), and propagates src's
// no-data sentinel to dst. srcRect.W/H must equal dstRect.W/H: satmod's
// split/merge never resample, they only re-frame.
func CopyRaster(src *Dataset, srcBand int, srcRect Rect, dst *Dataset, dstBand int, dstRect Rect) error {
	if srcRect.W != dstRect.W || srcRect.H != dstRect.H {
		return newRasterError("CopyRaster", fmt.Errorf(
			"mismatched copy size: src %dx%d, dst %dx%d",
			srcRect.W, srcRect.H, dstRect.W, dstRect.H))
	}

	sb, db := src.Band(srcBand), dst.Band(dstBand)
	if sb.pixelType != db.pixelType {
		return newRasterError("CopyRaster", fmt.Errorf(
			"mismatched pixel types: src %s, dst %s", sb.pixelType, db.pixelType))
	}

	var err error
	switch sb.pixelType {
	case U8:
		err = copyTyped[uint8](sb, srcRect, db, dstRect)
	case I16:
		err = copyTyped[int16](sb, srcRect, db, dstRect)
	case U16:
		err = copyTyped[uint16](sb, srcRect, db, dstRect)
	case F32:
		err = copyTyped[float32](sb, srcRect, db, dstRect)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedPixelType, sb.pixelType)
	}
	if err != nil {
		return err
	}

	if noData, ok := sb.NoData(); ok {
		db.SetNoData(noData)
	}
	return nil
}

func copyTyped[T PixelValue](src *Band, srcRect Rect, dst *Band, dstRect Rect) error {
	srcData, err := BandData[T](src)
	if err != nil {
		return err
	}
	dstData, err := BandData[T](dst)
	if err != nil {
		return err
	}

	if srcRect.X < 0 || srcRect.Y < 0 || srcRect.X+srcRect.W > src.width || srcRect.Y+srcRect.H > src.height {
		return newRasterError("copyTyped", fmt.Errorf(
			"src window %+v out of bounds for %dx%d band", srcRect, src.width, src.height))
	}
	if dstRect.X < 0 || dstRect.Y < 0 || dstRect.X+dstRect.W > dst.width || dstRect.Y+dstRect.H > dst.height {
		return newRasterError("copyTyped", fmt.Errorf(
			"dst window %+v out of bounds for %dx%d band", dstRect, dst.width, dst.height))
	}

	for row := 0; row < srcRect.H; row++ {
		srcStart := (srcRect.Y+row)*src.width + srcRect.X
		dstStart := (dstRect.Y+row)*dst.width + dstRect.X
		copy(dstData[dstStart:dstStart+srcRect.W], srcData[srcStart:srcStart+srcRect.W])
	}
	return nil
}
