// SPDX-License-Identifier: MIT

// Package serialize implements satmod's binary dataset wire format:
// width, height, geo-transform, projection, pixel type, no-data, and
// row-major band data, all big-endian per spec.md §6.
//
// Grounded verbatim on original_source/src/serialize.rs's read/write/
// read_raster/write_raster, re-expressed with Go's encoding/binary in
// place of the Rust byteorder crate (no Go equivalent import exists for
// byteorder specifically; encoding/binary.Write/Read against a fixed
// BigEndian order is the direct, unavoidable translation — the teacher's
// own binary formats, e.g. cmd/tilerank-builder/raster.go's
// tiffTile.ToBytes/writeTiff, use raw encoding/binary the same way).
package serialize

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hamersaw/satmod/raster"
)

// ErrTruncated is returned when the stream ends before a complete
// dataset has been read.
var ErrTruncated = errors.New("serialize: truncated stream")

// Error wraps a failure reading or writing a serialized dataset.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("serialize: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Op: op, Err: ErrTruncated}
	}
	return &Error{Op: op, Err: err}
}

// Write serializes ds to w per spec.md §6's binary layout.
func Write(ds *raster.Dataset, w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(ds.Width())); err != nil {
		return newError("Write", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(ds.Height())); err != nil {
		return newError("Write", err)
	}

	transform := ds.GeoTransform()
	for _, v := range transform {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return newError("Write", err)
		}
	}

	projection := []byte(ds.Projection())
	if err := binary.Write(w, binary.BigEndian, uint32(len(projection))); err != nil {
		return newError("Write", err)
	}
	if _, err := w.Write(projection); err != nil {
		return newError("Write", err)
	}

	firstBand := ds.Band(0)
	if err := binary.Write(w, binary.BigEndian, uint32(firstBand.PixelType())); err != nil {
		return newError("Write", err)
	}
	if noData, ok := firstBand.NoData(); ok {
		if err := binary.Write(w, binary.BigEndian, uint8(1)); err != nil {
			return newError("Write", err)
		}
		if err := binary.Write(w, binary.BigEndian, noData); err != nil {
			return newError("Write", err)
		}
	} else {
		if err := binary.Write(w, binary.BigEndian, uint8(0)); err != nil {
			return newError("Write", err)
		}
	}

	if err := binary.Write(w, binary.BigEndian, uint8(ds.RasterCount())); err != nil {
		return newError("Write", err)
	}

	for i := 0; i < ds.RasterCount(); i++ {
		if err := writeRaster(ds.Band(i), w); err != nil {
			return err
		}
	}

	return nil
}

func writeRaster(b *raster.Band, w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(b.PixelType())); err != nil {
		return newError("writeRaster", err)
	}

	switch b.PixelType() {
	case raster.U8:
		data, err := raster.BandData[uint8](b)
		if err != nil {
			return newError("writeRaster", err)
		}
		if _, err := w.Write(data); err != nil {
			return newError("writeRaster", err)
		}
	case raster.I16:
		data, err := raster.BandData[int16](b)
		if err != nil {
			return newError("writeRaster", err)
		}
		for _, v := range data {
			if err := binary.Write(w, binary.BigEndian, v); err != nil {
				return newError("writeRaster", err)
			}
		}
	case raster.U16:
		data, err := raster.BandData[uint16](b)
		if err != nil {
			return newError("writeRaster", err)
		}
		for _, v := range data {
			if err := binary.Write(w, binary.BigEndian, v); err != nil {
				return newError("writeRaster", err)
			}
		}
	case raster.F32:
		data, err := raster.BandData[float32](b)
		if err != nil {
			return newError("writeRaster", err)
		}
		for _, v := range data {
			if err := binary.Write(w, binary.BigEndian, v); err != nil {
				return newError("writeRaster", err)
			}
		}
	default:
		return fmt.Errorf("%w: %v", raster.ErrUnsupportedPixelType, b.PixelType())
	}

	return nil
}

// Read deserializes a dataset from r per spec.md §6's binary layout.
func Read(r io.Reader) (*raster.Dataset, error) {
	var width, height uint32
	if err := binary.Read(r, binary.BigEndian, &width); err != nil {
		return nil, newError("Read", err)
	}
	if err := binary.Read(r, binary.BigEndian, &height); err != nil {
		return nil, newError("Read", err)
	}

	var transform [6]float64
	for i := range transform {
		if err := binary.Read(r, binary.BigEndian, &transform[i]); err != nil {
			return nil, newError("Read", err)
		}
	}

	var projectionLen uint32
	if err := binary.Read(r, binary.BigEndian, &projectionLen); err != nil {
		return nil, newError("Read", err)
	}
	projectionBuf := make([]byte, projectionLen)
	if _, err := io.ReadFull(r, projectionBuf); err != nil {
		return nil, newError("Read", err)
	}

	var pixelTypeTag uint32
	if err := binary.Read(r, binary.BigEndian, &pixelTypeTag); err != nil {
		return nil, newError("Read", err)
	}
	pixelType, err := raster.ParsePixelType(pixelTypeTag)
	if err != nil {
		return nil, newError("Read", err)
	}

	var noDataPresent uint8
	if err := binary.Read(r, binary.BigEndian, &noDataPresent); err != nil {
		return nil, newError("Read", err)
	}
	var noData *float64
	if noDataPresent != 0 {
		var v float64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, newError("Read", err)
		}
		noData = &v
	}

	var rasterCount uint8
	if err := binary.Read(r, binary.BigEndian, &rasterCount); err != nil {
		return nil, newError("Read", err)
	}

	ds, err := raster.InitDataset(pixelType, int(width), int(height), int(rasterCount), noData)
	if err != nil {
		return nil, newError("Read", err)
	}
	ds.SetGeoTransform(transform)
	ds.SetProjection(string(projectionBuf))

	for i := 0; i < int(rasterCount); i++ {
		if err := readRaster(ds.Band(i), r); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

func readRaster(b *raster.Band, r io.Reader) error {
	var tag uint32
	if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
		return newError("readRaster", err)
	}
	pixelType, err := raster.ParsePixelType(tag)
	if err != nil {
		return newError("readRaster", err)
	}
	if pixelType != b.PixelType() {
		return newError("readRaster", fmt.Errorf(
			"band pixel type tag %v does not match dataset pixel type %v", pixelType, b.PixelType()))
	}

	size := b.Width() * b.Height()
	switch pixelType {
	case raster.U8:
		data, err := raster.BandData[uint8](b)
		if err != nil {
			return newError("readRaster", err)
		}
		if _, err := io.ReadFull(r, data[:size]); err != nil {
			return newError("readRaster", err)
		}
	case raster.I16:
		data, err := raster.BandData[int16](b)
		if err != nil {
			return newError("readRaster", err)
		}
		for i := 0; i < size; i++ {
			if err := binary.Read(r, binary.BigEndian, &data[i]); err != nil {
				return newError("readRaster", err)
			}
		}
	case raster.U16:
		data, err := raster.BandData[uint16](b)
		if err != nil {
			return newError("readRaster", err)
		}
		for i := 0; i < size; i++ {
			if err := binary.Read(r, binary.BigEndian, &data[i]); err != nil {
				return newError("readRaster", err)
			}
		}
	case raster.F32:
		data, err := raster.BandData[float32](b)
		if err != nil {
			return newError("readRaster", err)
		}
		for i := 0; i < size; i++ {
			if err := binary.Read(r, binary.BigEndian, &data[i]); err != nil {
				return newError("readRaster", err)
			}
		}
	default:
		return fmt.Errorf("%w: %v", raster.ErrUnsupportedPixelType, pixelType)
	}

	return nil
}
