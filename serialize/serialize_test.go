// SPDX-License-Identifier: MIT
package serialize

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hamersaw/satmod/raster"
)

func TestWriteReadRoundTrip(t *testing.T) {
	noData := -1.0
	ds, err := raster.InitDataset(raster.I16, 3, 2, 2, &noData)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}
	ds.SetGeoTransform([6]float64{10, 0.5, 0, 20, 0, -0.5})
	ds.SetProjection("fake wkt")

	band0, _ := raster.BandData[int16](ds.Band(0))
	for i := range band0 {
		band0[i] = int16(i * 7)
	}
	band1, _ := raster.BandData[int16](ds.Band(1))
	for i := range band1 {
		band1[i] = int16(-i)
	}

	var buf bytes.Buffer
	if err := Write(ds, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Width() != 3 || got.Height() != 2 || got.RasterCount() != 2 {
		t.Fatalf("dimensions = %dx%dx%d, want 3x2x2", got.Width(), got.Height(), got.RasterCount())
	}
	if got.Projection() != "fake wkt" {
		t.Errorf("Projection = %q, want %q", got.Projection(), "fake wkt")
	}
	if got.GeoTransform() != ds.GeoTransform() {
		t.Errorf("GeoTransform = %v, want %v", got.GeoTransform(), ds.GeoTransform())
	}

	gotBand0, _ := raster.BandData[int16](got.Band(0))
	for i := range band0 {
		if gotBand0[i] != band0[i] {
			t.Errorf("band0[%d] = %v, want %v", i, gotBand0[i], band0[i])
		}
	}

	nd, ok := got.Band(0).NoData()
	if !ok || nd != noData {
		t.Errorf("NoData = (%v, %v), want (%v, true)", nd, ok, noData)
	}
}

func TestReadTruncatedStreamReturnsErrTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 4}) // only width, nothing else
	if _, err := Read(&buf); !errors.Is(err, ErrTruncated) {
		t.Fatalf("Read error = %v, want ErrTruncated", err)
	}
}

func TestReadRejectsUnsupportedPixelType(t *testing.T) {
	ds, _ := raster.InitDataset(raster.U8, 1, 1, 1, nil)
	var buf bytes.Buffer
	if err := Write(ds, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data := buf.Bytes()
	// Pixel-type tag is at byte offset 4(w)+4(h)+48(transform)+4(projlen) = 60.
	offset := 4 + 4 + 48 + 4
	data[offset+3] = 0xFF // corrupt the low byte of the u32 tag

	if _, err := Read(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for unsupported pixel type tag")
	}
}

func TestNoDataAbsent(t *testing.T) {
	ds, err := raster.InitDataset(raster.F32, 2, 2, 1, nil)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(ds, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, ok := got.Band(0).NoData(); ok {
		t.Error("expected no NoData sentinel")
	}
}
