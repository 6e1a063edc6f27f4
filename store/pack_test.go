// SPDX-License-Identifier: MIT
package store

import (
	"testing"

	"github.com/hamersaw/satmod/raster"
)

func newEntryDataset(t *testing.T, fill uint8) *raster.Dataset {
	t.Helper()
	ds, err := raster.InitDataset(raster.U8, 2, 2, 1, nil)
	if err != nil {
		t.Fatalf("InitDataset: %v", err)
	}
	data, _ := raster.BandData[uint8](ds.Band(0))
	for i := range data {
		data[i] = fill
	}
	ds.SetGeoTransform([6]float64{0, 1, 0, 2, 0, -1})
	ds.SetProjection("fake wkt")
	return ds
}

func TestPackUnpackRoundTrip(t *testing.T) {
	entries := []Entry{
		{Geocode: "u1x0", Dataset: newEntryDataset(t, 1)},
		{Geocode: "9xjq", Dataset: newEntryDataset(t, 2)},
		{Geocode: "dpc5", Dataset: newEntryDataset(t, 3)},
	}

	for _, c := range []Compression{None, Zstd, Brotli} {
		packed, err := Pack(entries, c)
		if err != nil {
			t.Fatalf("Pack(%v): %v", c, err)
		}

		got, err := Unpack(packed)
		if err != nil {
			t.Fatalf("Unpack(%v): %v", c, err)
		}
		if len(got) != len(entries) {
			t.Fatalf("len(got) = %d, want %d", len(got), len(entries))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Geocode >= got[i].Geocode {
				t.Errorf("entries not sorted by geocode: %q >= %q", got[i-1].Geocode, got[i].Geocode)
			}
		}
	}
}

func TestUnpackRejectsBadMagic(t *testing.T) {
	if _, err := Unpack([]byte("not a pack")); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
