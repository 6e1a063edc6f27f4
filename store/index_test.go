// SPDX-License-Identifier: MIT
package store

import "testing"

func TestBuildIndexSortsByGeocode(t *testing.T) {
	entries := []IndexEntry{
		{Geocode: "u1x0", Offset: 10, Length: 5},
		{Geocode: "9xjq", Offset: 0, Length: 10},
		{Geocode: "dpc5", Offset: 20, Length: 7},
	}
	sorted, err := BuildIndex(entries)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("len(sorted) = %d, want 3", len(sorted))
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Geocode >= sorted[i].Geocode {
			t.Errorf("not sorted: %q >= %q", sorted[i-1].Geocode, sorted[i].Geocode)
		}
	}
}

func TestLookupFindsExactMatch(t *testing.T) {
	index := []IndexEntry{
		{Geocode: "9xjq", Offset: 0, Length: 10},
		{Geocode: "dpc5", Offset: 20, Length: 7},
		{Geocode: "u1x0", Offset: 10, Length: 5},
	}
	offset, length, found := Lookup(index, "dpc5")
	if !found || offset != 20 || length != 7 {
		t.Errorf("Lookup(dpc5) = (%v, %v, %v), want (20, 7, true)", offset, length, found)
	}
	if _, _, found := Lookup(index, "missing"); found {
		t.Error("expected Lookup to report not found for an absent geocode")
	}
}
