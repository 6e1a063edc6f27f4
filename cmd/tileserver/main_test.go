// SPDX-License-Identifier: MIT
package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hamersaw/satmod/serialize"
)

func TestHandleTileServesKnownGeocode(t *testing.T) {
	path := writeTestPack(t, "u1x0")
	dl, err := NewDataLoader(path)
	if err != nil {
		t.Fatalf("NewDataLoader: %v", err)
	}
	dataLoader = dl

	req := httptest.NewRequest(http.MethodGet, "/tile/u1x0", nil)
	w := httptest.NewRecorder()
	HandleTile(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	ds, err := serialize.Read(resp.Body)
	if err != nil {
		t.Fatalf("serialize.Read: %v", err)
	}
	if ds.Width() != 2 || ds.Height() != 2 {
		t.Errorf("tile size = %dx%d, want 2x2", ds.Width(), ds.Height())
	}
}

func TestHandleTileMissingGeocodeReturns404(t *testing.T) {
	path := writeTestPack(t, "u1x0")
	dl, err := NewDataLoader(path)
	if err != nil {
		t.Fatalf("NewDataLoader: %v", err)
	}
	dataLoader = dl

	req := httptest.NewRequest(http.MethodGet, "/tile/missing", nil)
	w := httptest.NewRecorder()
	HandleTile(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Result().StatusCode)
	}
}

func TestHandleTileEmptyGeocodeReturns400(t *testing.T) {
	path := writeTestPack(t, "u1x0")
	dl, err := NewDataLoader(path)
	if err != nil {
		t.Fatalf("NewDataLoader: %v", err)
	}
	dataLoader = dl

	req := httptest.NewRequest(http.MethodGet, "/tile/", nil)
	w := httptest.NewRecorder()
	HandleTile(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Result().StatusCode)
	}
}
