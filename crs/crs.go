// SPDX-License-Identifier: MIT

// Package crs provides the narrow coordinate-reference-system transform
// capability that satmod's tile engine consumes: constructing a
// projection-to-projection transformer from a source WKT string and a
// destination EPSG code, then mapping coordinates through it.
//
// Only the EPSG codes satmod's geocodes are defined over (4326, 3857) plus
// plain WGS84 are recognized; this mirrors the closed registry in
// pspoerri/geotiff2pmtiles's internal/coord package (ForEPSG), rather than
// a full PROJ-style engine, since satmod never needs to decode an
// arbitrary on-disk projection string.
package crs

import (
	"fmt"
	"math"
	"strings"
)

// TransformError reports a failure to construct or evaluate a CRS
// transform: an unrecognized EPSG code or WKT string, or coordinate
// slices of mismatched lengths.
type TransformError struct {
	Op  string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("crs: %s: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

func newTransformError(op string, err error) error {
	return &TransformError{Op: op, Err: err}
}

// Projection converts between its native CRS and WGS84 longitude/latitude,
// in traditional GIS axis order (longitude/x first).
type Projection interface {
	ToWGS84(x, y float64) (lon, lat float64)
	FromWGS84(lon, lat float64) (x, y float64)
	EPSG() uint32
}

// wgs84Identity is a no-op projection for data already in EPSG:4326.
type wgs84Identity struct{}

func (wgs84Identity) ToWGS84(x, y float64) (float64, float64)   { return x, y }
func (wgs84Identity) FromWGS84(lon, lat float64) (float64, float64) { return lon, lat }
func (wgs84Identity) EPSG() uint32                              { return 4326 }

// webMercator implements EPSG:3857 (Web/Pseudo Mercator).
type webMercator struct{}

const earthCircumference = 40075016.685578496
const originShift = earthCircumference / 2.0

func (webMercator) EPSG() uint32 { return 3857 }

func (webMercator) ToWGS84(x, y float64) (lon, lat float64) {
	lon = (x / originShift) * 180.0
	lat = (y / originShift) * 180.0
	lat = 180.0 / math.Pi * (2.0*math.Atan(math.Exp(lat*math.Pi/180.0)) - math.Pi/2.0)
	return lon, lat
}

func (webMercator) FromWGS84(lon, lat float64) (x, y float64) {
	x = lon * originShift / 180.0
	y = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) / (math.Pi / 180.0)
	y = y * originShift / 180.0
	return x, y
}

// ForEPSG returns the Projection registered for epsg, or a TransformError
// if the code is not one of satmod's supported CRSes.
func ForEPSG(epsg uint32) (Projection, error) {
	switch epsg {
	case 4326:
		return wgs84Identity{}, nil
	case 3857:
		return webMercator{}, nil
	default:
		return nil, newTransformError("ForEPSG", fmt.Errorf("unsupported EPSG code %d", epsg))
	}
}

// ForWKT returns the Projection whose native CRS matches the given WKT
// projection string. Since satmod never decodes arbitrary raster files
// (spec Non-goals), only WKT strings naming the CRSes above are
// recognized; anything else is a TransformError.
func ForWKT(wkt string) (Projection, error) {
	upper := strings.ToUpper(wkt)
	switch {
	case strings.Contains(upper, "3857") || strings.Contains(upper, "PSEUDO-MERCATOR") || strings.Contains(upper, "WEB_MERCATOR") || strings.Contains(upper, "WEB MERCATOR"):
		return webMercator{}, nil
	case strings.Contains(upper, "4326") || strings.Contains(upper, "WGS 84") || strings.Contains(upper, "WGS_1984"):
		return wgs84Identity{}, nil
	default:
		return nil, newTransformError("ForWKT", fmt.Errorf("unrecognized projection WKT %q", wkt))
	}
}

// Transformer converts coordinates from a source CRS to a destination CRS,
// always routing through WGS84 longitude/latitude as the hub projection —
// both source and destination are held in traditional GIS axis order
// (longitude/x first), satisfying spec.md §4.2's axis-order requirement
// regardless of how any underlying library might otherwise order axes.
type Transformer struct {
	src, dst Projection
}

// NewTransformer builds a Transformer from a source WKT projection string
// to a destination EPSG code.
func NewTransformer(srcWKT string, dstEPSG uint32) (*Transformer, error) {
	src, err := ForWKT(srcWKT)
	if err != nil {
		return nil, err
	}
	dst, err := ForEPSG(dstEPSG)
	if err != nil {
		return nil, err
	}
	return &Transformer{src: src, dst: dst}, nil
}

// NewTransformerBetween builds a Transformer directly between two
// Projection values, for callers that already hold parsed projections
// and need not re-parse WKT.
func NewTransformerBetween(src, dst Projection) *Transformer {
	return &Transformer{src: src, dst: dst}
}

// Reverse returns the transformer mapping in the opposite direction.
func (t *Transformer) Reverse() *Transformer {
	return &Transformer{src: t.dst, dst: t.src}
}

// TransformCoord transforms a single (x, y, z) coordinate from the source
// CRS to the destination CRS. z passes through unchanged; satmod never
// performs vertical datum transforms.
func (t *Transformer) TransformCoord(x, y, z float64) (float64, float64, float64, error) {
	xs, ys, zs := []float64{x}, []float64{y}, []float64{z}
	if err := t.TransformCoords(xs, ys, zs); err != nil {
		return 0, 0, 0, err
	}
	return xs[0], ys[0], zs[0], nil
}

// TransformCoords transforms xs/ys/zs in place, amortizing the
// per-call cost of a batch transform over many points.
func (t *Transformer) TransformCoords(xs, ys, zs []float64) error {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return newTransformError("TransformCoords", fmt.Errorf(
			"mismatched slice lengths: %d x, %d y, %d z", len(xs), len(ys), len(zs)))
	}
	for i := range xs {
		lon, lat := t.src.ToWGS84(xs[i], ys[i])
		x, y := t.dst.FromWGS84(lon, lat)
		xs[i], ys[i] = x, y
	}
	return nil
}
