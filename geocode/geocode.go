// SPDX-License-Identifier: MIT

// Package geocode implements base-N hierarchical geocodes over a fixed
// native coordinate reference system: base-32 geohash over WGS84, and
// base-4 quadtile over Web Mercator.
package geocode

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrOutOfRange is returned by Encode when a coordinate falls outside a
// geocode's native bounds.
var ErrOutOfRange = errors.New("geocode: coordinate out of range")

// Variant selects a geocode family.
type Variant int

const (
	Geohash Variant = iota
	QuadTile
)

func (v Variant) String() string {
	switch v {
	case Geohash:
		return "geohash"
	case QuadTile:
		return "quadtile"
	default:
		return fmt.Sprintf("geocode.Variant(%d)", int(v))
	}
}

// geohashAlphabet is the standard base-32 geohash alphabet, MSB-first index
// 0..31.
const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// quadTileAlphabet maps a 2-bit (x MSB, y LSB) index to its character. The
// original source carried two conflicting alphabets across revisions; this
// is the one fixed as authoritative by the worked scenario in spec.md §8.
const quadTileAlphabet = "2031"

const webMercatorHalfCircumference = 20037508.342789248

// Geocode is a value describing one geocode family's native bounds and
// alphabet. The zero value is not valid; use NewGeohash() or NewQuadTile().
type Geocode struct {
	variant     Variant
	minX, maxX  float64
	minY, maxY  float64
	alphabet    string
	bitsPerChar uint
	epsg        uint32
}

// NewGeohash returns the base-32 geohash geocode over WGS84.
func NewGeohash() Geocode {
	return Geocode{
		variant:     Geohash,
		minX:        -180, maxX: 180,
		minY: -90, maxY: 90,
		alphabet:    geohashAlphabet,
		bitsPerChar: 5,
		epsg:        4326,
	}
}

// NewQuadTile returns the base-4 quadtile geocode over Web Mercator.
func NewQuadTile() Geocode {
	return Geocode{
		variant:     QuadTile,
		minX:        -webMercatorHalfCircumference, maxX: webMercatorHalfCircumference,
		minY: -webMercatorHalfCircumference, maxY: webMercatorHalfCircumference,
		alphabet:    quadTileAlphabet,
		bitsPerChar: 2,
		epsg:        3857,
	}
}

// Variant reports which geocode family this value is.
func (g Geocode) Variant() Variant { return g.variant }

// GetEPSGCode returns the EPSG code of this geocode's native CRS.
func (g Geocode) GetEPSGCode() uint32 { return g.epsg }

// Bounds returns the geocode's native bounds (min_x, max_x, min_y, max_y).
func (g Geocode) Bounds() (minX, maxX, minY, maxY float64) {
	return g.minX, g.maxX, g.minY, g.maxY
}

// GetIntervals returns the (x_interval, y_interval) cell size, in native
// CRS units, of a single cell at the given precision.
func (g Geocode) GetIntervals(precision uint) (xInterval, yInterval float64) {
	switch g.variant {
	case Geohash:
		bitsX := 2*precision + uint(math.Ceil(float64(precision)/2.0))
		bitsY := 2*precision + uint(math.Floor(float64(precision)/2.0))
		return 360.0 / math.Pow(2, float64(bitsX)), 180.0 / math.Pow(2, float64(bitsY))
	case QuadTile:
		interval := (2 * webMercatorHalfCircumference) / math.Pow(2, float64(precision))
		return interval, interval
	default:
		panic("geocode: unreachable variant")
	}
}

// Encode encodes (x, y) into a base-N string of exactly `precision`
// characters. Returns ErrOutOfRange if (x, y) lies outside the geocode's
// native bounds.
func (g Geocode) Encode(x, y float64, precision uint) (string, error) {
	minX, maxX, minY, maxY := g.minX, g.maxX, g.minY, g.maxY
	if x < minX || x > maxX || y < minY || y > maxY {
		return "", fmt.Errorf("%w: (%g, %g) outside [%g, %g] x [%g, %g]",
			ErrOutOfRange, x, y, minX, maxX, minY, maxY)
	}

	var sb strings.Builder
	sb.Grow(int(precision))

	xTurn := true // bits alternate between x-split and y-split, starting with x
	for c := uint(0); c < precision; c++ {
		index := 0
		for b := uint(0); b < g.bitsPerChar; b++ {
			index <<= 1
			if xTurn {
				mid := (minX + maxX) / 2
				if x > mid {
					index |= 1
					minX = mid
				} else {
					maxX = mid
				}
			} else {
				mid := (minY + maxY) / 2
				if y > mid {
					index |= 1
					minY = mid
				} else {
					maxY = mid
				}
			}
			xTurn = !xTurn
		}
		sb.WriteByte(g.alphabet[index])
	}

	return sb.String(), nil
}

// Decode returns the (min_x, max_x, min_y, max_y) bounds of the cell named
// by code.
func (g Geocode) Decode(code string) (minX, maxX, minY, maxY float64, err error) {
	minX, maxX, minY, maxY = g.minX, g.maxX, g.minY, g.maxY

	xTurn := true
	for i := 0; i < len(code); i++ {
		index := strings.IndexByte(g.alphabet, code[i])
		if index < 0 {
			return 0, 0, 0, 0, fmt.Errorf("geocode: invalid character %q in %q", code[i], code)
		}

		for b := int(g.bitsPerChar) - 1; b >= 0; b-- {
			bit := (index >> uint(b)) & 1
			if xTurn {
				mid := (minX + maxX) / 2
				if bit == 1 {
					minX = mid
				} else {
					maxX = mid
				}
			} else {
				mid := (minY + maxY) / 2
				if bit == 1 {
					minY = mid
				} else {
					maxY = mid
				}
			}
			xTurn = !xTurn
		}
	}

	return minX, maxX, minY, maxY, nil
}
