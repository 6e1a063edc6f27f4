// SPDX-License-Identifier: MIT
package geocode

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGeohashGetIntervals(t *testing.T) {
	g := NewGeohash()
	cases := []struct {
		precision  uint
		x, y       float64
	}{
		{5, 0.0439453125, 0.0439453125},
		{6, 0.010986328125, 0.0054931640625},
	}
	for _, c := range cases {
		x, y := g.GetIntervals(c.precision)
		if !almostEqual(x, c.x) || !almostEqual(y, c.y) {
			t.Errorf("GetIntervals(%d) = (%v, %v), want (%v, %v)", c.precision, x, y, c.x, c.y)
		}
	}
}

func TestGeohashEncode(t *testing.T) {
	g := NewGeohash()
	cases := []struct {
		x, y      float64
		precision uint
		want      string
	}{
		{10.001389, 53.565278, 4, "u1x0"},
		{-105.078056, 40.559167, 6, "9xjq8z"},
		{-88.4, 44.266667, 8, "dpc5u6t0"},
	}
	for _, c := range cases {
		got, err := g.Encode(c.x, c.y, c.precision)
		if err != nil {
			t.Fatalf("Encode(%v, %v, %d): %v", c.x, c.y, c.precision, err)
		}
		if got != c.want {
			t.Errorf("Encode(%v, %v, %d) = %q, want %q", c.x, c.y, c.precision, got, c.want)
		}
		if len(got) != int(c.precision) {
			t.Errorf("Encode length = %d, want %d", len(got), c.precision)
		}
	}
}

func TestGeohashEncodeOutOfRange(t *testing.T) {
	g := NewGeohash()
	if _, err := g.Encode(200, 0, 4); err == nil {
		t.Fatal("expected ErrOutOfRange for out-of-bounds longitude")
	}
	if _, err := g.Encode(0, -100, 4); err == nil {
		t.Fatal("expected ErrOutOfRange for out-of-bounds latitude")
	}
}

func TestGeohashRoundTrip(t *testing.T) {
	g := NewGeohash()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		x := rng.Float64()*358 - 179
		y := rng.Float64()*178 - 89
		precision := uint(1 + rng.Intn(10))

		code, err := g.Encode(x, y, precision)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(code) != int(precision) {
			t.Fatalf("len(code) = %d, want %d", len(code), precision)
		}

		minX, maxX, minY, maxY, err := g.Decode(code)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if x < minX || x > maxX || y < minY || y > maxY {
			t.Errorf("decoded bounds (%v,%v,%v,%v) do not contain (%v,%v)", minX, maxX, minY, maxY, x, y)
		}
	}
}

func TestQuadTileGetIntervals(t *testing.T) {
	g := NewQuadTile()
	for p := uint(1); p <= 10; p++ {
		x, y := g.GetIntervals(p)
		want := 40075016.685578496 / math.Pow(2, float64(p))
		if !almostEqual(x, want) || !almostEqual(y, want) {
			t.Errorf("GetIntervals(%d) = (%v, %v), want (%v, %v)", p, x, y, want, want)
		}
	}
}

func TestQuadTileEncodeLengthAndRoundTrip(t *testing.T) {
	g := NewQuadTile()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		x := rng.Float64()*2*webMercatorHalfCircumference - webMercatorHalfCircumference
		y := rng.Float64()*2*webMercatorHalfCircumference - webMercatorHalfCircumference
		precision := uint(1 + rng.Intn(10))

		code, err := g.Encode(x, y, precision)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(code) != int(precision) {
			t.Fatalf("len(code) = %d, want %d", len(code), precision)
		}

		minX, maxX, minY, maxY, err := g.Decode(code)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if x < minX || x > maxX || y < minY || y > maxY {
			t.Errorf("decoded bounds do not contain (%v,%v)", x, y)
		}
	}
}

func TestGetEPSGCode(t *testing.T) {
	if NewGeohash().GetEPSGCode() != 4326 {
		t.Error("geohash epsg should be 4326")
	}
	if NewQuadTile().GetEPSGCode() != 3857 {
		t.Error("quadtile epsg should be 3857")
	}
}

func BenchmarkGeohashEncode(b *testing.B) {
	g := NewGeohash()
	for n := 0; n < b.N; n++ {
		_, _ = g.Encode(-88.4, 44.266667, 9)
	}
}
