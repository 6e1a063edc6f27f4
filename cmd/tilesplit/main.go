// Tool for splitting a single georeferenced raster into a pack of
// geocode-addressed tiles.
//
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hamersaw/satmod/coordinate"
	"github.com/hamersaw/satmod/geocode"
	"github.com/hamersaw/satmod/serialize"
	"github.com/hamersaw/satmod/store"
	"github.com/hamersaw/satmod/tile"
)

var logger *log.Logger

func main() {
	input := flag.String("input", "", "path to the source raster, in satmod's serialize format")
	out := flag.String("out", "tiles.pack", "path to the pack file being written")
	variant := flag.String("variant", "geohash", "geocode family: geohash or quadtile")
	precision := flag.Uint("precision", 5, "geocode precision, in characters")
	compression := flag.String("compression", "zstd", "pack compression: none, zstd, brotli, bzip2, or xz")
	flag.Parse()

	logger = log.New(os.Stderr, "tilesplit: ", log.Ltime)

	if *input == "" {
		logger.Fatal("missing required -input flag")
	}

	if err := Run(*input, *out, *variant, *precision, *compression); err != nil {
		logger.Fatal(err)
	}
}

// Run splits the dataset at inputPath into a pack of tiles named by the
// geocode of each tile's window, written to outPath.
func Run(inputPath, outPath, variant string, precision uint, compressionName string) error {
	g, err := geocodeForVariant(variant)
	if err != nil {
		return err
	}
	compression, err := parseCompression(compressionName)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("tilesplit: %w", err)
	}
	defer in.Close()

	src, err := serialize.Read(in)
	if err != nil {
		return fmt.Errorf("tilesplit: %w", err)
	}

	targetEPSG := g.GetEPSGCode()
	minCX, maxCX, minCY, maxCY, err := coordinate.GetBounds(src, targetEPSG)
	if err != nil {
		return fmt.Errorf("tilesplit: %w", err)
	}

	xInterval, yInterval := g.GetIntervals(precision)
	windows := coordinate.GetWindows(minCX, maxCX, minCY, maxCY, xInterval, yInterval)
	logger.Printf("splitting %d windows at precision %d", len(windows), precision)

	tasks := make(chan coordinate.Window, len(windows))
	for _, w := range windows {
		tasks <- w
	}
	close(tasks)

	entryChan := make(chan store.Entry, len(windows))
	group := new(errgroup.Group)
	for i := 0; i < runtime.NumCPU(); i++ {
		group.Go(func() error {
			for w := range tasks {
				ds, err := tile.Split(src, w.MinCX, w.MaxCX, w.MinCY, w.MaxCY, targetEPSG)
				if err != nil {
					return fmt.Errorf("tilesplit: split window [%g,%g]x[%g,%g]: %w", w.MinCX, w.MaxCX, w.MinCY, w.MaxCY, err)
				}
				if ds == nil {
					continue
				}
				code, err := g.Encode((w.MinCX+w.MaxCX)/2, (w.MinCY+w.MaxCY)/2, precision)
				if err != nil {
					return fmt.Errorf("tilesplit: encode window center: %w", err)
				}
				entryChan <- store.Entry{Geocode: code, Dataset: ds}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	close(entryChan)

	entries := make([]store.Entry, 0, len(windows))
	for e := range entryChan {
		entries = append(entries, e)
	}
	logger.Printf("produced %d non-empty tiles out of %d windows", len(entries), len(windows))

	packed, err := store.Pack(entries, compression)
	if err != nil {
		return fmt.Errorf("tilesplit: %w", err)
	}
	if err := os.WriteFile(outPath, packed, 0o644); err != nil {
		return fmt.Errorf("tilesplit: %w", err)
	}
	return nil
}

func geocodeForVariant(variant string) (geocode.Geocode, error) {
	switch variant {
	case "geohash":
		return geocode.NewGeohash(), nil
	case "quadtile":
		return geocode.NewQuadTile(), nil
	default:
		return geocode.Geocode{}, fmt.Errorf("tilesplit: unknown geocode variant %q", variant)
	}
}

func parseCompression(name string) (store.Compression, error) {
	switch name {
	case "none":
		return store.None, nil
	case "zstd":
		return store.Zstd, nil
	case "brotli":
		return store.Brotli, nil
	case "bzip2":
		return store.Bzip2, nil
	case "xz":
		return store.Xz, nil
	default:
		return 0, fmt.Errorf("tilesplit: unknown compression %q", name)
	}
}
