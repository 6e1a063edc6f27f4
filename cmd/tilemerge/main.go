// Tool for merging a pack of geocode-addressed tiles back into a single
// georeferenced raster.
//
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hamersaw/satmod/raster"
	"github.com/hamersaw/satmod/serialize"
	"github.com/hamersaw/satmod/store"
	"github.com/hamersaw/satmod/tile"
)

var logger *log.Logger

func main() {
	input := flag.String("input", "", "path to the pack file to merge")
	out := flag.String("out", "merged.smr", "path to the merged raster being written")
	prefix := flag.String("prefix", "", "only merge tiles whose geocode starts with this prefix; empty means all tiles")
	flag.Parse()

	logger = log.New(os.Stderr, "tilemerge: ", log.Ltime)

	if *input == "" {
		logger.Fatal("missing required -input flag")
	}

	if err := Run(*input, *out, *prefix); err != nil {
		logger.Fatal(err)
	}
}

// Run merges every tile in the pack at inputPath whose geocode starts
// with prefix into a single raster written to outPath.
func Run(inputPath, outPath, prefix string) error {
	packed, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("tilemerge: %w", err)
	}

	entries, err := store.Unpack(packed)
	if err != nil {
		return fmt.Errorf("tilemerge: %w", err)
	}

	datasets := make([]*raster.Dataset, 0, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.Geocode, prefix) {
			continue
		}
		datasets = append(datasets, e.Dataset)
	}
	logger.Printf("merging %d of %d tiles matching prefix %q", len(datasets), len(entries), prefix)

	merged, err := tile.Merge(datasets)
	if err != nil {
		return fmt.Errorf("tilemerge: %w", err)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("tilemerge: %w", err)
	}
	defer outFile.Close()

	if err := serialize.Write(merged, outFile); err != nil {
		return fmt.Errorf("tilemerge: %w", err)
	}
	return nil
}
