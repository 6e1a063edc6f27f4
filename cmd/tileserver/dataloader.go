// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hamersaw/satmod/raster"
	"github.com/hamersaw/satmod/store"
)

// DataLoader serves an in-memory snapshot of a pack file, periodically
// refreshed from disk. Grounded on qrank-webserver/dataloader.go's
// mutex-protected reload pattern, generalized from a single JSON stats
// file to a geocode-keyed map of decoded tiles.
type DataLoader struct {
	// Path to the pack file being watched. Does not change while the
	// server is running.
	Path string

	mutex   sync.RWMutex
	tiles   map[string]*raster.Dataset
	modTime time.Time
}

// NewDataLoader loads the pack at path and returns a DataLoader serving it.
func NewDataLoader(path string) (*DataLoader, error) {
	dl := &DataLoader{Path: path}
	if err := dl.Reload(); err != nil {
		return nil, err
	}
	return dl, nil
}

// Get returns the tile for geocode, and whether it was found.
func (dl *DataLoader) Get(geocode string) (*raster.Dataset, bool) {
	dl.mutex.RLock()
	defer dl.mutex.RUnlock()
	ds, ok := dl.tiles[geocode]
	return ds, ok
}

// TileCount returns the number of tiles currently being served.
func (dl *DataLoader) TileCount() int {
	dl.mutex.RLock()
	defer dl.mutex.RUnlock()
	return len(dl.tiles)
}

// LastModified returns the modification time of the pack file as of the
// last successful Reload.
func (dl *DataLoader) LastModified() time.Time {
	dl.mutex.RLock()
	defer dl.mutex.RUnlock()
	return dl.modTime
}

// Reload re-reads the pack file from disk. If its modification time has
// not changed since the last successful Reload, it is a no-op.
func (dl *DataLoader) Reload() error {
	info, err := os.Stat(dl.Path)
	if err != nil {
		return fmt.Errorf("dataloader: %w", err)
	}

	dl.mutex.RLock()
	unchanged := dl.modTime.Equal(info.ModTime())
	dl.mutex.RUnlock()
	if unchanged {
		return nil
	}

	data, err := os.ReadFile(dl.Path)
	if err != nil {
		return fmt.Errorf("dataloader: %w", err)
	}
	entries, err := store.Unpack(data)
	if err != nil {
		return fmt.Errorf("dataloader: %w", err)
	}

	tiles := make(map[string]*raster.Dataset, len(entries))
	for _, e := range entries {
		tiles[e.Geocode] = e.Dataset
	}

	dl.mutex.Lock()
	defer dl.mutex.Unlock()
	dl.tiles = tiles
	dl.modTime = info.ModTime()
	return nil
}
