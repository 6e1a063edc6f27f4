// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/lanrat/extsort"
)

// IndexEntry maps one tile's geocode to its byte offset and length
// within a Pack, the unit lanrat/extsort sorts into geocode order.
type IndexEntry struct {
	Geocode string
	Offset  uint64
	Length  uint32
}

// ToBytes serializes an IndexEntry, grounded on
// cmd/tilerank-builder/tile.go's TileCount.ToBytes varint layout.
func (e IndexEntry) ToBytes() []byte {
	buf := make([]byte, 4+len(e.Geocode)+binary.MaxVarintLen64+binary.MaxVarintLen32)
	pos := binary.PutUvarint(buf, uint64(len(e.Geocode)))
	pos += copy(buf[pos:], e.Geocode)
	pos += binary.PutUvarint(buf[pos:], e.Offset)
	pos += binary.PutUvarint(buf[pos:], uint64(e.Length))
	return buf[:pos]
}

// indexEntryFromBytes deserializes an IndexEntry, returned as an
// extsort.SortType since that's the interface lanrat/extsort requires.
func indexEntryFromBytes(b []byte) extsort.SortType {
	geocodeLen, pos := binary.Uvarint(b)
	geocode := string(b[pos : pos+geocodeLen])
	pos += geocodeLen
	offset, n := binary.Uvarint(b[pos:])
	pos += uint64(n)
	length, _ := binary.Uvarint(b[pos:])
	return IndexEntry{Geocode: geocode, Offset: offset, Length: uint32(length)}
}

// indexEntryLess orders IndexEntry values lexicographically by geocode,
// matching a Pack's own on-disk geocode-sorted layout.
func indexEntryLess(a, b extsort.SortType) bool {
	aa := a.(IndexEntry)
	bb := b.(IndexEntry)
	return aa.Geocode < bb.Geocode
}

// BuildIndex externally sorts entries by geocode, grounded on
// cmd/tilerank-builder/raster.go's NewRasterWriter (extsort.New feeding
// a background sort goroutine). Unlike the teacher's streaming use,
// satmod's packs are small enough to sort a whole entry slice per call,
// but the sorter itself is the same external-merge-sort engine so very
// large packs degrade gracefully to disk-backed runs instead of OOMing.
func BuildIndex(entries []IndexEntry) ([]IndexEntry, error) {
	inChan := make(chan extsort.SortType, len(entries))
	config := extsort.DefaultConfig()
	config.NumWorkers = runtime.NumCPU()
	sorter, outChan, errChan := extsort.New(inChan, indexEntryFromBytes, indexEntryLess, config)

	go func() {
		for _, e := range entries {
			inChan <- e
		}
		close(inChan)
	}()
	go sorter.Sort(context.Background())

	sorted := make([]IndexEntry, 0, len(entries))
	for v := range outChan {
		sorted = append(sorted, v.(IndexEntry))
	}
	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("store: build index: %w", err)
	}

	return sorted, nil
}

// Lookup binary-searches a geocode-sorted index for an exact geocode
// match, returning its offset/length and true, or (0, 0, false) if
// absent.
func Lookup(index []IndexEntry, geocode string) (offset uint64, length uint32, found bool) {
	lo, hi := 0, len(index)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case index[mid].Geocode < geocode:
			lo = mid + 1
		case index[mid].Geocode > geocode:
			hi = mid
		default:
			return index[mid].Offset, index[mid].Length, true
		}
	}
	return 0, 0, false
}
