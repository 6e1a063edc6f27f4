// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/orcaman/writerseeker"

	"github.com/hamersaw/satmod/raster"
	"github.com/hamersaw/satmod/serialize"
)

// packMagic identifies a satmod pack file: "SMPK" followed by a format
// version byte.
var packMagic = [5]byte{'S', 'M', 'P', 'K', 1}

// Entry is one tile's worth of data within a Pack: its geocode and the
// dataset it carves, to be compressed and stored under the pack's
// shared codec.
type Entry struct {
	Geocode string
	Dataset *raster.Dataset
}

// Pack writes a sequence of (geocode, dataset) entries into a single
// container: a header naming the compression codec and entry count,
// followed by a fixed-size offset/length table, followed by the
// compressed serialized bytes of each entry in geocode order.
//
// Grounded on cmd/tilerank-builder/raster.go's writeTiff: reserve the
// offset table's space up front, stream entry bodies, then seek back
// and patch the table with the real offsets once they're known. Here
// the "file" is an in-memory github.com/orcaman/writerseeker.WriterSeeker
// buffer rather than an *os.File, since Pack returns the finished pack
// as a byte slice and leaves writing or uploading it (see UploadPack) to
// the caller.
func Pack(entries []Entry, compression Compression) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Geocode < sorted[j].Geocode })

	out := &writerseeker.WriterSeeker{}

	if _, err := out.Write(packMagic[:]); err != nil {
		return nil, fmt.Errorf("store: pack header: %w", err)
	}
	if err := binary.Write(out, binary.BigEndian, uint8(compression)); err != nil {
		return nil, fmt.Errorf("store: pack codec: %w", err)
	}
	if err := binary.Write(out, binary.BigEndian, uint32(len(sorted))); err != nil {
		return nil, fmt.Errorf("store: pack count: %w", err)
	}

	// Reserve the offset table: one (geocode-length-prefixed string,
	// offset uint64, length uint32) slot per entry, geocode bytes
	// included so the table alone is enough to do a lookup without
	// decompressing any bodies.
	tableStart := int64(len(packMagic) + 1 + 4)
	offsets := make([]uint64, len(sorted))
	lengths := make([]uint32, len(sorted))
	for _, e := range sorted {
		if err := binary.Write(out, binary.BigEndian, uint32(len(e.Geocode))); err != nil {
			return nil, fmt.Errorf("store: pack table: %w", err)
		}
		if _, err := out.Write([]byte(e.Geocode)); err != nil {
			return nil, fmt.Errorf("store: pack table: %w", err)
		}
		if err := binary.Write(out, binary.BigEndian, uint64(0)); err != nil {
			return nil, fmt.Errorf("store: pack table: %w", err)
		}
		if err := binary.Write(out, binary.BigEndian, uint32(0)); err != nil {
			return nil, fmt.Errorf("store: pack table: %w", err)
		}
	}

	for i, e := range sorted {
		var buf bytes.Buffer
		if err := serialize.Write(e.Dataset, &buf); err != nil {
			return nil, fmt.Errorf("store: pack serialize %q: %w", e.Geocode, err)
		}
		compressed, err := Compress(compression, buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("store: pack compress %q: %w", e.Geocode, err)
		}

		pos, err := out.Seek(0, 1)
		if err != nil {
			return nil, fmt.Errorf("store: pack seek: %w", err)
		}
		offsets[i] = uint64(pos)
		lengths[i] = uint32(len(compressed))

		if _, err := out.Write(compressed); err != nil {
			return nil, fmt.Errorf("store: pack write entry: %w", err)
		}
	}

	// Patch the offset table now that every entry's position is known.
	slotStart := tableStart
	for i, e := range sorted {
		offsetFieldPos := slotStart + 4 + int64(len(e.Geocode))
		if _, err := out.Seek(offsetFieldPos, 0); err != nil {
			return nil, fmt.Errorf("store: pack patch seek: %w", err)
		}
		if err := binary.Write(out, binary.BigEndian, offsets[i]); err != nil {
			return nil, fmt.Errorf("store: pack patch offset: %w", err)
		}
		if err := binary.Write(out, binary.BigEndian, lengths[i]); err != nil {
			return nil, fmt.Errorf("store: pack patch length: %w", err)
		}
		slotStart = offsetFieldPos + 8 + 4
	}

	buf, err := readAll(out)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func readAll(out *writerseeker.WriterSeeker) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Reader()); err != nil {
		return nil, fmt.Errorf("store: pack finalize: %w", err)
	}
	return buf.Bytes(), nil
}

// packEntryHeader is the in-memory decoded form of one offset-table slot.
type packEntryHeader struct {
	Geocode string
	Offset  uint64
	Length  uint32
}

// Unpack parses a pack produced by Pack and returns its entries in
// on-disk (geocode-sorted) order, decompressing and deserializing each
// dataset.
func Unpack(data []byte) ([]Entry, error) {
	if len(data) < len(packMagic)+1+4 {
		return nil, fmt.Errorf("store: pack truncated header")
	}
	for i, b := range packMagic {
		if data[i] != b {
			return nil, fmt.Errorf("store: pack bad magic")
		}
	}
	pos := len(packMagic)
	compression := Compression(data[pos])
	pos++
	count := binary.BigEndian.Uint32(data[pos : pos+4])
	pos += 4

	headers := make([]packEntryHeader, count)
	for i := range headers {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("store: pack truncated table")
		}
		geocodeLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+geocodeLen+8+4 > len(data) {
			return nil, fmt.Errorf("store: pack truncated table")
		}
		geocode := string(data[pos : pos+geocodeLen])
		pos += geocodeLen
		offset := binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		headers[i] = packEntryHeader{Geocode: geocode, Offset: offset, Length: length}
	}

	entries := make([]Entry, len(headers))
	for i, h := range headers {
		if int(h.Offset)+int(h.Length) > len(data) {
			return nil, fmt.Errorf("store: pack entry %q out of bounds", h.Geocode)
		}
		compressed := data[h.Offset : h.Offset+uint64(h.Length)]
		decompressed, err := Decompress(compression, compressed)
		if err != nil {
			return nil, fmt.Errorf("store: pack decompress %q: %w", h.Geocode, err)
		}
		ds, err := serialize.Read(bytes.NewReader(decompressed))
		if err != nil {
			return nil, fmt.Errorf("store: pack deserialize %q: %w", h.Geocode, err)
		}
		entries[i] = Entry{Geocode: h.Geocode, Dataset: ds}
	}

	return entries, nil
}
