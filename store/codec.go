// SPDX-License-Identifier: MIT

// Package store implements the on-disk and object-store plumbing that
// surrounds satmod's in-memory tile engine: pluggable compression of a
// serialized dataset, a multi-tile container format with a patched
// offset table, a sorted geocode index over that container, and S3
// upload/download of finished packs.
//
// None of this is part of the core split/merge algorithm spec.md
// describes (§1's Non-goals exclude on-disk layouts); it exists to give
// the teacher's full compression/storage dependency surface a concrete
// home, the way cmd/tilerank-builder/raster.go gives klauspost/compress
// and lanrat/extsort a home around the teacher's own raster writer.
package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression names the codec used to compress a pack entry's
// serialized dataset bytes.
type Compression uint8

const (
	None Compression = iota
	Zstd
	Brotli
	Bzip2
	Xz
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Brotli:
		return "brotli"
	case Bzip2:
		return "bzip2"
	case Xz:
		return "xz"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Compress compresses src with the named codec.
func Compress(c Compression, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch c {
	case None:
		return src, nil
	case Zstd:
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("store: zstd writer: %w", err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("store: zstd compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("store: zstd close: %w", err)
		}
	case Brotli:
		w := brotli.NewWriter(&buf)
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("store: brotli compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("store: brotli close: %w", err)
		}
	case Bzip2:
		w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return nil, fmt.Errorf("store: bzip2 writer: %w", err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("store: bzip2 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("store: bzip2 close: %w", err)
		}
	case Xz:
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("store: xz writer: %w", err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("store: xz compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("store: xz close: %w", err)
		}
	default:
		return nil, fmt.Errorf("store: unknown compression %v", c)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(c Compression, src []byte) ([]byte, error) {
	var r io.Reader
	switch c {
	case None:
		return src, nil
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("store: zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(src))
	case Bzip2:
		br, err := bzip2.NewReader(bytes.NewReader(src), &bzip2.ReaderConfig{})
		if err != nil {
			return nil, fmt.Errorf("store: bzip2 reader: %w", err)
		}
		defer br.Close()
		r = br
	case Xz:
		xr, err := xz.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("store: xz reader: %w", err)
		}
		r = xr
	default:
		return nil, fmt.Errorf("store: unknown compression %v", c)
	}
	return io.ReadAll(r)
}
