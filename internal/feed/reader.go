// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package feed

import (
	"compress/bzip2"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Format identifies the compression applied to the underlying stream.
type Format int

const (
	// Raw reads the stream without decompression.
	Raw Format = iota

	// Bzip2 is the conventional planet dump compression.
	Bzip2

	// Gzip decompresses gzip streams.
	Gzip

	// Zstd decompresses zstandard streams.
	Zstd

	// Xz decompresses xz streams.
	Xz

	// Lz4 decompresses lz4 streams.
	Lz4
)

// DetectFormat infers the compression format from the file extension.
// Unrecognized extensions are read raw.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2", ".bzip2":
		return Bzip2
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".xz":
		return Xz
	case ".lz4":
		return Lz4
	default:
		return Raw
	}
}

// newDecompressor wraps rdr in the reader for the format.  All of the
// supported readers consume concatenated multi-stream files transparently,
// so a stream boundary mid-file never surfaces as an end of data.
func newDecompressor(format Format, rdr io.Reader) (io.Reader, error) {
	switch format {
	case Raw:
		return rdr, nil
	case Bzip2:
		return bzip2.NewReader(rdr), nil
	case Gzip:
		zr, err := gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}

		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}

		return zr, nil
	case Xz:
		xr, err := xz.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}

		return xr, nil
	case Lz4:
		return lz4.NewReader(rdr), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}
