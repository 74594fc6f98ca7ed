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

// Package feed turns a compressed file into a sequence of text lines
// without stalling the consumer on I/O or decompression latency.  A
// producer goroutine decompresses fixed-size blocks ahead of the consumer;
// the hand-off is a bounded pipeline of two recycled buffers, so at most
// one block is ever read ahead of the line being parsed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/destel/rill"
)

// BlockSize is the producer's read granularity, sized to the maximum
// block a bzip2 compressor emits so that one read drains one compression
// block.
const BlockSize = 900_000

// numBuffers is the depth of the producer/consumer pipeline.
const numBuffers = 2

// ErrUnknownFormat reports a compression format the feed cannot open.
var ErrUnknownFormat = errors.New("feed: unknown compression format")

// Wrapper interposes a reader between the opened file and the
// decompressor, e.g. a progress-bar proxy.  The returned ReadCloser owns
// the file.
type Wrapper func(f *os.File) (io.ReadCloser, error)

type options struct {
	blockSize int
	wrapper   Wrapper
}

// Option configures how the feed is opened.
type Option func(*options)

// WithBlockSize overrides the producer's block size.  Intended for tests;
// any positive value produces correct results.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithWrapper interposes a reader between the file and the decompressor.
func WithWrapper(w Wrapper) Option {
	return func(o *options) {
		o.wrapper = w
	}
}

// Feed delivers the lines of a compressed stream in exact decompressed
// byte order.  A Feed is owned by a single consumer goroutine; only Close
// may be called from elsewhere.
type Feed struct {
	src    io.Closer
	blocks chan rill.Try[[]byte]
	rec    chan []byte
	cancel context.CancelFunc

	block []byte // block currently being drained
	off   int
	line  []byte // scratch for lines spanning blocks
	err   error  // terminal condition, io.EOF included
}

// Open opens a compressed file and starts the producer.  The compression
// format is inferred from the file extension.
func Open(path string, opts ...Option) (*Feed, error) {
	cfg := options{blockSize: BlockSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: unable to open %s: %w", path, err)
	}

	var src io.ReadCloser = f
	if cfg.wrapper != nil {
		if src, err = cfg.wrapper(f); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("feed: unable to wrap %s: %w", path, err)
		}
	}

	dec, err := newDecompressor(DetectFormat(path), src)
	if err != nil {
		_ = src.Close()

		return nil, fmt.Errorf("feed: unable to open %s: %w", path, err)
	}

	return start(src, dec, cfg.blockSize), nil
}

// OpenReader starts a feed over an already-open stream of the given
// format.  The feed takes ownership of rdr for the purposes of Close.
func OpenReader(rdr io.Reader, format Format, opts ...Option) (*Feed, error) {
	cfg := options{blockSize: BlockSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec, err := newDecompressor(format, rdr)
	if err != nil {
		return nil, err
	}

	var src io.Closer = io.NopCloser(nil)
	if c, ok := rdr.(io.Closer); ok {
		src = c
	}

	return start(src, dec, cfg.blockSize), nil
}

func start(src io.Closer, dec io.Reader, blockSize int) *Feed {
	ctx, cancel := context.WithCancel(context.Background())

	fd := &Feed{
		src:    src,
		blocks: make(chan rill.Try[[]byte], 1),
		rec:    make(chan []byte, numBuffers),
		cancel: cancel,
	}

	// the two slots of the double buffer
	for i := 0; i < numBuffers; i++ {
		fd.rec <- make([]byte, blockSize)
	}

	go fd.produce(ctx, dec)

	return fd
}

// produce fills recycled buffers from the decompressor and hands them to
// the consumer.  Both the wait for a drained buffer and the wait to
// deliver a filled one are interruptible by cancellation, so Close never
// leaves the producer parked.
func (fd *Feed) produce(ctx context.Context, dec io.Reader) {
	defer close(fd.blocks)

	for {
		var buf []byte
		select {
		case <-ctx.Done():
			return
		case buf = <-fd.rec:
		}

		n, err := io.ReadFull(dec, buf)
		if n > 0 {
			select {
			case <-ctx.Done():
				return
			case fd.blocks <- rill.Try[[]byte]{Value: buf[:n]}:
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return
			}

			select {
			case <-ctx.Done():
			case fd.blocks <- rill.Try[[]byte]{Error: fmt.Errorf("feed: read error: %w", err)}:
			}

			return
		}
	}
}

// ReadLine returns the next line with trailing CR/LF stripped.  Blank
// lines are skipped.  The end of the stream is reported as io.EOF; any
// other error is fatal for the stream.
func (fd *Feed) ReadLine() (string, error) {
	fd.line = fd.line[:0]

	for {
		if fd.off >= len(fd.block) {
			if fd.block != nil {
				// hand the drained slot back to the producer
				fd.rec <- fd.block[:cap(fd.block)]
				fd.block = nil
			}

			if fd.err != nil {
				if errors.Is(fd.err, io.EOF) && len(fd.line) > 0 {
					line := string(fd.line)
					fd.line = fd.line[:0]

					return line, nil
				}

				return "", fd.err
			}

			t, ok := <-fd.blocks
			if !ok {
				fd.err = io.EOF

				continue
			}

			if t.Error != nil {
				fd.err = t.Error

				continue
			}

			fd.block, fd.off = t.Value, 0
		}

		c := fd.block[fd.off]
		fd.off++

		if c == '\r' || c == '\n' {
			// a leading terminator is the tail of the previous
			// line, or a blank line; either way, skip it
			if len(fd.line) == 0 {
				continue
			}

			return string(fd.line), nil
		}

		fd.line = append(fd.line, c)
	}
}

// Close stops the producer, waits for it to exit and releases the
// underlying resources.  Safe to call after a read error and safe to call
// more than once.
func (fd *Feed) Close() error {
	fd.cancel()

	// Draining until the channel closes doubles as joining the producer:
	// a producer blocked on delivery wakes on either the drain or the
	// cancellation.
	for range fd.blocks {
	}

	if fd.src == nil {
		return nil
	}

	src := fd.src
	fd.src = nil

	if err := src.Close(); err != nil {
		return fmt.Errorf("feed: close: %w", err)
	}

	return nil
}
