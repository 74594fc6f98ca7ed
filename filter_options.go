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

package osmx

import (
	"m4o.io/osmx/internal/feed"
)

// DefaultGenerator is the generator attribute written on the root element.
const DefaultGenerator = "osmx"

// filterOptions provides optional configuration parameters for Filter
// construction.
type filterOptions struct {
	generator string       // generator attribute on the emitted root element
	blockSize int          // decompression block size
	wrapper   feed.Wrapper // interposed between input file and decompressor
}

// Option configures how we set up the filter.
type Option func(*filterOptions)

// WithGenerator lets you set the generator attribute written on the root
// element of the output document.
func WithGenerator(g string) Option {
	return func(o *filterOptions) {
		o.generator = g
	}
}

// WithBlockSize lets you set the decompression block size used by each
// pass's feed.
func WithBlockSize(n int) Option {
	return func(o *filterOptions) {
		o.blockSize = n
	}
}

// WithInputWrapper interposes a reader between the input file and the
// decompressor on every pass, e.g. a progress bar.
func WithInputWrapper(w feed.Wrapper) Option {
	return func(o *filterOptions) {
		o.wrapper = w
	}
}

// defaultFilterConfig provides a default configuration for filters.
var defaultFilterConfig = filterOptions{
	generator: DefaultGenerator,
	blockSize: feed.BlockSize,
}

func (o *filterOptions) feedOptions() []feed.Option {
	opts := []feed.Option{feed.WithBlockSize(o.blockSize)}
	if o.wrapper != nil {
		opts = append(opts, feed.WithWrapper(o.wrapper))
	}

	return opts
}
