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

package idset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalizeSortsAndDeduplicates(t *testing.T) {
	var b Builder[uint64]

	b.AppendAll(5, 3, 9, 3, 1, 5, 5)
	b.Append(7)

	s := b.Finalize()

	assert.Equal(t, []uint64{1, 3, 5, 7, 9}, s.Slice())
	assert.Equal(t, 5, s.Len())
}

func TestFinalizeStrictlyAscending(t *testing.T) {
	var b Builder[uint64]

	b.AppendAll(42, 42, 17, 0, 17, 99)

	ids := b.Finalize().Slice()
	for i := 0; i+1 < len(ids); i++ {
		assert.Less(t, ids[i], ids[i+1])
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	var b Builder[uint64]

	b.AppendAll(8, 2, 2, 6)

	first := b.Finalize()
	second := b.Finalize()

	assert.Equal(t, first.Slice(), second.Slice())
}

func TestContains(t *testing.T) {
	var b Builder[uint64]

	b.AppendAll(10, 20, 30)

	s := b.Finalize()

	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(20))
	assert.True(t, s.Contains(30))
	assert.False(t, s.Contains(15))
	assert.False(t, s.Contains(0))
	assert.False(t, s.Contains(31))
}

func TestEmptySet(t *testing.T) {
	var b Builder[uint64]

	s := b.Finalize()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(1))
}

func TestBuilderKeepsAccumulatingAfterFinalize(t *testing.T) {
	var b Builder[uint64]

	b.Append(2)
	first := b.Finalize()

	b.Append(1)
	second := b.Finalize()

	assert.Equal(t, []uint64{2}, first.Slice())
	assert.Equal(t, []uint64{1, 2}, second.Slice())
}

func TestBuilderGrowth(t *testing.T) {
	var b Builder[uint64]

	for i := uint64(0); i < 25_000; i++ {
		b.Append(i)
	}

	assert.Equal(t, 25_000, b.Len())
	assert.Equal(t, 25_000, b.Finalize().Len())
}
