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

// Package idset accumulates entity IDs during a scan and freezes them into
// a sorted, duplicate-free set that supports binary-search membership
// tests.  The builder-to-set transition is an explicit, one-way state
// change; a Set is never mutated.
package idset

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// growthIncrement trades memory tightness for few reallocations; the
// expected set sizes for a filtered extract are modest relative to the
// full planet.
const growthIncrement = 10_000

// Builder accumulates IDs in insertion order, duplicates and all.
// A Builder is not safe for concurrent use.
type Builder[T constraints.Ordered] struct {
	ids []T
}

// Append adds a single ID.
func (b *Builder[T]) Append(id T) {
	b.grow(1)
	b.ids = append(b.ids, id)
}

// AppendAll adds a batch of IDs, preserving their order.
func (b *Builder[T]) AppendAll(ids ...T) {
	b.grow(len(ids))
	b.ids = append(b.ids, ids...)
}

// Len returns the number of IDs accumulated so far, duplicates included.
func (b *Builder[T]) Len() int {
	return len(b.ids)
}

func (b *Builder[T]) grow(n int) {
	if len(b.ids)+n <= cap(b.ids) {
		return
	}

	next := make([]T, len(b.ids), cap(b.ids)+growthIncrement+n)
	copy(next, b.ids)
	b.ids = next
}

// Finalize sorts ascending, removes duplicates and compacts to exact size.
// Finalizing the same accumulated sequence twice yields equal sets.  The
// Builder may continue to accumulate afterwards; the returned Set is an
// independent snapshot.
func (b *Builder[T]) Finalize() Set[T] {
	ids := make([]T, len(b.ids))
	copy(ids, b.ids)

	slices.Sort(ids)
	ids = slices.Compact(ids)

	return Set[T]{ids: slices.Clip(ids)}
}

// Set is an immutable, strictly ascending sequence of IDs.
type Set[T constraints.Ordered] struct {
	ids []T
}

// Contains performs a binary-search membership test.
func (s Set[T]) Contains(id T) bool {
	_, found := slices.BinarySearch(s.ids, id)

	return found
}

// Len returns the number of distinct IDs in the set.
func (s Set[T]) Len() int {
	return len(s.ids)
}

// Slice returns the underlying ascending sequence.  The caller must treat
// it as read-only.
func (s Set[T]) Slice() []T {
	return s.ids
}
