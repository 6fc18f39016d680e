// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package svmap implements a sorted-vector associative container: a
// contiguous slice of (key, value) pairs that supports batch append
// followed by a single sort, then binary-search lookup. Chosen over a
// tree-based map because the workload here is build-once/query-many and
// cache-friendly iteration matters; whitelist files are loaded as a sorted
// byte image and fed straight into one of these.
package svmap

import (
	"fmt"
	"sort"
)

// Pair is one (key, value) entry.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// Map is a sorted-vector map. The zero value (with a Less function set via
// New) is ready to use in the unsorted, append-only state. Lookups require
// the sorted state; calling Find before Sort panics.
type Map[K any, V any] struct {
	less   func(a, b K) bool
	pairs  []Pair[K, V]
	sorted bool
}

// New constructs an empty Map ordered by less.
func New[K any, V any](less func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{less: less}
}

// NewWithCapacity preallocates storage for n entries, for batch builds of
// a known size (e.g. the full contents of a whitelist file).
func NewWithCapacity[K any, V any](less func(a, b K) bool, n int) *Map[K, V] {
	return &Map[K, V]{less: less, pairs: make([]Pair[K, V], 0, n)}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.pairs)
}

// Empty reports whether the map holds no entries.
func (m *Map[K, V]) Empty() bool {
	return len(m.pairs) == 0
}

// Append adds a (key, value) pair in the unsorted, append-only state and
// invalidates any prior sort.
func (m *Map[K, V]) Append(key K, value V) {
	m.pairs = append(m.pairs, Pair[K, V]{Key: key, Value: value})
	m.sorted = false
}

// Sort puts the map into the sorted, binary-searchable state. Stable by
// key, matching the reference container's use of std::sort with a
// key-only comparator (equal keys keep their relative insertion order).
func (m *Map[K, V]) Sort() {
	sort.SliceStable(m.pairs, func(i, j int) bool {
		return m.less(m.pairs[i].Key, m.pairs[j].Key)
	})
	m.sorted = true
}

// Ready reports whether the map is currently in the sorted state.
func (m *Map[K, V]) Ready() bool {
	return m.sorted
}

func (m *Map[K, V]) mustBeSorted() {
	if !m.sorted {
		panic(fmt.Sprintf("svmap: lookup on unsorted map (%d entries)", len(m.pairs)))
	}
}

// search returns the index of the first pair whose key is not less than
// key (lower_bound semantics).
func (m *Map[K, V]) search(key K) int {
	return sort.Search(len(m.pairs), func(i int) bool {
		return !m.less(m.pairs[i].Key, key)
	})
}

// Find returns the value for key and true, or the zero value and false.
// Requires the sorted state.
func (m *Map[K, V]) Find(key K) (V, bool) {
	m.mustBeSorted()
	i := m.search(key)
	if i < len(m.pairs) && !m.less(key, m.pairs[i].Key) {
		return m.pairs[i].Value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present. Requires the sorted state.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Insort performs an O(n) in-order insertion, for the rare case of
// incremental updates to an already-sorted map (e.g. applying a block's
// worth of new unspent outputs one at a time). The map remains sorted
// afterward.
func (m *Map[K, V]) Insort(key K, value V) {
	m.mustBeSorted()
	i := m.search(key)
	m.pairs = append(m.pairs, Pair[K, V]{})
	copy(m.pairs[i+1:], m.pairs[i:])
	m.pairs[i] = Pair[K, V]{Key: key, Value: value}
}

// EraseAt removes the entry at index i, preserving order. Requires the
// sorted state (erasure by index is meaningless otherwise).
func (m *Map[K, V]) EraseAt(i int) {
	m.mustBeSorted()
	m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
}

// Erase removes the entry for key if present, reporting whether it was
// found. Requires the sorted state.
func (m *Map[K, V]) Erase(key K) bool {
	m.mustBeSorted()
	i := m.search(key)
	if i < len(m.pairs) && !m.less(key, m.pairs[i].Key) {
		m.EraseAt(i)
		return true
	}
	return false
}

// Range calls f for every entry in key order. f must not mutate the map.
func (m *Map[K, V]) Range(f func(key K, value V)) {
	for _, p := range m.pairs {
		f(p.Key, p.Value)
	}
}

// At returns the pair at position i, in whatever order the map currently
// holds (insertion order if unsorted, key order if sorted).
func (m *Map[K, V]) At(i int) Pair[K, V] {
	return m.pairs[i]
}
