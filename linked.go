// Copyright 2025 The Cockroach Authors
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

package compact

import "fmt"

const (
	// unset marks a vacant link slot.
	unset = int32(-1)
	// endpoint terminates the insertion order list on both ends.
	endpoint = int32(-2)
)

// orderLinks threads a doubly linked list through entry indexes using two
// int32 arrays that parallel the entry storage, recording insertion order.
// The linked map, set and multiset all carry one; plain tables leave the
// arrays nil. The list is maintained across swap-compaction, so iteration
// order never depends on where entries happen to be stored.
type orderLinks struct {
	pred, succ []int32
	first      int32
	last       int32
}

func (l *orderLinks) init(n int) {
	l.pred = newLinks(n)
	l.succ = newLinks(n)
	l.first, l.last = endpoint, endpoint
}

// succeeds makes entry succ follow entry pred in the order list, either
// side of which may be the endpoint sentinel.
func (l *orderLinks) succeeds(pred, succ int32) {
	if pred == endpoint {
		l.first = succ
	} else {
		l.succ[pred] = succ
	}
	if succ == endpoint {
		l.last = pred
	} else {
		l.pred[succ] = pred
	}
}

// toTail appends a freshly inserted entry to the order list.
func (l *orderLinks) toTail(idx int32) {
	l.succeeds(l.last, idx)
	l.succeeds(idx, endpoint)
}

// move repairs the order list after swap-compaction relocated entry src
// into the vacated slot dst: the removed entry's neighbors are joined
// first, and then, when an entry actually moved, its neighbors are
// redirected to the new index.
func (l *orderLinks) move(dst, src int32) {
	l.succeeds(l.pred[dst], l.succ[dst])
	if dst != src {
		l.succeeds(l.pred[src], dst)
		l.succeeds(dst, l.succ[src])
	}
	l.pred[src] = unset
	l.succ[src] = unset
}

func (l *orderLinks) clear(size int) {
	for i := 0; i < size; i++ {
		l.pred[i] = unset
		l.succ[i] = unset
	}
	l.first, l.last = endpoint, endpoint
}

func (l *orderLinks) grow(size, newCapacity int) {
	l.pred = resizeLinks(l.pred, size, newCapacity)
	l.succ = resizeLinks(l.succ, size, newCapacity)
}

// check panics unless the order list visits every live entry exactly once
// with predecessor links mirroring successor links and vacant slots unset.
func (l *orderLinks) check(size int, debugString func() string) {
	seen := make([]bool, size)
	count := 0
	prev := endpoint
	for i := l.first; i != endpoint; i = l.succ[i] {
		if int(i) >= size {
			panic(fmt.Sprintf("invariant failed: order list reaches vacant entry %d\n%s",
				i, debugString()))
		}
		if seen[i] {
			panic(fmt.Sprintf("invariant failed: entry %d ordered twice\n%s",
				i, debugString()))
		}
		seen[i] = true
		count++
		if l.pred[i] != prev {
			panic(fmt.Sprintf("invariant failed: entry %d has predecessor %d, expected %d\n%s",
				i, l.pred[i], prev, debugString()))
		}
		prev = i
	}
	if count != size {
		panic(fmt.Sprintf("invariant failed: order list holds %d entries, size is %d\n%s",
			count, size, debugString()))
	}
	if l.last != prev {
		panic(fmt.Sprintf("invariant failed: last is %d, order list ends at %d\n%s",
			l.last, prev, debugString()))
	}
	for i := size; i < len(l.pred); i++ {
		if l.pred[i] != unset || l.succ[i] != unset {
			panic(fmt.Sprintf("invariant failed: vacant entry %d has links %d/%d\n%s",
				i, l.pred[i], l.succ[i], debugString()))
		}
	}
}

func newLinks(n int) []int32 {
	links := make([]int32, n)
	for i := range links {
		links[i] = unset
	}
	return links
}

func resizeLinks(links []int32, size, newCapacity int) []int32 {
	grown := make([]int32, newCapacity)
	copy(grown, links[:size])
	for i := size; i < newCapacity; i++ {
		grown[i] = unset
	}
	return grown
}

// LinkedMap is a Map that additionally maintains insertion order: All,
// Keys, Values and Iter visit entries in the order their keys were first
// inserted, no matter how removals rearrange the underlying storage.
// Re-putting an existing key updates its value without moving it.
//
// The zero value for a LinkedMap is not usable; construct with NewLinkedMap
// or (re)initialize with Init.
type LinkedMap[K comparable, V any] struct {
	Map[K, V]
}

// NewLinkedMap constructs a LinkedMap with the specified initial capacity.
// A negative capacity panics with ArgumentError.
func NewLinkedMap[K comparable, V any](initialCapacity int, options ...Option) *LinkedMap[K, V] {
	m := &LinkedMap[K, V]{}
	m.Init(initialCapacity, options...)
	return m
}

// Init (re)initializes the map in place, discarding any existing entries.
func (m *LinkedMap[K, V]) Init(initialCapacity int, options ...Option) {
	m.linked = true
	m.Map.Init(initialCapacity, options...)
}

// LinkedSet is a Set that additionally maintains insertion order: All and
// Iter visit elements in the order they were first added. Re-adding an
// existing element never moves it.
//
// The zero value for a LinkedSet is not usable; construct with NewLinkedSet
// or (re)initialize with Init.
type LinkedSet[E comparable] struct {
	Set[E]
}

// NewLinkedSet constructs a LinkedSet with the specified initial capacity.
// A negative capacity panics with ArgumentError.
func NewLinkedSet[E comparable](initialCapacity int, options ...Option) *LinkedSet[E] {
	s := &LinkedSet[E]{}
	s.Init(initialCapacity, options...)
	return s
}

// Init (re)initializes the set in place, discarding any existing elements.
func (s *LinkedSet[E]) Init(initialCapacity int, options ...Option) {
	s.m.linked = true
	s.Set.Init(initialCapacity, options...)
}
