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

// Set is a compact hash set with Add, Contains, Remove and iteration
// operations. It is a Map[E, struct{}] underneath; the zero-width value
// array costs no memory, so Set inherits the Map's compact layout exactly.
//
// The zero value for a Set is not usable; construct with NewSet or
// (re)initialize with Init. A Set is NOT goroutine-safe.
type Set[E comparable] struct {
	m Map[E, struct{}]
}

// NewSet constructs a Set with the specified initial capacity: the set will
// hold initialCapacity elements before growing its element storage. A
// negative capacity panics with ArgumentError.
func NewSet[E comparable](initialCapacity int, options ...Option) *Set[E] {
	s := &Set[E]{}
	s.Init(initialCapacity, options...)
	return s
}

// Init (re)initializes the set in place, discarding any existing elements.
func (s *Set[E]) Init(initialCapacity int, options ...Option) {
	s.m.Init(initialCapacity, options...)
}

// Add inserts elem into the set, reporting whether it was absent.
func (s *Set[E]) Add(elem E) bool {
	return !s.m.put(elem, struct{}{})
}

// AddAll inserts every element of elems into the set.
func (s *Set[E]) AddAll(elems ...E) {
	for _, elem := range elems {
		s.m.put(elem, struct{}{})
	}
}

// Contains reports whether elem is in the set.
func (s *Set[E]) Contains(elem E) bool {
	return s.m.getEntry(elem) != noEntry
}

// Remove removes elem from the set, reporting whether it was present.
func (s *Set[E]) Remove(elem E) bool {
	return s.m.remove(elem)
}

// Len returns the number of elements in the set.
func (s *Set[E]) Len() int {
	return s.m.size
}

// Clear removes all elements. The capacity of the set is retained.
func (s *Set[E]) Clear() {
	s.m.Clear()
}

// Trim reduces memory use to the minimum for the current elements.
func (s *Set[E]) Trim() {
	s.m.Trim()
}

// All calls yield sequentially for each element in the set until yield
// returns false. Iteration is in storage order for plain sets and insertion
// order for linked sets. The set must not be structurally modified during
// iteration; doing so panics with ConcurrentModificationError.
func (s *Set[E]) All(yield func(elem E) bool) {
	s.m.Keys(yield)
}

// Slice returns the elements as a freshly allocated slice, in the same
// order All would yield them.
func (s *Set[E]) Slice() []E {
	elems := make([]E, 0, s.m.size)
	s.All(func(elem E) bool {
		elems = append(elems, elem)
		return true
	})
	return elems
}

// Iter returns a cursor positioned before the first element. Unlike All,
// the cursor supports removing the current element mid-iteration.
func (s *Set[E]) Iter() SetIterator[E] {
	return SetIterator[E]{it: s.m.Iter()}
}

// SetIterator is a cursor over a Set's elements:
//
//	it := s.Iter()
//	for it.Next() {
//		_ = it.Elem()
//	}
type SetIterator[E comparable] struct {
	it Iterator[E, struct{}]
}

// Next advances the cursor, reporting false once the elements are
// exhausted.
func (it *SetIterator[E]) Next() bool {
	return it.it.Next()
}

// Elem returns the current element. It must only be called after a
// successful Next.
func (it *SetIterator[E]) Elem() E {
	return it.it.Key()
}

// Remove deletes the element returned by the last call to Next. It panics
// with StateError when there is no current element.
func (it *SetIterator[E]) Remove() {
	it.it.Remove()
}
