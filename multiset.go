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

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Multiset metadata words pack the index of the next entry in the same
// bucket chain in the high 32 bits and the smeared hash in the low 32 bits,
// the inverse of the map layout. unsetMeta is all ones and so marks vacant
// slots in both layouts.

func packCountMeta(hash uint32, next int32) uint64 {
	return uint64(uint32(next))<<32 | uint64(hash)
}

func packCountMetaNext(meta uint64, next int32) uint64 {
	return uint64(uint32(next))<<32 | meta&uint64(math.MaxUint32)
}

func countMetaHash(meta uint64) uint32 { return uint32(meta) }

func countMetaNext(meta uint64) int32 { return int32(uint32(meta >> 32)) }

// Multiset is a compact hash multiset: a set that tracks an occurrence
// count per element. Distinct elements are stored once, in the same dense
// parallel-array layout as Map, with a third array holding 32-bit counts.
// The total occurrence count is tracked in 64 bits and may exceed the
// capacity of int32 across elements; any single element's count is capped
// at MaxInt32.
//
// The zero value for a Multiset is not usable; construct with NewMultiset
// or (re)initialize with Init. A Multiset is NOT goroutine-safe.
type Multiset[E comparable] struct {
	hash hashFn
	seed uintptr
	// buckets holds the head entry index of every hash chain, or noEntry.
	buckets []int32
	// meta, elems and counts hold the distinct entries densely in
	// [0, distinct). Counts of live entries are always positive.
	meta   []uint64
	elems  []E
	counts []int32
	links  orderLinks
	linked bool

	distinct int
	total    int64

	threshold  int
	loadFactor float64
	modCount   uint16
}

// NewMultiset constructs a Multiset with capacity for the specified number
// of distinct elements. A negative capacity panics with ArgumentError.
func NewMultiset[E comparable](initialCapacity int, options ...Option) *Multiset[E] {
	m := &Multiset[E]{}
	m.Init(initialCapacity, options...)
	return m
}

// Init (re)initializes the multiset in place, discarding any existing
// entries.
func (m *Multiset[E]) Init(initialCapacity int, options ...Option) {
	if initialCapacity < 0 {
		panic(argErrorf("initial capacity must be non-negative: %d", initialCapacity))
	}
	cfg := makeTableConfig(options)
	m.hash = cfg.hash
	if m.hash == nil {
		m.hash = getRuntimeHasher[E]()
	}
	m.seed = uintptr(fastrand64())
	m.loadFactor = cfg.loadFactor

	n := max(2, initialCapacity)
	nb := tableSizeFor(n)
	m.buckets = newBuckets(nb)
	m.threshold = max(1, int(float64(nb)*m.loadFactor))
	m.meta = newMeta(n)
	m.elems = make([]E, n)
	m.counts = make([]int32, n)
	m.distinct = 0
	m.total = 0
	m.links = orderLinks{first: endpoint, last: endpoint}
	if m.linked {
		m.links.init(n)
	}
	m.modCount++
	if invariants {
		m.checkInvariants()
	}
}

// Count returns the number of occurrences of elem, or 0 if elem is not
// present.
func (m *Multiset[E]) Count(elem E) int {
	if i := m.getEntry(elem); i != noEntry {
		return int(m.counts[i])
	}
	return 0
}

// Contains reports whether at least one occurrence of elem is present.
func (m *Multiset[E]) Contains(elem E) bool {
	return m.getEntry(elem) != noEntry
}

// Len returns the total number of occurrences across all elements. The
// total is tracked in 64 bits; on 32-bit platforms Len saturates at MaxInt.
func (m *Multiset[E]) Len() int {
	if m.total > math.MaxInt {
		return math.MaxInt
	}
	return int(m.total)
}

// Distinct returns the number of distinct elements.
func (m *Multiset[E]) Distinct() int {
	return m.distinct
}

// Add adds one occurrence of elem, returning the count before the addition.
func (m *Multiset[E]) Add(elem E) int {
	return m.AddN(elem, 1)
}

// AddAll adds one occurrence of every element of elems.
func (m *Multiset[E]) AddAll(elems ...E) {
	for _, elem := range elems {
		m.AddN(elem, 1)
	}
}

// AddN adds n occurrences of elem, returning the count before the addition.
// AddN(elem, 0) reads the current count. A negative n panics with
// ArgumentError, as does an addition that would push elem's count beyond
// MaxInt32.
func (m *Multiset[E]) AddN(elem E, n int) int {
	if n < 0 {
		panic(argErrorf("occurrences must be non-negative: %d", n))
	}
	if n == 0 {
		return m.Count(elem)
	}
	h := smear(m.hash(noescape(unsafe.Pointer(&elem)), m.seed))
	if i := m.getEntryForHash(elem, h); i != noEntry {
		old := int64(m.counts[i])
		if old+int64(n) > math.MaxInt32 {
			panic(argErrorf("too many occurrences: %d", old+int64(n)))
		}
		m.counts[i] = int32(old + int64(n))
		m.total += int64(n)
		return int(old)
	}
	if n > math.MaxInt32 {
		panic(argErrorf("too many occurrences: %d", n))
	}
	m.insertEntry(elem, int32(n), h)
	m.total += int64(n)
	if invariants {
		m.checkInvariants()
	}
	return 0
}

// Remove removes one occurrence of elem, returning the count before the
// removal. Removing the last occurrence removes the element.
func (m *Multiset[E]) Remove(elem E) int {
	return m.RemoveN(elem, 1)
}

// RemoveN removes up to n occurrences of elem, returning the count before
// the removal; removing at least the current count removes the element
// entirely. RemoveN(elem, 0) reads the current count. A negative n panics
// with ArgumentError.
func (m *Multiset[E]) RemoveN(elem E, n int) int {
	if n < 0 {
		panic(argErrorf("occurrences must be non-negative: %d", n))
	}
	if n == 0 {
		return m.Count(elem)
	}
	i := m.getEntry(elem)
	if i == noEntry {
		return 0
	}
	old := int(m.counts[i])
	if old > n {
		m.counts[i] = int32(old - n)
		m.total -= int64(n)
	} else {
		m.removeEntryAt(i)
		m.total -= int64(old)
	}
	if invariants {
		m.checkInvariants()
	}
	return old
}

// RemoveAll removes every occurrence of elem, returning the count before
// the removal.
func (m *Multiset[E]) RemoveAll(elem E) int {
	i := m.getEntry(elem)
	if i == noEntry {
		return 0
	}
	old := int(m.counts[i])
	m.removeEntryAt(i)
	m.total -= int64(old)
	if invariants {
		m.checkInvariants()
	}
	return old
}

// SetCount sets the count of elem to n, inserting or removing the element
// as needed, and returns the count before the call. A negative n panics
// with ArgumentError, as does an n beyond MaxInt32.
func (m *Multiset[E]) SetCount(elem E, n int) int {
	if n < 0 {
		panic(argErrorf("count must be non-negative: %d", n))
	}
	if n > math.MaxInt32 {
		panic(argErrorf("too many occurrences: %d", n))
	}
	h := smear(m.hash(noescape(unsafe.Pointer(&elem)), m.seed))
	i := m.getEntryForHash(elem, h)
	if i == noEntry {
		if n == 0 {
			return 0
		}
		m.insertEntry(elem, int32(n), h)
		m.total += int64(n)
		if invariants {
			m.checkInvariants()
		}
		return 0
	}
	old := int(m.counts[i])
	if n == 0 {
		m.removeEntryAt(i)
		m.total -= int64(old)
	} else {
		m.counts[i] = int32(n)
		m.total += int64(n - old)
	}
	if invariants {
		m.checkInvariants()
	}
	return old
}

// SetCountIf sets the count of elem to newCount only if its current count
// is exactly oldCount (0 meaning absent), reporting whether the change was
// applied. Negative counts panic with ArgumentError, as does a newCount
// beyond MaxInt32.
func (m *Multiset[E]) SetCountIf(elem E, oldCount, newCount int) bool {
	if oldCount < 0 {
		panic(argErrorf("old count must be non-negative: %d", oldCount))
	}
	if newCount < 0 {
		panic(argErrorf("new count must be non-negative: %d", newCount))
	}
	if newCount > math.MaxInt32 {
		panic(argErrorf("too many occurrences: %d", newCount))
	}
	h := smear(m.hash(noescape(unsafe.Pointer(&elem)), m.seed))
	i := m.getEntryForHash(elem, h)
	if i == noEntry {
		if oldCount != 0 {
			return false
		}
		if newCount > 0 {
			m.insertEntry(elem, int32(newCount), h)
			m.total += int64(newCount)
			if invariants {
				m.checkInvariants()
			}
		}
		return true
	}
	if int(m.counts[i]) != oldCount {
		return false
	}
	if newCount == 0 {
		m.removeEntryAt(i)
		m.total -= int64(oldCount)
	} else {
		m.counts[i] = int32(newCount)
		m.total += int64(newCount - oldCount)
	}
	if invariants {
		m.checkInvariants()
	}
	return true
}

// getEntry returns the entry index holding elem, or noEntry.
func (m *Multiset[E]) getEntry(elem E) int32 {
	h := smear(m.hash(noescape(unsafe.Pointer(&elem)), m.seed))
	return m.getEntryForHash(elem, h)
}

func (m *Multiset[E]) getEntryForHash(elem E, h uint32) int32 {
	meta := makeUnsafeSlice(m.meta)
	elems := makeUnsafeSlice(m.elems)
	for i := m.buckets[h&uint32(len(m.buckets)-1)]; i != noEntry; {
		w := *meta.At(uintptr(i))
		if countMetaHash(w) == h && *elems.At(uintptr(i)) == elem {
			return i
		}
		i = countMetaNext(w)
	}
	return noEntry
}

// insertEntry appends an entry known not to be present at index distinct
// and head-splices it into its bucket chain. The caller adjusts total.
func (m *Multiset[E]) insertEntry(elem E, count int32, h uint32) {
	idx := m.distinct
	if idx == maxEntries {
		panic(overflowErrorf("table cannot hold more than %d entries", maxEntries))
	}
	m.resizeMeMaybe(idx + 1)
	b := h & uint32(len(m.buckets)-1)
	if debug {
		fmt.Printf("add: inserting entry %d into bucket %d (head %d)\n",
			idx, b, m.buckets[b])
	}
	m.meta[idx] = packCountMeta(h, m.buckets[b])
	m.buckets[b] = int32(idx)
	m.elems[idx] = elem
	m.counts[idx] = count
	if m.linked {
		m.links.toTail(int32(idx))
	}
	m.distinct++
	m.modCount++
	if m.distinct > m.threshold {
		m.resizeTable(2 * len(m.buckets))
	}
}

// removeEntryAt unlinks entry idx from its bucket chain and swap-compacts
// the entry arrays. The caller adjusts total.
func (m *Multiset[E]) removeEntryAt(idx int32) {
	h := countMetaHash(m.meta[idx])
	b := h & uint32(len(m.buckets)-1)
	if i := m.buckets[b]; i == idx {
		m.buckets[b] = countMetaNext(m.meta[idx])
	} else {
		for {
			w := m.meta[i]
			next := countMetaNext(w)
			if next == idx {
				m.meta[i] = packCountMetaNext(w, countMetaNext(m.meta[idx]))
				break
			}
			i = next
		}
	}
	m.moveEntry(idx)
	m.distinct--
	m.modCount++
}

// moveEntry fills the slot vacated at dst by moving the entry with the
// highest index into it and repairs the bucket chain that referenced the
// moved index. Called before distinct is decremented.
func (m *Multiset[E]) moveEntry(dst int32) {
	src := int32(m.distinct - 1)
	var zero E
	if dst < src {
		m.elems[dst] = m.elems[src]
		m.counts[dst] = m.counts[src]
		m.elems[src] = zero
		m.counts[src] = 0
		w := m.meta[src]
		m.meta[dst] = w
		m.meta[src] = unsetMeta

		b := countMetaHash(w) & uint32(len(m.buckets)-1)
		if i := m.buckets[b]; i == src {
			m.buckets[b] = dst
		} else {
			for {
				wi := m.meta[i]
				next := countMetaNext(wi)
				if next == src {
					m.meta[i] = packCountMetaNext(wi, dst)
					break
				}
				i = next
			}
		}
	} else {
		m.elems[dst] = zero
		m.counts[dst] = 0
		m.meta[dst] = unsetMeta
	}
	if m.linked {
		m.links.move(dst, src)
	}
}

// resizeMeMaybe grows entry storage when newSize entries would not fit.
func (m *Multiset[E]) resizeMeMaybe(newSize int) {
	if n := len(m.elems); newSize > n {
		m.resizeEntries(n + n>>1 + 1)
	}
}

func (m *Multiset[E]) resizeEntries(newCapacity int) {
	meta := newMeta(newCapacity)
	copy(meta, m.meta[:m.distinct])
	elems := make([]E, newCapacity)
	copy(elems, m.elems[:m.distinct])
	counts := make([]int32, newCapacity)
	copy(counts, m.counts[:m.distinct])
	m.meta, m.elems, m.counts = meta, elems, counts
	if m.linked {
		m.links.grow(m.distinct, newCapacity)
	}
}

// resizeTable rebuilds the bucket array at newCapacity, a power of two, and
// rethreads every chain. Entry storage and entry indexes are untouched.
func (m *Multiset[E]) resizeTable(newCapacity int) {
	if len(m.buckets) >= maxTableSize {
		m.threshold = math.MaxInt
		return
	}
	buckets := newBuckets(newCapacity)
	mask := uint32(newCapacity - 1)
	for i := 0; i < m.distinct; i++ {
		h := countMetaHash(m.meta[i])
		b := h & mask
		m.meta[i] = packCountMeta(h, buckets[b])
		buckets[b] = int32(i)
	}
	m.threshold = max(1, int(float64(newCapacity)*m.loadFactor))
	m.buckets = buckets
}

// Clear removes all entries. The capacity of the multiset is retained.
func (m *Multiset[E]) Clear() {
	m.modCount++
	clear(m.elems[:m.distinct])
	clear(m.counts[:m.distinct])
	for i := 0; i < m.distinct; i++ {
		m.meta[i] = unsetMeta
	}
	for i := range m.buckets {
		m.buckets[i] = noEntry
	}
	if m.linked {
		m.links.clear(m.distinct)
	}
	m.distinct = 0
	m.total = 0
	if invariants {
		m.checkInvariants()
	}
}

// Trim reduces memory use to the minimum for the current entries. Entry
// indexes are unchanged, so iterators and views survive a Trim.
func (m *Multiset[E]) Trim() {
	if m.distinct < len(m.elems) {
		m.resizeEntries(max(2, m.distinct))
	}
	minTable := max(1, highestOneBit(int(float64(m.distinct)/m.loadFactor)))
	if minTable < maxTableSize && float64(m.distinct)/float64(minTable) > m.loadFactor {
		minTable <<= 1
	}
	if minTable < len(m.buckets) {
		m.resizeTable(minTable)
	}
	if invariants {
		m.checkInvariants()
	}
}

// All calls yield sequentially for each distinct element and its count
// until yield returns false. Iteration is in storage order for plain
// multisets and first-insertion order for linked multisets. The multiset
// must not be structurally modified by yield or concurrently with All;
// doing so panics with ConcurrentModificationError.
func (m *Multiset[E]) All(yield func(elem E, count int) bool) {
	expected := m.modCount
	if m.linked {
		for i := m.links.first; i != endpoint; i = m.links.succ[i] {
			if !yield(m.elems[i], int(m.counts[i])) {
				return
			}
			m.checkMod(expected)
		}
		return
	}
	for i := 0; i < m.distinct; i++ {
		if !yield(m.elems[i], int(m.counts[i])) {
			return
		}
		m.checkMod(expected)
	}
}

// Elements calls yield for each distinct element until yield returns false,
// in the same order and under the same rules as All.
func (m *Multiset[E]) Elements(yield func(elem E) bool) {
	m.All(func(elem E, _ int) bool {
		return yield(elem)
	})
}

func (m *Multiset[E]) checkMod(expected uint16) {
	if m.modCount != expected {
		panic(concurrentModError())
	}
}

// Iter returns a cursor over the distinct entries positioned before the
// first entry. Unlike All, the cursor supports removing the current entry
// mid-iteration. Any structural modification not performed through the
// cursor invalidates it; its next Next panics with
// ConcurrentModificationError.
func (m *Multiset[E]) Iter() MultisetIterator[E] {
	it := MultisetIterator[E]{m: m, next: 0, cur: noEntry, expected: m.modCount}
	if m.linked {
		it.next = m.links.first
	}
	return it
}

// MultisetIterator is a cursor over a Multiset's distinct entries:
//
//	it := m.Iter()
//	for it.Next() {
//		_, _ = it.Element(), it.Count()
//	}
type MultisetIterator[E comparable] struct {
	m        *Multiset[E]
	next     int32
	cur      int32
	expected uint16
}

// Next advances the cursor, reporting false once the entries are exhausted.
func (it *MultisetIterator[E]) Next() bool {
	it.m.checkMod(it.expected)
	if it.m.linked {
		if it.next == endpoint {
			return false
		}
		it.cur = it.next
		it.next = it.m.links.succ[it.cur]
		return true
	}
	if int(it.next) >= it.m.distinct {
		return false
	}
	it.cur = it.next
	it.next++
	return true
}

// Element returns the element of the current entry. It must only be called
// after a successful Next.
func (it *MultisetIterator[E]) Element() E {
	return it.m.elems[it.cur]
}

// Count returns the occurrence count of the current entry. It must only be
// called after a successful Next.
func (it *MultisetIterator[E]) Count() int {
	return int(it.m.counts[it.cur])
}

// Remove deletes all occurrences of the current entry and resyncs the
// cursor with the swap-compaction performed by the removal. It panics with
// StateError when there is no current entry.
func (it *MultisetIterator[E]) Remove() {
	m := it.m
	m.checkMod(it.expected)
	if it.cur == noEntry {
		panic(stateErrorf("Remove called without a current entry"))
	}
	if m.linked {
		m.RemoveAll(m.elems[it.cur])
		if int(it.next) == m.distinct {
			// The next entry in order was the one that just got moved into
			// the removed slot.
			it.next = it.cur
		}
	} else {
		// Step back so that the entry moved into the removed slot is still
		// visited.
		it.next--
		m.RemoveAll(m.elems[it.cur])
	}
	it.cur = noEntry
	it.expected = m.modCount
}

// Entry returns a detached, self-healing view of the current entry. It must
// only be called after a successful Next.
func (it *MultisetIterator[E]) Entry() *MultisetEntry[E] {
	m := it.m
	return &MultisetEntry[E]{
		m:        m,
		elem:     m.elems[it.cur],
		hash:     countMetaHash(m.meta[it.cur]),
		index:    it.cur,
		expected: it.expected,
	}
}

// MultisetEntry is a self-healing view of a single multiset entry. The view
// tracks its entry by element: when swap-compaction moves the entry to
// another index, or the entry is removed outright, the view re-resolves
// itself on the next access instead of becoming invalid.
type MultisetEntry[E comparable] struct {
	m        *Multiset[E]
	elem     E
	hash     uint32
	index    int32
	expected uint16
}

// Element returns the entry's element.
func (e *MultisetEntry[E]) Element() E {
	return e.elem
}

// Count returns the entry's current occurrence count, or 0 if the element
// is no longer present.
func (e *MultisetEntry[E]) Count() int {
	e.updateIndex()
	if e.index == noEntry {
		return 0
	}
	return int(e.m.counts[e.index])
}

// updateIndex re-resolves the entry's index when the table may have changed
// underneath the view.
func (e *MultisetEntry[E]) updateIndex() {
	m := e.m
	if e.expected == m.modCount && e.index != noEntry &&
		int(e.index) < m.distinct && m.elems[e.index] == e.elem {
		return
	}
	e.index = m.getEntryForHash(e.elem, e.hash)
	e.expected = m.modCount
}

func (m *Multiset[E]) checkInvariants() {
	if invariants {
		if m.distinct > len(m.elems) {
			panic(fmt.Sprintf("invariant failed: %d distinct entries exceed capacity %d\n%s",
				m.distinct, len(m.elems), m.debugString()))
		}
		if n := len(m.buckets); n == 0 || n&(n-1) != 0 {
			panic(fmt.Sprintf("invariant failed: bucket count %d is not a power of two\n%s",
				n, m.debugString()))
		}

		// Every live entry carries the hash of its element, resolves to its
		// own index through its bucket chain, and has a positive count. The
		// counts sum to total.
		var total int64
		for i := 0; i < m.distinct; i++ {
			h := countMetaHash(m.meta[i])
			if want := smear(m.hash(noescape(unsafe.Pointer(&m.elems[i])), m.seed)); h != want {
				panic(fmt.Sprintf("invariant failed: entry %d: stored hash %08x, expected %08x\n%s",
					i, h, want, m.debugString()))
			}
			if j := m.getEntryForHash(m.elems[i], h); j != int32(i) {
				panic(fmt.Sprintf("invariant failed: entry %d (%v) resolves to %d\n%s",
					i, m.elems[i], j, m.debugString()))
			}
			if m.counts[i] <= 0 {
				panic(fmt.Sprintf("invariant failed: entry %d (%v) has count %d\n%s",
					i, m.elems[i], m.counts[i], m.debugString()))
			}
			total += int64(m.counts[i])
		}
		if total != m.total {
			panic(fmt.Sprintf("invariant failed: counts sum to %d, total is %d\n%s",
				total, m.total, m.debugString()))
		}

		// Vacant slots stay scrubbed.
		for i := m.distinct; i < len(m.meta); i++ {
			if m.meta[i] != unsetMeta {
				panic(fmt.Sprintf("invariant failed: vacant entry %d has metadata %016x\n%s",
					i, m.meta[i], m.debugString()))
			}
			if m.counts[i] != 0 {
				panic(fmt.Sprintf("invariant failed: vacant entry %d has count %d\n%s",
					i, m.counts[i], m.debugString()))
			}
		}

		// The bucket chains partition [0, distinct).
		seen := make([]bool, m.distinct)
		count := 0
		for b, head := range m.buckets {
			for i := head; i != noEntry; i = countMetaNext(m.meta[i]) {
				if int(i) >= m.distinct {
					panic(fmt.Sprintf("invariant failed: bucket %d chain reaches vacant entry %d\n%s",
						b, i, m.debugString()))
				}
				if seen[i] {
					panic(fmt.Sprintf("invariant failed: entry %d chained twice\n%s",
						i, m.debugString()))
				}
				seen[i] = true
				count++
				if got := countMetaHash(m.meta[i]) & uint32(len(m.buckets)-1); got != uint32(b) {
					panic(fmt.Sprintf("invariant failed: entry %d chained in bucket %d, expected %d\n%s",
						i, b, got, m.debugString()))
				}
			}
		}
		if count != m.distinct {
			panic(fmt.Sprintf("invariant failed: chains hold %d entries, distinct is %d\n%s",
				count, m.distinct, m.debugString()))
		}

		if m.linked {
			m.links.check(m.distinct, m.debugString)
		}
	}
}

func (m *Multiset[E]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "distinct=%d  total=%d  capacity=%d  buckets=%d  threshold=%d\n",
		m.distinct, m.total, len(m.elems), len(m.buckets), m.threshold)
	for b, head := range m.buckets {
		if head == noEntry {
			continue
		}
		fmt.Fprintf(&buf, "  bucket %4d:", b)
		for i := head; i != noEntry; i = countMetaNext(m.meta[i]) {
			fmt.Fprintf(&buf, " %d=%v x%d", i, m.elems[i], m.counts[i])
		}
		buf.WriteString("\n")
	}
	if m.linked {
		buf.WriteString("  order:")
		for i := m.links.first; i != endpoint; i = m.links.succ[i] {
			fmt.Fprintf(&buf, " %d", i)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// LinkedMultiset is a Multiset that additionally maintains insertion order:
// All, Elements and Iter visit distinct elements in the order they were
// first added, regardless of later count changes.
//
// The zero value for a LinkedMultiset is not usable; construct with
// NewLinkedMultiset or (re)initialize with Init.
type LinkedMultiset[E comparable] struct {
	Multiset[E]
}

// NewLinkedMultiset constructs a LinkedMultiset with capacity for the
// specified number of distinct elements. A negative capacity panics with
// ArgumentError.
func NewLinkedMultiset[E comparable](initialCapacity int, options ...Option) *LinkedMultiset[E] {
	m := &LinkedMultiset[E]{}
	m.Init(initialCapacity, options...)
	return m
}

// Init (re)initializes the multiset in place, discarding any existing
// entries.
func (m *LinkedMultiset[E]) Init(initialCapacity int, options ...Option) {
	m.linked = true
	m.Multiset.Init(initialCapacity, options...)
}
