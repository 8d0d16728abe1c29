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

// Package compact provides hash tables that keep their entries in flat
// parallel arrays instead of pointer-linked nodes: Map and Set, linked
// variants that preserve insertion order (LinkedMap, LinkedSet), counting
// tables (Multiset, LinkedMultiset), and an immutable FrozenSet that picks
// the narrowest index encoding that fits its contents.
//
// # Layout
//
// The mutable tables share one storage discipline. Entries live in parallel
// arrays (keys, values, and one packed metadata word per entry) indexed
// contiguously from 0: the first entry inserted occupies index 0, the next
// index 1, and so on, with no holes. Collision chains are threaded through
// those indexes rather than through pointers. A bucket array, always a power
// of two in length, holds the index of the first entry of each chain (or -1
// for an empty bucket), and each entry's metadata word packs the smeared
// hash of its key together with the index of the next entry in the same
// chain. For a map holding "ale", "rye" and "gin" where "ale" and "gin"
// collide in bucket 2:
//
//	buckets: [ -1 |  1 |  2 | -1 ]
//	keys:    [ ale | rye | gin ]
//	vals:    [ ... | ... | ... ]
//	meta:    [ hash(ale)|next=-1 | hash(rye)|next=-1 | hash(gin)|next=0 ]
//
// Compared to a node-per-entry table the per-entry overhead is a single
// uint64 plus an amortized share of the bucket array, iteration walks memory
// linearly, and the garbage collector sees a handful of slices instead of a
// web of nodes.
//
// # Removal
//
// Removal keeps the entry arrays dense: the vacated slot is refilled by
// moving the entry with the highest index into it (swap-compaction), and the
// bucket chain that referenced the moved index is repaired. This disturbs
// iteration order in the plain tables; the linked variants maintain
// predecessor/successor index arrays so that iteration order stays the
// insertion order no matter how entries move.
//
// # Growth
//
// Entry arrays grow by half when another entry would not fit. The bucket
// array doubles when the entry count crosses its load factor (1.0 unless
// overridden with WithLoadFactor) and the chains are rethreaded in a single
// pass over the metadata array. Trim performs the inverse, shrinking both to
// the minimum for the current size.
//
// # Iteration and views
//
// Iteration is fail-fast: every structural change bumps a 16-bit generation
// counter and iterators panic with ConcurrentModificationError when they
// observe a foreign change. Removing the current entry through
// Iterator.Remove is supported and accounts for the swap-compaction. Entry
// views (Entry, MultisetEntry) are self-healing rather than fail-fast: they
// re-resolve their entry by key when the generation moves, so holding one
// across mutations is safe.
//
// The tables are NOT goroutine-safe. The generation counter is a misuse
// detector, not a synchronization mechanism.
package compact

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

const (
	// defaultLoadFactor is the entries-per-bucket ratio tolerated before the
	// bucket array doubles.
	defaultLoadFactor = 1.0

	// maxEntries is the largest number of entries a table can hold. Entry
	// indexes must stay representable in the 32-bit next field of a
	// metadata word.
	maxEntries = math.MaxInt32

	// noEntry marks an empty bucket and terminates bucket chains.
	noEntry = int32(-1)

	// unsetMeta fills the metadata of vacant entry slots, mirroring a chain
	// terminator so that a walk into vacant territory stops immediately.
	unsetMeta = ^uint64(0)

	debug = false
)

// Metadata words pack the smeared hash of the key in the high 32 bits and
// the index of the next entry in the same bucket chain in the low 32 bits.
// The counting tables in multiset.go use the inverted layout; each table
// keeps its layout for its lifetime.

func packMeta(hash uint32, next int32) uint64 {
	return uint64(hash)<<32 | uint64(uint32(next))
}

func packMetaNext(meta uint64, next int32) uint64 {
	return meta&^uint64(math.MaxUint32) | uint64(uint32(next))
}

func metaHash(meta uint64) uint32 { return uint32(meta >> 32) }

func metaNext(meta uint64) int32 { return int32(uint32(meta)) }

// Map is a compact hash map with Put, Get, Delete, and iteration
// operations. By default a Map[K,V] uses the same hash function as Go's
// builtin map[K]V, though a different hash function can be specified using
// the WithHash option.
//
// The zero value for a Map is not usable; construct with NewMap or
// (re)initialize with Init. A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	// The hash function applied to keys of type K, extracted from the Go
	// runtime's implementation of map[K]struct{} unless overridden.
	hash hashFn
	seed uintptr
	// buckets holds the head entry index of every hash chain, or noEntry.
	// The length is always a power of two so that chain selection is a
	// mask of the smeared hash.
	buckets []int32
	// meta, keys and vals hold the entries densely: live entries occupy
	// [0, size) with no holes. meta packs the smeared hash and the next
	// chain index per entry; slots at and beyond size hold unsetMeta.
	meta []uint64
	keys []K
	vals []V
	// links threads the insertion order through entry indexes for linked
	// tables; its arrays are nil otherwise. See linked.go.
	links  orderLinks
	linked bool

	size      int
	threshold int
	// loadFactor is the entries-per-bucket ratio at which the bucket array
	// doubles.
	loadFactor float64
	// modCount increments on every structural change. Iterators fail fast
	// against it; entry views use it to decide when to re-resolve their
	// index. Detection is best effort: the counter may wrap.
	modCount uint16
}

// NewMap constructs a Map with the specified initial capacity: the map will
// hold initialCapacity entries before growing its entry storage. If
// initialCapacity is 0 the map starts out with zero capacity and grows on
// the first insert. A negative capacity panics with ArgumentError.
func NewMap[K comparable, V any](initialCapacity int, options ...Option) *Map[K, V] {
	m := &Map[K, V]{}
	m.Init(initialCapacity, options...)
	return m
}

// Init (re)initializes the map in place, discarding any existing entries.
// It allows a Map to be reused without reallocating the struct and is the
// reconstruction hook for callers that rebuild a table from externally
// stored entries via sequential Puts.
func (m *Map[K, V]) Init(initialCapacity int, options ...Option) {
	if initialCapacity < 0 {
		panic(argErrorf("initial capacity must be non-negative: %d", initialCapacity))
	}
	cfg := makeTableConfig(options)
	m.hash = cfg.hash
	if m.hash == nil {
		m.hash = getRuntimeHasher[K]()
	}
	m.seed = uintptr(fastrand64())
	m.loadFactor = cfg.loadFactor

	nb := tableSizeFor(initialCapacity)
	m.buckets = newBuckets(nb)
	m.threshold = max(1, int(float64(nb)*m.loadFactor))
	m.meta = newMeta(initialCapacity)
	m.keys = make([]K, initialCapacity)
	m.vals = make([]V, initialCapacity)
	m.size = 0
	m.links = orderLinks{first: endpoint, last: endpoint}
	if m.linked {
		m.links.init(initialCapacity)
	}
	m.modCount++
	if invariants {
		m.checkInvariants()
	}
}

// Get returns the value for key and whether the key is present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i := m.getEntry(key); i != noEntry {
		return m.vals[i], true
	}
	var v V
	return v, false
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.getEntry(key) != noEntry
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Put inserts an entry into the map, overwriting the value if an entry with
// the same key already exists. In linked tables re-putting a key updates
// the value without changing the key's position in the iteration order.
func (m *Map[K, V]) Put(key K, value V) {
	m.put(key, value)
}

// put reports whether the key was already present.
func (m *Map[K, V]) put(key K, value V) bool {
	h := smear(m.hash(noescape(unsafe.Pointer(&key)), m.seed))
	if i := m.getEntryForHash(key, h); i != noEntry {
		if debug {
			fmt.Printf("put(%v): updating entry %d\n", key, i)
		}
		m.vals[i] = value
		return true
	}
	m.insertEntry(key, value, h)
	if invariants {
		m.checkInvariants()
	}
	return false
}

// insertEntry appends an entry known not to be present at index size and
// head-splices it into its bucket chain.
func (m *Map[K, V]) insertEntry(key K, value V, h uint32) {
	idx := m.size
	if idx == maxEntries {
		panic(overflowErrorf("table cannot hold more than %d entries", maxEntries))
	}
	m.resizeMeMaybe(idx + 1)
	b := h & uint32(len(m.buckets)-1)
	if debug {
		fmt.Printf("put: inserting entry %d into bucket %d (head %d)\n",
			idx, b, m.buckets[b])
	}
	m.meta[idx] = packMeta(h, m.buckets[b])
	m.buckets[b] = int32(idx)
	m.keys[idx] = key
	m.vals[idx] = value
	if m.linked {
		m.links.toTail(int32(idx))
	}
	m.size++
	m.modCount++
	if idx >= m.threshold {
		m.resizeTable(2 * len(m.buckets))
	}
}

// Delete removes the entry for key. It is a noop to delete a non-existent
// key.
func (m *Map[K, V]) Delete(key K) {
	m.remove(key)
}

// remove reports whether the key was present.
func (m *Map[K, V]) remove(key K) bool {
	h := smear(m.hash(noescape(unsafe.Pointer(&key)), m.seed))
	b := h & uint32(len(m.buckets)-1)
	prev := noEntry
	for i := m.buckets[b]; i != noEntry; {
		w := m.meta[i]
		next := metaNext(w)
		if metaHash(w) == h && m.keys[i] == key {
			if debug {
				fmt.Printf("delete(%v): unlinking entry %d from bucket %d\n", key, i, b)
			}
			if prev == noEntry {
				m.buckets[b] = next
			} else {
				m.meta[prev] = packMetaNext(m.meta[prev], next)
			}
			m.moveEntry(i)
			m.size--
			m.modCount++
			if invariants {
				m.checkInvariants()
			}
			return true
		}
		prev = i
		i = next
	}
	return false
}

// getEntry returns the entry index holding key, or noEntry.
func (m *Map[K, V]) getEntry(key K) int32 {
	h := smear(m.hash(noescape(unsafe.Pointer(&key)), m.seed))
	return m.getEntryForHash(key, h)
}

// getEntryForHash walks key's bucket chain comparing the stored hash before
// the key itself; equal smeared hashes from distinct keys are resolved by
// the equality check.
func (m *Map[K, V]) getEntryForHash(key K, h uint32) int32 {
	meta := makeUnsafeSlice(m.meta)
	keys := makeUnsafeSlice(m.keys)
	for i := m.buckets[h&uint32(len(m.buckets)-1)]; i != noEntry; {
		w := *meta.At(uintptr(i))
		if metaHash(w) == h && *keys.At(uintptr(i)) == key {
			return i
		}
		i = metaNext(w)
	}
	return noEntry
}

// moveEntry fills the slot vacated at dst by moving the entry with the
// highest index into it, keeping live entries contiguous, and repairs the
// bucket chain that referenced the moved index. Called before size is
// decremented.
func (m *Map[K, V]) moveEntry(dst int32) {
	src := int32(m.size - 1)
	var zeroK K
	var zeroV V
	if dst < src {
		if debug {
			fmt.Printf("delete: moving entry %d into vacated slot %d\n", src, dst)
		}
		m.keys[dst] = m.keys[src]
		m.vals[dst] = m.vals[src]
		m.keys[src] = zeroK
		m.vals[src] = zeroV
		w := m.meta[src]
		m.meta[dst] = w
		m.meta[src] = unsetMeta

		// The chain that contained src must now reference dst.
		b := metaHash(w) & uint32(len(m.buckets)-1)
		if i := m.buckets[b]; i == src {
			m.buckets[b] = dst
		} else {
			for {
				wi := m.meta[i]
				next := metaNext(wi)
				if next == src {
					m.meta[i] = packMetaNext(wi, dst)
					break
				}
				i = next
			}
		}
	} else {
		m.keys[dst] = zeroK
		m.vals[dst] = zeroV
		m.meta[dst] = unsetMeta
	}
	if m.linked {
		m.links.move(dst, src)
	}
}

// resizeMeMaybe grows entry storage by half again when newSize entries
// would not fit.
func (m *Map[K, V]) resizeMeMaybe(newSize int) {
	if n := len(m.keys); newSize > n {
		m.resizeEntries(n + max(1, n>>1))
	}
}

// resizeEntries reallocates entry storage at newCapacity, which must be at
// least size.
func (m *Map[K, V]) resizeEntries(newCapacity int) {
	if debug {
		fmt.Printf("resizeEntries: %d -> %d\n", len(m.keys), newCapacity)
	}
	meta := newMeta(newCapacity)
	copy(meta, m.meta[:m.size])
	keys := make([]K, newCapacity)
	copy(keys, m.keys[:m.size])
	vals := make([]V, newCapacity)
	copy(vals, m.vals[:m.size])
	m.meta, m.keys, m.vals = meta, keys, vals
	if m.linked {
		m.links.grow(m.size, newCapacity)
	}
}

// resizeTable rebuilds the bucket array at newCapacity, a power of two, and
// rethreads every chain in one pass over the metadata array. Entry storage
// and entry indexes are untouched.
func (m *Map[K, V]) resizeTable(newCapacity int) {
	if len(m.buckets) >= maxTableSize {
		m.threshold = math.MaxInt
		return
	}
	if debug {
		fmt.Printf("resizeTable: %d -> %d\n", len(m.buckets), newCapacity)
	}
	buckets := newBuckets(newCapacity)
	mask := uint32(newCapacity - 1)
	for i := 0; i < m.size; i++ {
		h := metaHash(m.meta[i])
		b := h & mask
		m.meta[i] = packMeta(h, buckets[b])
		buckets[b] = int32(i)
	}
	m.threshold = 1 + int(float64(newCapacity)*m.loadFactor)
	m.buckets = buckets
}

// Clear removes all entries. The capacity of the map is retained.
func (m *Map[K, V]) Clear() {
	m.modCount++
	clear(m.keys[:m.size])
	clear(m.vals[:m.size])
	for i := 0; i < m.size; i++ {
		m.meta[i] = unsetMeta
	}
	for i := range m.buckets {
		m.buckets[i] = noEntry
	}
	if m.linked {
		m.links.clear(m.size)
	}
	m.size = 0
	if invariants {
		m.checkInvariants()
	}
}

// Trim reduces memory use to the minimum for the current entries: entry
// storage shrinks to exactly size and the bucket array to the smallest
// power of two that keeps the load at or below the load factor. Entry
// indexes are unchanged, so iterators and views survive a Trim.
func (m *Map[K, V]) Trim() {
	if m.size < len(m.keys) {
		m.resizeEntries(m.size)
	}
	minTable := max(1, highestOneBit(int(float64(m.size)/m.loadFactor)))
	if minTable < maxTableSize && float64(m.size)/float64(minTable) > m.loadFactor {
		minTable <<= 1
	}
	if minTable < len(m.buckets) {
		m.resizeTable(minTable)
	}
	if invariants {
		m.checkInvariants()
	}
}

// All calls yield sequentially for each entry in the map until yield
// returns false. Iteration is in storage order for plain maps and insertion
// order for linked maps. The map must not be structurally modified by yield
// or concurrently with All; doing so panics with
// ConcurrentModificationError.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	expected := m.modCount
	if m.linked {
		for i := m.links.first; i != endpoint; i = m.links.succ[i] {
			if !yield(m.keys[i], m.vals[i]) {
				return
			}
			m.checkMod(expected)
		}
		return
	}
	for i := 0; i < m.size; i++ {
		if !yield(m.keys[i], m.vals[i]) {
			return
		}
		m.checkMod(expected)
	}
}

// Keys calls yield for each key in the map until yield returns false, in
// the same order and under the same rules as All.
func (m *Map[K, V]) Keys(yield func(key K) bool) {
	m.All(func(key K, _ V) bool {
		return yield(key)
	})
}

// Values calls yield for each value in the map until yield returns false,
// in the same order and under the same rules as All.
func (m *Map[K, V]) Values(yield func(value V) bool) {
	m.All(func(_ K, value V) bool {
		return yield(value)
	})
}

func (m *Map[K, V]) checkMod(expected uint16) {
	if m.modCount != expected {
		panic(concurrentModError())
	}
}

// Iter returns a cursor positioned before the first entry. Unlike All, the
// cursor supports removing the current entry mid-iteration. Any structural
// modification not performed through the cursor invalidates it; its next
// Next panics with ConcurrentModificationError.
func (m *Map[K, V]) Iter() Iterator[K, V] {
	it := Iterator[K, V]{m: m, next: 0, cur: noEntry, expected: m.modCount}
	if m.linked {
		it.next = m.links.first
	}
	return it
}

// Iterator is a cursor over a Map's entries:
//
//	it := m.Iter()
//	for it.Next() {
//		_, _ = it.Key(), it.Value()
//	}
type Iterator[K comparable, V any] struct {
	m *Map[K, V]
	// next is the next entry index for plain maps, or the next node of the
	// insertion order list for linked maps.
	next     int32
	cur      int32
	expected uint16
}

// Next advances the cursor, reporting false once the entries are exhausted.
func (it *Iterator[K, V]) Next() bool {
	it.m.checkMod(it.expected)
	if it.m.linked {
		if it.next == endpoint {
			return false
		}
		it.cur = it.next
		it.next = it.m.links.succ[it.cur]
		return true
	}
	if int(it.next) >= it.m.size {
		return false
	}
	it.cur = it.next
	it.next++
	return true
}

// Key returns the key of the current entry. It must only be called after a
// successful Next.
func (it *Iterator[K, V]) Key() K {
	return it.m.keys[it.cur]
}

// Value returns the value of the current entry. It must only be called
// after a successful Next.
func (it *Iterator[K, V]) Value() V {
	return it.m.vals[it.cur]
}

// Remove deletes the entry returned by the last call to Next and resyncs
// the cursor with the swap-compaction performed by the removal. It panics
// with StateError when there is no current entry (Next has not been called,
// returned false, or the entry was already removed).
func (it *Iterator[K, V]) Remove() {
	m := it.m
	m.checkMod(it.expected)
	if it.cur == noEntry {
		panic(stateErrorf("Remove called without a current entry"))
	}
	if m.linked {
		m.remove(m.keys[it.cur])
		if int(it.next) == m.size {
			// The next entry in order was the one that just got moved into
			// the removed slot.
			it.next = it.cur
		}
	} else {
		// Step back so that the entry moved into the removed slot is still
		// visited.
		it.next--
		m.remove(m.keys[it.cur])
	}
	it.cur = noEntry
	it.expected = m.modCount
}

// Entry returns a detached, self-healing view of the current entry. It must
// only be called after a successful Next.
func (it *Iterator[K, V]) Entry() *Entry[K, V] {
	m := it.m
	return &Entry[K, V]{
		m:        m,
		key:      m.keys[it.cur],
		hash:     metaHash(m.meta[it.cur]),
		index:    it.cur,
		expected: it.expected,
	}
}

// Entry is a self-healing view of a single map entry. The view tracks its
// entry by key: when swap-compaction moves the entry to another index, or
// the entry is removed outright, the view re-resolves itself on the next
// access instead of becoming invalid.
type Entry[K comparable, V any] struct {
	m        *Map[K, V]
	key      K
	hash     uint32
	index    int32
	expected uint16
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Value returns the entry's current value, reporting false if the entry is
// no longer present in the map.
func (e *Entry[K, V]) Value() (V, bool) {
	e.updateIndex()
	if e.index == noEntry {
		var v V
		return v, false
	}
	return e.m.vals[e.index], true
}

// SetValue updates the entry's value, reinserting the entry if it has been
// removed since the view was taken. It returns the previous value and
// whether the entry was present.
func (e *Entry[K, V]) SetValue(value V) (V, bool) {
	e.updateIndex()
	if e.index == noEntry {
		e.m.put(e.key, value)
		e.expected = e.m.modCount
		e.index = e.m.getEntryForHash(e.key, e.hash)
		var v V
		return v, false
	}
	old := e.m.vals[e.index]
	e.m.vals[e.index] = value
	return old, true
}

// updateIndex re-resolves the entry's index when the table may have changed
// underneath the view.
func (e *Entry[K, V]) updateIndex() {
	m := e.m
	if e.expected == m.modCount && e.index != noEntry &&
		int(e.index) < m.size && m.keys[e.index] == e.key {
		return
	}
	e.index = m.getEntryForHash(e.key, e.hash)
	e.expected = m.modCount
}

func newBuckets(n int) []int32 {
	buckets := make([]int32, n)
	for i := range buckets {
		buckets[i] = noEntry
	}
	return buckets
}

func newMeta(n int) []uint64 {
	meta := make([]uint64, n)
	for i := range meta {
		meta[i] = unsetMeta
	}
	return meta
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if m.size > len(m.keys) {
			panic(fmt.Sprintf("invariant failed: size %d exceeds entry capacity %d\n%s",
				m.size, len(m.keys), m.debugString()))
		}
		if n := len(m.buckets); n == 0 || n&(n-1) != 0 {
			panic(fmt.Sprintf("invariant failed: bucket count %d is not a power of two\n%s",
				n, m.debugString()))
		}

		// Every live entry carries the hash of its key and resolves to its
		// own index through its bucket chain.
		for i := 0; i < m.size; i++ {
			h := metaHash(m.meta[i])
			if want := smear(m.hash(noescape(unsafe.Pointer(&m.keys[i])), m.seed)); h != want {
				panic(fmt.Sprintf("invariant failed: entry %d: stored hash %08x, expected %08x\n%s",
					i, h, want, m.debugString()))
			}
			if j := m.getEntryForHash(m.keys[i], h); j != int32(i) {
				panic(fmt.Sprintf("invariant failed: entry %d (%v) resolves to %d\n%s",
					i, m.keys[i], j, m.debugString()))
			}
		}

		// Vacant slots stay scrubbed.
		for i := m.size; i < len(m.meta); i++ {
			if m.meta[i] != unsetMeta {
				panic(fmt.Sprintf("invariant failed: vacant entry %d has metadata %016x\n%s",
					i, m.meta[i], m.debugString()))
			}
		}

		// The bucket chains partition [0, size).
		seen := make([]bool, m.size)
		count := 0
		for b, head := range m.buckets {
			for i := head; i != noEntry; i = metaNext(m.meta[i]) {
				if int(i) >= m.size {
					panic(fmt.Sprintf("invariant failed: bucket %d chain reaches vacant entry %d\n%s",
						b, i, m.debugString()))
				}
				if seen[i] {
					panic(fmt.Sprintf("invariant failed: entry %d chained twice\n%s",
						i, m.debugString()))
				}
				seen[i] = true
				count++
				if got := metaHash(m.meta[i]) & uint32(len(m.buckets)-1); got != uint32(b) {
					panic(fmt.Sprintf("invariant failed: entry %d chained in bucket %d, expected %d\n%s",
						i, b, got, m.debugString()))
				}
			}
		}
		if count != m.size {
			panic(fmt.Sprintf("invariant failed: chains hold %d entries, size is %d\n%s",
				count, m.size, m.debugString()))
		}

		if m.linked {
			m.links.check(m.size, m.debugString)
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "size=%d  capacity=%d  buckets=%d  threshold=%d\n",
		m.size, len(m.keys), len(m.buckets), m.threshold)
	for b, head := range m.buckets {
		if head == noEntry {
			continue
		}
		fmt.Fprintf(&buf, "  bucket %4d:", b)
		for i := head; i != noEntry; i = metaNext(m.meta[i]) {
			fmt.Fprintf(&buf, " %d=%v", i, m.keys[i])
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

// noescape hides a pointer from escape analysis.  noescape is
// the identity function but escape analysis doesn't think the
// output depends on the input.  noescape is inlined and currently
// compiles down to zero instructions.
// USE CAREFULLY!
//
//go:nosplit
//go:nocheckptr
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

// unsafeSlice provides semi-ergonomic limited slice-like functionality
// without bounds checking for fixed sized slices.
type unsafeSlice[T any] struct {
	ptr unsafe.Pointer
}

func makeUnsafeSlice[T any](s []T) unsafeSlice[T] {
	return unsafeSlice[T]{ptr: unsafe.Pointer(unsafe.SliceData(s))}
}

// At returns a pointer to the element at index i.
func (s unsafeSlice[T]) At(i uintptr) *T {
	var t T
	return (*T)(unsafe.Add(s.ptr, unsafe.Sizeof(t)*i))
}

// unsafeConvertSlice reinterprets the contents in the slice s as a slice of
// type T.
func unsafeConvertSlice[T any, S any](s []S) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
