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
	"math/bits"
	"unsafe"
)

const (
	// frozenLoadFactor bounds unique elements per probe-table slot.
	frozenLoadFactor = 0.7

	// frozenMinTableSize floors the probe table so that the packed word
	// tier always describes exactly 16 slots.
	frozenMinTableSize = 16

	// frozenWordBits is the width of one packed-word field. frozenWordBlank,
	// the maximum field value, is the blank sentinel; the sized tiers
	// likewise reserve their all-ones value.
	frozenWordBits  = 4
	frozenWordBlank = uint64(1)<<frozenWordBits - 1

	// Tier capacities. A 16-slot table at the load factor caps the word
	// tier at 11 elements; the sized tiers are capped by their blank
	// sentinel.
	frozenMaxWordElems  = 11
	frozenMaxByteElems  = math.MaxUint8
	frozenMaxShortElems = math.MaxUint16
)

// frozenSeed seeds the hash function of every FrozenSet. The seed is
// process-wide rather than per-set so that Hash and Equal are comparable
// across sets.
var frozenSeed = uintptr(fastrand64())

// FrozenSet is an immutable compact hash set. Elements live in one
// contiguous array in first-occurrence order and membership goes through a
// probe table that holds element indexes, not elements: the table is
// encoded in the narrowest of four widths the element count allows, from a
// single packed machine word of 4-bit fields for sets of at most 11
// elements up to a []uint32 for the largest. Lookups linearly probe with
// the same smeared-hash-and-mask sequence used at construction.
//
// The zero value is the empty set. A FrozenSet is immutable after
// construction and therefore safe for concurrent use.
type FrozenSet[E comparable] struct {
	hash  hashFn
	elems []E
	// hashCode is the sum of the elements' smeared hashes, cached at
	// construction.
	hashCode uint32

	// The active tier: packed when the sized tables are all nil, else the
	// single non-nil table. Table lengths are powers of two.
	packed  uint64
	table8  []uint8
	table16 []uint16
	table32 []uint32
}

// NewFrozenSet constructs an immutable set of the given elements,
// discarding duplicates. Iteration order is the order of first occurrence
// in elems. The input is copied.
func NewFrozenSet[E comparable](elems ...E) *FrozenSet[E] {
	s := &FrozenSet[E]{hash: getRuntimeHasher[E](), packed: ^uint64(0)}
	if len(elems) == 0 {
		return s
	}
	work := make([]E, len(elems))
	copy(work, elems)
	s.build(work, len(work))
	if invariants {
		s.checkInvariants()
	}
	return s
}

// build deduplicates the first n elements of work in place, preserving
// first occurrences, and encodes the resulting probe table. When
// deduplication shrinks the set enough that a smaller table satisfies the
// load factor, construction reruns at the smaller size.
func (s *FrozenSet[E]) build(work []E, n int) {
	tableSize := chooseFrozenTableSize(n)
	mask := uint32(tableSize - 1)
	scratch := newBuckets(tableSize)
	unique := 0
	var hashCode uint32
	for i := 0; i < n; i++ {
		e := work[i]
		h := smear(s.hash(noescape(unsafe.Pointer(&e)), frozenSeed))
		for seq := makeProbeSeq(h, mask); ; seq = seq.next() {
			j := scratch[seq.offset]
			if j == noEntry {
				work[unique] = e
				scratch[seq.offset] = int32(unique)
				unique++
				hashCode += h
				break
			}
			if work[j] == e {
				break
			}
		}
	}
	if chooseFrozenTableSize(unique) < tableSize {
		s.build(work, unique)
		return
	}
	s.hashCode = hashCode
	if unique < len(work) {
		trimmed := make([]E, unique)
		copy(trimmed, work[:unique])
		s.elems = trimmed
	} else {
		s.elems = work
	}
	s.encode(scratch, unique)
}

// chooseFrozenTableSize returns the probe table size for n distinct
// elements: the smallest power of two keeping the load at or below
// frozenLoadFactor, floored at frozenMinTableSize. At the top end the load
// factor is waived and the maximum table is returned as long as at least
// one slot stays blank; beyond that construction cannot proceed.
func chooseFrozenTableSize(n int) int {
	tableSize := max(frozenMinTableSize, tableSizeFor(n))
	if tableSize < maxTableSize {
		if float64(n) > frozenLoadFactor*float64(tableSize) {
			tableSize <<= 1
		}
		return tableSize
	}
	// A full table would probe forever on a miss.
	if n >= maxTableSize {
		panic(overflowErrorf("collection too large: %d elements", n))
	}
	return maxTableSize
}

// encode stores the scratch probe table in the narrowest tier the element
// count allows. The recursive rebuild in build guarantees that a set of at
// most frozenMaxWordElems elements always arrives here with the minimum
// table size.
func (s *FrozenSet[E]) encode(scratch []int32, unique int) {
	switch {
	case unique <= frozenMaxWordElems:
		packed := ^uint64(0)
		for i, j := range scratch {
			if j != noEntry {
				shift := uint(i) * frozenWordBits
				packed = packed&^(frozenWordBlank<<shift) | uint64(j)<<shift
			}
		}
		s.packed = packed
	case unique <= frozenMaxByteElems:
		table := make([]uint8, len(scratch))
		for i, j := range scratch {
			if j == noEntry {
				table[i] = math.MaxUint8
			} else {
				table[i] = uint8(j)
			}
		}
		s.table8 = table
	case unique <= frozenMaxShortElems:
		table := make([]uint16, len(scratch))
		for i, j := range scratch {
			if j == noEntry {
				table[i] = math.MaxUint16
			} else {
				table[i] = uint16(j)
			}
		}
		s.table16 = table
	default:
		table := make([]uint32, len(scratch))
		for i, j := range scratch {
			if j == noEntry {
				table[i] = math.MaxUint32
			} else {
				table[i] = uint32(j)
			}
		}
		s.table32 = table
	}
}

// Contains reports whether elem is in the set.
func (s *FrozenSet[E]) Contains(elem E) bool {
	if len(s.elems) == 0 {
		return false
	}
	h := smear(s.hash(noescape(unsafe.Pointer(&elem)), frozenSeed))
	switch {
	case s.table8 != nil:
		return probeIndexOf(s.table8, s.elems, elem, h)
	case s.table16 != nil:
		return probeIndexOf(s.table16, s.elems, elem, h)
	case s.table32 != nil:
		return probeIndexOf(s.table32, s.elems, elem, h)
	}
	return s.containsPacked(elem, h)
}

// containsPacked probes the single-word tier by rotating the table so the
// probed field is always in the low bits, consuming one field per probe.
// Rotation wraps the sequence around the 16 slots, and at least 5 of them
// are blank, so a miss always terminates.
func (s *FrozenSet[E]) containsPacked(elem E, h uint32) bool {
	w := bits.RotateLeft64(s.packed, -int(h&(frozenMinTableSize-1))*frozenWordBits)
	for {
		j := w & frozenWordBlank
		if j == frozenWordBlank {
			return false
		}
		if s.elems[j] == elem {
			return true
		}
		w = bits.RotateLeft64(w, -frozenWordBits)
	}
}

// probeIndexOf runs the shared linear probe over one of the sized index
// tables. The all-ones value of I is the blank sentinel.
func probeIndexOf[I uint8 | uint16 | uint32, E comparable](
	table []I, elems []E, elem E, h uint32,
) bool {
	blank := ^I(0)
	mask := uint32(len(table) - 1)
	for seq := makeProbeSeq(h, mask); ; seq = seq.next() {
		j := table[seq.offset]
		if j == blank {
			return false
		}
		if elems[j] == elem {
			return true
		}
	}
}

// Len returns the number of distinct elements.
func (s *FrozenSet[E]) Len() int {
	return len(s.elems)
}

// All calls yield for each element until yield returns false, in the first
// occurrence order of the constructing slice.
func (s *FrozenSet[E]) All(yield func(elem E) bool) {
	for i := range s.elems {
		if !yield(s.elems[i]) {
			return
		}
	}
}

// Slice returns a copy of the elements in first-occurrence order, or nil
// for an empty set.
func (s *FrozenSet[E]) Slice() []E {
	if len(s.elems) == 0 {
		return nil
	}
	out := make([]E, len(s.elems))
	copy(out, s.elems)
	return out
}

// Hash returns an order-independent fingerprint of the set, computed at
// construction. Fingerprints are only comparable within one process.
func (s *FrozenSet[E]) Hash() uint32 {
	return s.hashCode
}

// Equal reports whether s and o hold the same elements, in any order.
func (s *FrozenSet[E]) Equal(o *FrozenSet[E]) bool {
	if s == o {
		return true
	}
	if len(s.elems) != len(o.elems) || s.hashCode != o.hashCode {
		return false
	}
	for i := range s.elems {
		if !o.Contains(s.elems[i]) {
			return false
		}
	}
	return true
}

func (s *FrozenSet[E]) checkInvariants() {
	if invariants {
		seen := make(map[E]struct{}, len(s.elems))
		for i := range s.elems {
			if _, ok := seen[s.elems[i]]; ok {
				panic(fmt.Sprintf("invariant failed: element %d (%v) stored twice\n%s",
					i, s.elems[i], s.debugString()))
			}
			seen[s.elems[i]] = struct{}{}
			if !s.Contains(s.elems[i]) {
				panic(fmt.Sprintf("invariant failed: element %d (%v) not found\n%s",
					i, s.elems[i], s.debugString()))
			}
		}
		n := len(s.elems)
		switch {
		case s.table8 != nil:
			if n <= frozenMaxWordElems || n > frozenMaxByteElems {
				panic(fmt.Sprintf("invariant failed: byte tier holds %d elements\n%s",
					n, s.debugString()))
			}
		case s.table16 != nil:
			if n <= frozenMaxByteElems || n > frozenMaxShortElems {
				panic(fmt.Sprintf("invariant failed: short tier holds %d elements\n%s",
					n, s.debugString()))
			}
		case s.table32 != nil:
			if n <= frozenMaxShortElems {
				panic(fmt.Sprintf("invariant failed: int tier holds %d elements\n%s",
					n, s.debugString()))
			}
		default:
			if n > frozenMaxWordElems {
				panic(fmt.Sprintf("invariant failed: word tier holds %d elements\n%s",
					n, s.debugString()))
			}
		}
	}
}

func (s *FrozenSet[E]) debugString() string {
	tier, tableLen := "word", frozenMinTableSize
	switch {
	case s.table8 != nil:
		tier, tableLen = "byte", len(s.table8)
	case s.table16 != nil:
		tier, tableLen = "short", len(s.table16)
	case s.table32 != nil:
		tier, tableLen = "int", len(s.table32)
	}
	return fmt.Sprintf("len=%d  tier=%s  table=%d  hash=%08x",
		len(s.elems), tier, tableLen, s.hashCode)
}
