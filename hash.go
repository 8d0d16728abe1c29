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

import "math/bits"

// maxTableSize is the largest bucket or index table ever allocated: the
// largest power of two whose slot indexes fit an int32.
const maxTableSize = 1 << 30

const (
	smearC1 = 0xcc9e2d51
	smearC2 = 0x1b873593
)

// smear folds a raw hash to 32 bits and mixes it so that inputs differing
// only in bits above any reasonable bucket mask still spread across the
// table. Tables index with smear(hash) & (len-1), so the low bits carry all
// the weight. The multiply/rotate shape and constants are MurmurHash3's.
func smear(h uintptr) uint32 {
	x := uint32(h) ^ uint32(h>>32)
	return smearC2 * bits.RotateLeft32(x*smearC1, 15)
}

// probeSeq maintains the state for a linear probe sequence over a table
// whose length is mask+1, a power of two. The sequence visits every slot
// exactly once before returning to its starting offset. Probing is only
// used by the frozen tables; the mutable tables resolve collisions by
// chaining.
type probeSeq struct {
	mask   uint32
	offset uint32
}

func makeProbeSeq(hash uint32, mask uint32) probeSeq {
	return probeSeq{
		mask:   mask,
		offset: hash & mask,
	}
}

func (s probeSeq) next() probeSeq {
	s.offset = (s.offset + 1) & s.mask
	return s
}

// tableSizeFor returns the smallest power of two no smaller than c, capped
// at maxTableSize.
func tableSizeFor(c int) int {
	if c <= 1 {
		return 1
	}
	if c >= maxTableSize {
		return maxTableSize
	}
	return 1 << bits.Len(uint(c-1))
}

// highestOneBit returns the largest power of two no larger than x, or 0 for
// non-positive x.
func highestOneBit(x int) int {
	if x <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(x)) - 1)
}
