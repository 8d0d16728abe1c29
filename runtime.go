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
	"unsafe"
)

// hashFn is the signature of the runtime's per-type hash functions: a
// pointer to the key and a seed produce the raw hash value.
type hashFn func(unsafe.Pointer, uintptr) uintptr

// getRuntimeHasher returns the hash function the runtime would use for a
// builtin map keyed by K, which on most platforms is AES based. A throwaway
// map is conjured so that its type descriptor can be read; the struct
// mirrors below must be kept in sync with go/src/runtime/type.go and
// go/src/runtime/map.go.
func getRuntimeHasher[K comparable]() hashFn {
	a := any(make(map[K]struct{}))
	return (*mapiface)(unsafe.Pointer(&a)).typ.hasher
}

//go:linkname fastrand64 runtime.fastrand64
func fastrand64() uint64

type mapiface struct {
	typ *maptype
	val *hmap
}

// go/src/runtime/type.go
type maptype struct {
	typ        _type
	key        *_type
	elem       *_type
	bucket     *_type
	hasher     hashFn
	keysize    uint8
	elemsize   uint8
	bucketsize uint16
	flags      uint32
}

// go/src/runtime/map.go
type hmap struct {
	count      int
	flags      uint8
	B          uint8
	noverflow  uint16
	hash0      uint32
	buckets    unsafe.Pointer
	oldbuckets unsafe.Pointer
	nevacuate  uintptr
	extra      unsafe.Pointer
}

type (
	tflag   uint8
	nameOff int32
	typeOff int32
)

// go/src/runtime/type.go
type _type struct {
	size       uintptr
	ptrdata    uintptr
	hash       uint32
	tflag      tflag
	align      uint8
	fieldAlign uint8
	kind       uint8
	equal      func(unsafe.Pointer, unsafe.Pointer) bool
	gcdata     *byte
	str        nameOff
	ptrToThis  typeOff
}
