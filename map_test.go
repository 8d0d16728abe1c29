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
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"sort"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// toBuiltinMap returns the entries as a map[K]V. Useful for testing.
func (m *Map[K, V]) toBuiltinMap() map[K]V {
	r := make(map[K]V)
	m.All(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

// randElement returns a uniformly random entry. The entry arrays are dense,
// so a random index is a uniformly random element.
func (m *Map[K, V]) randElement() (key K, value V, ok bool) {
	if m.size == 0 {
		return key, value, false
	}
	i := rand.Intn(m.size)
	return m.keys[i], m.vals[i], true
}

// requireErrorPanic asserts that fn panics with an error matching T.
func requireErrorPanic[T error](t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v (%T) is not an error", r, r)
		var target T
		require.True(t, errors.As(err, &target), "unexpected panic error: %v", err)
	}()
	fn()
}

func TestProbeSeq(t *testing.T) {
	genSeq := func(n int, hash, mask uint32) []uint32 {
		seq := makeProbeSeq(hash, mask)
		vals := make([]uint32, n)
		for i := 0; i < n; i++ {
			vals[i] = seq.offset
			seq = seq.next()
		}
		return vals
	}

	// Linear probing wraps at the mask.
	require.Equal(t, []uint32{13, 14, 15, 0, 1, 2}, genSeq(6, 13, 15))
	require.Equal(t, []uint32{13, 14, 15, 0, 1, 2}, genSeq(6, 13+16, 15))

	// Every slot is visited exactly once no matter the start offset.
	for h := uint32(0); h < 16; h++ {
		vals := genSeq(16, h, 15)
		sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
		for i := range vals {
			require.EqualValues(t, i, vals[i])
		}
	}
}

func TestSmear(t *testing.T) {
	// The mixing transform is a bijection on the folded 32-bit hash, so
	// distinct folds produce distinct smears.
	seen := make(map[uint32]uintptr)
	for i := uintptr(0); i < 10000; i++ {
		s := smear(i)
		prev, ok := seen[s]
		require.False(t, ok, "smear(%d) == smear(%d) == %08x", i, prev, s)
		seen[s] = i
	}

	// High bits fold into the result rather than vanishing under the mask.
	if bits.UintSize == 64 {
		shift := uint(40)
		require.NotEqual(t, smear(1), smear(1|uintptr(1)<<shift))
	}
}

func TestTableSizeFor(t *testing.T) {
	testCases := []struct {
		capacity int
		expected int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{7, 8},
		{8, 8},
		{9, 16},
		{1000, 1024},
		{1 << 30, 1 << 30},
		{1<<30 + 1, 1 << 30},
	}
	for _, c := range testCases {
		t.Run(fmt.Sprint(c.capacity), func(t *testing.T) {
			require.Equal(t, c.expected, tableSizeFor(c.capacity))
		})
	}
}

func TestHighestOneBit(t *testing.T) {
	testCases := []struct {
		x        int
		expected int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 4},
		{100, 64},
		{1 << 20, 1 << 20},
	}
	for _, c := range testCases {
		require.Equal(t, c.expected, highestOneBit(c.x), "highestOneBit(%d)", c.x)
	}
}

func TestInitialCapacity(t *testing.T) {
	testCases := []struct {
		initialCapacity   int
		expectedBuckets   int
		expectedThreshold int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 2, 2},
		{3, 4, 4},
		{8, 8, 8},
		{9, 16, 16},
		{1000, 1024, 1024},
	}
	for _, c := range testCases {
		t.Run(fmt.Sprint(c.initialCapacity), func(t *testing.T) {
			m := NewMap[int, int](c.initialCapacity)
			require.Equal(t, c.expectedBuckets, len(m.buckets))
			require.Equal(t, c.expectedThreshold, m.threshold)
			require.Equal(t, c.initialCapacity, len(m.keys))
			require.Equal(t, c.initialCapacity, len(m.vals))
			require.Equal(t, c.initialCapacity, len(m.meta))
		})
	}

	requireErrorPanic[*ArgumentError](t, func() {
		NewMap[int, int](-1)
	})
}

func TestBasic(t *testing.T) {
	test := func(t *testing.T, m *Map[int, int]) {
		const count = 100

		e := make(map[int]int)
		require.EqualValues(t, 0, m.Len())

		// Non-existent.
		for i := 0; i < count; i++ {
			_, ok := m.Get(i)
			require.False(t, ok)
			require.False(t, m.ContainsKey(i))
		}

		// Insert.
		for i := 0; i < count; i++ {
			m.Put(i, i+count)
			e[i] = i + count
			v, ok := m.Get(i)
			require.True(t, ok)
			require.EqualValues(t, i+count, v)
			require.EqualValues(t, i+1, m.Len())
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Update.
		for i := 0; i < count; i++ {
			m.Put(i, i+2*count)
			e[i] = i + 2*count
			v, ok := m.Get(i)
			require.True(t, ok)
			require.EqualValues(t, i+2*count, v)
			require.EqualValues(t, count, m.Len())
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Delete.
		for i := 0; i < count; i++ {
			m.Delete(i)
			delete(e, i)
			require.EqualValues(t, count-i-1, m.Len())
			_, ok := m.Get(i)
			require.False(t, ok)
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Deleting a non-existent key is a noop.
		m.Delete(-1)
		require.EqualValues(t, 0, m.Len())
	}

	t.Run("normal", func(t *testing.T) {
		test(t, NewMap[int, int](0))
	})

	t.Run("presized", func(t *testing.T) {
		test(t, NewMap[int, int](100))
	})

	t.Run("degenerate", func(t *testing.T) {
		// A constant hash function forces every key into one bucket chain,
		// exercising chain walks, head-splices, and removal repairs.
		testDegenerate := func(t *testing.T, h uintptr) {
			m := NewMap[int, int](0,
				WithHash[int](func(key *int, seed uintptr) uintptr {
					return h
				}))
			test(t, m)
		}

		for _, v := range []uintptr{0, ^uintptr(0)} {
			t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
				testDegenerate(t, v)
			})
		}
		for i := 0; i < 10; i++ {
			v := uintptr(rand.Uint64())
			t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
				testDegenerate(t, v)
			})
		}
	})

	t.Run("string keys", func(t *testing.T) {
		m := NewMap[string, int](0)
		e := make(map[string]int)
		for i := 0; i < 100; i++ {
			k := fmt.Sprintf("key-%d", i)
			m.Put(k, i)
			e[k] = i
		}
		require.Equal(t, e, m.toBuiltinMap())
		for i := 0; i < 100; i += 2 {
			k := fmt.Sprintf("key-%d", i)
			m.Delete(k)
			delete(e, k)
		}
		require.Equal(t, e, m.toBuiltinMap())
	})

	t.Run("struct keys", func(t *testing.T) {
		type point struct {
			x, y int
			tag  string
		}
		m := NewMap[point, int](0)
		for i := 0; i < 100; i++ {
			m.Put(point{x: i, y: -i, tag: fmt.Sprint(i)}, i)
		}
		require.Equal(t, 100, m.Len())
		for i := 0; i < 100; i++ {
			v, ok := m.Get(point{x: i, y: -i, tag: fmt.Sprint(i)})
			require.True(t, ok)
			require.Equal(t, i, v)
			_, ok = m.Get(point{x: i, y: -i})
			require.False(t, ok)
		}
	})
}

func TestScenario(t *testing.T) {
	m := NewMap[string, string](2)
	m.Put("k1", "v1")
	require.Equal(t, 1, m.Len())
	m.Put("k2", "v2")
	require.Equal(t, 2, m.Len())
	m.Delete("k1")
	require.Equal(t, 1, m.Len())
	v, ok := m.Get("k2")
	require.True(t, ok)
	require.Equal(t, "v2", v)
	_, ok = m.Get("k1")
	require.False(t, ok)
}

func TestGrowth(t *testing.T) {
	// Entry storage grows by half again; the bucket array doubles when the
	// entry count crosses the threshold. Both schedules are deterministic.
	m := NewMap[int, int](0)
	expectEntryCap := []int{1, 2, 3, 4, 6, 6, 9, 9, 9}
	expectBuckets := []int{1, 2, 2, 4, 4, 8, 8, 8, 8}
	for i := 0; i < len(expectEntryCap); i++ {
		m.Put(i, i)
		require.Equal(t, expectEntryCap[i], len(m.keys), "entry capacity after put %d", i+1)
		require.Equal(t, expectBuckets[i], len(m.buckets), "buckets after put %d", i+1)
	}

	m = NewMap[int, int](4)
	for i := 0; i < 4; i++ {
		m.Put(i, i)
	}
	require.Equal(t, 4, len(m.buckets))
	m.Put(4, 4)
	require.Equal(t, 8, len(m.buckets))
	require.Equal(t, 6, len(m.keys))
}

func TestRandom(t *testing.T) {
	test := func(t *testing.T, m *Map[int, int], ops int) {
		if invariants {
			// Every mutation revalidates the whole table under the
			// invariants tag, so dial the op count down.
			ops /= 5
		}
		e := make(map[int]int)
		for i := 0; i < ops; i++ {
			switch r := rand.Float64(); {
			case r < 0.50: // 50% inserts
				k, v := rand.Intn(ops), rand.Int()
				m.Put(k, v)
				e[k] = v
			case r < 0.65: // 15% updates
				if k, _, ok := m.randElement(); !ok {
					require.EqualValues(t, 0, m.Len())
				} else {
					v := rand.Int()
					m.Put(k, v)
					e[k] = v
				}
			case r < 0.80: // 15% deletes
				if k, _, ok := m.randElement(); !ok {
					require.EqualValues(t, 0, m.Len())
				} else {
					m.Delete(k)
					delete(e, k)
				}
			case r < 0.95: // 15% lookups
				if k, v, ok := m.randElement(); !ok {
					require.EqualValues(t, 0, m.Len())
				} else {
					require.EqualValues(t, e[k], v)
				}
			default: // 5% trim and compare
				m.Trim()
				require.Equal(t, e, m.toBuiltinMap())
			}
			require.EqualValues(t, len(e), m.Len())
		}
		require.Equal(t, e, m.toBuiltinMap())
	}

	t.Run("normal", func(t *testing.T) {
		test(t, NewMap[int, int](0), 10000)
	})

	t.Run("degenerate", func(t *testing.T) {
		for _, v := range []uintptr{0, ^uintptr(0)} {
			t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
				m := NewMap[int, int](0,
					WithHash[int](func(key *int, seed uintptr) uintptr {
						return v
					}))
				test(t, m, 2000)
			})
		}
	})
}

func TestIterator(t *testing.T) {
	const count = 100
	m := NewMap[int, int](0)
	for i := 0; i < count; i++ {
		m.Put(i, i*10)
	}

	visited := make(map[int]int)
	it := m.Iter()
	for it.Next() {
		visited[it.Key()]++
		require.Equal(t, it.Key()*10, it.Value())
	}
	require.Equal(t, count, len(visited))
	for k, n := range visited {
		require.Equal(t, 1, n, "key %d visited %d times", k, n)
	}
}

func TestIteratorRemove(t *testing.T) {
	test := func(t *testing.T, m *Map[int, int]) {
		const count = 100
		for i := 0; i < count; i++ {
			m.Put(i, i)
		}

		// Remove the odd keys mid-iteration. Every key must be visited
		// exactly once despite the swap-compaction behind the cursor.
		visited := make(map[int]int)
		it := m.Iter()
		for it.Next() {
			visited[it.Key()]++
			if it.Key()%2 == 1 {
				it.Remove()
			}
		}
		require.Equal(t, count, len(visited))
		for k, n := range visited {
			require.Equal(t, 1, n, "key %d visited %d times", k, n)
		}
		require.Equal(t, count/2, m.Len())
		for i := 0; i < count; i++ {
			require.Equal(t, i%2 == 0, m.ContainsKey(i))
		}

		// Remove the remaining entries.
		it = m.Iter()
		for it.Next() {
			it.Remove()
		}
		require.Equal(t, 0, m.Len())
	}

	t.Run("normal", func(t *testing.T) {
		test(t, NewMap[int, int](0))
	})

	t.Run("degenerate", func(t *testing.T) {
		test(t, NewMap[int, int](0,
			WithHash[int](func(key *int, seed uintptr) uintptr {
				return 0
			})))
	})
}

func TestIteratorErrors(t *testing.T) {
	t.Run("remove before next", func(t *testing.T) {
		m := NewMap[int, int](0)
		m.Put(1, 1)
		it := m.Iter()
		requireErrorPanic[*StateError](t, func() {
			it.Remove()
		})
	})

	t.Run("double remove", func(t *testing.T) {
		m := NewMap[int, int](0)
		m.Put(1, 1)
		m.Put(2, 2)
		it := m.Iter()
		require.True(t, it.Next())
		it.Remove()
		requireErrorPanic[*StateError](t, func() {
			it.Remove()
		})
	})

	t.Run("next after foreign put", func(t *testing.T) {
		m := NewMap[int, int](0)
		m.Put(1, 1)
		it := m.Iter()
		m.Put(2, 2)
		requireErrorPanic[*ConcurrentModificationError](t, func() {
			it.Next()
		})
	})

	t.Run("next after foreign delete", func(t *testing.T) {
		m := NewMap[int, int](0)
		m.Put(1, 1)
		m.Put(2, 2)
		it := m.Iter()
		require.True(t, it.Next())
		m.Delete(it.Key())
		requireErrorPanic[*ConcurrentModificationError](t, func() {
			it.Next()
		})
	})

	t.Run("mutation during All", func(t *testing.T) {
		m := NewMap[int, int](0)
		for i := 0; i < 10; i++ {
			m.Put(i, i)
		}
		requireErrorPanic[*ConcurrentModificationError](t, func() {
			m.All(func(k, v int) bool {
				m.Put(k+100, v)
				return true
			})
		})
	})

	t.Run("value update is not structural", func(t *testing.T) {
		m := NewMap[int, int](0)
		for i := 0; i < 10; i++ {
			m.Put(i, i)
		}
		it := m.Iter()
		require.True(t, it.Next())
		m.Put(it.Key(), -1)
		require.True(t, it.Next())
	})
}

func TestEntryView(t *testing.T) {
	m := NewMap[string, int](0)
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	var entry *Entry[string, int]
	it := m.Iter()
	for it.Next() {
		if it.Key() == "b" {
			entry = it.Entry()
		}
	}
	require.NotNil(t, entry)
	require.Equal(t, "b", entry.Key())

	// Deleting another key swap-compacts the storage; the view re-resolves.
	m.Delete("a")
	v, ok := entry.Value()
	require.True(t, ok)
	require.Equal(t, 2, v)

	old, ok := entry.SetValue(20)
	require.True(t, ok)
	require.Equal(t, 2, old)
	v, _ = m.Get("b")
	require.Equal(t, 20, v)

	// After the entry itself is deleted the view reports absence, and
	// SetValue reinserts.
	m.Delete("b")
	_, ok = entry.Value()
	require.False(t, ok)
	_, ok = entry.SetValue(200)
	require.False(t, ok)
	v, ok = m.Get("b")
	require.True(t, ok)
	require.Equal(t, 200, v)
	v, ok = entry.Value()
	require.True(t, ok)
	require.Equal(t, 200, v)
}

func TestClear(t *testing.T) {
	m := NewMap[int, int](0)
	for i := 0; i < 1000; i++ {
		m.Put(i, i)
	}

	capacity := len(m.keys)
	buckets := len(m.buckets)
	m.Clear()
	require.Equal(t, 0, m.Len())
	require.Equal(t, capacity, len(m.keys))
	require.Equal(t, buckets, len(m.buckets))

	m.All(func(k, v int) bool {
		require.Fail(t, "should not iterate")
		return true
	})

	// The map is usable after Clear.
	m.Put(1, 1)
	require.Equal(t, 1, m.Len())
}

func TestTrim(t *testing.T) {
	m := NewMap[int, int](1000)
	for i := 0; i < 1000; i++ {
		m.Put(i, i)
	}
	require.Equal(t, 1000, len(m.keys))
	require.Equal(t, 1024, len(m.buckets))

	for i := 100; i < 1000; i++ {
		m.Delete(i)
	}

	// Iterators survive a trim: entry indexes do not move.
	it := m.Iter()
	require.True(t, it.Next())

	m.Trim()
	require.Equal(t, 100, m.Len())
	require.Equal(t, 100, len(m.keys))
	require.Equal(t, 128, len(m.buckets))
	for i := 0; i < 100; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	seen := 1
	for it.Next() {
		seen++
	}
	require.Equal(t, 100, seen)

	// Trimming an empty map shrinks to the minimum.
	m.Clear()
	m.Trim()
	require.Equal(t, 0, len(m.keys))
	require.Equal(t, 1, len(m.buckets))
}

func TestInitReuse(t *testing.T) {
	var m Map[int, int]
	m.Init(0)
	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}
	it := m.Iter()
	require.True(t, it.Next())

	m.Init(0)
	require.Equal(t, 0, m.Len())
	_, ok := m.Get(1)
	require.False(t, ok)

	// Iterators from before the reinitialization are invalid.
	requireErrorPanic[*ConcurrentModificationError](t, func() {
		it.Next()
	})

	for i := 0; i < 100; i++ {
		m.Put(i, -i)
	}
	require.Equal(t, 100, m.Len())
}

func TestLoadFactorOption(t *testing.T) {
	m := NewMap[int, int](8, WithLoadFactor(0.5))
	require.Equal(t, 8, len(m.buckets))
	require.Equal(t, 4, m.threshold)
	for i := 0; i < 4; i++ {
		m.Put(i, i)
	}
	require.Equal(t, 8, len(m.buckets))
	m.Put(4, 4)
	require.Equal(t, 16, len(m.buckets))

	requireErrorPanic[*ArgumentError](t, func() {
		NewMap[int, int](0, WithLoadFactor(0))
	})
	requireErrorPanic[*ArgumentError](t, func() {
		NewMap[int, int](0, WithLoadFactor(-1))
	})
}

func TestPanicPayloads(t *testing.T) {
	// Panic payloads are typed errors carrying a message prefix and a
	// stack, matched with errors.As.
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		var argErr *ArgumentError
		require.True(t, errors.As(err, &argErr))
		require.Contains(t, argErr.Error(), "compact:")
		var stacked interface{ StackTrace() pkgerrors.StackTrace }
		require.True(t, errors.As(err, &stacked))
		require.NotEmpty(t, stacked.StackTrace())
	}()
	NewMap[int, int](-3)
}
