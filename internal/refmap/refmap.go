// Package refmap implements the sparse refnum-to-record table behind the
// tracker.
//
// Refnums grow monotonically but are released in arbitrary order, so a
// dense array indexed by refnum would hold capacity for every refnum ever
// issued, and a general hash map costs more per entry than this workload
// needs. The table instead keeps two parallel arrays sorted by key:
// lookups are binary searches, removals tombstone the slot in place, and
// inserts compact the tombstones away once the arrays fill, keeping
// memory proportional to live entries.
package refmap

import (
	"errors"
	"fmt"
	"sort"
)

const initialCap = 16

// ErrLiveEntry reports an attempt to replace a live table entry with a
// different value. A refnum maps to one record for its whole life, so
// this only happens when reference bookkeeping has desynchronized.
var ErrLiveEntry = errors.New("refmap: replacing a live entry")

// Map is a sparse mapping from int32 keys to *V values, kept sorted by
// key over the occupied prefix of its backing arrays. A nil value slot
// under an occupied key is a tombstone.
//
// Map is not safe for concurrent use; the tracker serializes access
// under its own mutex.
type Map[V any] struct {
	next int // occupied prefix of keys/vals, tombstones included
	live int // occupied minus tombstones
	keys []int32
	vals []*V
}

// New returns an empty table with the default capacity.
func New[V any]() Map[V] {
	return Map[V]{
		keys: make([]int32, initialCap),
		vals: make([]*V, initialCap),
	}
}

// search returns the index of key within the occupied prefix and true,
// or key's insertion position and false.
func (m *Map[V]) search(key int32) (int, bool) {
	i := sort.Search(m.next, func(i int) bool { return m.keys[i] >= key })
	if i < m.next && m.keys[i] == key {
		return i, true
	}
	return i, false
}

// Get returns the value stored under key, or nil when key is absent or
// removed.
func (m *Map[V]) Get(key int32) *V {
	if i, ok := m.search(key); ok {
		return m.vals[i]
	}
	return nil
}

// Remove tombstones key's slot. Removing an absent or already-removed
// key is a no-op.
func (m *Map[V]) Remove(key int32) {
	i, ok := m.search(key)
	if !ok {
		return
	}
	if m.vals[i] != nil {
		m.vals[i] = nil
		m.live--
	}
}

// Put stores val under key. A tombstoned slot for key is re-occupied and
// re-putting the value already stored is a no-op, but asking a live slot
// to change its value panics with ErrLiveEntry. Storing nil panics,
// since nil marks tombstones.
func (m *Map[V]) Put(key int32, val *V) {
	if val == nil {
		panic(fmt.Errorf("refmap: put of nil value (key %d)", key))
	}
	i, ok := m.search(key)
	if ok {
		if m.vals[i] == nil {
			m.vals[i] = val
			m.live++
		}
		if m.vals[i] != val {
			panic(fmt.Errorf("%w (key %d)", ErrLiveEntry, key))
		}
		return
	}
	if m.next >= len(m.keys) {
		m.grow()
		i, _ = m.search(key)
	}
	if i < m.next {
		// Insert: shift everything after the slot one to the right.
		copy(m.keys[i+1:m.next+1], m.keys[i:m.next])
		copy(m.vals[i+1:m.next+1], m.vals[i:m.next])
	}
	m.keys[i] = key
	m.vals[i] = val
	m.live++
	m.next++
}

// grow compacts tombstones out of the backing arrays and doubles them if
// the live set needs the room. Afterwards the arrays are densely packed:
// live == next, keys strictly ascending, no tombstones.
func (m *Map[V]) grow() {
	newKeys := m.keys
	newVals := m.vals
	if want := 2 * roundPow2(m.live); want > len(m.keys) {
		newKeys = make([]int32, 2*len(m.keys))
		newVals = make([]*V, 2*len(m.vals))
	}

	// Copy live entries forward; j never overtakes i, so compacting in
	// place is safe when the arrays are reused.
	j := 0
	for i := 0; i < m.next; i++ {
		if m.vals[i] != nil {
			newKeys[j] = m.keys[i]
			newVals[j] = m.vals[i]
			j++
		}
	}
	for i := j; i < len(newKeys); i++ {
		newKeys[i] = 0
		newVals[i] = nil
	}

	m.keys = newKeys
	m.vals = newVals
	m.next = j

	if m.live != m.next {
		panic(fmt.Errorf("refmap: bad state after compaction: live=%d next=%d", m.live, m.next))
	}
}

func roundPow2(x int) int {
	p := 1
	for p < x {
		p *= 2
	}
	return p
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int { return m.live }

// Cap returns the capacity of the backing arrays.
func (m *Map[V]) Cap() int { return len(m.keys) }
