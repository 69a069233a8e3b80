// Package identity implements the object-to-refnum half of the
// tracker's bookkeeping: an associative container keyed by instance
// identity rather than value equality, so that two equal-but-distinct
// objects can never collapse onto one refnum.
//
// Go erases instance identity for plain values when they are boxed into
// an interface, so identity keys exist only for kinds whose interface
// representation carries a stable pointer: pointers, unsafe pointers,
// channels and maps. Objects of any other kind are reported as having no
// identity and the caller falls back to allocating a fresh refnum per
// send, which still upholds the invariant that matters. Funcs are
// excluded because their reflected pointer is the code pointer, which
// distinct closures of one function share.
package identity

import "reflect"

// Key identifies one object instance. The type half keeps a struct
// distinct from its first field, which occupy the same address.
type Key struct {
	typ  reflect.Type
	addr uintptr
}

// KeyOf derives the identity key for o. ok is false when o's kind has no
// stable instance identity.
//
// Holding the address as a uintptr is safe only because the tracker pins
// the keyed object in its reference table for at least as long as the
// key is stored, so the address cannot be recycled under the key.
func KeyOf(o any) (Key, bool) {
	v := reflect.ValueOf(o)
	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map:
		return Key{typ: v.Type(), addr: v.Pointer()}, true
	default:
		return Key{}, false
	}
}

// Map associates object instances with values of type V.
//
// Map is not safe for concurrent use; the tracker serializes access
// under its own mutex.
type Map[V any] struct {
	entries map[Key]V
}

// New returns an empty identity map.
func New[V any]() Map[V] {
	return Map[V]{entries: make(map[Key]V)}
}

// Get returns the value stored for o's instance. ok is false when o has
// no identity or no entry exists.
func (m Map[V]) Get(o any) (V, bool) {
	k, ok := KeyOf(o)
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := m.entries[k]
	return v, ok
}

// Put stores v for o's instance. It stores nothing and reports false
// when o has no identity.
func (m Map[V]) Put(o any, v V) bool {
	k, ok := KeyOf(o)
	if !ok {
		return false
	}
	m.entries[k] = v
	return true
}

// Delete removes o's entry, if any.
func (m Map[V]) Delete(o any) {
	if k, ok := KeyOf(o); ok {
		delete(m.entries, k)
	}
}

// Len returns the number of stored entries.
func (m Map[V]) Len() int { return len(m.entries) }
