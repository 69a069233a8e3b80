package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A int
	B string
}

func TestPointerIdentity(t *testing.T) {
	m := New[int32]()

	a := &payload{A: 1, B: "x"}
	b := &payload{A: 1, B: "x"}
	require.Equal(t, *a, *b, "instances are value-equal on purpose")

	require.True(t, m.Put(a, 42))
	require.True(t, m.Put(b, 43))

	va, ok := m.Get(a)
	require.True(t, ok)
	vb, ok := m.Get(b)
	require.True(t, ok)

	assert.Equal(t, int32(42), va)
	assert.Equal(t, int32(43), vb, "value-equal instances must not collapse")
	assert.Equal(t, 2, m.Len())
}

func TestSameInstanceHits(t *testing.T) {
	m := New[int32]()
	o := &payload{}

	m.Put(o, 42)
	v, ok := m.Get(o)
	require.True(t, ok)
	assert.Equal(t, int32(42), v)

	m.Put(o, 99) // overwrite
	v, _ = m.Get(o)
	assert.Equal(t, int32(99), v)
	assert.Equal(t, 1, m.Len())
}

func TestDelete(t *testing.T) {
	m := New[int32]()
	o := &payload{}

	m.Put(o, 42)
	m.Delete(o)
	_, ok := m.Get(o)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	m.Delete(o) // deleting again is fine
}

func TestStructAndFirstFieldAreDistinct(t *testing.T) {
	// A struct and its first field share an address; the type half of
	// the key must keep them apart.
	o := &payload{}

	ks, ok := KeyOf(o)
	require.True(t, ok)
	kf, ok := KeyOf(&o.A)
	require.True(t, ok)
	assert.NotEqual(t, ks, kf)

	m := New[int32]()
	m.Put(o, 1)
	m.Put(&o.A, 2)
	assert.Equal(t, 2, m.Len())
}

func TestChanAndMapIdentity(t *testing.T) {
	m := New[int32]()

	c1 := make(chan int)
	c2 := make(chan int)
	mp1 := map[string]int{}
	mp2 := map[string]int{}

	require.True(t, m.Put(c1, 1))
	require.True(t, m.Put(c2, 2))
	require.True(t, m.Put(mp1, 3))
	require.True(t, m.Put(mp2, 4))
	assert.Equal(t, 4, m.Len())

	v, ok := m.Get(c2)
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestValueKindsHaveNoIdentity(t *testing.T) {
	m := New[int32]()

	for _, o := range []any{7, "str", payload{A: 1}, []int{1, 2}, func() {}} {
		_, ok := KeyOf(o)
		assert.False(t, ok, "%T should have no identity", o)
		assert.False(t, m.Put(o, 1))
		_, ok = m.Get(o)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, m.Len())

	m.Delete(7) // no identity, no-op
}

func TestNilHasNoIdentity(t *testing.T) {
	_, ok := KeyOf(nil)
	assert.False(t, ok)
}
