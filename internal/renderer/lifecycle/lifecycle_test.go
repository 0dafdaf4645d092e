package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDisposeReverseOrder(t *testing.T) {
	s := NewStore()

	var order []int
	for i := 1; i <= 3; i++ {
		s.AddFunc(func() { order = append(order, i) })
	}
	require.Equal(t, 3, s.Len())

	s.Dispose()

	assert.Equal(t, []int{3, 2, 1}, order)
	assert.True(t, s.IsDisposed())
	assert.Equal(t, 0, s.Len())
}

func TestStoreDisposeIdempotent(t *testing.T) {
	s := NewStore()

	calls := 0
	s.AddFunc(func() { calls++ })

	s.Dispose()
	s.Dispose()

	assert.Equal(t, 1, calls)
}

func TestStoreAddAfterDispose(t *testing.T) {
	s := NewStore()
	s.Dispose()

	released := false
	s.AddFunc(func() { released = true })

	assert.True(t, released, "resource added after dispose should be released immediately")
	assert.Equal(t, 0, s.Len())
}

func TestStoreAddNil(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Add(nil))
	assert.Equal(t, 0, s.Len())
}

func TestOnce(t *testing.T) {
	calls := 0
	d := Once(func() { calls++ })

	d.Dispose()
	d.Dispose()

	assert.Equal(t, 1, calls)
}
