package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPop(t *testing.T) {
	t.Parallel()
	rb := New[int](3)
	rb.PushBack(1)
	rb.PushBack(2)
	rb.PushFront(0)
	require.Equal(t, 3, rb.Len())
	require.Equal(t, 0, rb.At(0))
	require.Equal(t, 2, rb.At(2))

	require.Equal(t, 2, rb.PopBack())
	require.Equal(t, 0, rb.PopFront())
	require.Equal(t, 1, rb.PopFront())
	require.Equal(t, 0, rb.Len())
}

func TestEviction(t *testing.T) {
	t.Parallel()
	rb := New[int](3)
	for i := 0; i < 5; i++ {
		rb.PushBack(i)
	}
	require.Equal(t, 3, rb.Len())
	require.Equal(t, []int{2, 3, 4}, drain(&rb))

	for i := 0; i < 5; i++ {
		rb.PushFront(i)
	}
	require.Equal(t, []int{4, 3, 2}, drain(&rb))
}

func TestAtOutOfRange(t *testing.T) {
	t.Parallel()
	rb := New[string](2)
	rb.PushBack("a")
	require.Panics(t, func() { rb.At(1) })
	require.Panics(t, func() { rb.At(-1) })
	rb.Clear()
	require.Equal(t, 0, rb.Len())
	require.Panics(t, func() { rb.PopBack() })
}

func drain(rb *RingBuf[int]) []int {
	var ret []int
	for rb.Len() > 0 {
		ret = append(ret, rb.PopFront())
	}
	return ret
}
