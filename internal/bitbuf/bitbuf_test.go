package bitbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMSBFirst(t *testing.T) {
	t.Parallel()
	d := []byte{0x00, 0x00}
	b := FromBytes(d)
	b.Put(0, 1)
	b.Put(9, 1)
	require.Equal(t, []byte{0x80, 0x40}, d)
	require.Equal(t, Bit(1), b.Get(0))
	require.Equal(t, Bit(0), b.Get(1))
	require.Equal(t, []int{0, 9}, b.Ones())

	b.Put(0, 0)
	require.Equal(t, []byte{0x00, 0x40}, d)
}

func TestSlice(t *testing.T) {
	t.Parallel()
	b := New(16)
	s := b.Slice(8, 16)
	s.Put(7, 1)
	require.Equal(t, []byte{0x00, 0x01}, b.Bytes())
	require.Equal(t, 8, s.Len())
	require.Panics(t, func() { s.Get(8) })
}
