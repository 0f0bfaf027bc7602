package ztext

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DustinCampbell/ZDebug-sub001/internal/testutil"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

func words(data []byte) []uint16 {
	ws := make([]uint16, len(data)/2)
	for i := range ws {
		ws[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return ws
}

func pack(zchars ...uint8) []uint16 {
	for len(zchars)%3 != 0 {
		zchars = append(zchars, 5)
	}
	var ws []uint16
	for i := 0; i < len(zchars); i += 3 {
		ws = append(ws, uint16(zchars[i])<<10|uint16(zchars[i+1])<<5|uint16(zchars[i+2]))
	}
	ws[len(ws)-1] |= 0x8000
	return ws
}

func newCodec(t testing.TB, sb *testutil.StoryBuilder) (*Codec, *zmem.Memory) {
	m := zmem.New(sb.Build())
	c, err := NewCodec(m)
	require.NoError(t, err)
	return c, m
}

func TestDecodeLowercase(t *testing.T) {
	t.Parallel()
	for _, v := range []uint8{1, 3, 5, 8} {
		c, _ := newCodec(t, testutil.NewStory(v))
		s, err := c.Decode(words(testutil.EncodeZText("hello world", 0)))
		require.NoError(t, err)
		require.Equal(t, "hello world", s)
	}
}

func TestDecodeShifts(t *testing.T) {
	t.Parallel()
	c, _ := newCodec(t, testutil.NewStory(5))
	// 4 = shift to A1, 5 = shift to A2
	s, err := c.Decode(pack(4, 13, 10, 5, 18, 5, 7, 5, 8))
	require.NoError(t, err)
	require.Equal(t, "He.\n0", s)
}

func TestDecodeShiftLockV1(t *testing.T) {
	t.Parallel()
	c, _ := newCodec(t, testutil.NewStory(1))
	// 4 locks to A1, 2 shifts once to A2, 1 is newline
	s, err := c.Decode(pack(4, 6, 7, 2, 7, 8, 1, 5, 6))
	require.NoError(t, err)
	require.Equal(t, "AB0C\na", s)
}

func TestDecodeEscape(t *testing.T) {
	t.Parallel()
	c, _ := newCodec(t, testutil.NewStory(5))
	// '@' is 64 = 0b00010_00000
	s, err := c.Decode(pack(5, 6, 2, 0, 6))
	require.NoError(t, err)
	require.Equal(t, "@a", s)

	// ZSCII 155 is the first default extra character
	s, err = c.Decode(pack(5, 6, 155>>5, 155&0x1f))
	require.NoError(t, err)
	require.Equal(t, "ä", s)
}

func TestAbbreviations(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(3)
	const table = testutil.ScratchAddr
	const text = testutil.ScratchAddr + 0x50
	// abbreviation 33 (bank 2, index 1) is "the"
	sb.Patch[0x18] = []byte{0x00, table}
	sb.Patch[table+2*33] = []byte{0x00, text / 2}
	sb.Patch[text] = testutil.EncodeZText("the", 0)
	c, _ := newCodec(t, sb)

	s, err := c.Decode(pack(2, 1, 0, 10, 19, 9))
	require.NoError(t, err)
	require.Equal(t, "the end", s)
}

func TestDecodeAt(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	sb.Patch[testutil.ScratchAddr] = testutil.EncodeZText("lantern", 0)
	c, _ := newCodec(t, sb)
	s, n, err := c.DecodeAt(testutil.ScratchAddr)
	require.NoError(t, err)
	require.Equal(t, "lantern", s)
	require.Equal(t, 6, n)
}

func TestCustomAlphabet(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	table := make([]byte, 78)
	copy(table, "zyxwvutsrqponmlkjihgfedcba")
	copy(table[26:], "ZYXWVUTSRQPONMLKJIHGFEDCBA")
	copy(table[52:], "  9876543210.,!?_#'\"/\\-:()")
	sb.Patch[0x34] = []byte{0x00, testutil.ScratchAddr}
	sb.Patch[testutil.ScratchAddr] = table
	c, _ := newCodec(t, sb)

	s, err := c.Decode(pack(6, 31, 5, 7, 5, 8))
	require.NoError(t, err)
	require.Equal(t, "za\n9", s)
	require.Equal(t, pack(31, 30, 29, 5, 5, 5, 5, 5, 5), c.EncodeWord([]byte("abc")))
}

func TestEncodeWord(t *testing.T) {
	t.Parallel()
	c3, _ := newCodec(t, testutil.NewStory(3))
	require.Equal(t, words(testutil.EncodeZText("hello", 6)), c3.EncodeWord([]byte("hello")))
	require.Equal(t, words(testutil.EncodeZText("lantern", 6)), c3.EncodeWord([]byte("lantern")))

	c5, _ := newCodec(t, testutil.NewStory(5))
	require.Equal(t, words(testutil.EncodeZText("lantern", 9)), c5.EncodeWord([]byte("lantern")))
	// punctuation uses a shift to A2
	require.Equal(t, pack(8, 5, 18, 5, 5, 5, 5, 5, 5), c5.EncodeWord([]byte("c.")))
}

func TestZSCII(t *testing.T) {
	t.Parallel()
	c, _ := newCodec(t, testutil.NewStory(5))
	r, ok := c.ZSCIIToRune(13)
	require.True(t, ok)
	require.Equal(t, '\n', r)
	_, ok = c.ZSCIIToRune(1)
	require.False(t, ok)

	z, ok := c.RuneToZSCII('¿')
	require.True(t, ok)
	require.Equal(t, uint16(223), z)
	require.Equal(t, []byte("open door?"), c.ToZSCII("Open DOOR☃"))
}
