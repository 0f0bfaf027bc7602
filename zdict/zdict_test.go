package zdict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DustinCampbell/ZDebug-sub001/internal/testutil"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/ztext"
)

func load(t testing.TB, sb *testutil.StoryBuilder, addr int) *Dictionary {
	m := zmem.New(sb.Build())
	codec, err := ztext.NewCodec(m)
	require.NoError(t, err)
	d, err := Load(m, codec, addr)
	require.NoError(t, err)
	return d
}

func TestLookup(t *testing.T) {
	t.Parallel()
	for _, v := range []uint8{3, 5} {
		sb := testutil.NewStory(v)
		sb.Words = []string{"take", "lamp", "north", "lantern", "go", "examine"}
		d := load(t, sb, testutil.DictionaryAddr)
		require.Equal(t, len(sb.Words), d.Len())

		for i, w := range sb.SortedWords() {
			addr, ok := d.TryLookupWord([]byte(w))
			require.True(t, ok, w)
			require.Equal(t, uint16(sb.DictEntryAddr(i)), addr, w)
		}
		_, ok := d.TryLookupWord([]byte("xyzzy"))
		require.False(t, ok)
	}
}

func TestLookupTruncates(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(3)
	sb.Words = []string{"lanter"}
	d := load(t, sb, testutil.DictionaryAddr)
	// only 6 characters are significant in version 3
	_, ok := d.TryLookupWord([]byte("lantern"))
	require.True(t, ok)
}

func TestUnsortedDictionary(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	addr := testutil.ScratchAddr
	table := []byte{0, 9, 0xFF, 0xFE}
	table = append(table, testutil.EncodeZText("zebra", 9)...)
	table = append(table, 0, 0, 0)
	table = append(table, testutil.EncodeZText("apple", 9)...)
	table = append(table, 0, 0, 0)
	sb.Patch[addr] = table

	d := load(t, sb, addr)
	require.Equal(t, 2, d.Len())
	got, ok := d.TryLookupWord([]byte("apple"))
	require.True(t, ok)
	require.Equal(t, uint16(addr+4+9), got)
}

func TestEntries(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	sb.Words = []string{"open", "door"}
	d := load(t, sb, testutil.DictionaryAddr)
	es, err := d.Entries()
	require.NoError(t, err)
	require.Len(t, es, 2)
	require.Equal(t, "door", es[0].Text)
	require.Equal(t, "open", es[1].Text)
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	toks := Tokenize([]byte("  take lamp,then  go."), []byte{',', '.'})
	type tok struct {
		Text          string
		Start, Length int
	}
	var got []tok
	for _, x := range toks {
		got = append(got, tok{string(x.Text), x.Start, x.Length})
	}
	require.Equal(t, []tok{
		{"take", 2, 4},
		{"lamp", 7, 4},
		{",", 11, 1},
		{"then", 12, 4},
		{"go", 18, 2},
		{".", 20, 1},
	}, got)
	require.Empty(t, Tokenize([]byte("   "), nil))
}
