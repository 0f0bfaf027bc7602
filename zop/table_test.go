package zop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Parallel()
	for v := uint8(MinVersion); v <= MaxVersion; v++ {
		tab, err := NewTable(v)
		require.NoError(t, err, "version %d", v)
		require.NotEmpty(t, tab.All())
	}
	_, err := NewTable(0)
	require.Error(t, err)
	_, err = NewTable(9)
	require.Error(t, err)
}

func TestVersionOverrides(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Version uint8
		Kind    Kind
		Number  uint8
		Name    string
		Flags   Flags
	}
	tcs := []testCase{
		{3, VarOp, 0x00, "call", store | call},
		{4, VarOp, 0x00, "call_vs", store | call},
		{5, VarOp, 0x09, "pull", byref},
		{6, VarOp, 0x09, "pull", store},
		{7, VarOp, 0x09, "pull", byref},
		{3, VarOp, 0x04, "sread", input},
		{4, VarOp, 0x04, "sread", input},
		{5, VarOp, 0x04, "aread", store | input},
		{3, ZeroOp, 0x05, "save", branch},
		{4, ZeroOp, 0x05, "save", store},
		{4, ZeroOp, 0x09, "pop", 0},
		{5, ZeroOp, 0x09, "catch", store},
		{4, OneOp, 0x0F, "not", store},
		{5, OneOp, 0x0F, "call_1n", call},
		{5, VarOp, 0x0C, "call_vs2", store | call | double},
		{8, VarOp, 0x1A, "call_vn2", call | double},
		{5, OneOp, 0x0E, "load", store | byref},
		{5, TwoOp, 0x0D, "store", byref},
	}
	for _, tc := range tcs {
		tab, err := TableFor(tc.Version)
		require.NoError(t, err)
		op, ok := tab.Lookup(tc.Kind, tc.Number)
		require.True(t, ok, "v%d %v:%02X", tc.Version, tc.Kind, tc.Number)
		require.Equal(t, tc.Name, op.Name)
		require.Equal(t, tc.Flags, op.Flags, "%s flags %v", op.Name, op.Flags)
	}
}

func TestUnregistered(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Version uint8
		Kind    Kind
		Number  uint8
	}
	tcs := []testCase{
		{3, Ext, 0x00},
		{4, Ext, 0x02},
		{5, ZeroOp, 0x05},
		{3, OneOp, 0x08},
		{5, Ext, 0x05},
		{2, ZeroOp, 0x0D},
		{8, TwoOp, 0x00},
	}
	for _, tc := range tcs {
		tab, err := TableFor(tc.Version)
		require.NoError(t, err)
		_, ok := tab.Lookup(tc.Kind, tc.Number)
		require.False(t, ok, "v%d %v:%02X", tc.Version, tc.Kind, tc.Number)
	}
}

func TestTableForIsShared(t *testing.T) {
	t.Parallel()
	a, err := TableFor(5)
	require.NoError(t, err)
	b, err := TableFor(5)
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestByName(t *testing.T) {
	t.Parallel()
	tab, err := TableFor(4)
	require.NoError(t, err)
	op, ok := tab.ByName("save")
	require.True(t, ok)
	require.Equal(t, ZeroOp, op.Kind)
	_, ok = tab.ByName("save_undo")
	require.False(t, ok)

	tab, err = TableFor(5)
	require.NoError(t, err)
	op, ok = tab.ByName("save")
	require.True(t, ok)
	require.Equal(t, Ext, op.Kind)
}
