package zcmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DustinCampbell/ZDebug-sub001/internal/testutil"
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

func story(t testing.TB, sb *testutil.StoryBuilder, ops ...zinstr.Op) []byte {
	table, err := zop.TableFor(sb.Version)
	require.NoError(t, err)
	sb.Code, err = zinstr.Assemble(table, ops...)
	require.NoError(t, err)
	return sb.Build()
}

func global(t testing.TB, vm *zvm.Machine, i int) uint16 {
	x, err := vm.Memory().ReadU16(testutil.GlobalsAddr + 2*i)
	require.NoError(t, err)
	return x
}

func lineStory(t testing.TB) []byte {
	sb := testutil.NewStory(5)
	sb.Patch[testutil.ScratchAddr] = []byte{20}
	return story(t, sb,
		zinstr.Op{Name: "aread", Operands: []zinstr.Operand{zinstr.Large(testutil.ScratchAddr), zinstr.Small(0)}, Store: zinstr.StoreTo(zinstr.GlobalVar(1))},
		zinstr.Op{Name: "quit"},
	)
}

func TestPlayLine(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	vm, err := zvm.New(lineStory(t), zvm.Env{})
	require.NoError(t, err)

	require.NoError(t, Play(ctx, vm, strings.NewReader("hello\n")))
	require.NoError(t, vm.Err())
	require.Equal(t, zvm.Halted, vm.State())
	require.Equal(t, uint16(10), global(t, vm, 1))
	data, err := vm.Memory().ReadBytes(testutil.ScratchAddr+1, 6)
	require.NoError(t, err)
	require.Equal(t, append([]byte{5}, "hello"...), data)
}

func TestPlayInputClosed(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	vm, err := zvm.New(lineStory(t), zvm.Env{})
	require.NoError(t, err)

	require.NoError(t, Play(ctx, vm, strings.NewReader("")))
	require.Equal(t, zvm.AwaitingInput, vm.State())
}

func TestPlayChar(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	data := story(t, testutil.NewStory(5),
		zinstr.Op{Name: "read_char", Operands: []zinstr.Operand{zinstr.Small(1)}, Store: zinstr.StoreTo(zinstr.GlobalVar(0))},
		zinstr.Op{Name: "read_char", Operands: []zinstr.Operand{zinstr.Small(1)}, Store: zinstr.StoreTo(zinstr.GlobalVar(1))},
		zinstr.Op{Name: "quit"},
	)
	vm, err := zvm.New(data, zvm.Env{})
	require.NoError(t, err)

	require.NoError(t, Play(ctx, vm, strings.NewReader("xy")))
	require.Equal(t, zvm.Halted, vm.State())
	require.Equal(t, uint16('x'), global(t, vm, 0))
	require.Equal(t, uint16('y'), global(t, vm, 1))
}

func TestPlayFault(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	data := story(t, testutil.NewStory(5),
		zinstr.Op{Name: "div", Operands: []zinstr.Operand{zinstr.Small(1), zinstr.Small(0)}, Store: zinstr.StoreTo(zinstr.StackVar())},
	)
	vm, err := zvm.New(data, zvm.Env{})
	require.NoError(t, err)
	err = Play(ctx, vm, strings.NewReader(""))
	require.ErrorIs(t, err, zvm.ErrDivideByZero)
}

func TestPrintHeader(t *testing.T) {
	t.Parallel()
	h, err := zheader.Read(zmem.New(testutil.NewStory(5).Build()))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, PrintHeader(&buf, h))
	out := buf.String()
	require.Contains(t, out, "Version:           5\n")
	require.Contains(t, out, "Initial PC:        0x0800\n")
	require.Contains(t, out, "Objects:           0x0100\n")
	require.Contains(t, out, fmt.Sprintf("Checksum:          %#06x\n", h.Checksum))
	require.Contains(t, out, "Serial:            260101\n")
	require.Contains(t, out, "Alphabet table:")
	require.NotContains(t, out, "Routines offset:")
}

func TestDisassemble(t *testing.T) {
	t.Parallel()
	data := story(t, testutil.NewStory(5),
		zinstr.Op{Name: "add", Operands: []zinstr.Operand{zinstr.Small(1), zinstr.Small(2)}, Store: zinstr.StoreTo(zinstr.StackVar())},
		zinstr.Op{Name: "quit"},
	)
	m := zmem.New(data)
	addr, err := entryPoint(m)
	require.NoError(t, err)
	require.Equal(t, testutil.CodeAddr, addr)

	var buf bytes.Buffer
	require.NoError(t, Disassemble(&buf, m, addr, 2))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "00800: add"), lines[0])
	require.Equal(t, "00804: quit", lines[1])
}

func TestPrintObjects(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(3)
	sb.Objects = []testutil.Object{
		{Child: 2, Name: "room"},
		{Parent: 1, Sibling: 3, Name: "lamp", Attrs: []int{4}},
		{Parent: 1, Name: "box", Props: []testutil.Prop{{Number: 5, Data: []byte{0, 77}}}},
		{Name: "void"},
	}
	sb.Code = []byte{0xBA} // quit
	vm, err := zvm.New(sb.Build(), zvm.Env{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintObjects(&buf, vm))
	require.Equal(t, strings.Join([]string{
		`[1] "room" attrs=[] props=[]`,
		`  [2] "lamp" attrs=[4] props=[]`,
		`  [3] "box" attrs=[] props=[5]`,
		`[4] "void" attrs=[] props=[]`,
	}, "\n")+"\n", buf.String())
}
