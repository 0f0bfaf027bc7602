package zvm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DustinCampbell/ZDebug-sub001/internal/testutil"
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

func ztextWords(s string) []uint16 {
	data := testutil.EncodeZText(s, 0)
	ws := make([]uint16, len(data)/2)
	for i := range ws {
		ws[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return ws
}

func TestPrint(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(3)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "print", Text: ztextWords("hello")},
		zinstr.Op{Name: "print_num", Operands: large(0xFFFB)},
		zinstr.Op{Name: "new_line"},
		zinstr.Op{Name: "print_char", Operands: large('A')},
		zinstr.Op{Name: "print_ret", Text: ztextWords(" world")},
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, "hello-5\nA world\n", h.screen.out.String())
	require.Equal(t, uint16(1), h.global(t, 0))
}

func TestPrintObject(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	sb.Objects = []testutil.Object{{Name: "brass lantern"}}
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "print_obj", Operands: large(1)},
		rtrue,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, "brass lantern", h.screen.out.String())
}

func TestMemoryStream(t *testing.T) {
	t.Parallel()
	const a = testutil.ScratchAddr
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "print", Text: ztextWords("before")},
		zinstr.Op{Name: "output_stream", Operands: large(3, a)},
		zinstr.Op{Name: "print_num", Operands: large(123)},
		zinstr.Op{Name: "output_stream", Operands: large(3, a+0x20)},
		zinstr.Op{Name: "print", Text: ztextWords("inner")},
		zinstr.Op{Name: "output_stream", Operands: large(0xFFFD)},
		zinstr.Op{Name: "new_line"},
		zinstr.Op{Name: "output_stream", Operands: large(0xFFFD)},
		zinstr.Op{Name: "print", Text: ztextWords("after")},
		rtrue,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, "beforeafter", h.screen.out.String())

	m := h.vm.Memory()
	n, err := m.ReadU16(a)
	require.NoError(t, err)
	require.Equal(t, uint16(4), n)
	data, err := m.ReadBytes(a+2, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{'1', '2', '3', 13}, data)

	n, err = m.ReadU16(a + 0x20)
	require.NoError(t, err)
	require.Equal(t, uint16(5), n)
	data, err = m.ReadBytes(a+0x22, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("inner"), data)
}

func TestTranscript(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "print", Text: ztextWords("one")},
		zinstr.Op{Name: "output_stream", Operands: large(2)},
		zinstr.Op{Name: "print", Text: ztextWords("two")},
		zinstr.Op{Name: "output_stream", Operands: large(0xFFFE)},
		zinstr.Op{Name: "print", Text: ztextWords("three")},
		rtrue,
	)
	var transcript bytes.Buffer
	h := newHarness(t, sb, Env{Transcript: &transcript})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, "onetwothree", h.screen.out.String())
	require.Equal(t, "two", transcript.String())
}

func TestLineInput(t *testing.T) {
	t.Parallel()
	const text, parse = testutil.ScratchAddr, testutil.ScratchAddr + 0x40
	sb := testutil.NewStory(5)
	sb.Words = []string{"open", "box"}
	sb.Patch[text] = []byte{20, 0}
	sb.Patch[parse] = []byte{4}
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "push", Operands: large(77)},
		zinstr.Op{Name: "aread", Operands: large(text, parse), Store: zinstr.StoreTo(zinstr.GlobalVar(1))},
		popped,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, AwaitingInput, h.vm.State())
	require.Equal(t, &InputRequest{Kind: LineInput, MaxChars: 20}, h.vm.InputRequest())
	require.Equal(t, []uint16{77}, h.vm.Stack())
	require.Error(t, h.vm.SubmitChar('x'))

	// running again without input does nothing
	require.Equal(t, uint64(0), h.vm.Run(testutil.Context(t), 100))

	require.NoError(t, h.vm.SubmitLine("Open Box"))
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, Halted, h.vm.State())
	require.Equal(t, uint16(77), h.global(t, 0))
	require.Equal(t, uint16(readTerminator), h.global(t, 1))

	m := h.vm.Memory()
	got, err := m.ReadBytes(text+1, 9)
	require.NoError(t, err)
	require.Equal(t, append([]byte{8}, "open box"...), got)

	entries, err := m.ReadBytes(parse+1, 1+8)
	require.NoError(t, err)
	boxAddr := uint16(sb.DictEntryAddr(0))
	openAddr := uint16(sb.DictEntryAddr(1))
	require.Equal(t, []byte{
		2,
		byte(openAddr >> 8), byte(openAddr), 4, 2,
		byte(boxAddr >> 8), byte(boxAddr), 3, 7,
	}, entries)

	require.ErrorAs(t, h.vm.SubmitLine("again"), &ErrNotAwaitingInput{})
}

func TestLineInputV3(t *testing.T) {
	t.Parallel()
	const text, parse = testutil.ScratchAddr, testutil.ScratchAddr + 0x40
	sb := testutil.NewStory(3)
	sb.Objects = []testutil.Object{{Name: "kitchen"}}
	sb.Globals = map[int]uint16{0: 1, 1: 5, 2: 12}
	sb.Words = []string{"look"}
	sb.Patch[text] = []byte{6}
	sb.Patch[parse] = []byte{2}
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "sread", Operands: large(text, parse)},
		rtrue,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.Equal(t, AwaitingInput, h.vm.State())
	require.Equal(t, 5, h.vm.InputRequest().MaxChars)
	require.Equal(t, []StatusLine{{Location: "kitchen", Score: 5, Turns: 12}}, h.screen.status)

	require.NoError(t, h.vm.SubmitLine("look around"))
	h.run(t)
	require.NoError(t, h.vm.Err())

	m := h.vm.Memory()
	got, err := m.ReadBytes(text+1, 6)
	require.NoError(t, err)
	require.Equal(t, []byte("look \x00"), got)
	entries, err := m.ReadBytes(parse+1, 1+4)
	require.NoError(t, err)
	look := uint16(sb.DictEntryAddr(0))
	require.Equal(t, []byte{1, byte(look >> 8), byte(look), 4, 1}, entries)
}

func TestReadChar(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "read_char", Operands: large(1), Store: sp},
		popped,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.Equal(t, AwaitingInput, h.vm.State())
	require.Equal(t, CharInput, h.vm.InputRequest().Kind)
	require.Error(t, h.vm.SubmitLine("no"))
	require.NoError(t, h.vm.SubmitChar('a'))
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16('a'), h.global(t, 0))
}

func TestTimedInputWarns(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "read_char", Operands: large(1, 10, 0x1234), Store: sp},
		popped,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.True(t, h.vm.InputRequest().Timed)
	require.Len(t, h.log.msgs, 1)
}

func TestTokeniseUnknownWords(t *testing.T) {
	t.Parallel()
	const text, parse = testutil.ScratchAddr, testutil.ScratchAddr + 0x40
	sb := testutil.NewStory(5)
	sb.Words = []string{"take"}
	sb.Patch[text] = append([]byte{20, 8}, "take lamp"...)
	sb.Patch[parse] = []byte{4, 0, 0xAA, 0xBB, 0, 0, 0xCC, 0xDD}
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "tokenise", Operands: large(text, parse, 0, 1)},
		rtrue,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	got, err := h.vm.Memory().ReadBytes(parse+1, 9)
	require.NoError(t, err)
	take := uint16(sb.DictEntryAddr(0))
	// the text buffer holds 8 characters, so "lamp" is cut to "lam", which is not in the
	// dictionary, and its entry is left alone
	require.Equal(t, []byte{2, byte(take >> 8), byte(take), 4, 2, 0xCC, 0xDD, 0, 0}, got)
}

func TestEncodeText(t *testing.T) {
	t.Parallel()
	const a = testutil.ScratchAddr
	sb := testutil.NewStory(5)
	sb.Patch[a] = []byte("xxlamp")
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "encode_text", Operands: large(a, 4, 2, a+0x10)},
		rtrue,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	got, err := h.vm.Memory().ReadBytes(a+0x10, 6)
	require.NoError(t, err)
	require.Equal(t, testutil.EncodeZText("lamp", 9), got)
}

func TestUndo(t *testing.T) {
	t.Parallel()
	g1 := zinstr.GlobalVar(1).Byte()
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "save_undo", Store: zinstr.StoreTo(zinstr.GlobalVar(2))},
		zinstr.Op{Name: "je", Operands: []zinstr.Operand{zinstr.Var(zinstr.GlobalVar(2)), zinstr.Large(2)}, Branch: ifTrue},
		zinstr.Op{Name: "store", Operands: []zinstr.Operand{zinstr.Small(g1), zinstr.Large(42)}},
		zinstr.Op{Name: "restore_undo", Store: zinstr.StoreTo(zinstr.GlobalVar(3))},
		rfalse,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(1), h.global(t, 0))
	require.Equal(t, uint16(0), h.global(t, 1))
	require.Equal(t, uint16(2), h.global(t, 2))
}

func TestRestoreUndoEmpty(t *testing.T) {
	t.Parallel()
	got := runBody(t, 5,
		zinstr.Op{Name: "restore_undo", Store: sp},
		popped,
	)
	require.Equal(t, uint16(0), got)
}

func TestSaveRestore(t *testing.T) {
	t.Parallel()
	g1 := zinstr.GlobalVar(1).Byte()
	build := func() *testutil.StoryBuilder {
		sb := testutil.NewStory(5)
		setProgram(t, sb, 0, nil,
			zinstr.Op{Name: "save", Store: zinstr.StoreTo(zinstr.GlobalVar(2))},
			zinstr.Op{Name: "je", Operands: []zinstr.Operand{zinstr.Var(zinstr.GlobalVar(2)), zinstr.Large(2)}, Branch: ifTrue},
			zinstr.Op{Name: "store", Operands: []zinstr.Operand{zinstr.Small(g1), zinstr.Large(7)}},
			zinstr.Op{Name: "restore", Store: zinstr.StoreTo(zinstr.GlobalVar(3))},
			rfalse,
		)
		return sb
	}

	h := newHarness(t, build(), Env{Snapshots: &memSnapshots{}})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(1), h.global(t, 0))
	require.Equal(t, uint16(0), h.global(t, 1))
	require.Equal(t, uint16(2), h.global(t, 2))

	// without a Snapshotter both fail
	h = newHarness(t, build(), Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(0), h.global(t, 0))
	require.Equal(t, uint16(0), h.global(t, 2))
	require.Equal(t, uint16(0), h.global(t, 3))
	require.NotEmpty(t, h.log.msgs)
}

func TestSaveBranchV3(t *testing.T) {
	t.Parallel()
	snaps := &memSnapshots{}
	sb := testutil.NewStory(3)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "save", Branch: ifTrue},
		rfalse,
	)
	h := newHarness(t, sb, Env{Snapshots: snaps})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(1), h.global(t, 0))
	require.NotNil(t, snaps.data)
}

func TestRestoreWrongStory(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil, rtrue)
	h := newHarness(t, sb, Env{})
	data, err := h.vm.Snapshot(h.vm.PC())
	require.NoError(t, err)

	other := testutil.NewStory(5)
	setProgram(t, other, 0, nil, rfalse)
	h2 := newHarness(t, other, Env{})
	require.ErrorIs(t, h2.vm.Restore(data), ErrWrongStory)
}

func TestRestart(t *testing.T) {
	t.Parallel()
	const a = testutil.ScratchAddr
	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil, rtrue)
	h := newHarness(t, sb, Env{})
	m := h.vm.Memory()
	require.NoError(t, m.WriteU8(a, 0xEE))
	require.NoError(t, h.vm.setTranscript(true))
	h.run(t)
	require.Equal(t, Halted, h.vm.State())

	require.NoError(t, h.vm.Restart())
	require.Equal(t, Running, h.vm.State())
	require.Equal(t, testutil.CodeAddr, h.vm.PC())
	b, err := m.ReadU8(a)
	require.NoError(t, err)
	require.Equal(t, uint8(0), b)
	flags2, err := zheader.ReadFlags2(m)
	require.NoError(t, err)
	require.Equal(t, uint16(flags2Transcript), flags2&flags2Transcript)
	n, err := zheader.ReadInterpreterNumber(m)
	require.NoError(t, err)
	require.Equal(t, uint8(DefaultInterpreterNumber), n)
}

func TestVerify(t *testing.T) {
	t.Parallel()
	got := runBody(t, 5, zinstr.Op{Name: "verify", Branch: ifTrue}, rfalse)
	require.Equal(t, uint16(1), got)

	sb := testutil.NewStory(5)
	setProgram(t, sb, 0, nil, zinstr.Op{Name: "verify", Branch: ifTrue}, rfalse)
	story := sb.Build()
	story[len(story)-1]++
	h := &harness{screen: &recorder{}, log: &messages{}}
	vm, err := New(story, Env{Screen: h.screen, Log: h.log})
	require.NoError(t, err)
	h.vm = vm
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(0), h.global(t, 0))
	require.Len(t, h.log.msgs, 1)
}

func TestUnsupportedV6(t *testing.T) {
	t.Parallel()
	sb := testutil.NewStory(6)
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "picture_data", Operands: large(1, testutil.ScratchAddr), Branch: ifTrue},
		zinstr.Op{Name: "draw_picture", Operands: large(1)},
		zinstr.Op{Name: "draw_picture", Operands: large(1)},
		rfalse,
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(0), h.global(t, 0))
	require.Equal(t, []string{"picture_data is not supported", "draw_picture is not supported"}, h.log.msgs)
}

func TestUserStack(t *testing.T) {
	t.Parallel()
	const a = testutil.ScratchAddr
	sb := testutil.NewStory(6)
	// two free slots
	sb.Patch[a] = []byte{0, 2}
	setProgram(t, sb, 0, nil,
		zinstr.Op{Name: "push_stack", Operands: large(5, a), Branch: zinstr.BranchTo(false, zinstr.BranchReturnFalse)},
		zinstr.Op{Name: "push_stack", Operands: large(6, a), Branch: zinstr.BranchTo(false, zinstr.BranchReturnFalse)},
		zinstr.Op{Name: "push_stack", Operands: large(7, a), Branch: ifTrue},
		zinstr.Op{Name: "pull", Operands: large(a), Store: zinstr.StoreTo(zinstr.GlobalVar(1))},
		zinstr.Op{Name: "pull", Operands: large(a), Store: zinstr.StoreTo(zinstr.GlobalVar(2))},
		zinstr.Op{Name: "ret", Operands: large(9)},
	)
	h := newHarness(t, sb, Env{})
	h.run(t)
	require.NoError(t, h.vm.Err())
	require.Equal(t, uint16(9), h.global(t, 0))
	require.Equal(t, uint16(6), h.global(t, 1))
	require.Equal(t, uint16(5), h.global(t, 2))
}
