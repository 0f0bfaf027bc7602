package zinstr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

func decoder(t testing.TB, version uint8) *Decoder {
	tab, err := zop.TableFor(version)
	require.NoError(t, err)
	return NewDecoder(tab)
}

func decodeBytes(t testing.TB, version uint8, data []byte) (*Instruction, error) {
	return decoder(t, version).DecodeAt(zmem.New(data), 0)
}

func TestDecodeVariable(t *testing.T) {
	t.Parallel()
	require.Equal(t, Variable{Kind: Stack}, DecodeVariable(0))
	require.Equal(t, Variable{Kind: Local, Index: 0}, DecodeVariable(1))
	require.Equal(t, Variable{Kind: Local, Index: 14}, DecodeVariable(0x0F))
	require.Equal(t, Variable{Kind: Global, Index: 0}, DecodeVariable(0x10))
	require.Equal(t, Variable{Kind: Global, Index: 239}, DecodeVariable(0xFF))
	for b := 0; b < 256; b++ {
		require.Equal(t, uint8(b), DecodeVariable(uint8(b)).Byte())
	}
}

func TestBranchDecoding(t *testing.T) {
	t.Parallel()
	// jz #00 ?[+5]
	ins, err := decodeBytes(t, 5, []byte{0x90, 0x00, 0xC5})
	require.NoError(t, err)
	require.Equal(t, Branch{Condition: true, Offset: 5, Short: true}, *ins.Branch)
	require.Equal(t, 3, ins.Length)

	// jz #00 ?~[-1]
	ins, err = decodeBytes(t, 5, []byte{0x90, 0x00, 0x3F, 0xFF})
	require.NoError(t, err)
	require.False(t, ins.Branch.Condition)
	require.False(t, ins.Branch.Short)
	require.Equal(t, int16(-1), ins.Branch.Offset)
	require.Equal(t, 4, ins.Length)

	// largest positive two byte offset
	ins, err = decodeBytes(t, 5, []byte{0x90, 0x00, 0x1F, 0xFF})
	require.NoError(t, err)
	require.Equal(t, int16(0x1FFF), ins.Branch.Offset)
}

func TestDecodeForms(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Name    string
		Version uint8
		Data    []byte
		Op      string
		Form    Form
		Kinds   []OperandKind
		Values  []uint16
		Store   bool
		Branch  bool
		Length  int
	}
	tcs := []testCase{
		{
			Name: "long small small", Version: 3,
			Data: []byte{0x14, 0x01, 0x02, 0x00},
			Op:   "add", Form: LongForm,
			Kinds: []OperandKind{SmallConstant, SmallConstant}, Values: []uint16{1, 2},
			Store: true, Length: 4,
		},
		{
			Name: "long var var", Version: 3,
			Data: []byte{0x74, 0x01, 0x10, 0x00},
			Op:   "add", Form: LongForm,
			Kinds: []OperandKind{VariableOperand, VariableOperand}, Values: []uint16{1, 0x10},
			Store: true, Length: 4,
		},
		{
			Name: "long small var", Version: 3,
			Data: []byte{0x21, 0x05, 0x01, 0xC0},
			Op:   "je", Form: LongForm,
			Kinds: []OperandKind{SmallConstant, VariableOperand}, Values: []uint16{5, 1},
			Branch: true, Length: 4,
		},
		{
			Name: "short large", Version: 3,
			Data: []byte{0x8C, 0x12, 0x34},
			Op:   "jump", Form: ShortForm,
			Kinds: []OperandKind{LargeConstant}, Values: []uint16{0x1234},
			Length: 3,
		},
		{
			Name: "short var", Version: 3,
			Data: []byte{0xA0, 0x00, 0xC2},
			Op:   "jz", Form: ShortForm,
			Kinds: []OperandKind{VariableOperand}, Values: []uint16{0},
			Branch: true, Length: 3,
		},
		{
			Name: "zero op", Version: 3,
			Data: []byte{0xB0},
			Op:   "rtrue", Form: ShortForm,
			Length: 1,
		},
		{
			Name: "variable 2op", Version: 5,
			Data: []byte{0xC1, 0x57, 0x01, 0x02, 0x03, 0x41},
			Op:   "je", Form: VariableForm,
			Kinds: []OperandKind{SmallConstant, SmallConstant, SmallConstant}, Values: []uint16{1, 2, 3},
			Branch: true, Length: 6,
		},
		{
			Name: "call_vs", Version: 5,
			Data: []byte{0xE0, 0x2F, 0x04, 0x00, 0x01, 0x00},
			Op:   "call_vs", Form: VariableForm,
			Kinds: []OperandKind{LargeConstant, VariableOperand}, Values: []uint16{0x0400, 1},
			Store: true, Length: 6,
		},
		{
			Name: "no operands", Version: 5,
			Data: []byte{0xE8, 0xFF},
			Op:   "push", Form: VariableForm,
			Length: 2,
		},
		{
			Name: "extended", Version: 5,
			Data: []byte{0xBE, 0x02, 0x5F, 0x01, 0x02, 0x00},
			Op:   "log_shift", Form: ExtendedForm,
			Kinds: []OperandKind{SmallConstant, SmallConstant}, Values: []uint16{1, 2},
			Store: true, Length: 6,
		},
		{
			Name: "call_vs2", Version: 5,
			Data: []byte{0xEC, 0x15, 0x7F, 0x04, 0x00, 2, 3, 4, 5, 0x00},
			Op:   "call_vs2", Form: VariableForm,
			Kinds:  []OperandKind{LargeConstant, SmallConstant, SmallConstant, SmallConstant, SmallConstant},
			Values: []uint16{0x0400, 2, 3, 4, 5},
			Store:  true, Length: 10,
		},
		{
			Name: "call_vs2 first byte not full", Version: 5,
			Data: []byte{0xEC, 0x3F, 0x55, 0x04, 0x00, 0x00},
			Op:   "call_vs2", Form: VariableForm,
			Kinds: []OperandKind{LargeConstant}, Values: []uint16{0x0400},
			Store: true, Length: 6,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			ins, err := decodeBytes(t, tc.Version, tc.Data)
			require.NoError(t, err)
			require.Equal(t, tc.Op, ins.Opcode.Name)
			require.Equal(t, tc.Form, ins.Form)
			var kinds []OperandKind
			var values []uint16
			for _, o := range ins.Operands {
				kinds = append(kinds, o.Kind)
				values = append(values, o.Value)
			}
			require.Equal(t, tc.Kinds, kinds)
			require.Equal(t, tc.Values, values)
			require.Equal(t, tc.Store, ins.Store != nil)
			require.Equal(t, tc.Branch, ins.Branch != nil)
			require.Equal(t, tc.Length, ins.Length)
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Parallel()
	ins, err := decodeBytes(t, 3, []byte{0xB2, 0x11, 0x22, 0x33, 0x44, 0x94, 0xA5})
	require.NoError(t, err)
	require.Equal(t, "print", ins.Opcode.Name)
	require.Equal(t, []uint16{0x1122, 0x3344, 0x94A5}, ins.Text)
	require.Equal(t, 7, ins.Length)
}

func TestUnknownOpcode(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Version uint8
		Data    []byte
	}
	tcs := []testCase{
		// 2OP:00 is never defined
		{5, []byte{0x00, 0x00, 0x00}},
		// extended opcodes do not exist before version 5
		{3, []byte{0xBE, 0x00, 0xFF}},
		// call_1s is version 4+
		{3, []byte{0x98, 0x01, 0x00}},
	}
	for _, tc := range tcs {
		_, err := decodeBytes(t, tc.Version, tc.Data)
		var uo ErrUnknownOpcode
		require.True(t, errors.As(err, &uo), "%v", err)
		require.Equal(t, tc.Version, uo.Version)
	}
}

func TestReadPastEnd(t *testing.T) {
	t.Parallel()
	// print with unterminated text
	_, err := decodeBytes(t, 3, []byte{0xB2, 0x11, 0x22})
	var rpe zmem.ErrReadPastEnd
	require.True(t, errors.As(err, &rpe))
	// add missing store byte
	_, err = decodeBytes(t, 3, []byte{0x14, 0x01, 0x02})
	require.True(t, errors.As(err, &rpe))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	programs := map[uint8][]byte{
		3: {
			0x14, 0x01, 0x02, 0x00, // add
			0x74, 0x01, 0x10, 0x00, // add
			0x21, 0x05, 0x01, 0xC0, // je
			0x8C, 0x12, 0x34, // jump
			0xA0, 0x00, 0xC2, // jz
			0x90, 0x00, 0x3F, 0xFF, // jz two byte branch
			0xB2, 0x11, 0x22, 0x94, 0xA5, // print
			0xE0, 0x3F, 0x04, 0x00, 0x00, // call
			0xB0, // rtrue
		},
		5: {
			0xC1, 0x57, 0x01, 0x02, 0x03, 0x41, // je
			0xBE, 0x02, 0x5F, 0x01, 0x02, 0x00, // log_shift
			0xEC, 0x15, 0x7F, 0x04, 0x00, 2, 3, 4, 5, 0x00, // call_vs2
			0xFF, 0x7F, 0x01, 0xC0, // check_arg_count
			0xE8, 0xBF, 0x01, // push
			0xB1, // rfalse
		},
	}
	for v, prog := range programs {
		d := decoder(t, v)
		m := zmem.New(prog)
		for addr := 0; addr < len(prog); {
			ins, err := d.DecodeAt(m, addr)
			require.NoError(t, err)
			data, err := Encode(ins)
			require.NoError(t, err)
			require.Equal(t, prog[addr:addr+ins.Length], data, "%v", ins)

			again, err := d.DecodeAt(zmem.New(data), 0)
			require.NoError(t, err)
			again.Address = ins.Address
			require.Equal(t, ins, again)
			addr += ins.Length
		}
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()
	tab, err := zop.TableFor(5)
	require.NoError(t, err)
	data, err := Assemble(tab,
		Op{Name: "add", Operands: []Operand{Small(1), Large(1000)}, Store: StoreTo(StackVar())},
		Op{Name: "je", Operands: []Operand{Var(LocalVar(0)), Small(3)}, Branch: BranchTo(true, 10)},
		Op{Name: "jz", Operands: []Operand{Small(0)}, Branch: BranchTo(false, -20)},
		Op{Name: "rtrue"},
	)
	require.NoError(t, err)

	d := NewDecoder(tab)
	m := zmem.New(data)
	ins, err := d.DecodeAt(m, 0)
	require.NoError(t, err)
	require.Equal(t, VariableForm, ins.Form)
	require.Equal(t, "add", ins.Opcode.Name)

	ins, err = d.DecodeAt(m, ins.Next())
	require.NoError(t, err)
	require.Equal(t, LongForm, ins.Form)
	require.True(t, ins.Branch.Short)
	require.Equal(t, int16(10), ins.Branch.Offset)

	ins, err = d.DecodeAt(m, ins.Next())
	require.NoError(t, err)
	require.False(t, ins.Branch.Short)
	require.Equal(t, int16(-20), ins.Branch.Offset)

	ins, err = d.DecodeAt(m, ins.Next())
	require.NoError(t, err)
	require.Equal(t, "rtrue", ins.Opcode.Name)
	require.Equal(t, len(data), ins.Next())
}

func TestString(t *testing.T) {
	t.Parallel()
	ins, err := decodeBytes(t, 5, []byte{0x21, 0x05, 0x01, 0xC5})
	require.NoError(t, err)
	require.Equal(t, "00000: je #05 L00 ?[+5] (00007)", ins.String())
}
