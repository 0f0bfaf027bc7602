package zinstr

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

// ErrUnknownOpcode is returned by the decoder when no opcode is registered for the encoded
// (kind, number) in the story's version.  It is fatal to the program being executed.
type ErrUnknownOpcode struct {
	Address int
	Kind    zop.Kind
	Number  uint8
	Version uint8
}

func (e ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("zinstr: unknown opcode %v:%02X at %#x (version %d)", e.Kind, e.Number, e.Address, e.Version)
}

// Decoder turns bytes into Instructions for a single version.
// It holds no state between instructions.
type Decoder struct {
	table *zop.Table
}

func NewDecoder(table *zop.Table) *Decoder {
	return &Decoder{table: table}
}

func (d *Decoder) Table() *zop.Table {
	return d.table
}

// DecodeAt decodes the instruction at addr.
func (d *Decoder) DecodeAt(m *zmem.Memory, addr int) (*Instruction, error) {
	r, err := m.NewReader(addr)
	if err != nil {
		return nil, err
	}
	return d.Decode(r)
}

// Decode decodes the instruction at the reader's position and advances past it.
func (d *Decoder) Decode(r *zmem.Reader) (*Instruction, error) {
	start := r.Pos()
	b, err := r.NextU8()
	if err != nil {
		return nil, err
	}

	var (
		form   Form
		kind   zop.Kind
		number uint8
		kinds  []OperandKind
		// variable and extended forms have a kind byte
		hasKindByte bool
	)
	switch {
	case b < 0x80:
		form, kind, number = LongForm, zop.TwoOp, b&0x1f
		kinds = []OperandKind{longKind(b & 0x40), longKind(b & 0x20)}
	case b == 0xBE:
		form, kind = ExtendedForm, zop.Ext
		if number, err = r.NextU8(); err != nil {
			return nil, err
		}
		hasKindByte = true
	case b < 0xB0:
		form, kind, number = ShortForm, zop.OneOp, b&0x0f
		kinds = []OperandKind{OperandKind((b >> 4) & 0x03)}
	case b < 0xC0:
		form, kind, number = ShortForm, zop.ZeroOp, b&0x0f
	case b < 0xE0:
		form, kind, number = VariableForm, zop.TwoOp, b&0x1f
		hasKindByte = true
	default:
		form, kind, number = VariableForm, zop.VarOp, b&0x1f
		hasKindByte = true
	}

	op, ok := d.table.Lookup(kind, number)
	if !ok {
		return nil, ErrUnknownOpcode{Address: start, Kind: kind, Number: number, Version: d.table.Version()}
	}

	if hasKindByte {
		kb, err := r.NextU8()
		if err != nil {
			return nil, err
		}
		kinds = decodeKindByte(kb)
		if op.IsDoubleVariable() {
			kb2, err := r.NextU8()
			if err != nil {
				return nil, err
			}
			// operands in the second byte only exist if the first is full.
			if len(kinds) == 4 {
				kinds = append(kinds, decodeKindByte(kb2)...)
			}
		}
	}

	ins := &Instruction{
		Address: start,
		Form:    form,
		Opcode:  op,
	}
	if len(kinds) > 0 {
		ins.Operands = make([]Operand, len(kinds))
	}
	for i, k := range kinds {
		var x uint16
		if k == LargeConstant {
			x, err = r.NextU16()
		} else {
			var b uint8
			b, err = r.NextU8()
			x = uint16(b)
		}
		if err != nil {
			return nil, err
		}
		ins.Operands[i] = Operand{Kind: k, Value: x}
	}

	if op.HasStore() {
		b, err := r.NextU8()
		if err != nil {
			return nil, err
		}
		v := DecodeVariable(b)
		ins.Store = &v
	}
	if op.HasBranch() {
		br, err := decodeBranch(r)
		if err != nil {
			return nil, err
		}
		ins.Branch = &br
	}
	if op.HasText() {
		if ins.Text, err = decodeText(r); err != nil {
			return nil, err
		}
	}
	ins.Length = r.Pos() - start
	return ins, nil
}

func longKind(bit uint8) OperandKind {
	if bit != 0 {
		return VariableOperand
	}
	return SmallConstant
}

// decodeKindByte returns the operand kinds up to but not including the first Omitted.
func decodeKindByte(kb uint8) []OperandKind {
	ret := make([]OperandKind, 0, 4)
	for shift := 6; shift >= 0; shift -= 2 {
		k := OperandKind((kb >> shift) & 0x03)
		if k == Omitted {
			break
		}
		ret = append(ret, k)
	}
	return ret
}

func decodeBranch(r *zmem.Reader) (Branch, error) {
	b1, err := r.NextU8()
	if err != nil {
		return Branch{}, err
	}
	br := Branch{Condition: b1&0x80 != 0}
	if b1&0x40 != 0 {
		br.Short = true
		br.Offset = int16(b1 & 0x3f)
		return br, nil
	}
	b2, err := r.NextU8()
	if err != nil {
		return Branch{}, err
	}
	x := uint16(b1&0x3f)<<8 | uint16(b2)
	if x&0x2000 != 0 {
		x |= 0xC000
	}
	br.Offset = int16(x)
	return br, nil
}

// decodeText reads words up to and including the first one with the top bit set.
func decodeText(r *zmem.Reader) ([]uint16, error) {
	var ret []uint16
	for {
		w, err := r.NextU16()
		if err != nil {
			return nil, err
		}
		ret = append(ret, w)
		if w&0x8000 != 0 {
			return ret, nil
		}
	}
}
