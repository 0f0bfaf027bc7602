package zinstr

import (
	"encoding/binary"
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

// Encode returns the bytes of ins, using its recorded form and branch width.
func Encode(ins *Instruction) ([]byte, error) {
	op := ins.Opcode
	var out []byte
	switch ins.Form {
	case LongForm:
		if op.Kind != zop.TwoOp || len(ins.Operands) != 2 {
			return nil, fmt.Errorf("zinstr: long form requires a 2OP with 2 operands, have %v", op)
		}
		b := op.Number & 0x1f
		for i, bit := range []uint8{0x40, 0x20} {
			switch ins.Operands[i].Kind {
			case SmallConstant:
			case VariableOperand:
				b |= bit
			default:
				return nil, fmt.Errorf("zinstr: long form cannot encode %v operand", ins.Operands[i].Kind)
			}
		}
		out = append(out, b)
	case ShortForm:
		switch {
		case op.Kind == zop.OneOp && len(ins.Operands) == 1:
			out = append(out, 0x80|uint8(ins.Operands[0].Kind)<<4|op.Number&0x0f)
		case op.Kind == zop.ZeroOp && len(ins.Operands) == 0:
			out = append(out, 0xB0|op.Number&0x0f)
		default:
			return nil, fmt.Errorf("zinstr: short form cannot encode %v with %d operands", op, len(ins.Operands))
		}
	case VariableForm, ExtendedForm:
		switch {
		case ins.Form == ExtendedForm && op.Kind == zop.Ext:
			out = append(out, 0xBE, op.Number)
		case ins.Form == VariableForm && op.Kind == zop.TwoOp:
			out = append(out, 0xC0|op.Number&0x1f)
		case ins.Form == VariableForm && op.Kind == zop.VarOp:
			out = append(out, 0xE0|op.Number&0x1f)
		default:
			return nil, fmt.Errorf("zinstr: %v form cannot encode %v", ins.Form, op)
		}
		limit := 4
		if op.IsDoubleVariable() {
			limit = 8
		}
		if len(ins.Operands) > limit {
			return nil, fmt.Errorf("zinstr: too many operands (%d) for %v", len(ins.Operands), op)
		}
		out = append(out, encodeKindByte(ins.Operands, 0))
		if op.IsDoubleVariable() {
			out = append(out, encodeKindByte(ins.Operands, 4))
		}
	default:
		return nil, fmt.Errorf("zinstr: unknown form %v", ins.Form)
	}

	for _, o := range ins.Operands {
		switch o.Kind {
		case LargeConstant:
			out = binary.BigEndian.AppendUint16(out, o.Value)
		case SmallConstant, VariableOperand:
			out = append(out, uint8(o.Value))
		default:
			return nil, fmt.Errorf("zinstr: cannot encode omitted operand")
		}
	}
	if op.HasStore() {
		if ins.Store == nil {
			return nil, fmt.Errorf("zinstr: %v requires a store variable", op)
		}
		out = append(out, ins.Store.Byte())
	}
	if op.HasBranch() {
		if ins.Branch == nil {
			return nil, fmt.Errorf("zinstr: %v requires a branch", op)
		}
		out = appendBranch(out, *ins.Branch)
	}
	if op.HasText() {
		for _, w := range ins.Text {
			out = binary.BigEndian.AppendUint16(out, w)
		}
	}
	return out, nil
}

func encodeKindByte(ops []Operand, start int) uint8 {
	var kb uint8
	for i := 0; i < 4; i++ {
		k := Omitted
		if start+i < len(ops) {
			k = ops[start+i].Kind
		}
		kb |= uint8(k) << (6 - 2*i)
	}
	return kb
}

func appendBranch(out []byte, br Branch) []byte {
	var cond uint8
	if br.Condition {
		cond = 0x80
	}
	if br.Short {
		return append(out, cond|0x40|uint8(br.Offset)&0x3f)
	}
	x := uint16(br.Offset) & 0x3fff
	return append(out, cond|uint8(x>>8), uint8(x))
}
