package zinstr

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

// Op describes an instruction for Assemble.
type Op struct {
	Name     string
	Operands []Operand
	Store    *Variable
	Branch   *Branch
	Text     []uint16
}

// Assemble encodes ops one after another, choosing the most compact form for each.
// Branches with offsets that fit in 6 bits are encoded in one byte.
func Assemble(table *zop.Table, ops ...Op) ([]byte, error) {
	var out []byte
	for _, x := range ops {
		ins, err := Build(table, x)
		if err != nil {
			return nil, err
		}
		data, err := Encode(ins)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// Build creates an Instruction from an Op, without an address.
func Build(table *zop.Table, x Op) (*Instruction, error) {
	op, ok := table.ByName(x.Name)
	if !ok {
		return nil, fmt.Errorf("zinstr: no opcode %q in version %d", x.Name, table.Version())
	}
	ins := &Instruction{
		Opcode:   op,
		Operands: x.Operands,
		Store:    x.Store,
		Text:     x.Text,
	}
	if x.Branch != nil {
		br := *x.Branch
		br.Short = br.Offset >= 0 && br.Offset < 64
		ins.Branch = &br
	}
	switch op.Kind {
	case zop.ZeroOp, zop.OneOp:
		ins.Form = ShortForm
	case zop.TwoOp:
		ins.Form = VariableForm
		if len(x.Operands) == 2 && x.Operands[0].Kind != LargeConstant && x.Operands[1].Kind != LargeConstant {
			ins.Form = LongForm
		}
	case zop.VarOp:
		ins.Form = VariableForm
	case zop.Ext:
		ins.Form = ExtendedForm
	}
	return ins, nil
}

// StoreTo is a convenience for filling Op.Store.
func StoreTo(v Variable) *Variable {
	return &v
}

// BranchTo is a convenience for filling Op.Branch.
func BranchTo(cond bool, offset int16) *Branch {
	return &Branch{Condition: cond, Offset: offset}
}
