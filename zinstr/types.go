// package zinstr decodes and encodes Z-machine instructions.
package zinstr

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

// OperandKind is the 2 bit operand type from an instruction's kind byte.
type OperandKind uint8

const (
	LargeConstant OperandKind = iota
	SmallConstant
	VariableOperand
	Omitted
)

func (k OperandKind) String() string {
	switch k {
	case LargeConstant:
		return "large"
	case SmallConstant:
		return "small"
	case VariableOperand:
		return "var"
	case Omitted:
		return "omitted"
	default:
		return fmt.Sprintf("OperandKind(%d)", uint8(k))
	}
}

type Operand struct {
	Kind  OperandKind
	Value uint16
}

func Large(x uint16) Operand {
	return Operand{Kind: LargeConstant, Value: x}
}

func Small(x uint8) Operand {
	return Operand{Kind: SmallConstant, Value: uint16(x)}
}

// Var returns an operand which reads the variable v.
func Var(v Variable) Operand {
	return Operand{Kind: VariableOperand, Value: uint16(v.Byte())}
}

func (o Operand) String() string {
	switch o.Kind {
	case LargeConstant:
		return fmt.Sprintf("#%04x", o.Value)
	case SmallConstant:
		return fmt.Sprintf("#%02x", o.Value)
	case VariableOperand:
		return DecodeVariable(uint8(o.Value)).String()
	default:
		return "_"
	}
}

type VariableKind uint8

const (
	Stack VariableKind = iota
	Local
	Global
)

// Variable is a reference to the stack, a local or a global.
type Variable struct {
	Kind  VariableKind
	Index uint8
}

// DecodeVariable decodes a variable reference byte.
func DecodeVariable(b uint8) Variable {
	switch {
	case b == 0:
		return Variable{Kind: Stack}
	case b < 0x10:
		return Variable{Kind: Local, Index: b - 1}
	default:
		return Variable{Kind: Global, Index: b - 0x10}
	}
}

// Byte is the inverse of DecodeVariable.
func (v Variable) Byte() uint8 {
	switch v.Kind {
	case Local:
		return v.Index + 1
	case Global:
		return v.Index + 0x10
	default:
		return 0
	}
}

func (v Variable) String() string {
	switch v.Kind {
	case Local:
		return fmt.Sprintf("L%02x", v.Index)
	case Global:
		return fmt.Sprintf("G%02x", v.Index)
	default:
		return "sp"
	}
}

func StackVar() Variable         { return Variable{Kind: Stack} }
func LocalVar(i uint8) Variable  { return Variable{Kind: Local, Index: i} }
func GlobalVar(i uint8) Variable { return Variable{Kind: Global, Index: i} }

// Offsets with special meaning in a Branch.
const (
	BranchReturnFalse = 0
	BranchReturnTrue  = 1
)

// Branch is a conditional jump attached to an instruction.
type Branch struct {
	// Condition is the value of the test for which the branch is taken.
	Condition bool
	Offset    int16
	// Short is true if the branch was encoded in a single byte.
	Short bool
}

// Target returns the address jumped to when the branch is taken.
// It is only meaningful if the branch is not a return.
func (b Branch) Target(next int) int {
	return next + int(b.Offset) - 2
}

func (b Branch) IsReturn() bool {
	return b.Offset == BranchReturnFalse || b.Offset == BranchReturnTrue
}

func (b Branch) String() string {
	c := ""
	if !b.Condition {
		c = "~"
	}
	switch b.Offset {
	case BranchReturnFalse:
		return "?" + c + "rfalse"
	case BranchReturnTrue:
		return "?" + c + "rtrue"
	default:
		return fmt.Sprintf("?%s[%+d]", c, b.Offset)
	}
}

// Form is the encoding form of an instruction.
type Form uint8

const (
	LongForm Form = iota
	ShortForm
	VariableForm
	ExtendedForm
)

func (f Form) String() string {
	switch f {
	case LongForm:
		return "long"
	case ShortForm:
		return "short"
	case VariableForm:
		return "variable"
	case ExtendedForm:
		return "extended"
	default:
		return fmt.Sprintf("Form(%d)", uint8(f))
	}
}

// Instruction is a decoded instruction.  It is never modified after decoding.
type Instruction struct {
	Address  int
	Length   int
	Form     Form
	Opcode   *zop.Opcode
	Operands []Operand
	Store    *Variable
	Branch   *Branch
	// Text is the embedded Z-text, for print and print_ret.
	Text []uint16
}

// Next is the address of the instruction that follows.
func (ins *Instruction) Next() int {
	return ins.Address + ins.Length
}
