// package zop contains the metadata for every Z-machine opcode, for every version.
package zop

import (
	"fmt"
	"strings"
)

// Kind is the operand count class of an opcode.
type Kind uint8

const (
	ZeroOp Kind = iota
	OneOp
	TwoOp
	VarOp
	Ext
)

func (k Kind) String() string {
	switch k {
	case ZeroOp:
		return "0OP"
	case OneOp:
		return "1OP"
	case TwoOp:
		return "2OP"
	case VarOp:
		return "VAR"
	case Ext:
		return "EXT"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Flags describe what follows the operands of an instruction, and how the operands are used.
type Flags uint16

const (
	// HasStore: a store variable byte follows the operands.
	HasStore Flags = 1 << iota
	// HasBranch: a branch descriptor follows the operands (and store).
	HasBranch
	// HasText: an embedded Z-text string follows the instruction.
	HasText
	// IsCall: the instruction calls a routine.
	IsCall
	// IsReturn: the instruction returns from the current routine.
	IsReturn
	// DoubleVariableOperandCount: two operand kind bytes, up to 8 operands.
	DoubleVariableOperandCount
	// FirstOperandByRef: the first operand names a variable rather than supplying a value.
	FirstOperandByRef
	// ReadsInput: the instruction suspends the machine until the host supplies input.
	ReadsInput
)

func (f Flags) String() string {
	names := []string{"store", "branch", "text", "call", "return", "double", "byref", "input"}
	var parts []string
	for i, name := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Opcode is the static metadata for an opcode in a specific version.
type Opcode struct {
	Kind   Kind
	Number uint8
	Name   string
	Flags  Flags
}

func (op *Opcode) HasStore() bool          { return op.Flags&HasStore != 0 }
func (op *Opcode) HasBranch() bool         { return op.Flags&HasBranch != 0 }
func (op *Opcode) HasText() bool           { return op.Flags&HasText != 0 }
func (op *Opcode) IsCall() bool            { return op.Flags&IsCall != 0 }
func (op *Opcode) IsReturn() bool          { return op.Flags&IsReturn != 0 }
func (op *Opcode) IsDoubleVariable() bool  { return op.Flags&DoubleVariableOperandCount != 0 }
func (op *Opcode) FirstOperandByRef() bool { return op.Flags&FirstOperandByRef != 0 }
func (op *Opcode) ReadsInput() bool        { return op.Flags&ReadsInput != 0 }

func (op *Opcode) String() string {
	return fmt.Sprintf("%s:%02X %s", op.Kind, op.Number, op.Name)
}
