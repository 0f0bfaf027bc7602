package zinstr

import (
	"fmt"
	"strings"

	"go.brendoncarroll.net/exp/slices2"
)

// String formats the instruction in the style of a disassembler listing.
func (ins *Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%05x: %s", ins.Address, ins.Opcode.Name)
	if len(ins.Operands) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(slices2.Map(ins.Operands, Operand.String), " "))
	}
	if ins.Store != nil {
		fmt.Fprintf(&sb, " -> %v", *ins.Store)
	}
	if ins.Branch != nil {
		sb.WriteString(" ")
		sb.WriteString(ins.Branch.String())
		if !ins.Branch.IsReturn() {
			fmt.Fprintf(&sb, " (%05x)", ins.Branch.Target(ins.Next()))
		}
	}
	if len(ins.Text) > 0 {
		fmt.Fprintf(&sb, " <%d words>", len(ins.Text))
	}
	return sb.String()
}
