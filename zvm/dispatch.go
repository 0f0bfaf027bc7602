package zvm

import (
	"fmt"
	"maps"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
)

// OpFunc executes one instruction.  args holds the resolved operand values.
type OpFunc = func(vm *Machine, ins *zinstr.Instruction, args []uint16) error

// DefaultOps returns the routine for every opcode, keyed by name.
func DefaultOps() map[string]OpFunc {
	return maps.Clone(defaultOps)
}

var defaultOps = mergeOps(
	arithOps,
	branchOps,
	objectOps,
	memoryOps,
	callOps,
	textOps,
	inputOps,
	screenOps,
	miscOps,
	v6Ops,
)

func mergeOps(sets ...map[string]OpFunc) map[string]OpFunc {
	ret := map[string]OpFunc{}
	for _, set := range sets {
		for name, fn := range set {
			if _, exists := ret[name]; exists {
				panic("zvm: routine registered twice for " + name)
			}
			ret[name] = fn
		}
	}
	return ret
}

// ErrMissingOp is returned by NewDispatch when an opcode has no routine.
type ErrMissingOp struct {
	Version uint8
	Opcode  *zop.Opcode
}

func (e ErrMissingOp) Error() string {
	return fmt.Sprintf("version %d: no routine for %v", e.Version, e.Opcode)
}

// Dispatch maps the opcodes of a single version to their routines.
type Dispatch struct {
	fns map[*zop.Opcode]OpFunc
}

// NewDispatch binds every opcode in table.  It fails if any opcode is left unbound.
func NewDispatch(table *zop.Table) (*Dispatch, error) {
	d := &Dispatch{fns: map[*zop.Opcode]OpFunc{}}
	for _, op := range table.All() {
		fn, ok := defaultOps[op.Name]
		if !ok {
			return nil, ErrMissingOp{Version: table.Version(), Opcode: op}
		}
		d.fns[op] = fn
	}
	return d, nil
}

func (d *Dispatch) Lookup(op *zop.Opcode) (OpFunc, bool) {
	fn, ok := d.fns[op]
	return fn, ok
}

func violation(ins *zinstr.Instruction, format string, args ...any) StrictViolation {
	return StrictViolation{Opcode: ins.Opcode.Name, Reason: fmt.Sprintf(format, args...)}
}

// requireOperands panics unless the instruction has between lo and hi operands.
func requireOperands(ins *zinstr.Instruction, args []uint16, lo, hi int) {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			panic(violation(ins, "want %d operands, have %d", lo, len(args)))
		}
		panic(violation(ins, "want %d to %d operands, have %d", lo, hi, len(args)))
	}
}

func requireStore(ins *zinstr.Instruction) *zinstr.Variable {
	if ins.Store == nil {
		panic(violation(ins, "missing store variable"))
	}
	return ins.Store
}

func requireBranch(ins *zinstr.Instruction) *zinstr.Branch {
	if ins.Branch == nil {
		panic(violation(ins, "missing branch"))
	}
	return ins.Branch
}

// arg returns args[i], or def if the operand was omitted.
func arg(args []uint16, i int, def uint16) uint16 {
	if i < len(args) {
		return args[i]
	}
	return def
}
