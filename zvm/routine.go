package zvm

import (
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

// MaxLocals is the largest number of locals a routine may declare.
const MaxLocals = 15

// Routine is a parsed routine header.
type Routine struct {
	Address int
	// Defaults holds the initial value of each local.
	Defaults []uint16
	// CodeAddress is the address of the first instruction.
	CodeAddress int
}

// Frame is an activation record on the call stack.
type Frame struct {
	Routine *Routine
	// ReturnAddress is where execution resumes.  It is -1 for the version 6 main routine.
	ReturnAddress int
	ArgCount      int
	Locals        []uint16
	// Store is nil when the result is discarded.
	Store *zinstr.Variable
	// StackBase is the height of the evaluation stack on entry.
	StackBase int
}

// Frames returns a copy of the call stack, outermost first.
func (vm *Machine) Frames() []Frame {
	ret := make([]Frame, len(vm.frames))
	for i, f := range vm.frames {
		f.Locals = append([]uint16(nil), f.Locals...)
		ret[i] = f
	}
	return ret
}

func (vm *Machine) frame() *Frame {
	if len(vm.frames) == 0 {
		return nil
	}
	return &vm.frames[len(vm.frames)-1]
}

// LoadRoutine parses the routine header at addr.
func (vm *Machine) LoadRoutine(addr int) (*Routine, error) {
	if r, ok := vm.routines.Get(addr); ok {
		return r, nil
	}
	r, err := vm.loadRoutine(addr)
	if err != nil {
		return nil, err
	}
	if addr >= vm.staticBase {
		vm.routines.Add(addr, r)
	}
	return r, nil
}

func (vm *Machine) loadRoutine(addr int) (*Routine, error) {
	count, err := vm.mem.ReadU8(addr)
	if err != nil {
		return nil, err
	}
	if count > MaxLocals {
		return nil, ErrBadRoutine{Address: addr, Locals: int(count)}
	}
	r := &Routine{
		Address:     addr,
		Defaults:    make([]uint16, count),
		CodeAddress: addr + 1,
	}
	if vm.version <= 4 {
		defaults, err := vm.mem.ReadWords(addr+1, int(count))
		if err != nil {
			return nil, err
		}
		copy(r.Defaults, defaults)
		r.CodeAddress += 2 * int(count)
	}
	return r, nil
}

// call calls the routine at packed address, returning to the current pc.
func (vm *Machine) call(packed uint16, args []uint16, store *zinstr.Variable) error {
	if packed == 0 {
		if store != nil {
			return vm.WriteVariable(*store, 0)
		}
		return nil
	}
	addr, err := zheader.UnpackRoutineAddress(vm.mem, packed)
	if err != nil {
		return err
	}
	return vm.callAt(addr, args, store, vm.pc)
}

func (vm *Machine) callAt(addr int, args []uint16, store *zinstr.Variable, returnAddr int) error {
	r, err := vm.LoadRoutine(addr)
	if err != nil {
		return err
	}
	locals := append([]uint16(nil), r.Defaults...)
	n := copy(locals, args)
	vm.frames = append(vm.frames, Frame{
		Routine:       r,
		ReturnAddress: returnAddr,
		ArgCount:      n,
		Locals:        locals,
		Store:         store,
		StackBase:     len(vm.stack),
	})
	vm.pc = r.CodeAddress
	return nil
}

// ret returns x from the current routine.
// Returning from the outermost routine halts the machine.
func (vm *Machine) ret(x uint16) error {
	f := vm.frame()
	if f == nil {
		vm.halt()
		return nil
	}
	fr := *f
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.stack = vm.stack[:fr.StackBase]
	if fr.ReturnAddress < 0 {
		vm.halt()
		return nil
	}
	vm.pc = fr.ReturnAddress
	if fr.Store != nil {
		return vm.WriteVariable(*fr.Store, x)
	}
	return nil
}

// branch takes the instruction's branch if cond matches its condition.
func (vm *Machine) branch(ins *zinstr.Instruction, cond bool) error {
	br := requireBranch(ins)
	if cond != br.Condition {
		return nil
	}
	switch br.Offset {
	case zinstr.BranchReturnFalse:
		return vm.ret(0)
	case zinstr.BranchReturnTrue:
		return vm.ret(1)
	default:
		return vm.Jump(br.Target(ins.Next()))
	}
}

// store writes the instruction's result.
func (vm *Machine) store(ins *zinstr.Instruction, x uint16) error {
	return vm.WriteVariable(*requireStore(ins), x)
}
