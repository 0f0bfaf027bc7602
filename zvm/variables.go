package zvm

import (
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

// push pushes x onto the evaluation stack.
func (vm *Machine) push(x uint16) {
	vm.stack = append(vm.stack, x)
}

// pop removes the top of the evaluation stack.
// Values belonging to the caller's frame cannot be popped.
func (vm *Machine) pop() (uint16, error) {
	if len(vm.stack) <= vm.stackBase() {
		return 0, ErrStackUnderflow{}
	}
	x := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return x, nil
}

func (vm *Machine) peek() (uint16, error) {
	if len(vm.stack) <= vm.stackBase() {
		return 0, ErrStackUnderflow{}
	}
	return vm.stack[len(vm.stack)-1], nil
}

func (vm *Machine) stackBase() int {
	if f := vm.frame(); f != nil {
		return f.StackBase
	}
	return 0
}

// Stack returns a copy of the evaluation stack, bottom first.
func (vm *Machine) Stack() []uint16 {
	return append([]uint16(nil), vm.stack...)
}

func (vm *Machine) local(i uint8) (*uint16, error) {
	f := vm.frame()
	if f == nil {
		return nil, ErrNoLocal{Index: int(i)}
	}
	if int(i) >= len(f.Locals) {
		return nil, ErrNoLocal{Index: int(i), Count: len(f.Locals)}
	}
	return &f.Locals[i], nil
}

func (vm *Machine) globalAddr(i uint8) int {
	return vm.globals + 2*int(i)
}

// ReadVariable reads v.  Reading the stack pops it.
func (vm *Machine) ReadVariable(v zinstr.Variable) (uint16, error) {
	switch v.Kind {
	case zinstr.Stack:
		return vm.pop()
	case zinstr.Local:
		p, err := vm.local(v.Index)
		if err != nil {
			return 0, err
		}
		return *p, nil
	default:
		return vm.mem.ReadU16(vm.globalAddr(v.Index))
	}
}

// WriteVariable writes x to v.  Writing the stack pushes onto it.
func (vm *Machine) WriteVariable(v zinstr.Variable, x uint16) error {
	switch v.Kind {
	case zinstr.Stack:
		vm.push(x)
		return nil
	case zinstr.Local:
		p, err := vm.local(v.Index)
		if err != nil {
			return err
		}
		*p = x
		return nil
	default:
		return vm.mem.WriteU16(vm.globalAddr(v.Index), x)
	}
}

// readIndirect reads the variable numbered n.
// The stack is read in place, as required by opcodes which name their variable operand.
func (vm *Machine) readIndirect(n uint16) (uint16, error) {
	v := zinstr.DecodeVariable(uint8(n))
	if v.Kind == zinstr.Stack {
		return vm.peek()
	}
	return vm.ReadVariable(v)
}

// writeIndirect writes the variable numbered n, replacing the top of the stack in place.
func (vm *Machine) writeIndirect(n uint16, x uint16) error {
	v := zinstr.DecodeVariable(uint8(n))
	if v.Kind == zinstr.Stack {
		if _, err := vm.pop(); err != nil {
			return err
		}
	}
	return vm.WriteVariable(v, x)
}
