package zvm

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var callOps = map[string]OpFunc{
	"call":     callOp(1, 4),
	"call_vs":  callOp(1, 4),
	"call_vs2": callOp(1, 8),
	"call_vn":  callOp(1, 4),
	"call_vn2": callOp(1, 8),
	"call_1s":  callOp(1, 1),
	"call_1n":  callOp(1, 1),
	"call_2s":  callOp(2, 2),
	"call_2n":  callOp(2, 2),

	"ret": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.ret(args[0])
	},
	"rtrue": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.ret(1)
	},
	"rfalse": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.ret(0)
	},
	"ret_popped": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		x, err := vm.pop()
		if err != nil {
			return err
		}
		return vm.ret(x)
	},
	"catch": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.store(ins, uint16(len(vm.frames)))
	},
	"throw": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		depth := int(args[1])
		if depth < 1 || depth > len(vm.frames) {
			return fmt.Errorf("throw to stack frame %d, but the call stack has %d frames", depth, len(vm.frames))
		}
		vm.frames = vm.frames[:depth]
		return vm.ret(args[0])
	},
}

// callOp makes a call opcode.  Opcodes without a store discard the result.
func callOp(lo, hi int) OpFunc {
	return func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, lo, hi)
		if ins.Opcode.HasStore() {
			requireStore(ins)
		}
		return vm.call(args[0], args[1:], ins.Store)
	}
}
