package zvm

import (
	"golang.org/x/exp/constraints"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var arithOps = map[string]OpFunc{
	"add": binop(func(a, b int16) (int16, error) { return a + b, nil }),
	"sub": binop(func(a, b int16) (int16, error) { return a - b, nil }),
	"mul": binop(func(a, b int16) (int16, error) { return a * b, nil }),
	"div": binop(func(a, b int16) (int16, error) {
		if b == 0 {
			return 0, ErrDivideByZero
		}
		// -32768 / -1 wraps
		return int16(int32(a) / int32(b)), nil
	}),
	"mod": binop(func(a, b int16) (int16, error) {
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return int16(int32(a) % int32(b)), nil
	}),
	"or":  binop(func(a, b int16) (int16, error) { return a | b, nil }),
	"and": binop(func(a, b int16) (int16, error) { return a & b, nil }),
	"not": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.store(ins, ^args[0])
	},
	"log_shift": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.store(ins, logShift(args[0], int16(args[1])))
	},
	"art_shift": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.store(ins, uint16(artShift(int16(args[0]), int16(args[1]))))
	},

	"inc": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		_, err := vm.addIndirect(args[0], 1)
		return err
	},
	"dec": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		_, err := vm.addIndirect(args[0], -1)
		return err
	},
	"inc_chk": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		x, err := vm.addIndirect(args[0], 1)
		if err != nil {
			return err
		}
		return vm.branch(ins, x > int16(args[1]))
	},
	"dec_chk": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		x, err := vm.addIndirect(args[0], -1)
		if err != nil {
			return err
		}
		return vm.branch(ins, x < int16(args[1]))
	},
}

// binop makes a store opcode from a signed 16 bit operation.
func binop(fn func(a, b int16) (int16, error)) OpFunc {
	return func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		x, err := fn(int16(args[0]), int16(args[1]))
		if err != nil {
			return err
		}
		return vm.store(ins, uint16(x))
	}
}

func (vm *Machine) addIndirect(n uint16, delta int16) (int16, error) {
	x, err := vm.readIndirect(n)
	if err != nil {
		return 0, err
	}
	y := int16(x) + delta
	return y, vm.writeIndirect(n, uint16(y))
}

// logShift shifts left for positive places, and right with zero fill for negative.
func logShift(x uint16, places int16) uint16 {
	switch {
	case places >= 16 || places <= -16:
		return 0
	case places >= 0:
		return x << places
	default:
		return x >> -places
	}
}

// artShift shifts left for positive places, and right with sign extension for negative.
func artShift(x int16, places int16) int16 {
	switch {
	case places >= 16:
		return 0
	case places >= 0:
		return x << places
	case places <= -15:
		// every bit is a copy of the sign
		return x >> 15
	default:
		return x >> -places
	}
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
