package zvm

import (
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var branchOps = map[string]OpFunc{
	"je": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 4)
		eq := false
		for _, x := range args[1:] {
			eq = eq || args[0] == x
		}
		return vm.branch(ins, eq)
	},
	"jl": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.branch(ins, int16(args[0]) < int16(args[1]))
	},
	"jg": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.branch(ins, int16(args[0]) > int16(args[1]))
	},
	"jz": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.branch(ins, args[0] == 0)
	},
	"test": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.branch(ins, args[0]&args[1] == args[1])
	},
	"jump": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.Jump(ins.Next() + int(int16(args[0])) - 2)
	},
	"check_arg_count": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		n := 0
		if f := vm.frame(); f != nil {
			n = f.ArgCount
		}
		return vm.branch(ins, int(args[0]) <= n)
	},
	"nop": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return nil
	},
}
