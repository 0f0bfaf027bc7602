package zvm

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var objectOps = map[string]OpFunc{
	"get_parent": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if vm.objectZero(ins, args[0]) {
			return vm.store(ins, 0)
		}
		x, err := vm.objects.Parent(args[0])
		if err != nil {
			return err
		}
		return vm.store(ins, x)
	},
	"get_sibling": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.storeRelative(ins, args[0], vm.objects.Sibling)
	},
	"get_child": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.storeRelative(ins, args[0], vm.objects.Child)
	},
	"jin": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return vm.branch(ins, args[1] == 0)
		}
		parent, err := vm.objects.Parent(args[0])
		if err != nil {
			return err
		}
		return vm.branch(ins, parent == args[1])
	},
	"insert_obj": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) || vm.objectZero(ins, args[1]) {
			return nil
		}
		return vm.objects.Insert(args[0], args[1])
	},
	"remove_obj": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if vm.objectZero(ins, args[0]) {
			return nil
		}
		return vm.objects.Remove(args[0])
	},

	"test_attr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return vm.branch(ins, false)
		}
		yes, err := vm.objects.TestAttribute(args[0], int(args[1]))
		if err != nil {
			return err
		}
		return vm.branch(ins, yes)
	},
	"set_attr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return nil
		}
		return vm.objects.SetAttribute(args[0], int(args[1]))
	},
	"clear_attr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return nil
		}
		return vm.objects.ClearAttribute(args[0], int(args[1]))
	},

	"get_prop": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return vm.store(ins, 0)
		}
		x, err := vm.objects.GetProperty(args[0], uint8(args[1]))
		if err != nil {
			return err
		}
		return vm.store(ins, x)
	},
	"get_prop_addr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return vm.store(ins, 0)
		}
		p, ok, err := vm.objects.FindProperty(args[0], uint8(args[1]))
		if err != nil {
			return err
		}
		if !ok {
			return vm.store(ins, 0)
		}
		return vm.store(ins, uint16(p.DataAddress))
	},
	"get_next_prop": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		if vm.objectZero(ins, args[0]) {
			return vm.store(ins, 0)
		}
		x, err := vm.objects.NextProperty(args[0], uint8(args[1]))
		if err != nil {
			return err
		}
		return vm.store(ins, uint16(x))
	},
	"get_prop_len": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		n, err := vm.objects.PropertyLengthAt(int(args[0]))
		if err != nil {
			return err
		}
		return vm.store(ins, uint16(n))
	},
	"put_prop": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 3, 3)
		if vm.objectZero(ins, args[0]) {
			return nil
		}
		return vm.objects.PutProperty(args[0], uint8(args[1]), args[2])
	},
}

// objectZero reports whether obj is 0, sending a warning if it is.
// Stories reach object 0 through bugs which other interpreters tolerate.
func (vm *Machine) objectZero(ins *zinstr.Instruction, obj uint16) bool {
	if obj != 0 {
		return false
	}
	vm.env.Log.SendWarning(ins, fmt.Sprintf("%s called with object 0", ins.Opcode.Name))
	return true
}

// storeRelative stores the related object and branches if it is not 0.
func (vm *Machine) storeRelative(ins *zinstr.Instruction, obj uint16, rel func(uint16) (uint16, error)) error {
	x := uint16(0)
	if !vm.objectZero(ins, obj) {
		var err error
		if x, err = rel(obj); err != nil {
			return err
		}
	}
	if err := vm.store(ins, x); err != nil {
		return err
	}
	return vm.branch(ins, x != 0)
}
