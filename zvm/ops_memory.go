package zvm

import (
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var memoryOps = map[string]OpFunc{
	"load": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		x, err := vm.readIndirect(args[0])
		if err != nil {
			return err
		}
		return vm.store(ins, x)
	},
	"store": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		return vm.writeIndirect(args[0], args[1])
	},
	"loadw": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		x, err := vm.mem.ReadU16(int(args[0] + 2*args[1]))
		if err != nil {
			return err
		}
		return vm.store(ins, x)
	},
	"loadb": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		x, err := vm.mem.ReadU8(int(args[0] + args[1]))
		if err != nil {
			return err
		}
		return vm.store(ins, uint16(x))
	},
	"storew": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 3, 3)
		addr := int(args[0] + 2*args[1])
		if err := vm.checkWrite(addr, 2); err != nil {
			return err
		}
		return vm.mem.WriteU16(addr, args[2])
	},
	"storeb": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 3, 3)
		addr := int(args[0] + args[1])
		if err := vm.checkWrite(addr, 1); err != nil {
			return err
		}
		return vm.mem.WriteU8(addr, uint8(args[2]))
	},

	"push": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		vm.push(args[0])
		return nil
	},
	"pull": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		if vm.version == 6 {
			requireOperands(ins, args, 0, 1)
			var x uint16
			var err error
			if len(args) == 1 {
				x, err = vm.popUserStack(args[0])
			} else {
				x, err = vm.pop()
			}
			if err != nil {
				return err
			}
			return vm.store(ins, x)
		}
		requireOperands(ins, args, 1, 1)
		x, err := vm.pop()
		if err != nil {
			return err
		}
		return vm.writeIndirect(args[0], x)
	},
	"pop": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		_, err := vm.pop()
		return err
	},
	"push_stack": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 2)
		ok, err := vm.pushUserStack(args[1], args[0])
		if err != nil {
			return err
		}
		return vm.branch(ins, ok)
	},
	"pop_stack": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 2)
		if len(args) == 2 {
			free, err := vm.mem.ReadU16(int(args[1]))
			if err != nil {
				return err
			}
			return vm.mem.WriteU16(int(args[1]), free+args[0])
		}
		for i := uint16(0); i < args[0]; i++ {
			if _, err := vm.pop(); err != nil {
				return err
			}
		}
		return nil
	},

	"copy_table": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 3, 3)
		return vm.copyTable(int(args[0]), int(args[1]), int16(args[2]))
	},
	"scan_table": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 3, 4)
		addr, err := vm.scanTable(args[0], int(args[1]), int(args[2]), arg(args, 3, 0x82))
		if err != nil {
			return err
		}
		if err := vm.store(ins, uint16(addr)); err != nil {
			return err
		}
		return vm.branch(ins, addr != 0)
	},
}

func (vm *Machine) checkWrite(addr, n int) error {
	if addr < 0 || addr+n > vm.staticBase {
		return ErrReadOnly{Addr: addr}
	}
	return nil
}

// copyTable copies size bytes from first to second.
// If second is 0, size bytes at first are zeroed instead.
// A positive size copies as if through a temporary buffer, so overlapping tables are safe.
// A negative size forces a forward byte by byte copy, which can smear an overlapping source.
func (vm *Machine) copyTable(first, second int, size int16) error {
	n := int(abs(int32(size)))
	if second == 0 {
		if err := vm.checkWrite(first, n); err != nil {
			return err
		}
		return vm.mem.WriteBytes(first, make([]byte, n))
	}
	if err := vm.checkWrite(second, n); err != nil {
		return err
	}
	if size > 0 {
		data, err := vm.mem.ReadBytes(first, n)
		if err != nil {
			return err
		}
		return vm.mem.WriteBytes(second, data)
	}
	for i := 0; i < n; i++ {
		b, err := vm.mem.ReadU8(first + i)
		if err != nil {
			return err
		}
		if err := vm.mem.WriteU8(second+i, b); err != nil {
			return err
		}
	}
	return nil
}

// scanTable returns the address of the first field in table equal to x, or 0.
// Bit 7 of form selects words rather than bytes; the low 7 bits are the field length.
func (vm *Machine) scanTable(x uint16, table, count int, form uint16) (int, error) {
	step := int(form & 0x7f)
	words := form&0x80 != 0
	for i := 0; i < count; i++ {
		addr := table + i*step
		var y uint16
		if words {
			w, err := vm.mem.ReadU16(addr)
			if err != nil {
				return 0, err
			}
			y = w
		} else {
			b, err := vm.mem.ReadU8(addr)
			if err != nil {
				return 0, err
			}
			y = uint16(b)
		}
		if y == x {
			return addr, nil
		}
	}
	return 0, nil
}

// pushUserStack pushes x onto the version 6 user stack at addr.
// It returns false if the stack is full.
func (vm *Machine) pushUserStack(addr, x uint16) (bool, error) {
	free, err := vm.mem.ReadU16(int(addr))
	if err != nil || free == 0 {
		return false, err
	}
	if err := vm.mem.WriteU16(int(addr)+2*int(free), x); err != nil {
		return false, err
	}
	return true, vm.mem.WriteU16(int(addr), free-1)
}

func (vm *Machine) popUserStack(addr uint16) (uint16, error) {
	free, err := vm.mem.ReadU16(int(addr))
	if err != nil {
		return 0, err
	}
	free++
	if err := vm.mem.WriteU16(int(addr), free); err != nil {
		return 0, err
	}
	return vm.mem.ReadU16(int(addr) + 2*int(free))
}
