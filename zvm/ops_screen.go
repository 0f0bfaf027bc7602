package zvm

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var screenOps = map[string]OpFunc{
	"split_window": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if args[0] == 0 {
			vm.env.Screen.Unsplit()
		} else {
			vm.env.Screen.Split(int(args[0]))
		}
		return nil
	},
	"set_window": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		vm.streams.window = int(args[0])
		vm.env.Screen.SetWindow(int(args[0]))
		return nil
	},
	"erase_window": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		switch w := int16(args[0]); w {
		case -1:
			vm.env.Screen.ClearAll(true)
		case -2:
			vm.env.Screen.ClearAll(false)
		default:
			vm.env.Screen.Clear(int(w))
		}
		return nil
	},
	"erase_line": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if args[0] == 1 {
			vm.env.Screen.EraseLine()
		}
		return nil
	},
	"set_cursor": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 3)
		vm.env.Screen.SetCursor(int(int16(args[0])), int(int16(args[1])))
		return nil
	},
	"get_cursor": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		line, col := vm.env.Screen.GetCursor()
		if err := vm.checkWrite(int(args[0]), 4); err != nil {
			return err
		}
		return vm.mem.WriteWords(int(args[0]), []uint16{uint16(line), uint16(col)})
	},
	"set_text_style": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		vm.env.Screen.SetTextStyle(TextStyle(args[0]))
		return nil
	},
	"buffer_mode": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		vm.env.Screen.SetBufferMode(args[0] != 0)
		return nil
	},
	"set_colour": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 3)
		vm.env.Screen.SetForegroundColor(Color(args[0]))
		vm.env.Screen.SetBackgroundColor(Color(args[1]))
		return nil
	},
	"set_true_colour": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 3)
		vm.warnOnce(ins, "set_true_colour", "true colour is not supported")
		return nil
	},
	"set_font": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 2)
		// font 0 queries the current font
		if args[0] == 0 {
			return vm.store(ins, uint16(vm.font))
		}
		if !vm.env.Screen.SetFont(int(args[0])) {
			return vm.store(ins, 0)
		}
		prev := vm.font
		vm.font = int(args[0])
		return vm.store(ins, uint16(prev))
	},
	"output_stream": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 3)
		if len(args) == 3 {
			vm.warnOnce(ins, "stream3width", "output stream 3 width is ignored")
		}
		return vm.selectStream(ins, int16(args[0]), arg(args, 1, 0))
	},
	"sound_effect": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 0, 4)
		switch n := arg(args, 0, 1); n {
		case 1:
			vm.env.Sound.HighBeep()
		case 2:
			vm.env.Sound.LowBeep()
		default:
			vm.warnOnce(ins, "sound_effect", fmt.Sprintf("sound effect %d is not supported", n))
		}
		return nil
	},
}
