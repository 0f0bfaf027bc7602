package zvm

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var textOps = map[string]OpFunc{
	"print": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.printText(ins.Text)
	},
	"print_ret": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		if err := vm.printText(ins.Text); err != nil {
			return err
		}
		if err := vm.print("\n"); err != nil {
			return err
		}
		return vm.ret(1)
	},
	"print_addr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.printAt(int(args[0]))
	},
	"print_paddr": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		addr, err := zheader.UnpackStringAddress(vm.mem, args[0])
		if err != nil {
			return err
		}
		return vm.printAt(addr)
	},
	"print_obj": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if vm.objectZero(ins, args[0]) {
			return nil
		}
		name, err := vm.ObjectName(args[0])
		if err != nil {
			return err
		}
		return vm.print(name)
	},
	"print_char": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.printZSCII(args[:1])
	},
	"print_num": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		return vm.print(strconv.Itoa(int(int16(args[0]))))
	},
	"print_unicode": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		r := rune(args[0])
		if !utf8.ValidRune(r) {
			r = '?'
		}
		return vm.print(string(r))
	},
	"check_unicode": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		r := rune(args[0])
		var x uint16
		if utf8.ValidRune(r) {
			x |= 1
		}
		if _, ok := vm.text.RuneToZSCII(r); ok {
			x |= 2
		}
		return vm.store(ins, x)
	},
	"new_line": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.print("\n")
	},
	"print_table": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 4)
		return vm.printTable(int(args[0]), int(args[1]), int(arg(args, 2, 1)), int(arg(args, 3, 0)))
	},
	"encode_text": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 4, 4)
		zscii, err := vm.mem.ReadBytes(int(args[0])+int(args[2]), int(args[1]))
		if err != nil {
			return err
		}
		ws := vm.text.EncodeWord(zscii)
		if err := vm.checkWrite(int(args[3]), 2*len(ws)); err != nil {
			return err
		}
		return vm.mem.WriteWords(int(args[3]), ws)
	},
	"show_status": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		st, err := vm.StatusLine()
		if err != nil {
			return err
		}
		vm.env.Screen.ShowStatus(st)
		return nil
	},
}

func (vm *Machine) printText(ws []uint16) error {
	zs, err := vm.text.DecodeZSCII(ws)
	if err != nil {
		return err
	}
	return vm.printZSCII(zs)
}

func (vm *Machine) printAt(addr int) error {
	ws, err := vm.text.ReadWords(addr)
	if err != nil {
		return err
	}
	return vm.printText(ws)
}

// ObjectName decodes the short name of obj.
func (vm *Machine) ObjectName(obj uint16) (string, error) {
	addr, words, err := vm.objects.ShortName(obj)
	if err != nil {
		return "", err
	}
	ws, err := vm.mem.ReadWords(addr, words)
	if err != nil {
		return "", err
	}
	return vm.text.Decode(ws)
}

// printTable prints a width by height rectangle of ZSCII text, skipping skip bytes after each row.
func (vm *Machine) printTable(addr, width, height, skip int) error {
	var sb strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		data, err := vm.mem.ReadBytes(addr+row*(width+skip), width)
		if err != nil {
			return err
		}
		for _, z := range data {
			if r, ok := vm.text.ZSCIIToRune(uint16(z)); ok {
				sb.WriteRune(r)
			}
		}
	}
	return vm.print(sb.String())
}

// StatusLine builds the version 1-3 status line from the first three globals.
func (vm *Machine) StatusLine() (StatusLine, error) {
	var g [3]uint16
	for i := range g {
		x, err := vm.ReadVariable(zinstr.GlobalVar(uint8(i)))
		if err != nil {
			return StatusLine{}, err
		}
		g[i] = x
	}
	flags1, err := zheader.ReadFlags1(vm.mem)
	if err != nil {
		return StatusLine{}, err
	}
	var st StatusLine
	if g[0] != 0 {
		if st.Location, err = vm.ObjectName(g[0]); err != nil {
			return StatusLine{}, err
		}
	}
	if vm.version == 3 && flags1&0x02 != 0 {
		st.IsTime = true
		st.Hours, st.Mins = int(g[1]), int(g[2])
	} else {
		st.Score, st.Turns = int(int16(g[1])), int(g[2])
	}
	return st, nil
}
