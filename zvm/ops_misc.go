package zvm

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.brendoncarroll.net/stdctx/logctx"

	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// predictableLimit is the seed below which random counts upwards instead of being random.
const predictableLimit = 1000

var miscOps = map[string]OpFunc{
	"random": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		n := int16(args[0])
		if n <= 0 {
			vm.seed(int64(abs(int32(n))))
			return vm.store(ins, 0)
		}
		return vm.store(ins, vm.random(int(n)))
	},
	"quit": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		vm.Quit()
		return nil
	},
	"restart": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		logctx.Infof(vm.Context(), "restarting after %d steps", vm.steps)
		return vm.Restart()
	},
	"verify": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		err := zheader.VerifyChecksum(zmem.New(vm.story))
		if err != nil {
			vm.env.Log.SendWarning(ins, err.Error())
		}
		return vm.branch(ins, err == nil)
	},
	"piracy": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		return vm.branch(ins, true)
	},

	"save": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 0, 4)
		if len(args) > 0 {
			vm.warnOnce(ins, "auxsave", "saving a table is not supported")
			return vm.complete(ins, 0)
		}
		if vm.env.Snapshots == nil {
			vm.warnOnce(ins, "nosnapshots", "save is not available")
			return vm.complete(ins, 0)
		}
		data, err := vm.Snapshot(ins.Address)
		if err != nil {
			return err
		}
		if err := vm.env.Snapshots.SaveSnapshot(vm.Context(), data); err != nil {
			vm.env.Log.SendError(ins, fmt.Sprintf("save failed: %v", err))
			return vm.complete(ins, 0)
		}
		return vm.complete(ins, 1)
	},
	"restore": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 0, 4)
		if len(args) > 0 {
			vm.warnOnce(ins, "auxrestore", "restoring a table is not supported")
			return vm.complete(ins, 0)
		}
		if vm.env.Snapshots == nil {
			vm.warnOnce(ins, "nosnapshots", "restore is not available")
			return vm.complete(ins, 0)
		}
		data, err := vm.env.Snapshots.LoadSnapshot(vm.Context())
		if err != nil {
			vm.env.Log.SendError(ins, fmt.Sprintf("restore failed: %v", err))
			return vm.complete(ins, 0)
		}
		if err := vm.Restore(data); err != nil {
			vm.env.Log.SendError(ins, fmt.Sprintf("restore failed: %v", err))
			return vm.complete(ins, 0)
		}
		return nil
	},
	"save_undo": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		data, err := vm.Snapshot(ins.Address)
		if err != nil {
			return err
		}
		vm.undo.PushBack(data)
		return vm.store(ins, 1)
	},
	"restore_undo": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		if vm.undo.Len() == 0 {
			return vm.store(ins, 0)
		}
		return vm.Restore(vm.undo.PopBack())
	},
}

// seed reseeds the random number generator.
// Seeds from 1 to predictableLimit-1 select a counting sequence, 0 selects a clock seed.
func (vm *Machine) seed(s int64) {
	vm.predictSeq, vm.predictMax = 0, 0
	if s > 0 && s < predictableLimit {
		vm.predictMax = int(s)
		return
	}
	if s == 0 {
		s = time.Now().UnixNano()
	}
	vm.rng = rand.New(rand.NewPCG(uint64(s), uint64(s)>>32))
}

// random returns a number from 1 to n.
func (vm *Machine) random(n int) uint16 {
	if vm.predictMax > 0 {
		vm.predictSeq = vm.predictSeq%vm.predictMax + 1
		return uint16((vm.predictSeq-1)%n + 1)
	}
	return uint16(vm.rng.IntN(n) + 1)
}

var v6Ops = map[string]OpFunc{
	"draw_picture":  unsupported,
	"picture_data":  unsupported,
	"erase_picture": unsupported,
	"set_margins":   unsupported,
	"move_window":   unsupported,
	"window_size":   unsupported,
	"window_style":  unsupported,
	"get_wind_prop": unsupported,
	"scroll_window": unsupported,
	"read_mouse":    unsupported,
	"mouse_window":  unsupported,
	"put_wind_prop": unsupported,
	"print_form":    unsupported,
	"make_menu":     unsupported,
	"picture_table": unsupported,
	"buffer_screen": unsupported,
}

// unsupported warns once per opcode, then stores 0 and does not branch.
func unsupported(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
	vm.warnOnce(ins, ins.Opcode.Name, fmt.Sprintf("%s is not supported", ins.Opcode.Name))
	return vm.complete(ins, 0)
}
