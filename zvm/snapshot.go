package zvm

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("zvm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is the saved state of a machine.
type Snapshot struct {
	StoryID zdebug.ID `cbor:"1,keyasint"`
	// Dynamic is the contents of dynamic memory.
	Dynamic []byte       `cbor:"2,keyasint"`
	Stack   []uint16     `cbor:"3,keyasint"`
	Frames  []frameState `cbor:"4,keyasint,omitempty"`
	// PC is the address of the instruction which took the snapshot.
	PC uint32 `cbor:"5,keyasint"`
}

type frameState struct {
	Routine       uint32   `cbor:"1,keyasint"`
	ReturnAddress int32    `cbor:"2,keyasint"`
	ArgCount      uint8    `cbor:"3,keyasint"`
	Locals        []uint16 `cbor:"4,keyasint"`
	// Store is the variable byte, or -1 if the result is discarded.
	Store     int16  `cbor:"5,keyasint"`
	StackBase uint32 `cbor:"6,keyasint"`
}

var ErrWrongStory = errors.New("snapshot was taken from a different story")

// Snapshot captures the machine's state as if the instruction at pc were about to complete.
func (vm *Machine) Snapshot(pc int) ([]byte, error) {
	dyn, err := vm.mem.ReadBytes(0, vm.staticBase)
	if err != nil {
		return nil, err
	}
	s := Snapshot{
		StoryID: vm.storyID,
		Dynamic: dyn,
		Stack:   vm.Stack(),
		PC:      uint32(pc),
	}
	for _, f := range vm.frames {
		fs := frameState{
			Routine:       uint32(f.Routine.Address),
			ReturnAddress: int32(f.ReturnAddress),
			ArgCount:      uint8(f.ArgCount),
			Locals:        f.Locals,
			Store:         -1,
			StackBase:     uint32(f.StackBase),
		}
		if f.Store != nil {
			fs.Store = int16(f.Store.Byte())
		}
		s.Frames = append(s.Frames, fs)
	}
	return cborEncMode.Marshal(s)
}

// Restore loads a snapshot taken by Snapshot, and completes the instruction that took it.
// Instructions with a branch take it; instructions with a store get 2.
func (vm *Machine) Restore(data []byte) error {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("zvm: unmarshal snapshot: %w", err)
	}
	if s.StoryID != vm.storyID {
		return ErrWrongStory
	}
	if len(s.Dynamic) != vm.staticBase {
		return fmt.Errorf("zvm: snapshot has %d bytes of dynamic memory, want %d", len(s.Dynamic), vm.staticBase)
	}
	frames := make([]Frame, len(s.Frames))
	for i, fs := range s.Frames {
		r, err := vm.LoadRoutine(int(fs.Routine))
		if err != nil {
			return err
		}
		if len(fs.Locals) != len(r.Defaults) || int(fs.StackBase) > len(s.Stack) {
			return fmt.Errorf("zvm: snapshot frame %d is inconsistent with routine at %#05x", i, fs.Routine)
		}
		frames[i] = Frame{
			Routine:       r,
			ReturnAddress: int(fs.ReturnAddress),
			ArgCount:      int(fs.ArgCount),
			Locals:        fs.Locals,
			StackBase:     int(fs.StackBase),
		}
		if fs.Store >= 0 {
			v := zinstr.DecodeVariable(uint8(fs.Store))
			frames[i].Store = &v
		}
	}
	ins, err := vm.decodeAt(int(s.PC))
	if err != nil {
		return err
	}

	flags2, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return err
	}
	if err := vm.mem.WriteBytes(0, s.Dynamic); err != nil {
		return err
	}
	restored, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return err
	}
	keep := zheader.Flags2RestartMask
	if err := zheader.WriteFlags2(vm.mem, restored&^keep|flags2&keep); err != nil {
		return err
	}
	vm.stack = s.Stack
	vm.frames = frames
	vm.pc = ins.Next()
	return vm.complete(ins, 2)
}

// complete finishes an instruction with result x, as a branch or a store.
func (vm *Machine) complete(ins *zinstr.Instruction, x uint16) error {
	switch {
	case ins.Opcode.HasBranch():
		return vm.branch(ins, x != 0)
	case ins.Opcode.HasStore():
		return vm.store(ins, x)
	default:
		return nil
	}
}
