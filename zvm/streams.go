package zvm

import (
	"fmt"
	"io"

	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

// MaxMemoryStreams is how deeply output stream 3 can be nested.
const MaxMemoryStreams = 16

const flags2Transcript = 0x0001

type outputStreams struct {
	screen bool
	// memory is the stack of open stream 3 tables; only the innermost receives output.
	memory []memoryStream
	window int
}

type memoryStream struct {
	table int
	buf   []byte
}

func newOutputStreams() outputStreams {
	return outputStreams{screen: true}
}

// print sends s to the active output streams.
func (vm *Machine) print(s string) error {
	if n := len(vm.streams.memory); n > 0 {
		ms := &vm.streams.memory[n-1]
		for _, r := range s {
			z, ok := vm.text.RuneToZSCII(r)
			if !ok || z > 0xff {
				z = '?'
			}
			ms.buf = append(ms.buf, byte(z))
		}
		return nil
	}
	if vm.streams.screen {
		vm.env.Screen.Print(s)
	}
	return vm.transcribe(s)
}

// transcribe copies s to output stream 2 if it is selected.
func (vm *Machine) transcribe(s string) error {
	if vm.env.Transcript == nil || vm.streams.window != 0 {
		return nil
	}
	on, err := vm.transcriptOn()
	if err != nil || !on {
		return err
	}
	if _, err := io.WriteString(vm.env.Transcript, s); err != nil {
		vm.env.Log.SendError(nil, fmt.Sprintf("writing transcript: %v", err))
	}
	return nil
}

func (vm *Machine) printZSCII(zs []uint16) error {
	return vm.print(vm.text.ZSCIIString(zs))
}

func (vm *Machine) transcriptOn() (bool, error) {
	flags2, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return false, err
	}
	return flags2&flags2Transcript != 0, nil
}

func (vm *Machine) setTranscript(on bool) error {
	flags2, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return err
	}
	if on {
		flags2 |= flags2Transcript
	} else {
		flags2 &^= flags2Transcript
	}
	return zheader.WriteFlags2(vm.mem, flags2)
}

// selectStream turns stream n on, or stream -n off.
func (vm *Machine) selectStream(ins *zinstr.Instruction, n int16, table uint16) error {
	switch n {
	case 0:
		return nil
	case 1, -1:
		vm.streams.screen = n > 0
		return nil
	case 2, -2:
		return vm.setTranscript(n > 0)
	case 3:
		if len(vm.streams.memory) >= MaxMemoryStreams {
			return fmt.Errorf("output stream 3 nested more than %d deep", MaxMemoryStreams)
		}
		vm.streams.memory = append(vm.streams.memory, memoryStream{table: int(table)})
		return nil
	case -3:
		return vm.closeMemoryStream(ins)
	case 4, -4:
		vm.warnOnce(ins, "stream4", "output stream 4 is not supported")
		return nil
	default:
		vm.env.Log.SendWarning(ins, fmt.Sprintf("output stream %d does not exist", n))
		return nil
	}
}

// closeMemoryStream writes the innermost stream 3 table: a word count followed by the text.
func (vm *Machine) closeMemoryStream(ins *zinstr.Instruction) error {
	n := len(vm.streams.memory)
	if n == 0 {
		vm.env.Log.SendWarning(ins, "output stream 3 closed but not open")
		return nil
	}
	ms := vm.streams.memory[n-1]
	vm.streams.memory = vm.streams.memory[:n-1]
	if err := vm.checkWrite(ms.table, 2+len(ms.buf)); err != nil {
		return err
	}
	if err := vm.mem.WriteU16(ms.table, uint16(len(ms.buf))); err != nil {
		return err
	}
	return vm.mem.WriteBytes(ms.table+2, ms.buf)
}
