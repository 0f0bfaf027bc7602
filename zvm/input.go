package zvm

import (
	"context"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"github.com/DustinCampbell/ZDebug-sub001/zdict"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

type InputKind uint8

const (
	LineInput InputKind = iota
	CharInput
)

func (k InputKind) String() string {
	if k == CharInput {
		return "char"
	}
	return "line"
}

// InputRequest describes the input a suspended machine is waiting for.
type InputRequest struct {
	Kind InputKind
	// MaxChars is the capacity of the text buffer, for line input.
	MaxChars int
	// Initial is text already in the buffer, which the submitted line replaces.
	Initial string
	// Timed is set if the story asked for a timeout.  Timeouts never fire.
	Timed bool
}

type pendingInput struct {
	line string
	char rune
}

// readTerminator is stored by aread when a line is submitted.
const readTerminator = 10

// InputRequest returns the pending request, or nil if the machine is not awaiting input.
func (vm *Machine) InputRequest() *InputRequest {
	if vm.state != AwaitingInput {
		return nil
	}
	req := *vm.input
	return &req
}

// SubmitLine completes a line input request.  Run must be called to continue.
func (vm *Machine) SubmitLine(line string) error {
	return vm.submit(LineInput, pendingInput{line: line})
}

// SubmitChar completes a character input request.  Run must be called to continue.
func (vm *Machine) SubmitChar(r rune) error {
	return vm.submit(CharInput, pendingInput{char: r})
}

func (vm *Machine) submit(kind InputKind, in pendingInput) error {
	if vm.state != AwaitingInput || vm.input.Kind != kind {
		return ErrNotAwaitingInput{State: vm.state}
	}
	vm.pending = &in
	vm.input = nil
	vm.state = Running
	return nil
}

// awaitInput suspends the machine at ins.  Nothing is popped, so ins runs again once input arrives.
func (vm *Machine) awaitInput(ctx context.Context, ins *zinstr.Instruction) error {
	args, err := vm.peekOperands(ins)
	if err != nil {
		return err
	}
	req := &InputRequest{Kind: LineInput}
	timeArg := 2
	if ins.Opcode.Name == "read_char" {
		req.Kind = CharInput
		timeArg = 1
	} else {
		requireOperands(ins, args, 1, 4)
		if req.MaxChars, req.Initial, err = vm.textBufferInfo(int(args[0])); err != nil {
			return err
		}
		if vm.version <= 3 {
			st, err := vm.StatusLine()
			if err != nil {
				return err
			}
			vm.env.Screen.ShowStatus(st)
		}
	}
	if arg(args, timeArg, 0) != 0 && arg(args, timeArg+1, 0) != 0 {
		req.Timed = true
		vm.warnOnce(ins, "timed", "timed input is not supported; the timeout routine will not be called")
	}
	vm.input = req
	vm.state = AwaitingInput
	logctx.Debug(ctx, "awaiting input", zap.Stringer("kind", req.Kind), zap.String("addr", hexAddr(ins.Address)))
	return nil
}

// peekOperands resolves operands like resolveOperands, but reads the stack without popping it.
func (vm *Machine) peekOperands(ins *zinstr.Instruction) ([]uint16, error) {
	args := make([]uint16, len(ins.Operands))
	depth := 0
	for i, o := range ins.Operands {
		if o.Kind != zinstr.VariableOperand {
			args[i] = o.Value
			continue
		}
		v := zinstr.DecodeVariable(uint8(o.Value))
		if v.Kind != zinstr.Stack {
			x, err := vm.ReadVariable(v)
			if err != nil {
				return nil, err
			}
			args[i] = x
			continue
		}
		depth++
		if len(vm.stack)-depth < vm.stackBase() {
			return nil, ErrStackUnderflow{}
		}
		args[i] = vm.stack[len(vm.stack)-depth]
	}
	return args, nil
}

// textBufferInfo returns the capacity and initial contents of a text buffer.
func (vm *Machine) textBufferInfo(addr int) (int, string, error) {
	n, err := vm.mem.ReadU8(addr)
	if err != nil {
		return 0, "", err
	}
	if vm.version <= 4 {
		return max(int(n)-1, 0), "", nil
	}
	count, err := vm.mem.ReadU8(addr + 1)
	if err != nil {
		return 0, "", err
	}
	data, err := vm.mem.ReadBytes(addr+2, min(int(count), int(n)))
	if err != nil {
		return 0, "", err
	}
	zs := make([]uint16, len(data))
	for i, b := range data {
		zs[i] = uint16(b)
	}
	return int(n), vm.text.ZSCIIString(zs), nil
}

func (vm *Machine) takeInput() *pendingInput {
	in := vm.pending
	vm.pending = nil
	return in
}

var inputOps = map[string]OpFunc{
	"sread": readOp,
	"aread": readOp,
	"read_char": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 0, 3)
		in := vm.takeInput()
		z, ok := vm.text.RuneToZSCII(in.char)
		if !ok {
			z = '?'
		}
		return vm.store(ins, z)
	},
	"tokenise": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 2, 4)
		return vm.tokenise(int(args[0]), int(args[1]), int(arg(args, 2, 0)), arg(args, 3, 0) != 0)
	},
	"input_stream": func(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
		requireOperands(ins, args, 1, 1)
		if args[0] != 0 {
			vm.warnOnce(ins, "input_stream", "input stream 1 is not supported; reading from the keyboard")
		}
		return nil
	},
}

func readOp(vm *Machine, ins *zinstr.Instruction, args []uint16) error {
	requireOperands(ins, args, 1, 4)
	in := vm.takeInput()
	text, parse := int(args[0]), int(arg(args, 1, 0))
	capacity, _, err := vm.textBufferInfo(text)
	if err != nil {
		return err
	}
	zscii := vm.text.ToZSCII(in.line)
	if len(zscii) > capacity {
		zscii = zscii[:capacity]
	}
	if err := vm.transcribe(in.line + "\n"); err != nil {
		return err
	}
	if err := vm.checkWrite(text+1, len(zscii)+1); err != nil {
		return err
	}
	if vm.version <= 4 {
		err = vm.mem.WriteBytes(text+1, append(zscii, 0))
	} else {
		err = vm.mem.WriteBytes(text+1, append([]byte{uint8(len(zscii))}, zscii...))
	}
	if err != nil {
		return err
	}
	if parse != 0 {
		if err := vm.tokenise(text, parse, 0, false); err != nil {
			return err
		}
	}
	if ins.Opcode.HasStore() {
		return vm.store(ins, readTerminator)
	}
	return nil
}

// tokenise splits the text buffer at text into words and writes them to the parse buffer at parse.
// dictAddr 0 selects the story's dictionary.  With skipUnknown set, entries for words not in the
// dictionary are left as they were.
func (vm *Machine) tokenise(text, parse, dictAddr int, skipUnknown bool) error {
	input, start, err := vm.textBufferContents(text)
	if err != nil {
		return err
	}
	dict := vm.dict
	if dictAddr != 0 {
		if dict, err = zdict.Load(vm.mem, vm.text, dictAddr); err != nil {
			return err
		}
	}
	limit, err := vm.mem.ReadU8(parse)
	if err != nil {
		return err
	}
	tokens := dict.Tokenize(input)
	if len(tokens) > int(limit) {
		tokens = tokens[:limit]
	}
	if err := vm.checkWrite(parse+1, 1+4*len(tokens)); err != nil {
		return err
	}
	if err := vm.mem.WriteU8(parse+1, uint8(len(tokens))); err != nil {
		return err
	}
	for i, tok := range tokens {
		entry := parse + 2 + 4*i
		addr, found := dict.TryLookupWord(tok.Text)
		if !found && skipUnknown {
			continue
		}
		if err := firstErr(
			vm.mem.WriteU16(entry, addr),
			vm.mem.WriteU8(entry+2, uint8(tok.Length)),
			vm.mem.WriteU8(entry+3, uint8(start+tok.Start)),
		); err != nil {
			return err
		}
	}
	return nil
}

// textBufferContents returns the typed text in a text buffer, and its offset from the buffer start.
func (vm *Machine) textBufferContents(addr int) ([]byte, int, error) {
	if vm.version >= 5 {
		n, err := vm.mem.ReadU8(addr + 1)
		if err != nil {
			return nil, 0, err
		}
		data, err := vm.mem.ReadBytes(addr+2, int(n))
		return data, 2, err
	}
	capacity, err := vm.mem.ReadU8(addr)
	if err != nil {
		return nil, 0, err
	}
	data, err := vm.mem.ReadBytes(addr+1, int(capacity))
	if err != nil {
		return nil, 0, err
	}
	for i, b := range data {
		if b == 0 {
			return data[:i], 1, nil
		}
	}
	return data, 1, nil
}
