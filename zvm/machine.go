// Package zvm executes Z-machine story files.
package zvm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/internal/ringbuf"
	"github.com/DustinCampbell/ZDebug-sub001/zdict"
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/zobj"
	"github.com/DustinCampbell/ZDebug-sub001/zop"
	"github.com/DustinCampbell/ZDebug-sub001/ztext"
)

// State is the execution state of a Machine.
type State uint8

const (
	Running State = iota
	AwaitingInput
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingInput:
		return "awaiting-input"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

const (
	routineCacheSize     = 256
	instructionCacheSize = 4096
)

// Machine is a Z-machine.  It is not safe for concurrent use.
type Machine struct {
	mem     *zmem.Memory
	version uint8
	env     Env
	storyID zdebug.ID
	// initial holds dynamic memory as loaded, for restart and verify.
	initial []byte
	story   []byte

	decoder  *zinstr.Decoder
	dispatch *Dispatch
	objects  *zobj.Table
	text     *ztext.Codec
	dict     *zdict.Dictionary

	globals    int
	staticBase int

	pc     int
	stack  []uint16
	frames []Frame

	state   State
	input   *InputRequest
	pending *pendingInput
	err     error
	steps   uint64
	ctx     context.Context

	streams    outputStreams
	font       int
	undo       ringbuf.RingBuf[[]byte]
	rng        *rand.Rand
	predictSeq int
	predictMax int

	routines     *simplelru.LRU[int, *Routine]
	instructions *simplelru.LRU[int, *zinstr.Instruction]
	warned       map[string]struct{}
}

// New creates a Machine for story.  story is copied.
func New(story []byte, env Env) (*Machine, error) {
	if len(story) > zdebug.MaxStorySize || len(story) < zdebug.MinStorySize {
		return nil, fmt.Errorf("zvm: story is %d bytes, want %d to %d", len(story), zdebug.MinStorySize, zdebug.MaxStorySize)
	}
	story = slices.Clone(story)
	mem := zmem.New(slices.Clone(story))
	v, err := zheader.ReadVersion(mem)
	if err != nil {
		return nil, err
	}
	table, err := zop.TableFor(v)
	if err != nil {
		return nil, err
	}
	dispatch, err := NewDispatch(table)
	if err != nil {
		return nil, err
	}
	objects, err := zobj.New(mem)
	if err != nil {
		return nil, err
	}
	codec, err := ztext.NewCodec(mem)
	if err != nil {
		return nil, err
	}
	dictAddr, err := zheader.ReadDictionaryAddress(mem)
	if err != nil {
		return nil, err
	}
	dict, err := zdict.Load(mem, codec, int(dictAddr))
	if err != nil {
		return nil, fmt.Errorf("zvm: loading dictionary: %w", err)
	}
	globals, err := zheader.ReadGlobalVariableTableAddress(mem)
	if err != nil {
		return nil, err
	}
	staticBase, err := zheader.ReadStaticMemoryBase(mem)
	if err != nil {
		return nil, err
	}
	if int(staticBase) > mem.Size() || staticBase < zheader.Size {
		return nil, fmt.Errorf("zvm: static memory base %#x is outside of the story", staticBase)
	}
	routines, err := simplelru.NewLRU[int, *Routine](routineCacheSize, nil)
	if err != nil {
		panic(err)
	}
	instructions, err := simplelru.NewLRU[int, *zinstr.Instruction](instructionCacheSize, nil)
	if err != nil {
		panic(err)
	}
	env = env.withDefaults()
	vm := &Machine{
		mem:     mem,
		version: v,
		env:     env,
		storyID: zdebug.StoryID(story),
		initial: append([]byte(nil), story[:staticBase]...),
		story:   story,

		decoder:  zinstr.NewDecoder(table),
		dispatch: dispatch,
		objects:  objects,
		text:     codec,
		dict:     dict,

		globals:    int(globals),
		staticBase: int(staticBase),

		undo:         ringbuf.New[[]byte](env.UndoDepth),
		routines:     routines,
		instructions: instructions,
		warned:       map[string]struct{}{},
	}
	vm.seed(env.Seed)
	if err := vm.Reset(); err != nil {
		return nil, err
	}
	return vm, nil
}

// Reset puts the machine in its initial state without reloading memory.
// Use Restart to also reload dynamic memory.
func (vm *Machine) Reset() error {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.err = nil
	vm.input = nil
	vm.pending = nil
	vm.state = Running
	vm.streams = newOutputStreams()
	vm.font = 1
	if err := vm.advertise(); err != nil {
		return err
	}
	pc, err := zheader.ReadInitialPC(vm.mem)
	if err != nil {
		return err
	}
	if vm.version != 6 {
		vm.pc = int(pc)
		return nil
	}
	// version 6 starts by calling the main routine
	addr, err := zheader.UnpackRoutineAddress(vm.mem, pc)
	if err != nil {
		return err
	}
	return vm.callAt(addr, nil, nil, -1)
}

// Restart reloads dynamic memory and resets the machine.
// The transcript and fixed pitch bits of flags 2 survive.
func (vm *Machine) Restart() error {
	flags2, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return err
	}
	if err := vm.mem.WriteBytes(0, vm.initial); err != nil {
		return err
	}
	orig, err := zheader.ReadFlags2(vm.mem)
	if err != nil {
		return err
	}
	keep := zheader.Flags2RestartMask
	if err := zheader.WriteFlags2(vm.mem, orig&^keep|flags2&keep); err != nil {
		return err
	}
	return vm.Reset()
}

// advertise writes the interpreter's capabilities into the header.
func (vm *Machine) advertise() error {
	m := vm.mem
	flags1, err := zheader.ReadFlags1(m)
	if err != nil {
		return err
	}
	if vm.version <= 3 {
		// screen splitting available, status line available
		flags1 = flags1&^0x10 | 0x20
	} else {
		// colours, bold, italic, fixed-space; no timed input
		flags1 = (flags1 | 0x01 | 0x04 | 0x08 | 0x10) &^ 0x80
	}
	d := vm.env.Screen.Dimensions()
	return firstErr(
		zheader.WriteFlags1(m, flags1),
		zheader.WriteInterpreterNumber(m, vm.env.InterpreterNumber),
		zheader.WriteInterpreterVersion(m, vm.env.InterpreterVersion),
		zheader.WriteScreenHeightInLines(m, clampU8(d.HeightInLines)),
		zheader.WriteScreenWidthInColumns(m, clampU8(d.WidthInColumns)),
		vm.advertiseUnits(d),
		zheader.WriteStandardRevision(m, 1, 1),
	)
}

func (vm *Machine) advertiseUnits(d Dimensions) error {
	if vm.version < 5 {
		return nil
	}
	m := vm.mem
	return firstErr(
		zheader.WriteScreenWidthInUnits(m, uint16(d.WidthInUnits)),
		zheader.WriteScreenHeightInUnits(m, uint16(d.HeightInUnits)),
		zheader.WriteFontWidthInUnits(m, vm.version, clampU8(d.FontWidthInUnits)),
		zheader.WriteFontHeightInUnits(m, vm.version, clampU8(d.FontHeightInUnits)),
		zheader.WriteDefaultBackgroundColor(m, uint8(ColorBlack)),
		zheader.WriteDefaultForegroundColor(m, uint8(ColorWhite)),
	)
}

// Run executes the machine for a maximum of maxSteps instructions.
// The number of steps taken is returned.
// Run returns early if the machine halts, faults, needs input, or ctx is cancelled.
// Cancellation is only checked between instructions.
func (vm *Machine) Run(ctx context.Context, maxSteps uint64) (steps uint64) {
	vm.ctx = ctx
	defer func() { vm.ctx = nil }()
	defer func() { vm.steps += steps }()

	for i := uint64(0); i < maxSteps; i++ {
		if vm.state != Running {
			return i
		}
		if ctx.Err() != nil {
			return i
		}
		vm.step(ctx)
	}
	return maxSteps
}

func (vm *Machine) step(ctx context.Context) {
	ins, err := vm.decodeAt(vm.pc)
	if err != nil {
		vm.fail(&Fault{Address: vm.pc, Err: err})
		return
	}
	if ins.Opcode.ReadsInput() && vm.pending == nil {
		err = guard(func() error { return vm.awaitInput(ctx, ins) })
	} else {
		// it is important to adjust the program counter before the instruction so
		// that the instruction can override it.
		vm.pc = ins.Next()
		err = guard(func() error { return vm.exec(ins) })
	}
	if err != nil {
		vm.fail(&Fault{Opcode: ins.Opcode.Name, Address: ins.Address, Err: err})
		logctx.Error(ctx, "machine faulted", zap.Error(vm.err), zap.Uint64("steps", vm.steps))
	}
}

// guard returns StrictViolations raised by fn as errors.
func guard(fn func() error) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			sv, ok := r.(StrictViolation)
			if !ok {
				panic(r)
			}
			retErr = sv
		}
	}()
	return fn()
}

// exec runs a single instruction.
func (vm *Machine) exec(ins *zinstr.Instruction) error {
	fn, ok := vm.dispatch.Lookup(ins.Opcode)
	if !ok {
		return fmt.Errorf("no routine bound to %v", ins.Opcode)
	}
	args, err := vm.resolveOperands(ins)
	if err != nil {
		return err
	}
	return fn(vm, ins, args)
}

func (vm *Machine) decodeAt(addr int) (*zinstr.Instruction, error) {
	if ins, ok := vm.instructions.Get(addr); ok {
		return ins, nil
	}
	ins, err := vm.decoder.DecodeAt(vm.mem, addr)
	if err != nil {
		return nil, err
	}
	// dynamic memory can be modified, so only code in static and high memory is cached.
	if addr >= vm.staticBase {
		vm.instructions.Add(addr, ins)
	}
	return ins, nil
}

// resolveOperands reads the value of every operand.
// The first operand of a by-reference opcode names a variable; a variable operand in that
// position is still read, and the value read is the number of the variable to use.
func (vm *Machine) resolveOperands(ins *zinstr.Instruction) ([]uint16, error) {
	args := make([]uint16, len(ins.Operands))
	for i, o := range ins.Operands {
		if o.Kind != zinstr.VariableOperand {
			args[i] = o.Value
			continue
		}
		x, err := vm.ReadVariable(zinstr.DecodeVariable(uint8(o.Value)))
		if err != nil {
			return nil, err
		}
		args[i] = x
	}
	return args, nil
}

func (vm *Machine) fail(err error) {
	vm.err = err
	vm.state = Halted
}

func (vm *Machine) halt() {
	vm.state = Halted
}

// Err returns the fault which halted the machine, or nil.
func (vm *Machine) Err() error {
	return vm.err
}

func (vm *Machine) State() State {
	return vm.state
}

func (vm *Machine) PC() int {
	return vm.pc
}

// Steps returns the total number of instructions executed.
func (vm *Machine) Steps() uint64 {
	return vm.steps
}

func (vm *Machine) Memory() *zmem.Memory {
	return vm.mem
}

func (vm *Machine) Version() uint8 {
	return vm.version
}

func (vm *Machine) Objects() *zobj.Table {
	return vm.objects
}

func (vm *Machine) Text() *ztext.Codec {
	return vm.text
}

func (vm *Machine) Dictionary() *zdict.Dictionary {
	return vm.dict
}

func (vm *Machine) Screen() Screen {
	return vm.env.Screen
}

func (vm *Machine) Sound() SoundEngine {
	return vm.env.Sound
}

func (vm *Machine) Log() MessageLog {
	return vm.env.Log
}

// StoryID identifies the story the machine was loaded from.
func (vm *Machine) StoryID() zdebug.ID {
	return vm.storyID
}

// Context returns the context passed to Run.  It is only valid while Run is executing.
func (vm *Machine) Context() context.Context {
	if vm.ctx == nil {
		return context.Background()
	}
	return vm.ctx
}

// Jump sets the program counter.
func (vm *Machine) Jump(addr int) error {
	if addr < 0 || addr >= vm.mem.Size() {
		return zmem.ErrOutOfBounds{Addr: addr, Len: 1, Size: vm.mem.Size()}
	}
	vm.pc = addr
	return nil
}

// Quit halts the machine normally.
func (vm *Machine) Quit() {
	vm.halt()
}

// warnOnce sends a warning the first time key is seen.
func (vm *Machine) warnOnce(ins *zinstr.Instruction, key, text string) {
	if _, exists := vm.warned[key]; exists {
		return
	}
	vm.warned[key] = struct{}{}
	vm.env.Log.SendWarning(ins, text)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func clampU8(x int) uint8 {
	return uint8(min(max(x, 0), 255))
}

func hexAddr(addr int) string {
	return fmt.Sprintf("%#05x", addr)
}
