package zvm

import (
	"errors"
	"fmt"
)

// ErrDivideByZero is returned by div and mod when the divisor is zero.
var ErrDivideByZero = errors.New("division by zero")

// StrictViolation is raised when an instruction does not have the shape its opcode requires.
// It indicates an inconsistency between the decoder and the opcode routines, never bad input,
// so it is raised with panic and recovered by the run loop.
type StrictViolation struct {
	Opcode string
	Reason string
}

func (e StrictViolation) Error() string {
	return fmt.Sprintf("strict violation in %s: %s", e.Opcode, e.Reason)
}

// Fault is a fatal error which halted the machine.
type Fault struct {
	Opcode  string
	Address int
	Err     error
}

func (f *Fault) Error() string {
	if f.Opcode == "" {
		return fmt.Sprintf("fault at %#05x: %v", f.Address, f.Err)
	}
	return fmt.Sprintf("fault in %s at %#05x: %v", f.Opcode, f.Address, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

type ErrStackUnderflow struct{}

func (e ErrStackUnderflow) Error() string {
	return "stack underflow"
}

type ErrNoLocal struct {
	Index int
	Count int
}

func (e ErrNoLocal) Error() string {
	return fmt.Sprintf("local %d does not exist (routine has %d)", e.Index, e.Count)
}

type ErrBadRoutine struct {
	Address int
	Locals  int
}

func (e ErrBadRoutine) Error() string {
	return fmt.Sprintf("routine at %#05x declares %d locals", e.Address, e.Locals)
}

// ErrNotAwaitingInput is returned when input is submitted to a machine that did not ask for it.
type ErrNotAwaitingInput struct {
	State State
}

func (e ErrNotAwaitingInput) Error() string {
	return fmt.Sprintf("machine is not awaiting input (state=%v)", e.State)
}

// ErrReadOnly is returned when a story writes outside of dynamic memory.
type ErrReadOnly struct {
	Addr int
}

func (e ErrReadOnly) Error() string {
	return fmt.Sprintf("write to %#05x is outside of dynamic memory", e.Addr)
}
