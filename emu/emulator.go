package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/microarch-lab/acc8sim/insts"
)

// StopReason explains why a run or a single step stopped advancing.
type StopReason int

const (
	// StopNone means execution can continue.
	StopNone StopReason = iota

	// StopStepLimit means the requested number of steps completed
	// without hitting a breakpoint or an error.
	StopStepLimit

	// StopBreakpoint means the program counter landed on an active
	// breakpoint after executing an instruction.
	StopBreakpoint

	// StopOddPC means the program counter was odd: instructions are two
	// bytes wide and start on even addresses.
	StopOddPC

	// StopBadOpcode means the fetched opcode byte did not decode to any
	// known instruction.
	StopBadOpcode
)

// String returns a short description of the stop reason.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "running"
	case StopStepLimit:
		return "step limit reached"
	case StopBreakpoint:
		return "breakpoint hit"
	case StopOddPC:
		return "misaligned program counter"
	case StopBadOpcode:
		return "unrecognized opcode"
	default:
		return fmt.Sprintf("stop reason %d", int(r))
	}
}

// Normal reports whether the stop is a normal termination. Hitting a
// breakpoint and exhausting the step budget are both normal; a
// misaligned program counter or an undecodable opcode is not.
func (r StopReason) Normal() bool {
	return r != StopOddPC && r != StopBadOpcode
}

// StepResult reports the outcome of a single fetch-decode-execute
// cycle.
type StepResult struct {
	// Inst is the executed instruction, or nil if the step aborted
	// before executing anything.
	Inst *insts.Instruction

	// Reason is StopNone while execution can continue.
	Reason StopReason
}

// RunResult reports the outcome of a bounded run.
type RunResult struct {
	// Reason is why the run stopped.
	Reason StopReason

	// Steps is the number of instructions actually executed, which is
	// also the amount TotalCycles advanced.
	Steps int
}

// Emulator executes programs for the 8-bit accumulator machine. It owns
// the processor state and the breakpoint registry and counts one cycle
// per successfully executed instruction.
//
// An Emulator is a self-contained value: it is not safe for concurrent
// use, but independent instances (including clones) never share mutable
// storage.
type Emulator struct {
	state       *State
	breakpoints *Breakpoints
	decoder     *insts.Decoder

	totalCycles int
	maxSteps    int

	output io.Writer
}

// Option is a functional option for configuring the Emulator.
type Option func(*Emulator)

// WithOutput sets the writer PrintProgram and other listings write to.
func WithOutput(w io.Writer) Option {
	return func(e *Emulator) {
		e.output = w
	}
}

// WithMaxSteps caps how many instructions any single Run call may
// execute. Zero (the default) means no cap.
func WithMaxSteps(max int) Option {
	return func(e *Emulator) {
		e.maxSteps = max
	}
}

// NewEmulator creates an emulator with zeroed state and no breakpoints.
func NewEmulator(opts ...Option) *Emulator {
	e := &Emulator{
		state:       NewState(),
		breakpoints: NewBreakpoints(),
		decoder:     insts.NewDecoder(),
		output:      os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the emulator's processor state.
func (e *Emulator) State() *State {
	return e.state
}

// Breakpoints returns the emulator's breakpoint registry.
func (e *Emulator) Breakpoints() *Breakpoints {
	return e.breakpoints
}

// Cycles returns the total number of successfully executed
// instructions.
func (e *Emulator) Cycles() int {
	return e.totalCycles
}

// ReadAcc returns the accumulator value.
func (e *Emulator) ReadAcc() int {
	return e.state.Acc
}

// ReadPC returns the program counter.
func (e *Emulator) ReadPC() int {
	return e.state.PC
}

// ReadMem returns the memory byte at the given address. The address is
// masked to the architecture width first.
func (e *Emulator) ReadMem(address int) int {
	return e.state.ReadMem(address)
}

// WriteMem stores a value into memory at the given (masked) address.
func (e *Emulator) WriteMem(address, value int) {
	e.state.WriteMem(address, value)
}

// IsZero reports whether the accumulator is exactly zero.
func (e *Emulator) IsZero() bool {
	return e.state.Acc == 0
}

// AtBreakpoint reports whether the current program counter matches an
// active breakpoint.
func (e *Emulator) AtBreakpoint() bool {
	return e.breakpoints.FindByAddress(e.state.PC) != nil
}

// Fetch reads the two bytes of the next instruction. The second byte is
// read at (pc+1) masked to the memory size, so a fetch at the last
// memory cell wraps around to address zero.
func (e *Emulator) Fetch() insts.InstructionData {
	return insts.InstructionData{
		Opcode:  e.state.Memory[e.state.PC&insts.ArchMask],
		Address: e.state.Memory[(e.state.PC+1)&insts.ArchMask],
	}
}

// Decode turns fetched instruction bytes into an instruction, or nil
// for an unrecognized opcode.
func (e *Emulator) Decode(data insts.InstructionData) *insts.Instruction {
	return e.decoder.Decode(data)
}

// ExecuteOne executes a decoded instruction against the processor
// state. Invalid opcodes are rejected at decode time, so execution
// itself always succeeds.
func (e *Emulator) ExecuteOne(inst *insts.Instruction) {
	Execute(inst, e.state)
}

// Step runs a single fetch-decode-execute cycle. The cycle counter
// advances only if an instruction actually executed.
func (e *Emulator) Step() StepResult {
	if e.state.PC%2 == 1 {
		return StepResult{Reason: StopOddPC}
	}

	inst := e.Decode(e.Fetch())
	if inst == nil {
		return StepResult{Reason: StopBadOpcode}
	}

	e.ExecuteOne(inst)
	e.totalCycles++

	if e.AtBreakpoint() {
		return StepResult{Inst: inst, Reason: StopBreakpoint}
	}

	return StepResult{Inst: inst}
}

// Run executes up to steps fetch-decode-execute cycles, stopping early
// on a breakpoint or an error. Run(0) does nothing and reports normal
// completion. A WithMaxSteps cap bounds steps further.
func (e *Emulator) Run(steps int) RunResult {
	if e.maxSteps > 0 && steps > e.maxSteps {
		steps = e.maxSteps
	}

	res := RunResult{Reason: StopStepLimit}

	for ; steps > 0; steps-- {
		sr := e.Step()
		if sr.Inst != nil {
			res.Steps++
		}
		if sr.Reason != StopNone {
			res.Reason = sr.Reason
			break
		}
	}

	return res
}

// PrintProgram writes a listing of every instruction slot in memory to
// the emulator's output. Slots that hold all zeroes or do not decode
// degrade to the bare numeric form; decoding never halts the listing.
func (e *Emulator) PrintProgram() error {
	for offset := 0; offset < insts.MemorySize; offset += insts.InstructionSize {
		data := insts.InstructionData{
			Opcode:  e.state.Memory[offset],
			Address: e.state.Memory[offset+1],
		}
		inst := e.Decode(data)

		var err error
		if inst == nil || (data.Opcode == 0 && data.Address == 0) {
			_, err = fmt.Fprintf(e.output, "%d\t%d\t%d\n",
				offset, data.Opcode, data.Address)
		} else {
			_, err = fmt.Fprintf(e.output, "%d\t%d\t%d\t:\t%s\n",
				offset, data.Opcode, data.Address, inst)
		}
		if err != nil {
			return fmt.Errorf("failed to write program listing: %w", err)
		}
	}
	return nil
}

// Reset returns the emulator to its initial state: zeroed processor
// state, empty breakpoint registry, cycle counter at zero.
func (e *Emulator) Reset() {
	e.state.Reset()
	e.breakpoints.Clear()
	e.totalCycles = 0
}

// Clone returns a fully independent copy of the emulator. The copy and
// the original share no mutable storage, so they may be used from
// different goroutines without synchronization.
func (e *Emulator) Clone() *Emulator {
	return &Emulator{
		state:       e.state.Clone(),
		breakpoints: e.breakpoints.Clone(),
		decoder:     insts.NewDecoder(),
		totalCycles: e.totalCycles,
		maxSteps:    e.maxSteps,
		output:      e.output,
	}
}
