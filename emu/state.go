// Package emu provides functional emulation of the 8-bit accumulator
// machine.
package emu

import "github.com/microarch-lab/acc8sim/insts"

// State holds the full architectural state of the processor: the
// accumulator, the program counter, and the 256-byte memory. Acc and PC
// are kept in [0, MaxVal] after every executed instruction.
type State struct {
	// Acc is the single general-purpose register.
	Acc int

	// PC is the address of the next instruction to fetch.
	PC int

	// Memory is the machine's byte-addressable memory.
	Memory [insts.MemorySize]byte
}

// NewState creates a zero-initialized processor state.
func NewState() *State {
	return &State{}
}

// ReadMem returns the memory byte at the given address. The address is
// masked to the architecture's width before indexing, so any integer is
// a valid argument.
func (s *State) ReadMem(address int) int {
	return int(s.Memory[address&insts.ArchMask])
}

// WriteMem stores a value into the memory cell at the given address.
// Both the address and the value are masked to the architecture width.
func (s *State) WriteMem(address, value int) {
	s.Memory[address&insts.ArchMask] = byte(value & insts.ArchMask)
}

// Clone returns an independent deep copy of the state. The memory array
// is copied by value, so the copy shares no storage with the original.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// Reset zeroes the accumulator, the program counter, and all memory.
func (s *State) Reset() {
	*s = State{}
}
