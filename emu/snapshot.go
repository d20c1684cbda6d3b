package emu

import (
	"fmt"

	"github.com/microarch-lab/acc8sim/insts"
)

// BreakpointRecord is the persisted form of a breakpoint.
type BreakpointRecord struct {
	Address int
	Name    string
}

// Snapshot is a complete, self-contained copy of an emulator's
// persisted state: cycle counter, registers, memory, and breakpoints.
// It is the unit the persistence collaborator produces and consumes.
type Snapshot struct {
	TotalCycles int
	Acc         int
	PC          int
	Memory      [insts.MemorySize]byte
	Breakpoints []BreakpointRecord
}

// Snapshot captures the emulator's current state.
func (e *Emulator) Snapshot() *Snapshot {
	snap := &Snapshot{
		TotalCycles: e.totalCycles,
		Acc:         e.state.Acc,
		PC:          e.state.PC,
		Memory:      e.state.Memory,
	}

	for _, b := range e.breakpoints.All() {
		snap.Breakpoints = append(snap.Breakpoints, BreakpointRecord{
			Address: b.Address(),
			Name:    b.Name(),
		})
	}

	return snap
}

// Restore replaces the emulator's entire state with the snapshot's.
// The snapshot is validated in full before anything is touched: on
// error the emulator is left exactly as it was.
func (e *Emulator) Restore(snap *Snapshot) error {
	if snap.TotalCycles < 0 {
		return fmt.Errorf("invalid cycle count %d", snap.TotalCycles)
	}
	if snap.Acc < 0 || snap.Acc > insts.MaxVal {
		return fmt.Errorf("accumulator %d out of range", snap.Acc)
	}
	if snap.PC < 0 || snap.PC >= insts.MemorySize {
		return fmt.Errorf("program counter %d out of range", snap.PC)
	}

	// Build the breakpoint registry first so a conflicting or overflowing
	// record fails the restore before any state is replaced.
	breakpoints := NewBreakpoints()
	for _, rec := range snap.Breakpoints {
		if rec.Address < 0 || rec.Address >= insts.MemorySize {
			return fmt.Errorf("breakpoint address %d out of range", rec.Address)
		}
		if !breakpoints.Insert(rec.Address, rec.Name) {
			return fmt.Errorf("conflicting breakpoint %d %q", rec.Address, rec.Name)
		}
	}

	e.totalCycles = snap.TotalCycles
	e.state.Acc = snap.Acc
	e.state.PC = snap.PC
	e.state.Memory = snap.Memory
	e.breakpoints = breakpoints

	return nil
}
