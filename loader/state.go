// Package loader reads and writes the machine's state file format.
//
// The format is line oriented:
//
//	line 1       total cycles executed so far
//	line 2       accumulator value
//	line 3       program counter
//	lines 4-259  the 256 memory bytes, one per line
//	lines 260-   one "<address> <name>" line per active breakpoint
//
// Load validates the entire file before returning anything, so a
// malformed file never produces a partial snapshot.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/microarch-lab/acc8sim/emu"
	"github.com/microarch-lab/acc8sim/insts"
)

// Load parses a state file into a snapshot. Any malformed line,
// out-of-range value, duplicate breakpoint address or name, or
// breakpoint overflow fails the whole load.
func Load(path string) (*emu.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	snap := &emu.Snapshot{}

	snap.TotalCycles, err = readInt(scanner, "total cycles")
	if err != nil {
		return nil, err
	}
	if snap.TotalCycles < 0 {
		return nil, fmt.Errorf("total cycles %d is negative", snap.TotalCycles)
	}

	snap.Acc, err = readInt(scanner, "accumulator")
	if err != nil {
		return nil, err
	}
	if snap.Acc < 0 || snap.Acc > insts.MaxVal {
		return nil, fmt.Errorf("accumulator %d out of range", snap.Acc)
	}

	snap.PC, err = readInt(scanner, "program counter")
	if err != nil {
		return nil, err
	}
	if snap.PC < 0 || snap.PC >= insts.MemorySize {
		return nil, fmt.Errorf("program counter %d out of range", snap.PC)
	}

	for offset := 0; offset < insts.MemorySize; offset++ {
		cell, err := readInt(scanner, fmt.Sprintf("memory byte %d", offset))
		if err != nil {
			return nil, err
		}
		if cell < 0 || cell > insts.MaxVal {
			return nil, fmt.Errorf("memory byte %d value %d out of range", offset, cell)
		}
		snap.Memory[offset] = byte(cell)
	}

	if err := readBreakpoints(scanner, snap); err != nil {
		return nil, err
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	return snap, nil
}

// Save writes a snapshot in the same format Load reads.
func Save(path string, snap *emu.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "%d\n", snap.TotalCycles)
	fmt.Fprintf(w, "%d\n", snap.Acc)
	fmt.Fprintf(w, "%d\n", snap.PC)

	for offset := 0; offset < insts.MemorySize; offset++ {
		fmt.Fprintf(w, "%d\n", snap.Memory[offset])
	}

	for _, rec := range snap.Breakpoints {
		fmt.Fprintf(w, "%d %s\n", rec.Address, rec.Name)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// readInt consumes one line holding a single decimal integer.
func readInt(scanner *bufio.Scanner, what string) (int, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("failed reading %s: %w", what, err)
		}
		return 0, fmt.Errorf("state file ended before %s", what)
	}

	line := strings.TrimSpace(scanner.Text())
	value, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%s line %q is not an integer", what, line)
	}
	return value, nil
}

// readBreakpoints consumes the trailing "<address> <name>" records.
// Uniqueness and capacity are enforced here so Load fails as a unit.
func readBreakpoints(scanner *bufio.Scanner, snap *emu.Snapshot) error {
	seenAddr := make(map[int]bool)
	seenName := make(map[string]bool)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("malformed breakpoint line %q", line)
		}

		address, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("breakpoint address %q is not an integer", fields[0])
		}
		if address < 0 || address >= insts.MemorySize {
			return fmt.Errorf("breakpoint address %d out of range", address)
		}

		name := fields[1]
		if seenAddr[address] {
			return fmt.Errorf("duplicate breakpoint address %d", address)
		}
		if seenName[name] {
			return fmt.Errorf("duplicate breakpoint name %q", name)
		}
		if len(snap.Breakpoints) >= emu.MaxBreakpoints {
			return fmt.Errorf("more than %d breakpoints", emu.MaxBreakpoints)
		}

		seenAddr[address] = true
		seenName[name] = true
		snap.Breakpoints = append(snap.Breakpoints, emu.BreakpointRecord{
			Address: address,
			Name:    name,
		})
	}

	return scanner.Err()
}
