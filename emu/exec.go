package emu

import (
	"fmt"

	"github.com/microarch-lab/acc8sim/insts"
)

// executeCore applies the instruction-specific state mutation. It never
// masks its results and never touches the program counter except for
// the jumps: Execute below does the instruction-independent bookkeeping
// exactly once.
//
// JMP and JNE write the target minus InstructionSize so that the
// unconditional advance in Execute lands the program counter exactly on
// the target. The intermediate value can go negative for target 0; the
// final masking turns that into the correct wrapped address.
func executeCore(inst *insts.Instruction, state *State) {
	a := inst.Address()

	switch inst.Op() {
	case insts.OpADD:
		state.Acc += state.ReadMem(a)
	case insts.OpAND:
		state.Acc &= state.ReadMem(a)
	case insts.OpORR:
		state.Acc |= state.ReadMem(a)
	case insts.OpXOR:
		state.Acc ^= state.ReadMem(a)
	case insts.OpLDR:
		state.Acc = state.ReadMem(a)
	case insts.OpSTR:
		state.WriteMem(a, state.Acc)
	case insts.OpJMP:
		state.PC = a - insts.InstructionSize
	case insts.OpJNE:
		if state.Acc != 0 {
			state.PC = a - insts.InstructionSize
		}
	default:
		panic(fmt.Sprintf("emu: execute called on invalid opcode %d", inst.Op()))
	}
}

// Execute runs one instruction against the state: the per-opcode core
// mutation, then the post-processing shared by all opcodes. The shared
// part advances the program counter by the fixed instruction width and
// trims the accumulator and the program counter to the architecture
// width.
func Execute(inst *insts.Instruction, state *State) {
	executeCore(inst, state)

	state.PC += insts.InstructionSize

	state.Acc &= insts.ArchMask
	state.PC &= insts.ArchMask
}
