// Package insts provides instruction definitions and decoding for the
// 8-bit accumulator machine.
package insts

import "fmt"

// Architecture constants. Every register and address is ArchBits wide,
// and all arithmetic wraps by masking with ArchMask.
const (
	// ArchBits is the register and address width in bits.
	ArchBits = 8

	// ArchMask reduces a value to ArchBits bits.
	ArchMask = (1 << ArchBits) - 1

	// MaxVal is the largest representable register or memory value.
	MaxVal = ArchMask

	// InstructionSize is the fixed width of every instruction in bytes.
	InstructionSize = 2

	// MemorySize is the total number of addressable memory bytes.
	MemorySize = 256
)

// Op identifies an instruction's behavior. The constant values are the
// machine's opcode encoding: the first byte of every instruction holds
// one of these values directly.
type Op uint8

// Machine opcodes, in encoding order.
const (
	OpADD Op = iota
	OpAND
	OpORR
	OpXOR
	OpLDR
	OpSTR
	OpJMP
	OpJNE

	// NumOpcodes is the number of defined opcodes. Any opcode byte at or
	// above this value does not decode to an instruction.
	NumOpcodes
)

// mnemonics maps each opcode to its 3-letter name.
var mnemonics = [NumOpcodes]string{
	OpADD: "ADD",
	OpAND: "AND",
	OpORR: "ORR",
	OpXOR: "XOR",
	OpLDR: "LDR",
	OpSTR: "STR",
	OpJMP: "JMP",
	OpJNE: "JNE",
}

// InstructionData holds the two raw bytes of a fetched instruction:
// the opcode byte and the address operand byte. It is a transient
// decode unit with no identity beyond its values.
type InstructionData struct {
	Opcode  byte
	Address byte
}

// Instruction is a decoded instruction: an opcode tag plus an address
// operand. The address is masked to ArchBits bits at construction and
// never changes afterwards.
type Instruction struct {
	op      Op
	address int
}

// New creates an instruction with the given opcode and address operand.
// The address is masked to ArchBits bits.
func New(op Op, address int) *Instruction {
	return &Instruction{
		op:      op,
		address: address & ArchMask,
	}
}

// Op returns the instruction's opcode.
func (i *Instruction) Op() Op {
	return i.op
}

// Address returns the masked address operand.
func (i *Instruction) Address() int {
	return i.address
}

// Mnemonic returns the instruction's 3-letter name.
func (i *Instruction) Mnemonic() string {
	return mnemonics[i.op]
}

// String produces the human-readable description of the instruction.
// Calling it on an instruction whose opcode is not one of the defined
// ops is a programming defect and panics.
func (i *Instruction) String() string {
	switch i.op {
	case OpADD:
		return fmt.Sprintf("ADD: ACC <- ACC + [%d]", i.address)
	case OpAND:
		return fmt.Sprintf("AND: ACC <- ACC & [%d]", i.address)
	case OpORR:
		return fmt.Sprintf("ORR: ACC <- ACC | [%d]", i.address)
	case OpXOR:
		return fmt.Sprintf("XOR: ACC <- ACC ^ [%d]", i.address)
	case OpLDR:
		return fmt.Sprintf("LDR: ACC <- [%d]", i.address)
	case OpSTR:
		return fmt.Sprintf("STR: ACC -> [%d]", i.address)
	case OpJMP:
		return fmt.Sprintf("JMP: PC <- %d", i.address)
	case OpJNE:
		return fmt.Sprintf("JNE: PC <- %d if ACC != 0", i.address)
	default:
		panic(fmt.Sprintf("insts: String called on invalid opcode %d", i.op))
	}
}

// IsJump reports whether the instruction may redirect the program
// counter (JMP or JNE).
func (i *Instruction) IsJump() bool {
	return i.op == OpJMP || i.op == OpJNE
}

// IsMemoryOp reports whether the instruction reads or writes a data
// memory cell (everything except the jumps).
func (i *Instruction) IsMemoryOp() bool {
	return !i.IsJump()
}

// IsLoadOp reports whether the instruction reads a data memory cell.
func (i *Instruction) IsLoadOp() bool {
	switch i.op {
	case OpADD, OpAND, OpORR, OpXOR, OpLDR:
		return true
	default:
		return false
	}
}

// IsStoreOp reports whether the instruction writes a data memory cell.
func (i *Instruction) IsStoreOp() bool {
	return i.op == OpSTR
}
