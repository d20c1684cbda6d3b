package insts

// Decoder turns raw instruction bytes into Instruction values. It is
// the single point of opcode-to-behavior dispatch.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode maps the opcode byte to a freshly constructed Instruction
// carrying the address operand. An opcode byte at or above NumOpcodes
// yields nil: an unknown opcode is an expected outcome, not an error.
func (d *Decoder) Decode(data InstructionData) *Instruction {
	if Op(data.Opcode) >= NumOpcodes {
		return nil
	}
	return New(Op(data.Opcode), int(data.Address))
}
