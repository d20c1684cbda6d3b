package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/microarch-lab/acc8sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should decode every known opcode to its instruction", func() {
		for opcode := byte(0); insts.Op(opcode) < insts.NumOpcodes; opcode++ {
			inst := decoder.Decode(insts.InstructionData{
				Opcode:  opcode,
				Address: 42,
			})

			Expect(inst).ToNot(BeNil())
			Expect(inst.Op()).To(Equal(insts.Op(opcode)))
			Expect(inst.Address()).To(Equal(42))
		}
	})

	It("should yield absence for every opcode byte above the known set", func() {
		for opcode := 256 - 1; insts.Op(opcode) >= insts.NumOpcodes; opcode-- {
			inst := decoder.Decode(insts.InstructionData{
				Opcode:  byte(opcode),
				Address: byte(opcode * 3),
			})
			Expect(inst).To(BeNil())
		}
	})

	It("should yield absence regardless of the address byte", func() {
		for address := 0; address < 256; address++ {
			inst := decoder.Decode(insts.InstructionData{
				Opcode:  byte(insts.NumOpcodes),
				Address: byte(address),
			})
			Expect(inst).To(BeNil())
		}
	})

	It("should construct a fresh instruction on every decode", func() {
		data := insts.InstructionData{Opcode: byte(insts.OpJMP), Address: 8}
		first := decoder.Decode(data)
		second := decoder.Decode(data)

		Expect(first).ToNot(BeIdenticalTo(second))
	})
})
