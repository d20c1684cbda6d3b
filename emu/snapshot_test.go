package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/microarch-lab/acc8sim/emu"
)

var _ = Describe("Snapshot", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("capture and restore", func() {
		It("should round-trip the full emulator state", func() {
			writeProgram(e, 0, 4, 100, 0, 101) // LDR 100, ADD 101
			e.WriteMem(100, 40)
			e.WriteMem(101, 2)
			e.Breakpoints().Insert(4, "after")
			e.Run(2)

			snap := e.Snapshot()

			restored := emu.NewEmulator()
			Expect(restored.Restore(snap)).To(Succeed())

			Expect(restored.Cycles()).To(Equal(2))
			Expect(restored.ReadAcc()).To(Equal(42))
			Expect(restored.ReadPC()).To(Equal(4))
			for address := 0; address < 256; address++ {
				Expect(restored.ReadMem(address)).To(Equal(e.ReadMem(address)))
			}
			bp := restored.Breakpoints().FindByName("after")
			Expect(bp).ToNot(BeNil())
			Expect(bp.Address()).To(Equal(4))
		})

		It("should detach the snapshot from later emulator mutations", func() {
			e.WriteMem(10, 1)
			snap := e.Snapshot()

			e.WriteMem(10, 2)
			e.Breakpoints().Insert(0, "late")

			Expect(int(snap.Memory[10])).To(Equal(1))
			Expect(snap.Breakpoints).To(BeEmpty())
		})
	})

	Describe("Restore validation", func() {
		var dirty func() *emu.Emulator

		BeforeEach(func() {
			dirty = func() *emu.Emulator {
				d := emu.NewEmulator()
				writeProgram(d, 0, 6, 0) // JMP 0
				d.Breakpoints().Insert(30, "keep")
				d.Run(3)
				d.State().Acc = 77
				return d
			}
		})

		expectUntouched := func(d *emu.Emulator) {
			Expect(d.Cycles()).To(Equal(3))
			Expect(d.ReadAcc()).To(Equal(77))
			Expect(d.ReadPC()).To(Equal(0))
			Expect(d.ReadMem(0)).To(Equal(6))
			Expect(d.Breakpoints().Count()).To(Equal(1))
			Expect(d.Breakpoints().FindByName("keep")).ToNot(BeNil())
		}

		It("should reject a negative cycle count without touching state", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{TotalCycles: -1})

			Expect(err).To(HaveOccurred())
			expectUntouched(d)
		})

		It("should reject an out-of-range accumulator", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{Acc: 256})

			Expect(err).To(HaveOccurred())
			expectUntouched(d)
		})

		It("should reject an out-of-range program counter", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{PC: 256})

			Expect(err).To(HaveOccurred())
			expectUntouched(d)
		})

		It("should reject an out-of-range breakpoint address", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{
				Breakpoints: []emu.BreakpointRecord{{Address: 300, Name: "x"}},
			})

			Expect(err).To(HaveOccurred())
			expectUntouched(d)
		})

		It("should reject conflicting breakpoints without touching state", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{
				Breakpoints: []emu.BreakpointRecord{
					{Address: 10, Name: "a"},
					{Address: 10, Name: "b"},
				},
			})

			Expect(err).To(HaveOccurred())
			expectUntouched(d)
		})

		It("should replace old breakpoints entirely on success", func() {
			d := dirty()
			err := d.Restore(&emu.Snapshot{
				Breakpoints: []emu.BreakpointRecord{{Address: 50, Name: "new"}},
			})

			Expect(err).To(BeNil())
			Expect(d.Breakpoints().Count()).To(Equal(1))
			Expect(d.Breakpoints().FindByName("keep")).To(BeNil())
			Expect(d.Breakpoints().FindByName("new")).ToNot(BeNil())
			Expect(d.Cycles()).To(Equal(0))
			Expect(d.ReadAcc()).To(Equal(0))
		})
	})
})
