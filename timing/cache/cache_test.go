package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/microarch-lab/acc8sim/emu"
	"github.com/microarch-lab/acc8sim/timing/cache"
)

var _ = Describe("Cache", func() {
	var (
		state *emu.State
		c     *cache.Cache
	)

	BeforeEach(func() {
		state = emu.NewState()
		// Default geometry: 32 bytes, 2-way, 4-byte lines, 4 sets.
		c = cache.New(cache.DefaultConfig(), cache.NewStateBacking(state))
	})

	Describe("Read", func() {
		It("should miss cold and hit on the repeat access", func() {
			state.WriteMem(10, 77)

			first := c.Read(10)
			Expect(first.Hit).To(BeFalse())
			Expect(first.Latency).To(Equal(uint64(8)))
			Expect(first.Data).To(Equal(byte(77)))

			second := c.Read(10)
			Expect(second.Hit).To(BeTrue())
			Expect(second.Latency).To(Equal(uint64(1)))
			Expect(second.Data).To(Equal(byte(77)))
		})

		It("should hit on a different byte of the same line", func() {
			state.WriteMem(8, 1)
			state.WriteMem(11, 2)

			c.Read(8)
			result := c.Read(11)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Data).To(Equal(byte(2)))
		})

		It("should miss again on a different line", func() {
			c.Read(0)
			result := c.Read(4)

			Expect(result.Hit).To(BeFalse())
		})
	})

	Describe("Write", func() {
		It("should allocate the line on a write miss", func() {
			miss := c.Write(20, 5)
			Expect(miss.Hit).To(BeFalse())

			hit := c.Read(20)
			Expect(hit.Hit).To(BeTrue())
			Expect(hit.Data).To(Equal(byte(5)))
		})

		It("should hold the written byte without touching backing memory", func() {
			c.Write(20, 5)

			Expect(state.ReadMem(20)).To(Equal(0))
		})

		It("should preserve the rest of the allocated line", func() {
			state.WriteMem(21, 9)

			c.Write(20, 5)
			result := c.Read(21)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Data).To(Equal(byte(9)))
		})
	})

	Describe("eviction", func() {
		It("should evict a line when a set overflows", func() {
			// Lines 0, 16, and 32 all map to set zero of a 2-way cache.
			c.Read(0)
			c.Read(16)
			result := c.Read(32)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect([]int{0, 16}).To(ContainElement(result.EvictedAddr))
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should write a dirty victim back to backing memory", func() {
			c.Write(0, 42)
			c.Read(16)
			c.Read(32)
			c.Read(48)

			// Both earlier lines are gone by now, so the dirty line for
			// address 0 must have been written back.
			Expect(state.ReadMem(0)).To(Equal(42))
			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
		})
	})

	Describe("Flush", func() {
		It("should write dirty lines back and invalidate everything", func() {
			c.Write(20, 5)
			c.Read(0)

			c.Flush()

			Expect(state.ReadMem(20)).To(Equal(5))
			Expect(c.Read(20).Hit).To(BeFalse())
			Expect(c.Read(0).Hit).To(BeFalse())
		})
	})

	Describe("Invalidate", func() {
		It("should drop the line without writing it back", func() {
			c.Write(20, 5)

			c.Invalidate(20)

			Expect(state.ReadMem(20)).To(Equal(0))
			Expect(c.Read(20).Hit).To(BeFalse())
		})
	})

	Describe("statistics", func() {
		It("should count reads, writes, hits, and misses", func() {
			c.Read(0)
			c.Read(0)
			c.Write(0, 1)
			c.Read(100)

			stats := c.Stats()
			Expect(stats.Reads).To(Equal(uint64(3)))
			Expect(stats.Writes).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(2)))
			Expect(stats.Misses).To(Equal(uint64(2)))
		})

		It("should clear counters on ResetStats without losing data", func() {
			c.Read(0)
			c.ResetStats()

			Expect(c.Stats().Reads).To(Equal(uint64(0)))
			Expect(c.Read(0).Hit).To(BeTrue())
		})

		It("should drop both data and counters on Reset", func() {
			c.Read(0)
			c.Reset()

			Expect(c.Stats().Reads).To(Equal(uint64(0)))
			Expect(c.Read(0).Hit).To(BeFalse())
		})
	})
})

var _ = Describe("StateBacking", func() {
	It("should read and write through to the processor state", func() {
		state := emu.NewState()
		backing := cache.NewStateBacking(state)

		backing.Write(10, []byte{1, 2, 3})

		Expect(state.ReadMem(10)).To(Equal(1))
		Expect(state.ReadMem(12)).To(Equal(3))
		Expect(backing.Read(10, 3)).To(Equal([]byte{1, 2, 3}))
	})

	It("should wrap addresses at the end of memory", func() {
		state := emu.NewState()
		backing := cache.NewStateBacking(state)

		backing.Write(255, []byte{7, 8})

		Expect(state.ReadMem(255)).To(Equal(7))
		Expect(state.ReadMem(0)).To(Equal(8))
	})
})
