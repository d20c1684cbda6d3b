// Package core provides a cycle estimate for programs running on the
// accumulator machine. It replays the functional emulator step by step
// and charges per-instruction latencies plus cache-model penalties.
//
// The machine is strictly sequential, so the model charges whole
// instructions: there is no overlap between fetch, decode, and execute.
// The timing layer never changes functional results.
package core

import (
	"github.com/microarch-lab/acc8sim/emu"
	"github.com/microarch-lab/acc8sim/insts"
	"github.com/microarch-lab/acc8sim/timing/cache"
	"github.com/microarch-lab/acc8sim/timing/latency"
)

// Stats holds performance statistics for a timed run.
type Stats struct {
	// Cycles is the estimated cycle total.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Fetches is the number of instruction-byte fetches.
	Fetches uint64
	// MemReads and MemWrites count data memory accesses.
	MemReads  uint64
	MemWrites uint64
	// CacheHits and CacheMisses aggregate both caches.
	CacheHits   uint64
	CacheMisses uint64
	// Redirects is the number of taken jumps.
	Redirects uint64
}

// CPI returns the estimated cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core estimates execution time for the emulator it wraps. It owns an
// instruction cache and a data cache, both backed by the emulator's
// memory.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table
	icache   *cache.Cache
	dcache   *cache.Cache

	stats Stats
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLatencyTable sets a custom latency table.
func WithLatencyTable(table *latency.Table) Option {
	return func(c *Core) {
		c.table = table
	}
}

// WithCacheConfig sets the geometry used for both caches.
func WithCacheConfig(config cache.Config) Option {
	return func(c *Core) {
		backing := cache.NewStateBacking(c.emulator.State())
		c.icache = cache.New(config, backing)
		c.dcache = cache.New(config, backing)
	}
}

// NewCore creates a timing core around the given emulator.
func NewCore(emulator *emu.Emulator, opts ...Option) *Core {
	backing := cache.NewStateBacking(emulator.State())

	c := &Core{
		emulator: emulator,
		table:    latency.NewTable(),
		icache:   cache.New(cache.DefaultConfig(), backing),
		dcache:   cache.New(cache.DefaultConfig(), backing),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Emulator returns the wrapped functional emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Stats returns the accumulated statistics, with cache counters folded
// in from both caches.
func (c *Core) Stats() Stats {
	stats := c.stats

	for _, cs := range []cache.Statistics{c.icache.Stats(), c.dcache.Stats()} {
		stats.CacheHits += cs.Hits
		stats.CacheMisses += cs.Misses
	}

	return stats
}

// Run executes up to steps instructions with timing accounting. The
// stop conditions are exactly the functional emulator's.
func (c *Core) Run(steps int) emu.RunResult {
	res := emu.RunResult{Reason: emu.StopStepLimit}

	for ; steps > 0; steps-- {
		pcBefore := c.emulator.ReadPC()

		sr := c.emulator.Step()
		if sr.Inst == nil {
			res.Reason = sr.Reason
			return res
		}

		c.chargeInstruction(pcBefore, sr.Inst)
		res.Steps++

		if sr.Reason != emu.StopNone {
			res.Reason = sr.Reason
			return res
		}
	}

	return res
}

// chargeInstruction adds the cycle cost of one executed instruction:
// the fetch of its two bytes through the instruction cache, its base
// latency, any data access through the data cache, and the redirect
// penalty for a taken jump.
func (c *Core) chargeInstruction(pcBefore int, inst *insts.Instruction) {
	for offset := 0; offset < insts.InstructionSize; offset++ {
		r := c.icache.Read((pcBefore + offset) & insts.ArchMask)
		c.stats.Cycles += r.Latency
		c.stats.Fetches++
	}

	c.stats.Cycles += c.table.GetLatency(inst)

	if inst.IsLoadOp() {
		r := c.dcache.Read(inst.Address())
		c.stats.Cycles += r.Latency
		c.stats.MemReads++
	}
	if inst.IsStoreOp() {
		// The functional step already wrote memory; mirror the byte into
		// the cache model so cached copies stay coherent with the state.
		r := c.dcache.Write(inst.Address(), byte(c.emulator.ReadMem(inst.Address())))
		c.stats.Cycles += r.Latency
		c.stats.MemWrites++
	}

	pcAfter := c.emulator.ReadPC()
	if inst.IsJump() && pcAfter != (pcBefore+insts.InstructionSize)&insts.ArchMask {
		c.stats.Cycles += c.table.JumpTakenPenalty()
		c.stats.Redirects++
	}

	c.stats.Instructions++
}

// Reset clears the timing statistics and both cache models. The
// functional emulator is left untouched.
func (c *Core) Reset() {
	c.stats = Stats{}
	c.icache.Reset()
	c.dcache.Reset()
}
