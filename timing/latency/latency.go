// Package latency provides instruction timing models for cycle
// estimation. Latency values are configurable via TimingConfig.
package latency

import (
	"github.com/microarch-lab/acc8sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom timing
// configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the base execution latency in cycles for the given
// instruction, excluding cache penalties and jump redirect costs.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op() {
	case insts.OpADD, insts.OpAND, insts.OpORR, insts.OpXOR:
		return t.config.ALULatency

	case insts.OpLDR:
		return t.config.LoadLatency

	case insts.OpSTR:
		return t.config.StoreLatency

	case insts.OpJMP, insts.OpJNE:
		return t.config.JumpLatency

	default:
		return 1
	}
}

// JumpTakenPenalty returns the extra cycles charged when an executed
// instruction redirected the program counter.
func (t *Table) JumpTakenPenalty() uint64 {
	return t.config.JumpTakenPenalty
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
