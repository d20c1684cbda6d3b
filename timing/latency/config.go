package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds cycle costs for the machine's instruction classes
// and memory hierarchy. The defaults model a small microcoded core with
// a tiny cache in front of its 256-byte memory.
type TimingConfig struct {
	// ALULatency is the execution latency for the accumulator ALU ops
	// (ADD, AND, ORR, XOR). Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// LoadLatency is the base latency for LDR, before any cache or
	// memory penalty. Default: 1 cycle.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the base latency for STR. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// JumpLatency is the latency for JMP and for JNE whether or not the
	// branch is taken. Default: 1 cycle.
	JumpLatency uint64 `json:"jump_latency"`

	// JumpTakenPenalty is the extra cost of a redirected program
	// counter (JMP, or JNE with a non-zero accumulator): the fetch for
	// the sequentially next instruction is thrown away.
	// Default: 1 cycle.
	JumpTakenPenalty uint64 `json:"jump_taken_penalty"`

	// CacheHitLatency is the cost of a cache hit. Default: 1 cycle.
	CacheHitLatency uint64 `json:"cache_hit_latency"`

	// CacheMissLatency is the cost of a cache miss, including the
	// backing memory access. Default: 8 cycles.
	CacheMissLatency uint64 `json:"cache_miss_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:       1,
		LoadLatency:      1,
		StoreLatency:     1,
		JumpLatency:      1,
		JumpTakenPenalty: 1,
		CacheHitLatency:  1,
		CacheMissLatency: 8,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Missing fields keep
// their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are usable.
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.JumpLatency == 0 {
		return fmt.Errorf("jump_latency must be > 0")
	}
	if c.CacheHitLatency == 0 {
		return fmt.Errorf("cache_hit_latency must be > 0")
	}
	if c.CacheMissLatency < c.CacheHitLatency {
		return fmt.Errorf("cache_miss_latency must be >= cache_hit_latency")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
