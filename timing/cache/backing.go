package cache

import (
	"github.com/microarch-lab/acc8sim/emu"
)

// StateBacking adapts the emulator's processor state memory as a
// BackingStore. Addresses wrap at the memory size, matching the
// machine's addressing.
type StateBacking struct {
	state *emu.State
}

// NewStateBacking creates a BackingStore over the given state.
func NewStateBacking(state *emu.State) *StateBacking {
	return &StateBacking{state: state}
}

// Read fetches data from the backing memory.
func (s *StateBacking) Read(addr, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = byte(s.state.ReadMem(addr + i))
	}
	return data
}

// Write stores data to the backing memory.
func (s *StateBacking) Write(addr int, data []byte) {
	for i, b := range data {
		s.state.WriteMem(addr+i, int(b))
	}
}

var _ BackingStore = (*StateBacking)(nil)
