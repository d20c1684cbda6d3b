package emu

import "github.com/microarch-lab/acc8sim/insts"

// MaxBreakpoints bounds the registry to one breakpoint per addressable
// instruction slot.
const MaxBreakpoints = insts.MemorySize / insts.InstructionSize

// Breakpoint is a named address at which automatic execution pauses.
// The address is stored pre-masked to the architecture width.
type Breakpoint struct {
	address int
	name    string
}

// Address returns the breakpoint's masked address.
func (b *Breakpoint) Address() int {
	return b.address
}

// Name returns the breakpoint's symbolic name.
func (b *Breakpoint) Name() string {
	return b.name
}

// HasAddress reports whether the breakpoint targets the given address.
func (b *Breakpoint) HasAddress(address int) bool {
	return b.address == address&insts.ArchMask
}

// HasName reports whether the breakpoint carries the given name.
// Names compare case-sensitively.
func (b *Breakpoint) HasName(name string) bool {
	return b.name == name
}

// Breakpoints is an ordered registry of breakpoints. Addresses and
// names are each unique among active entries, and deletion preserves
// the relative order of the surviving entries. The registry owns its
// entries; lookups return non-owning views.
type Breakpoints struct {
	entries []*Breakpoint
}

// NewBreakpoints creates an empty registry.
func NewBreakpoints() *Breakpoints {
	return &Breakpoints{}
}

// Insert registers a breakpoint with the given address and name. It
// fails without mutating the registry if the masked address or the name
// is already registered, or if the registry is at capacity.
func (r *Breakpoints) Insert(address int, name string) bool {
	if len(r.entries) >= MaxBreakpoints {
		return false
	}
	if r.FindByAddress(address) != nil {
		return false
	}
	if r.FindByName(name) != nil {
		return false
	}

	r.entries = append(r.entries, &Breakpoint{
		address: address & insts.ArchMask,
		name:    name,
	})
	return true
}

// FindByAddress returns the breakpoint registered at the given address,
// or nil. The address is masked before matching.
func (r *Breakpoints) FindByAddress(address int) *Breakpoint {
	for _, b := range r.entries {
		if b.HasAddress(address) {
			return b
		}
	}
	return nil
}

// FindByName returns the breakpoint with the given name, or nil. For a
// given entry this is the same *Breakpoint that FindByAddress returns,
// so callers may compare the two lookup paths by identity.
func (r *Breakpoints) FindByName(name string) *Breakpoint {
	for _, b := range r.entries {
		if b.HasName(name) {
			return b
		}
	}
	return nil
}

// DeleteByAddress removes the breakpoint at the given address. Entries
// after the removed one shift down by one position; earlier entries
// stay put. Reports whether a breakpoint was removed.
func (r *Breakpoints) DeleteByAddress(address int) bool {
	for i, b := range r.entries {
		if b.HasAddress(address) {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteByName removes the breakpoint with the given name, preserving
// the order of the survivors. Reports whether a breakpoint was removed.
func (r *Breakpoints) DeleteByName(name string) bool {
	for i, b := range r.entries {
		if b.HasName(name) {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of active breakpoints.
func (r *Breakpoints) Count() int {
	return len(r.entries)
}

// All returns the active breakpoints in registration order. The slice
// is a fresh copy, but the entries are the registry's own.
func (r *Breakpoints) All() []*Breakpoint {
	out := make([]*Breakpoint, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear removes every breakpoint.
func (r *Breakpoints) Clear() {
	r.entries = nil
}

// Clone returns an independent deep copy of the registry.
func (r *Breakpoints) Clone() *Breakpoints {
	c := &Breakpoints{entries: make([]*Breakpoint, len(r.entries))}
	for i, b := range r.entries {
		entry := *b
		c.entries[i] = &entry
	}
	return c
}
