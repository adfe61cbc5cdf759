package value

import (
	mapset "github.com/deckarep/golang-set"
)

// Provenance is the set of memory addresses that causally influenced a
// Value (spec section 3.1). The zero Provenance is a valid, empty set: Provenance
// is deliberately not a pointer so that Value remains a plain comparable-ish
// struct, but the underlying set is only allocated lazily on first use.
type Provenance struct {
	addrs mapset.Set
}

// NoProvenance is the empty provenance set.
var NoProvenance = Provenance{}

// Single returns a Provenance containing exactly addr.
func Single(addr uint16) Provenance {
	s := mapset.NewThreadUnsafeSet()
	s.Add(addr)
	return Provenance{addrs: s}
}

// Union returns the provenance set containing every address in p or other.
// Union is the operation every binary opcode uses to merge its operands'
// provenance (spec section 3.1: "monotone under operations").
func (p Provenance) Union(other Provenance) Provenance {
	switch {
	case p.addrs == nil && other.addrs == nil:
		return NoProvenance
	case p.addrs == nil:
		return other
	case other.addrs == nil:
		return p
	default:
		return Provenance{addrs: p.addrs.Union(other.addrs)}
	}
}

// WithAddress returns p unioned with the singleton {addr}. Used by the
// Oracle opcode to inject the address it read (spec section 4.1.3).
func (p Provenance) WithAddress(addr uint16) Provenance {
	return p.Union(Single(addr))
}

// Len returns the number of addresses in the set.
func (p Provenance) Len() int {
	if p.addrs == nil {
		return 0
	}
	return p.addrs.Cardinality()
}

// Addresses returns the provenance set as a sorted slice, for deterministic
// diagnosis output.
func (p Provenance) Addresses() []uint16 {
	if p.addrs == nil {
		return nil
	}
	out := make([]uint16, 0, p.addrs.Cardinality())
	for _, v := range p.addrs.ToSlice() {
		out = append(out, v.(uint16))
	}
	// insertion sort: provenance sets are small (bounded by distinct
	// oracle reads on one epoch's execution path), so this avoids
	// pulling in sort for a handful of elements.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Contains reports whether addr is a member of the provenance set.
func (p Provenance) Contains(addr uint16) bool {
	if p.addrs == nil {
		return false
	}
	return p.addrs.Contains(addr)
}

// Empty reports whether the provenance set has no members.
func (p Provenance) Empty() bool {
	return p.Len() == 0
}
