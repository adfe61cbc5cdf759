// Package typecheck implements the temporal type checker (spec section
// 4.3): an abstract interpreter that walks a Program's statement tree
// tracking, at each stack position and memory cell, whether a value's
// provenance can ever be non-empty (Temporal) or is guaranteed empty
// (Pure).
package typecheck

// Taint is a two-point lattice, Pure ⊑ Temporal, plus an Unknown bottom
// used only during inference (spec section 4.3 "Lattice").
type Taint int

const (
	TaintUnknown Taint = iota
	TaintPure
	TaintTemporal
)

func (t Taint) String() string {
	switch t {
	case TaintPure:
		return "pure"
	case TaintTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Join implements the lattice join: Temporal ∨ _ = Temporal; Pure ∨ Pure =
// Pure; Unknown is the identity element (spec section 4.3 "Lattice").
func Join(a, b Taint) Taint {
	if a == TaintUnknown {
		return b
	}
	if b == TaintUnknown {
		return a
	}
	if a == TaintTemporal || b == TaintTemporal {
		return TaintTemporal
	}
	return TaintPure
}
