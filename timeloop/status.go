package timeloop

import (
	"github.com/averagestudentdontfail/Ourochronos/memory"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// Kind discriminates the outcome of a TimeLoop run (spec section 4.2's
// ConvergenceStatus variants).
type Kind int

const (
	KindConsistent Kind = iota
	KindParadox
	KindOscillation
	KindDivergence
	KindTimeout
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindConsistent:
		return "consistent"
	case KindParadox:
		return "paradox"
	case KindOscillation:
		return "oscillation"
	case KindDivergence:
		return "divergence"
	case KindTimeout:
		return "timeout"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnosis classifies an Oscillation result (spec section 4.2.1).
type Diagnosis int

const (
	DiagnosisGeneric Diagnosis = iota
	DiagnosisNegativeLoop
)

func (d Diagnosis) String() string {
	if d == DiagnosisNegativeLoop {
		return "negative-loop"
	}
	return "oscillation"
}

// Direction classifies a Divergence result (spec section 4.2.2).
type Direction int

const (
	DirectionIncreasing Direction = iota
	DirectionDecreasing
)

func (d Direction) String() string {
	if d == DirectionDecreasing {
		return "decreasing"
	}
	return "increasing"
}

// ConvergenceStatus is the terminal outcome of a TimeLoop run. Exactly the
// fields relevant to Kind are meaningful, mirroring the tagged-struct shape
// used throughout this module for vm.Status (spec section 4.2 "Contract").
type ConvergenceStatus struct {
	Kind Kind

	// KindConsistent
	Memory *memory.Memory
	Output []value.Value
	Epochs int

	// KindParadox, KindError
	Message string
	Epoch   int

	// KindOscillation
	Period    int
	Cells     []memory.Address
	Diagnosis Diagnosis
	// NegativeCell is set only when Diagnosis == DiagnosisNegativeLoop,
	// naming the single alternating cell (spec section 4.2.1).
	NegativeCell memory.Address

	// KindDivergence
	DivergentCells []memory.Address
	Direction      Direction

	// KindTimeout
	MaxEpochs int
}
