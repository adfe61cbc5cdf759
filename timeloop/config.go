// Package timeloop implements the fixed-point driver (spec section 4.2):
// it iterates the interpreter, feeding each epoch's present memory forward
// as the next epoch's anamnesis, until the trajectory settles onto a fixed
// point, a cycle, a paradox, or a resource budget runs out.
package timeloop

import (
	"io"

	"github.com/averagestudentdontfail/Ourochronos/value"
)

// Mode selects how much bookkeeping the driver performs while searching for
// a fixed point (spec section 6.1).
type Mode int

const (
	// ModeStandard keeps only the bounded rolling window needed for
	// divergence detection; no full trajectory and no detailed oscillation
	// diagnosis (cells/diagnosis are left zero-valued).
	ModeStandard Mode = iota
	// ModeDiagnostic additionally retains the full epoch trajectory, so
	// Oscillation results carry the complete oscillating-cell list and
	// NegativeLoop diagnosis.
	ModeDiagnostic
	// ModePure removes the caller's max-epoch ceiling, subject to the
	// PureSafetyCap hard limit.
	ModePure
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeDiagnostic:
		return "diagnostic"
	case ModePure:
		return "pure"
	default:
		return "unknown"
	}
}

// PureSafetyCap bounds ModePure runs regardless of Config.MaxEpochs (spec
// section 6.1: "Pure: unbounded with a safety cap of 10^6").
const PureSafetyCap = 1_000_000

// defaultWarmupEpochs is the minimum k_warmup spec section 4.2.2 requires
// before divergence detection begins.
const defaultWarmupEpochs = 10

// defaultDivergenceWindow is the bounded address prefix scanned for
// divergence when Config.DivergenceWindow is zero (spec section 4.2.2: "a
// bounded prefix such as [0,256) for efficiency").
const defaultDivergenceWindow = 256

// defaultEpochWindow is how many of the most recent epoch memories are kept
// for the strict-monotonicity test (spec section 4.2.2: "over the last
// window").
const defaultEpochWindow = 16

// Config configures a TimeLoop run (spec section 6.1's TimeLoop::new(config)
// fields), populated either programmatically or from CLI flags.
type Config struct {
	MaxEpochs       int
	Mode            Mode
	Seed            uint64
	MaxInstructions int64
	FrozenInputs    []uint64

	// Verbose enables emit-as-produced output streaming (spec section 6.1:
	// "when true, outputs are emitted as they are produced"). It only takes
	// effect when OutputSink is also set; the driver has no rendering
	// concern of its own, so the caller supplies the sink that does.
	Verbose bool
	// OutputSink, when Verbose is true, receives each value as the Output
	// opcode writes it, rather than only once an epoch finishes.
	OutputSink func(value.Value)

	// InteractiveInput is consulted once FrozenInputs is exhausted (spec
	// section 5 "interactive fallback"). Nil means no fallback: further
	// Input reads return zero.
	InteractiveInput io.Reader

	// WarmupEpochs overrides defaultWarmupEpochs; zero means "use the
	// default". Values below 10 are rejected by effectiveWarmup in favor of
	// the spec's stated floor.
	WarmupEpochs int
	// DivergenceWindow overrides the scanned address prefix width; zero
	// means defaultDivergenceWindow.
	DivergenceWindow int
	// EpochWindow overrides the number of trailing epochs checked for
	// monotonicity; zero means defaultEpochWindow.
	EpochWindow int
}

func (c Config) effectiveMaxEpochs() int {
	if c.Mode == ModePure {
		return PureSafetyCap
	}
	if c.MaxEpochs <= 0 {
		return PureSafetyCap
	}
	return c.MaxEpochs
}

func (c Config) effectiveWarmup() int {
	if c.WarmupEpochs < defaultWarmupEpochs {
		return defaultWarmupEpochs
	}
	return c.WarmupEpochs
}

func (c Config) effectiveDivergenceWindow() int {
	if c.DivergenceWindow <= 0 {
		return defaultDivergenceWindow
	}
	return c.DivergenceWindow
}

func (c Config) effectiveEpochWindow() int {
	if c.EpochWindow <= 0 {
		return defaultEpochWindow
	}
	return c.EpochWindow
}
