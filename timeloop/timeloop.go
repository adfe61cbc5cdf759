package timeloop

import (
	"github.com/pkg/errors"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
	"github.com/averagestudentdontfail/Ourochronos/value"
	"github.com/averagestudentdontfail/Ourochronos/vm"
)

// TimeLoop is the fixed-point driver (spec section 4.2). It owns no state
// beyond its Config; Run is safe to call repeatedly and concurrently across
// distinct TimeLoop values (spec section 5: single-threaded, no shared
// mutable state between runs).
type TimeLoop struct {
	config Config
}

// New returns a TimeLoop bound to config, a New(config)-then-Run
// constructor shape, using a plain-struct config rather than functional
// options since driver-wide config has no natural per-call variation.
func New(config Config) *TimeLoop {
	return &TimeLoop{config: config}
}

// seedMemory builds A₀ (spec section 4.2 "Seed"): a nonzero seed s
// initializes the first 16 cells with s·(i+1) mod 2^64; a zero seed leaves
// A₀ all zero.
func (tl *TimeLoop) seedMemory() *memory.Memory {
	m := memory.New()
	if tl.config.Seed == 0 {
		return m
	}
	for i := uint64(0); i < 16; i++ {
		m.Set(memory.Address(i), value.New(tl.config.Seed*(i+1)))
	}
	return m
}

// Run executes program to a terminal ConvergenceStatus (spec section 4.2
// "Contract").
func (tl *TimeLoop) Run(program *ast.Program) ConvergenceStatus {
	opts := []vm.Option{
		vm.MaxInstructions(tl.effectiveMaxInstructions()),
		vm.FrozenInputs(tl.config.FrozenInputs),
	}
	if tl.config.InteractiveInput != nil {
		opts = append(opts, vm.InteractiveInput(tl.config.InteractiveInput))
	}
	if tl.config.Verbose && tl.config.OutputSink != nil {
		opts = append(opts, vm.OutputSink(tl.config.OutputSink))
	}
	inst, err := vm.New(program, opts...)
	if err != nil {
		return ConvergenceStatus{Kind: KindError, Message: errors.Wrap(err, "timeloop: instance construction failed").Error()}
	}

	a := tl.seedMemory()

	// Trivial consistency shortcut (spec section 4.2 "Trivial consistency
	// shortcut"): no Oracle anywhere means the epoch transition cannot
	// depend on anamnesis, so the first epoch's present is definitionally
	// the unique fixed point.
	if !program.HasOracle() {
		result := inst.RunEpoch(a)
		return tl.terminal(result, 1)
	}

	maxEpochs := tl.config.effectiveMaxEpochs()
	warmup := tl.config.effectiveWarmup()
	addrWindow := tl.config.effectiveDivergenceWindow()
	epochWindow := tl.config.effectiveEpochWindow()
	diagnostic := tl.config.Mode == ModeDiagnostic

	seen := make(map[uint64]int, maxEpochs)
	var fullTrajectory []*memory.Memory // diagnostic mode only
	var rolling []*memory.Memory        // bounded window, all modes

	for k := 1; k <= maxEpochs; k++ {
		h := a.Hash()
		if j, ok := seen[h]; ok {
			period := k - j
			var states []*memory.Memory
			if diagnostic && j-1 >= 0 && k-1 <= len(fullTrajectory) {
				states = fullTrajectory[j-1 : k-1]
			}
			return diagnoseOscillation(states, period)
		}
		seen[h] = k

		if diagnostic {
			fullTrajectory = append(fullTrajectory, a.Clone())
		}
		rolling = append(rolling, a.Clone())
		if len(rolling) > epochWindow {
			rolling = rolling[len(rolling)-epochWindow:]
		}

		if k > warmup {
			if status, ok := detectDivergence(rolling, addrWindow); ok {
				return status
			}
		}

		result := inst.RunEpoch(a)
		switch result.Status.Kind {
		case vm.StatusFinished:
			if result.Present.ValueEqual(a) {
				return ConvergenceStatus{
					Kind:   KindConsistent,
					Memory: result.Present,
					Output: result.Output,
					Epochs: k,
				}
			}
			a = result.Present
		case vm.StatusParadox:
			return ConvergenceStatus{Kind: KindParadox, Message: "epoch returned paradox status", Epoch: k}
		case vm.StatusError:
			return ConvergenceStatus{Kind: KindError, Message: result.Status.Error(), Epoch: k}
		}
	}

	return ConvergenceStatus{Kind: KindTimeout, MaxEpochs: maxEpochs}
}

func (tl *TimeLoop) effectiveMaxInstructions() int64 {
	if tl.config.MaxInstructions <= 0 {
		return 10_000_000
	}
	return tl.config.MaxInstructions
}

// terminal classifies a single run_epoch result outside the main loop, used
// only by the trivial-consistency shortcut where no cycle detection applies.
func (tl *TimeLoop) terminal(result vm.EpochResult, epoch int) ConvergenceStatus {
	switch result.Status.Kind {
	case vm.StatusFinished:
		return ConvergenceStatus{
			Kind:   KindConsistent,
			Memory: result.Present,
			Output: result.Output,
			Epochs: epoch,
		}
	case vm.StatusParadox:
		return ConvergenceStatus{Kind: KindParadox, Message: "epoch returned paradox status", Epoch: epoch}
	default:
		return ConvergenceStatus{Kind: KindError, Message: result.Status.Error(), Epoch: epoch}
	}
}
