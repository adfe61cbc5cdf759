package timeloop

import (
	"sort"

	"github.com/averagestudentdontfail/Ourochronos/memory"
)

// diagnoseOscillation classifies a detected cycle (spec section 4.2.1).
// states holds Aⱼ..Aₖ₋₁ in chronological order when available (diagnostic
// mode); in standard mode states is nil and only the period is reported.
func diagnoseOscillation(states []*memory.Memory, period int) ConvergenceStatus {
	if len(states) == 0 {
		return ConvergenceStatus{Kind: KindOscillation, Period: period, Diagnosis: DiagnosisGeneric}
	}

	candidates := map[memory.Address]bool{}
	for _, s := range states {
		for _, a := range s.NonZero() {
			candidates[a] = true
		}
	}

	var changed []memory.Address
	for a := range candidates {
		first := states[0].Get(a).Val
		for _, s := range states[1:] {
			if s.Get(a).Val != first {
				changed = append(changed, a)
				break
			}
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })

	if period == 2 && len(changed) == 1 {
		a := changed[0]
		v1 := states[0].Get(a).Val
		v2 := states[1].Get(a).Val
		if v1 == ^v2 || v1 == 0 || v2 == 0 {
			return ConvergenceStatus{
				Kind:         KindOscillation,
				Period:       period,
				Cells:        changed,
				Diagnosis:    DiagnosisNegativeLoop,
				NegativeCell: a,
			}
		}
	}

	return ConvergenceStatus{Kind: KindOscillation, Period: period, Cells: changed, Diagnosis: DiagnosisGeneric}
}
