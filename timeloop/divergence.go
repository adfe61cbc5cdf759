package timeloop

import "github.com/averagestudentdontfail/Ourochronos/memory"

// detectDivergence implements spec section 4.2.2: scan a bounded address
// prefix and test whether any cell is strictly monotone across every
// consecutive pair of the trailing epoch window. window is ordered oldest
// to newest.
func detectDivergence(window []*memory.Memory, addrWindow int) (ConvergenceStatus, bool) {
	if len(window) < 2 {
		return ConvergenceStatus{}, false
	}

	var increasing, decreasing []memory.Address
	for a := 0; a < addrWindow; a++ {
		addr := memory.Address(a)
		isInc, isDec := true, true
		for i := 1; i < len(window); i++ {
			prev := window[i-1].Get(addr).Val
			cur := window[i].Get(addr).Val
			if cur <= prev {
				isInc = false
			}
			if cur >= prev {
				isDec = false
			}
			if !isInc && !isDec {
				break
			}
		}
		if isInc {
			increasing = append(increasing, addr)
		} else if isDec {
			decreasing = append(decreasing, addr)
		}
	}

	if len(increasing) > 0 {
		return ConvergenceStatus{Kind: KindDivergence, DivergentCells: increasing, Direction: DirectionIncreasing}, true
	}
	if len(decreasing) > 0 {
		return ConvergenceStatus{Kind: KindDivergence, DivergentCells: decreasing, Direction: DirectionDecreasing}, true
	}
	return ConvergenceStatus{}, false
}
