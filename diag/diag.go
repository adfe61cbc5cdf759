// Package diag renders a timeloop.ConvergenceStatus to a human-readable
// report. Output rendering here follows spec section 6.2: printable ASCII
// prints as characters, everything else as "[n]".
package diag

import (
	"fmt"
	"io"

	"github.com/averagestudentdontfail/Ourochronos/timeloop"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// RenderOutput writes vs the way spec section 6.2 specifies: values in the
// printable-ASCII range [32,127) as characters, everything else as "[n]".
func RenderOutput(w io.Writer, vs []value.Value) {
	for _, v := range vs {
		if v.Val >= 32 && v.Val < 127 {
			fmt.Fprintf(w, "%c", rune(v.Val))
		} else {
			fmt.Fprintf(w, "[%d]", v.Val)
		}
	}
}

// Report writes a one-line classifier for status, then — when verbose is
// true — the mode-gated detail spec section 6.2 calls for on non-Consistent
// outcomes, collapsed to one boolean since there is only one tier of extra
// detail here. On Consistent, verbose also suppresses the final buffered
// render of status.Output: a verbose driver run has already streamed every
// value as it was produced (spec section 6.1), so reprinting the same
// values here would duplicate them.
func Report(w io.Writer, status timeloop.ConvergenceStatus, verbose bool) {
	switch status.Kind {
	case timeloop.KindConsistent:
		fmt.Fprintf(w, "consistent after %d epoch(s)\n", status.Epochs)
		if !verbose {
			RenderOutput(w, status.Output)
			fmt.Fprintln(w)
		}

	case timeloop.KindParadox:
		fmt.Fprintf(w, "paradox at epoch %d: %s\n", status.Epoch, status.Message)

	case timeloop.KindOscillation:
		fmt.Fprintf(w, "oscillation: period=%d diagnosis=%s\n", status.Period, status.Diagnosis)
		if verbose {
			if status.Diagnosis == timeloop.DiagnosisNegativeLoop {
				fmt.Fprintf(w, "  grandfather paradox at cell %d\n", status.NegativeCell)
			}
			fmt.Fprintf(w, "  oscillating cells: %v\n", status.Cells)
		}

	case timeloop.KindDivergence:
		fmt.Fprintf(w, "divergence: direction=%s\n", status.Direction)
		if verbose {
			fmt.Fprintf(w, "  divergent cells: %v\n", status.DivergentCells)
		}

	case timeloop.KindTimeout:
		fmt.Fprintf(w, "timeout: no fixed point within %d epoch(s)\n", status.MaxEpochs)

	case timeloop.KindError:
		fmt.Fprintf(w, "error at epoch %d: %s\n", status.Epoch, status.Message)
	}
}
