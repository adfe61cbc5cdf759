// Command ourochronos runs a program through the fixed-point driver and
// prints its outcome.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/averagestudentdontfail/Ourochronos/asm"
	"github.com/averagestudentdontfail/Ourochronos/diag"
	"github.com/averagestudentdontfail/Ourochronos/timeloop"
	"github.com/averagestudentdontfail/Ourochronos/typecheck"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// errWriter wraps an io.Writer, latching the first error it returns and
// short-circuiting every subsequent Write with that same error, so the run
// loop below can ignore write failures until a single check at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.err = errors.Wrap(err, "write failed")
	}
	return n, w.err
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "ourochronos",
		Usage:     "run a temporal-memory program to fixed point",
		ArgsUsage: "<program-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Value: "standard", Usage: "standard|diagnostic|pure"},
			&cli.Uint64Flag{Name: "seed", Value: 0, Usage: "seed for the initial anamnesis"},
			&cli.IntFlag{Name: "max-epochs", Value: 1000, Usage: "driver epoch budget"},
			&cli.Int64Flag{Name: "max-instructions", Value: 10_000_000, Usage: "per-epoch instruction budget"},
			&cli.BoolFlag{Name: "verbose", Usage: "stream output as it is produced, and print full diagnosis detail on non-consistent outcomes"},
			&cli.StringSliceFlag{Name: "input", Usage: "append a decimal value to the frozen input queue (repeatable)"},
			&cli.BoolFlag{Name: "typecheck", Usage: "run the temporal type checker before executing"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one program-file argument", 2)
	}
	path := c.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "ourochronos: opening program")
	}
	defer f.Close()

	program, err := asm.Parse(path, f)
	if err != nil {
		return errors.Wrap(err, "ourochronos: parsing program")
	}

	out := &errWriter{w: os.Stdout}

	if c.Bool("typecheck") {
		result := typecheck.Check(program)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		if !result.Valid {
			return cli.Exit("type check failed", 1)
		}
	}

	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return err
	}

	inputs, err := parseInputs(c.StringSlice("input"))
	if err != nil {
		return err
	}

	verbose := c.Bool("verbose")
	config := timeloop.Config{
		MaxEpochs:        c.Int("max-epochs"),
		Mode:             mode,
		Seed:             c.Uint64("seed"),
		MaxInstructions:  c.Int64("max-instructions"),
		FrozenInputs:     inputs,
		Verbose:          verbose,
		InteractiveInput: os.Stdin,
	}
	if verbose {
		config.OutputSink = func(v value.Value) {
			diag.RenderOutput(out, []value.Value{v})
		}
	}

	status := timeloop.New(config).Run(program)
	diag.Report(out, status, verbose)
	if out.err != nil {
		return errors.Wrap(out.err, "ourochronos: writing output")
	}

	if status.Kind != timeloop.KindConsistent {
		os.Exit(1)
	}
	return nil
}

func parseInputs(raw []string) ([]uint64, error) {
	vals := make([]uint64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("invalid --input value %q: %v", s, err), 2)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseMode(s string) (timeloop.Mode, error) {
	switch s {
	case "standard":
		return timeloop.ModeStandard, nil
	case "diagnostic":
		return timeloop.ModeDiagnostic, nil
	case "pure":
		return timeloop.ModePure, nil
	default:
		return 0, cli.Exit(fmt.Sprintf("unknown mode %q", s), 2)
	}
}
