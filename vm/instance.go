package vm

import (
	"bufio"
	"io"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// defaultMaxInstructions bounds an epoch when the caller does not set one
// explicitly.
const defaultMaxInstructions = 10_000_000

// Option configures an Instance at construction time, a functional-options
// constructor.
type Option func(*Instance) error

// MaxInstructions sets the per-epoch instruction budget (spec section 4.1
// "Gas").
func MaxInstructions(n int64) Option {
	return func(i *Instance) error {
		i.maxInstructions = n
		return nil
	}
}

// FrozenInputs seeds the Input-opcode queue consumed in program order across
// the lifetime of the Instance (spec section 6.1 "frozen_inputs"): the queue is
// shared across every epoch run by this Instance, not reset per epoch.
func FrozenInputs(values []uint64) Option {
	return func(i *Instance) error {
		for _, v := range values {
			i.inputs = append(i.inputs, value.New(v))
		}
		return nil
	}
}

// InteractiveInput sets a fallback reader consulted once the frozen input
// queue is drained (spec section 5 "interactive fallback"). The reader is
// parsed as whitespace-separated 64-bit decimal integers.
func InteractiveInput(r io.Reader) Option {
	return func(i *Instance) error {
		i.fallback = bufio.NewReader(r)
		return nil
	}
}

// Instance is one reusable execution context for a program: it owns the
// input queue and instruction budget across the whole driver run, but
// constructs a fresh operand stack, present memory and output buffer on
// every call to RunEpoch (spec section 4.1, section 5: "interpreter owns its
// operand stack and present memory exclusively per epoch").
type Instance struct {
	program         *ast.Program
	maxInstructions int64

	inputs   []value.Value
	inputPos int
	fallback *bufio.Reader

	sink func(value.Value)
}

// New creates an Instance bound to program, applying each Option in order.
func New(program *ast.Program, opts ...Option) (*Instance, error) {
	i := &Instance{
		program:         program,
		maxInstructions: defaultMaxInstructions,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// OutputSink sets a callback invoked with each value as the Output opcode
// writes it, rather than only once an epoch finishes (spec section 6.1
// "verbose: when true, outputs are emitted as they are produced"). Every
// Output write still appends to the epoch's own buffer regardless of sink,
// so EpochResult.Output is unaffected by whether a sink is configured.
func OutputSink(sink func(value.Value)) Option {
	return func(i *Instance) error {
		i.sink = sink
		return nil
	}
}

// nextInput pops the next queued input value, falling back to the
// interactive reader if the queue is drained, and finally to zero-valued
// reads of no provenance if neither source has more data (a silently
// exhausted input channel for well-behaved programs that probe for
// available input first).
func (i *Instance) nextInput() value.Value {
	if i.inputPos < len(i.inputs) {
		v := i.inputs[i.inputPos]
		i.inputPos++
		return v
	}
	if i.fallback != nil {
		if n, ok := i.readFallbackInt(); ok {
			return value.New(n)
		}
	}
	return value.Zero
}

func (i *Instance) readFallbackInt() (uint64, bool) {
	var n uint64
	var any bool
	for {
		b, err := i.fallback.ReadByte()
		if err != nil {
			break
		}
		if b >= '0' && b <= '9' {
			n = n*10 + uint64(b-'0')
			any = true
			continue
		}
		if any {
			break
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		break
	}
	return n, any
}
