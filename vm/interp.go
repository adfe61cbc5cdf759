package vm

import (
	"github.com/pkg/errors"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// EpochResult is the return value of RunEpoch (spec section 4.1, section 6.1).
type EpochResult struct {
	Present      *memory.Memory
	Output       []value.Value
	Status       Status
	Instructions int64
}

// epoch holds the mutable state of a single epoch's execution: the operand
// stack, the fresh present memory, the read-only anamnesis, and the output
// buffer. One epoch is created per RunEpoch call (spec section 4.1).
type epoch struct {
	inst *Instance

	stack     []value.Value
	present   *memory.Memory
	anamnesis *memory.Memory
	output    []value.Value

	status Status
	gas    int64
}

// RunEpoch deterministically executes the program once against anamnesis
// and returns the resulting present memory, output sequence and terminal
// status (spec section 4.1's run_epoch contract).
func (i *Instance) RunEpoch(anamnesis *memory.Memory) EpochResult {
	e := &epoch{
		inst:      i,
		present:   memory.New(),
		anamnesis: anamnesis,
		status:    Status{Kind: StatusRunning},
		gas:       i.maxInstructions,
	}
	e.execBlock(i.program.Body)
	if e.status.Kind == StatusRunning {
		e.status = Status{Kind: StatusFinished}
	}
	return EpochResult{
		Present:      e.present,
		Output:       e.output,
		Status:       e.status,
		Instructions: i.maxInstructions - e.gas,
	}
}

// tick decrements the instruction budget and flips status to StatusError
// once exhausted. Both statements and loop iterations call tick (spec
// section 4.1 "Gas": "Both statements and loop iterations decrement the
// budget").
func (e *epoch) tick() bool {
	if e.status.Done() {
		return false
	}
	if e.gas <= 0 {
		e.status = Status{Kind: StatusError, Err: errors.Wrap(ErrInstructionLimit, "epoch")}
		return false
	}
	e.gas--
	return true
}

func (e *epoch) fail(err error) {
	if !e.status.Done() {
		e.status = Status{Kind: StatusError, Err: err}
	}
}

// execBlock runs stmts in order, short-circuiting as soon as status becomes
// non-Running (spec section 4.1 "Block": "execute statements in order"; section 7:
// "any Error or Paradox sets the epoch status and suppresses further
// statement execution... without unwinding partial writes").
func (e *epoch) execBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		if e.status.Done() {
			return
		}
		e.execStmt(s)
	}
}

func (e *epoch) push(v value.Value) {
	e.stack = append(e.stack, v)
}

func (e *epoch) pop() (value.Value, bool) {
	if len(e.stack) == 0 {
		e.fail(errors.Wrap(ErrStackUnderflow, "pop"))
		return value.Zero, false
	}
	n := len(e.stack) - 1
	v := e.stack[n]
	e.stack = e.stack[:n]
	return v, true
}

func (e *epoch) execStmt(s ast.Stmt) {
	if !e.tick() {
		return
	}
	switch s.Kind {
	case ast.KindOp:
		e.execOp(s.Op)
	case ast.KindPush:
		e.push(value.New(s.Value))
	case ast.KindIf:
		c, ok := e.pop()
		if !ok {
			return
		}
		if c.Val != 0 {
			e.execBlock(s.Then)
		} else if s.Else != nil {
			e.execBlock(s.Else)
		}
	case ast.KindWhile:
		e.execWhile(s)
	case ast.KindBlock:
		e.execBlock(s.Block)
	case ast.KindMatch:
		e.execMatch(s)
	case ast.KindCall:
		e.execCall(s.Call)
	case ast.KindTemporalScope:
		e.execTemporalScope(s)
	}
}

func (e *epoch) execWhile(s ast.Stmt) {
	for {
		if e.status.Done() {
			return
		}
		if !e.tick() {
			return
		}
		e.execBlock(s.Cond)
		if e.status.Done() {
			return
		}
		c, ok := e.pop()
		if !ok {
			return
		}
		if c.Val == 0 {
			return
		}
		e.execBlock(s.Body)
	}
}

func (e *epoch) execMatch(s ast.Stmt) {
	v, ok := e.pop()
	if !ok {
		return
	}
	for _, c := range s.Cases {
		if c.Pattern == v.Val {
			e.execBlock(c.Body)
			return
		}
	}
	if s.Default != nil {
		e.execBlock(s.Default)
	}
}

func (e *epoch) execCall(name string) {
	proc, ok := e.inst.program.Procedures[name]
	if !ok {
		e.fail(errors.Wrapf(ErrUnresolvedCall, "%q", name))
		return
	}
	e.execBlock(proc.Body)
}

// execTemporalScope implements the window semantics of spec section 4.1.2:
// snapshot the window, run the body, commit on normal completion, revert on
// paradox.
func (e *epoch) execTemporalScope(s ast.Stmt) {
	snapshot := make([]value.Value, s.Size)
	for i := uint32(0); i < uint32(s.Size); i++ {
		snapshot[i] = e.present.Get(memory.Narrow(uint64(s.Base) + uint64(i)))
	}
	e.execBlock(s.Body)
	if e.status.Kind == StatusParadox {
		for i := uint32(0); i < uint32(s.Size); i++ {
			e.present.Set(memory.Narrow(uint64(s.Base)+uint64(i)), snapshot[i])
		}
		// paradox re-raised outward: status is already StatusParadox and
		// propagates via the normal done-short-circuit path.
	}
}
