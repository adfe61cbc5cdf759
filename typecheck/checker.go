package typecheck

import (
	"fmt"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
)

// slot is one abstract stack position: a taint plus an optional known
// constant value. Tracking the constant lets Oracle/Prophecy/PresentRead
// resolve a literal address for Result.CellTypes even though the checker
// never executes the program; the constant is dropped by any opcode whose
// runtime value cannot be determined statically (spec section 4.3 leaves
// this mechanical, this is this checker's chosen mechanism).
type slot struct {
	taint Taint
	known bool
	value uint64
}

func pureSlot() slot                 { return slot{taint: TaintPure} }
func temporalSlot() slot             { return slot{taint: TaintTemporal} }
func constSlot(v uint64) slot        { return slot{taint: TaintPure, known: true, value: v} }
func joinedSlot(a, b slot) slot      { return slot{taint: Join(a.taint, b.taint)} }

// procSummary is the cached result of having walked a procedure once (spec
// section 4.3 "Call(name): push Unknown (conservative) unless the checker
// has walked the procedure"), resolved lazily the same way a forward
// reference to a not-yet-declared procedure is resolved on first call.
type procSummary struct {
	returnTaint Taint
}

const (
	procUnvisited = iota
	procInProgress
	procDone
)

// Result is the output of Check (spec section 4.3 "Contract").
type Result struct {
	Valid            bool
	Errors           []string
	Warnings         []string
	CellTypes        map[memory.Address]Taint
	FinalStackTypes  []Taint
}

// Checker is the abstract interpreter. A Checker is single-use: construct a
// fresh one per Check call.
type Checker struct {
	program *ast.Program

	stack       []slot
	branchDepth int // >0 while inside the branches of an If whose condition is Temporal

	procState map[string]int
	procCache map[string]procSummary

	errors    []string
	warnings  []string
	cellTypes map[memory.Address]Taint
}

// Check walks program's top-level body and returns the aggregated result
// (spec section 4.3 "Contract").
func Check(program *ast.Program) Result {
	c := &Checker{
		program:   program,
		procState: make(map[string]int),
		procCache: make(map[string]procSummary),
		cellTypes: make(map[memory.Address]Taint),
	}
	c.walkBlock(program.Body)

	final := make([]Taint, len(c.stack))
	for i, s := range c.stack {
		final[i] = s.taint
	}
	return Result{
		Valid:           len(c.errors) == 0,
		Errors:          c.errors,
		Warnings:        c.warnings,
		CellTypes:       c.cellTypes,
		FinalStackTypes: final,
	}
}

func (c *Checker) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *Checker) warnf(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *Checker) push(s slot) { c.stack = append(c.stack, s) }

func (c *Checker) pop() slot {
	if len(c.stack) == 0 {
		c.errorf("stack underflow during type check")
		return slot{taint: TaintUnknown}
	}
	n := len(c.stack) - 1
	s := c.stack[n]
	c.stack = c.stack[:n]
	return s
}

func (c *Checker) top() (slot, bool) {
	if len(c.stack) == 0 {
		return slot{}, false
	}
	return c.stack[len(c.stack)-1], true
}

func (c *Checker) recordCellWrite(addr slot, value slot) {
	if !addr.known {
		return
	}
	a := memory.Narrow(addr.value)
	c.cellTypes[a] = Join(c.cellTypes[a], value.taint)
}

// walkBlock walks stmts in order (spec section 4.3's per-opcode rules,
// applied statement by statement the way execBlock in package vm applies
// them at runtime).
func (c *Checker) walkBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.walkStmt(s)
	}
}

func (c *Checker) walkStmt(s ast.Stmt) {
	switch s.Kind {
	case ast.KindOp:
		c.walkOp(s.Op)
	case ast.KindPush:
		c.push(constSlot(s.Value))
	case ast.KindIf:
		c.walkIf(s)
	case ast.KindWhile:
		c.walkWhile(s)
	case ast.KindBlock:
		c.walkBlock(s.Block)
	case ast.KindMatch:
		c.walkMatch(s)
	case ast.KindCall:
		c.walkCall(s.Call)
	case ast.KindTemporalScope:
		c.walkBlock(s.Body)
	}
}

// walkIf implements spec section 4.3's If rule: branches are checked from a
// common snapshot and the resulting stacks are joined position-wise.
func (c *Checker) walkIf(s ast.Stmt) {
	cond := c.pop()
	if cond.taint == TaintTemporal {
		c.warnf("if condition is temporal")
		c.branchDepth++
		defer func() { c.branchDepth-- }()
	}

	snapshot := append([]slot(nil), c.stack...)

	c.stack = append([]slot(nil), snapshot...)
	c.walkBlock(s.Then)
	thenStack := c.stack

	c.stack = append([]slot(nil), snapshot...)
	if s.Else != nil {
		c.walkBlock(s.Else)
	}
	elseStack := c.stack

	c.stack = mergeStacks(thenStack, elseStack)
}

func mergeStacks(a, b []slot) []slot {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]slot, n)
	for i := 0; i < n; i++ {
		var av, bv slot
		if i < len(a) {
			av = a[i]
		} else {
			av = slot{taint: TaintUnknown}
		}
		if i < len(b) {
			bv = b[i]
		} else {
			bv = slot{taint: TaintUnknown}
		}
		out[i] = joinedSlot(av, bv)
	}
	return out
}

// walkWhile implements spec section 4.3's While rule: warn if the condition
// taint is Temporal, check the body once, then restore the pre-loop stack
// shape (loop bodies are assumed balanced, matching the interpreter
// convention that a While condition always leaves exactly one boolean atop
// the stack on every iteration).
func (c *Checker) walkWhile(s ast.Stmt) {
	snapshot := append([]slot(nil), c.stack...)
	c.walkBlock(s.Cond)
	cond := c.pop()
	if cond.taint == TaintTemporal {
		c.warnf("while condition is temporal")
	}
	c.walkBlock(s.Body)
	c.stack = append([]slot(nil), snapshot...)
}

func (c *Checker) walkMatch(s ast.Stmt) {
	c.pop() // scrutinee

	snapshot := append([]slot(nil), c.stack...)
	var merged []slot
	haveMerged := false

	branches := make([][]ast.Stmt, 0, len(s.Cases)+1)
	for _, cs := range s.Cases {
		branches = append(branches, cs.Body)
	}
	if s.Default != nil {
		branches = append(branches, s.Default)
	}
	for _, body := range branches {
		c.stack = append([]slot(nil), snapshot...)
		c.walkBlock(body)
		if !haveMerged {
			merged = c.stack
			haveMerged = true
		} else {
			merged = mergeStacks(merged, c.stack)
		}
	}
	if !haveMerged {
		merged = snapshot
	}
	c.stack = merged
}

// walkCall implements spec section 4.3's Call rule, generalized with the
// caching/cycle-detection a direct-dispatch interpreter needs: on a cold
// call the procedure is walked in isolation (its declared Params pushed as
// Unknown) and the resulting Returns taint cached; a call discovered
// mid-walk of its own procedure (direct or mutual recursion) conservatively
// pushes Unknown rather than recursing into an unresolved summary.
func (c *Checker) walkCall(name string) {
	proc, ok := c.program.Procedures[name]
	if !ok {
		c.errorf("call to undefined procedure %q", name)
		return
	}

	switch c.procState[name] {
	case procDone:
		sum := c.procCache[name]
		for i := 0; i < proc.Returns; i++ {
			c.push(slot{taint: sum.returnTaint})
		}
		return
	case procInProgress:
		for i := 0; i < proc.Returns; i++ {
			c.push(slot{taint: TaintUnknown})
		}
		return
	}

	c.procState[name] = procInProgress
	saved := c.stack
	c.stack = make([]slot, proc.Params)
	for i := range c.stack {
		c.stack[i] = slot{taint: TaintUnknown}
	}
	c.walkBlock(proc.Body)

	ret := TaintUnknown
	for _, s := range c.stack {
		ret = Join(ret, s.taint)
	}
	c.procCache[name] = procSummary{returnTaint: ret}
	c.procState[name] = procDone

	c.stack = saved
	for i := 0; i < proc.Returns; i++ {
		c.push(slot{taint: ret})
	}
}
