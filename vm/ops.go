package vm

import (
	"github.com/pkg/errors"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

// execOp dispatches a single primitive opcode (spec section 4.1.1), a
// statement-tree leaf dispatch rather than a flat address-indexed one.
func (e *epoch) execOp(op ast.Opcode) {
	switch op {
	case ast.OpNop:
		// no-op
	case ast.OpHalt:
		e.status = Status{Kind: StatusFinished}
	case ast.OpPop:
		e.pop()
	case ast.OpDup:
		e.opDup()
	case ast.OpSwap:
		e.opSwap()
	case ast.OpOver:
		e.opOver()
	case ast.OpRot:
		e.opRot()
	case ast.OpDepth:
		e.push(value.New(uint64(len(e.stack))))
	case ast.OpPick:
		e.opPick()
	case ast.OpRoll:
		e.opRoll()
	case ast.OpReverse:
		e.opReverse()

	case ast.OpAdd:
		e.binary(value.Value.Add)
	case ast.OpSub:
		e.binary(value.Value.Sub)
	case ast.OpMul:
		e.binary(value.Value.Mul)
	case ast.OpDiv:
		e.binary(value.Value.Div)
	case ast.OpMod:
		e.binary(value.Value.Mod)
	case ast.OpNeg:
		e.unary(value.Value.Neg)

	case ast.OpNot:
		e.unary(value.Value.Not)
	case ast.OpAnd:
		e.binary(value.Value.And)
	case ast.OpOr:
		e.binary(value.Value.Or)
	case ast.OpXor:
		e.binary(value.Value.Xor)
	case ast.OpShl:
		e.binary(value.Value.Shl)
	case ast.OpShr:
		e.binary(value.Value.Shr)

	case ast.OpEq:
		e.binary(value.Value.Eq)
	case ast.OpNeq:
		e.binary(value.Value.Neq)
	case ast.OpLt:
		e.binary(value.Value.Lt)
	case ast.OpGt:
		e.binary(value.Value.Gt)
	case ast.OpLte:
		e.binary(value.Value.Lte)
	case ast.OpGte:
		e.binary(value.Value.Gte)

	case ast.OpOracle:
		e.opOracle()
	case ast.OpProphecy:
		e.opProphecy()
	case ast.OpPresentRead:
		e.opPresentRead()
	case ast.OpParadox:
		e.status = Status{Kind: StatusParadox}

	case ast.OpPack:
		e.opPack()
	case ast.OpUnpack:
		e.opUnpack()
	case ast.OpIndex:
		e.opIndex()
	case ast.OpStore:
		e.opStore()

	case ast.OpInput:
		e.push(e.inst.nextInput())
	case ast.OpOutput:
		v, ok := e.pop()
		if !ok {
			return
		}
		e.output = append(e.output, v)
		if e.inst.sink != nil {
			e.inst.sink(v)
		}

	case ast.OpStrRev:
		e.opStrRev()
	case ast.OpStrCat:
		e.opStrCat()
	case ast.OpStrSplit:
		e.opStrSplit()

	case ast.OpAssert:
		e.opAssert()

	default:
		e.fail(errors.Errorf("unknown opcode %v", op))
	}
}

func (e *epoch) binary(fn func(a, b value.Value) value.Value) {
	b, ok := e.pop()
	if !ok {
		return
	}
	a, ok := e.pop()
	if !ok {
		return
	}
	e.push(fn(a, b))
}

func (e *epoch) unary(fn func(a value.Value) value.Value) {
	a, ok := e.pop()
	if !ok {
		return
	}
	e.push(fn(a))
}

func (e *epoch) opDup() {
	if len(e.stack) < 1 {
		e.fail(errors.Wrap(ErrStackUnderflow, "dup"))
		return
	}
	e.push(e.stack[len(e.stack)-1])
}

func (e *epoch) opSwap() {
	n := len(e.stack)
	if n < 2 {
		e.fail(errors.Wrap(ErrStackUnderflow, "swap"))
		return
	}
	e.stack[n-1], e.stack[n-2] = e.stack[n-2], e.stack[n-1]
}

func (e *epoch) opOver() {
	n := len(e.stack)
	if n < 2 {
		e.fail(errors.Wrap(ErrStackUnderflow, "over"))
		return
	}
	e.push(e.stack[n-2])
}

func (e *epoch) opRot() {
	n := len(e.stack)
	if n < 3 {
		e.fail(errors.Wrap(ErrStackUnderflow, "rot"))
		return
	}
	a, b, c := e.stack[n-3], e.stack[n-2], e.stack[n-1]
	e.stack[n-3], e.stack[n-2], e.stack[n-1] = b, c, a
}

// opPick pushes a copy of the stack element n below the top, where n is
// popped from the stack first. Pick(0) == Dup (spec section 4.1.1).
func (e *epoch) opPick() {
	nv, ok := e.pop()
	if !ok {
		return
	}
	n := int(nv.Val)
	idx := len(e.stack) - 1 - n
	if n < 0 || idx < 0 || idx >= len(e.stack) {
		e.fail(errors.Wrapf(ErrOutOfRange, "pick %d", n))
		return
	}
	e.push(e.stack[idx])
}

// opRoll moves the element n below the top to the top, shifting
// intermediate elements down (spec section 4.1.1).
func (e *epoch) opRoll() {
	nv, ok := e.pop()
	if !ok {
		return
	}
	n := int(nv.Val)
	idx := len(e.stack) - 1 - n
	if n < 0 || idx < 0 || idx >= len(e.stack) {
		e.fail(errors.Wrapf(ErrOutOfRange, "roll %d", n))
		return
	}
	v := e.stack[idx]
	copy(e.stack[idx:], e.stack[idx+1:])
	e.stack[len(e.stack)-1] = v
}

func (e *epoch) opReverse() {
	for i, j := 0, len(e.stack)-1; i < j; i, j = i+1, j-1 {
		e.stack[i], e.stack[j] = e.stack[j], e.stack[i]
	}
}

// opOracle reads the anamnesis at a popped address, injecting the address
// into the result's provenance and merging in the address operand's own
// provenance (spec section 4.1.1, section 4.1.3).
func (e *epoch) opOracle() {
	av, ok := e.pop()
	if !ok {
		return
	}
	addr := memory.Narrow(av.Val)
	v := e.anamnesis.Get(addr)
	v.Prov = v.Prov.WithAddress(addr).Union(av.Prov)
	e.push(v)
}

// opProphecy writes a popped value to the present at a popped address. The
// written cell retains the value's own provenance unmodified (spec section
// 4.1.1, section 4.1.3: "Prophecy does not inject").
func (e *epoch) opProphecy() {
	av, ok := e.pop()
	if !ok {
		return
	}
	v, ok := e.pop()
	if !ok {
		return
	}
	e.present.Set(memory.Narrow(av.Val), v)
}

func (e *epoch) opPresentRead() {
	av, ok := e.pop()
	if !ok {
		return
	}
	addr := memory.Narrow(av.Val)
	v := e.present.Get(addr)
	v.Prov = v.Prov.Union(av.Prov)
	e.push(v)
}

// opPack pops base and n, then n stack values, storing them into
// present[base..base+n) preserving push order (spec section 3.4, section 8.2
// round-trip with Unpack).
func (e *epoch) opPack() {
	baseV, ok := e.pop()
	if !ok {
		return
	}
	nV, ok := e.pop()
	if !ok {
		return
	}
	n := int(nV.Val)
	base := memory.Narrow(baseV.Val)
	if n < 0 || n > len(e.stack) {
		e.fail(errors.Wrapf(ErrOutOfRange, "pack %d", n))
		return
	}
	for i := n - 1; i >= 0; i-- {
		v, ok := e.pop()
		if !ok {
			return
		}
		e.present.Set(memory.Narrow(uint64(base)+uint64(i)), v)
	}
}

// opUnpack pops base and n, then pushes present[base..base+n) in address
// order, inverse of opPack.
func (e *epoch) opUnpack() {
	baseV, ok := e.pop()
	if !ok {
		return
	}
	nV, ok := e.pop()
	if !ok {
		return
	}
	n := int(nV.Val)
	base := memory.Narrow(baseV.Val)
	if n < 0 {
		e.fail(errors.Wrapf(ErrOutOfRange, "unpack %d", n))
		return
	}
	for i := 0; i < n; i++ {
		v := e.present.Get(memory.Narrow(uint64(base) + uint64(i)))
		v.Prov = v.Prov.Union(baseV.Prov).Union(nV.Prov)
		e.push(v)
	}
}

func (e *epoch) opIndex() {
	iV, ok := e.pop()
	if !ok {
		return
	}
	baseV, ok := e.pop()
	if !ok {
		return
	}
	addr := memory.Narrow(uint64(memory.Narrow(baseV.Val)) + iV.Val)
	v := e.present.Get(addr)
	v.Prov = v.Prov.Union(baseV.Prov).Union(iV.Prov)
	e.push(v)
}

func (e *epoch) opStore() {
	iV, ok := e.pop()
	if !ok {
		return
	}
	baseV, ok := e.pop()
	if !ok {
		return
	}
	v, ok := e.pop()
	if !ok {
		return
	}
	addr := memory.Narrow(uint64(memory.Narrow(baseV.Val)) + iV.Val)
	e.present.Set(addr, v)
}

// popSequence pops a length-suffixed sequence [c0..cn-1, n] (n on top) and
// returns the elements in push order (c0 first).
func (e *epoch) popSequence() ([]value.Value, bool) {
	nV, ok := e.pop()
	if !ok {
		return nil, false
	}
	n := int(nV.Val)
	if n < 0 || n > len(e.stack) {
		e.fail(errors.Wrapf(ErrOutOfRange, "sequence length %d", n))
		return nil, false
	}
	seq := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, ok := e.pop()
		if !ok {
			return nil, false
		}
		seq[i] = v
	}
	return seq, true
}

func (e *epoch) pushSequence(seq []value.Value) {
	for _, v := range seq {
		e.push(v)
	}
	e.push(value.New(uint64(len(seq))))
}

func (e *epoch) opStrRev() {
	seq, ok := e.popSequence()
	if !ok {
		return
	}
	for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
		seq[i], seq[j] = seq[j], seq[i]
	}
	e.pushSequence(seq)
}

func (e *epoch) opStrCat() {
	b, ok := e.popSequence()
	if !ok {
		return
	}
	a, ok := e.popSequence()
	if !ok {
		return
	}
	e.pushSequence(append(append([]value.Value{}, a...), b...))
}

// opStrSplit pops a delimiter, then a length-suffixed sequence, and pushes
// the resulting pieces (each length-suffixed) followed by a piece count on
// top. Splitting on a delimiter absent from the sequence yields exactly one
// piece equal to the original (spec section 8.2).
func (e *epoch) opStrSplit() {
	delim, ok := e.pop()
	if !ok {
		return
	}
	seq, ok := e.popSequence()
	if !ok {
		return
	}
	var pieces [][]value.Value
	cur := []value.Value{}
	for _, v := range seq {
		if v.Val == delim.Val {
			pieces = append(pieces, cur)
			cur = []value.Value{}
			continue
		}
		cur = append(cur, v)
	}
	pieces = append(pieces, cur)
	for _, p := range pieces {
		e.pushSequence(p)
	}
	e.push(value.New(uint64(len(pieces))))
}

// opAssert pops a condition, a length and that many characters, aborting
// the epoch if the condition is zero (spec section 3.4 "Assert").
func (e *epoch) opAssert() {
	cond, ok := e.pop()
	if !ok {
		return
	}
	seq, ok := e.popSequence()
	if !ok {
		return
	}
	if cond.Val == 0 {
		msg := make([]byte, len(seq))
		for i, v := range seq {
			msg[i] = byte(v.Val)
		}
		e.fail(errors.Wrapf(ErrAssertFailed, "%s", string(msg)))
	}
}
