package typecheck

import "github.com/averagestudentdontfail/Ourochronos/ast"

// walkOp implements spec section 4.3's primitive-opcode rules plus the
// mechanical extensions this checker needs for opcodes the spec's rule list
// does not name explicitly (Pop/Dup/Swap/Over/Rot/Pick/Roll/Reverse/Depth
// are pure stack shape; Pack/Store mirror Prophecy's write rule; Input,
// StrRev/StrCat/StrSplit/Assert are treated per their closest-named
// analogue).
func (c *Checker) walkOp(op ast.Opcode) {
	switch op {
	case ast.OpNop, ast.OpHalt, ast.OpParadox:
		// no stack effect

	case ast.OpPop:
		c.pop()
	case ast.OpDup:
		if v, ok := c.top(); ok {
			c.push(v)
		} else {
			c.push(slot{taint: TaintUnknown})
		}
	case ast.OpSwap:
		n := len(c.stack)
		if n < 2 {
			c.errorf("stack underflow during type check (swap)")
			return
		}
		c.stack[n-1], c.stack[n-2] = c.stack[n-2], c.stack[n-1]
	case ast.OpOver:
		n := len(c.stack)
		if n < 2 {
			c.errorf("stack underflow during type check (over)")
			return
		}
		c.push(c.stack[n-2])
	case ast.OpRot:
		n := len(c.stack)
		if n < 3 {
			c.errorf("stack underflow during type check (rot)")
			return
		}
		a, b, d := c.stack[n-3], c.stack[n-2], c.stack[n-1]
		c.stack[n-3], c.stack[n-2], c.stack[n-1] = b, d, a
	case ast.OpReverse:
		for i, j := 0, len(c.stack)-1; i < j; i, j = i+1, j-1 {
			c.stack[i], c.stack[j] = c.stack[j], c.stack[i]
		}
	case ast.OpDepth:
		c.push(pureSlot())
	case ast.OpPick:
		c.pickOrRoll(false)
	case ast.OpRoll:
		c.pickOrRoll(true)

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpShl, ast.OpShr,
		ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		b := c.pop()
		a := c.pop()
		c.push(joinedSlot(a, b))

	case ast.OpNeg, ast.OpNot:
		a := c.pop()
		c.push(slot{taint: a.taint})

	case ast.OpOracle:
		c.opOracle()
	case ast.OpProphecy:
		c.opProphecy()
	case ast.OpPresentRead:
		c.opPresentRead()

	case ast.OpPack:
		c.opPack()
	case ast.OpUnpack:
		c.opUnpack()
	case ast.OpIndex:
		c.opIndex()
	case ast.OpStore:
		c.opStore()

	case ast.OpInput:
		c.push(pureSlot())
	case ast.OpOutput:
		c.pop()

	case ast.OpStrRev:
		// unary over a length-suffixed sequence: taint passes through
		// unchanged, length is re-derived at runtime.
		n := c.pop()
		c.push(slot{taint: n.taint})
	case ast.OpStrCat:
		b := c.pop()
		a := c.pop()
		c.push(joinedSlot(a, b))
	case ast.OpStrSplit:
		c.pop() // delimiter
		n := c.pop()
		c.push(slot{taint: n.taint})

	case ast.OpAssert:
		c.pop() // condition
		c.pop() // sequence length marker
	}
}

// pickOrRoll handles both Pick and Roll: when the depth operand is a known
// constant the exact stack position is resolved and its taint (and
// constant-ness) preserved; otherwise the checker conservatively forgets
// the operand's identity — spec section 4.3 has no explicit rule for these,
// so soundness is kept by never claiming Pure for a position the checker
// can no longer statically locate.
func (c *Checker) pickOrRoll(roll bool) {
	n := c.pop()
	if !n.known {
		c.warnf("pick/roll with non-constant depth: stack shape approximated")
		c.push(slot{taint: TaintUnknown})
		return
	}
	depth := int(n.value)
	idx := len(c.stack) - 1 - depth
	if idx < 0 || idx >= len(c.stack) {
		c.errorf("pick/roll depth %d out of range during type check", depth)
		return
	}
	v := c.stack[idx]
	if roll {
		copy(c.stack[idx:], c.stack[idx+1:])
		c.stack[len(c.stack)-1] = v
	} else {
		c.push(v)
	}
}

func (c *Checker) opOracle() {
	addr := c.pop()
	if addr.taint == TaintTemporal {
		c.warnf("oracle address is temporal")
	}
	c.push(temporalSlot())
}

func (c *Checker) opProphecy() {
	addr := c.pop()
	val := c.pop()
	if addr.taint == TaintTemporal {
		c.warnf("prophecy address is temporal")
	}
	c.recordCellWrite(addr, val)
}

func (c *Checker) opPresentRead() {
	addr := c.pop()
	branch := slot{taint: TaintUnknown}
	if c.branchDepth > 0 {
		branch = temporalSlot()
	}
	c.push(joinedSlot(addr, branch))
}

// opPack implements the write-side memory block rule (mirrors Prophecy).
// The operand count n is used only when it is a known constant; otherwise
// the abstract stack is cleared.
func (c *Checker) opPack() {
	base := c.pop()
	n := c.pop()
	if !n.known {
		c.warnf("pack with non-constant count: stack shape approximated")
		c.stack = nil
		return
	}
	count := int(n.value)
	if count < 0 || count > len(c.stack) {
		c.errorf("pack count %d out of range during type check", count)
		return
	}
	for i := 0; i < count; i++ {
		v := c.pop()
		c.recordCellWrite(base, v)
	}
}

// opUnpack implements spec section 4.3's "Memory block opcodes:
// conservatively taint outputs as Temporal (Index, Unpack)".
func (c *Checker) opUnpack() {
	base := c.pop()
	n := c.pop()
	_ = base
	if !n.known {
		c.warnf("unpack with non-constant count: stack shape approximated")
		return
	}
	for i := 0; i < int(n.value); i++ {
		c.push(temporalSlot())
	}
}

func (c *Checker) opIndex() {
	idx := c.pop()
	base := c.pop()
	_ = idx
	_ = base
	c.push(temporalSlot())
}

func (c *Checker) opStore() {
	idx := c.pop()
	base := c.pop()
	val := c.pop()
	_ = idx
	c.recordCellWrite(base, val)
}
