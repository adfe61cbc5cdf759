// Package value implements the Value/Provenance primitives: a 64-bit word
// paired with the set of oracle addresses that causally influenced it
// (spec section 3.1).
package value

// Value is a 64-bit word with a provenance set. All arithmetic wraps modulo
// 2^64 (Go's uint64 already does this under +, -, *). Equality of Values for
// fixed-point purposes ignores provenance (spec section 3.3); use Val directly
// for that comparison rather than Value's own equality.
type Value struct {
	Val  uint64
	Prov Provenance
}

// Zero is the Value with Val 0 and empty provenance.
var Zero = Value{}

// New returns a Value with no provenance.
func New(v uint64) Value {
	return Value{Val: v}
}

// WithProvenance returns a Value with explicit provenance.
func WithProvenance(v uint64, prov Provenance) Value {
	return Value{Val: v, Prov: prov}
}

// merged returns a Value holding val, with provenance the union of a and
// b's provenance sets — the shared shape behind every binary opcode (spec
// section 4.1.3: "Binary ops union the operand provenance sets").
func merged(a, b Value, val uint64) Value {
	return Value{Val: val, Prov: a.Prov.Union(b.Prov)}
}

func (a Value) Add(b Value) Value { return merged(a, b, a.Val+b.Val) }
func (a Value) Sub(b Value) Value { return merged(a, b, a.Val-b.Val) }
func (a Value) Mul(b Value) Value { return merged(a, b, a.Val*b.Val) }

// Div implements wrapping division with the spec's zero-divisor rule:
// dividing by zero yields zero, not a trap, and still merges provenance
// (spec section 3.1, section 7).
func (a Value) Div(b Value) Value {
	if b.Val == 0 {
		return merged(a, b, 0)
	}
	return merged(a, b, a.Val/b.Val)
}

// Mod implements the same zero-divisor rule as Div.
func (a Value) Mod(b Value) Value {
	if b.Val == 0 {
		return merged(a, b, 0)
	}
	return merged(a, b, a.Val%b.Val)
}

// Neg negates a, passing its provenance through unchanged (unary ops pass
// provenance through, per spec section 3.1).
func (a Value) Neg() Value {
	return Value{Val: -a.Val, Prov: a.Prov}
}

func (a Value) Not() Value { return Value{Val: ^a.Val, Prov: a.Prov} }
func (a Value) And(b Value) Value { return merged(a, b, a.Val&b.Val) }
func (a Value) Or(b Value) Value  { return merged(a, b, a.Val|b.Val) }
func (a Value) Xor(b Value) Value { return merged(a, b, a.Val^b.Val) }

// Shl and Shr take the shift count modulo 64 (spec section 3.4: "shift modulo
// 64").
func (a Value) Shl(b Value) Value { return merged(a, b, a.Val<<(b.Val%64)) }
func (a Value) Shr(b Value) Value { return merged(a, b, a.Val>>(b.Val%64)) }

func boolVal(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (a Value) Eq(b Value) Value  { return merged(a, b, boolVal(a.Val == b.Val)) }
func (a Value) Neq(b Value) Value { return merged(a, b, boolVal(a.Val != b.Val)) }
func (a Value) Lt(b Value) Value  { return merged(a, b, boolVal(a.Val < b.Val)) }
func (a Value) Gt(b Value) Value  { return merged(a, b, boolVal(a.Val > b.Val)) }
func (a Value) Lte(b Value) Value { return merged(a, b, boolVal(a.Val <= b.Val)) }
func (a Value) Gte(b Value) Value { return merged(a, b, boolVal(a.Val >= b.Val)) }
