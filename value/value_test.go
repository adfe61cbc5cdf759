package value

import "testing"

func TestWrapAdd(t *testing.T) {
	a := New(^uint64(0))
	b := New(1)
	r := a.Add(b)
	if r.Val != 0 {
		t.Errorf("wrap add: got %d, want 0", r.Val)
	}
}

func TestDivByZero(t *testing.T) {
	a := New(42)
	b := New(0)
	r := a.Div(b)
	if r.Val != 0 {
		t.Errorf("div by zero: got %d, want 0", r.Val)
	}
	m := a.Mod(b)
	if m.Val != 0 {
		t.Errorf("mod by zero: got %d, want 0", m.Val)
	}
}

func TestProvenanceMonotone(t *testing.T) {
	a := WithProvenance(1, Single(3))
	b := WithProvenance(2, Single(7))
	r := a.Add(b)
	if !r.Prov.Contains(3) || !r.Prov.Contains(7) {
		t.Errorf("provenance union lost an address: %v", r.Prov.Addresses())
	}
	if r.Prov.Len() != 2 {
		t.Errorf("provenance union: got %d addrs, want 2", r.Prov.Len())
	}
}

func TestUnaryPassesProvenanceThrough(t *testing.T) {
	a := WithProvenance(5, Single(9))
	r := a.Not()
	if !r.Prov.Contains(9) {
		t.Errorf("Not() dropped provenance")
	}
	r = a.Neg()
	if !r.Prov.Contains(9) {
		t.Errorf("Neg() dropped provenance")
	}
}

func TestShiftModulo64(t *testing.T) {
	a := New(1)
	b := New(65) // 65 % 64 == 1
	r := a.Shl(b)
	if r.Val != 2 {
		t.Errorf("shl 65: got %d, want 2", r.Val)
	}
}

func TestComparisonsPushBooleans(t *testing.T) {
	cases := []struct {
		name string
		fn   func(a, b Value) Value
		a, b uint64
		want uint64
	}{
		{"eq-true", Value.Eq, 3, 3, 1},
		{"eq-false", Value.Eq, 3, 4, 0},
		{"lt-true", Value.Lt, 1, 2, 1},
		{"gte-equal", Value.Gte, 2, 2, 1},
	}
	for _, c := range cases {
		got := c.fn(New(c.a), New(c.b)).Val
		if got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}
