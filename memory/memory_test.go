package memory

import (
	"testing"

	"github.com/averagestudentdontfail/Ourochronos/value"
)

func TestZeroMemoryHashesToZero(t *testing.T) {
	m := New()
	if m.Hash() != 0 {
		t.Errorf("zero memory hash = %d, want 0", m.Hash())
	}
}

func TestIncrementalHashMatchesFromScratch(t *testing.T) {
	m := New()
	m.Set(10, value.New(42))
	m.Set(20, value.New(7))
	m.Set(10, value.New(0)) // toggle back out

	fresh := New()
	fresh.Set(20, value.New(7))

	if m.Hash() != fresh.Hash() {
		t.Errorf("incremental hash %d != from-scratch hash %d", m.Hash(), fresh.Hash())
	}
}

func TestSetTogglesOldContribution(t *testing.T) {
	m := New()
	m.Set(5, value.New(100))
	h1 := m.Hash()
	m.Set(5, value.New(200))
	m.Set(5, value.New(100))
	if m.Hash() != h1 {
		t.Errorf("hash not restored after toggling back: %d != %d", m.Hash(), h1)
	}
}

func TestValueEqualIgnoresProvenance(t *testing.T) {
	a := New()
	b := New()
	a.Set(3, value.WithProvenance(9, value.Single(1)))
	b.Set(3, value.New(9))
	if !a.ValueEqual(b) {
		t.Errorf("ValueEqual should ignore provenance")
	}
	if a.StructEqual(b) {
		t.Errorf("StructEqual should distinguish provenance")
	}
}

func TestCompareIsTotalOrder(t *testing.T) {
	a := New()
	b := New()
	if Compare(a, b) != 0 {
		t.Errorf("two zero memories should compare equal")
	}
	a.Set(0, value.New(1))
	if Compare(a, b) <= 0 {
		t.Errorf("memory with nonzero cell 0 should sort after zero memory")
	}
	if Compare(b, a) >= 0 {
		t.Errorf("comparison should be antisymmetric")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	a.Set(1, value.New(5))
	c := a.Clone()
	a.Set(1, value.New(6))
	if c.Get(1).Val != 5 {
		t.Errorf("clone observed mutation of original")
	}
	if !a.ValueEqual(a) {
		t.Errorf("self-equality should hold")
	}
}

func TestNonZeroLists(t *testing.T) {
	m := New()
	m.Set(3, value.New(1))
	m.Set(500, value.New(2))
	nz := m.NonZero()
	if len(nz) != 2 || nz[0] != 3 || nz[1] != 500 {
		t.Errorf("NonZero = %v, want [3 500]", nz)
	}
}
