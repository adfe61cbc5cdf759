package vm

import (
	"testing"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

func runOn(t *testing.T, anamnesis *memory.Memory, stmts ...ast.Stmt) EpochResult {
	t.Helper()
	prog := ast.New()
	prog.Body = stmts
	inst, err := New(prog)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return inst.RunEpoch(anamnesis)
}

func TestArithmeticAndOutput(t *testing.T) {
	res := runOn(t, memory.New(),
		ast.Push(2), ast.Push(3), ast.Op(ast.OpAdd), ast.Op(ast.OpOutput))
	if res.Status.Kind != StatusFinished {
		t.Fatalf("expected finished, got %v: %v", res.Status.Kind, res.Status.Err)
	}
	if len(res.Output) != 1 || res.Output[0].Val != 5 {
		t.Fatalf("expected output [5], got %v", res.Output)
	}
}

func TestIfBranches(t *testing.T) {
	prog := []ast.Stmt{
		ast.Push(0),
		ast.If([]ast.Stmt{ast.Push(1), ast.Op(ast.OpOutput)}, []ast.Stmt{ast.Push(2), ast.Op(ast.OpOutput)}),
	}
	res := runOn(t, memory.New(), prog...)
	if len(res.Output) != 1 || res.Output[0].Val != 2 {
		t.Fatalf("expected else branch output [2], got %v", res.Output)
	}
}

func TestWhileLoop(t *testing.T) {
	// The top of the stack counts down from 3 to 0, outputting each value before decrementing.
	prog := []ast.Stmt{
		ast.Push(3),
		ast.While(
			[]ast.Stmt{ast.Op(ast.OpDup)},
			[]ast.Stmt{ast.Op(ast.OpDup), ast.Op(ast.OpOutput), ast.Push(1), ast.Op(ast.OpSub)},
		),
	}
	res := runOn(t, memory.New(), prog...)
	if res.Status.Kind != StatusFinished {
		t.Fatalf("expected finished, got %v: %v", res.Status.Kind, res.Status.Err)
	}
	want := []uint64{3, 2, 1}
	if len(res.Output) != len(want) {
		t.Fatalf("expected %d outputs, got %d: %v", len(want), len(res.Output), res.Output)
	}
	for i, w := range want {
		if res.Output[i].Val != w {
			t.Fatalf("output[%d] = %d, want %d", i, res.Output[i].Val, w)
		}
	}
}

func TestOracleInjectsAddressProvenance(t *testing.T) {
	anamnesis := memory.New()
	anamnesis.Set(7, value.New(42))
	res := runOn(t, anamnesis, ast.Push(7), ast.Op(ast.OpOracle), ast.Op(ast.OpOutput))
	if len(res.Output) != 1 || res.Output[0].Val != 42 {
		t.Fatalf("expected output [42], got %v", res.Output)
	}
	if !res.Output[0].Prov.Contains(7) {
		t.Fatalf("expected oracle read to inject address 7 into provenance")
	}
}

func TestProphecyWritesPresentWithoutInjecting(t *testing.T) {
	prog := []ast.Stmt{
		ast.Push(99), // value
		ast.Push(3),  // address
		ast.Op(ast.OpProphecy),
	}
	res := runOn(t, memory.New(), prog...)
	if res.Status.Kind != StatusFinished {
		t.Fatalf("expected finished, got %v: %v", res.Status.Kind, res.Status.Err)
	}
	written := res.Present.Get(3)
	if written.Val != 99 {
		t.Fatalf("expected present[3] == 99, got %d", written.Val)
	}
	if written.Prov.Contains(3) {
		t.Fatalf("prophecy must not inject its own address into provenance")
	}
}

func TestTemporalScopeRevertsOnParadox(t *testing.T) {
	prog := []ast.Stmt{
		ast.TemporalScope(0, 2, []ast.Stmt{
			ast.Push(1), ast.Push(0), ast.Op(ast.OpProphecy), // present[0] = 1
			ast.Op(ast.OpParadox),
		}),
	}
	res := runOn(t, memory.New(), prog...)
	if res.Status.Kind != StatusParadox {
		t.Fatalf("expected paradox, got %v", res.Status.Kind)
	}
	if res.Present.Get(0).Val != 0 {
		t.Fatalf("expected temporal scope to revert present[0] to 0, got %d", res.Present.Get(0).Val)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	prog := []ast.Stmt{
		ast.Push(10), ast.Push(20), ast.Push(30),
		ast.Push(3), ast.Push(100), ast.Op(ast.OpPack),
		ast.Push(3), ast.Push(100), ast.Op(ast.OpUnpack),
		ast.Op(ast.OpOutput), ast.Op(ast.OpOutput), ast.Op(ast.OpOutput),
	}
	res := runOn(t, memory.New(), prog...)
	if res.Status.Kind != StatusFinished {
		t.Fatalf("expected finished, got %v: %v", res.Status.Kind, res.Status.Err)
	}
	want := []uint64{30, 20, 10}
	for i, w := range want {
		if res.Output[i].Val != w {
			t.Fatalf("output[%d] = %d, want %d", i, res.Output[i].Val, w)
		}
	}
}

func TestStackUnderflowIsError(t *testing.T) {
	res := runOn(t, memory.New(), ast.Op(ast.OpAdd))
	if res.Status.Kind != StatusError {
		t.Fatalf("expected error, got %v", res.Status.Kind)
	}
}

func TestUnresolvedCallIsError(t *testing.T) {
	res := runOn(t, memory.New(), ast.Call("missing"))
	if res.Status.Kind != StatusError {
		t.Fatalf("expected error, got %v", res.Status.Kind)
	}
}

func TestInstructionBudgetExhausts(t *testing.T) {
	prog := ast.New()
	prog.Body = []ast.Stmt{
		ast.Push(1),
		ast.While([]ast.Stmt{ast.Op(ast.OpDup)}, []ast.Stmt{ast.Op(ast.OpNop)}),
	}
	inst, err := New(prog, MaxInstructions(50))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := inst.RunEpoch(memory.New())
	if res.Status.Kind != StatusError {
		t.Fatalf("expected error from exhausted budget, got %v", res.Status.Kind)
	}
}
