package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/averagestudentdontfail/Ourochronos/ast"
	"github.com/averagestudentdontfail/Ourochronos/memory"
)

func program(body ...ast.Stmt) *ast.Program {
	p := ast.New()
	p.Body = body
	return p
}

func TestPushIsPure(t *testing.T) {
	result := Check(program(ast.Push(42)))
	require.True(t, result.Valid)
	require.Equal(t, []Taint{TaintPure}, result.FinalStackTypes)
}

func TestOracleProducesTemporal(t *testing.T) {
	result := Check(program(
		ast.Push(0),
		ast.Op(ast.OpOracle),
	))
	require.True(t, result.Valid)
	require.Equal(t, []Taint{TaintTemporal}, result.FinalStackTypes)
}

func TestArithmeticJoinsOperands(t *testing.T) {
	result := Check(program(
		ast.Push(0),
		ast.Op(ast.OpOracle),
		ast.Push(1),
		ast.Op(ast.OpAdd),
	))
	require.Equal(t, []Taint{TaintTemporal}, result.FinalStackTypes)
}

func TestProphecyRecordsCellType(t *testing.T) {
	result := Check(program(
		ast.Push(0),
		ast.Op(ast.OpOracle),
		ast.Push(7),
		ast.Op(ast.OpProphecy),
	))
	require.Equal(t, TaintTemporal, result.CellTypes[memory.Address(7)])
}

func TestIfWithTemporalConditionWarns(t *testing.T) {
	result := Check(program(
		ast.Push(0),
		ast.Op(ast.OpOracle),
		ast.If([]ast.Stmt{ast.Push(1)}, []ast.Stmt{ast.Push(2)}),
	))
	require.NotEmpty(t, result.Warnings)
	require.Equal(t, []Taint{TaintPure}, result.FinalStackTypes)
}

func TestUndefinedCallIsError(t *testing.T) {
	result := Check(program(ast.Call("missing")))
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
}

func TestCallCachesProcedureSummary(t *testing.T) {
	p := ast.New()
	p.Procedures["double"] = &ast.Procedure{
		Name:    "double",
		Params:  0,
		Returns: 1,
		Body:    []ast.Stmt{ast.Push(0), ast.Op(ast.OpOracle)},
	}
	p.Body = []ast.Stmt{ast.Call("double"), ast.Call("double")}
	result := Check(p)
	require.True(t, result.Valid)
	require.Equal(t, []Taint{TaintTemporal, TaintTemporal}, result.FinalStackTypes)
}
