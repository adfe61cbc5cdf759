package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/averagestudentdontfail/Ourochronos/ast"
)

func TestParseSimpleArithmetic(t *testing.T) {
	prog, err := Parse("test", strings.NewReader("2 3 add output"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 4)
	require.Equal(t, ast.KindOp, prog.Body[2].Kind)
	require.Equal(t, ast.OpAdd, prog.Body[2].Op)
}

func TestParseIfElseThen(t *testing.T) {
	prog, err := Parse("test", strings.NewReader("1 if 2 else 3 then"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	ifStmt := prog.Body[1]
	require.Equal(t, ast.KindIf, ifStmt.Kind)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseProcedureAndCall(t *testing.T) {
	src := "proc double 1 1 dup add end call double"
	prog, err := Parse("test", strings.NewReader(src))
	require.NoError(t, err)

	proc, ok := prog.Procedures["double"]
	require.True(t, ok, "expected procedure %q to be defined", "double")
	require.Equal(t, 1, proc.Params)
	require.Equal(t, 1, proc.Returns)

	require.Len(t, prog.Body, 1)
	require.Equal(t, ast.KindCall, prog.Body[0].Kind)
	require.Equal(t, "double", prog.Body[0].Call)
}

func TestParseTemporalScope(t *testing.T) {
	prog, err := Parse("test", strings.NewReader("tscope 0 4 oracle end"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)
	require.Equal(t, ast.KindTemporalScope, prog.Body[0].Kind)
	require.EqualValues(t, 0, prog.Body[0].Base)
	require.EqualValues(t, 4, prog.Body[0].Size)
}

func TestParseUnknownWordIsError(t *testing.T) {
	_, err := Parse("test", strings.NewReader("frobnicate"))
	require.Error(t, err)
}
