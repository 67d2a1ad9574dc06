package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattec/internal/frontend"
	"lattec/internal/ir"
)

func checkReturnsSrc(t *testing.T, src string) error {
	t.Helper()
	prog, err := frontend.Parse(src)
	require.NoError(t, err, "unexpected parse error")
	return ir.CheckReturns(prog)
}

func TestReturnsStraightLine(t *testing.T) {
	assert.NoError(t, checkReturnsSrc(t, `int f() { return 1; }`))
}

func TestReturnsMissingOnFallthrough(t *testing.T) {
	err := checkReturnsSrc(t, `int f() { int x = 1; }`)
	_, ok := err.(*ir.ReturnError)
	assert.True(t, ok, "expected a ReturnError, got %#v", err)
}

func TestReturnsIfElseBothBranches(t *testing.T) {
	assert.NoError(t, checkReturnsSrc(t, `int f(bool b) { if (b) return 1; else return 2; }`))
}

func TestReturnsIfWithoutElseIsNotExhaustive(t *testing.T) {
	err := checkReturnsSrc(t, `int f(bool b) { if (b) return 1; }`)
	_, ok := err.(*ir.ReturnError)
	assert.True(t, ok, "expected a ReturnError, got %#v", err)
}

func TestReturnsWhileTrueIsNotExhaustive(t *testing.T) {
	err := checkReturnsSrc(t, `int f() { while (true) { printInt(1); } }`)
	_, ok := err.(*ir.ReturnError)
	assert.True(t, ok, "a while loop is never itself considered to return, regardless of its condition, got %#v", err)
}

func TestReturnsWhileWithNonLiteralConditionIsNotExhaustive(t *testing.T) {
	err := checkReturnsSrc(t, `int f(bool b) { while (b) { return 1; } }`)
	_, ok := err.(*ir.ReturnError)
	assert.True(t, ok, "expected a ReturnError since the loop may not execute, got %#v", err)
}

func TestReturnsVoidFunctionNeedsNoReturn(t *testing.T) {
	err := checkReturnsSrc(t, `void f() { printInt(1); }`)
	assert.NoError(t, err, "void functions never need a trailing return")
}

func TestReturnsErrorCallAloneIsNotExhaustive(t *testing.T) {
	err := checkReturnsSrc(t, `int f(bool b) { if (b) return 1; else error(); }`)
	_, ok := err.(*ir.ReturnError)
	assert.True(t, ok, "a bare call to error() is not itself a Ret/VRet and must not satisfy return analysis, got %#v", err)
}

func TestReturnsNestedBlockCountsAsLastStatement(t *testing.T) {
	assert.NoError(t, checkReturnsSrc(t, `int f() { { return 1; } }`))
}
