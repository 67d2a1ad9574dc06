// Golden end-to-end scenarios run the whole pipeline through code
// generation and assert on the emitted IR text or the diagnostic kind,
// the way the driver does without invoking llvm-as/llvm-link/the
// external runtime -- those are collaborators outside this module.
package llvm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattec/internal/frontend"
	"lattec/internal/ir"
	"lattec/internal/ir/llvm"
)

func compile(src string) (string, error) {
	prog, err := frontend.Parse(src)
	if err != nil {
		return "", err
	}
	if err := ir.Check(prog); err != nil {
		return "", err
	}
	if err := ir.CheckReturns(prog); err != nil {
		return "", err
	}
	prog = ir.Fold(prog)
	return llvm.Generate(prog)
}

func TestScenarioS1PrintInt(t *testing.T) {
	out, err := compile(`int main(){ printInt(42); return 0; }`)
	require.NoError(t, err)
	assert.Contains(t, out, "call void @printInt(i32 42)")
}

func TestScenarioS2Fibonacci(t *testing.T) {
	out, err := compile(`
		int fib1(int n){ if (n<2) return n; return fib1(n-1)+fib1(n-2); }
		int main(){ printInt(fib1(10)); return 0; }
	`)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "call i32 @fib1("), "expected two recursive calls to fib1 plus the call from main in:\n%s", out)
}

func TestScenarioS3StringConcat(t *testing.T) {
	out, err := compile(`int main(){ printString("foo"+"bar"); return 0; }`)
	require.NoError(t, err)
	assert.Contains(t, out, "call i8* @concatStrings(")
}

func TestScenarioS4ShortCircuitSkipsDivision(t *testing.T) {
	out, err := compile(`int main(){ int x=0; if (false && (1/x==0)) { printInt(99); } printInt(1); return 0; }`)
	require.NoError(t, err)
	assert.NotContains(t, out, "sdiv", "the false && ... guard is pure on its left operand and must be folded away entirely, leaving no sdiv by x")
	assert.Contains(t, out, "call void @printInt(i32 1)", "expected the reachable printInt(1) to survive folding")
}

func TestScenarioS4bShortCircuitLowersThroughPhiWhenNotFoldable(t *testing.T) {
	out, err := compile(`
		bool isZero(int n){ if (n==0) return true; return false; }
		int main(){ int x=0; if (isZero(x) && (1/x==0)) { printInt(99); } printInt(1); return 0; }
	`)
	require.NoError(t, err)
	assert.Contains(t, out, "= phi i1", "expected the && to lower through a phi since its left operand isn't a constant")
}

func TestScenarioS5ReturnTypeMismatch(t *testing.T) {
	_, err := compile(`int f(){ return true; }`)
	te, ok := err.(*ir.TypeError)
	require.True(t, ok, "expected *ir.TypeError, got %#v", err)
	assert.Equal(t, ir.Incompatible, te.Kind)
}

func TestScenarioS6MissingReturn(t *testing.T) {
	prog, err := frontend.Parse(`int g(int x){ if (x>0) return 1; } int main(){ return g(1); }`)
	require.NoError(t, err)
	require.NoError(t, ir.Check(prog))

	err = ir.CheckReturns(prog)
	re, ok := err.(*ir.ReturnError)
	require.True(t, ok, "expected *ir.ReturnError, got %#v", err)
	assert.Equal(t, "g", re.Function)
}

func TestScenarioS7TypeCheckRunsBeforeFolding(t *testing.T) {
	_, err := compile(`int main(){ while(false){ undefined_call(); } return 0; }`)
	te, ok := err.(*ir.TypeError)
	require.True(t, ok, "expected *ir.TypeError, got %#v", err)
	assert.Equal(t, ir.Undeclared, te.Kind)
}
