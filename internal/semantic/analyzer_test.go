package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "c0c/internal/errors"
	"c0c/internal/elaborate"
	"c0c/internal/parser"
)

func analyzeSource(t *testing.T, source string) []cerrors.CompilerError {
	t.Helper()
	prog, parseErrs := parser.ParseSource(source)
	require.Empty(t, parseErrs)
	elaborated, err := elaborate.Elaborate(prog)
	require.NoError(t, err)
	return Analyze(prog, elaborated)
}

func TestMissingMainIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int f(){ return 0; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.MissingMain, errs[0].Code)
}

func TestDuplicateFunctionIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int f(){ return 0; } int f(){ return 1; } int main(){ return 0; }`)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Code == cerrors.DuplicateFunction {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOverridingBuiltinIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int print(int x){ return x; } int main(){ return 0; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.BuiltinOverride, errs[0].Code)
}

func TestMissingReturnOnSomePathIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int f(int n){ if(n > 0){ return 1; } } int main(){ return f(1); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.MissingReturn, errs[0].Code)
}

func TestUndeclaredVariableIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ return y; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.UndeclaredVariable, errs[0].Code)
}

func TestUseBeforeAssignmentIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ int x; return x; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.UnassignedUse, errs[0].Code)
}

func TestDuplicateDeclarationIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ int x = 0; int x = 1; return x; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.DuplicateDecl, errs[0].Code)
}

func TestTypeMismatchIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ bool b = true; int x = b; return x; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.TypeMismatch, errs[0].Code)
}

func TestNonBooleanConditionIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ if(1){ return 1; } return 0; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.BadCondition, errs[0].Code)
}

func TestCallArityMismatchIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int f(int a, int b){ return a + b; } int main(){ return f(1); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.BadCallArity, errs[0].Code)
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	errs := analyzeSource(t, `int main(){ break; return 0; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.LoopControlOutside, errs[0].Code)
}

func TestWellFormedProgramHasNoErrors(t *testing.T) {
	errs := analyzeSource(t, `
		int f(int n){ if(n < 2) return n; return f(n-1) + f(n-2); }
		int main(){ int x = 0; for(int i = 0; i < 10; i = i + 1){ x = x + i; } return f(x); }
	`)
	assert.Empty(t, errs)
}
