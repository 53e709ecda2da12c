package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c0c/internal/elaborate"
	"c0c/internal/parser"
)

func lowerSource(t *testing.T, source string) *Program {
	t.Helper()
	prog, errs := parser.ParseSource(source)
	require.Empty(t, errs)
	elaborated, err := elaborate.Elaborate(prog)
	require.NoError(t, err)
	return Lower(elaborated)
}

// TestNestedExpressionsAreAlwaysAtomic checks the lowering invariant
// every later stage depends on: a BinaryExpr's operands are always a Temp
// or a constant, never another composite expression, because composites
// are pre-materialized to a Load first.
func TestNestedExpressionsAreAlwaysAtomic(t *testing.T) {
	prog := lowerSource(t, `int main(){ return (1 + 2) * (3 + 4); }`)
	fn := prog.Functions[0]

	for _, cmd := range fn.Cmds {
		load, ok := cmd.(Load)
		if !ok {
			continue
		}
		bin, ok := load.Src.(*BinaryExpr)
		if !ok {
			continue
		}
		assertAtomic(t, bin.Left)
		assertAtomic(t, bin.Right)
	}
}

func assertAtomic(t *testing.T, e Expr) {
	t.Helper()
	switch e.(type) {
	case Temp, ConstInt, ConstBool:
		// atomic, as required
	default:
		t.Fatalf("expected an atomic operand, found %#v", e)
	}
}

func TestShortCircuitAndEmitsTwoBranches(t *testing.T) {
	prog := lowerSource(t, `int main(){ bool b = true && false; return 0; }`)
	fn := prog.Functions[0]

	jumpIfs := 0
	for _, cmd := range fn.Cmds {
		if _, ok := cmd.(JumpIf); ok {
			jumpIfs++
		}
	}
	assert.GreaterOrEqual(t, jumpIfs, 1, "short-circuit && must branch rather than always evaluating both sides")
}

func TestParametersBindToLowTempsInOrder(t *testing.T) {
	prog := lowerSource(t, `int add(int a, int b){ return a + b; } int main(){ return add(1, 2); }`)

	var addFn *Function
	for _, fn := range prog.Functions {
		if fn.Name == "add" {
			addFn = fn
		}
	}
	require.NotNil(t, addFn)
	assert.Equal(t, 2, addFn.NumParams)

	var bin *BinaryExpr
	for _, cmd := range addFn.Cmds {
		if load, ok := cmd.(Load); ok {
			if b, ok := load.Src.(*BinaryExpr); ok {
				bin = b
			}
		}
	}
	require.NotNil(t, bin, "expected a Load computing a + b")
	left, ok := bin.Left.(Temp)
	require.True(t, ok)
	right, ok := bin.Right.(Temp)
	require.True(t, ok)
	assert.Equal(t, 0, left.Index)
	assert.Equal(t, 1, right.Index)
}
