package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c0c/internal/ast"
	cerrors "c0c/internal/errors"
	"c0c/internal/parser"
)

func elaborateSource(t *testing.T, source string) *Program {
	t.Helper()
	prog, errs := parser.ParseSource(source)
	require.Empty(t, errs)
	out, err := Elaborate(prog)
	require.NoError(t, err)
	return out
}

func TestCompoundAssignmentDesugarsToPlainAssign(t *testing.T) {
	prog := elaborateSource(t, `int main(){ int x = 1; x += 2; return x; }`)

	decl := prog.Functions[0].Body.(*Decl)
	seq := decl.Scope.(*Seq)

	var asgn *Asgn
	for _, item := range seq.Items {
		if a, ok := item.(*Asgn); ok && a.Name == "x" {
			if _, isPlain := a.Rhs.(*ast.BinaryExpr); isPlain {
				asgn = a
			}
		}
	}
	require.NotNil(t, asgn, "x += 2 should desugar to an Asgn whose Rhs is x + 2")

	bin := asgn.Rhs.(*ast.BinaryExpr)
	assert.Equal(t, ast.Add, bin.Op)
	ident, ok := bin.Left.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestForStepDeclarationIsFatal(t *testing.T) {
	prog, errs := parser.ParseSource(`int main(){ for(int i = 0; i < 10; int j = 1){ } return 0; }`)
	require.Empty(t, errs)

	_, err := Elaborate(prog)
	require.Error(t, err)

	fatal, ok := err.(*FatalError)
	require.True(t, ok)
	assert.Contains(t, fatal.Message, "step")
	assert.Equal(t, cerrors.ForStepDeclares, fatal.Code)
}

// TestForHoistsStepUnderLoopScope checks the StepIndex invariant
// internal/ir relies on to make `continue` replay the step exactly once
// (spec.md §3, §8 scenario 2).
func TestForHoistsStepUnderLoopScope(t *testing.T) {
	prog := elaborateSource(t, `int main(){ int x = 0; for(int i = 0; i < 10; i = i + 1){ x = x + i; } return x; }`)

	decl := prog.Functions[0].Body.(*Decl)
	assert.Equal(t, "x", decl.Name)

	outerSeq := decl.Scope.(*Seq)

	var forNode *For
	for _, item := range outerSeq.Items {
		if d, ok := item.(*Decl); ok && d.Name == "i" {
			forNode = findFor(d.Scope)
		}
	}
	require.NotNil(t, forNode, "expected a hoisted `i` declaration wrapping the For node")

	require.Less(t, forNode.StepIndex, len(forNode.Body.Items))
	stepAsgn, ok := forNode.Body.Items[forNode.StepIndex].(*Asgn)
	require.True(t, ok, "the item at StepIndex must be the step assignment")
	assert.Equal(t, "i", stepAsgn.Name)
}

func findFor(a Abs) *For {
	switch n := a.(type) {
	case *For:
		return n
	case *Seq:
		for _, item := range n.Items {
			if f := findFor(item); f != nil {
				return f
			}
		}
	}
	return nil
}
