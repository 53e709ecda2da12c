package langserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerAnalyzeCleanBufferHasNoDiagnostics(t *testing.T) {
	h := NewHandler()
	diagnostics, prog := h.analyze("main.c0", `int main(){ return 42; }`)

	assert.Empty(t, diagnostics)
	require.NotNil(t, prog)
	assert.Len(t, prog.Functions, 1)
}

func TestHandlerAnalyzeParseErrorProducesDiagnostic(t *testing.T) {
	h := NewHandler()
	diagnostics, prog := h.analyze("main.c0", `int main(){ return 1 @ 2; }`)

	require.NotEmpty(t, diagnostics)
	assert.Nil(t, prog)
	assert.Equal(t, "c0c-parser", *diagnostics[0].Source)
}

func TestHandlerAnalyzeSemanticErrorProducesDiagnostic(t *testing.T) {
	h := NewHandler()
	diagnostics, prog := h.analyze("main.c0", `int main(){ int x = 0; int x = 1; return x; }`)

	require.NotEmpty(t, diagnostics)
	require.NotNil(t, prog, "a semantically rejected but syntactically valid buffer should still keep its AST around")
	assert.Equal(t, "c0c-semantic", *diagnostics[0].Source)
}

func TestHandlerAnalyzeForStepDeclarationProducesDiagnosticWithCode(t *testing.T) {
	h := NewHandler()
	diagnostics, prog := h.analyze("main.c0", `int main(){ for(int i = 0; i < 10; int j = 1){ } return 0; }`)

	require.NotEmpty(t, diagnostics)
	require.NotNil(t, prog)
	assert.Equal(t, "c0c-elaborate", *diagnostics[0].Source)
	require.NotNil(t, diagnostics[0].Code)
	assert.Equal(t, "E014", diagnostics[0].Code.Value)
}

func TestPointRangeConvertsToZeroBasedPosition(t *testing.T) {
	r := pointRange(3, 5)
	assert.EqualValues(t, 2, r.Start.Line)
	assert.EqualValues(t, 4, r.Start.Character)
}
