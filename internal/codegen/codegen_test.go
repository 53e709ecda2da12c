package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c0c/internal/ir"
)

func TestGenerateEmitsMainFunnelPreamble(t *testing.T) {
	prog := &ir.Program{Functions: []*ir.Function{
		{Name: "main", NumTemps: 1, Cmds: []ir.Cmd{
			ir.Load{Dest: ir.Temp{Index: 0}, Src: ir.ConstInt{Value: 42}},
			ir.Return{Value: ir.Temp{Index: 0}},
		}},
	}}

	asm := Generate(prog)

	assert.Contains(t, asm, "call _main")
	assert.Contains(t, asm, "mov rax, 0x3C")
	assert.Contains(t, asm, "syscall")
	// main's own label is the preamble's _main:, emitted exactly once.
	assert.Equal(t, 1, strings.Count(asm, "_main:"))
}

func TestNonMainFunctionGetsItsOwnLabelAndSkipsFlush(t *testing.T) {
	prog := &ir.Program{Functions: []*ir.Function{
		{Name: "add", NumParams: 2, NumTemps: 2, Cmds: []ir.Cmd{
			ir.Return{Value: &ir.BinaryExpr{Left: ir.Temp{Index: 0}, Op: ir.Add, Right: ir.Temp{Index: 1}}},
		}},
	}}

	asm := Generate(prog)

	require.Contains(t, asm, "_add:")
	// Only main's epilogue flushes; a non-main function must not.
	assert.NotContains(t, asm, "call fflush")
}

func TestParamPrologueUsesPushPopPermutation(t *testing.T) {
	prog := &ir.Program{Functions: []*ir.Function{
		{Name: "f", NumParams: 4, NumTemps: 4, Cmds: []ir.Cmd{
			ir.Return{Value: ir.Temp{Index: 0}},
		}},
	}}

	asm := Generate(prog)
	lines := strings.Split(asm, "\n")

	var pushes, pops []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "push ") {
			pushes = append(pushes, strings.TrimPrefix(l, "push "))
		}
		if strings.HasPrefix(l, "pop ") && len(pops) < 4 {
			pops = append(pops, strings.TrimPrefix(l, "pop "))
		}
	}

	require.Len(t, pushes, 4)
	assert.Equal(t, []string{"rdi", "rsi", "rdx", "rcx"}, pushes)
}

func TestCallSavesEveryCallerSavedRegisterExceptRax(t *testing.T) {
	prog := &ir.Program{Functions: []*ir.Function{
		{Name: "main", NumTemps: 1, Cmds: []ir.Cmd{
			ir.Load{Dest: ir.Temp{Index: 0}, Src: &ir.CallExpr{Call: ir.Func{Name: "helper"}}},
			ir.Return{Value: ir.Temp{Index: 0}},
		}},
	}}

	asm := Generate(prog)

	assert.NotContains(t, asm, "push rax")
	assert.NotContains(t, asm, "pop rax")
	assert.Contains(t, asm, "call _helper")
}
