// Package codegen performs instruction selection and emits GNU-assembler,
// Intel-syntax x86-64 text for a lowered, register-colored IR program
// (spec.md §4.6).
package codegen

import (
	"fmt"
	"strings"

	"c0c/internal/ir"
	"c0c/internal/liveness"
	"c0c/internal/regalloc"
)

const programPreamble = `.intel_syntax noprefix
.global main
.global _main
.text
main:
  call _main
  mov rdi, rax
  mov rax, 0x3C
  syscall
_main:
`

// Generate runs liveness analysis and register allocation over every
// function in prog, then emits the complete assembly text, including the
// program-level main-funnel prologue (spec.md §4.6).
func Generate(prog *ir.Program) string {
	var sb strings.Builder
	sb.WriteString(programPreamble)
	for _, fn := range prog.Functions {
		genFunction(&sb, fn)
	}
	return sb.String()
}

func genFunction(sb *strings.Builder, fn *ir.Function) {
	live := liveness.Run(fn)
	graph := regalloc.Build(fn.NumTemps, live)
	colors := graph.Color(fn.NumParams)

	g := &generator{sb: sb, colors: colors}

	if fn.Name != "main" {
		fmt.Fprintf(sb, "_%s:\n", fn.Name)
	}
	g.emitParamPrologue(fn)

	for _, cmd := range fn.Cmds {
		g.emitCmd(cmd, fn.Name == "main")
	}
}

// generator holds one function's emission state: the output buffer and
// its temps' assigned colors.
type generator struct {
	sb     *strings.Builder
	colors []int
}

func (g *generator) emitf(format string, args ...any) {
	fmt.Fprintf(g.sb, "  "+format+"\n", args...)
}

func (g *generator) loc(temp int) string { return loc(g.colors[temp]) }

// emitParamPrologue moves the incoming System V argument registers into
// each parameter's assigned local register, resolving the permutation via
// push/pop (several destinations alias other parameters' source
// registers — see the ordering note below) rather than a fragile
// hand-picked move order.
//
// Parameters past the sixth arrive on the stack; spec.md §4.6 pins
// parameter colors to their index, so their destination is already known.
func (g *generator) emitParamPrologue(fn *ir.Function) {
	n := fn.NumParams
	if n > 6 {
		n = 6
	}
	for i := 0; i < n; i++ {
		g.emitf("push %s", argRegs64[i])
	}
	for i := n - 1; i >= 0; i-- {
		g.emitf("pop %s", paramDest64[i])
	}

	for p := 6; p < fn.NumParams; p++ {
		offset := 8 + 8*(p-6)
		g.emitf("mov eax, DWORD PTR [rsp + %d]", offset)
		g.emitf("mov %s, eax", g.loc(p))
	}
}

func (g *generator) emitCmd(cmd ir.Cmd, isMain bool) {
	switch n := cmd.(type) {
	case ir.LabelCmd:
		fmt.Fprintf(g.sb, "_LABEL_%d:\n", n.Label)

	case ir.Jump:
		g.emitf("jmp _LABEL_%d", n.Label)

	case ir.JumpIf:
		loc := g.materializeToLoc(n.Cond)
		g.emitf("cmp %s, 1", loc)
		g.emitf("je _LABEL_%d", n.Label)

	case ir.Load:
		g.emitLoad(n)

	case ir.Return:
		g.emitReturn(n, isMain)

	case ir.CallCmd:
		g.emitCall(n.Call, "")
	}
}

func (g *generator) emitLoad(n ir.Load) {
	dest := g.loc(n.Dest.Index)
	switch src := n.Src.(type) {
	case ir.ConstInt:
		g.emitf("mov %s, %d", dest, src.Value)
	case ir.ConstBool:
		g.emitf("mov %s, %d", dest, boolInt(src.Value))
	case ir.Temp:
		g.emitf("mov eax, %s", g.loc(src.Index))
		g.emitf("mov %s, eax", dest)
	case *ir.NegExpr:
		g.operandToEax(src.Operand)
		g.emitf("neg eax")
		g.emitf("mov %s, eax", dest)
	case *ir.NotIntExpr:
		g.operandToEax(src.Operand)
		g.emitf("not eax")
		g.emitf("mov %s, eax", dest)
	case *ir.NotBoolExpr:
		g.operandToEax(src.Operand)
		g.emitf("xor eax, 1")
		g.emitf("mov %s, eax", dest)
	case *ir.BinaryExpr:
		g.emitBinary(dest, src)
	case *ir.CallExpr:
		g.emitCall(src.Call, dest)
	}
}

func (g *generator) emitReturn(n ir.Return, isMain bool) {
	if n.Value != nil {
		switch n.Value.(type) {
		case ir.Temp, ir.ConstInt, ir.ConstBool:
			g.emitf("mov ebx, %s", g.operandText(n.Value))
		default:
			g.operandToEax(n.Value)
			g.emitf("mov ebx, eax")
		}
	} else {
		g.emitf("xor ebx, ebx")
	}
	if isMain {
		// fflush(NULL) flushes every open stream, matching the source
		// repo's fflush(stdout)-before-return path for main without
		// needing a relocation to the stdout global (spec.md §9 open
		// question: main must flush before its value becomes the exit
		// code, so buffered print output is observable).
		g.emitf("mov edi, 0")
		g.emitf("call fflush")
	}
	g.emitf("mov eax, ebx")
	g.emitf("ret")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// operandToEax emits code leaving e's value in eax. e is always atomic by
// construction (internal/ir only ever nests a Temp or a constant directly
// inside another expression; composites are always pre-materialized to a
// Load's destination by lowering), so no further recursion is needed.
func (g *generator) operandToEax(e ir.Expr) {
	switch n := e.(type) {
	case ir.ConstInt:
		g.emitf("mov eax, %d", n.Value)
	case ir.ConstBool:
		g.emitf("mov eax, %d", boolInt(n.Value))
	case ir.Temp:
		g.emitf("mov eax, %s", g.loc(n.Index))
	}
}

// operandText renders e directly as an instruction operand (immediate or
// location), for contexts that accept either without first moving it to
// eax (e.g. the right-hand side of a binary op).
func (g *generator) operandText(e ir.Expr) string {
	switch n := e.(type) {
	case ir.ConstInt:
		return fmt.Sprintf("%d", n.Value)
	case ir.ConstBool:
		return fmt.Sprintf("%d", boolInt(n.Value))
	case ir.Temp:
		return g.loc(n.Index)
	}
	return "eax"
}

// materializeToLoc renders e as a `cmp`-ready operand for JumpIf, handling
// the one composite form a JumpIf condition can carry: a negation wrapped
// directly around an atomic operand.
func (g *generator) materializeToLoc(e ir.Expr) string {
	switch n := e.(type) {
	case ir.Temp:
		return g.loc(n.Index)
	case *ir.NotBoolExpr:
		g.operandToEax(n.Operand)
		g.emitf("xor eax, 1")
		return "eax"
	default:
		g.operandToEax(e)
		return "eax"
	}
}
