package codegen

import "fmt"

// regNames32 are the 32-bit location names colors 0..10 map to, in order
// (spec.md §4.6). Colors beyond this range spill to a stack slot.
var regNames32 = []string{
	"ebx", "edi", "esi", "r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
}

// argRegs32 / argRegs64 are the System V integer argument registers, in
// parameter order, used both to read a caller's incoming arguments and to
// pass a callee's outgoing ones.
var argRegs32 = []string{"edi", "esi", "edx", "ecx", "r8d", "r9d"}
var argRegs64 = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// paramDest64 is the fixed first-six-parameter target register list from
// spec.md §4.6 ("ebx, edi, esi, r8d, r9d, r10d"), in 64-bit form so the
// permutation in emitParamPrologue can push/pop whole registers.
var paramDest64 = []string{"rbx", "rdi", "rsi", "r8", "r9", "r10"}

// callerSaved64 is the System V call-clobbered registers other than rax
// (which carries the call's own return value back to the caller and is
// handled separately in emitCall): every such register internal/regalloc
// can color a temp into (rdi, rsi, r8-r11), plus rcx and rdx. Saving this fixed set around every
// call site is a stricter-than-required correctness floor (spec.md §9).
var callerSaved64 = []string{"rcx", "rdx", "rsi", "rdi", "r8", "r9", "r10", "r11"}

func isRegisterColor(color int) bool { return color >= 0 && color < len(regNames32) }

// loc renders a temp's color as an assembly operand: a bare register name,
// or a DWORD PTR stack-slot reference for a spilled color (spec.md §4.6).
func loc(color int) string {
	if isRegisterColor(color) {
		return regNames32[color]
	}
	return fmt.Sprintf("DWORD PTR [rsp - %d]", spillOffset(color))
}

func spillOffset(color int) int { return (color - 10 + 7) * 4 }
