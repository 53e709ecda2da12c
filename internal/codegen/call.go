package codegen

import "c0c/internal/ir"

// emitCall implements spec.md §4.6's built-in and user-call emission
// rules. destLoc is "" when the call is used as a statement and its
// return value is discarded.
func (g *generator) emitCall(call ir.Call, destLoc string) {
	g.pushCallerSaved()

	switch n := call.(type) {
	case ir.Print:
		g.emitf("sub rsp, 8")
		g.operandToEax(n.Arg)
		g.emitf("mov edi, eax")
		g.emitf("call putchar")
		g.emitf("add rsp, 8")

	case ir.Read:
		g.emitf("sub rsp, 8")
		g.emitf("call getchar")
		g.emitf("add rsp, 8")

	case ir.Flush:
		g.emitf("sub rsp, 8")
		g.emitf("mov edi, 0")
		g.emitf("call fflush")
		g.emitf("add rsp, 8")

	case ir.Func:
		g.emitUserCall(n)
	}

	g.popCallerSaved()

	if destLoc != "" {
		// rax/eax carries the callee's return value; none of the
		// caller-saved push/pops above touch it, so it is still live
		// here regardless of emission order.
		g.emitf("mov %s, eax", destLoc)
	}
}

// pushCallerSaved / popCallerSaved save every register internal/regalloc
// might have colored a temp into that System V treats as call-clobbered,
// except rax (handled by the caller, which consumes the call's return
// value from it directly).
func (g *generator) pushCallerSaved() {
	for _, r := range callerSaved64 {
		g.emitf("push %s", r)
	}
}

func (g *generator) popCallerSaved() {
	for i := len(callerSaved64) - 1; i >= 0; i-- {
		g.emitf("pop %s", callerSaved64[i])
	}
}

// emitUserCall passes the first six arguments in registers and any
// remainder on the stack, cleaning the stack up after the call returns.
func (g *generator) emitUserCall(n ir.Func) {
	extra := len(n.Args) - 6
	if extra > 0 {
		for i := len(n.Args) - 1; i >= 6; i-- {
			g.operandToEax(n.Args[i])
			g.emitf("push rax")
		}
	}
	limit := len(n.Args)
	if limit > 6 {
		limit = 6
	}
	for i := 0; i < limit; i++ {
		g.operandToEax(n.Args[i])
		g.emitf("mov %s, eax", argRegs32[i])
	}

	g.emitf("call _%s", n.Name)

	if extra > 0 {
		g.emitf("add rsp, %d", 8*extra)
	}
}
