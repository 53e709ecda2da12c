package ir

import (
	"c0c/internal/ast"
	"c0c/internal/elaborate"
)

// Lower translates an elaborated program into linear IR, one Function per
// source function (spec.md §4.3). Lowering assumes prog already passed
// internal/semantic's checks; it does not re-validate types or scoping.
func Lower(prog *elaborate.Program) *Program {
	out := &Program{}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, lowerFunction(fn))
	}
	return out
}

// builder holds the state threaded through one function's lowering: the
// temp/label counters, the name→temp environment, and the innermost
// enclosing loop's continue/break targets (spec.md §4.3).
type builder struct {
	numTemps   int
	numLabels  int
	vars       map[string]int
	labelCont  int
	labelBrk   int
	cmds       []Cmd
}

const noLabel = -1

func lowerFunction(fn *elaborate.Function) *Function {
	b := &builder{vars: make(map[string]int), labelCont: noLabel, labelBrk: noLabel}
	for i, p := range fn.Params {
		b.vars[p.Name] = i
	}
	b.numTemps = len(fn.Params)

	b.lowerAbs(fn.Body)
	if fn.ReturnType == ast.Void {
		b.emit(Return{Value: nil})
	}

	return &Function{
		Name:      fn.Name,
		NumTemps:  b.numTemps,
		NumParams: len(fn.Params),
		NumLabels: b.numLabels,
		Cmds:      b.cmds,
	}
}

func (b *builder) newTemp() int {
	t := b.numTemps
	b.numTemps++
	return t
}

func (b *builder) newLabel() int {
	l := b.numLabels
	b.numLabels++
	return l
}

func (b *builder) emit(c Cmd) { b.cmds = append(b.cmds, c) }

// emitLoad materializes e into a fresh temp via a Load and returns that
// temp, the "materialized to temps" step spec.md §4.3 requires before any
// value is consumed by a combining instruction.
func (b *builder) emitLoad(e Expr) Expr {
	t := b.newTemp()
	b.emit(Load{Dest: Temp{Index: t}, Src: e})
	return Temp{Index: t}
}

// lowerAbs lowers one statement-level Abs node, appending commands to b.cmds.
func (b *builder) lowerAbs(a elaborate.Abs) {
	switch n := a.(type) {
	case *elaborate.Asgn:
		rhs := b.lowerExpr(n.Rhs)
		b.emit(Load{Dest: Temp{Index: b.varTemp(n.Name)}, Src: rhs})

	case *elaborate.Decl:
		b.vars[n.Name] = b.newTemp()
		b.lowerAbs(n.Scope)

	case *elaborate.If:
		b.lowerIf(n)

	case *elaborate.While:
		b.lowerWhile(n)

	case *elaborate.For:
		b.lowerFor(n)

	case *elaborate.Brk:
		b.emit(Jump{Label: b.labelBrk})

	case *elaborate.Cont:
		b.emit(Jump{Label: b.labelCont})

	case *elaborate.Ret:
		var v Expr
		if n.Value != nil {
			v = b.lowerExpr(n.Value)
		}
		b.emit(Return{Value: v})

	case *elaborate.Call:
		b.emit(CallCmd{Call: b.lowerCall(n.Name, n.Args)})

	case *elaborate.ExpStmt:
		// Only ever a for-loop's hoisted condition test: branch past the
		// loop (to the innermost enclosing break target) when false.
		cond := b.lowerExpr(n.Value)
		b.emit(JumpIf{Cond: &NotBoolExpr{Operand: cond}, Label: b.labelBrk})

	case *elaborate.Seq:
		for _, item := range n.Items {
			b.lowerAbs(item)
		}
	}
}

func (b *builder) varTemp(name string) int {
	t, ok := b.vars[name]
	if !ok {
		panic("ir: reference to undeclared variable " + name + " (should have been caught by internal/semantic)")
	}
	return t
}

func (b *builder) lowerIf(n *elaborate.If) {
	elseLabel := b.newLabel()
	endLabel := b.newLabel()

	cond := b.lowerExpr(n.Cond)
	b.emit(JumpIf{Cond: &NotBoolExpr{Operand: cond}, Label: elseLabel})
	b.lowerAbs(n.Then)
	b.emit(Jump{Label: endLabel})
	b.emit(LabelCmd{Label: elseLabel})
	b.lowerAbs(n.Else)
	b.emit(LabelCmd{Label: endLabel})
}

func (b *builder) lowerWhile(n *elaborate.While) {
	top := b.newLabel()
	end := b.newLabel()

	b.emit(LabelCmd{Label: top})
	cond := b.lowerExpr(n.Cond)
	b.emit(JumpIf{Cond: &NotBoolExpr{Operand: cond}, Label: end})

	savedCont, savedBrk := b.labelCont, b.labelBrk
	b.labelCont, b.labelBrk = top, end
	b.lowerAbs(n.Body)
	b.labelCont, b.labelBrk = savedCont, savedBrk

	b.emit(Jump{Label: top})
	b.emit(LabelCmd{Label: end})
}

// lowerFor lowers the already-flattened [EXP(cond), body..., step] sequence
// spec.md §3 describes. `continue` must replay the step before retesting
// the condition, so the continue target is a label placed immediately
// before the step element (found via StepIndex), not the loop top.
func (b *builder) lowerFor(n *elaborate.For) {
	top := b.newLabel()
	end := b.newLabel()
	stepLabel := b.newLabel()

	b.emit(LabelCmd{Label: top})

	savedCont, savedBrk := b.labelCont, b.labelBrk
	b.labelCont, b.labelBrk = stepLabel, end

	for i, item := range n.Body.Items {
		if i == n.StepIndex {
			b.emit(LabelCmd{Label: stepLabel})
		}
		b.lowerAbs(item)
	}

	b.labelCont, b.labelBrk = savedCont, savedBrk

	b.emit(Jump{Label: top})
	b.emit(LabelCmd{Label: end})
}

// lowerExpr lowers e and returns an atomic result: a Temp or a constant,
// never a nested composite. Every composite case materializes itself to a
// fresh temp via emitLoad before returning, so callers never need to
// materialize their own operands — they are already atomic by this
// function's postcondition (spec.md §4.3: "binary operands are always...
// materialized to temps before the combining instruction").
func (b *builder) lowerExpr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.IntLit:
		v, _ := n.Resolve(false)
		return ConstInt{Value: v}

	case *ast.BoolLit:
		return ConstBool{Value: n.Value}

	case *ast.Ident:
		return Temp{Index: b.varTemp(n.Name)}

	case *ast.UnaryExpr:
		return b.lowerUnary(n)

	case *ast.BinaryExpr:
		if n.Op.IsShortCircuit() {
			return b.lowerShortCircuit(n)
		}
		return b.lowerBinary(n)

	case *ast.TernaryExpr:
		return b.lowerTernary(n)

	case *ast.CallExpr:
		return b.emitLoad(&CallExpr{Call: b.lowerCall(n.Name, n.Args)})
	}
	panic("ir: unhandled expression node")
}

// lowerUnary special-cases `-2147483648` written as a decimal literal: its
// Resolve(true) already yields the final int32 value (semantic analysis
// verified this is the one decimal magnitude legal only when negated), so
// applying NegExpr on top of it would double-negate and overflow.
func (b *builder) lowerUnary(n *ast.UnaryExpr) Expr {
	if n.Op == ast.Neg {
		if lit, ok := n.Operand.(*ast.IntLit); ok && !lit.Hex && lit.Raw == (uint64(1)<<31) {
			v, _ := lit.Resolve(true)
			return ConstInt{Value: v}
		}
	}

	operand := b.lowerExpr(n.Operand)
	switch n.Op {
	case ast.Neg:
		return b.emitLoad(&NegExpr{Operand: operand})
	case ast.Not:
		return b.emitLoad(&NotBoolExpr{Operand: operand})
	case ast.BitNot:
		return b.emitLoad(&NotIntExpr{Operand: operand})
	}
	panic("ir: unhandled unary operator")
}

func (b *builder) lowerBinary(n *ast.BinaryExpr) Expr {
	left := b.lowerExpr(n.Left)
	right := b.lowerExpr(n.Right)
	return b.emitLoad(&BinaryExpr{Left: left, Op: binOpToIR(n.Op), Right: right})
}

// lowerShortCircuit lowers && and || without ever evaluating the right
// operand when the left already determines the result (spec.md §4.1's
// short-circuit requirement, e.g. `n != 0 && 10 / n > 1`).
func (b *builder) lowerShortCircuit(n *ast.BinaryExpr) Expr {
	end := b.newLabel()
	result := b.newTemp()

	left := b.lowerExpr(n.Left)
	b.emit(Load{Dest: Temp{Index: result}, Src: left})

	if n.Op == ast.LogAnd {
		b.emit(JumpIf{Cond: &NotBoolExpr{Operand: Temp{Index: result}}, Label: end})
	} else {
		b.emit(JumpIf{Cond: Temp{Index: result}, Label: end})
	}

	right := b.lowerExpr(n.Right)
	b.emit(Load{Dest: Temp{Index: result}, Src: right})
	b.emit(LabelCmd{Label: end})

	return Temp{Index: result}
}

func (b *builder) lowerTernary(n *ast.TernaryExpr) Expr {
	elseLabel := b.newLabel()
	end := b.newLabel()
	result := b.newTemp()

	cond := b.lowerExpr(n.Cond)
	b.emit(JumpIf{Cond: &NotBoolExpr{Operand: cond}, Label: elseLabel})

	thenVal := b.lowerExpr(n.Then)
	b.emit(Load{Dest: Temp{Index: result}, Src: thenVal})
	b.emit(Jump{Label: end})

	b.emit(LabelCmd{Label: elseLabel})
	elseVal := b.lowerExpr(n.Else)
	b.emit(Load{Dest: Temp{Index: result}, Src: elseVal})

	b.emit(LabelCmd{Label: end})
	return Temp{Index: result}
}

func (b *builder) lowerCall(name string, args []ast.Expr) Call {
	lowered := make([]Expr, len(args))
	for i, arg := range args {
		lowered[i] = b.lowerExpr(arg)
	}
	switch name {
	case "print":
		return Print{Arg: lowered[0]}
	case "read":
		return Read{}
	case "flush":
		return Flush{}
	default:
		return Func{Name: name, Args: lowered}
	}
}

func binOpToIR(op ast.BinOp) Op {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Sub
	case ast.Mul:
		return Mul
	case ast.Div:
		return Div
	case ast.Mod:
		return Mod
	case ast.Lt:
		return Lt
	case ast.Le:
		return Le
	case ast.Gt:
		return Gt
	case ast.Ge:
		return Ge
	case ast.Eq:
		return Eq
	case ast.Ne:
		return Ne
	case ast.BitAnd:
		return BitAnd
	case ast.BitXor:
		return BitXor
	case ast.BitOr:
		return BitOr
	case ast.Shl:
		return Shl
	case ast.Shr:
		return Shr
	default:
		panic("ir: unhandled binary operator (short-circuit ops never reach binOpToIR)")
	}
}
