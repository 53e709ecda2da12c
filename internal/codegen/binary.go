package codegen

import "c0c/internal/ir"

// emitBinary implements spec.md §4.6's per-operator emission rules: a
// plain ALU op for arithmetic/bitwise, cdq+idiv for division and
// remainder, ecx+sal/sar for shifts, and cmp+setcc+movzx for comparisons.
func (g *generator) emitBinary(dest string, n *ir.BinaryExpr) {
	switch {
	case n.Op.IsComparison():
		g.emitComparison(dest, n)
	case n.Op == ir.Div || n.Op == ir.Mod:
		g.emitDivMod(dest, n)
	case n.Op == ir.Shl || n.Op == ir.Shr:
		g.emitShift(dest, n)
	default:
		g.emitAlu(dest, n)
	}
}

var aluMnemonic = map[ir.Op]string{
	ir.Add:    "add",
	ir.Sub:    "sub",
	ir.Mul:    "imul",
	ir.BitAnd: "and",
	ir.BitXor: "xor",
	ir.BitOr:  "or",
}

func (g *generator) emitAlu(dest string, n *ir.BinaryExpr) {
	g.operandToEax(n.Left)
	g.emitf("%s eax, %s", aluMnemonic[n.Op], g.operandText(n.Right))
	g.emitf("mov %s, eax", dest)
}

func (g *generator) emitDivMod(dest string, n *ir.BinaryExpr) {
	g.operandToEax(n.Left)
	g.emitf("cdq")
	divisor := g.operandText(n.Right)
	if _, isConst := n.Right.(ir.ConstInt); isConst {
		// idiv cannot take an immediate operand.
		g.emitf("mov ecx, %s", divisor)
		divisor = "ecx"
	}
	g.emitf("idiv %s", divisor)
	if n.Op == ir.Div {
		g.emitf("mov %s, eax", dest)
	} else {
		g.emitf("mov %s, edx", dest)
	}
}

func (g *generator) emitShift(dest string, n *ir.BinaryExpr) {
	g.operandToEax(n.Left)
	g.emitf("mov ecx, %s", g.operandText(n.Right))
	mnemonic := "sal"
	if n.Op == ir.Shr {
		mnemonic = "sar"
	}
	g.emitf("%s eax, cl", mnemonic)
	g.emitf("mov %s, eax", dest)
}

var setMnemonic = map[ir.Op]string{
	ir.Lt: "setl",
	ir.Le: "setle",
	ir.Gt: "setg",
	ir.Ge: "setge",
	ir.Eq: "sete",
	ir.Ne: "setne",
}

func (g *generator) emitComparison(dest string, n *ir.BinaryExpr) {
	g.operandToEax(n.Left)
	g.emitf("cmp eax, %s", g.operandText(n.Right))
	g.emitf("%s al", setMnemonic[n.Op])
	g.emitf("movzx eax, al")
	g.emitf("mov %s, eax", dest)
}
