package semantic

import (
	"fmt"

	"c0c/internal/ast"
	"c0c/internal/elaborate"
	cerrors "c0c/internal/errors"
)

// checkTypes implements spec.md §4.2's type check: an environment mapping
// variable name to declared type, consulted against the program's
// function-signature table at call sites.
func (a *Analyzer) checkTypes(fn string, node elaborate.Abs, env map[string]ast.Type, retType ast.Type) {
	switch n := node.(type) {
	case *elaborate.Asgn:
		declaredType, ok := env[n.Name]
		rhsType, rhsOK := a.inferExprType(fn, n.Rhs, env)
		if ok && rhsOK && declaredType != rhsType {
			a.error(fn, cerrors.TypeMismatch, n.Pos,
				fmt.Sprintf("cannot assign %s to variable %q of type %s", rhsType, n.Name, declaredType))
		}

	case *elaborate.Decl:
		env[n.Name] = n.Type
		a.checkTypes(fn, n.Scope, env, retType)
		delete(env, n.Name)

	case *elaborate.If:
		a.requireBool(fn, n.Cond, env, "if condition")
		a.checkTypes(fn, n.Then, env, retType)
		a.checkTypes(fn, n.Else, env, retType)

	case *elaborate.While:
		a.requireBool(fn, n.Cond, env, "while condition")
		a.checkTypes(fn, n.Body, env, retType)

	case *elaborate.For:
		a.checkTypes(fn, n.Body, env, retType)

	case *elaborate.ExpStmt:
		// For's hoisted condition is wrapped as ExpStmt; every other use
		// of ExpStmt in this language is also a boolean test site, so the
		// same requirement applies.
		a.requireBool(fn, n.Value, env, "for condition")

	case *elaborate.Ret:
		switch {
		case retType == ast.Void && n.Value != nil:
			a.error(fn, cerrors.TypeMismatch, n.Pos, "void function must not return a value")
		case retType != ast.Void && n.Value == nil:
			a.error(fn, cerrors.TypeMismatch, n.Pos, "missing return value")
		case n.Value != nil:
			if t, ok := a.inferExprType(fn, n.Value, env); ok && t != retType {
				a.error(fn, cerrors.TypeMismatch, n.Pos,
					fmt.Sprintf("return type %s does not match declared return type %s", t, retType))
			}
		}

	case *elaborate.Call:
		a.checkCall(fn, n.Name, n.Args, env, n.Pos)

	case *elaborate.Seq:
		for _, item := range n.Items {
			a.checkTypes(fn, item, env, retType)
		}

	case *elaborate.Brk, *elaborate.Cont:
		// no expression to type-check
	}
}

func (a *Analyzer) requireBool(fn string, e ast.Expr, env map[string]ast.Type, what string) {
	if t, ok := a.inferExprType(fn, e, env); ok && t != ast.Bool {
		a.error(fn, cerrors.BadCondition, e.ExprPos(), what+" must be bool, found "+t.String())
	}
}

func (a *Analyzer) checkCall(fn, name string, args []ast.Expr, env map[string]ast.Type, pos ast.Position) ast.Type {
	sig, ok := a.funcs[name]
	if !ok {
		sig, ok = builtinSigs[name]
	}
	if !ok {
		a.error(fn, cerrors.UndeclaredVariable, pos, "call to undeclared function \""+name+"\"")
		return ast.Void
	}
	if len(args) != len(sig.Params) {
		a.error(fn, cerrors.BadCallArity, pos,
			fmt.Sprintf("%q expects %d argument(s), found %d", name, len(sig.Params), len(args)))
		return sig.ReturnType
	}
	for i, arg := range args {
		if t, ok := a.inferExprType(fn, arg, env); ok && t != sig.Params[i] {
			a.error(fn, cerrors.BadCallArgType, arg.ExprPos(),
				fmt.Sprintf("argument %d to %q has type %s, expected %s", i+1, name, t, sig.Params[i]))
		}
	}
	return sig.ReturnType
}

// inferExprType computes e's type, reporting a diagnostic and returning
// ok=false wherever a sub-expression's type could not be determined, so
// callers can skip a redundant cascade of follow-on errors.
func (a *Analyzer) inferExprType(fn string, e ast.Expr, env map[string]ast.Type) (ast.Type, bool) {
	switch n := e.(type) {
	case *ast.BoolLit:
		return ast.Bool, true

	case *ast.IntLit:
		if _, ok := n.Resolve(false); !ok {
			a.error(fn, cerrors.LiteralTooLarge, n.Pos, "integer literal too large")
			return ast.Int, false
		}
		return ast.Int, true

	case *ast.Ident:
		t, ok := env[n.Name]
		if !ok {
			a.error(fn, cerrors.UndeclaredVariable, n.Pos, "undeclared variable \""+n.Name+"\"")
			return ast.Int, false
		}
		return t, true

	case *ast.UnaryExpr:
		return a.inferUnaryType(fn, n, env)

	case *ast.BinaryExpr:
		return a.inferBinaryType(fn, n, env)

	case *ast.TernaryExpr:
		a.requireBool(fn, n.Cond, env, "ternary condition")
		tt, tok := a.inferExprType(fn, n.Then, env)
		et, eok := a.inferExprType(fn, n.Else, env)
		if tok && eok && tt != et {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "ternary branches must share a type")
			return tt, false
		}
		return tt, tok && eok

	case *ast.CallExpr:
		return a.checkCall(fn, n.Name, n.Args, env, n.Pos), true

	default:
		return ast.Int, false
	}
}

func (a *Analyzer) inferUnaryType(fn string, n *ast.UnaryExpr, env map[string]ast.Type) (ast.Type, bool) {
	if lit, ok := n.Operand.(*ast.IntLit); ok && n.Op == ast.Neg {
		if _, ok := lit.Resolve(true); !ok {
			a.error(fn, cerrors.LiteralTooLarge, lit.Pos, "integer literal too large")
			return ast.Int, false
		}
		return ast.Int, true
	}

	t, ok := a.inferExprType(fn, n.Operand, env)
	if !ok {
		return ast.Int, false
	}
	switch n.Op {
	case ast.Neg, ast.BitNot:
		if t != ast.Int {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator "+n.Op.String()+" requires int, found "+t.String())
			return ast.Int, false
		}
		return ast.Int, true
	case ast.Not:
		if t != ast.Bool {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator ! requires bool, found "+t.String())
			return ast.Bool, false
		}
		return ast.Bool, true
	default:
		return ast.Int, false
	}
}

func (a *Analyzer) inferBinaryType(fn string, n *ast.BinaryExpr, env map[string]ast.Type) (ast.Type, bool) {
	lt, lok := a.inferExprType(fn, n.Left, env)
	rt, rok := a.inferExprType(fn, n.Right, env)
	if !lok || !rok {
		return ast.Int, false
	}

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod, ast.BitAnd, ast.BitXor, ast.BitOr, ast.Shl, ast.Shr:
		if lt != ast.Int || rt != ast.Int {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator "+n.Op.String()+" requires int operands")
			return ast.Int, false
		}
		return ast.Int, true

	case ast.LogAnd, ast.LogOr:
		if lt != ast.Bool || rt != ast.Bool {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator "+n.Op.String()+" requires bool operands")
			return ast.Bool, false
		}
		return ast.Bool, true

	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if lt != ast.Int || rt != ast.Int {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator "+n.Op.String()+" requires int operands")
			return ast.Bool, false
		}
		return ast.Bool, true

	case ast.Eq, ast.Ne:
		if lt != rt {
			a.error(fn, cerrors.TypeMismatch, n.Pos, "operator "+n.Op.String()+" requires both operands to share a type")
			return ast.Bool, false
		}
		return ast.Bool, true

	default:
		return ast.Int, false
	}
}
