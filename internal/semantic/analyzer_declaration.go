package semantic

import (
	"c0c/internal/ast"
	"c0c/internal/elaborate"
	cerrors "c0c/internal/errors"
)

// checkDeclarations implements spec.md §4.2's declaration / definite-
// assignment check: `declared` is every variable in scope at this point,
// `assigned` the subset of those definitely holding a value on every path
// reaching here. Both maps are mutated in place and restored by the
// caller (Decl pushes and pops its own name; branches that must not leak
// into each other are given independent copies).
func (a *Analyzer) checkDeclarations(fn string, node elaborate.Abs, declared, assigned map[string]bool) {
	switch n := node.(type) {
	case *elaborate.Asgn:
		if !declared[n.Name] {
			a.error(fn, cerrors.UndeclaredVariable, n.Pos, "assignment to undeclared variable \""+n.Name+"\"")
		}
		a.checkExprAssigned(fn, n.Rhs, assigned)
		assigned[n.Name] = true

	case *elaborate.Decl:
		if declared[n.Name] {
			a.error(fn, cerrors.DuplicateDecl, n.Pos, "duplicate declaration of \""+n.Name+"\"")
			return
		}
		declared[n.Name] = true
		a.checkDeclarations(fn, n.Scope, declared, assigned)
		delete(declared, n.Name)
		delete(assigned, n.Name)

	case *elaborate.If:
		a.checkExprAssigned(fn, n.Cond, assigned)
		declaredThen, assignedThen := cloneBoolMap(declared), cloneBoolMap(assigned)
		declaredElse, assignedElse := cloneBoolMap(declared), cloneBoolMap(assigned)
		a.checkDeclarations(fn, n.Then, declaredThen, assignedThen)
		a.checkDeclarations(fn, n.Else, declaredElse, assignedElse)
		intersectInto(assigned, assignedThen, assignedElse)

	case *elaborate.While:
		a.checkExprAssigned(fn, n.Cond, assigned)
		a.checkDeclarations(fn, n.Body, cloneBoolMap(declared), cloneBoolMap(assigned))

	case *elaborate.For:
		a.checkDeclarations(fn, n.Body, cloneBoolMap(declared), cloneBoolMap(assigned))

	case *elaborate.Brk:
		markAllAssigned(declared, assigned)
	case *elaborate.Cont:
		markAllAssigned(declared, assigned)

	case *elaborate.Ret:
		if n.Value != nil {
			a.checkExprAssigned(fn, n.Value, assigned)
		}
		markAllAssigned(declared, assigned)

	case *elaborate.Call:
		for _, arg := range n.Args {
			a.checkExprAssigned(fn, arg, assigned)
		}

	case *elaborate.ExpStmt:
		a.checkExprAssigned(fn, n.Value, assigned)

	case *elaborate.Seq:
		for _, item := range n.Items {
			a.checkDeclarations(fn, item, declared, assigned)
		}
	}
}

// checkExprAssigned requires every identifier referenced in e to already
// be in `assigned`.
func (a *Analyzer) checkExprAssigned(fn string, e ast.Expr, assigned map[string]bool) {
	switch n := e.(type) {
	case *ast.Ident:
		if !assigned[n.Name] {
			a.error(fn, cerrors.UnassignedUse, n.Pos, "use of unassigned variable \""+n.Name+"\"")
		}
	case *ast.BinaryExpr:
		a.checkExprAssigned(fn, n.Left, assigned)
		a.checkExprAssigned(fn, n.Right, assigned)
	case *ast.UnaryExpr:
		a.checkExprAssigned(fn, n.Operand, assigned)
	case *ast.TernaryExpr:
		a.checkExprAssigned(fn, n.Cond, assigned)
		a.checkExprAssigned(fn, n.Then, assigned)
		a.checkExprAssigned(fn, n.Else, assigned)
	case *ast.CallExpr:
		for _, arg := range n.Args {
			a.checkExprAssigned(fn, arg, assigned)
		}
	case *ast.BoolLit, *ast.IntLit:
		// no references
	}
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// intersectInto sets dst to exactly the names assigned in both branch
// outcomes (spec.md §4.2: "the resulting assigned is the intersection of
// the two branches' outgoing sets").
func intersectInto(dst, a, b map[string]bool) {
	for k := range dst {
		delete(dst, k)
	}
	for k := range a {
		if b[k] {
			dst[k] = true
		}
	}
}

// markAllAssigned treats every declared name as assigned: the statement
// after a break/continue/return is dead code, so it is vacuously safe to
// consider everything in scope assigned there (spec.md §4.2).
func markAllAssigned(declared, assigned map[string]bool) {
	for k := range declared {
		assigned[k] = true
	}
}
