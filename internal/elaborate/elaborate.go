// Package elaborate translates the parser's AST into Abs, the reduced
// tree vocabulary every later stage shares (spec.md §2 step 2, §3
// "Elaborated tree").
package elaborate

import (
	"fmt"

	"c0c/internal/ast"
	cerrors "c0c/internal/errors"
)

// Abs is implemented by every elaborated-tree node: Asgn, Decl, If, While,
// For, Brk, Cont, Ret, ExpStmt, Call, Seq.
type Abs interface{ absNode() }

// Asgn is always a plain assignment after elaboration: compound operators
// (`x += e`) have already been desugared into `x = x + e` (spec.md §4.1).
type Asgn struct {
	Name string
	Rhs  ast.Expr
	Pos  ast.Position
}

// Decl's Scope is the SEQ of every statement the declaration dominates;
// this is what makes every later use of Name syntactically nested under
// its declaration (spec.md §3 invariant).
type Decl struct {
	Name  string
	Type  ast.Type
	Scope Abs
	Pos   ast.Position
}

type If struct {
	Cond ast.Expr
	Then Abs
	Else Abs // always non-nil; an `if` with no else elaborates to Seq{}
	Pos  ast.Position
}

type While struct {
	Cond ast.Expr
	Body Abs
	Pos  ast.Position
}

// For's Body is always a *Seq whose elements are, in order: EXP(cond), the
// loop body's statements, and finally the step — the step is also
// reachable by name via StepIndex so internal/ir can replay it on
// `continue` (spec.md §3, §4.3). The initializer is never part of Body;
// elaborateFor places it outside the For node.
type For struct {
	Body      *Seq
	StepIndex int // index of the step element within Body.Items (an empty Seq when there is no step)
	Pos       ast.Position
}

type Brk struct{ Pos ast.Position }
type Cont struct{ Pos ast.Position }

// Ret's Value is nil for `return;` in a void function.
type Ret struct {
	Value ast.Expr
	Pos   ast.Position
}

// ExpStmt is a bare expression used as a statement. The elaborator only
// produces it for a for-loop's condition (the first element of For.Body);
// a call used as a statement becomes Call instead.
type ExpStmt struct {
	Value ast.Expr
	Pos   ast.Position
}

// Call is a call used as a statement, kept as its own variant (rather than
// folded into ExpStmt) so internal/ir can special-case built-ins
// (print/read/flush) without a type assertion.
type Call struct {
	Name string
	Args []ast.Expr
	Pos  ast.Position
}

type Seq struct {
	Items []Abs
}

func (*Asgn) absNode()    {}
func (*Decl) absNode()    {}
func (*If) absNode()      {}
func (*While) absNode()   {}
func (*For) absNode()     {}
func (*Brk) absNode()     {}
func (*Cont) absNode()    {}
func (*Ret) absNode()     {}
func (*ExpStmt) absNode() {}
func (*Call) absNode()    {}
func (*Seq) absNode()     {}

// Function is one elaborated function: signature plus its Abs body.
type Function struct {
	ReturnType ast.Type
	Name       string
	Params     []*ast.Param
	Body       Abs
	Pos        ast.Position
}

// Program is every elaborated function, in source order.
type Program struct {
	Functions []*Function
}

// FatalError is the single elaboration-time failure spec.md names: a
// for-loop step that declares a variable (§4.1, §6: exit 7). Code is the
// same stable rule code a semantic.CompilerError would carry, so driver
// and internal/langserver can render this alongside proper semantic
// diagnostics instead of falling back to a plain message.
type FatalError struct {
	Message string
	Code    cerrors.Code
	Pos     ast.Position
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%d:%d: [%s] %s", e.Pos.Line, e.Pos.Column, e.Code, e.Message)
}

// Elaborate lowers a whole parsed program to Abs form.
func Elaborate(prog *ast.Program) (*Program, error) {
	out := &Program{}
	for _, fn := range prog.Functions {
		body, err := elaborateBlock(fn.Body)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, &Function{
			ReturnType: fn.ReturnType,
			Name:       fn.Name,
			Params:     fn.Params,
			Body:       body,
			Pos:        fn.Pos,
		})
	}
	return out, nil
}

// elaborateBlock turns a sequence of statements into Abs, threading
// declaration-scoping: a DeclStmt's scope becomes every statement that
// follows it in the same block, elaborated recursively.
func elaborateBlock(b *ast.Block) (Abs, error) {
	return elaborateStmts(b.Stmts)
}

func elaborateStmts(stmts []ast.Stmt) (Abs, error) {
	if len(stmts) == 0 {
		return &Seq{}, nil
	}

	head := stmts[0]
	rest := stmts[1:]

	if decl, ok := head.(*ast.DeclStmt); ok {
		scope, err := elaborateStmts(rest)
		if err != nil {
			return nil, err
		}
		if decl.Init != nil {
			scope = flattenSeq(&Asgn{Name: decl.Name, Rhs: decl.Init, Pos: decl.Pos}, scope)
		}
		return &Decl{Name: decl.Name, Type: decl.Type, Scope: scope, Pos: decl.Pos}, nil
	}

	node, err := elaborateStmt(head)
	if err != nil {
		return nil, err
	}
	restNode, err := elaborateStmts(rest)
	if err != nil {
		return nil, err
	}
	return flattenSeq(node, restNode), nil
}

// flattenSeq appends restNode's items after node's, avoiding a chain of
// nested single-element Seqs so later passes see one flat list per block.
func flattenSeq(node, restNode Abs) Abs {
	items := []Abs{node}
	if restSeq, ok := restNode.(*Seq); ok {
		items = append(items, restSeq.Items...)
	} else {
		items = append(items, restNode)
	}
	return &Seq{Items: items}
}

func elaborateStmt(s ast.Stmt) (Abs, error) {
	switch n := s.(type) {
	case *ast.Block:
		return elaborateStmts(n.Stmts)

	case *ast.AssignStmt:
		rhs := n.Rhs
		if n.Op.IsCompound() {
			rhs = &ast.BinaryExpr{
				Left:  &ast.Ident{Name: n.Name, Pos: n.Pos},
				Op:    n.Op.BinOp(),
				Right: n.Rhs,
				Pos:   n.Pos,
			}
		}
		return &Asgn{Name: n.Name, Rhs: rhs, Pos: n.Pos}, nil

	case *ast.CallStmt:
		return &Call{Name: n.Call.Name, Args: n.Call.Args, Pos: n.Pos}, nil

	case *ast.IfStmt:
		then, err := elaborateBlock(n.Then)
		if err != nil {
			return nil, err
		}
		var els Abs = &Seq{}
		if n.Else != nil {
			els, err = elaborateBlock(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return &If{Cond: n.Cond, Then: then, Else: els, Pos: n.Pos}, nil

	case *ast.WhileStmt:
		body, err := elaborateBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &While{Cond: n.Cond, Body: body, Pos: n.Pos}, nil

	case *ast.ForStmt:
		return elaborateFor(n)

	case *ast.BreakStmt:
		return &Brk{Pos: n.Pos}, nil
	case *ast.ContinueStmt:
		return &Cont{Pos: n.Pos}, nil
	case *ast.ReturnStmt:
		return &Ret{Value: n.Value, Pos: n.Pos}, nil

	default:
		return nil, fmt.Errorf("elaborate: unhandled statement type %T", s)
	}
}

// elaborateFor linearizes `for(init; cond; step) body` into a For whose
// Body is the single Seq [EXP(cond), body..., step]. When init is a
// declaration it is hoisted to wrap the For as a Decl, so its scope
// extends over the condition, body, and step exactly as a `DECL`'s scope
// must (§3 invariant); any other init is placed before the For in an
// enclosing Seq.
func elaborateFor(n *ast.ForStmt) (Abs, error) {
	if _, isDecl := n.Step.(*ast.DeclStmt); isDecl {
		return nil, &FatalError{
			Message: "a for-loop step may not be a declaration",
			Code:    cerrors.ForStepDeclares,
			Pos:     n.Step.StmtPos(),
		}
	}

	bodyAbs, err := elaborateBlock(n.Body)
	if err != nil {
		return nil, err
	}
	var bodyItems []Abs
	if bodySeq, ok := bodyAbs.(*Seq); ok {
		bodyItems = bodySeq.Items
	} else {
		bodyItems = []Abs{bodyAbs}
	}

	var stepAbs Abs = &Seq{}
	if n.Step != nil {
		stepAbs, err = elaborateStmt(n.Step)
		if err != nil {
			return nil, err
		}
	}

	items := []Abs{&ExpStmt{Value: n.Cond, Pos: n.Cond.ExprPos()}}
	items = append(items, bodyItems...)
	stepIndex := len(items)
	items = append(items, stepAbs)

	seq := &Seq{Items: items}
	forNode := &For{Body: seq, StepIndex: stepIndex, Pos: n.Pos}

	if n.Init == nil {
		return forNode, nil
	}
	if declInit, ok := n.Init.(*ast.DeclStmt); ok {
		scope := Abs(forNode)
		if declInit.Init != nil {
			scope = &Seq{Items: []Abs{
				&Asgn{Name: declInit.Name, Rhs: declInit.Init, Pos: declInit.Pos},
				forNode,
			}}
		}
		return &Decl{Name: declInit.Name, Type: declInit.Type, Scope: scope, Pos: declInit.Pos}, nil
	}

	initAbs, err := elaborateStmt(n.Init)
	if err != nil {
		return nil, err
	}
	return &Seq{Items: []Abs{initAbs, forNode}}, nil
}
