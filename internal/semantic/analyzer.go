// Package semantic implements the four per-function traversals spec.md
// §4.2 names (return, declaration/definite-assignment, type, and
// break/continue checking) plus the program-level checks (duplicate
// functions, builtin overrides, main's existence and signature).
package semantic

import (
	"c0c/internal/ast"
	"c0c/internal/elaborate"
	cerrors "c0c/internal/errors"
)

// Analyzer runs every semantic check over one elaborated program.
type Analyzer struct {
	funcs map[string]FuncSig
	errs  []cerrors.CompilerError
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{funcs: map[string]FuncSig{}}
}

// Analyze runs all checks and returns every diagnostic found. An empty
// result means the program may proceed to IR lowering.
func Analyze(ast *ast.Program, elaborated *elaborate.Program) []cerrors.CompilerError {
	a := NewAnalyzer()
	a.checkProgram(ast, elaborated)
	return a.errs
}

func (a *Analyzer) error(function string, code cerrors.Code, pos ast.Position, message string) {
	a.errs = append(a.errs, cerrors.CompilerError{Function: function, Code: code, Message: message, Pos: pos})
}

func (a *Analyzer) checkProgram(prog *ast.Program, elaborated *elaborate.Program) {
	a.buildFunctionTable(prog)

	sawMain := false
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			sawMain = true
			if fn.ReturnType != ast.Int || len(fn.Params) != 0 {
				a.error("main", cerrors.MissingMain, fn.Pos, "main must take no parameters and return int")
			}
		}
	}
	if !sawMain {
		a.error("", cerrors.MissingMain, ast.Position{Line: 1, Column: 1}, "program has no main function")
	}

	for _, fn := range elaborated.Functions {
		a.checkFunction(fn)
	}
}

func (a *Analyzer) buildFunctionTable(prog *ast.Program) {
	seen := map[string]bool{}
	for _, fn := range prog.Functions {
		if IsBuiltin(fn.Name) {
			a.error(fn.Name, cerrors.BuiltinOverride, fn.Pos, "cannot redeclare built-in function \""+fn.Name+"\"")
			continue
		}
		if seen[fn.Name] {
			a.error(fn.Name, cerrors.DuplicateFunction, fn.Pos, "duplicate function \""+fn.Name+"\"")
			continue
		}
		seen[fn.Name] = true

		params := make([]ast.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		a.funcs[fn.Name] = FuncSig{Params: params, ReturnType: fn.ReturnType}
	}
}

func (a *Analyzer) checkFunction(fn *elaborate.Function) {
	if fn.ReturnType != ast.Void && !returnCheck(fn.Body) {
		a.error(fn.Name, cerrors.MissingReturn, fn.Pos, "function \""+fn.Name+"\" does not return on every path")
	}

	declared := map[string]bool{}
	assigned := map[string]bool{}
	for _, p := range fn.Params {
		declared[p.Name] = true
		assigned[p.Name] = true
	}
	a.checkDeclarations(fn.Name, fn.Body, declared, assigned)

	env := map[string]ast.Type{}
	for _, p := range fn.Params {
		env[p.Name] = p.Type
	}
	a.checkTypes(fn.Name, fn.Body, env, fn.ReturnType)

	a.checkLoopControl(fn.Name, fn.Body, 0)
}
