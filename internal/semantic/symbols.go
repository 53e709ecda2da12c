package semantic

import "c0c/internal/ast"

// FuncSig is a function's call signature: parameter types in declaration
// order and the declared return type.
type FuncSig struct {
	Params     []ast.Type
	ReturnType ast.Type
}

// builtinSigs are the three names spec.md §4.2 reserves and no user
// function may redeclare: print(int)->void, read()->int, flush()->int.
var builtinSigs = map[string]FuncSig{
	"print": {Params: []ast.Type{ast.Int}, ReturnType: ast.Void},
	"read":  {Params: nil, ReturnType: ast.Int},
	"flush": {Params: nil, ReturnType: ast.Int},
}

func IsBuiltin(name string) bool {
	_, ok := builtinSigs[name]
	return ok
}
