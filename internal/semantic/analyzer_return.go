package semantic

import "c0c/internal/elaborate"

// returnCheck implements spec.md §4.2's return-check recursion exactly:
// RET is always true, DECL delegates to its scope, IF requires both
// branches to return, SEQ requires any element to return, and every other
// node (ASGN, WHILE, FOR, BRK, CONT, CALL, ExpStmt) is false — a loop
// might execute zero times, so it can never guarantee a return.
func returnCheck(a elaborate.Abs) bool {
	switch n := a.(type) {
	case *elaborate.Ret:
		return true
	case *elaborate.Decl:
		return returnCheck(n.Scope)
	case *elaborate.If:
		return returnCheck(n.Then) && returnCheck(n.Else)
	case *elaborate.Seq:
		for _, item := range n.Items {
			if returnCheck(item) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
