package semantic

import (
	"c0c/internal/elaborate"
	cerrors "c0c/internal/errors"
)

// checkLoopControl implements spec.md §4.2's break/continue check: legal
// only when a loop-depth counter is positive.
func (a *Analyzer) checkLoopControl(fn string, node elaborate.Abs, depth int) {
	switch n := node.(type) {
	case *elaborate.Brk:
		if depth == 0 {
			a.error(fn, cerrors.LoopControlOutside, n.Pos, "break outside of a loop")
		}
	case *elaborate.Cont:
		if depth == 0 {
			a.error(fn, cerrors.LoopControlOutside, n.Pos, "continue outside of a loop")
		}

	case *elaborate.Decl:
		a.checkLoopControl(fn, n.Scope, depth)
	case *elaborate.If:
		a.checkLoopControl(fn, n.Then, depth)
		a.checkLoopControl(fn, n.Else, depth)
	case *elaborate.While:
		a.checkLoopControl(fn, n.Body, depth+1)
	case *elaborate.For:
		a.checkLoopControl(fn, n.Body, depth+1)
	case *elaborate.Seq:
		for _, item := range n.Items {
			a.checkLoopControl(fn, item, depth)
		}
	}
}
