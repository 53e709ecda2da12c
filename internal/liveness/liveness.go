// Package liveness implements spec.md §4.4: a "needed" fixed point that
// drives dead-Load elimination, and a "live" fixed point whose per-line
// sets internal/regalloc consumes to build the interference graph.
package liveness

import "c0c/internal/ir"

// Run analyzes fn, eliding dead Loads in place (rewritten to an
// unreferenced Label, per spec.md §4.4), and returns the live-temp set at
// each line — Result[i] is the set of temps live immediately before line
// i executes.
func Run(fn *ir.Function) [][]int {
	succ := successors(fn.Cmds)
	uses, defs, forced := analyzeLines(fn.Cmds)

	needed := fixNeeded(fn.Cmds, succ, uses, defs, forced)
	eliminateDead(fn, succ, needed, defs, forced)

	live := fixLive(fn.Cmds, succ, uses, defs)
	return live
}

// successors returns, for each line, the indices of lines that may execute
// immediately after it: i+1 for straight-line flow, a Label's line for
// Jump/JumpIf targets, both for JumpIf, and none for Return (it leaves the
// function).
func successors(cmds []ir.Cmd) [][]int {
	labelLine := make(map[int]int)
	for i, c := range cmds {
		if l, ok := c.(ir.LabelCmd); ok {
			labelLine[l.Label] = i
		}
	}

	out := make([][]int, len(cmds))
	for i, c := range cmds {
		switch n := c.(type) {
		case ir.Jump:
			out[i] = []int{labelLine[n.Label]}
		case ir.JumpIf:
			next := []int{labelLine[n.Label]}
			if i+1 < len(cmds) {
				next = append(next, i+1)
			}
			out[i] = next
		case ir.Return:
			out[i] = nil
		default:
			if i+1 < len(cmds) {
				out[i] = []int{i + 1}
			}
		}
	}
	return out
}

// analyzeLines computes, per line, the temps it reads (uses), the temp it
// defines if any (defs, -1 when none), and whether that Load can never be
// eliminated because its source is side-effecting (a call, or a division
// that may fault — spec.md §4.4's "Nec" for divisor/dividend).
func analyzeLines(cmds []ir.Cmd) (uses [][]int, defs []int, forced []bool) {
	uses = make([][]int, len(cmds))
	defs = make([]int, len(cmds))
	forced = make([]bool, len(cmds))

	for i, c := range cmds {
		defs[i] = -1
		switch n := c.(type) {
		case ir.Load:
			defs[i] = n.Dest.Index
			uses[i] = exprTemps(n.Src)
			forced[i] = isSideEffecting(n.Src)
		case ir.JumpIf:
			uses[i] = exprTemps(n.Cond)
		case ir.Return:
			if n.Value != nil {
				uses[i] = exprTemps(n.Value)
			}
		case ir.CallCmd:
			uses[i] = callTemps(n.Call)
		}
	}
	return
}

func isSideEffecting(e ir.Expr) bool {
	switch n := e.(type) {
	case *ir.CallExpr:
		return true
	case *ir.BinaryExpr:
		return n.Op == ir.Div || n.Op == ir.Mod
	default:
		return false
	}
}

func exprTemps(e ir.Expr) []int {
	switch n := e.(type) {
	case ir.Temp:
		return []int{n.Index}
	case ir.ConstInt, ir.ConstBool:
		return nil
	case *ir.NegExpr:
		return exprTemps(n.Operand)
	case *ir.NotBoolExpr:
		return exprTemps(n.Operand)
	case *ir.NotIntExpr:
		return exprTemps(n.Operand)
	case *ir.BinaryExpr:
		return append(exprTemps(n.Left), exprTemps(n.Right)...)
	case *ir.CallExpr:
		return callTemps(n.Call)
	default:
		return nil
	}
}

func callTemps(c ir.Call) []int {
	switch n := c.(type) {
	case ir.Print:
		return exprTemps(n.Arg)
	case ir.Func:
		var out []int
		for _, a := range n.Args {
			out = append(out, exprTemps(a)...)
		}
		return out
	default: // Read, Flush: no operands
		return nil
	}
}

func containsInt(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func unionInPlace(dst []int, src []int) []int {
	for _, v := range src {
		if !containsInt(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func setsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !containsInt(b, v) {
			return false
		}
	}
	return true
}

// fixNeeded computes spec.md §4.4's needed[i] by backward fixed-point
// iteration until no line's set changes.
func fixNeeded(cmds []ir.Cmd, succ [][]int, uses [][]int, defs []int, forced []bool) [][]int {
	n := len(cmds)
	needed := make([][]int, n)

	changed := true
	for changed {
		changed = false
		for i := n - 1; i >= 0; i-- {
			next := nec(i, uses, defs, forced)
			for _, s := range succ[i] {
				carried := make([]int, 0, len(needed[s]))
				for _, t := range needed[s] {
					if t != defs[i] {
						carried = append(carried, t)
					}
				}
				next = unionInPlace(next, carried)

				if defs[i] >= 0 && containsInt(needed[s], defs[i]) {
					next = unionInPlace(next, uses[i])
				}
			}
			if !setsEqual(next, needed[i]) {
				needed[i] = next
				changed = true
			}
		}
	}
	return needed
}

// nec is spec.md §4.4's Nec(t): every line that cannot be elided
// (anything but a non-forced Load) treats its own uses as necessary,
// since nothing downstream mediates whether they matter.
func nec(i int, uses [][]int, defs []int, forced []bool) []int {
	if defs[i] >= 0 && !forced[i] {
		return nil
	}
	out := make([]int, len(uses[i]))
	copy(out, uses[i])
	return out
}

// eliminateDead rewrites every non-forced Load whose destination is not
// needed by any successor into an unreferenced Label — spec.md §4.4's
// pure dead-value elimination.
func eliminateDead(fn *ir.Function, succ [][]int, needed [][]int, defs []int, forced []bool) {
	for i, c := range fn.Cmds {
		if _, ok := c.(ir.Load); !ok {
			continue
		}
		if forced[i] {
			continue
		}
		dead := true
		for _, s := range succ[i] {
			if containsInt(needed[s], defs[i]) {
				dead = false
				break
			}
		}
		if dead {
			fn.Cmds[i] = ir.LabelCmd{Label: fn.NumLabels}
			fn.NumLabels++
		}
	}
}

// fixLive computes spec.md §4.4's live[i]: the temps live immediately
// before line i, by the standard backward liveness recurrence
// live[i] = uses_i ∪ (live[s] \ defs_i for each successor s).
func fixLive(cmds []ir.Cmd, succ [][]int, uses [][]int, defs []int) [][]int {
	n := len(cmds)
	live := make([][]int, n)

	changed := true
	for changed {
		changed = false
		for i := n - 1; i >= 0; i-- {
			next := make([]int, len(uses[i]))
			copy(next, uses[i])
			for _, s := range succ[i] {
				for _, t := range live[s] {
					if t != defs[i] {
						next = unionInPlace(next, []int{t})
					}
				}
			}
			if !setsEqual(next, live[i]) {
				live[i] = next
				changed = true
			}
		}
	}
	return live
}
