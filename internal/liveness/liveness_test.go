package liveness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"c0c/internal/ir"
)

// TestDeadLoadIsEliminated builds t0 := 1 + 2; return 0; — t0 is never
// read afterward, so the Load computing it must be elided (spec.md §8:
// "removing a Load whose destination is not in the needed set leaves
// program behavior unchanged").
func TestDeadLoadIsEliminated(t *testing.T) {
	fn := &ir.Function{
		NumTemps: 1,
		Cmds: []ir.Cmd{
			ir.Load{Dest: ir.Temp{Index: 0}, Src: &ir.BinaryExpr{
				Left: ir.ConstInt{Value: 1}, Op: ir.Add, Right: ir.ConstInt{Value: 2},
			}},
			ir.Return{Value: ir.ConstInt{Value: 0}},
		},
	}

	Run(fn)

	_, isLabel := fn.Cmds[0].(ir.LabelCmd)
	assert.True(t, isLabel, "dead Load should be rewritten to a sentinel Label, got %#v", fn.Cmds[0])
}

// TestForcedLoadSurvivesEvenWhenUnread mirrors scenario 4's short-circuit
// division: the divisor expression is a division, which can fault, so
// its Load must never be eliminated even though its result is unused.
func TestForcedLoadSurvivesEvenWhenUnread(t *testing.T) {
	fn := &ir.Function{
		NumTemps: 1,
		Cmds: []ir.Cmd{
			ir.Load{Dest: ir.Temp{Index: 0}, Src: &ir.BinaryExpr{
				Left: ir.ConstInt{Value: 10}, Op: ir.Div, Right: ir.ConstInt{Value: 0},
			}},
			ir.Return{Value: ir.ConstInt{Value: 0}},
		},
	}

	Run(fn)

	_, isLoad := fn.Cmds[0].(ir.Load)
	assert.True(t, isLoad, "a division's Load must never be elided, got %#v", fn.Cmds[0])
}

// TestLiveAcrossJump checks that a temp defined before a jump and used
// after the jump target is reported live along the jumped-to path.
func TestLiveAcrossJump(t *testing.T) {
	fn := &ir.Function{
		NumTemps: 1,
		Cmds: []ir.Cmd{
			ir.Load{Dest: ir.Temp{Index: 0}, Src: ir.ConstInt{Value: 7}}, // 0
			ir.Jump{Label: 0},                                           // 1
			ir.LabelCmd{Label: 0},                                       // 2
			ir.Return{Value: ir.Temp{Index: 0}},                         // 3
		},
	}

	live := Run(fn)

	assert.Contains(t, live[1], 0, "t0 must be live across the jump since line 3 reads it")
	assert.Contains(t, live[2], 0)
}
