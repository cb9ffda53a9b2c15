package core

import (
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	"github.com/solarlune/resolv"
)

// GoalZone is a passive goal volume. It holds no mutable state — the
// participant at OwnerIndex defends it, and the opposing participant
// scores when the ball enters.
type GoalZone struct {
	OwnerIndex int
	Object     *resolv.Object
}

func newGoalZone(g arenadata.GoalRect) *GoalZone {
	obj := resolv.NewObject(g.X, g.Y, g.W, g.H, tagGoal)
	obj.SetShape(resolv.NewRectangle(0, 0, g.W, g.H))
	return &GoalZone{OwnerIndex: g.OwnerIndex, Object: obj}
}

// ScoringIndex returns who scores when the ball enters this zone.
func (z *GoalZone) ScoringIndex() int {
	return 1 - z.OwnerIndex
}
