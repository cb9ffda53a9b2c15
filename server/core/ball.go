package core

import (
	"log"
	"math"
	"math/rand"

	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gamemath"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Goal records a goal-zone entry pending consumption by the match. The
// match polls for it once per tick instead of the ball calling back into
// the coordinator from inside collision handling.
type Goal struct {
	ScoringIndex int
	X, Y         float64
}

// Ball is the authoritative physics entity for the arena ball. It is
// created once at session start and never recreated — rounds reposition
// and reactivate the same body. Inactive means kinematic on every node:
// no integration, no velocity governor, no goal detection.
type Ball struct {
	ctx   *replication.Context
	world donburi.World
	arena *Arena

	Object     *resolv.Object
	VelX, VelY float64

	Active    *replication.Value[bool]
	LastTouch *replication.Value[int]

	entity      donburi.Entity
	goalScored  bool // per-round latch against duplicate goal triggers
	pendingGoal *Goal

	// Maps an overlapping resolv object to a participant index for touch
	// attribution. Installed by the server; nil means no attribution.
	touchIndex func(*resolv.Object) (int, bool)
}

// NewBall creates the ball entity at the arena's ball spawn, inactive.
func NewBall(ctx *replication.Context, world donburi.World, arena *Arena) *Ball {
	size := cfg.Ball.Size
	obj := resolv.NewObject(arena.BallSpawn.X, arena.BallSpawn.Y, size, size, tagBall)
	obj.SetShape(resolv.NewRectangle(0, 0, size, size))
	arena.Space.Add(obj)

	entity := world.Create(netcomponents.NetBall)

	b := &Ball{
		ctx:       ctx,
		world:     world,
		arena:     arena,
		Object:    obj,
		entity:    entity,
		Active:    replication.NewValue(ctx, "ball.active", false),
		LastTouch: replication.NewValue(ctx, "ball.lastTouch", netcomponents.NoParticipant),
	}
	b.writeNet()
	return b
}

// Entity returns the ball's ECS entity for network sync registration.
func (b *Ball) Entity() donburi.Entity {
	return b.entity
}

// SetTouchResolver installs the avatar attribution lookup.
func (b *Ball) SetTouchResolver(fn func(*resolv.Object) (int, bool)) {
	b.touchIndex = fn
}

// ResetForNewRound clears the goal latch, repositions the ball to its
// spawn with zero velocity, reactivates it and clears touch attribution.
// Observers clear trailing-effect state on the activity change.
func (b *Ball) ResetForNewRound() {
	if !b.ctx.IsAuthority() {
		log.Printf("[ball] ignored round reset on non-authority node")
		return
	}
	b.goalScored = false
	b.pendingGoal = nil
	b.VelX, b.VelY = 0, 0
	b.Object.X = b.arena.BallSpawn.X
	b.Object.Y = b.arena.BallSpawn.Y
	b.Object.Update()
	b.Active.Set(true)
	b.LastTouch.Set(netcomponents.NoParticipant)
}

// ApplyStartingImpulse serves the ball in a randomized, mostly-horizontal
// direction. The ball must already be active — kinematic bodies ignore
// forces.
func (b *Ball) ApplyStartingImpulse(force float64, rng *rand.Rand) {
	if !b.ctx.IsAuthority() {
		log.Printf("[ball] ignored starting impulse on non-authority node")
		return
	}
	if !b.Active.Get() {
		log.Printf("[ball] starting impulse skipped: ball is inactive")
		return
	}
	dirX, dirY := gamemath.ServeDirection(rng, cfg.Ball.ServeMaxLift)
	b.VelX += dirX * force
	b.VelY += dirY * force
}

// Freeze zeroes velocity and deactivates the ball. Idempotent.
func (b *Ball) Freeze() {
	if !b.ctx.IsAuthority() {
		log.Printf("[ball] ignored freeze on non-authority node")
		return
	}
	b.VelX, b.VelY = 0, 0
	b.Active.Set(false)
}

// ApplyImpulse applies a participant-relayed impact to the ball body and
// attributes the touch. Only the authority may move the ball; inactive
// balls ignore impulses.
func (b *Ball) ApplyImpulse(impX, impY float64, touchedBy int) {
	if !b.ctx.IsAuthority() {
		log.Printf("[ball] ignored impulse on non-authority node")
		return
	}
	if !b.Active.Get() {
		return
	}
	b.VelX += impX
	b.VelY += impY
	if touchedBy != netcomponents.NoParticipant {
		b.LastTouch.Set(touchedBy)
	}
}

// Step performs a single 60 Hz physics sub-step: gravity, the velocity
// governor, collision-resolved movement, then authority-local contact
// classification. A no-op while inactive or on non-authority nodes —
// observers render from replicated state and must discard contacts to
// avoid duplicate effects.
func (b *Ball) Step() {
	if !b.ctx.IsAuthority() || !b.Active.Get() {
		return
	}

	b.VelY += cfg.Ball.Gravity

	// Governor: repeated impulses must not produce runaway velocity.
	b.VelX, b.VelY = gamemath.LimitSpeed(b.VelX, b.VelY, cfg.Ball.MaxSpeed)

	// Resolve horizontal movement, reflecting off solids.
	dx := b.VelX
	if dx != 0 {
		if check := b.Object.Check(dx, 0, tagSolid); check != nil {
			if solids := check.ObjectsByTags(tagSolid); len(solids) > 0 {
				contact := check.ContactWithObject(solids[0])
				dx = contact.X()
				b.VelX = -b.VelX * cfg.Ball.Restitution
			}
		}
		b.Object.X += dx
	}

	// Resolve vertical movement.
	dy := b.VelY
	if check := b.Object.Check(0, dy, tagSolid); check != nil {
		if solids := check.ObjectsByTags(tagSolid); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			dy = contact.Y()
			b.VelY = -b.VelY * cfg.Ball.Restitution
			if math.Abs(b.VelY) < cfg.Ball.Gravity*2 {
				// Resting on the floor; stop accumulating micro-bounces.
				b.VelY = 0
			}
		}
	}
	b.Object.Y += dy
	b.Object.Update()

	b.checkContacts()
}

func (b *Ball) checkContacts() {
	check := b.Object.Check(0, 0, tagAvatar, tagGoal)
	if check == nil {
		return
	}

	// Touch attribution: last avatar in contact with the ball.
	if b.touchIndex != nil {
		for _, obj := range check.ObjectsByTags(tagAvatar) {
			if idx, ok := b.touchIndex(obj); ok {
				b.LastTouch.Set(idx)
				break
			}
		}
	}

	for _, obj := range check.ObjectsByTags(tagGoal) {
		if zone, ok := b.arena.ZoneFor(obj); ok {
			b.enterGoalZone(zone)
			break
		}
	}
}

// enterGoalZone latches at most one goal per active period. The match
// consumes the pending goal on its next tick.
func (b *Ball) enterGoalZone(zone *GoalZone) {
	if !b.Active.Get() || b.goalScored {
		return
	}
	b.goalScored = true
	b.pendingGoal = &Goal{
		ScoringIndex: zone.ScoringIndex(),
		X:            b.Object.X + b.Object.W/2,
		Y:            b.Object.Y + b.Object.H/2,
	}
	b.VelX, b.VelY = 0, 0
	b.Active.Set(false)
}

// TakeGoal pops the pending goal event, if any.
func (b *Ball) TakeGoal() (Goal, bool) {
	if b.pendingGoal == nil {
		return Goal{}, false
	}
	g := *b.pendingGoal
	b.pendingGoal = nil
	return g, true
}

// writeNet mirrors the ball's authoritative state into its replicated
// component for the next sync.
func (b *Ball) writeNet() {
	entry := b.world.Entry(b.entity)
	netcomponents.NetBall.Set(entry, &netcomponents.NetBallData{
		X:         b.Object.X,
		Y:         b.Object.Y,
		VelX:      b.VelX,
		VelY:      b.VelY,
		Active:    b.Active.Get(),
		LastTouch: b.LastTouch.Get(),
	})
}
