package core

import (
	"math"
	"math/rand"
	"testing"

	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

// newTestArena builds a 640x480 walled box with two spawn slots, a goal
// zone per side and a centered ball spawn.
func newTestArena() *Arena {
	data := &arenadata.ArenaData{
		MapWidth:  640,
		MapHeight: 480,
		SolidRects: []arenadata.SolidRect{
			{X: 0, Y: 0, W: 640, H: 16},    // ceiling
			{X: 0, Y: 464, W: 640, H: 16},  // floor
			{X: 0, Y: 0, W: 16, H: 480},    // left wall
			{X: 624, Y: 0, W: 16, H: 480},  // right wall
		},
		SpawnPoints: []arenadata.SpawnPoint{
			{X: 64, Y: 400, Index: 0},
			{X: 560, Y: 400, Index: 1},
		},
		GoalZones: []arenadata.GoalRect{
			{X: 16, Y: 330, W: 16, H: 120, OwnerIndex: 0},
			{X: 608, Y: 330, W: 16, H: 120, OwnerIndex: 1},
		},
		BallSpawn: arenadata.Point{X: 320, Y: 200},
	}
	return NewArena(data)
}

// donburiWorld returns a fresh ECS world prepared for esync.
func donburiWorld() donburi.World {
	world := donburi.NewWorld()
	srvsync.UseEsync(world)
	return world
}

func newTestBall(t *testing.T, role replication.Role) (*Ball, *Arena, donburi.World) {
	t.Helper()
	arena := newTestArena()
	world := donburiWorld()
	ctx := replication.NewContext(role)
	return NewBall(ctx, world, arena), arena, world
}

func TestBallStartsInactiveAtSpawn(t *testing.T) {
	b, arena, _ := newTestBall(t, replication.RoleDedicatedAuthority)

	assert.False(t, b.Active.Get())
	assert.Equal(t, netcomponents.NoParticipant, b.LastTouch.Get())
	assert.Equal(t, arena.BallSpawn.X, b.Object.X)
	assert.Equal(t, arena.BallSpawn.Y, b.Object.Y)
}

func TestBallResetActivatesAndClearsState(t *testing.T) {
	b, arena, _ := newTestBall(t, replication.RoleDedicatedAuthority)

	b.ResetForNewRound()
	b.LastTouch.Set(1)
	b.Object.X = 50
	b.VelX = 5
	b.enterGoalZone(arena.GoalZones[0])
	require.False(t, b.Active.Get())

	b.ResetForNewRound()

	assert.True(t, b.Active.Get())
	assert.Equal(t, netcomponents.NoParticipant, b.LastTouch.Get())
	assert.Equal(t, arena.BallSpawn.X, b.Object.X)
	assert.Equal(t, 0.0, b.VelX)
	_, pending := b.TakeGoal()
	assert.False(t, pending)
}

func TestBallInactiveIgnoresImpulsesAndSteps(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleDedicatedAuthority)

	b.ApplyImpulse(10, -5, 0)
	assert.Equal(t, 0.0, b.VelX)
	assert.Equal(t, netcomponents.NoParticipant, b.LastTouch.Get())

	startY := b.Object.Y
	b.Step()
	assert.Equal(t, startY, b.Object.Y) // no gravity while kinematic
}

func TestBallImpulseAttributesTouch(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	b.ResetForNewRound()

	b.ApplyImpulse(3, -2, 1)

	assert.Equal(t, 3.0, b.VelX)
	assert.Equal(t, -2.0, b.VelY)
	assert.Equal(t, 1, b.LastTouch.Get())
}

func TestBallVelocityGovernor(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	b.ResetForNewRound()

	// Stack impulses far past the limit.
	b.ApplyImpulse(100, 0, netcomponents.NoParticipant)
	b.ApplyImpulse(100, 0, netcomponents.NoParticipant)
	b.Step()

	speed := math.Sqrt(b.VelX*b.VelX + b.VelY*b.VelY)
	assert.LessOrEqual(t, speed, cfg.Ball.MaxSpeed+1e-9)
}

func TestBallGoalZoneLatchesOnce(t *testing.T) {
	b, arena, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	b.ResetForNewRound()
	b.VelX = -3

	zone := arena.GoalZones[0]
	b.enterGoalZone(zone)
	b.enterGoalZone(zone) // duplicate contact, same active period

	assert.False(t, b.Active.Get())
	assert.Equal(t, 0.0, b.VelX)

	goal, ok := b.TakeGoal()
	require.True(t, ok)
	assert.Equal(t, zone.ScoringIndex(), goal.ScoringIndex)

	_, ok = b.TakeGoal()
	assert.False(t, ok)
}

func TestBallInactiveIgnoresGoalZones(t *testing.T) {
	b, arena, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	require.False(t, b.Active.Get())

	b.enterGoalZone(arena.GoalZones[1])

	_, ok := b.TakeGoal()
	assert.False(t, ok)
}

func TestGoalZoneScoringIndexIsOpponent(t *testing.T) {
	arena := newTestArena()
	assert.Equal(t, 1, arena.GoalZones[0].ScoringIndex())
	assert.Equal(t, 0, arena.GoalZones[1].ScoringIndex())
}

func TestBallFreezeIsIdempotent(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	b.ResetForNewRound()
	b.VelX = 7

	b.Freeze()
	b.Freeze()

	assert.False(t, b.Active.Get())
	assert.Equal(t, 0.0, b.VelX)
}

func TestBallNonAuthorityMutationsAreNoOps(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleParticipant)

	b.ResetForNewRound()
	assert.False(t, b.Active.Get())

	b.ApplyImpulse(10, 0, 0)
	assert.Equal(t, 0.0, b.VelX)

	b.ApplyStartingImpulse(cfg.Ball.ServeForce, rand.New(rand.NewSource(1)))
	assert.Equal(t, 0.0, b.VelX)
}

func TestBallServeIsMostlyHorizontal(t *testing.T) {
	b, _, _ := newTestBall(t, replication.RoleDedicatedAuthority)
	b.ResetForNewRound()

	b.ApplyStartingImpulse(cfg.Ball.ServeForce, rand.New(rand.NewSource(42)))

	assert.NotEqual(t, 0.0, b.VelX)
	assert.Greater(t, math.Abs(b.VelX), math.Abs(b.VelY))
}
