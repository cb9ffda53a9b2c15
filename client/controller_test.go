package client

import (
	"testing"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatArena is open ground: a single floor slab with a spawn standing on it.
func flatArena() *arenadata.ArenaData {
	return &arenadata.ArenaData{
		MapWidth:  640,
		MapHeight: 480,
		SolidRects: []arenadata.SolidRect{
			{X: 0, Y: 400, W: 640, H: 80},
		},
		SpawnPoints: []arenadata.SpawnPoint{
			{X: 100, Y: 400 - cfg.Avatar.Height, Index: 0},
			{X: 500, Y: 400 - cfg.Avatar.Height, Index: 1},
		},
		BallSpawn: arenadata.Point{X: 320, Y: 200},
	}
}

func settle(c *Controller) {
	// A few idle frames to establish the grounded state.
	for i := 0; i < 5; i++ {
		c.Step(Input{})
	}
}

func TestControllerSpawnsAtSlot(t *testing.T) {
	c := NewController(flatArena(), 1)
	assert.Equal(t, 500.0, c.Object.X)
}

func TestControllerBecomesGroundedOnFloor(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	assert.True(t, c.OnGround)
	assert.Equal(t, 0.0, c.VelY)
}

func TestControllerMovesWithInput(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	startX := c.Object.X

	for i := 0; i < 10; i++ {
		c.Step(Input{MoveX: 1})
	}

	assert.Greater(t, c.Object.X, startX)
	assert.LessOrEqual(t, c.VelX, cfg.Avatar.MaxSpeed)
}

func TestControllerHorizontalSpeedClamped(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)

	for i := 0; i < 60; i++ {
		c.Step(Input{MoveX: 1})
	}

	assert.Equal(t, cfg.Avatar.MaxSpeed, c.VelX)
}

func TestControllerFrictionStopsWithoutInput(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	for i := 0; i < 20; i++ {
		c.Step(Input{MoveX: 1})
	}

	for i := 0; i < 30; i++ {
		c.Step(Input{})
	}

	assert.Equal(t, 0.0, c.VelX)
}

func TestControllerNoAirControl(t *testing.T) {
	c := NewController(flatArena(), 0)
	c.SnapTo(100, 100) // well above the floor
	require.False(t, c.OnGround)

	for i := 0; i < 5; i++ {
		c.Step(Input{MoveX: 1})
	}

	// Movement force acts only while grounded; the airborne trajectory
	// keeps whatever horizontal velocity it had at takeoff.
	assert.Equal(t, 0.0, c.VelX)
	assert.Equal(t, 100.0, c.Object.X)

	// Input is still tracked for facing, so a dash mid-air follows it.
	evt, ok := c.TryDash()
	require.True(t, ok)
	assert.Equal(t, 1.0, evt.DirectionX)
}

func TestControllerFallSpeedUnclamped(t *testing.T) {
	c := NewController(flatArena(), 0)
	c.SnapTo(100, 50)

	for i := 0; i < 20; i++ {
		c.Step(Input{})
	}

	// 20 frames of gravity with no terminal-velocity cap.
	assert.Equal(t, 20*cfg.Avatar.Gravity, c.VelY)
}

func TestControllerJumpIsEdgeTriggered(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	require.True(t, c.OnGround)

	c.Step(Input{JumpPressed: true})
	assert.False(t, c.OnGround)
	firstVelY := c.VelY
	assert.Less(t, firstVelY, 0.0)

	// Holding the button mid-air must not re-trigger.
	c.Step(Input{JumpPressed: true})
	assert.Greater(t, c.VelY, firstVelY) // only gravity applied
}

func TestControllerReportSequenceIncrements(t *testing.T) {
	c := NewController(flatArena(), 0)

	r1 := c.Step(Input{})
	r2 := c.Step(Input{})

	assert.Equal(t, uint32(1), r1.Sequence)
	assert.Equal(t, uint32(2), r2.Sequence)
	assert.Equal(t, c.Object.X, r2.X)
}

func TestControllerDashCooldown(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)

	evt, ok := c.TryDash()
	require.True(t, ok)
	assert.Equal(t, 0, evt.ParticipantIndex)
	assert.False(t, c.DashReady())

	_, ok = c.TryDash()
	assert.False(t, ok)

	for i := 0; i < cfg.Avatar.DashCooldownTicks; i++ {
		c.Step(Input{})
	}
	assert.True(t, c.DashReady())

	_, ok = c.TryDash()
	assert.True(t, ok)
}

func TestControllerDashUsesMovementDirection(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	c.Step(Input{MoveX: -1})

	evt, ok := c.TryDash()
	require.True(t, ok)
	assert.Equal(t, -1.0, evt.DirectionX)
	assert.Less(t, c.VelX, 0.0)
}

func TestControllerBallContactPushesAway(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)

	// Ball to the avatar's right: impulse must push right.
	ballX := c.Object.X + cfg.Avatar.Width + 4
	ballY := c.Object.Y + cfg.Avatar.Height/2
	req := c.BallContact(ballX, ballY, 0, 0)

	assert.Greater(t, req.ImpulseX, 0.0)
	assert.GreaterOrEqual(t, req.ImpulseY, -cfg.Ball.ImpactMaxLift)
	assert.Equal(t, ballX, req.PointX)
}

func TestControllerTouching(t *testing.T) {
	c := NewController(flatArena(), 0)

	inside := c.Object.X + cfg.Avatar.Width/2
	assert.True(t, c.Touching(inside, c.Object.Y+5, cfg.Ball.Size))
	assert.False(t, c.Touching(c.Object.X+200, c.Object.Y, cfg.Ball.Size))
}

func TestControllerSnapToResetsVelocity(t *testing.T) {
	c := NewController(flatArena(), 0)
	settle(c)
	for i := 0; i < 10; i++ {
		c.Step(Input{MoveX: 1})
	}

	c.SnapTo(100, 360)

	assert.Equal(t, 100.0, c.Object.X)
	assert.Equal(t, 0.0, c.VelX)
	assert.Equal(t, 0.0, c.VelY)
}
