package client

import (
	"math"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gamemath"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/messages"
	"github.com/solarlune/resolv"
)

// Input is one frame of sampled intent. How it is produced (keyboard,
// gamepad, bot) is out of scope here.
type Input struct {
	MoveX       float64 // -1, 0 or 1
	JumpPressed bool
	DashPressed bool
}

// Controller simulates this node's own avatar. The owner is the writer
// for its transform: the authority trusts the reports and never pushes
// the transform back, so no reconciliation is needed.
type Controller struct {
	space  *resolv.Space
	Object *resolv.Object

	participantIndex int

	VelX, VelY float64
	OnGround   bool

	lastMoveX      float64
	facingX        float64
	jumpWasPressed bool
	dashCooldown   int

	sequence uint32
}

// NewController builds a local collision space from the arena data and
// places the avatar at its slot's spawn point.
func NewController(data *arenadata.ArenaData, participantIndex int) *Controller {
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, 16, 16)
	for _, r := range data.SolidRects {
		solid := resolv.NewObject(r.X, r.Y, r.W, r.H, "solid")
		solid.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(solid)
	}

	spawnX, spawnY := 100.0, 100.0
	for _, sp := range data.SpawnPoints {
		if sp.Index == participantIndex {
			spawnX, spawnY = sp.X, sp.Y
			break
		}
	}

	obj := resolv.NewObject(spawnX, spawnY, cfg.Avatar.Width, cfg.Avatar.Height, "player")
	obj.SetShape(resolv.NewRectangle(0, 0, cfg.Avatar.Width, cfg.Avatar.Height))
	space.Add(obj)

	facing := 1.0
	if participantIndex%2 == 1 {
		facing = -1.0
	}

	return &Controller{
		space:            space,
		Object:           obj,
		participantIndex: participantIndex,
		facingX:          facing,
	}
}

// SnapTo teleports the avatar, zeroing its velocity. Used for round resets
// driven by replicated match state.
func (c *Controller) SnapTo(x, y float64) {
	c.Object.X = x
	c.Object.Y = y
	c.VelX = 0
	c.VelY = 0
	c.Object.Update()
}

// Step advances one 60 Hz frame of owner-local movement and returns the
// transform report to relay to the authority.
func (c *Controller) Step(input Input) messages.AvatarStateReport {
	if c.dashCooldown > 0 {
		c.dashCooldown--
	}

	if input.MoveX != 0 {
		// Movement force only acts while grounded; airborne trajectory is
		// committed at takeoff (and by dashes).
		if c.OnGround {
			c.VelX += input.MoveX * cfg.Avatar.MoveForce
		}
		c.lastMoveX = input.MoveX
		c.facingX = input.MoveX
	} else {
		c.lastMoveX = 0
	}

	// Jump (edge-triggered)
	if input.JumpPressed && !c.jumpWasPressed && c.OnGround {
		c.VelY = -cfg.Avatar.JumpSpeed
		c.OnGround = false
	}
	c.jumpWasPressed = input.JumpPressed

	if c.OnGround {
		c.VelX = gamemath.ApplyFriction(c.VelX, cfg.Avatar.Friction)
	}
	c.VelX = gamemath.ClampSpeed(c.VelX, cfg.Avatar.MaxSpeed)

	// Only the horizontal axis is clamped; fall speed is unbounded until
	// the floor resolves it.
	c.VelY += cfg.Avatar.Gravity

	c.resolveHorizontal()
	c.resolveVertical()
	c.Object.Update()

	c.sequence++
	return messages.AvatarStateReport{
		Sequence: c.sequence,
		X:        c.Object.X,
		Y:        c.Object.Y,
		VelX:     c.VelX,
		VelY:     c.VelY,
		Grounded: c.OnGround,
	}
}

func (c *Controller) resolveHorizontal() {
	dx := c.VelX
	if dx == 0 {
		return
	}
	if check := c.Object.Check(dx, 0, "solid"); check != nil {
		if solids := check.ObjectsByTags("solid"); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			dx = contact.X()
			c.VelX = 0
		}
	}
	c.Object.X += dx
}

func (c *Controller) resolveVertical() {
	dy := c.VelY

	checkDist := dy
	if dy >= 0 {
		checkDist += cfg.Avatar.GroundProbe
	}

	if check := c.Object.Check(0, checkDist, "solid"); check != nil {
		if solids := check.ObjectsByTags("solid"); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			c.Object.Y += contact.Y()
			c.VelY = 0
			if dy >= 0 {
				c.OnGround = true
			}
			return
		}
	}

	c.OnGround = false
	c.Object.Y += dy
}

// TryDash performs a cooldown-gated dash burst. Returns the relay event
// and true when the dash fired; the cooldown rejects repeats until it
// elapses.
func (c *Controller) TryDash() (messages.DashPerformedEvent, bool) {
	if c.dashCooldown > 0 {
		return messages.DashPerformedEvent{}, false
	}

	dirX, dirY := gamemath.DashVector(c.lastMoveX, c.facingX)
	c.VelX += dirX * cfg.Avatar.DashForce
	c.VelY += dirY * cfg.Avatar.DashForce
	c.dashCooldown = cfg.Avatar.DashCooldownTicks

	return messages.DashPerformedEvent{
		ParticipantIndex: c.participantIndex,
		DirectionX:       dirX,
		DirectionY:       dirY,
	}, true
}

// DashReady reports whether the dash cooldown has elapsed.
func (c *Controller) DashReady() bool {
	return c.dashCooldown == 0
}

// BallContact computes the impulse request for a locally observed
// avatar-ball contact. The authority is the only node that applies it;
// this just relays the owner's view of the hit.
func (c *Controller) BallContact(ballX, ballY, ballVelX, ballVelY float64) messages.BallImpulseRequest {
	centerX := c.Object.X + cfg.Avatar.Width/2
	centerY := c.Object.Y + cfg.Avatar.Height/2

	impX, impY := gamemath.ImpactImpulse(
		centerX, centerY, c.VelX, c.VelY,
		ballX, ballY, ballVelX, ballVelY,
		cfg.Ball.ImpactBase, cfg.Ball.ImpactScale, cfg.Ball.ImpactMaxLift,
	)
	return messages.BallImpulseRequest{
		ImpulseX: impX,
		ImpulseY: impY,
		PointX:   ballX,
		PointY:   ballY,
	}
}

// Touching reports whether the avatar overlaps a circle at the ball's
// position, for local contact detection ahead of the impulse relay.
func (c *Controller) Touching(ballX, ballY, ballSize float64) bool {
	nearX := math.Max(c.Object.X, math.Min(ballX, c.Object.X+cfg.Avatar.Width))
	nearY := math.Max(c.Object.Y, math.Min(ballY, c.Object.Y+cfg.Avatar.Height))
	dx := ballX - nearX
	dy := ballY - nearY
	return dx*dx+dy*dy <= ballSize*ballSize
}
