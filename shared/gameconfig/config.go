// Package gameconfig holds shared gameplay tuning values used by both the
// authoritative server and participant clients. Values must match on every
// node — the ball is simulated only by the authority, but avatar movement
// runs on the owning client with the same constants.
package gameconfig

// BallConfig contains all ball-related tuning values.
type BallConfig struct {
	// Dimensions
	Size float64

	// Physics
	Gravity     float64
	Restitution float64 // velocity retained after a wall/floor bounce
	MaxSpeed    float64 // hard clamp applied by the authority every tick

	// Serve
	ServeForce    float64
	ServeMaxLift  float64 // vertical component cap; keeps serves mostly horizontal
	ImpactBase    float64 // minimum impulse from an avatar touch
	ImpactScale   float64 // impulse contribution from combined relative + avatar speed
	ImpactMaxLift float64
}

// AvatarConfig contains all avatar movement and dash tuning values.
type AvatarConfig struct {
	// Movement
	MoveForce   float64
	MaxSpeed    float64 // horizontal clamp; fall speed is unclamped
	Friction    float64
	Gravity     float64
	JumpSpeed   float64
	GroundProbe float64 // downward probe distance for the grounded check

	// Dash
	DashForce         float64
	DashCooldownTicks int

	// Dimensions
	Width  float64
	Height float64
}

// MatchConfig contains round lifecycle tuning values.
type MatchConfig struct {
	RequiredParticipants int
	MaxParticipants      int
	WinThreshold         int

	CountdownSeconds float64
	RoundSeconds     float64
	RoundEndSeconds  float64

	// Ticks to wait after a join before the roster registers the
	// participant, so the avatar entity has time to materialize on
	// every node.
	JoinSettleTicks int
}

// Ball is the global ball configuration
var Ball BallConfig

// Avatar is the global avatar configuration
var Avatar AvatarConfig

// Match is the global match configuration
var Match MatchConfig

func init() {
	Ball = BallConfig{
		Size:          12,
		Gravity:       0.35,
		Restitution:   0.8,
		MaxSpeed:      14.0,
		ServeForce:    7.0,
		ServeMaxLift:  0.35,
		ImpactBase:    4.0,
		ImpactScale:   0.6,
		ImpactMaxLift: 9.0,
	}

	Avatar = AvatarConfig{
		MoveForce:         0.75,
		MaxSpeed:          6.0,
		Friction:          0.5,
		Gravity:           0.75,
		JumpSpeed:         15.0,
		GroundProbe:       2.0,
		DashForce:         10.0,
		DashCooldownTicks: 90, // 1.5s at 60 Hz presentation ticks
		Width:             16,
		Height:            40,
	}

	Match = MatchConfig{
		RequiredParticipants: 2,
		MaxParticipants:      2,
		WinThreshold:         3,
		CountdownSeconds:     3.0,
		RoundSeconds:         90.0,
		RoundEndSeconds:      3.0,
		JoinSettleTicks:      10, // 0.5s at the default 20 Hz server tick
	}
}
