package messages

// AvatarStateReport is sent by each client every tick with its own avatar
// transform. The authority applies it verbatim to the sender's avatar —
// avatar position is owner-simulated and deliberately trusted, not
// validated. Reports never affect any entity other than the sender's own
// avatar.
type AvatarStateReport struct {
	Sequence   uint32
	X, Y       float64
	VelX, VelY float64
	Grounded   bool
}

// BallImpulseRequest relays a locally computed ball impact from the owning
// client to the authority. Only the authority applies impulses to the ball
// body; clients detect the contact but never move the ball themselves.
type BallImpulseRequest struct {
	ImpulseX, ImpulseY float64
	PointX, PointY     float64 // contact point, for effects
}

// RestartRequest asks the authority to restart a finished match. Any
// connected participant may send it; it executes only on the authority.
type RestartRequest struct{}
