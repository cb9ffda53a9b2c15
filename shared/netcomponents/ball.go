package netcomponents

import "github.com/yohamta/donburi"

type NetBallData struct {
	X, Y       float64
	VelX, VelY float64
	Active     bool // false = kinematic everywhere, integration suspended
	LastTouch  int  // participant index, NoParticipant = none
}

var NetBall = donburi.NewComponentType[NetBallData]()

// LerpNetBall interpolates the transform; discrete fields snap to the
// target snapshot.
func LerpNetBall(from, to NetBallData, t float64) *NetBallData {
	return &NetBallData{
		X:         from.X + (to.X-from.X)*t,
		Y:         from.Y + (to.Y-from.Y)*t,
		VelX:      to.VelX,
		VelY:      to.VelY,
		Active:    to.Active,
		LastTouch: to.LastTouch,
	}
}
