// Package arenadata provides TMX arena parsing shared between client and
// server. It has no dependencies on donburi or resolv — pure data only.
package arenadata

// ArenaData holds everything parsed from a TMX arena file.
type ArenaData struct {
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	GoalZones   []GoalRect
	BallSpawn   Point
	MapWidth    int
	MapHeight   int
}

// SolidRect represents a solid collision tile.
type SolidRect struct {
	X, Y, W, H float64
}

// SpawnPoint represents an avatar spawn location, addressed by
// participant index.
type SpawnPoint struct {
	X, Y  float64
	Index int
}

// GoalRect is a goal zone volume. The participant at OwnerIndex defends
// it; the opposing participant scores when the ball enters.
type GoalRect struct {
	X, Y, W, H float64
	OwnerIndex int
}

// Point is a 2D position.
type Point struct {
	X, Y float64
}
