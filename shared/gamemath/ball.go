package gamemath

import (
	"math"
	"math/rand"
)

// ServeDirection returns a randomized unit serve direction. The horizontal
// component always dominates: sideways sign is random, lift is sampled in
// [-maxLift, maxLift].
func ServeDirection(rng *rand.Rand, maxLift float64) (dirX, dirY float64) {
	dirX = 1.0
	if rng.Intn(2) == 0 {
		dirX = -1.0
	}
	dirY = (rng.Float64()*2 - 1) * maxLift
	mag := math.Sqrt(dirX*dirX + dirY*dirY)
	return dirX / mag, dirY / mag
}

// LimitSpeed rescales a velocity to maxSpeed, preserving direction.
// Velocities at or under the limit pass through unchanged.
func LimitSpeed(velX, velY, maxSpeed float64) (float64, float64) {
	speed := math.Sqrt(velX*velX + velY*velY)
	if speed <= maxSpeed || speed == 0 {
		return velX, velY
	}
	scale := maxSpeed / speed
	return velX * scale, velY * scale
}

// ImpactImpulse computes the impulse an avatar contact imparts to the
// ball: direction away from the avatar center, magnitude from the base
// force plus the combined relative and avatar speed.
func ImpactImpulse(avatarX, avatarY, avatarVelX, avatarVelY, ballX, ballY, ballVelX, ballVelY, base, scale, maxLift float64) (impX, impY float64) {
	dirX := ballX - avatarX
	dirY := ballY - avatarY
	dist := math.Sqrt(dirX*dirX + dirY*dirY)
	if dist == 0 {
		dirX, dirY = 1, 0
	} else {
		dirX /= dist
		dirY /= dist
	}

	relX := ballVelX - avatarVelX
	relY := ballVelY - avatarVelY
	relSpeed := math.Sqrt(relX*relX + relY*relY)
	avatarSpeed := math.Sqrt(avatarVelX*avatarVelX + avatarVelY*avatarVelY)

	magnitude := base + scale*(relSpeed+avatarSpeed)
	impX = dirX * magnitude
	impY = dirY * magnitude
	if impY < -maxLift {
		impY = -maxLift
	}
	return impX, impY
}
