package gamemath

// ApplyFriction reduces speed toward zero by friction amount.
func ApplyFriction(speedX, friction float64) float64 {
	if speedX > friction {
		return speedX - friction
	}
	if speedX < -friction {
		return speedX + friction
	}
	return 0
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	if speed > max {
		return max
	}
	if speed < -max {
		return -max
	}
	return speed
}

// DashVector returns a unit dash direction from the last nonzero movement
// direction, falling back to the facing direction when stationary.
func DashVector(lastMoveX, facingX float64) (dirX, dirY float64) {
	if lastMoveX != 0 {
		if lastMoveX > 0 {
			return 1, 0
		}
		return -1, 0
	}
	if facingX < 0 {
		return -1, 0
	}
	return 1, 0
}
