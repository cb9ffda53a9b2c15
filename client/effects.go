package client

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Effects drives short presentation tweens from match events: a screen
// flash on goals and a scale punch on countdown ticks. Purely cosmetic;
// nothing here feeds back into simulation or replication.
type Effects struct {
	goalFlash      *gween.Tween
	countdownPunch *gween.Tween

	FlashAlpha     float32
	CountdownScale float32
}

func NewEffects() *Effects {
	return &Effects{CountdownScale: 1.0}
}

// OnGoal starts a goal flash fading out over 0.6 seconds.
func (e *Effects) OnGoal() {
	e.goalFlash = gween.New(1.0, 0.0, 0.6, ease.OutQuad)
	e.FlashAlpha = 1.0
}

// OnCountdownTick punches the countdown digit scale back to rest.
func (e *Effects) OnCountdownTick() {
	e.countdownPunch = gween.New(1.4, 1.0, 0.3, ease.OutQuad)
	e.CountdownScale = 1.4
}

// Advance steps all active tweens by dt seconds.
func (e *Effects) Advance(dt float32) {
	if e.goalFlash != nil {
		value, done := e.goalFlash.Update(dt)
		e.FlashAlpha = value
		if done {
			e.goalFlash = nil
			e.FlashAlpha = 0
		}
	}
	if e.countdownPunch != nil {
		value, done := e.countdownPunch.Update(dt)
		e.CountdownScale = value
		if done {
			e.countdownPunch = nil
			e.CountdownScale = 1.0
		}
	}
}
