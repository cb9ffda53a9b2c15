package messages

// Transient event notifications broadcast by the authority. Replicated
// component state carries the durable view; these fire cosmetic and
// coordination responses exactly once per occurrence.

// GoalScoredEvent is broadcast when the ball enters a goal zone. It doubles
// as the cosmetic goal-effect trigger on every node.
type GoalScoredEvent struct {
	ScoringIndex int
	Scores       []int // both scores, index-addressed
	BallX, BallY float64
}

// RoundStartedEvent is broadcast when the match enters Playing.
type RoundStartedEvent struct {
	Round int
}

// RoundEndedEvent is broadcast when the match leaves Playing.
type RoundEndedEvent struct {
	ScoringIndex int // NoScorer on a timeout draw
	Scores       []int
	TimedOut     bool
}

// NoScorer marks a round that ended without a goal.
const NoScorer = -1

// CountdownTickEvent is broadcast once per integer decrement of the
// pre-round countdown (3, 2, 1).
type CountdownTickEvent struct {
	Value int
}

// MatchEndedEvent is broadcast when a participant reaches the win threshold.
type MatchEndedEvent struct {
	WinnerIndex int
	Scores      []int
}

// ScoreUpdateEvent is broadcast whenever the score table changes.
type ScoreUpdateEvent struct {
	Scores []int
}

// DashPerformedEvent is sent by the dashing client to the authority, which
// rebroadcasts it to the other observers. The dash force itself is applied
// locally by the mover; this event exists purely for cosmetic relay.
type DashPerformedEvent struct {
	ParticipantIndex       int // stamped by the authority on rebroadcast
	DirectionX, DirectionY float64
}
