package netcomponents

import "github.com/yohamta/donburi"

// MatchPhase is the current stage of the round/match state machine. All
// transitions are authority writes; see server/core.Match for the graph.
type MatchPhase int

const (
	PhaseWaiting MatchPhase = iota
	PhaseCountdown
	PhasePlaying
	PhaseRoundEnd
	PhaseEnded
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnd:
		return "round-end"
	case PhaseEnded:
		return "ended"
	default:
		return "invalid"
	}
}

// NoWinner is the winner sentinel while the match is undecided.
const NoWinner = -1

type NetMatchData struct {
	Phase              MatchPhase
	Scores             []int // index-addressed by participant index
	RoundTimeRemaining float64
	CountdownValue     int
	WinnerIndex        int // NoWinner implies the match is not Ended
}

var NetMatch = donburi.NewComponentType[NetMatchData]()
