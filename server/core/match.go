package core

import (
	"errors"
	"log"
	"math"
	"math/rand"

	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/messages"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/yohamta/donburi"
)

// ErrMatchFull indicates all participant slots are taken.
var ErrMatchFull = errors.New("match is full")

// Match is the round state machine and roster coordinator. It runs only
// on the authority and drives the ball and avatars through the phase
// graph:
//
//	Waiting   --(ready participants >= required)--> Countdown
//	Countdown --(timer 0)--> Playing
//	Playing   --(goal)--> RoundEnd
//	Playing   --(timer 0, no goal)--> RoundEnd (draw)
//	RoundEnd  --(timer 0, winner)--> Ended
//	RoundEnd  --(timer 0, no winner)--> Countdown
//	Ended     --(restart)--> Countdown | Waiting
//	any       --(participants below required)--> Waiting
//
// Timers are authority-local decrementing counters re-evaluated each tick;
// a phase transition supersedes them by simply no longer consulting them.
type Match struct {
	ctx       *replication.Context
	world     donburi.World
	arena     *Arena
	ball      *Ball
	broadcast func(any)
	rng       *rand.Rand

	Phase  *replication.Value[netcomponents.MatchPhase]
	Winner *replication.Value[int]

	entity donburi.Entity
	scores []int
	roster map[int]*Avatar
	round  int

	countdownRemaining float64
	lastCountdownTick  int
	roundRemaining     float64
	roundEndRemaining  float64
}

// NewMatch creates the match entity. broadcast delivers transient event
// notifications to every connected node; it must not block.
func NewMatch(ctx *replication.Context, world donburi.World, arena *Arena, ball *Ball, rng *rand.Rand, broadcast func(any)) *Match {
	entity := world.Create(netcomponents.NetMatch)
	m := &Match{
		ctx:       ctx,
		world:     world,
		arena:     arena,
		ball:      ball,
		broadcast: broadcast,
		rng:       rng,
		entity:    entity,
		scores:    make([]int, cfg.Match.MaxParticipants),
		roster:    make(map[int]*Avatar, cfg.Match.MaxParticipants),
		Phase:     replication.NewValue(ctx, "match.phase", netcomponents.PhaseWaiting),
		Winner:    replication.NewValue(ctx, "match.winner", netcomponents.NoWinner),
	}
	m.writeNet()
	return m
}

// Entity returns the match's ECS entity for network sync registration.
func (m *Match) Entity() donburi.Entity {
	return m.entity
}

// Scores returns a copy of the score table.
func (m *Match) Scores() []int {
	out := make([]int, len(m.scores))
	copy(out, m.scores)
	return out
}

// Round returns the current round number, starting at 1 for the first.
func (m *Match) Round() int {
	return m.round
}

// AssignSlot claims the lowest free participant index for an avatar and
// places it at that slot's spawn point. The avatar does not count toward
// the quorum until MarkReady.
func (m *Match) AssignSlot(av *Avatar) (int, error) {
	for idx := 0; idx < cfg.Match.MaxParticipants; idx++ {
		if _, taken := m.roster[idx]; taken {
			continue
		}
		m.roster[idx] = av
		av.Index.Set(idx)
		if spawn, ok := m.arena.SpawnFor(idx); ok {
			av.snapTo(spawn)
		} else {
			log.Printf("[match] no spawn point configured for slot %d", idx)
		}
		return idx, nil
	}
	return netcomponents.NoParticipant, ErrMatchFull
}

// MarkReady flags a registered avatar as counting toward the quorum.
func (m *Match) MarkReady(av *Avatar) {
	av.Ready.Set(true)
	log.Printf("[match] participant %d (%s) ready (%d/%d)",
		av.Index.Get(), av.Name, m.readyCount(), cfg.Match.RequiredParticipants)
}

// RemoveParticipant deregisters an avatar. Dropping below the required
// participant count forces Waiting and freezes the ball regardless of
// the current phase — a defined transition, not an error.
func (m *Match) RemoveParticipant(av *Avatar) {
	idx := av.Index.Get()
	if current, ok := m.roster[idx]; !ok || current != av {
		return
	}
	delete(m.roster, idx)
	log.Printf("[match] participant %d (%s) left", idx, av.Name)

	if m.readyCount() < cfg.Match.RequiredParticipants && m.Phase.Get() != netcomponents.PhaseWaiting {
		m.forceWaiting()
	}
}

// RequestRestart restarts a finished match: scores cleared, winner
// cleared, then Countdown if enough participants remain, else Waiting.
// Any connected participant may request it; only the authority executes.
// Requests outside the Ended phase are ignored with a diagnostic.
func (m *Match) RequestRestart() {
	if !m.ctx.IsAuthority() {
		log.Printf("[match] ignored restart on non-authority node")
		return
	}
	if m.Phase.Get() != netcomponents.PhaseEnded {
		log.Printf("[match] ignored restart request in phase %s", m.Phase.Get())
		return
	}
	for i := range m.scores {
		m.scores[i] = 0
	}
	m.round = 0
	m.Winner.Set(netcomponents.NoWinner)
	m.broadcast(messages.ScoreUpdateEvent{Scores: m.Scores()})

	if m.readyCount() >= cfg.Match.RequiredParticipants {
		m.enterCountdown()
	} else {
		m.forceWaiting()
	}
	m.writeNet()
}

// Update advances the state machine by one tick of dt seconds. Must be
// called from the authority's simulation tick only.
func (m *Match) Update(dt float64) {
	if !m.ctx.IsAuthority() {
		return
	}

	switch m.Phase.Get() {
	case netcomponents.PhaseWaiting:
		if m.readyCount() >= cfg.Match.RequiredParticipants {
			m.enterCountdown()
		}

	case netcomponents.PhaseCountdown:
		m.countdownRemaining -= dt
		if m.countdownRemaining <= 0 {
			m.enterPlaying()
			break
		}
		if v := int(math.Ceil(m.countdownRemaining)); v != m.lastCountdownTick && v >= 1 {
			m.lastCountdownTick = v
			m.broadcast(messages.CountdownTickEvent{Value: v})
		}

	case netcomponents.PhasePlaying:
		if goal, ok := m.ball.TakeGoal(); ok {
			m.handleGoal(goal)
			break
		}
		m.roundRemaining -= dt
		if m.roundRemaining <= 0 {
			// Timeout draw: nobody scores this round.
			m.ball.Freeze()
			m.broadcast(messages.RoundEndedEvent{
				ScoringIndex: messages.NoScorer,
				Scores:       m.Scores(),
				TimedOut:     true,
			})
			m.enterRoundEnd()
		}

	case netcomponents.PhaseRoundEnd:
		m.roundEndRemaining -= dt
		if m.roundEndRemaining <= 0 {
			if winner := m.findWinner(); winner != netcomponents.NoWinner {
				m.enterEnded(winner)
			} else {
				m.enterCountdown()
			}
		}

	case netcomponents.PhaseEnded:
		// Held until an explicit restart request or roster underflow.
	}

	m.writeNet()
}

// handleGoal processes a goal-zone entry. Goals are only meaningful while
// Playing; anything else is an invariant violation recovered by ignoring
// the event.
func (m *Match) handleGoal(g Goal) {
	if m.Phase.Get() != netcomponents.PhasePlaying {
		log.Printf("[match] ignored goal notification in phase %s", m.Phase.Get())
		return
	}
	if g.ScoringIndex < 0 || g.ScoringIndex >= len(m.scores) {
		log.Printf("[match] ignored goal with out-of-roster scoring index %d", g.ScoringIndex)
		return
	}

	m.scores[g.ScoringIndex]++
	log.Printf("[match] goal for participant %d (scores %v)", g.ScoringIndex, m.scores)

	m.broadcast(messages.GoalScoredEvent{
		ScoringIndex: g.ScoringIndex,
		Scores:       m.Scores(),
		BallX:        g.X,
		BallY:        g.Y,
	})
	m.broadcast(messages.ScoreUpdateEvent{Scores: m.Scores()})
	m.broadcast(messages.RoundEndedEvent{
		ScoringIndex: g.ScoringIndex,
		Scores:       m.Scores(),
	})
	m.enterRoundEnd()
}

// findWinner scans scores in index order; the first index at or above the
// win threshold wins. With simultaneous threshold scores the lower index
// wins — an intentional, documented index-order tie-break.
func (m *Match) findWinner() int {
	for idx, score := range m.scores {
		if score >= cfg.Match.WinThreshold {
			return idx
		}
	}
	return netcomponents.NoWinner
}

func (m *Match) readyCount() int {
	n := 0
	for _, av := range m.roster {
		if av.Ready.Get() {
			n++
		}
	}
	return n
}

func (m *Match) enterCountdown() {
	// Avatars back to their spawn points, ball deactivated and frozen.
	for idx, av := range m.roster {
		if spawn, ok := m.arena.SpawnFor(idx); ok {
			av.snapTo(spawn)
		}
	}
	m.ball.Freeze()

	m.countdownRemaining = cfg.Match.CountdownSeconds
	m.lastCountdownTick = int(math.Ceil(m.countdownRemaining))
	m.Phase.Set(netcomponents.PhaseCountdown)
	if m.lastCountdownTick >= 1 {
		m.broadcast(messages.CountdownTickEvent{Value: m.lastCountdownTick})
	}
	log.Printf("[match] countdown started (%.1fs)", m.countdownRemaining)
}

func (m *Match) enterPlaying() {
	m.ball.ResetForNewRound()
	m.ball.ApplyStartingImpulse(cfg.Ball.ServeForce, m.rng)
	m.roundRemaining = cfg.Match.RoundSeconds
	m.round++
	m.Phase.Set(netcomponents.PhasePlaying)
	m.broadcast(messages.RoundStartedEvent{Round: m.round})
	log.Printf("[match] round %d started", m.round)
}

func (m *Match) enterRoundEnd() {
	m.roundEndRemaining = cfg.Match.RoundEndSeconds
	m.Phase.Set(netcomponents.PhaseRoundEnd)
}

func (m *Match) enterEnded(winner int) {
	m.Winner.Set(winner)
	m.Phase.Set(netcomponents.PhaseEnded)
	m.broadcast(messages.MatchEndedEvent{
		WinnerIndex: winner,
		Scores:      m.Scores(),
	})
	log.Printf("[match] ended, winner participant %d (scores %v)", winner, m.scores)
}

func (m *Match) forceWaiting() {
	m.ball.Freeze()
	m.Phase.Set(netcomponents.PhaseWaiting)
	log.Printf("[match] waiting for participants (%d/%d ready)",
		m.readyCount(), cfg.Match.RequiredParticipants)
}

func (m *Match) writeNet() {
	countdown := 0
	if m.Phase.Get() == netcomponents.PhaseCountdown {
		countdown = m.lastCountdownTick
	}
	remaining := 0.0
	if m.Phase.Get() == netcomponents.PhasePlaying {
		remaining = math.Max(m.roundRemaining, 0)
	}
	entry := m.world.Entry(m.entity)
	netcomponents.NetMatch.Set(entry, &netcomponents.NetMatchData{
		Phase:              m.Phase.Get(),
		Scores:             m.Scores(),
		RoundTimeRemaining: remaining,
		CountdownValue:     countdown,
		WinnerIndex:        m.Winner.Get(),
	})
}
