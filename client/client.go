// Package client implements the participant/observer side: connection and
// join handshake, snapshot ingestion into a replicated state view, the
// owner-local avatar controller, and presentation effect tasks.
package client

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateJoinedMatch
	StateError
)

// Client manages a WebSocket connection to the arena server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state            ConnState
	lastError        error
	networkID        esync.NetworkId
	participantIndex int
	serverName       string
	tickRate         int
	arena            string
	conn             *websocket.Conn

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	goalCh      chan messages.GoalScoredEvent
	countdownCh chan messages.CountdownTickEvent
	roundStart  chan messages.RoundStartedEvent
	roundEnd    chan messages.RoundEndedEvent
	matchEnd    chan messages.MatchEndedEvent
	scoreCh     chan messages.ScoreUpdateEvent
	dashCh      chan messages.DashPerformedEvent
}

func NewClient() *Client {
	return &Client{
		state:       StateDisconnected,
		snapshotCh:  make(chan esync.WorldSnapshot, 1),
		goalCh:      make(chan messages.GoalScoredEvent, 4),
		countdownCh: make(chan messages.CountdownTickEvent, 4),
		roundStart:  make(chan messages.RoundStartedEvent, 4),
		roundEnd:    make(chan messages.RoundEndedEvent, 4),
		matchEnd:    make(chan messages.MatchEndedEvent, 4),
		scoreCh:     make(chan messages.ScoreUpdateEvent, 4),
		dashCh:      make(chan messages.DashPerformedEvent, 8),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		payload, err := router.Serialize(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to serialize join request: %w", err))
			return
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn != nil {
			if err := conn.Write(context.Background(), websocket.MessageBinary, payload); err != nil {
				c.setError(fmt.Errorf("failed to send join request: %w", err))
			}
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: networkID=%d participant=%d server=%s tickRate=%d",
			msg.NetworkID, msg.ParticipantIndex, msg.ServerName, msg.TickRate)
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.participantIndex = msg.ParticipantIndex
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.arena = msg.Arena
		c.state = StateJoinedMatch
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.GoalScoredEvent) {
		pushEvent(c.goalCh, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.CountdownTickEvent) {
		pushEvent(c.countdownCh, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.RoundStartedEvent) {
		pushEvent(c.roundStart, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.RoundEndedEvent) {
		pushEvent(c.roundEnd, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.MatchEndedEvent) {
		pushEvent(c.matchEnd, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.ScoreUpdateEvent) {
		pushEvent(c.scoreCh, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.DashPerformedEvent) {
		pushEvent(c.dashCh, evt)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

// ParticipantIndex returns the slot assigned by the authority.
func (c *Client) ParticipantIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.participantIndex
}

func (c *Client) Arena() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.arena
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// SendReport sends this node's avatar transform to the authority.
func (c *Client) SendReport(report messages.AvatarStateReport) error {
	return c.SendMessage(report)
}

// SendDash notifies the authority of a locally performed dash for relay.
func (c *Client) SendDash(evt messages.DashPerformedEvent) error {
	return c.SendMessage(evt)
}

// SendBallImpulse relays a locally computed ball impact to the authority,
// the only node permitted to apply it.
func (c *Client) SendBallImpulse(req messages.BallImpulseRequest) error {
	return c.SendMessage(req)
}

// RequestRestart asks the authority to restart a finished match.
func (c *Client) RequestRestart() error {
	return c.SendMessage(messages.RestartRequest{})
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainGoalEvents returns all pending goal events, non-blocking.
func (c *Client) DrainGoalEvents() []messages.GoalScoredEvent {
	return drainChan(c.goalCh)
}

// DrainCountdownTicks returns all pending countdown ticks, non-blocking.
func (c *Client) DrainCountdownTicks() []messages.CountdownTickEvent {
	return drainChan(c.countdownCh)
}

// DrainRoundStartEvents returns all pending round-start events, non-blocking.
func (c *Client) DrainRoundStartEvents() []messages.RoundStartedEvent {
	return drainChan(c.roundStart)
}

// DrainRoundEndEvents returns all pending round-end events, non-blocking.
func (c *Client) DrainRoundEndEvents() []messages.RoundEndedEvent {
	return drainChan(c.roundEnd)
}

// DrainMatchEndEvents returns all pending match-end events, non-blocking.
func (c *Client) DrainMatchEndEvents() []messages.MatchEndedEvent {
	return drainChan(c.matchEnd)
}

// DrainScoreUpdates returns all pending score updates, non-blocking.
func (c *Client) DrainScoreUpdates() []messages.ScoreUpdateEvent {
	return drainChan(c.scoreCh)
}

// DrainDashEvents returns all pending relayed dash events, non-blocking.
func (c *Client) DrainDashEvents() []messages.DashPerformedEvent {
	return drainChan(c.dashCh)
}

func pushEvent[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
