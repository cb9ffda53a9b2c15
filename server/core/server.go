package core

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/messages"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Server is the authoritative node: it owns the canonical simulation and
// replicates it to participants. Router callbacks run on necs goroutines
// and only enqueue work under mu; all world, match and ball mutation
// happens on the game loop goroutine, keeping every replicated datum
// single-writer without runtime arbitration.
type Server struct {
	ctx       *replication.Context
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport

	name      string
	version   string
	arena     *Arena
	arenaName string

	ball  *Ball
	match *Match
	rng   *rand.Rand

	mu      sync.Mutex
	avatars map[*router.NetworkClient]*Avatar
	inbox   []inboundMessage
}

type inboundMessage struct {
	client  *router.NetworkClient
	payload any
}

// NewServer creates a game server for one arena.
func NewServer(ctx *replication.Context, tickRate int, name, version string, arena *Arena, arenaName string) *Server {
	world := donburi.NewWorld()

	s := &Server{
		ctx:       ctx,
		world:     world,
		name:      name,
		version:   version,
		arena:     arena,
		arenaName: arenaName,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		avatars:   make(map[*router.NetworkClient]*Avatar),
	}
	s.loop = NewGameLoop(s, tickRate)

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.ball = NewBall(ctx, world, arena)
	s.ball.SetTouchResolver(s.participantFor)
	s.match = NewMatch(ctx, world, arena, s.ball, s.rng, s.broadcastEvent)

	ballEntity := s.ball.Entity()
	if err := srvsync.NetworkSync(world, &ballEntity, netcomponents.NetBall); err != nil {
		log.Printf("[server] failed to set up ball sync: %v", err)
	}
	matchEntity := s.match.Entity()
	if err := srvsync.NetworkSync(world, &matchEntity, netcomponents.NetMatch); err != nil {
		log.Printf("[server] failed to set up match sync: %v", err)
	}

	s.setupRouterCallbacks()

	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// Match returns the round state machine.
func (s *Server) Match() *Match {
	return s.match
}

// PlayerCount returns the number of connected participants
func (s *Server) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.avatars)
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		// Nothing materializes until the join handshake.
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[server] client %s disconnected", client.Id())
		}
		s.enqueue(client, disconnectNotice{})
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.AvatarStateReport) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.BallImpulseRequest) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.DashPerformedEvent) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.RestartRequest) {
		s.enqueue(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

// disconnectNotice marks a disconnect in the inbox so it is processed in
// arrival order relative to the client's other messages.
type disconnectNotice struct{}

func (s *Server) enqueue(client *router.NetworkClient, payload any) {
	s.mu.Lock()
	s.inbox = append(s.inbox, inboundMessage{client: client, payload: payload})
	s.mu.Unlock()
}

// step advances the simulation by one server tick of dt seconds.
func (s *Server) step(dt float64) {
	s.mu.Lock()
	inbox := s.inbox
	s.inbox = nil
	s.mu.Unlock()

	for _, msg := range inbox {
		s.dispatch(msg)
	}

	s.settlePendingJoins()

	// Sub-stepped ball physics: the tuning constants assume 60 Hz, the
	// server ticks slower.
	stepsPerTick := 60 / s.loop.tickRate
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	for i := 0; i < stepsPerTick; i++ {
		s.ball.Step()
	}

	s.match.Update(dt)

	s.ball.writeNet()
	s.mu.Lock()
	for _, av := range s.avatars {
		av.writeNet(s.world)
	}
	s.mu.Unlock()
}

func (s *Server) dispatch(msg inboundMessage) {
	switch payload := msg.payload.(type) {
	case messages.JoinRequest:
		s.handleJoin(msg.client, payload)
	case disconnectNotice:
		s.handleLeave(msg.client)
	case messages.AvatarStateReport:
		if av := s.avatarFor(msg.client); av != nil {
			// Trusted owner transform; applies to the sender's avatar only.
			av.applyReport(payload)
		}
	case messages.BallImpulseRequest:
		if av := s.avatarFor(msg.client); av != nil {
			s.ball.ApplyImpulse(payload.ImpulseX, payload.ImpulseY, av.Index.Get())
		}
	case messages.DashPerformedEvent:
		if av := s.avatarFor(msg.client); av != nil {
			// Cosmetic relay only; the mover already applied the dash
			// locally. The claimed index is replaced with the sender's.
			payload.ParticipantIndex = av.Index.Get()
			s.broadcastExcept(msg.client, payload)
		}
	case messages.RestartRequest:
		if s.avatarFor(msg.client) != nil {
			log.Printf("[server] restart requested by %s", msg.client.Id())
			s.match.RequestRestart()
		}
	}
}

func (s *Server) handleJoin(client *router.NetworkClient, req messages.JoinRequest) {
	if s.version != "" && req.Version != s.version {
		s.send(client, messages.JoinRejected{Reason: "version mismatch, server requires " + s.version})
		return
	}
	if s.avatarFor(client) != nil {
		s.send(client, messages.JoinRejected{Reason: "already joined"})
		return
	}

	avatar := newAvatar(s.ctx, s.world, s.arena, req.PlayerName)
	index, err := s.match.AssignSlot(avatar)
	if err != nil {
		avatar.remove(s.world, s.arena)
		s.send(client, messages.JoinRejected{Reason: "match is full"})
		return
	}

	entity := avatar.Entity
	if err := srvsync.NetworkSync(s.world, &entity,
		srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
		netcomponents.NetAvatar,
	); err != nil {
		log.Printf("[server] failed to set up avatar sync: %v", err)
		s.match.RemoveParticipant(avatar)
		avatar.remove(s.world, s.arena)
		s.send(client, messages.JoinRejected{Reason: "internal error"})
		return
	}

	s.mu.Lock()
	s.avatars[client] = avatar
	s.mu.Unlock()

	var networkID esync.NetworkId
	if nid := esync.GetNetworkId(s.world.Entry(avatar.Entity)); nid != nil {
		networkID = *nid
	}
	s.send(client, messages.JoinAccepted{
		NetworkID:        networkID,
		ParticipantIndex: index,
		ServerName:       s.name,
		TickRate:         s.loop.tickRate,
		Arena:            s.arenaName,
	})
	log.Printf("[server] participant %d (%s) joined as client %s", index, req.PlayerName, client.Id())
}

func (s *Server) handleLeave(client *router.NetworkClient) {
	s.mu.Lock()
	avatar, ok := s.avatars[client]
	if ok {
		delete(s.avatars, client)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.match.RemoveParticipant(avatar)
	avatar.remove(s.world, s.arena)
}

// settlePendingJoins promotes joined avatars to ready once their settle
// window elapses, giving the entity time to materialize on every node
// before the roster counts it.
func (s *Server) settlePendingJoins() {
	s.mu.Lock()
	pending := make([]*Avatar, 0, len(s.avatars))
	for _, av := range s.avatars {
		if !av.Ready.Get() {
			pending = append(pending, av)
		}
	}
	s.mu.Unlock()

	for _, av := range pending {
		if av.settleTicks > 0 {
			av.settleTicks--
			continue
		}
		s.match.MarkReady(av)
	}
}

// avatarFor resolves the sender's avatar, if it has joined.
func (s *Server) avatarFor(client *router.NetworkClient) *Avatar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avatars[client]
}

// participantFor maps a resolv body back to a participant index for ball
// touch attribution.
func (s *Server) participantFor(obj *resolv.Object) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, av := range s.avatars {
		if av.Object == obj {
			return av.Index.Get(), true
		}
	}
	return netcomponents.NoParticipant, false
}

func (s *Server) send(client *router.NetworkClient, msg any) {
	if err := client.SendMessage(msg); err != nil {
		log.Printf("[server] send to %s failed: %v", client.Id(), err)
	}
}

// broadcastEvent delivers a transient event to every connected client.
func (s *Server) broadcastEvent(msg any) {
	s.broadcastExcept(nil, msg)
}

func (s *Server) broadcastExcept(skip *router.NetworkClient, msg any) {
	s.mu.Lock()
	clients := make([]*router.NetworkClient, 0, len(s.avatars))
	for client := range s.avatars {
		if client != skip {
			clients = append(clients, client)
		}
	}
	s.mu.Unlock()

	for _, client := range clients {
		s.send(client, msg)
	}
}
