package client

import (
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// StateView is this node's replicated mirror of the authoritative world.
// Snapshot ingestion rebuilds the entity set and feeds the replicated
// cells through their observer path, so re-delivered values from full
// snapshots collapse into a single notification per actual change.
type StateView struct {
	World      donburi.World
	presentIDs map[esync.NetworkId]bool

	localID esync.NetworkId

	Phase         *replication.Value[netcomponents.MatchPhase]
	Winner        *replication.Value[int]
	Scores        *replication.Value[[2]int]
	BallActive    *replication.Value[bool]
	BallLastTouch *replication.Value[int]
}

// NewStateView creates an observer-side view. ctx must be a participant
// context: the cells accept writes only through ApplyRemote.
func NewStateView(ctx *replication.Context) *StateView {
	return &StateView{
		World:         donburi.NewWorld(),
		presentIDs:    make(map[esync.NetworkId]bool),
		Phase:         replication.NewValue(ctx, "match.phase", netcomponents.PhaseWaiting),
		Winner:        replication.NewValue(ctx, "match.winner", netcomponents.NoWinner),
		Scores:        replication.NewValue(ctx, "match.scores", [2]int{}),
		BallActive:    replication.NewValue(ctx, "ball.active", false),
		BallLastTouch: replication.NewValue(ctx, "ball.lastTouch", netcomponents.NoParticipant),
	}
}

// SetLocalID marks which networked entity is this node's own avatar.
// Its transform is owned locally and never overwritten from snapshots.
func (sv *StateView) SetLocalID(id esync.NetworkId) {
	sv.localID = id
}

// ApplySnapshot replaces the view's entity state with a full world
// snapshot: present entities are created or updated, absent ones removed.
func (sv *StateView) ApplySnapshot(snapshot esync.WorldSnapshot) {
	world := sv.World

	clear(sv.presentIDs)

	for _, ent := range snapshot {
		sv.presentIDs[ent.Id] = true

		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			compData = append(compData, instance)
		}

		entity := esync.FindByNetworkId(world, ent.Id)
		if !world.Valid(entity) {
			ctypes := componentTypesFromInstances(compData)
			entity = world.Create(ctypes...)

			entry := world.Entry(entity)
			entry.AddComponent(esync.NetworkIdComponent)
			esync.NetworkIdComponent.SetValue(entry, ent.Id)
		}

		entry := world.Entry(entity)
		local := ent.Id == sv.localID && sv.localID != 0

		for _, data := range compData {
			switch v := data.(type) {
			case netcomponents.NetPositionData, netcomponents.NetVelocityData:
				// The local avatar's transform belongs to this node;
				// snapshots only echo what it reported.
				if local {
					continue
				}
				applyComponentToEntry(entry, data)
			case netcomponents.NetBallData:
				applyComponentToEntry(entry, data)
				sv.BallActive.ApplyRemote(v.Active)
				sv.BallLastTouch.ApplyRemote(v.LastTouch)
			case netcomponents.NetMatchData:
				applyComponentToEntry(entry, data)
				sv.Phase.ApplyRemote(v.Phase)
				sv.Winner.ApplyRemote(v.WinnerIndex)
				var scores [2]int
				copy(scores[:], v.Scores)
				sv.Scores.ApplyRemote(scores)
			default:
				applyComponentToEntry(entry, data)
			}
		}
	}

	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !sv.presentIDs[*id] {
			entry.Remove()
		}
	})
}

// AvatarEntry returns the entry for the avatar at a participant slot, or nil.
func (sv *StateView) AvatarEntry(participantIndex int) *donburi.Entry {
	var found *donburi.Entry
	esync.NetworkEntityQuery.Each(sv.World, func(entry *donburi.Entry) {
		if found != nil || !entry.HasComponent(netcomponents.NetAvatar) {
			return
		}
		if netcomponents.NetAvatar.Get(entry).ParticipantIndex == participantIndex {
			found = entry
		}
	})
	return found
}

// BallEntry returns the entry for the replicated ball, or nil.
func (sv *StateView) BallEntry() *donburi.Entry {
	var found *donburi.Entry
	esync.NetworkEntityQuery.Each(sv.World, func(entry *donburi.Entry) {
		if found == nil && entry.HasComponent(netcomponents.NetBall) {
			found = entry
		}
	})
	return found
}

// MatchEntry returns the entry for the replicated match state, or nil.
func (sv *StateView) MatchEntry() *donburi.Entry {
	var found *donburi.Entry
	esync.NetworkEntityQuery.Each(sv.World, func(entry *donburi.Entry) {
		if found == nil && entry.HasComponent(netcomponents.NetMatch) {
			found = entry
		}
	})
	return found
}

func componentTypesFromInstances(components []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range components {
		switch data.(type) {
		case netcomponents.NetPositionData:
			ctypes = append(ctypes, netcomponents.NetPosition)
		case netcomponents.NetVelocityData:
			ctypes = append(ctypes, netcomponents.NetVelocity)
		case netcomponents.NetAvatarData:
			ctypes = append(ctypes, netcomponents.NetAvatar)
		case netcomponents.NetBallData:
			ctypes = append(ctypes, netcomponents.NetBall)
		case netcomponents.NetMatchData:
			ctypes = append(ctypes, netcomponents.NetMatch)
		}
	}
	return ctypes
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetPositionData:
		if !entry.HasComponent(netcomponents.NetPosition) {
			entry.AddComponent(netcomponents.NetPosition)
		}
		netcomponents.NetPosition.SetValue(entry, v)
	case netcomponents.NetVelocityData:
		if !entry.HasComponent(netcomponents.NetVelocity) {
			entry.AddComponent(netcomponents.NetVelocity)
		}
		netcomponents.NetVelocity.SetValue(entry, v)
	case netcomponents.NetAvatarData:
		if !entry.HasComponent(netcomponents.NetAvatar) {
			entry.AddComponent(netcomponents.NetAvatar)
		}
		netcomponents.NetAvatar.SetValue(entry, v)
	case netcomponents.NetBallData:
		if !entry.HasComponent(netcomponents.NetBall) {
			entry.AddComponent(netcomponents.NetBall)
		}
		netcomponents.NetBall.SetValue(entry, v)
	case netcomponents.NetMatchData:
		if !entry.HasComponent(netcomponents.NetMatch) {
			entry.AddComponent(netcomponents.NetMatch)
		}
		netcomponents.NetMatch.SetValue(entry, v)
	}
}
