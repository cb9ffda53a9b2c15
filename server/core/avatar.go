package core

import (
	cfg "github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/gameconfig"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/messages"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/netcomponents"
	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/replication"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Avatar holds the authority's view of one participant. The avatar
// transform is owner-simulated: the owning client reports it each tick
// and the authority applies the report verbatim for that client's own
// avatar only. This is a deliberate, documented trust exception — the
// single-writer partition still holds because no other node writes it.
type Avatar struct {
	Entity donburi.Entity
	Object *resolv.Object

	Index *replication.Value[int]
	Ready *replication.Value[bool]

	Name         string
	VelX, VelY   float64
	Grounded     bool
	LastSequence uint32

	// Ticks remaining before roster registration; gives the entity time
	// to materialize on every node before the first lookup.
	settleTicks int
}

func newAvatar(ctx *replication.Context, world donburi.World, arena *Arena, name string) *Avatar {
	obj := resolv.NewObject(0, 0, cfg.Avatar.Width, cfg.Avatar.Height, tagAvatar)
	obj.SetShape(resolv.NewRectangle(0, 0, cfg.Avatar.Width, cfg.Avatar.Height))
	arena.Space.Add(obj)

	entity := world.Create(
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetAvatar,
	)

	a := &Avatar{
		Entity:      entity,
		Object:      obj,
		Name:        name,
		Index:       replication.NewValue(ctx, "avatar.index", netcomponents.NoParticipant),
		Ready:       replication.NewValue(ctx, "avatar.ready", false),
		settleTicks: cfg.Match.JoinSettleTicks,
	}
	a.writeNet(world)
	return a
}

// applyReport ingests the owner's trusted transform report. Stale or
// replayed sequences are dropped.
func (a *Avatar) applyReport(r messages.AvatarStateReport) {
	if r.Sequence != 0 && r.Sequence <= a.LastSequence {
		return
	}
	a.LastSequence = r.Sequence
	a.Object.X = r.X
	a.Object.Y = r.Y
	a.Object.Update()
	a.VelX = r.VelX
	a.VelY = r.VelY
	a.Grounded = r.Grounded
}

// snapTo places the avatar at a spawn point with zero velocity. Used by
// the round reset; the owning client snaps its controller the same way
// when it observes the phase change.
func (a *Avatar) snapTo(spawn arenadata.SpawnPoint) {
	a.Object.X = spawn.X
	a.Object.Y = spawn.Y
	a.Object.Update()
	a.VelX, a.VelY = 0, 0
}

func (a *Avatar) writeNet(world donburi.World) {
	entry := world.Entry(a.Entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{
		X: a.Object.X,
		Y: a.Object.Y,
	})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{
		SpeedX: a.VelX,
		SpeedY: a.VelY,
	})
	netcomponents.NetAvatar.Set(entry, &netcomponents.NetAvatarData{
		ParticipantIndex: a.Index.Get(),
		IsReady:          a.Ready.Get(),
		Grounded:         a.Grounded,
		DisplayName:      a.Name,
		LastSequence:     a.LastSequence,
	})
}

func (a *Avatar) remove(world donburi.World, arena *Arena) {
	arena.Space.Remove(a.Object)
	if world.Valid(a.Entity) {
		world.Remove(a.Entity)
	}
}
