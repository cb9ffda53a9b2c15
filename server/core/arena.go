package core

import (
	"fmt"
	"log"
	"os"

	"github.com/Rui-Duarte-Oliveira/arenaball-mp/shared/arenadata"
	"github.com/solarlune/resolv"
)

// resolv collision tags used by the authoritative simulation.
const (
	tagSolid  = "solid"
	tagAvatar = "avatar"
	tagBall   = "ball"
	tagGoal   = "goal"
)

// Arena holds the authority's collision space, spawn data and goal zones
// for one arena.
type Arena struct {
	Space       *resolv.Space
	SpawnPoints []arenadata.SpawnPoint
	GoalZones   []*GoalZone
	BallSpawn   arenadata.Point
	MapWidth    int
	MapHeight   int

	zonesByObject map[*resolv.Object]*GoalZone
}

// NewArena builds a resolv.Space from parsed arena data.
func NewArena(data *arenadata.ArenaData) *Arena {
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, 16, 16)

	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}

	arena := &Arena{
		Space:         space,
		SpawnPoints:   data.SpawnPoints,
		BallSpawn:     data.BallSpawn,
		MapWidth:      data.MapWidth,
		MapHeight:     data.MapHeight,
		zonesByObject: make(map[*resolv.Object]*GoalZone, len(data.GoalZones)),
	}

	for _, g := range data.GoalZones {
		zone := newGoalZone(g)
		space.Add(zone.Object)
		arena.GoalZones = append(arena.GoalZones, zone)
		arena.zonesByObject[zone.Object] = zone
	}

	log.Printf("[arena] loaded: %d solid tiles, %d spawn points, %d goal zones, %dx%d map",
		len(data.SolidRects), len(data.SpawnPoints), len(data.GoalZones), data.MapWidth, data.MapHeight)

	return arena
}

// ZoneFor maps a resolv object back to its goal zone.
func (a *Arena) ZoneFor(obj *resolv.Object) (*GoalZone, bool) {
	zone, ok := a.zonesByObject[obj]
	return zone, ok
}

// SpawnFor returns the spawn point for a participant index.
func (a *Arena) SpawnFor(index int) (arenadata.SpawnPoint, bool) {
	for _, sp := range a.SpawnPoints {
		if sp.Index == index {
			return sp, true
		}
	}
	return arenadata.SpawnPoint{}, false
}

// LoadAllArenas loads all .tmx arenas from the given assets directory,
// returning a map of Arena keyed by stem name plus a sorted name list.
func LoadAllArenas(assetsDir string) (map[string]*Arena, []string, error) {
	dataMap, names, err := arenadata.LoadAllArenas(os.DirFS(assetsDir), "arenas")
	if err != nil {
		return nil, nil, fmt.Errorf("load all arenas: %w", err)
	}

	arenas := make(map[string]*Arena, len(names))
	for _, name := range names {
		arenas[name] = NewArena(dataMap[name])
	}

	return arenas, names, nil
}
