package world

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tick"
	"github.com/jmdejong/dezl/view"
	"github.com/jmdejong/dezl/worldmap"
)

// Save is the persisted representation of a World: everything needed
// to recreate it except connected player sessions, which are dropped
// on save and rebuilt as players reconnect.
type Save struct {
	Name   string
	Time   tick.Stamp
	Ground []worldmap.ChangeSave
	Claims map[PlayerID]geom.Pos
	Seed   uint32
}

// Save snapshots the world for persistence.
func (w *World) Save() Save {
	return Save{
		Name:   w.Name,
		Time:   w.Time,
		Ground: w.ground.Save(),
		Claims: w.claims,
		Seed:   w.seed,
	}
}

// Load rebuilds a World from a previous Save. No players are
// connected initially; each reconnects via AddPlayer with their own
// saved body.
func Load(saved Save) *World {
	base := worldmap.NewInfiniteMap(saved.Seed)
	ground := worldmap.NewMap(base)
	ground.LoadChanges(saved.Ground)
	ground.SetNow(saved.Time)
	claims := saved.Claims
	if claims == nil {
		claims = make(map[PlayerID]geom.Pos)
	}
	return &World{
		Name:      saved.Name,
		Time:      saved.Time,
		ground:    ground,
		players:   make(map[PlayerID]*Player),
		creatures: NewHolder[Creature](),
		claims:    claims,
		seed:      saved.Seed,
		cache:     view.NewMessageCache(),
	}
}
