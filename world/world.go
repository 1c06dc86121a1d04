// Package world runs the per-tick simulation: creature movement and
// interaction, land claims, and the view each player is sent. It is
// the orchestration layer above worldmap.Map and tile.Tile.
package world

import (
	"errors"
	"fmt"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tick"
	"github.com/jmdejong/dezl/tile"
	"github.com/jmdejong/dezl/view"
	"github.com/jmdejong/dezl/worldmap"
)

// EdgeOffset is how close to the edge of a player's loaded viewport
// their body must come before the viewport is recentered.
const EdgeOffset int32 = 32

// Claim distance rules: a new claim must be this far from spawn and
// from every other player's claim; an action with the Build policy
// flag must be within this far of the acting player's own claim.
const (
	MinClaimDistanceFromSpawn int32 = 96
	MinClaimDistanceApart     int32 = 64
	MaxBuildDistanceFromClaim int32 = 24
)

const creatureSpeed float32 = 0.15

// World is one running, simulated instance of the map: the ground, the
// connected players and their bodies, and land claims.
type World struct {
	Name      string
	Time      tick.Stamp
	ground    *worldmap.Map
	players   map[PlayerID]*Player
	creatures *Holder[Creature]
	claims    map[PlayerID]geom.Pos
	seed      uint32
	cache     *view.MessageCache
}

// New creates a fresh world with an empty player set.
func New(name string, seed uint32) *World {
	return &World{
		Name:      name,
		ground:    worldmap.NewMap(worldmap.NewInfiniteMap(seed)),
		players:   make(map[PlayerID]*Player),
		creatures: NewHolder[Creature](),
		claims:    make(map[PlayerID]geom.Pos),
		seed:      seed,
		cache:     view.NewMessageCache(),
	}
}

// DefaultPlayerSave returns a fresh save for a player who has never
// joined before, placed at the world's spawn point.
func (w *World) DefaultPlayerSave() PlayerSave {
	return NewPlayerSave(geom.FromPos(w.ground.PlayerSpawn()))
}

var (
	ErrPlayerAlreadyExists = errors.New("player already exists")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrBodyNotFound        = errors.New("player body not found")
)

// AddPlayer spawns a body for a newly joining or reconnecting player.
func (w *World) AddPlayer(id PlayerID, saved PlayerSave) error {
	if _, exists := w.players[id]; exists {
		return fmt.Errorf("%w: %s", ErrPlayerAlreadyExists, id)
	}
	body := w.creatures.Insert(LoadPlayer(id, saved))
	w.players[id] = NewPlayer(body)
	return nil
}

// RemovePlayer removes a player's session and body.
func (w *World) RemovePlayer(id PlayerID) error {
	player, ok := w.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	delete(w.players, id)
	w.creatures.Remove(player.Body)
	w.cache.Remove(string(id))
	return nil
}

// SavePlayer returns the persisted state of a connected player's body.
func (w *World) SavePlayer(id PlayerID) (PlayerSave, error) {
	player, ok := w.players[id]
	if !ok {
		return PlayerSave{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	creature, ok := w.creatures.Get(player.Body)
	if !ok {
		return PlayerSave{}, fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	return creature.Save(), nil
}

// ControlPlayer queues a control to apply on the player's body at the
// next Update.
func (w *World) ControlPlayer(id PlayerID, control Control) error {
	player, ok := w.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if control.Kind == ControlMovement {
		if m, ok := control.Movement.TryNormalize(); ok {
			player.Movement = &m
		} else {
			player.Movement = nil
		}
	}
	plan := control
	player.Plan = &plan
	return nil
}

// HasPlayer reports whether id currently has a connected session.
func (w *World) HasPlayer(id PlayerID) bool {
	_, ok := w.players[id]
	return ok
}

// ListPlayers returns every currently connected player id.
func (w *World) ListPlayers() []PlayerID {
	out := make([]PlayerID, 0, len(w.players))
	for id := range w.players {
		out = append(out, id)
	}
	return out
}

func (w *World) creaturePlan(c Creature) (Control, bool) {
	player, ok := w.players[c.Mind.PlayerID]
	if !ok {
		return Control{Kind: ControlSuicide}, true
	}
	if player.Plan == nil {
		return Control{}, false
	}
	return *player.Plan, true
}

func (w *World) blocked(pos geom.Vec2) bool {
	return w.ground.Cell(pos.Round()).Blocking()
}

// updateCreatures applies one tick of movement and action resolution
// to every creature, then clears every player's pending plan.
func (w *World) updateCreatures() {
	plans := make(map[int]Control)
	w.creatures.Each(func(id int, c Creature) {
		if c.Cooldown > 0 {
			return
		}
		if plan, ok := w.creaturePlan(c); ok {
			plans[id] = plan
		}
	})
	for _, id := range w.creatures.Keys() {
		creature, _ := w.creatures.Get(id)
		creature.HeardSounds = nil
		if creature.Cooldown > 0 {
			creature.Cooldown--
			w.creatures.Set(id, creature)
			continue
		}
		if player, ok := w.players[creature.Mind.PlayerID]; ok && player.Movement != nil {
			delta := player.Movement.Scale(creatureSpeed)
			newPos := creature.Pos.Add(delta)
			if !w.blocked(newPos) {
				creature.Pos = newPos
			}
		}
		plan, ok := plans[id]
		if ok {
			switch plan.Kind {
			case ControlMove:
				creature.Cooldown = creature.WalkCooldown
				offset := geom.FromPos(geom.New(0, 0).Add(plan.Direction.Offset()))
				creature.Pos = creature.Pos.Add(offset.Scale(0.5))
			case ControlMovement:
				// consumed above; nothing further to do this tick
			case ControlSuicide:
				creature.Kill()
			case ControlSelect:
				creature.Inventory.Select(plan.Selector)
			case ControlMoveSelected:
				creature.Inventory.MoveSelected(plan.Selector)
			case ControlInteract:
				w.interact(&creature, plan)
			}
		}
		w.creatures.Set(id, creature)
	}
	for _, player := range w.players {
		player.Plan = nil
	}
	for _, id := range w.creatures.Keys() {
		if c, ok := w.creatures.Get(id); ok && c.Dead() {
			w.creatures.Remove(id)
		}
	}
}

// interact resolves the creature's selected item against the tile it
// is facing (or standing on, if no direction is given), applying
// land-claim and build-distance policy on top of the tile's own
// interaction result.
func (w *World) interact(creature *Creature, control Control) {
	pos := creature.Pos.Round()
	if control.HasDirection {
		pos = pos.Add(control.Direction.Offset())
	}
	t := w.ground.Cell(pos)
	item := creature.Inventory.Selected()
	action, ok := item.Action()
	if !ok {
		return
	}
	result, ok := t.Act(action, item, w.Time)
	if !ok {
		return
	}
	playerID := creature.Mind.PlayerID
	if result.Claim {
		if _, exists := w.claims[playerID]; exists {
			w.hear(creature, tile.SoundFail, "Only one claim per player allowed")
			return
		}
		for _, other := range w.claims {
			if pos.DistanceTo(other) < MinClaimDistanceApart {
				w.hear(creature, tile.SoundFail, "Too close to existing claim")
				return
			}
		}
		if pos.DistanceTo(w.ground.PlayerSpawn()) < MinClaimDistanceFromSpawn {
			w.hear(creature, tile.SoundFail, "Too close to spawn")
			return
		}
	}
	if result.Build {
		claimPos, exists := w.claims[playerID]
		if !exists {
			w.hear(creature, tile.SoundFail, "Need land claim to build")
			return
		}
		if pos.DistanceTo(claimPos) > MaxBuildDistanceFromClaim {
			w.hear(creature, tile.SoundFail, "Too far from land claim to build")
			return
		}
	}
	if !creature.Inventory.Pay(result.Cost) {
		w.hear(creature, tile.SoundFail, "Not enough materials")
		return
	}
	for _, it := range result.Items {
		creature.Inventory.Add(it)
	}
	if result.HasRemains || result.HasRemainsGround {
		next := t
		if result.HasRemains {
			next.Structure = result.Remains
		}
		if result.HasRemainsGround {
			next.Ground = result.RemainsGround
		}
		w.ground.SetCell(pos, next)
	}
	if result.Claim {
		w.claims[playerID] = pos
	}
	if result.HasMessage {
		w.hear(creature, result.SoundType, result.Message)
	}
}

func (w *World) hear(creature *Creature, t tile.SoundType, message string) {
	creature.HeardSounds = append(creature.HeardSounds, HeardSound{Type: t, Message: message})
}

// Update advances the simulation by one tick: creature actions, then
// map random-ticks over every loaded viewport, then the clock.
func (w *World) Update() {
	w.updateCreatures()
	w.ground.Tick(w.Time)
	w.Time = w.Time.Increment()
}
