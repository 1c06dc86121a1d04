package world

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/view"
)

// newViewArea decides a player's next full viewport and the strip of
// it that needs a fresh redraw, given where their body now is and
// what their current viewport was. A player who has drifted near the
// edge of their loaded window gets recentered along that edge only,
// so most of the window (and its change history) carries over instead
// of being redrawn from scratch.
func newViewArea(bodyPos geom.Pos, current *geom.Area) (full, redraw geom.Area) {
	core := geom.Centered(bodyPos, ViewAreaSize)
	if current == nil {
		return core, core
	}
	old := *current
	if !core.Overlaps(old) {
		return core, core
	}
	switch {
	case bodyPos.X <= old.Min.X+EdgeOffset:
		newMin := geom.New(bodyPos.X-ViewAreaSize.X/2, old.Min.Y)
		full = geom.NewArea(newMin, ViewAreaSize.X, ViewAreaSize.Y)
		redraw = geom.Between(newMin, geom.New(old.Min.X-1, old.Max.Y-1))
	case bodyPos.Y <= old.Min.Y+EdgeOffset:
		newMin := geom.New(old.Min.X, bodyPos.Y-ViewAreaSize.Y/2)
		full = geom.NewArea(newMin, ViewAreaSize.X, ViewAreaSize.Y)
		redraw = geom.Between(newMin, geom.New(old.Max.X-1, old.Min.Y-1))
	case bodyPos.X >= old.Max.X-EdgeOffset:
		newMin := geom.New(bodyPos.X-ViewAreaSize.X/2, old.Min.Y)
		full = geom.NewArea(newMin, ViewAreaSize.X, ViewAreaSize.Y)
		redraw = geom.Between(geom.New(old.Max.X, old.Min.Y), geom.New(full.Max.X-1, full.Max.Y-1))
	case bodyPos.Y >= old.Max.Y-EdgeOffset:
		newMin := geom.New(old.Min.X, bodyPos.Y-ViewAreaSize.Y/2)
		full = geom.NewArea(newMin, ViewAreaSize.X, ViewAreaSize.Y)
		redraw = geom.Between(geom.New(old.Min.X, old.Max.Y), geom.New(full.Max.X-1, full.Max.Y-1))
	default:
		full, redraw = core, core
	}
	return full, redraw
}

func inViewRange(bodyPos geom.Vec2, area geom.Area) bool {
	return int32(bodyPos.X()) > area.Min.X+EdgeOffset &&
		int32(bodyPos.X()+1) < area.Max.X-EdgeOffset &&
		int32(bodyPos.Y()) > area.Min.Y+EdgeOffset &&
		int32(bodyPos.Y()+1) < area.Max.Y-EdgeOffset
}

// View computes every connected player's update message for this tick
// and flushes the map's change set.
func (w *World) View() map[PlayerID]view.WorldMessage {
	changed := w.ground.Flush()
	var changes []view.ChangeEntry
	if len(changed) > 0 {
		changes = make([]view.ChangeEntry, 0, len(changed))
		for _, pos := range changed {
			changes = append(changes, view.ChangeEntry{Pos: pos, Sprites: w.ground.Cell(pos).Sprites()})
		}
	}

	dynamics := make([]view.CreatureView, 0, len(w.players))
	for _, p := range w.players {
		if c, ok := w.creatures.Get(p.Body); ok {
			dynamics = append(dynamics, view.CreatureView{Pos: c.Pos, Sprite: c.Sprite})
		}
	}

	out := make(map[PlayerID]view.WorldMessage, len(w.players))
	for id, player := range w.players {
		creature, ok := w.creatures.Get(player.Body)
		if !ok {
			out[id] = view.WorldMessage{}
			continue
		}
		msg := view.WorldMessage{}
		if player.ViewArea == nil || !inViewRange(creature.Pos, *player.ViewArea) {
			full, redraw := newViewArea(creature.Pos.Round(), player.ViewArea)
			old := player.ViewArea
			// LoadArea ref-counts full's chunks and resolves every cell in
			// it (with catch-up growth); the redraw strip is a subset of
			// those cells, so it's read out of the same result rather than
			// loaded again, which would double-count chunks shared between
			// old and new.
			fullCells := w.ground.LoadArea(full)
			if old != nil {
				w.ground.UnloadArea(*old)
			}
			player.ViewArea = &full
			msg.ViewArea = &view.ViewArea{Area: full}
			section := view.DrawField(redraw, fullCells)
			msg.Section = &section
		}
		if changes != nil {
			msg.Change = changes
		}
		pos := creature.Pos
		msg.Pos = &pos
		msg.Dynamics = dynamics
		inv := creature.Inventory.View()
		rows := make([]view.InventoryRow, len(inv.Entries))
		for i, e := range inv.Entries {
			rows[i] = view.InventoryRow{Name: e.Name, Count: e.Count}
		}
		msg.Inventory = &view.Inventory{Entries: rows, Selector: inv.Selector}
		if len(creature.HeardSounds) > 0 {
			sounds := make([]view.Sound, len(creature.HeardSounds))
			for i, s := range creature.HeardSounds {
				sounds[i] = view.Sound{Type: s.Type, Message: s.Message}
			}
			msg.Sounds = sounds
		}
		w.cache.Trim(string(id), &msg)
		out[id] = msg
	}
	return out
}
