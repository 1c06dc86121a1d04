package worldmap

import (
	"golang.org/x/exp/maps"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/noise"
	"github.com/jmdejong/dezl/tick"
	"github.com/jmdejong/dezl/tile"
)

// change is one sparse diff entry: the tile currently at a position,
// and the tick it was set at (used as the clock a structure's Grow
// timer counts from).
type change struct {
	tile tile.Tile
	at   tick.Stamp
}

// chunkPos identifies one ChunkSize x ChunkSize block of the world,
// the unit the random-tick schedule and the loaded-area reference
// count both operate on.
type chunkPos struct{ x, y int32 }

func chunkOf(pos geom.Pos) chunkPos {
	c := pos.Div(ChunkSize)
	return chunkPos{c.X, c.Y}
}

func (c chunkPos) origin() geom.Pos {
	return geom.New(c.x, c.y).Scale(ChunkSize)
}

// Map is the mutable world surface: a stateless procedural BaseMap
// overlaid with a sparse map of positions that differ from it. Only
// positions that have ever been written carry any memory cost; reading
// an unwritten position always falls through to the base generator.
type Map struct {
	base    BaseMap
	changes map[geom.Pos]change
	// modifications is the set of positions changed since the last
	// Flush, for the view differ to pick up.
	modifications map[geom.Pos]bool
	// loadedChunks reference-counts how many viewports currently cover
	// each chunk, so a chunk stays scheduled for random ticks as long
	// as at least one player can see it.
	loadedChunks map[chunkPos]int
	now          tick.Stamp
}

func NewMap(base BaseMap) *Map {
	return &Map{
		base:          base,
		changes:       make(map[geom.Pos]change),
		modifications: make(map[geom.Pos]bool),
		loadedChunks:  make(map[chunkPos]int),
	}
}

func (m *Map) Now() tick.Stamp { return m.now }

// SetNow restores the map's clock after loading a save, without
// running the random-tick schedule (unlike Tick).
func (m *Map) SetNow(now tick.Stamp) { m.now = now }

// Cell returns the effective tile at pos: the overlay change if one
// exists, else the procedurally generated base tile.
func (m *Map) Cell(pos geom.Pos) tile.Tile {
	if c, ok := m.changes[pos]; ok {
		return c.tile
	}
	return m.base.Cell(pos, m.now)
}

// SetCell overwrites the tile at pos. If the new tile equals the base
// generator's tile, the change entry is removed instead of stored
// ("restoration"): changes never needs to remember positions that have
// returned to their natural state.
func (m *Map) SetCell(pos geom.Pos, t tile.Tile) {
	if t == m.base.Cell(pos, m.now) {
		delete(m.changes, pos)
	} else {
		m.changes[pos] = change{tile: t, at: m.now}
	}
	m.modifications[pos] = true
}

// PlayerSpawn delegates to the base generator.
func (m *Map) PlayerSpawn() geom.Pos {
	return m.base.PlayerSpawn()
}

// LoadArea marks every chunk overlapping area as loaded (incrementing
// its viewport reference count) and resolves every position the
// caller is about to draw, applying any growth the position missed
// while no viewport covered its chunk. This makes re-entering a
// viewport idempotent: a position's growth state always reflects how
// many random-tick ages it has actually accumulated, regardless of
// whether anyone was watching in between.
func (m *Map) LoadArea(area geom.Area) map[geom.Pos]tile.Tile {
	seen := make(map[chunkPos]bool)
	area.Iter(func(pos geom.Pos) bool {
		c := chunkOf(pos)
		if !seen[c] {
			seen[c] = true
			m.loadedChunks[c]++
		}
		return true
	})
	result := make(map[geom.Pos]tile.Tile, area.Size())
	area.Iter(func(pos geom.Pos) bool {
		m.catchUp(pos)
		result[pos] = m.Cell(pos)
		return true
	})
	return result
}

// UnloadArea decrements the viewport reference count of every chunk
// area covers; a chunk stops receiving random ticks once its count
// reaches zero.
func (m *Map) UnloadArea(area geom.Area) {
	seen := make(map[chunkPos]bool)
	area.Iter(func(pos geom.Pos) bool {
		c := chunkOf(pos)
		if seen[c] {
			return true
		}
		seen[c] = true
		if m.loadedChunks[c] > 0 {
			m.loadedChunks[c]--
			if m.loadedChunks[c] == 0 {
				delete(m.loadedChunks, c)
			}
		}
		return true
	})
}

// catchUp applies every growth step pos's current tile is due for
// given the random-tick ages that have passed since its change entry
// was recorded, without requiring pos to have been visited by the
// per-tick schedule in between.
func (m *Map) catchUp(pos geom.Pos) {
	for i := 0; i < 64; i++ { // bounded: a single catch-up can't grow forever
		if !m.stepGrowth(pos) {
			return
		}
	}
}

// stepGrowth applies one growth transition at pos if due, returning
// whether it did (so catchUp can keep applying chained growth, e.g.
// seed -> seedling -> young plant across one big catch-up).
func (m *Map) stepGrowth(pos geom.Pos) bool {
	current := m.Cell(pos)
	ticksNeeded, into, spread, hasSpread, ok := current.Grow()
	if !ok {
		return false
	}
	entry, hasEntry := m.changes[pos]
	since := tick.Stamp(0)
	if hasEntry {
		since = entry.at
	}
	if TickNum(pos, m.now)-TickNum(pos, since) < ticksNeeded {
		return false
	}
	m.SetCell(pos, tile.Tile{Ground: current.Ground, Structure: into})
	if c, stored := m.changes[pos]; stored {
		// Date the new stage from when it became due rather than now, so
		// a following stage that is also due grows in the same catch-up.
		c.at = since + tick.Stamp(ticksNeeded*ChunkArea)
		m.changes[pos] = c
	}
	if hasSpread {
		m.trySpread(pos, spread)
	}
	return true
}

// trySpread writes a secondary structure (e.g. a fertilized crop's
// shoot) into one of pos's cardinal neighbours, chosen deterministically
// from pos. It only succeeds onto an open neighbour tile, or joins
// (inosculates) with a compatible structure already growing there.
func (m *Map) trySpread(pos geom.Pos, spread tile.Structure) {
	dirs := geom.Directions()
	dir := dirs[noise.RandomizePos(pos)%uint32(len(dirs))]
	target := pos.Add(dir.Offset())
	targetTile := m.Cell(target)
	if targetTile.Structure.IsOpen() {
		m.SetCell(target, tile.Tile{Ground: targetTile.Ground, Structure: spread})
		return
	}
	if joined, ok := targetTile.Structure.Joined(spread); ok {
		m.SetCell(target, tile.Tile{Ground: targetTile.Ground, Structure: joined})
	}
}

// Tick sets the map's clock to now and runs the random-tick
// schedule: every loaded chunk has exactly one of its cells visited,
// chosen by the bijective TickPosition permutation so that every cell
// in a continuously-loaded chunk gets visited once every ChunkArea
// ticks.
func (m *Map) Tick(now tick.Stamp) {
	m.now = now
	offset := TickPosition(now)
	for c := range m.loadedChunks {
		pos := c.origin().Add(offset)
		m.tickOne(pos)
	}
}

// tickOne is the random-tick visit to a single position. A position
// with an overlay entry catches up on any growth it's due, then gets
// reclaimed back to the base map ("restoration") once its structure has
// opened up and its ground either is naturally restoring (e.g. cleared
// to Dirt) or already matches the base ground again. A position with no
// overlay entry has nothing to grow, but the base generator itself can
// still drift a slow-changing feature (field flowers, lake reeds,
// forest density) under it between visits, so that case is checked
// against what the base map looked like at this position's last
// scheduled visit, one ChunkArea ago.
func (m *Map) tickOne(pos geom.Pos) {
	base := m.base.Cell(pos, m.now)
	if _, hasEntry := m.changes[pos]; !hasEntry {
		lastTick := m.now - tick.Stamp(ChunkArea)
		if m.base.Cell(pos, lastTick) != base {
			m.modifications[pos] = true
		}
		return
	}
	m.catchUp(pos)
	entry, hasEntry := m.changes[pos]
	if !hasEntry {
		return // growth already pruned this entry back to the base tile
	}
	built := entry.tile
	if built.Structure.IsOpen() && base.Structure.IsOpen() &&
		(built.Ground.Restoring() || built.Ground == base.Ground) {
		m.modifications[pos] = true
		delete(m.changes, pos)
	}
}

// Flush returns the set of positions changed since the last Flush and
// clears it.
func (m *Map) Flush() []geom.Pos {
	out := maps.Keys(m.modifications)
	m.modifications = make(map[geom.Pos]bool)
	return out
}

// ChangeSave is one persisted overlay entry: the position, the tile
// that was written there, and the tick it was set at (so a loaded
// world's growth timers resume from the right point rather than
// restarting).
type ChangeSave struct {
	Pos  geom.Pos
	Tile tile.Tile
	At   tick.Stamp
}

// Save returns every overlay entry, in no particular order. Only the
// sparse diff is persisted; the procedural base map is regenerated
// from its seed on load.
func (m *Map) Save() []ChangeSave {
	out := make([]ChangeSave, 0, len(m.changes))
	for pos, c := range m.changes {
		out = append(out, ChangeSave{Pos: pos, Tile: c.tile, At: c.at})
	}
	return out
}

// LoadChanges restores a previously saved overlay onto a freshly
// created Map. Loaded chunks and the dirty set both start empty: the
// first LoadArea call for each connecting player repopulates them.
func (m *Map) LoadChanges(saved []ChangeSave) {
	for _, c := range saved {
		m.changes[c.Pos] = change{tile: c.Tile, at: c.At}
	}
}
