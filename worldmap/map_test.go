package worldmap

import (
	"testing"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tick"
	"github.com/jmdejong/dezl/tile"
	"github.com/stretchr/testify/require"
)

// fixedMap is a BaseMap stub returning the same ground everywhere with
// no structure, used to exercise Map in isolation from InfiniteMap's
// generation logic.
type fixedMap struct {
	ground tile.Ground
	spawn  geom.Pos
}

func (f fixedMap) Cell(pos geom.Pos, now tick.Stamp) tile.Tile {
	return tile.GroundOnly(f.ground)
}

func (f fixedMap) PlayerSpawn() geom.Pos { return f.spawn }

func TestSetCellThenReadsBack(t *testing.T) {
	base := fixedMap{ground: tile.GroundGrass1}
	m := NewMap(base)
	pos := geom.New(3, 4)
	placed := tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructFire})
	m.SetCell(pos, placed)
	require.Equal(t, placed, m.Cell(pos))
}

func TestSetCellToBaseTileIsRestoration(t *testing.T) {
	base := fixedMap{ground: tile.GroundGrass1}
	m := NewMap(base)
	pos := geom.New(1, 1)
	m.SetCell(pos, tile.GroundOnly(tile.GroundDirt))
	_, tracked := m.changes[pos]
	require.True(t, tracked)

	m.SetCell(pos, tile.GroundOnly(tile.GroundGrass1))
	_, tracked = m.changes[pos]
	require.False(t, tracked, "restoring a change to the base tile should GC the entry")
}

func TestFlushReturnsAndClearsModifications(t *testing.T) {
	base := fixedMap{ground: tile.GroundGrass1}
	m := NewMap(base)
	pos := geom.New(5, 5)
	m.SetCell(pos, tile.GroundOnly(tile.GroundDirt))
	mods := m.Flush()
	require.Contains(t, mods, pos)
	require.Empty(t, m.Flush())
}

func TestLoadAreaAppliesMissedGrowth(t *testing.T) {
	base := fixedMap{ground: tile.GroundDirt}
	m := NewMap(base)
	pos := geom.New(10, 10)
	fire := tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructFire})
	m.SetCell(pos, fire)

	far := tick.Stamp(ChunkArea * 3)
	m.now = far
	area := geom.NewArea(pos, 1, 1)
	result := m.LoadArea(area)

	require.Equal(t, tile.StructAshPlace, result[pos].Structure.Kind,
		"a structure due to grow should have caught up once its area is loaded again")
}

func TestLoadAreaIsIdempotent(t *testing.T) {
	base := fixedMap{ground: tile.GroundDirt}
	m := NewMap(base)
	pos := geom.New(20, 20)
	fire := tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructFire})
	m.SetCell(pos, fire)
	m.now = tick.Stamp(ChunkArea * 2)

	area := geom.NewArea(pos, 1, 1)
	first := m.LoadArea(area)
	second := m.LoadArea(area)
	require.Equal(t, first[pos], second[pos])
}

func TestTickOnlyVisitsLoadedChunks(t *testing.T) {
	base := fixedMap{ground: tile.GroundDirt}
	m := NewMap(base)
	pos := geom.New(0, 0)
	fire := tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructFire})
	m.SetCell(pos, fire)

	for i := tick.Stamp(1); i <= tick.Stamp(ChunkArea+1); i++ {
		m.Tick(i)
	}
	require.Equal(t, tile.StructFire, m.Cell(pos).Structure.Kind,
		"an unloaded chunk should never be visited by the random-tick schedule")
}

func TestTickReclaimsRestoringGroundOnceStructureOpens(t *testing.T) {
	base := fixedMap{ground: tile.GroundGrass1}
	m := NewMap(base)
	area := geom.NewArea(geom.New(0, 0), ChunkSize, ChunkSize)
	m.LoadArea(area)
	pos := geom.New(0, 0)
	// Cleared to bare Dirt: ground differs from the Grass base, but Dirt
	// is a "restoring" ground and the structure is open on both sides.
	m.SetCell(pos, tile.GroundOnly(tile.GroundDirt))

	for i := tick.Stamp(1); i <= tick.Stamp(ChunkArea+1); i++ {
		m.Tick(i)
	}

	_, tracked := m.changes[pos]
	require.False(t, tracked, "an open, restoring change should be reclaimed back to the base map")
	require.Equal(t, tile.GroundGrass1, m.Cell(pos).Ground)
}

func TestTickMarksModifiedWhenBaseCellDriftsWithNoOverlayEntry(t *testing.T) {
	base := driftingMap{}
	m := NewMap(base)
	area := geom.NewArea(geom.New(0, 0), ChunkSize, ChunkSize)
	m.LoadArea(area)
	m.Flush()

	pos := geom.New(0, 0)
	for i := tick.Stamp(1); i <= tick.Stamp(ChunkArea+1); i++ {
		m.Tick(i)
	}

	require.Contains(t, m.Flush(), pos,
		"a base-generator-only feature change should still mark the position modified")
}

// driftingMap is a BaseMap stub whose cell at the origin changes
// between tick 0 and later ticks, modelling a slow-changing base
// feature (e.g. field flowers) with no overlay entry involved.
type driftingMap struct{}

func (driftingMap) Cell(pos geom.Pos, now tick.Stamp) tile.Tile {
	if pos == (geom.Pos{}) && now == 0 {
		return tile.GroundOnly(tile.GroundGrass1)
	}
	return tile.GroundOnly(tile.GroundMoss)
}

func (driftingMap) PlayerSpawn() geom.Pos { return geom.Pos{} }
