package worldmap

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/noise"
	"github.com/jmdejong/dezl/tick"
	"github.com/jmdejong/dezl/tile"
)

// BiomeSize is the spacing, in tiles, of the sheared biome lattice.
// EdgeSize governs how far a query position's biome lookup is jittered
// before picking its nearest lattice core, producing a fuzzy rather
// than razor-straight biome boundary.
const (
	BiomeSize int32 = 48
	EdgeSize  int32 = BiomeSize / 4
)

// BaseMap is the stateless procedural terrain a worldmap.Map overlays
// sparse changes on top of: every position always resolves to the same
// Tile for a given generator, with no storage required.
type BaseMap interface {
	Cell(pos geom.Pos, now tick.Stamp) tile.Tile
	PlayerSpawn() geom.Pos
}

type biome uint8

const (
	biomeStart biome = iota
	biomeForest
	biomeField
	biomeLake
	biomeRocks
	biomeBog
)

// bpos is a biome-lattice cell coordinate: the lattice is sheared so
// that biome rows stagger by half a biome width, giving organic rather
// than grid-aligned biome borders.
type bpos struct{ p geom.Pos }

// InfiniteMap is the default procedural generator: an infinite biome
// lattice (Start/Field/Forest/Lake/Rocks/Bog) with per-biome terrain
// synthesis.
type InfiniteMap struct {
	seed   uint32
	height noise.Fractal
}

func NewInfiniteMap(seed uint32) *InfiniteMap {
	return &InfiniteMap{
		seed: seed,
		height: noise.NewFractal(seed+344, []noise.Octave{
			{Factor: 3, Weight: 0.12},
			{Factor: 5, Weight: 0.20},
			{Factor: 7, Weight: 0.26},
			{Factor: 11, Weight: 0.42},
		}),
	}
}

func (m *InfiniteMap) startBiome() bpos {
	return bpos{geom.New(0, 0)}
}

func (m *InfiniteMap) startPos() geom.Pos {
	return m.biomeCore(m.startBiome()).Add(geom.New(0, 2))
}

func (m *InfiniteMap) biomeAt(b bpos) biome {
	if b == m.startBiome() {
		return biomeStart
	}
	seed := noise.NewWhiteNoise(m.seed + 333).Gen(b.p)
	return noise.PickWeighted(seed, []noise.Weighted[biome]{
		{biomeField, 10},
		{biomeForest, 10},
		{biomeLake, 5},
		{biomeRocks, 5},
		{biomeBog, 5},
	})
}

func (m *InfiniteMap) biomeCore(b bpos) geom.Pos {
	rind := noise.NewWhiteNoise(m.seed + 821).Gen(b.p)
	coreSize := BiomeSize / 2
	var coreOffset geom.Pos
	if b != m.startBiome() {
		coreOffset = geom.Centered(geom.New(0, 0), geom.New(coreSize, coreSize)).RandomPos(rind)
	}
	return b.p.Scale(BiomeSize).Add(coreOffset).Add(geom.New(b.p.Y*BiomeSize/2, 0))
}

type neighbourBiome struct {
	dist int32
	b    bpos
}

func (m *InfiniteMap) neighbourBiomes(pos geom.Pos) []neighbourBiome {
	base := geom.New(pos.X-pos.Y/2, pos.Y).Div(BiomeSize)
	offsets := [4]geom.Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	out := make([]neighbourBiome, 4)
	for i, o := range offsets {
		b := bpos{base.Add(o)}
		out[i] = neighbourBiome{dist: pos.DistanceTo(m.biomeCore(b)), b: b}
	}
	return out
}

func (m *InfiniteMap) closestBiomePos(pos geom.Pos) bpos {
	neighbours := m.neighbourBiomes(pos)
	best := neighbours[0]
	for _, n := range neighbours[1:] {
		if n.dist < best.dist {
			best = n
		}
	}
	return best.b
}

// edgeDistance measures how far inside its own biome a position is:
// the difference between the second-closest *different*-biome core's
// distance and the closest core's distance. Used to taper
// biome-specific features (lake reeds, rock clusters) near borders.
func (m *InfiniteMap) edgeDistance(pos geom.Pos) int32 {
	neighbours := m.neighbourBiomes(pos)
	// simple insertion sort by distance; only 4 elements
	for i := 1; i < len(neighbours); i++ {
		for j := i; j > 0 && neighbours[j].dist < neighbours[j-1].dist; j-- {
			neighbours[j], neighbours[j-1] = neighbours[j-1], neighbours[j]
		}
	}
	dist, b := neighbours[0].dist, neighbours[0].b
	myBiome := m.biomeAt(b)
	for _, n := range neighbours[1:] {
		if m.biomeAt(n.b) != myBiome {
			return n.dist - dist
		}
	}
	return BiomeSize / 2
}

func (m *InfiniteMap) biomePos(pos geom.Pos) (bpos, geom.Pos) {
	rind := noise.NewWhiteNoise(m.seed + 343).Gen(pos)
	edgeSize := EdgeSize
	offset := geom.New(
		int32(rind%uint32(edgeSize))-edgeSize/2,
		int32((rind/uint32(edgeSize))%uint32(edgeSize))-edgeSize/2,
	)
	if offset.Size() > edgeSize/2 {
		offset = offset.Rem(edgeSize).Sub(geom.New(edgeSize/2, edgeSize/2))
	}
	fuzzy := pos.Add(offset)
	b := m.closestBiomePos(fuzzy)
	dpos := pos.Sub(m.biomeCore(b))
	return b, dpos
}

func (m *InfiniteMap) rockHeight(pos geom.Pos) float32 {
	c := clamp01(float32(m.edgeDistance(pos)-EdgeSize) / 4.0)
	return noise.EaseInOutCubic(m.height.GenF(pos)) * c
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Cell synthesizes the tile at pos. The result is a pure function of
// (seed, pos, now) — now only matters insofar as it changes which
// random-tick "age" a slow-varying feature like forest tree density
// has reached, not wall-clock time.
func (m *InfiniteMap) Cell(pos geom.Pos, now tick.Stamp) tile.Tile {
	b, dpos := m.biomePos(pos)
	bio := m.biomeAt(b)
	rind := noise.NewWhiteNoise(m.seed + 7943).Gen(pos)
	rtime := uint32(TickNum(pos, now)) + noise.NewWhiteNoise(m.seed+356).Gen(pos)

	switch bio {
	case biomeStart:
		return m.startTile(dpos, rind)
	case biomeField:
		return m.fieldTile(pos, rind, rtime)
	case biomeForest:
		return m.forestTile(rind, rtime)
	case biomeLake:
		return m.lakeTile(pos, now, rind)
	case biomeRocks:
		return m.rocksTile(pos, rind, rtime)
	case biomeBog:
		return m.bogTile(pos, rind, rtime)
	default:
		return tile.Default()
	}
}

func (m *InfiniteMap) startTile(dpos geom.Pos, rind uint32) tile.Tile {
	dspawn := dpos.Abs()
	switch {
	case dspawn.X == 0 && dspawn.Y == 0:
		return tile.WithStructure(tile.GroundStoneFloor, tile.Structure{Kind: tile.StructMarkerAltar})
	case dspawn.X <= 4 && dspawn.Y <= 4 && !(dspawn.Y == 4 && dspawn.X == 4):
		if dspawn.X+dspawn.Y <= 5 {
			return tile.GroundOnly(tile.GroundStoneFloor)
		}
		return tile.WithStructure(tile.GroundStoneFloor, tile.Structure{Kind: tile.StructWall})
	case dspawn.X <= 1 || dspawn.Y <= 1:
		return tile.GroundOnly(tile.GroundDirt)
	case geom.Centered(geom.New(8, -8), geom.New(5, 5)).Contains(dpos):
		dhouse := dpos.Sub(geom.New(8, -8))
		switch {
		case dhouse == geom.New(0, -1):
			return tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructSage})
		case dhouse == geom.New(0, 2) || (dhouse.Abs().X < 2 && dhouse.Abs().Y < 2):
			return tile.GroundOnly(tile.GroundDirt)
		default:
			return tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructWoodWall})
		}
	default:
		return tile.GroundOnly(noise.Pick(rind, []tile.Ground{tile.GroundGrass1, tile.GroundGrass2, tile.GroundGrass3}))
	}
}

func (m *InfiniteMap) fieldTile(pos geom.Pos, rind, rtime uint32) tile.Tile {
	ground := noise.Pick(rind, []tile.Ground{tile.GroundGrass1, tile.GroundGrass2, tile.GroundGrass3})
	var structure tile.Structure
	if noise.NewWhiteNoise(m.seed+9429).GenF(pos) < 0.02 {
		structure = tile.Structure{Kind: tile.StructShrub}
	} else {
		seed := noise.HashU32(noise.HashU32(rtime/4) + 5924)
		structure = noise.PickWeighted(seed, []noise.Weighted[tile.Structure]{
			{Value: tile.Structure{Kind: tile.StructAir}, Chance: 40},
			{Value: tile.Structure{Kind: tile.StructDenseGrassGrn}, Chance: 4},
			{Value: tile.Structure{Kind: tile.StructDenseGrassBrn}, Chance: 3},
			{Value: tile.Structure{Kind: tile.StructDenseGrassY}, Chance: 3},
			{Value: tile.Structure{Kind: tile.StructFlower}, Chance: 1},
		})
	}
	return tile.WithStructure(ground, structure)
}

func (m *InfiniteMap) forestTile(rind, rtime uint32) tile.Tile {
	plain := noise.Pick(rind, []tile.Tile{
		tile.GroundOnly(tile.GroundGrass1),
		tile.GroundOnly(tile.GroundGrass2),
		tile.GroundOnly(tile.GroundGrass3),
		tile.GroundOnly(tile.GroundMoss),
		tile.GroundOnly(tile.GroundMoss),
		tile.GroundOnly(tile.GroundDeadLeaves),
		tile.GroundOnly(tile.GroundDeadLeaves),
		tile.GroundOnly(tile.GroundDirt),
	})
	return noise.PickWeighted(rtime, []noise.Weighted[tile.Tile]{
		{Value: plain, Chance: 100},
		{Value: tile.WithStructure(tile.GroundGrass1, tile.Structure{Kind: tile.StructSapling}), Chance: 3},
		{Value: tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructYoungTree}), Chance: 4},
		{Value: tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructTree}), Chance: 13},
		{Value: tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructOldTreeTinder}), Chance: 1},
		{Value: tile.GroundOnly(tile.GroundDirt), Chance: 1},
	})
}

func (m *InfiniteMap) lakeTile(pos geom.Pos, now tick.Stamp, rind uint32) tile.Tile {
	c := clamp01(float32(m.edgeDistance(pos)-EdgeSize) / 12.0)
	reedDensity := noise.NewFractal(m.seed+276, []noise.Octave{{Factor: 7, Weight: 0.5}, {Factor: 11, Weight: 0.5}}).GenF(pos)*0.4 - 0.2
	height := 0.4 - m.height.GenF(pos) + (1.0-c)*0.6
	absHeight := height
	if absHeight < 0 {
		absHeight = -absHeight
	}
	switch {
	case absHeight < reedDensity:
		ground := tile.GroundWater
		if height > 0 {
			ground = tile.GroundDirt
		}
		structure := tile.Structure{Kind: tile.StructAir}
		if uint32(euclidMod(TickNum(pos, now), 4)) != rind%4 {
			structure = tile.Structure{Kind: tile.StructReed}
		}
		return tile.WithStructure(ground, structure)
	case height < 0:
		return tile.GroundOnly(tile.GroundWater)
	default:
		return noise.PickWeighted(rind, []noise.Weighted[tile.Tile]{
			{Value: tile.GroundOnly(tile.GroundGrass1), Chance: 10},
			{Value: tile.GroundOnly(tile.GroundGrass2), Chance: 10},
			{Value: tile.GroundOnly(tile.GroundGrass3), Chance: 10},
			{Value: tile.WithStructure(tile.GroundGrass1, tile.Structure{Kind: tile.StructDenseGrassGrn}), Chance: 3},
			{Value: tile.WithStructure(tile.GroundGrass2, tile.Structure{Kind: tile.StructDenseGrassBrn}), Chance: 3},
			{Value: tile.WithStructure(tile.GroundGrass3, tile.Structure{Kind: tile.StructDenseGrassY}), Chance: 3},
			{Value: tile.WithStructure(tile.GroundGrass1, tile.Structure{Kind: tile.StructShrub}), Chance: 2},
		})
	}
}

func euclidMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func (m *InfiniteMap) rocksTile(pos geom.Pos, rind, rtime uint32) tile.Tile {
	const minHeight = 0.6
	height := m.rockHeight(pos)
	if height > minHeight {
		isMid := true
		for _, d := range [8]geom.Pos{{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
			if m.rockHeight(pos.Add(d)) <= minHeight {
				isMid = false
				break
			}
		}
		structure := tile.Structure{Kind: tile.StructRock}
		if isMid {
			structure = tile.Structure{Kind: tile.StructRockMid}
		}
		return tile.WithStructure(tile.GroundRockFloor, structure)
	}
	inner := noise.PickWeighted(rind, []noise.Weighted[tile.Tile]{
		{Value: tile.GroundOnly(tile.GroundGrass2), Chance: 10},
		{Value: tile.GroundOnly(tile.GroundGrass3), Chance: 10},
		{Value: tile.GroundOnly(tile.GroundDirt), Chance: 1},
		{Value: tile.GroundOnly(tile.GroundRockFloor), Chance: uint32(height * 10.0)},
	})
	rockInner := noise.PickWeighted(rtime, []noise.Weighted[tile.Tile]{
		{Value: tile.WithStructure(tile.GroundRockFloor, tile.Structure{Kind: tile.StructGravel}), Chance: 20},
		{Value: tile.GroundOnly(tile.GroundRockFloor), Chance: 50},
		{Value: tile.WithStructure(tile.GroundRockFloor, tile.Structure{Kind: tile.StructStone}), Chance: 5},
		{Value: tile.WithStructure(tile.GroundRockFloor, tile.Structure{Kind: tile.StructGravel}), Chance: 20},
		{Value: tile.GroundOnly(tile.GroundRockFloor), Chance: 50},
		{Value: tile.WithStructure(tile.GroundRockFloor, tile.Structure{Kind: tile.StructPebble}), Chance: 3},
		{Value: tile.GroundOnly(tile.GroundRockFloor), Chance: 50},
	})
	return noise.PickWeighted(rind, []noise.Weighted[tile.Tile]{
		{Value: inner, Chance: 50},
		{Value: noise.PickWeighted(rind, []noise.Weighted[tile.Tile]{
			{Value: tile.GroundOnly(tile.GroundGrass2), Chance: 1},
			{Value: tile.GroundOnly(tile.GroundGrass3), Chance: 1},
			{Value: rockInner, Chance: 3},
		}), Chance: 50},
	})
}

func (m *InfiniteMap) bogTile(pos geom.Pos, rind, rtime uint32) tile.Tile {
	height := m.height.GenF(pos.Scale(2)) + noise.NewWhiteNoise(m.seed+3294).GenF(pos)*0.1
	if height < 0.45 {
		return tile.GroundOnly(tile.GroundWater)
	}
	pitcherChoice := noise.Pick(rtime/2, []tile.Tile{
		tile.WithStructure(tile.GroundGrass1, tile.Structure{Kind: tile.StructPitcherPlant}),
		tile.GroundOnly(tile.GroundGrass1),
	})
	return noise.PickWeighted(rind, []noise.Weighted[tile.Tile]{
		{Value: tile.GroundOnly(tile.GroundGrass1), Chance: 50},
		{Value: tile.GroundOnly(tile.GroundGrass2), Chance: 50},
		{Value: tile.GroundOnly(tile.GroundGrass3), Chance: 50},
		{Value: tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructShrub}), Chance: 1},
		{Value: tile.WithStructure(tile.GroundDirt, tile.Structure{Kind: tile.StructRush}), Chance: 10},
		{Value: pitcherChoice, Chance: 1},
	})
}

func (m *InfiniteMap) PlayerSpawn() geom.Pos {
	return m.startPos()
}
