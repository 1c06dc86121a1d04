// Package worldmap implements the procedurally generated base terrain
// (C5), the sparse-diff overlay on top of it (C6), and the random-tick
// visitation schedule that drives slow per-tile growth (C7).
package worldmap

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tick"
)

// ChunkSize is the side length, in tiles, of the square block of
// positions the random-tick schedule visits one cell of per world
// tick. CHUNK_AREA = ChunkSize^2.
const ChunkSize int32 = 64

// ChunkArea is the number of cells in one chunk.
const ChunkArea int64 = int64(ChunkSize) * int64(ChunkSize)

// step/stepInverse form a bijective permutation of [0, ChunkArea) via
// ind -> ind*step mod ChunkArea. stepInverse is step's modular inverse
// mod ChunkArea: step*stepInverse mod ChunkArea must equal 1, which
// TestStepInverseIsModularInverse verifies. The original used CHUNK_SIZE=16
// with STEP=541/STEP_INVERSE=53; this engine's CHUNK_SIZE=64 requires
// a fresh coprime pair, computed for ChunkArea=4096.
const (
	step        int64 = 3125
	stepInverse int64 = 1565
)

// TickPosition returns the single chunk-local cell visited at the
// given tick, cycling through all ChunkArea cells once every
// ChunkArea ticks in a pseudo-random (but bijective) order.
func TickPosition(now tick.Stamp) geom.Pos {
	ind := int32((int64(now) * step) % ChunkArea)
	return geom.Pos{X: ind % ChunkSize, Y: ind / ChunkSize}
}

func tickTime(pos geom.Pos) int64 {
	return (int64(pos.X)+int64(pos.Y)*int64(ChunkSize))*stepInverse%ChunkArea
}

// TickNum returns the number of times the cell at pos has been visited
// by TickPosition up to and including the given tick. pos may be any
// world position; its offset inside its chunk decides its phase.
// Comparing TickNum across two ticks gives the number of "ages" a slow
// growth feature (e.g. crop growth counted in TickNum steps, not raw
// ticks) has advanced.
func TickNum(pos geom.Pos, now tick.Stamp) int64 {
	base := int64(now) / ChunkArea
	if tickTime(pos.Rem(ChunkSize)) <= int64(now)%ChunkArea {
		return base + 1
	}
	return base
}
