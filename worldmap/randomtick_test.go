package worldmap

import (
	"testing"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tick"
	"github.com/stretchr/testify/require"
)

func TestStepInverseIsModularInverse(t *testing.T) {
	require.EqualValues(t, 1, (step*stepInverse)%ChunkArea)
}

func TestTickTimeReversesTickPosition(t *testing.T) {
	limit := tick.Stamp(5000)
	if ChunkArea < 5000 {
		limit = tick.Stamp(ChunkArea)
	}
	for i := tick.Stamp(0); i < limit; i++ {
		require.EqualValues(t, i, tickTime(TickPosition(i)))
	}
}

func TestTickPositionVisitsEveryCellOncePerCycle(t *testing.T) {
	seen := make(map[geom.Pos]bool)
	for i := tick.Stamp(0); i < tick.Stamp(ChunkArea); i++ {
		seen[TickPosition(i)] = true
	}
	require.Len(t, seen, int(ChunkArea))
}

func TestTickNumMonotonic(t *testing.T) {
	pos := geom.Pos{X: 3, Y: 7}
	prev := TickNum(pos, 0)
	for i := tick.Stamp(1); i < tick.Stamp(ChunkArea*3); i++ {
		n := TickNum(pos, i)
		require.GreaterOrEqual(t, n, prev)
		prev = n
	}
}
