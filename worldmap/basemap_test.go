package worldmap

import (
	"testing"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/tile"
	"github.com/stretchr/testify/require"
)

func TestBiomeCoreIsInOwnBiome(t *testing.T) {
	m := NewInfiniteMap(678)
	for x := int32(-15); x < 15; x++ {
		for y := int32(-15); y < 15; y++ {
			b := bpos{geom.New(x, y)}
			require.Equal(t, b, m.closestBiomePos(m.biomeCore(b)))
			gotB, gotOffset := m.biomePos(m.biomeCore(b))
			require.Equal(t, b, gotB)
			require.Equal(t, geom.New(0, 0), gotOffset)
		}
	}
}

func TestStartPosIsStartBiome(t *testing.T) {
	m := NewInfiniteMap(9876)
	b, _ := m.biomePos(m.startPos())
	require.Equal(t, biomeStart, m.biomeAt(b))
}

func TestStartPosHasStoneFloor(t *testing.T) {
	m := NewInfiniteMap(9876)
	got := m.Cell(m.startPos(), 1)
	require.Equal(t, tile.GroundStoneFloor, got.Ground)
}

func TestCellIsDeterministic(t *testing.T) {
	m := NewInfiniteMap(42)
	pos := geom.New(1234, -987)
	require.Equal(t, m.Cell(pos, 10), m.Cell(pos, 10))
}
