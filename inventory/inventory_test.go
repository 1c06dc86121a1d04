package inventory

import (
	"testing"

	"github.com/jmdejong/dezl/tile"
	"github.com/stretchr/testify/require"
)

func TestSelectsEyesByDefault(t *testing.T) {
	inv := New()
	require.Equal(t, tile.ItemEyes, inv.Selected())
}

func TestSelectsHandsOnNext(t *testing.T) {
	inv := New()
	inv.Select(SelectNext())
	require.Equal(t, tile.ItemHands, inv.Selected())
}

func TestSelectsCarriedItemByIndex(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemStone)
	inv.Select(SelectIdx(2))
	require.Equal(t, tile.ItemStone, inv.Selected())
}

func TestAddIncrementsExistingEntry(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemStone)
	inv.Add(tile.ItemStone)
	view := inv.View()
	require.Equal(t, uint(2), view.Entries[2].Count)
}

func TestSaveLoadRoundTrips(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemStone)
	inv.Add(tile.ItemLog)
	loaded := Load(inv.Save())
	require.Equal(t, inv.Save(), loaded.Save())
	require.Equal(t, tile.ItemEyes, loaded.Selected())
}

func TestSelectWrapsAround(t *testing.T) {
	inv := New()
	inv.Select(SelectPrevious())
	require.Equal(t, tile.ItemHands, inv.Selected())
}

func TestPaySucceedsAndDeducts(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemPebble)
	inv.Add(tile.ItemPebble)
	ok := inv.Pay(map[tile.Item]uint{tile.ItemPebble: 2})
	require.True(t, ok)
	view := inv.View()
	require.Len(t, view.Entries, 2, "fully spent item should be removed")
}

func TestPayFailsLeavesInventoryUnchanged(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemPebble)
	before := inv.Save()
	ok := inv.Pay(map[tile.Item]uint{tile.ItemPebble: 5})
	require.False(t, ok)
	require.Equal(t, before, inv.Save())
}

func TestMoveSelectedReordersCarriedItems(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemStone)
	inv.Add(tile.ItemLog)
	inv.Select(SelectIdx(2))
	inv.MoveSelected(SelectNext())
	require.Equal(t, tile.ItemStone, inv.Selected())
	require.Equal(t, tile.ItemLog, inv.items[0].item)
}

func TestMoveSelectedIgnoresFixedEntries(t *testing.T) {
	inv := New()
	inv.Add(tile.ItemStone)
	inv.MoveSelected(SelectNext())
	require.Equal(t, tile.ItemEyes, inv.Selected())
}
