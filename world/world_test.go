package world

import (
	"testing"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/inventory"
	"github.com/jmdejong/dezl/tile"
	"github.com/stretchr/testify/require"
)

func TestAddPlayerThenHasPlayer(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	require.NoError(t, w.AddPlayer(id, w.DefaultPlayerSave()))
	require.True(t, w.HasPlayer(id))
	require.ElementsMatch(t, []PlayerID{id}, w.ListPlayers())
}

func TestAddPlayerTwiceFails(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	require.NoError(t, w.AddPlayer(id, w.DefaultPlayerSave()))
	err := w.AddPlayer(id, w.DefaultPlayerSave())
	require.ErrorIs(t, err, ErrPlayerAlreadyExists)
}

func TestRemovePlayerRemovesBody(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	require.NoError(t, w.AddPlayer(id, w.DefaultPlayerSave()))
	require.NoError(t, w.RemovePlayer(id))
	require.False(t, w.HasPlayer(id))
	_, err := w.SavePlayer(id)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSuicideControlRemovesBodyNextTick(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	require.NoError(t, w.AddPlayer(id, w.DefaultPlayerSave()))
	player := w.players[id]
	body := player.Body

	require.NoError(t, w.ControlPlayer(id, Control{Kind: ControlSuicide}))
	w.Update()
	_, ok := w.creatures.Get(body)
	require.False(t, ok)
}

func TestClaimTooCloseToSpawnIsRejected(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	spawn := w.ground.PlayerSpawn()
	near := spawn.Add(geom.New(10, 0))
	w.ground.SetCell(near, tile.GroundOnly(tile.GroundDirt))
	require.NoError(t, w.AddPlayer(id, NewPlayerSave(geom.FromPos(near))))
	giveMarkerStone(w, id)

	require.NoError(t, w.ControlPlayer(id, Control{Kind: ControlInteract}))
	w.Update()
	require.Empty(t, w.claims, "a claim placed near spawn should be rejected")
}

func TestClaimFarFromSpawnSucceeds(t *testing.T) {
	w := New("test", 1)
	id := PlayerID("alice")
	spawn := w.ground.PlayerSpawn()
	far := spawn.Add(geom.New(500, 0))
	w.ground.SetCell(far, tile.GroundOnly(tile.GroundDirt))
	require.NoError(t, w.AddPlayer(id, NewPlayerSave(geom.FromPos(far))))
	giveMarkerStone(w, id)

	require.NoError(t, w.ControlPlayer(id, Control{Kind: ControlInteract}))
	w.Update()
	require.Len(t, w.claims, 1)
	require.Equal(t, far, w.claims[id])
}

// giveMarkerStone adds a marker stone to a player's inventory and
// selects it, so their next interact attempts to place a land claim.
func giveMarkerStone(w *World, id PlayerID) {
	player := w.players[id]
	creature, _ := w.creatures.Get(player.Body)
	creature.Inventory.Add(tile.ItemMarkerStone)
	creature.Inventory.Select(inventory.SelectIdx(2))
	w.creatures.Set(player.Body, creature)
}

func TestSaveLoadPreservesNameAndTime(t *testing.T) {
	w := New("test-world", 42)
	w.Update()
	w.Update()
	saved := w.Save()
	reloaded := Load(saved)
	require.Equal(t, w.Name, reloaded.Name)
	require.Equal(t, w.Time, reloaded.Time)
}

func TestViewProducesPositionForEveryPlayer(t *testing.T) {
	w := New("test", 7)
	id := PlayerID("bob")
	require.NoError(t, w.AddPlayer(id, w.DefaultPlayerSave()))
	messages := w.View()
	msg, ok := messages[id]
	require.True(t, ok)
	require.NotNil(t, msg.Pos)
	require.NotNil(t, msg.ViewArea)
	require.NotNil(t, msg.Section)
}
