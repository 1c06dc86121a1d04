package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/dezl/geom"
	"github.com/jmdejong/dezl/inventory"
)

func TestControlUnmarshalMove(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"move":"north"}`), &c))
	require.Equal(t, Control{Kind: ControlMove, Direction: geom.North, HasDirection: true}, c)
}

func TestControlUnmarshalMoveAllDirections(t *testing.T) {
	cases := map[string]geom.Direction{
		"north": geom.North,
		"east":  geom.East,
		"south": geom.South,
		"west":  geom.West,
	}
	for name, dir := range cases {
		var c Control
		require.NoError(t, json.Unmarshal([]byte(`{"move":"`+name+`"}`), &c))
		require.Equal(t, dir, c.Direction)
	}
}

func TestControlUnmarshalMovement(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"movement":[1.5,-2.5]}`), &c))
	require.Equal(t, ControlMovement, c.Kind)
	require.Equal(t, float32(1.5), c.Movement.X())
	require.Equal(t, float32(-2.5), c.Movement.Y())
}

func TestControlUnmarshalSuicide(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`"suicide"`), &c))
	require.Equal(t, Control{Kind: ControlSuicide}, c)
}

func TestControlUnmarshalBareStringOtherThanSuicideFails(t *testing.T) {
	var c Control
	require.Error(t, json.Unmarshal([]byte(`"teleport"`), &c))
}

func TestControlUnmarshalInteractWithoutDirection(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"interact":null}`), &c))
	require.Equal(t, Control{Kind: ControlInteract}, c)
}

func TestControlUnmarshalInteractWithDirection(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"interact":"east"}`), &c))
	require.Equal(t, Control{Kind: ControlInteract, Direction: geom.East, HasDirection: true}, c)
}

func TestControlUnmarshalSelectNext(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"select":"next"}`), &c))
	require.Equal(t, Control{Kind: ControlSelect, Selector: inventory.SelectNext()}, c)
}

func TestControlUnmarshalSelectPrevious(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"select":"previous"}`), &c))
	require.Equal(t, Control{Kind: ControlSelect, Selector: inventory.SelectPrevious()}, c)
}

func TestControlUnmarshalSelectIdx(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"select":{"idx":3}}`), &c))
	require.Equal(t, Control{Kind: ControlSelect, Selector: inventory.SelectIdx(3)}, c)
}

func TestControlUnmarshalMoveSelected(t *testing.T) {
	var c Control
	require.NoError(t, json.Unmarshal([]byte(`{"moveselected":{"idx":1}}`), &c))
	require.Equal(t, Control{Kind: ControlMoveSelected, Selector: inventory.SelectIdx(1)}, c)
}

func TestControlUnmarshalUnknownFieldFails(t *testing.T) {
	var c Control
	require.Error(t, json.Unmarshal([]byte(`{"fly":"up"}`), &c))
}

func TestControlUnmarshalMultipleFieldsFails(t *testing.T) {
	var c Control
	require.Error(t, json.Unmarshal([]byte(`{"move":"north","interact":null}`), &c))
}

func TestControlUnmarshalGarbageFails(t *testing.T) {
	var c Control
	require.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestControlMarshalRoundTrip(t *testing.T) {
	cases := []Control{
		{Kind: ControlMove, Direction: geom.South, HasDirection: true},
		{Kind: ControlMovement, Movement: geom.NewVec2(3, 4)},
		{Kind: ControlSuicide},
		{Kind: ControlInteract},
		{Kind: ControlInteract, Direction: geom.West, HasDirection: true},
		{Kind: ControlSelect, Selector: inventory.SelectNext()},
		{Kind: ControlMoveSelected, Selector: inventory.SelectIdx(2)},
	}
	for _, want := range cases {
		data, err := json.Marshal(want)
		require.NoError(t, err)
		var got Control
		require.NoError(t, json.Unmarshal(data, &got))
		require.Equal(t, want, got)
	}
}
