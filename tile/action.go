package tile

import "github.com/jmdejong/dezl/noise"

// InteractionType distinguishes the kind of interaction an item/tile
// combination performs; carried alongside a level so e.g. a sharper
// tool can unlock a better outcome of the same interaction.
type InteractionType uint8

const (
	InteractTake InteractionType = iota
	InteractSmash
	InteractCut
	InteractWater
	InteractChop
	InteractFertilize
	InteractFuel
	InteractBuildSaw
)

// CraftType ties a crafting-station structure to the items it accepts.
type CraftType uint8

const (
	CraftNone CraftType = iota
	CraftMarker
	CraftWater
	CraftGardeningTable
	CraftSawTable
)

// ActionKind distinguishes the shape of an Action; Go has no sum types,
// so Action carries only the fields relevant to its Kind (mirroring the
// original's Action enum, flattened to one struct to avoid dynamic
// dispatch through an interface).
type ActionKind uint8

const (
	ActionInteract ActionKind = iota
	ActionClear
	ActionInspect
	ActionBuildClaim
	ActionCraft
	ActionBuild
)

// Cost is a multiset of items an interaction consumes.
type Cost map[Item]uint

func (c Cost) Clone() Cost {
	if c == nil {
		return nil
	}
	out := make(Cost, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Action is what an item does when used against a tile.
type Action struct {
	Kind ActionKind
	// Interact fields
	Interact InteractionType
	Level    uint32
	UseItem  bool
	// Build/BuildClaim/Craft fields
	BuildStructure Structure
	CraftType      CraftType
	Product        Item
	Cost           Cost
}

func NewInteractAction(typ InteractionType, level uint32, useItem bool) Action {
	return Action{Kind: ActionInteract, Interact: typ, Level: level, UseItem: useItem}
}

func TakeAction() Action {
	return NewInteractAction(InteractTake, 0, false)
}

// Interactable is one way a structure can respond to an interaction:
// at or above MinLevel of the right InteractionType, it resolves to
// Remains (what the structure becomes) and, with probability given by
// LevelOdds (indexed by level above MinLevel, clamped to the last
// entry), yields Items.
type Interactable struct {
	Type      InteractionType
	MinLevel  uint32
	LevelOdds []float32
	Remains   Structure
	HasRemains bool
	Items     []Item
}

func NewInteractable(typ InteractionType, minLevel uint32, odds []float32, remains Structure, hasRemains bool, items []Item) Interactable {
	return Interactable{Type: typ, MinLevel: minLevel, LevelOdds: odds, Remains: remains, HasRemains: hasRemains, Items: items}
}

// Harvest builds an Interactable whose structure clears to Air on
// success.
func Harvest(typ InteractionType, minLevel uint32, odds []float32, items ...Item) Interactable {
	return NewInteractable(typ, minLevel, odds, Structure{Kind: StructAir}, true, items)
}

// TakeInteractable builds the implicit "pick this item up" interaction
// every structure with a Take() item gets for free.
func TakeInteractable(items ...Item) Interactable {
	return NewInteractable(InteractTake, 0, nil, Structure{Kind: StructAir}, true, items)
}

// Transform builds an Interactable that turns the structure into
// `into` with certainty and no items, used for fueling/watering/
// fertilizing style interactions.
func Transform(typ InteractionType, minLevel uint32, into Structure) Interactable {
	return NewInteractable(typ, minLevel, []float32{1.0}, into, true, nil)
}

// Apply resolves this Interactable against an attempted interaction of
// the given type/level at the given tick, or returns false if the type
// or level doesn't match. The item roll is seeded from the tick so
// repeated attempts at the same tick are deterministic but different
// ticks roll independently.
func (ia Interactable) Apply(typ InteractionType, level uint32, tickSeed uint32) (InteractionResult, bool) {
	if ia.Type != typ || level < ia.MinLevel {
		return InteractionResult{}, false
	}
	relLevel := level - ia.MinLevel
	var odds float32 = 1.0
	switch {
	case len(ia.LevelOdds) == 0:
		odds = 1.0
	case int(relLevel) < len(ia.LevelOdds):
		odds = ia.LevelOdds[relLevel]
	default:
		odds = ia.LevelOdds[len(ia.LevelOdds)-1]
	}
	result := InteractionResult{}
	if ia.HasRemains {
		result.Remains = ia.Remains
		result.HasRemains = true
	}
	if odds >= noise.RandomFloat(tickSeed^84217) {
		result.Items = append([]Item(nil), ia.Items...)
	}
	return result, true
}

// InteractionResult is the effect of a resolved interaction, applied by
// the world simulation: Remains/RemainsGround replace the tile,
// Items are added to the actor's inventory, Cost is removed from it,
// Message is a one-shot sound/text event, Claim/Build flag policy
// checks the world layer must additionally apply (land-claim distance
// rules, building permissions).
type InteractionResult struct {
	Remains       Structure
	HasRemains    bool
	RemainsGround Ground
	HasRemainsGround bool
	Items         []Item
	Cost          Cost
	Message       string
	HasMessage    bool
	SoundType     SoundType
	Claim         bool
	Build         bool
}

// SoundType categorizes a one-shot message for the client, mirroring
// worldmessages.rs's SoundType.
type SoundType uint8

const (
	SoundExplain SoundType = iota
	SoundSay
	SoundOk
	SoundFail
)
