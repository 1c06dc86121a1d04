package tile

import (
	"fmt"

	"github.com/jmdejong/dezl/tick"
)

// Tile is a single position's full occupancy: a ground it always has,
// and a structure that may be Air (empty).
type Tile struct {
	Ground    Ground
	Structure Structure
}

func GroundOnly(g Ground) Tile {
	return Tile{Ground: g, Structure: Structure{Kind: StructAir}}
}

func WithStructure(g Ground, s Structure) Tile {
	return Tile{Ground: g, Structure: s}
}

// Default returns the tile used for positions with no generated
// content (outside the loaded world, e.g.).
func Default() Tile {
	return GroundOnly(GroundEmpty)
}

// Sprites returns the structure's sprite (if any) followed by the
// ground's, in client draw order (structure drawn over ground).
func (t Tile) Sprites() []Sprite {
	var out []Sprite
	if s, ok := t.Structure.Sprite(); ok {
		out = append(out, s)
	}
	if s, ok := t.Ground.Sprite(); ok {
		out = append(out, s)
	}
	return out
}

func (t Tile) Blocking() bool {
	return !t.Ground.Accessible() || t.Structure.Blocking()
}

func (t Tile) canBuild() bool {
	return t.Structure.IsOpen() && t.Ground.Buildable()
}

// Interact resolves the item's action, if it has one, against this
// tile. An item carries at most one action, so no other action is tried
// when that one does not apply.
func (t Tile) Interact(item Item, now tick.Stamp) (InteractionResult, bool) {
	action, ok := item.Action()
	if !ok {
		return InteractionResult{}, false
	}
	return t.Act(action, item, now)
}

// Act resolves a single action against this tile.
func (t Tile) Act(action Action, item Item, now tick.Stamp) (InteractionResult, bool) {
	if name, ok := t.Structure.Explain(); ok && action.Kind != ActionInspect {
		desc, hasDesc := item.Description()
		if !hasDesc {
			desc = "Unknown"
		}
		return InteractionResult{
			Message:    fmt.Sprintf("%s: %s", name, desc),
			HasMessage: true,
			SoundType:  SoundExplain,
		}, true
	}
	switch action.Kind {
	case ActionInteract:
		for _, ia := range t.Structure.AllInteractions() {
			result, matched := ia.Apply(action.Interact, action.Level, now.RandomSeed())
			if !matched {
				continue
			}
			if action.UseItem {
				if result.Cost == nil {
					result.Cost = Cost{}
				}
				result.Cost[item]++
			}
			return result, true
		}
		return InteractionResult{}, false

	case ActionClear:
		if !t.Structure.IsOpen() {
			return InteractionResult{}, false
		}
		newGround, ok := t.Ground.Clear()
		if !ok {
			return InteractionResult{}, false
		}
		return InteractionResult{RemainsGround: newGround, HasRemainsGround: true}, true

	case ActionInspect:
		groundDesc, _ := t.Ground.Describe()
		structDesc, _ := t.Structure.Describe()
		return InteractionResult{
			Message:    fmt.Sprintf("%s  --  %s", groundDesc, structDesc),
			HasMessage: true,
			SoundType:  SoundExplain,
		}, true

	case ActionBuildClaim:
		if !t.canBuild() {
			return InteractionResult{}, false
		}
		return InteractionResult{
			Remains:    action.BuildStructure,
			HasRemains: true,
			Cost:       Cost{item: 1},
			Claim:      true,
		}, true

	case ActionBuild:
		if !t.canBuild() {
			return InteractionResult{}, false
		}
		cost := action.Cost.Clone()
		if cost == nil {
			cost = Cost{}
		}
		cost[item]++
		return InteractionResult{
			Remains:    action.BuildStructure,
			HasRemains: true,
			Cost:       cost,
			Build:      true,
		}, true

	case ActionCraft:
		cost := action.Cost.Clone()
		if cost == nil {
			cost = Cost{}
		}
		cost[item]++
		structCraft, hasStructCraft := t.Structure.Craft()
		groundCraft, hasGroundCraft := t.Ground.Craft()
		if (hasStructCraft && structCraft == action.CraftType) || (hasGroundCraft && groundCraft == action.CraftType) {
			return InteractionResult{Items: []Item{action.Product}, Cost: cost}, true
		}
		return InteractionResult{}, false

	default:
		return InteractionResult{}, false
	}
}

// Grow returns this tile structure's growth outcome, if any.
func (t Tile) Grow() (ticks int64, into Structure, spread Structure, hasSpread bool, ok bool) {
	return t.Structure.Grow()
}
