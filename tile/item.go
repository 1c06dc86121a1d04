package tile

// Item is the enumerated set of things a player can carry. Every item
// has a fixed display name and description, and optionally an Action it
// performs when used against a tile.
type Item uint8

const (
	ItemNone Item = iota
	ItemEyes
	ItemHands
	ItemReed
	ItemFlower
	ItemPebble
	ItemStone
	ItemSharpStone
	ItemPitcher
	ItemFilledPitcher
	ItemHoe
	ItemGreenSeed
	ItemYellowSeed
	ItemBrownSeed
	ItemStick
	ItemTinder
	ItemMarkerStone
	ItemLog
	ItemPlank
	ItemAsh
	ItemDiscLeaf
	ItemKnifeLeaf
	ItemHardwoodStick
	ItemHardwoodKnife
	ItemHardwoodTable
	ItemSawBlade
)

// Name is the stable machine-readable identifier sent to clients,
// mirroring Item::name in the original.
func (i Item) Name() string {
	switch i {
	case ItemEyes:
		return "<eyes>"
	case ItemHands:
		return "<hands>"
	case ItemReed:
		return "reed"
	case ItemFlower:
		return "flower"
	case ItemPebble:
		return "pebble"
	case ItemStone:
		return "stone"
	case ItemSharpStone:
		return "sharp stone"
	case ItemPitcher:
		return "pitcher"
	case ItemFilledPitcher:
		return "water pitcher"
	case ItemHoe:
		return "hoe"
	case ItemGreenSeed:
		return "green seeds"
	case ItemYellowSeed:
		return "yellow seeds"
	case ItemBrownSeed:
		return "brown seeds"
	case ItemStick:
		return "stick"
	case ItemTinder:
		return "tinder"
	case ItemMarkerStone:
		return "marker stone"
	case ItemLog:
		return "log"
	case ItemPlank:
		return "plank"
	case ItemAsh:
		return "ash"
	case ItemDiscLeaf:
		return "disc leaf"
	case ItemKnifeLeaf:
		return "knife leaf"
	case ItemHardwoodStick:
		return "hardwood stick"
	case ItemHardwoodKnife:
		return "hardwood knife"
	case ItemHardwoodTable:
		return "hardwood table"
	case ItemSawBlade:
		return "saw blade"
	default:
		return "<unknown>"
	}
}

// allItems enumerates every Item variant, for ItemByName and other
// code that needs to range over the whole vocabulary.
var allItems = []Item{
	ItemNone, ItemEyes, ItemHands, ItemReed, ItemFlower, ItemPebble,
	ItemStone, ItemSharpStone, ItemPitcher, ItemFilledPitcher, ItemHoe,
	ItemGreenSeed, ItemYellowSeed, ItemBrownSeed, ItemStick, ItemTinder,
	ItemMarkerStone, ItemLog, ItemPlank, ItemAsh, ItemDiscLeaf,
	ItemKnifeLeaf, ItemHardwoodStick, ItemHardwoodKnife, ItemHardwoodTable,
	ItemSawBlade,
}

// ItemByName resolves an item's stable machine-readable name back to
// its Item value, the inverse of Name. Used when loading a saved
// inventory.
func ItemByName(name string) (Item, bool) {
	for _, i := range allItems {
		if i.Name() == name {
			return i, true
		}
	}
	return 0, false
}

func (i Item) Description() (string, bool) {
	switch i {
	case ItemEyes:
		return "Inspect things around you", true
	case ItemHands:
		return "Take items that are laying loose", true
	case ItemReed:
		return "Some cut reeds", true
	case ItemFlower:
		return "A pretty flower", true
	case ItemPebble:
		return "A small stone", true
	case ItemStone:
		return "A mid-size stone. Stones can be broken by smashing two together", true
	case ItemSharpStone:
		return "A small stone with a sharp edge. It can be used to cut things, though it is very crude and may not always work", true
	case ItemPitcher:
		return "A pitcher from the pitcher plant. It can function as a bucket", true
	case ItemFilledPitcher:
		return "A pitcher from the pitcher plant, filled with water", true
	case ItemHoe:
		return "A simple hoe that can be used to clear the ground of small vegetation", true
	case ItemGreenSeed:
		return "Unknown green seeds", true
	case ItemYellowSeed:
		return "Unknown yellow seeds", true
	case ItemBrownSeed:
		return "Unknown brown seeds", true
	case ItemStick:
		return "Stick", true
	case ItemTinder:
		return "Tinder from the tinder fungus. Can be placed with some pebbles on a clear space to create a fireplace", true
	case ItemMarkerStone:
		return "A marker stone that can be placed to create a land claim", true
	case ItemLog:
		return "A heavy log, cut from a tree", true
	case ItemPlank:
		return "A wooden plank, sawn from a log", true
	case ItemAsh:
		return "A handful of ash", true
	case ItemDiscLeaf, ItemKnifeLeaf, ItemHardwoodStick, ItemHardwoodKnife, ItemHardwoodTable, ItemSawBlade:
		return i.Name(), true
	default:
		return "", false
	}
}

// Action returns the action this item performs when used, if any.
func (i Item) Action() (Action, bool) {
	switch i {
	case ItemEyes:
		return Action{Kind: ActionInspect}, true
	case ItemHands:
		return TakeAction(), true
	case ItemFlower:
		return Action{Kind: ActionCraft, CraftType: CraftMarker, Product: ItemMarkerStone, Cost: Cost{ItemStone: 1, ItemFlower: 9}}, true
	case ItemStone:
		return NewInteractAction(InteractSmash, 1, true), true
	case ItemSharpStone:
		return NewInteractAction(InteractCut, 1, false), true
	case ItemPitcher:
		return Action{Kind: ActionCraft, CraftType: CraftWater, Product: ItemFilledPitcher}, true
	case ItemFilledPitcher:
		return NewInteractAction(InteractWater, 1, false), true
	case ItemHoe:
		return Action{Kind: ActionClear}, true
	case ItemGreenSeed:
		return Action{Kind: ActionBuild, BuildStructure: CropStructure(GreenSeed())}, true
	case ItemYellowSeed:
		return Action{Kind: ActionBuild, BuildStructure: CropStructure(YellowSeed())}, true
	case ItemBrownSeed:
		return Action{Kind: ActionBuild, BuildStructure: CropStructure(BrownSeed())}, true
	case ItemTinder:
		return Action{Kind: ActionBuild, BuildStructure: Structure{Kind: StructFireplace}, Cost: Cost{ItemPebble: 10}}, true
	case ItemMarkerStone:
		return Action{Kind: ActionBuildClaim, BuildStructure: Structure{Kind: StructMarkStone}}, true
	default:
		return Action{}, false
	}
}
