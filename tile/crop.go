package tile

// CropType enumerates the growth stages of every plant family: each
// seed germinates into a seedling, then a young plant, then a mature
// plant, and the mature stage spreads a shoot into a neighbour tile
// when fertilized. Shoots of different families can inosculate
// (graft) into a new hybrid structure when they touch.
type CropType uint8

const (
	CropGreenSeed CropType = iota
	CropGreenSeedling
	CropYoungLeafPlant
	CropLeafPlant
	CropLeafShoot
	CropYellowSeed
	CropYellowSeedling
	CropYoungKnifePlant
	CropKnifePlant
	CropKnifeShoot
	CropBrownSeed
	CropBrownSeedling
	CropYoungHardPlant
	CropHardPlant
	CropHardShoot
	CropHardKnifePlant
	CropHardDiscPlant
	CropSawPlant
)

func (c CropType) Sprite() Sprite {
	switch c {
	case CropGreenSeed, CropYellowSeed, CropBrownSeed:
		return "plantedseed"
	case CropGreenSeedling, CropYellowSeedling, CropBrownSeedling:
		return "seedling"
	case CropYoungLeafPlant:
		return "youngleafplant"
	case CropLeafPlant, CropLeafShoot:
		return "leafplant"
	case CropYoungKnifePlant:
		return "youngknifeplant"
	case CropKnifePlant, CropKnifeShoot:
		return "knifeplant"
	case CropYoungHardPlant:
		return "younghardplant"
	case CropHardPlant, CropHardShoot:
		return "hardplant"
	case CropHardKnifePlant:
		return "hardknifeplant"
	case CropHardDiscPlant:
		return "harddiscplant"
	case CropSawPlant:
		return "sawplant"
	default:
		return ""
	}
}

func (c CropType) Describe() string {
	switch c {
	case CropGreenSeed, CropYellowSeed, CropBrownSeed:
		return "Planted seed"
	case CropGreenSeedling, CropYellowSeedling, CropBrownSeedling:
		return "Seedling"
	case CropYoungLeafPlant:
		return "A small plant with big round leaves"
	case CropLeafPlant:
		return "A plant with big round leaves"
	case CropLeafShoot:
		return "A shoot of a plant with big round leaves"
	case CropYoungKnifePlant:
		return "A small plant with sharp leaves"
	case CropKnifePlant:
		return "A plant with sharp leaves"
	case CropKnifeShoot:
		return "A shoot of a plant with sharp leaves"
	case CropYoungHardPlant:
		return "A small plant with a hard stem"
	case CropHardPlant:
		return "Plant with a very hard stem"
	case CropHardShoot:
		return "A shoot of a plant with hard branches"
	case CropHardKnifePlant:
		return "A shoot of a hardwood plant inosculated with a shoot of a knife plant"
	case CropHardDiscPlant:
		return "A shoot of a hardwood plant inosculated with a shoot of a disc plant"
	case CropSawPlant:
		return "A shoot of a knife plant inosculated with a shoot of a disc plant"
	default:
		return ""
	}
}

// Interactions returns the structures a non-default crop stage can be
// harvested for directly (stages that yield nothing when interacted
// with beyond grow/water/fertilize return nil).
func (c CropType) Interactions() []Interactable {
	return nil
}

// Next returns the number of ticks and the next stage in a
// seed-to-seedling-to-young-plant-to-plant chain.
func (c CropType) Next() (ticks int64, next CropType, ok bool) {
	switch c {
	case CropGreenSeed:
		return 1, CropGreenSeedling, true
	case CropGreenSeedling:
		return 1, CropYoungLeafPlant, true
	case CropYellowSeed:
		return 1, CropYellowSeedling, true
	case CropYellowSeedling:
		return 1, CropYoungKnifePlant, true
	case CropBrownSeed:
		return 1, CropBrownSeedling, true
	case CropBrownSeedling:
		return 1, CropYoungHardPlant, true
	case CropYoungLeafPlant:
		return 1, CropLeafPlant, true
	case CropYoungKnifePlant:
		return 1, CropKnifePlant, true
	case CropYoungHardPlant:
		return 1, CropHardPlant, true
	default:
		return 0, 0, false
	}
}

// Grow returns the number of ticks and the Structure a mature-plant
// stage becomes, for stages that grow into a world structure rather
// than a further CropType.
func (c CropType) Grow() (ticks int64, into Structure, ok bool) {
	switch c {
	case CropYoungLeafPlant:
		return 1, Structure{}, false
	case CropLeafPlant:
		return 1, Structure{Kind: StructSeedingDiscLeaf}, true
	case CropLeafShoot:
		return 1, Structure{Kind: StructDiscLeaf}, true
	case CropYoungKnifePlant:
		return 1, Structure{}, false
	case CropKnifePlant:
		return 1, Structure{Kind: StructSeedingKnifeLeaf}, true
	case CropKnifeShoot:
		return 1, Structure{Kind: StructKnifeLeaf}, true
	case CropYoungHardPlant:
		return 1, Structure{}, false
	case CropHardPlant:
		return 1, Structure{Kind: StructSeedingHardwood}, true
	case CropHardShoot:
		return 1, Structure{Kind: StructHardwoodStick}, true
	case CropHardKnifePlant:
		return 1, Structure{Kind: StructHardwoodKnife}, true
	case CropHardDiscPlant:
		return 1, Structure{Kind: StructHardwoodTable}, true
	case CropSawPlant:
		return 1, Structure{Kind: StructSawBlade}, true
	default:
		return 0, Structure{}, false
	}
}

// FertilizedGrow returns the shoot stage a mature plant spreads into a
// neighbour tile when fertilized and grown, if it has one.
func (c CropType) FertilizedGrow() (CropType, bool) {
	switch c {
	case CropYoungLeafPlant, CropLeafPlant:
		return CropLeafShoot, true
	case CropYoungKnifePlant, CropKnifePlant:
		return CropKnifeShoot, true
	case CropYoungHardPlant, CropHardPlant:
		return CropHardShoot, true
	default:
		return 0, false
	}
}

// Inosculate lists the (other shoot, hybrid result) pairs this stage
// can graft into when it touches another shoot.
func (c CropType) Inosculate() []struct {
	With    CropType
	Product CropType
} {
	switch c {
	case CropHardShoot:
		return []struct {
			With    CropType
			Product CropType
		}{
			{CropLeafShoot, CropHardDiscPlant},
			{CropKnifeShoot, CropHardKnifePlant},
		}
	case CropKnifeShoot:
		return []struct {
			With    CropType
			Product CropType
		}{
			{CropLeafShoot, CropSawPlant},
		}
	}
	return nil
}

const (
	cropWatered    uint8 = 1 << 7
	cropFertilized uint8 = 1 << 6
)

// Crop is a growing plant occupying a tile: its type plus watered/
// fertilized state flags.
type Crop struct {
	Type  CropType
	Flags uint8
}

func newCrop(t CropType) Crop { return Crop{Type: t} }

func GreenSeed() Crop  { return newCrop(CropGreenSeed) }
func YellowSeed() Crop { return newCrop(CropYellowSeed) }
func BrownSeed() Crop  { return newCrop(CropBrownSeed) }

func (c Crop) Watered() bool    { return c.Flags&cropWatered != 0 }
func (c Crop) Fertilized() bool { return c.Flags&cropFertilized != 0 }

func (c Crop) water() Crop      { c.Flags |= cropWatered; return c }
func (c Crop) fertilize() Crop  { c.Flags |= cropFertilized; return c }

// Interactions lists watering/fertilizing as available interactions
// when the crop hasn't yet received them.
func (c Crop) Interactions() []Interactable {
	interactions := c.Type.Interactions()
	if !c.Watered() {
		interactions = append(interactions, Transform(InteractWater, 1, CropStructure(c.water())))
	}
	if !c.Fertilized() {
		if _, ok := c.Type.FertilizedGrow(); ok {
			interactions = append(interactions, Transform(InteractFertilize, 1, CropStructure(c.fertilize())))
		}
	}
	return interactions
}

func (c Crop) Description() string {
	description := c.Type.Describe()
	if !c.Watered() {
		description += ". Needs water"
	}
	if !c.Fertilized() {
		if _, ok := c.Type.FertilizedGrow(); ok {
			description += ". Can be fertilized"
		}
	}
	return description
}

// Grow advances this crop one stage if it is watered, returning the
// number of ticks to wait, the tile's new structure, and optionally a
// shoot structure to spread into a neighbour (only when fertilized and
// the stage has a FertilizedGrow target).
func (c Crop) Grow() (ticks int64, into Structure, spread Structure, hasSpread bool, ok bool) {
	if !c.Watered() {
		return 0, Structure{}, Structure{}, false, false
	}
	if c.Fertilized() {
		if shootType, has := c.Type.FertilizedGrow(); has {
			spread = CropStructure(Crop{Type: shootType})
			hasSpread = true
		}
	}
	if steps, next, has := c.Type.Next(); has {
		return steps, CropStructure(Crop{Type: next}), spread, hasSpread, true
	}
	if steps, structure, has := c.Type.Grow(); has {
		return steps, structure, spread, hasSpread, true
	}
	return 0, Structure{}, Structure{}, false, false
}

// Join attempts inosculation with another structure touching this
// crop's tile.
func (c Crop) Join(other Structure) (Structure, bool) {
	if other.Kind != StructCrop {
		return Structure{}, false
	}
	for _, pair := range c.Type.Inosculate() {
		if pair.With == other.Crop.Type {
			return CropStructure(Crop{Type: pair.Product}), true
		}
	}
	return Structure{}, false
}

func (c Crop) Sprite() Sprite { return c.Type.Sprite() }
