package tile

import (
	"testing"

	"github.com/jmdejong/dezl/tick"
	"github.com/stretchr/testify/require"
)

func TestClearGrassRestoresDirt(t *testing.T) {
	tl := GroundOnly(GroundGrass1)
	result, ok := tl.Act(Action{Kind: ActionClear}, ItemHoe, 0)
	require.True(t, ok)
	require.True(t, result.HasRemainsGround)
	require.Equal(t, GroundDirt, result.RemainsGround)
}

func TestClearFailsOnBlockedStructure(t *testing.T) {
	tl := WithStructure(GroundGrass1, Structure{Kind: StructWall})
	_, ok := tl.Act(Action{Kind: ActionClear}, ItemHoe, 0)
	require.False(t, ok)
}

func TestChopTreeYieldsLog(t *testing.T) {
	tl := WithStructure(GroundDirt, Structure{Kind: StructTree})
	result, ok := tl.Act(NewInteractAction(InteractChop, 1, true), ItemStick, 0)
	require.True(t, ok)
	require.True(t, result.HasRemains)
	require.Equal(t, StructAir, result.Remains.Kind)
	require.Equal(t, []Item{ItemLog}, result.Items)
	require.Equal(t, uint(1), result.Cost[ItemStick])
}

func TestBuildClaimRequiresOpenBuildableGround(t *testing.T) {
	tl := GroundOnly(GroundDirt)
	result, ok := tl.Act(Action{Kind: ActionBuildClaim, BuildStructure: Structure{Kind: StructMarkStone}}, ItemMarkerStone, 0)
	require.True(t, ok)
	require.True(t, result.Claim)
	require.Equal(t, StructMarkStone, result.Remains.Kind)

	blocked := WithStructure(GroundDirt, Structure{Kind: StructWall})
	_, ok2 := blocked.Act(Action{Kind: ActionBuildClaim, BuildStructure: Structure{Kind: StructMarkStone}}, ItemMarkerStone, 0)
	require.False(t, ok2)
}

func TestSageExplainsInsteadOfActing(t *testing.T) {
	tl := WithStructure(GroundDirt, Structure{Kind: StructSage})
	result, ok := tl.Act(Action{Kind: ActionClear}, ItemHoe, 0)
	require.True(t, ok)
	require.True(t, result.HasMessage)
	require.Equal(t, SoundExplain, result.SoundType)
}

func TestSageAllowsInspect(t *testing.T) {
	tl := WithStructure(GroundDirt, Structure{Kind: StructSage})
	result, ok := tl.Act(Action{Kind: ActionInspect}, ItemEyes, 0)
	require.True(t, ok)
	require.Contains(t, result.Message, "Dirt")
}

func TestCropGrowthChainGreenSeed(t *testing.T) {
	c := GreenSeed().water()
	_, into, _, _, ok := c.Grow()
	require.True(t, ok)
	require.Equal(t, StructCrop, into.Kind)
	require.Equal(t, CropGreenSeedling, into.Crop.Type)
}

func TestUnwateredCropDoesNotGrow(t *testing.T) {
	c := GreenSeed()
	_, _, _, _, ok := c.Grow()
	require.False(t, ok)
}

func TestFertilizedMaturePlantSpreadsShoot(t *testing.T) {
	c := Crop{Type: CropLeafPlant}.water().fertilize()
	_, into, spread, hasSpread, ok := c.Grow()
	require.True(t, ok)
	require.Equal(t, StructSeedingDiscLeaf, into.Kind)
	require.True(t, hasSpread)
	require.Equal(t, StructCrop, spread.Kind)
	require.Equal(t, CropLeafShoot, spread.Crop.Type)
}

func TestInosculation(t *testing.T) {
	hard := Crop{Type: CropHardShoot}
	leaf := Structure{Kind: StructCrop, Crop: Crop{Type: CropLeafShoot}}
	result, ok := hard.Join(leaf)
	require.True(t, ok)
	require.Equal(t, CropHardDiscPlant, result.Crop.Type)
}

func TestJoinedTriesBothDirections(t *testing.T) {
	hard := CropStructure(Crop{Type: CropHardShoot})
	leaf := CropStructure(Crop{Type: CropLeafShoot})
	result, ok := leaf.Joined(hard)
	require.True(t, ok)
	require.Equal(t, CropHardDiscPlant, result.Crop.Type)
}

func TestSameTickDeterministicHarvestRoll(t *testing.T) {
	tl := WithStructure(GroundDirt, Structure{Kind: StructStone})
	r1, ok1 := tl.Act(NewInteractAction(InteractSmash, 1, true), ItemStone, tick.Stamp(5))
	r2, ok2 := tl.Act(NewInteractAction(InteractSmash, 1, true), ItemStone, tick.Stamp(5))
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, r1.Items, r2.Items)
}
