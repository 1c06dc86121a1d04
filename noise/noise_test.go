package noise

import (
	"testing"

	"github.com/jmdejong/dezl/geom"
	"github.com/stretchr/testify/require"
)

func TestHashU32Deterministic(t *testing.T) {
	require.Equal(t, HashU32(42), HashU32(42))
	require.NotEqual(t, HashU32(42), HashU32(43))
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	w := NewWhiteNoise(7)
	p := geom.New(3, -5)
	require.Equal(t, w.Gen(p), w.Gen(p))
	require.Equal(t, NewWhiteNoise(7).Gen(p), w.Gen(p))
}

func TestPickWeightedCanPickLast(t *testing.T) {
	choices := []Weighted[int]{{10, 5}, {20, 1}}
	for i := uint32(0); i < 15; i++ {
		want := 10
		if i%6 >= 5 {
			want = 20
		}
		require.Equal(t, want, PickWeighted(i, choices), "seed %d", i)
	}
}

func TestPickWeightedSingleChoice(t *testing.T) {
	choices := []Weighted[string]{{"only", 1}}
	for i := uint32(0); i < 5; i++ {
		require.Equal(t, "only", PickWeighted(i, choices))
	}
}

func TestRandomFloatRange(t *testing.T) {
	for seed := uint32(0); seed < 1000; seed++ {
		f := RandomFloat(seed)
		require.GreaterOrEqual(t, f, float32(0))
		require.Less(t, f, float32(1))
	}
}

func TestFractalFactorOneMatchesWhiteNoise(t *testing.T) {
	seed := uint32(99)
	fr := NewFractal(seed, []Octave{{Factor: 1, Weight: 1}})
	p := geom.New(10, 10)
	want := NewWhiteNoise(HashU32(seed)).GenF(p)
	require.InDelta(t, float64(want), float64(fr.GenF(p)), 1e-6)
}

func TestFractalDeterministic(t *testing.T) {
	fr := NewFractal(5, []Octave{{Factor: 8, Weight: 0.6}, {Factor: 2, Weight: 0.4}})
	p := geom.New(-3, 14)
	require.Equal(t, fr.GenF(p), fr.GenF(p))
}
