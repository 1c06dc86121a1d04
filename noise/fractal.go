package noise

import "github.com/jmdejong/dezl/geom"

// Octave weights one noise frequency ("factor", a grid spacing in
// tiles) into a Fractal sum.
type Octave struct {
	Factor int32
	Weight float32
}

// Fractal is a multi-octave, bilinearly-interpolated noise field: at
// each octave positions are snapped to a coarser grid of spacing
// Factor and the four surrounding corners' white noise values are
// blended by the position's fractional offset within that cell. A
// Factor of 1 degenerates to plain per-tile white noise. This backs
// terrain height per the original LazyHeightMap.
type Fractal struct {
	seed   uint32
	octave []Octave
}

func NewFractal(seed uint32, octaves []Octave) Fractal {
	return Fractal{seed: seed, octave: append([]Octave(nil), octaves...)}
}

func (f Fractal) GenF(pos geom.Pos) float32 {
	seed := f.seed
	var total float32
	for _, o := range f.octave {
		seed = HashU32(seed)
		total += f.genOctave(pos, o.Factor, seed) * o.Weight
	}
	return total
}

func (f Fractal) genOctave(pos geom.Pos, factor int32, seed uint32) float32 {
	if factor == 1 {
		return NewWhiteNoise(seed).GenF(pos)
	}
	base := pos.Div(factor).Scale(factor)
	diff := pos.Sub(base)
	u := float32(diff.X) / float32(factor)
	v := float32(diff.Y) / float32(factor)
	wn := NewWhiteNoise(seed)
	corner := func(cx, cy int32, weight float32) float32 {
		c := geom.New(cx, cy).Scale(factor)
		return wn.GenF(base.Add(c)) * weight
	}
	return corner(0, 0, (1-u)*(1-v)) +
		corner(0, 1, (1-u)*v) +
		corner(1, 0, u*(1-v)) +
		corner(1, 1, u*v)
}
