// Package noise implements the deterministic pseudo-random primitives
// the world generator and random-tick scheduler build on: a Java-Random
// style bit mixer, positional white noise, weighted index picking, and
// a multi-octave bilinear "fractal" height map. Every function here is
// a pure function of its inputs — no global or per-process state — so
// that the same seed always generates the same world.
package noise

import (
	"github.com/jmdejong/dezl/geom"
	"github.com/segmentio/fasthash/fnv1a"
)

const (
	multiplier uint64 = 0x5DEECE66D
	addend     uint64 = 0xB
	mask       uint64 = (1 << 48) - 1
)

// HashU32 mixes a 32-bit seed into another 32-bit value using the same
// linear congruential step as java.util.Random, keeping the high 32
// bits of the 48-bit state. This exact bit pattern is part of the
// world's determinism contract: changing it would reseed every world.
func HashU32(seed uint32) uint32 {
	num := (uint64(seed) ^ multiplier) & mask
	return uint32(((num*multiplier + addend) & mask) >> 16)
}

// RandomFloat turns a seed into a float in [0, 1).
func RandomFloat(seed uint32) float32 {
	return float32(HashU32(seed)&0xffff) / float32(0x10000)
}

// RandomizePos combines a position's two coordinates into a single
// seed, order-sensitive (x is folded in through y's hash, not averaged
// with it) so that neighbouring positions do not share low-order bits.
func RandomizePos(pos geom.Pos) uint32 {
	return HashU32(uint32(pos.X) ^ HashU32(uint32(pos.Y)))
}

// Pick deterministically selects one of choices by seed, uniformly.
func Pick[T any](seed uint32, choices []T) T {
	return choices[int(seed)%len(choices)]
}

// Weighted pairs a value with its relative chance in PickWeighted.
type Weighted[T any] struct {
	Value  T
	Chance uint32
}

// PickWeighted deterministically selects one of choices with
// probability proportional to its Chance. The subtractive-remainder
// walk (rind -= chance; return when rind < 0) must run over every
// entry including the last: a seed that lands in the final choice's
// slice needs rind to go negative exactly there, so Go's case mirrors
// the original's i32 arithmetic (not an early unsigned-underflow
// shortcut) to keep the last element reachable.
func PickWeighted[T any](seed uint32, choices []Weighted[T]) T {
	var total uint32
	for _, c := range choices {
		total += c.Chance
	}
	rind := int32(seed % total)
	for _, c := range choices {
		rind -= int32(c.Chance)
		if rind < 0 {
			return c.Value
		}
	}
	panic("weighted picking exceeds index")
}

// WhiteNoise generates uncorrelated deterministic noise per position,
// seeded once and reused across many positions.
type WhiteNoise struct {
	seed uint32
}

func NewWhiteNoise(seed uint32) WhiteNoise {
	return WhiteNoise{seed: HashU32(seed)}
}

func (w WhiteNoise) Gen(pos geom.Pos) uint32 {
	return HashU32(w.seed ^ RandomizePos(pos))
}

func (w WhiteNoise) GenF(pos geom.Pos) float32 {
	return RandomFloat(w.Gen(pos))
}

// MixHash combines a domain tag with a seed using FNV-1a, for
// non-deterministic-contract bucketing paths (e.g. scratch hash maps)
// where speed matters more than matching a specific bit pattern; this
// is never used on the world-generation hot path, which must stay
// bit-exact per HashU32 above.
func MixHash(tag string, seed uint32) uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddString64(h, tag)
	h = fnv1a.AddUint64(h, uint64(seed))
	return h
}
