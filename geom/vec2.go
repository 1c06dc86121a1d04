package geom

import (
	"encoding/json"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a continuous 2D position or velocity, backed by mathgl's
// float32 vector for the arithmetic, with the domain's own rounding
// and conversions to Pos layered on top (mirrors vec2.rs).
type Vec2 struct {
	v mgl32.Vec2
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{mgl32.Vec2{x, y}}
}

func FromPos(p Pos) Vec2 {
	return Vec2{mgl32.Vec2{float32(p.X), float32(p.Y)}}
}

func (v Vec2) X() float32 { return v.v[0] }
func (v Vec2) Y() float32 { return v.v[1] }

type vec2JSON struct {
	X, Y float32
}

// MarshalJSON encodes Vec2 by its coordinates; mgl32.Vec2 has no
// exported fields of its own to serialize directly.
func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal(vec2JSON{X: v.v[0], Y: v.v[1]})
}

func (v *Vec2) UnmarshalJSON(data []byte) error {
	var raw vec2JSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.v = mgl32.Vec2{raw.X, raw.Y}
	return nil
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.v.Add(o.v)} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.v.Sub(o.v)} }
func (v Vec2) Scale(n float32) Vec2 {
	return Vec2{v.v.Mul(n)}
}

func (v Vec2) Len() float32 {
	return v.v.Len()
}

// TryNormalize returns the unit vector in v's direction, or false if v
// is (near) zero length.
func (v Vec2) TryNormalize() (Vec2, bool) {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}, false
	}
	return Vec2{v.v.Mul(1 / l)}, true
}

func (v Vec2) Floor() Pos {
	return Pos{int32(math.Floor(float64(v.v[0]))), int32(math.Floor(float64(v.v[1])))}
}

func (v Vec2) Ceil() Pos {
	return Pos{int32(math.Ceil(float64(v.v[0]))), int32(math.Ceil(float64(v.v[1])))}
}

func (v Vec2) Round() Pos {
	return Pos{int32(math.Round(float64(v.v[0]))), int32(math.Round(float64(v.v[1])))}
}

// Rect is an axis-aligned rectangle in continuous coordinates, used for
// collision/bounds checks against the tile grid before rounding to an
// Area.
type Rect struct {
	Min, Max Vec2
}

func NewRect(min, max Vec2) Rect {
	return Rect{Min: min, Max: max}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X() >= r.Min.X() && p.X() < r.Max.X() && p.Y() >= r.Min.Y() && p.Y() < r.Max.Y()
}

// ToArea rounds the rect outward to the smallest enclosing integer Area.
func (r Rect) ToArea() Area {
	min := r.Min.Floor()
	max := r.Max.Ceil()
	return Area{Min: min, Max: max}
}
