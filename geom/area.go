package geom

// Area is an axis-aligned half-open rectangle of tile positions:
// [Min.X, Max.X) x [Min.Y, Max.Y).
type Area struct {
	Min, Max Pos
}

// NewArea builds an Area from a corner and a size. Width/height must be
// non-negative.
func NewArea(corner Pos, width, height int32) Area {
	return Area{Min: corner, Max: Pos{corner.X + width, corner.Y + height}}
}

// Between builds the smallest Area spanning two arbitrary corners,
// inclusive of both. Mirrors the original's Area::between helper used
// when a rectangle is described by two opposite points rather than a
// corner and a size.
func Between(a, b Pos) Area {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Area{Min: Pos{minX, minY}, Max: Pos{maxX + 1, maxY + 1}}
}

// Centered builds an area of the given size centered (rounding toward
// negative infinity, per Pos.Div) on center.
func Centered(center Pos, size Pos) Area {
	min := center.Sub(size.Div(2))
	return NewArea(min, size.X, size.Y)
}

// RandomPos deterministically picks a position within the area from a
// seed, uniformly across its width then height. Width must be
// positive.
func (a Area) RandomPos(rind uint32) Pos {
	w, h := uint32(a.Width()), uint32(a.Height())
	x := rind % w
	y := (rind / w) % h
	return Pos{a.Min.X + int32(x), a.Min.Y + int32(y)}
}

// Width and Height return the size of the area.
func (a Area) Width() int32  { return a.Max.X - a.Min.X }
func (a Area) Height() int32 { return a.Max.Y - a.Min.Y }

// Size returns the number of positions contained, as width*height.
func (a Area) Size() int64 {
	w, h := int64(a.Width()), int64(a.Height())
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains reports whether pos lies within the area.
func (a Area) Contains(pos Pos) bool {
	return pos.X >= a.Min.X && pos.X < a.Max.X && pos.Y >= a.Min.Y && pos.Y < a.Max.Y
}

// Center returns the area's approximate center (rounded toward zero).
func (a Area) Center() Pos {
	return Pos{(a.Min.X + a.Max.X) / 2, (a.Min.Y + a.Max.Y) / 2}
}

// Grow returns a new area expanded by n in every direction.
func (a Area) Grow(n int32) Area {
	return Area{Min: Pos{a.Min.X - n, a.Min.Y - n}, Max: Pos{a.Max.X + n, a.Max.Y + n}}
}

// Intersect returns the overlapping region of a and b; the result may
// have zero or negative size (check Size() == 0) if they don't overlap.
func (a Area) Intersect(b Area) Area {
	minX, minY := a.Min.X, a.Min.Y
	if b.Min.X > minX {
		minX = b.Min.X
	}
	if b.Min.Y > minY {
		minY = b.Min.Y
	}
	maxX, maxY := a.Max.X, a.Max.Y
	if b.Max.X < maxX {
		maxX = b.Max.X
	}
	if b.Max.Y < maxY {
		maxY = b.Max.Y
	}
	return Area{Min: Pos{minX, minY}, Max: Pos{maxX, maxY}}
}

// Overlaps reports whether a and b share any position.
func (a Area) Overlaps(b Area) bool {
	return a.Intersect(b).Size() > 0
}

// Subtract returns the set of non-overlapping rectangles covering
// a minus b: the edge strips of a that lie outside b.
func (a Area) Subtract(b Area) []Area {
	if !a.Overlaps(b) {
		return []Area{a}
	}
	var out []Area
	// top strip
	if b.Min.Y > a.Min.Y {
		out = append(out, Area{Pos{a.Min.X, a.Min.Y}, Pos{a.Max.X, minI32(b.Min.Y, a.Max.Y)}})
	}
	// bottom strip
	if b.Max.Y < a.Max.Y {
		out = append(out, Area{Pos{a.Min.X, maxI32(b.Max.Y, a.Min.Y)}, Pos{a.Max.X, a.Max.Y}})
	}
	top := maxI32(a.Min.Y, b.Min.Y)
	bottom := minI32(a.Max.Y, b.Max.Y)
	// left strip (restricted to the vertical band shared with b)
	if b.Min.X > a.Min.X && top < bottom {
		out = append(out, Area{Pos{a.Min.X, top}, Pos{minI32(b.Min.X, a.Max.X), bottom}})
	}
	// right strip
	if b.Max.X < a.Max.X && top < bottom {
		out = append(out, Area{Pos{maxI32(b.Max.X, a.Min.X), top}, Pos{a.Max.X, bottom}})
	}
	return out
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Iter calls f for every position in the area, in row-major order. The
// iteration stops early if f returns false.
func (a Area) Iter(f func(Pos) bool) {
	if a.Size() == 0 {
		return
	}
	for y := a.Min.Y; y < a.Max.Y; y++ {
		for x := a.Min.X; x < a.Max.X; x++ {
			if !f(Pos{x, y}) {
				return
			}
		}
	}
}

// Positions materializes every position in the area. Prefer Iter for
// large areas to avoid the allocation.
func (a Area) Positions() []Pos {
	n := a.Size()
	if n <= 0 {
		return nil
	}
	out := make([]Pos, 0, n)
	a.Iter(func(p Pos) bool {
		out = append(out, p)
		return true
	})
	return out
}
