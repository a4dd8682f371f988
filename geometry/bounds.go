package geometry

// Rect is an axis-aligned 2D region. Both edges are part of the region.
//
// Children produced by Split are numbered so that bit 0 of the child index
// selects the upper half along X and bit 1 the upper half along Y.
type Rect struct {
	Min Vector2
	Max Vector2
}

func NewRect(min, max Vector2) Rect {
	return Rect{Min: min, Max: max}
}

// Square returns the square region of the given side length centered on c.
func Square(c Vector2, size float64) Rect {
	half := Vector2{size / 2, size / 2}
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

func (r Rect) Dimensions() int {
	return 2
}

func (r Rect) Center() Vector2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Size returns the extent along X.
func (r Rect) Size() float64 {
	return r.Max.X - r.Min.X
}

func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

func (r Rect) Split(child int) Rect {
	c := r.Center()
	out := r
	if child&1 != 0 {
		out.Min.X = c.X
	} else {
		out.Max.X = c.X
	}
	if child&2 != 0 {
		out.Min.Y = c.Y
	} else {
		out.Max.Y = c.Y
	}
	return out
}

// ChildIndex returns the index of the child of r containing p. A point lying
// on a split line belongs to the lower child.
func (r Rect) ChildIndex(p Vector2) int {
	c := r.Center()
	index := 0
	if p.X > c.X {
		index |= 1
	}
	if p.Y > c.Y {
		index |= 2
	}
	return index
}

// Corners returns the four corners in child index order.
func (r Rect) Corners() [4]Vector2 {
	return [4]Vector2{
		r.Min,
		{r.Max.X, r.Min.Y},
		{r.Min.X, r.Max.Y},
		r.Max,
	}
}

// Valid reports whether r is finite and has a positive extent on every axis.
func (r Rect) Valid() bool {
	return r.Min.IsFinite() && r.Max.IsFinite() &&
		r.Max.X > r.Min.X && r.Max.Y > r.Min.Y
}

// Box is an axis-aligned 3D region. All faces are part of the region.
//
// Children produced by Split are numbered so that bit k of the child index
// selects the upper half along axis k.
type Box struct {
	Min Vector3
	Max Vector3
}

func NewBox(min, max Vector3) Box {
	return Box{Min: min, Max: max}
}

// Cube returns the cube of the given side length centered on c.
func Cube(c Vector3, size float64) Box {
	half := Vector3{size / 2, size / 2, size / 2}
	return Box{Min: c.Sub(half), Max: c.Add(half)}
}

func (b Box) Dimensions() int {
	return 3
}

func (b Box) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along X.
func (b Box) Size() float64 {
	return b.Max.X - b.Min.X
}

func (b Box) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func (b Box) Split(child int) Box {
	c := b.Center()
	out := b
	for axis := 0; axis < 3; axis++ {
		if child&(1<<axis) != 0 {
			out.Min = out.Min.WithComponent(axis, c.Component(axis))
		} else {
			out.Max = out.Max.WithComponent(axis, c.Component(axis))
		}
	}
	return out
}

// ChildIndex returns the index of the child of b containing p. A point lying
// on a split plane belongs to the lower child.
func (b Box) ChildIndex(p Vector3) int {
	c := b.Center()
	index := 0
	for axis := 0; axis < 3; axis++ {
		if p.Component(axis) > c.Component(axis) {
			index |= 1 << axis
		}
	}
	return index
}

// Valid reports whether b is finite and has a positive extent on every axis.
func (b Box) Valid() bool {
	return b.Min.IsFinite() && b.Max.IsFinite() &&
		b.Max.X > b.Min.X && b.Max.Y > b.Min.Y && b.Max.Z > b.Min.Z
}
