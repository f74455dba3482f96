package spatial

// Box is an axis-aligned bounding rectangle in cell coordinates, derived per
// frame from a sprite's anchor and content size. Never persisted across
// frames.
type Box struct {
	X, Y int
	W, H int
}

// Empty reports a degenerate box. Degenerate boxes never intersect anything,
// including themselves.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Intersects reports whether two boxes overlap
func (b Box) Intersects(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.X < o.X+o.W && o.X < b.X+b.W &&
		b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

// Contains reports whether the point (x, y) is inside the box
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}
