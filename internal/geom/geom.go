// Package geom provides the point and rectangle math the annotation editor is
// built on. Everything here is a pure function over value types; coordinates
// are device-independent float64 units.
package geom

import "math"

// Point is a location in editor coordinate space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle. W and H are never negative for
// rectangles produced by this package.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints returns the normalized rectangle spanned by two arbitrary
// corner points: minimum origin, absolute extent.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(a.X - b.X),
		H: math.Abs(a.Y - b.Y),
	}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Empty reports whether the rectangle has no extent in either direction.
func (r Rect) Empty() bool { return r.W == 0 && r.H == 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersects reports whether r and o share any point, touching edges
// included.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Expand grows the rectangle by m units on every side. A negative m shrinks
// it; callers are responsible for not shrinking past the center.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// BoundsOf returns the tightest rectangle covering every point. The zero Rect
// is returned for an empty slice.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// DistanceToPolyline returns the minimum distance from p to any vertex of the
// polyline. This is a vertex approximation rather than true segment distance;
// pointer-sampled strokes are dense enough that the difference does not
// matter for hit-testing.
func DistanceToPolyline(p Point, pts []Point) float64 {
	best := math.Inf(1)
	for _, v := range pts {
		if d := p.Distance(v); d < best {
			best = d
		}
	}
	return best
}

// Corner identifies one of a rectangle's four corners.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return "corner?"
}

// HandleRects returns the four resize handles of r: size-by-size squares
// centered on each corner, indexed by Corner.
func HandleRects(r Rect, size float64) [4]Rect {
	half := size / 2
	at := func(x, y float64) Rect {
		return Rect{X: x - half, Y: y - half, W: size, H: size}
	}
	return [4]Rect{
		TopLeft:     at(r.X, r.Y),
		TopRight:    at(r.MaxX(), r.Y),
		BottomLeft:  at(r.X, r.MaxY()),
		BottomRight: at(r.MaxX(), r.MaxY()),
	}
}

// ResizeTo recomputes start with the dragged corner projected onto p while
// the opposite corner stays fixed. Extents clamp at zero instead of
// inverting, so dragging a handle past the far corner pins the edge there.
func ResizeTo(start Rect, c Corner, p Point) Rect {
	r := start
	switch c {
	case TopLeft:
		r.X = math.Min(p.X, start.MaxX())
		r.Y = math.Min(p.Y, start.MaxY())
		r.W = start.MaxX() - r.X
		r.H = start.MaxY() - r.Y
	case TopRight:
		r.Y = math.Min(p.Y, start.MaxY())
		r.W = math.Max(p.X-start.X, 0)
		r.H = start.MaxY() - r.Y
	case BottomLeft:
		r.X = math.Min(p.X, start.MaxX())
		r.W = start.MaxX() - r.X
		r.H = math.Max(p.Y-start.Y, 0)
	case BottomRight:
		r.W = math.Max(p.X-start.X, 0)
		r.H = math.Max(p.Y-start.Y, 0)
	}
	return r
}
