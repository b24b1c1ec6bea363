package item

import (
	"image/color"

	"github.com/example/snapmark/internal/geom"
)

// Stroke is a freehand polyline drawn with the pen, highlighter or eraser.
type Stroke struct {
	Core
	Kind   Tool
	Points []geom.Point
}

// NewStroke starts a freehand stroke at p. Highlighter strokes ignore the
// ambient width; eraser strokes take the canvas background color so they
// paint the backdrop back over whatever lies beneath them.
func NewStroke(kind Tool, p geom.Point, col color.RGBA, width float64, background color.RGBA) *Stroke {
	switch kind {
	case ToolHighlighter:
		width = HighlighterWidth
	case ToolEraser:
		col = background
	}
	return &Stroke{Core: newCore(col, width), Kind: kind, Points: []geom.Point{p}}
}

func (s *Stroke) Tool() Tool  { return s.Kind }
func (s *Stroke) Base() *Core { return &s.Core }

// Append extends the polyline with the next sampled pointer position.
func (s *Stroke) Append(p geom.Point) { s.Points = append(s.Points, p) }

func (s *Stroke) Bounds() geom.Rect { return geom.BoundsOf(s.Points) }

func (s *Stroke) Hit(p geom.Point) bool {
	slop := strokeHitSlop
	if half := s.Width / 2; half > slop {
		slop = half
	}
	return geom.DistanceToPolyline(p, s.Points) <= slop
}

// HitRect matches only when an actual vertex falls inside r; a stroke whose
// bounding box overlaps the marquee but whose points all lie outside is not
// captured.
func (s *Stroke) HitRect(r geom.Rect) bool {
	for _, p := range s.Points {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

func (s *Stroke) Clone() Item {
	c := *s
	c.Points = append([]geom.Point(nil), s.Points...)
	return &c
}

// Shape is a rectangle or circle dragged out between two corner points.
type Shape struct {
	Core
	Kind       Tool
	Start, End geom.Point
}

// NewShape creates a zero-extent shape anchored at p; dragging moves End.
func NewShape(kind Tool, p geom.Point, col color.RGBA, width float64) *Shape {
	return &Shape{Core: newCore(col, width), Kind: kind, Start: p, End: p}
}

func (s *Shape) Tool() Tool  { return s.Kind }
func (s *Shape) Base() *Core { return &s.Core }

// Rect returns the normalized rectangle spanned by the two corners.
func (s *Shape) Rect() geom.Rect { return geom.RectFromPoints(s.Start, s.End) }

// SetRect replaces the shape's geometry with r.
func (s *Shape) SetRect(r geom.Rect) {
	s.Start = geom.Pt(r.X, r.Y)
	s.End = geom.Pt(r.MaxX(), r.MaxY())
}

func (s *Shape) Bounds() geom.Rect        { return s.Rect() }
func (s *Shape) Hit(p geom.Point) bool    { return s.Rect().Contains(p) }
func (s *Shape) HitRect(r geom.Rect) bool { return s.Rect().Intersects(r) }
func (s *Shape) Clone() Item              { c := *s; return &c }

// Arrow points from Start to End.
type Arrow struct {
	Core
	Start, End geom.Point
}

// NewArrow creates a zero-length arrow anchored at p.
func NewArrow(p geom.Point, col color.RGBA, width float64) *Arrow {
	return &Arrow{Core: newCore(col, width), Start: p, End: p}
}

func (a *Arrow) Tool() Tool        { return ToolArrow }
func (a *Arrow) Base() *Core       { return &a.Core }
func (a *Arrow) Bounds() geom.Rect { return geom.RectFromPoints(a.Start, a.End) }
func (a *Arrow) Rect() geom.Rect   { return a.Bounds() }

// SetRect fits the arrow into r, keeping each endpoint on the side of the box
// it was on so resizing never flips the direction.
func (a *Arrow) SetRect(r geom.Rect) {
	sx, ex := r.X, r.MaxX()
	if a.Start.X > a.End.X {
		sx, ex = ex, sx
	}
	sy, ey := r.Y, r.MaxY()
	if a.Start.Y > a.End.Y {
		sy, ey = ey, sy
	}
	a.Start, a.End = geom.Pt(sx, sy), geom.Pt(ex, ey)
}

// Hit uses the bounding box expanded by a fixed margin; deliberately loose so
// thin diagonal arrows stay grabbable.
func (a *Arrow) Hit(p geom.Point) bool {
	return a.Bounds().Expand(arrowHitMargin).Contains(p)
}

func (a *Arrow) HitRect(r geom.Rect) bool { return a.Bounds().Intersects(r) }
func (a *Arrow) Clone() Item              { c := *a; return &c }

// Text is a label anchored at its insertion point. Box is recomputed from the
// measured extent each time the content is committed, vertically centered on
// the anchor.
type Text struct {
	Core
	Anchor  geom.Point
	Box     geom.Rect
	Content string
}

// NewText creates an empty label at p. The box stays zero-sized until the
// first commit supplies a measured extent.
func NewText(p geom.Point, col color.RGBA, width float64) *Text {
	return &Text{Core: newCore(col, width), Anchor: p, Box: geom.Rect{X: p.X, Y: p.Y}}
}

func (t *Text) Tool() Tool        { return ToolText }
func (t *Text) Base() *Core       { return &t.Core }
func (t *Text) Bounds() geom.Rect { return t.Box }
func (t *Text) Rect() geom.Rect   { return t.Box }

// SetRect replaces the box and re-derives the anchor as the mid-left point.
func (t *Text) SetRect(r geom.Rect) {
	t.Box = r
	t.Anchor = geom.Pt(r.X, r.Y+r.H/2)
}

// SetContent stores the committed string and sizes the box to the measured
// extent, anchored at the insertion point with vertical centering.
func (t *Text) SetContent(content string, w, h float64) {
	t.Content = content
	t.Box = geom.Rect{X: t.Anchor.X, Y: t.Anchor.Y - h/2, W: w, H: h}
}

func (t *Text) Hit(p geom.Point) bool    { return t.Box.Contains(p) }
func (t *Text) HitRect(r geom.Rect) bool { return t.Box.Intersects(r) }
func (t *Text) Clone() Item              { c := *t; return &c }
