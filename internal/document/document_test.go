package document

import (
	"image/color"
	"testing"

	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
)

var (
	red  = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	blue = color.RGBA{R: 37, G: 99, B: 235, A: 255}
)

func rectItem(a, b geom.Point) *item.Shape {
	s := item.NewShape(item.ToolRect, a, red, 2)
	s.End = b
	return s
}

func TestPickTopmostPrefersLatest(t *testing.T) {
	d := New()
	bottom := rectItem(geom.Pt(0, 0), geom.Pt(50, 50))
	top := rectItem(geom.Pt(10, 10), geom.Pt(60, 60))
	d.Append(bottom)
	d.Append(top)

	got := d.PickTopmost(geom.Pt(30, 30))
	if got != item.Item(top) {
		t.Errorf("expected the later item to win the overlap")
	}

	if d.PickTopmost(geom.Pt(500, 500)) != nil {
		t.Error("miss should return nil")
	}
}

func TestSelectAtClearsThenSets(t *testing.T) {
	d := New()
	a := rectItem(geom.Pt(0, 0), geom.Pt(20, 20))
	b := rectItem(geom.Pt(100, 100), geom.Pt(120, 120))
	d.Append(a)
	d.Append(b)
	a.Selected = true

	picked := d.SelectAt(geom.Pt(110, 110))
	if picked != item.Item(b) {
		t.Fatalf("picked %v, want the second rect", picked)
	}
	if a.Selected {
		t.Error("previous selection should have been cleared")
	}
	if !b.Selected {
		t.Error("picked item should be selected")
	}

	if d.SelectAt(geom.Pt(999, 999)) != nil {
		t.Fatal("expected a miss")
	}
	if b.Selected {
		t.Error("a miss must leave nothing selected")
	}
}

func TestSelectWithinUsesItemRules(t *testing.T) {
	d := New()
	inside := rectItem(geom.Pt(10, 10), geom.Pt(20, 20))
	outside := rectItem(geom.Pt(200, 200), geom.Pt(220, 220))
	stroke := item.NewStroke(item.ToolPen, geom.Pt(0, 0), red, 2, color.RGBA{})
	stroke.Append(geom.Pt(100, 100))
	d.Append(inside)
	d.Append(outside)
	d.Append(stroke)

	// Marquee covers the first rect and overlaps the stroke's bounding box
	// without containing any of its vertices.
	n := d.SelectWithin(geom.Rect{X: 5, Y: 5, W: 45, H: 45})
	if n != 1 {
		t.Fatalf("SelectWithin matched %d items, want 1", n)
	}
	if !inside.Selected || outside.Selected || stroke.Selected {
		t.Errorf("selection flags wrong: inside=%v outside=%v stroke=%v",
			inside.Selected, outside.Selected, stroke.Selected)
	}
}

func TestRemoveSelected(t *testing.T) {
	d := New()
	a := rectItem(geom.Pt(0, 0), geom.Pt(10, 10))
	b := rectItem(geom.Pt(20, 20), geom.Pt(30, 30))
	c := rectItem(geom.Pt(40, 40), geom.Pt(50, 50))
	d.Append(a)
	d.Append(b)
	d.Append(c)
	a.Selected = true
	c.Selected = true

	if got := d.RemoveSelected(); got != 2 {
		t.Fatalf("RemoveSelected = %d, want 2", got)
	}
	if d.Len() != 1 || d.Items()[0] != item.Item(b) {
		t.Errorf("expected only the middle item to remain")
	}
	if got := d.RemoveSelected(); got != 0 {
		t.Errorf("second RemoveSelected = %d, want 0", got)
	}
}

func TestRemoveByIdentity(t *testing.T) {
	d := New()
	a := rectItem(geom.Pt(0, 0), geom.Pt(10, 10))
	d.Append(a)

	if !d.Remove(a) {
		t.Fatal("Remove should find the item")
	}
	if d.Remove(a) {
		t.Error("removing twice should report false")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d after removal", d.Len())
	}
}

func TestSetSelectedColorCountsChanges(t *testing.T) {
	d := New()
	a := rectItem(geom.Pt(0, 0), geom.Pt(10, 10))
	b := rectItem(geom.Pt(20, 20), geom.Pt(30, 30))
	eraser := item.NewStroke(item.ToolEraser, geom.Pt(0, 0), red, 4, color.RGBA{R: 9})
	d.Append(a)
	d.Append(b)
	d.Append(eraser)
	d.SelectAll()

	if got := d.SetSelectedColor(blue); got != 2 {
		t.Fatalf("SetSelectedColor = %d, want 2 (erasers keep their color)", got)
	}
	if a.Color != blue || b.Color != blue {
		t.Error("selected shapes should be recolored")
	}
	if eraser.Color != (color.RGBA{R: 9}) {
		t.Error("eraser must keep the canvas background color")
	}

	if got := d.SetSelectedColor(blue); got != 0 {
		t.Errorf("repeat recolor = %d, want 0", got)
	}
}

func TestSetSelectedWidthSkipsHighlighter(t *testing.T) {
	d := New()
	pen := item.NewStroke(item.ToolPen, geom.Pt(0, 0), red, 2, color.RGBA{})
	hl := item.NewStroke(item.ToolHighlighter, geom.Pt(0, 0), red, 2, color.RGBA{})
	d.Append(pen)
	d.Append(hl)
	d.SelectAll()

	if got := d.SetSelectedWidth(6); got != 1 {
		t.Fatalf("SetSelectedWidth = %d, want 1", got)
	}
	if pen.Width != 6 {
		t.Errorf("pen width = %v, want 6", pen.Width)
	}
	if hl.Width != item.HighlighterWidth {
		t.Errorf("highlighter width = %v, must stay fixed", hl.Width)
	}
}
