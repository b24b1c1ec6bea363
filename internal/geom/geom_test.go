package geom

import (
	"math"
	"testing"
)

func TestRectFromPointsNormalizes(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want Rect
	}{
		{"down-right", Pt(10, 10), Pt(110, 60), Rect{X: 10, Y: 10, W: 100, H: 50}},
		{"up-left", Pt(110, 60), Pt(10, 10), Rect{X: 10, Y: 10, W: 100, H: 50}},
		{"down-left", Pt(110, 10), Pt(10, 60), Rect{X: 10, Y: 10, W: 100, H: 50}},
		{"degenerate", Pt(5, 5), Pt(5, 5), Rect{X: 5, Y: 5}},
	}
	for _, tc := range cases {
		if got := RectFromPoints(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: RectFromPoints(%v, %v) = %+v, want %+v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	for _, p := range []Point{Pt(10, 10), Pt(30, 30), Pt(20, 15)} {
		if !r.Contains(p) {
			t.Errorf("expected %v inside %+v", p, r)
		}
	}
	for _, p := range []Point{Pt(9.9, 10), Pt(31, 30), Pt(20, 30.5)} {
		if r.Contains(p) {
			t.Errorf("expected %v outside %+v", p, r)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, W: 10, H: 10}) {
		t.Error("overlapping rects should intersect")
	}
	if !a.Intersects(Rect{X: 10, Y: 0, W: 5, H: 5}) {
		t.Error("edge-touching rects should intersect")
	}
	if a.Intersects(Rect{X: 11, Y: 0, W: 5, H: 5}) {
		t.Error("separated rects should not intersect")
	}
}

func TestDistanceToPolyline(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(5, 5), Pt(10, 0)}
	got := DistanceToPolyline(Pt(5, 4), pts)
	if want := 1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("DistanceToPolyline = %v, want %v", got, want)
	}
	if !math.IsInf(DistanceToPolyline(Pt(0, 0), nil), 1) {
		t.Error("empty polyline should be infinitely far away")
	}
}

func TestBoundsOf(t *testing.T) {
	got := BoundsOf([]Point{Pt(4, 7), Pt(-2, 3), Pt(9, 5)})
	want := Rect{X: -2, Y: 3, W: 11, H: 4}
	if got != want {
		t.Errorf("BoundsOf = %+v, want %+v", got, want)
	}
	if got := BoundsOf(nil); got != (Rect{}) {
		t.Errorf("BoundsOf(nil) = %+v, want zero rect", got)
	}
}

func TestHandleRects(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	handles := HandleRects(r, 10)
	want := [4]Rect{
		TopLeft:     {X: 5, Y: 15, W: 10, H: 10},
		TopRight:    {X: 105, Y: 15, W: 10, H: 10},
		BottomLeft:  {X: 5, Y: 65, W: 10, H: 10},
		BottomRight: {X: 105, Y: 65, W: 10, H: 10},
	}
	if handles != want {
		t.Errorf("HandleRects = %+v, want %+v", handles, want)
	}
}

func TestResizeToHoldsOppositeCorner(t *testing.T) {
	start := Rect{X: 10, Y: 10, W: 100, H: 50}
	got := ResizeTo(start, TopLeft, Pt(20, 30))
	want := Rect{X: 20, Y: 30, W: 90, H: 30}
	if got != want {
		t.Errorf("ResizeTo top-left = %+v, want %+v", got, want)
	}
	got = ResizeTo(start, BottomRight, Pt(200, 100))
	want = Rect{X: 10, Y: 10, W: 190, H: 90}
	if got != want {
		t.Errorf("ResizeTo bottom-right = %+v, want %+v", got, want)
	}
}

func TestResizeToClampsAtZero(t *testing.T) {
	start := Rect{X: 10, Y: 10, W: 100, H: 50}
	got := ResizeTo(start, TopLeft, Pt(500, 500))
	if got.W < 0 || got.H < 0 {
		t.Fatalf("resize produced negative extent: %+v", got)
	}
	if got.W != 0 || got.H != 0 {
		t.Errorf("dragging past the fixed corner should clamp to zero, got %+v", got)
	}
	if got.X != start.MaxX() || got.Y != start.MaxY() {
		t.Errorf("clamped rect should pin to the fixed corner, got %+v", got)
	}
}
