// Package render rasterizes annotation items over a base bitmap. Flatten is
// the export path; the exported primitives are shared by the window shell for
// live painting and by the headless draw command.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
)

const (
	arrowHeadLength = 15.0
	arrowHeadAngle  = math.Pi / 6
)

var face = basicfont.Face7x13

// ToRGBA returns img as an *image.RGBA with a zero-based origin, copying
// only when the representation differs.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Flatten renders items over a copy of base in creation order, so later
// items draw on top, and returns the composite. Neither base nor the item
// collection is modified.
func Flatten(base *image.RGBA, items []item.Item) *image.RGBA {
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	for _, it := range items {
		DrawItem(out, it)
	}
	return out
}

// DrawItem rasterizes a single item using its tool's fixed visual rule.
func DrawItem(dst *image.RGBA, it item.Item) {
	switch v := it.(type) {
	case *item.Stroke:
		if v.Kind == item.ToolHighlighter {
			drawPolylineTranslucent(dst, v.Points, v.Color, int(v.Width))
		} else {
			DrawPolyline(dst, v.Points, v.Color, int(v.Width))
		}
	case *item.Shape:
		r := toImageRect(v.Rect())
		if v.Kind == item.ToolCircle {
			DrawEllipse(dst, r, v.Color, int(v.Width))
		} else {
			DrawRect(dst, r, v.Color, int(v.Width))
		}
	case *item.Arrow:
		DrawArrow(dst,
			round(v.Start.X), round(v.Start.Y),
			round(v.End.X), round(v.End.Y),
			v.Color, int(v.Width))
	case *item.Text:
		if v.Content != "" {
			DrawLabel(dst, v.Box, v.Content, v.Color)
		}
	}
}

// MeasureText returns the pixel extent of s in the built-in face.
func MeasureText(s string) (w, h float64) {
	return float64(font.MeasureString(face, s).Ceil()), float64(face.Height)
}

// DrawLabel draws s centered in box.
func DrawLabel(dst *image.RGBA, box geom.Rect, s string, col color.RGBA) {
	w, h := MeasureText(s)
	c := box.Center()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(round(c.X-w/2), round(c.Y-h/2)+face.Ascent),
	}
	d.DrawString(s)
}

// DrawText draws s with its baseline starting at (x, y).
func DrawText(dst *image.RGBA, x, y int, s string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// DrawPolyline strokes the points as connected line segments. A single point
// paints one stamp of the pen.
func DrawPolyline(dst *image.RGBA, pts []geom.Point, col color.RGBA, thick int) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		setThickPixel(dst, round(pts[0].X), round(pts[0].Y), col, thick)
		return
	}
	for i := 1; i < len(pts); i++ {
		DrawLine(dst,
			round(pts[i-1].X), round(pts[i-1].Y),
			round(pts[i].X), round(pts[i].Y),
			col, thick)
	}
}

// drawPolylineTranslucent strokes the polyline at half opacity. The stroke is
// stamped into a scratch layer first so overlapping stamps blend exactly once.
func drawPolylineTranslucent(dst *image.RGBA, pts []geom.Point, col color.RGBA, thick int) {
	layer := image.NewRGBA(dst.Bounds())
	DrawPolyline(layer, pts, col, thick)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		li := layer.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if layer.Pix[li+3] != 0 {
				for c := 0; c < 4; c++ {
					dst.Pix[di+c] = uint8((uint16(dst.Pix[di+c]) + uint16(layer.Pix[li+c])) / 2)
				}
			}
			li += 4
			di += 4
		}
	}
}

// DrawLine draws a straight line with the given thickness.
func DrawLine(dst *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, thick int) {
	dx := abs(x1 - x0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	dy := -abs(y1 - y0)
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setThickPixel(dst, x0, y0, col, thick)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawArrow draws a shaft from (x0, y0) to (x1, y1) plus two head segments
// angled 30 degrees off the shaft direction.
func DrawArrow(dst *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, thick int) {
	DrawLine(dst, x0, y0, x1, y1, col, thick)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	for _, a := range []float64{angle + arrowHeadAngle, angle - arrowHeadAngle} {
		hx := round(float64(x1) - arrowHeadLength*math.Cos(a))
		hy := round(float64(y1) - arrowHeadLength*math.Sin(a))
		DrawLine(dst, x1, y1, hx, hy, col, thick)
	}
}

// DrawRect strokes the outline of r.
func DrawRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, thick int) {
	r = r.Canon()
	DrawLine(dst, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, col, thick)
	DrawLine(dst, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, col, thick)
	DrawLine(dst, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, col, thick)
	DrawLine(dst, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, col, thick)
}

// DrawEllipse strokes the ellipse inscribed in r, approximated by line
// segments.
func DrawEllipse(dst *image.RGBA, r image.Rectangle, col color.RGBA, thick int) {
	r = r.Canon()
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	steps := int(math.Max(24, 2*(rx+ry)))
	px := round(cx + rx)
	py := round(cy)
	for i := 1; i <= steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		x := round(cx + rx*math.Cos(t))
		y := round(cy + ry*math.Sin(t))
		DrawLine(dst, px, py, x, y, col, thick)
		px, py = x, y
	}
}

// FillRect fills r with col.
func FillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// DrawDashedRect strokes r with a dashed single-pixel outline; used for
// selection affordances, never for exported output.
func DrawDashedRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, dash int) {
	if dash < 1 {
		dash = 4
	}
	r = r.Canon()
	for x := r.Min.X; x <= r.Max.X; x++ {
		if (x/dash)%2 == 0 {
			dst.SetRGBA(x, r.Min.Y, col)
			dst.SetRGBA(x, r.Max.Y, col)
		}
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		if (y/dash)%2 == 0 {
			dst.SetRGBA(r.Min.X, y, col)
			dst.SetRGBA(r.Max.X, y, col)
		}
	}
}

func setThickPixel(dst *image.RGBA, x, y int, col color.RGBA, thick int) {
	if thick <= 1 {
		dst.SetRGBA(x, y, col)
		return
	}
	r := thick / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				dst.SetRGBA(x+dx, y+dy, col)
			}
		}
	}
}

func toImageRect(r geom.Rect) image.Rectangle {
	return image.Rect(round(r.X), round(r.Y), round(r.MaxX()), round(r.MaxY()))
}

func round(v float64) int { return int(math.Round(v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
