package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowStyle controls the drop shadow composited behind exported images.
type ShadowStyle struct {
	Offset image.Point
	Blur   int
	Margin int
	Color  color.RGBA
}

// DefaultShadow returns the styling used when shadows are enabled without
// explicit settings.
func DefaultShadow() ShadowStyle {
	return ShadowStyle{
		Offset: image.Pt(0, 6),
		Blur:   12,
		Margin: 28,
		Color:  color.RGBA{A: 130},
	}
}

// AddShadow draws img onto a transparent canvas grown by the margin on every
// side, with a blurred rectangular shadow behind it. The input image is not
// modified.
func AddShadow(img image.Image, style ShadowStyle) *image.RGBA {
	b := img.Bounds()
	m := style.Margin
	if m < 0 {
		m = 0
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*m, b.Dy()+2*m))

	sil := image.Rect(
		m+style.Offset.X, m+style.Offset.Y,
		m+style.Offset.X+b.Dx(), m+style.Offset.Y+b.Dy(),
	).Intersect(out.Bounds())
	mask := blurredRectMask(out.Bounds().Dx(), out.Bounds().Dy(), sil, style.Blur)

	w := out.Bounds().Dx()
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < w; x++ {
			a := mask[y*w+x]
			if a == 0 {
				continue
			}
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(uint16(style.Color.R) * uint16(a) / 255),
				G: uint8(uint16(style.Color.G) * uint16(a) / 255),
				B: uint8(uint16(style.Color.B) * uint16(a) / 255),
				A: uint8(uint16(style.Color.A) * uint16(a) / 255),
			})
		}
	}

	draw.Draw(out, image.Rect(m, m, m+b.Dx(), m+b.Dy()), img, b.Min, draw.Over)
	return out
}

// blurredRectMask box-blurs the binary coverage of r over a w-by-h grid using
// a summed-area table. Values are coverage in [0, 255].
func blurredRectMask(w, h int, r image.Rectangle, blur int) []uint8 {
	if blur < 0 {
		blur = 0
	}
	sums := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		rowIn := y >= r.Min.Y && y < r.Max.Y
		for x := 0; x < w; x++ {
			v := 0
			if rowIn && x >= r.Min.X && x < r.Max.X {
				v = 255
			}
			sums[(y+1)*(w+1)+x+1] = v + sums[y*(w+1)+x+1] + sums[(y+1)*(w+1)+x] - sums[y*(w+1)+x]
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		y0 := clampInt(y-blur, 0, h)
		y1 := clampInt(y+blur+1, 0, h)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-blur, 0, w)
			x1 := clampInt(x+blur+1, 0, w)
			area := (x1 - x0) * (y1 - y0)
			if area <= 0 {
				continue
			}
			total := sums[y1*(w+1)+x1] - sums[y0*(w+1)+x1] - sums[y1*(w+1)+x0] + sums[y0*(w+1)+x0]
			out[y*w+x] = uint8(total / area)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
