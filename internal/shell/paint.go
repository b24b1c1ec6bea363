package shell

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/render"
)

// paintFrame composes one frame into a screen buffer and publishes it.
func (sh *Shell) paintFrame(s screen.Screen, w screen.Window, tb *toolbar, width, height int, message string) {
	if width <= 0 || height <= 0 {
		return
	}
	buf, err := s.NewBuffer(image.Pt(width, height))
	if err != nil {
		sh.log.WithError(err).Warn("Frame buffer allocation failed")
		return
	}
	defer buf.Release()
	frame := buf.RGBA()

	render.FillRect(frame, frame.Bounds(), sh.theme.Background)
	sh.paintCanvas(frame)
	sh.paintOverlays(frame)
	tb.draw(frame, sh.ed)
	sh.paintStatus(frame, width, height, message)

	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}

// paintCanvas flattens the document, the in-progress draft and the pending
// text preview, then blits the result right of the toolbar.
func (sh *Shell) paintCanvas(frame *image.RGBA) {
	composite := render.Flatten(sh.base, sh.ed.Items())
	if draft := sh.ed.Draft(); draft != nil {
		render.DrawItem(composite, draft)
	}
	if target := sh.ed.TextTarget(); target != nil {
		anchor := target.Anchor
		render.DrawText(composite,
			int(math.Round(anchor.X)), int(math.Round(anchor.Y))+4,
			sh.ed.PendingText()+"_", sh.ed.Style().Color)
	}
	dst := composite.Bounds().Add(image.Pt(toolbarWidth, 0))
	draw.Draw(frame, dst, composite, composite.Bounds().Min, draw.Src)
}

// paintOverlays draws the selection affordances: dashed bounds and corner
// handles on selected items, and the live marquee.
func (sh *Shell) paintOverlays(frame *image.RGBA) {
	for _, it := range sh.ed.Selected() {
		render.DrawDashedRect(frame, windowRect(it.Bounds()), sh.theme.Selection, 4)
		boxed, ok := it.(item.Boxed)
		if !ok {
			continue
		}
		for _, hr := range geom.HandleRects(boxed.Rect(), editor.HandleSize) {
			render.FillRect(frame, windowRect(hr), sh.theme.Handle)
		}
	}
	if marquee, ok := sh.ed.Marquee(); ok && !marquee.Empty() {
		render.DrawDashedRect(frame, windowRect(marquee), sh.theme.Marquee, 4)
	}
}

func (sh *Shell) paintStatus(frame *image.RGBA, width, height int, message string) {
	bar := image.Rect(toolbarWidth, height-statusHeight, width, height)
	render.FillRect(frame, bar, sh.theme.ToolbarBackground)
	if message == "" {
		message = sh.ed.Tool().String()
		if sel := len(sh.ed.Selected()); sel > 0 {
			message += "  |  selection active"
		}
	}
	render.DrawText(frame, toolbarWidth+6, height-6, message, sh.theme.Foreground)
}

// draw paints the toolbar strip with the editor's live state: active tool,
// ambient style, and undo/redo availability.
func (tb *toolbar) draw(frame *image.RGBA, ed *editor.Editor) {
	th := tb.theme
	render.FillRect(frame, image.Rect(0, 0, toolbarWidth, frame.Bounds().Dy()), th.ToolbarBackground)
	style := ed.Style()
	for _, b := range tb.buttons {
		switch b.kind {
		case swatchButton:
			render.FillRect(frame, b.rect, b.color)
			border := th.ButtonBorder
			if b.color == style.Color {
				border = th.Selection
			}
			render.DrawRect(frame, b.rect, border, 1)
		default:
			bg := th.ButtonBackground
			if tb.active(b, ed, style) {
				bg = th.ButtonBackgroundPress
			}
			if tb.dimmed(b, ed) {
				bg = th.ToolbarBackground
			}
			render.FillRect(frame, b.rect, bg)
			render.DrawRect(frame, b.rect, th.ButtonBorder, 1)
			render.DrawText(frame, b.rect.Min.X+4, b.rect.Max.Y-7, b.label, th.ButtonText)
		}
	}
}

func (tb *toolbar) active(b button, ed *editor.Editor, style editor.Style) bool {
	switch b.kind {
	case toolButton:
		return b.tool == ed.Tool()
	case widthButton:
		return b.width == style.Width
	}
	return false
}

// dimmed reports whether the button's action would be a no-op right now.
func (tb *toolbar) dimmed(b button, ed *editor.Editor) bool {
	if b.kind != actionButton {
		return false
	}
	switch b.action {
	case actionUndo:
		return !ed.CanUndo()
	case actionRedo:
		return !ed.CanRedo()
	case actionDelete:
		return len(ed.Selected()) == 0
	}
	return false
}

// windowRect converts a canvas-space rectangle to window coordinates.
func windowRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X))+toolbarWidth, int(math.Round(r.Y)),
		int(math.Round(r.MaxX()))+toolbarWidth, int(math.Round(r.MaxY())),
	)
}
