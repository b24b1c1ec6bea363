// Package editor implements the pointer-interaction state machine for one
// annotation session. The editor owns the document and its history, consumes
// the event vocabulary the window shell produces (pointer gestures, tool and
// style changes, text input, undo/redo) and guarantees that every committed
// mutation lands in history exactly once.
//
// All methods must be called from a single goroutine; the editor has no
// internal locking by design.
package editor

import (
	"image/color"

	"github.com/example/snapmark/internal/document"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/render"
)

// Phase is the gesture state between pointer press and release.
type Phase int

const (
	Idle Phase = iota
	Drawing
	Resizing
	Marquee
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Resizing:
		return "resizing"
	case Marquee:
		return "marquee"
	}
	return "phase?"
}

// HandleSize is the edge length of the corner resize handles.
const HandleSize = 10

// Style is the ambient styling new items inherit.
type Style struct {
	Color color.RGBA
	Width float64
}

// Measurer reports the rendered extent of a text label so committed boxes
// match what gets drawn.
type Measurer func(text string) (w, h float64)

type resizeState struct {
	target item.Boxed
	corner geom.Corner
	start  geom.Rect
}

type textSession struct {
	target  *item.Text
	pending []rune
}

// Editor is the interaction state machine.
type Editor struct {
	doc  *document.Document
	hist *history.History

	tool       item.Tool
	style      Style
	background color.RGBA

	phase   Phase
	draft   item.Item
	anchor  geom.Point
	resize  *resizeState
	marquee geom.Rect
	text    *textSession

	measure Measurer
}

// Option configures an Editor.
type Option func(*Editor)

// WithBackground sets the canvas background color eraser strokes paint with.
func WithBackground(c color.RGBA) Option {
	return func(e *Editor) { e.background = c }
}

// WithStyle sets the initial ambient color and line width.
func WithStyle(s Style) Option {
	return func(e *Editor) { e.style = s }
}

// WithTool sets the initially active tool.
func WithTool(t item.Tool) Option {
	return func(e *Editor) { e.tool = t }
}

// WithMeasurer overrides how text extents are measured.
func WithMeasurer(m Measurer) Option {
	return func(e *Editor) { e.measure = m }
}

// New builds an editor for a fresh session. The baseline (empty) document is
// recorded as the history floor.
func New(opts ...Option) *Editor {
	e := &Editor{
		doc:        document.New(),
		tool:       item.ToolPen,
		style:      Style{Color: color.RGBA{R: 220, G: 38, B: 38, A: 255}, Width: 2},
		background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		measure:    render.MeasureText,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = history.New(e.doc.Items())
	return e
}

// Items returns the committed collection in creation order.
func (e *Editor) Items() []item.Item { return e.doc.Items() }

// Draft returns the item under construction during a Drawing gesture, or nil.
func (e *Editor) Draft() item.Item { return e.draft }

// Phase returns the current gesture state.
func (e *Editor) Phase() Phase { return e.phase }

// Tool returns the active tool.
func (e *Editor) Tool() item.Tool { return e.tool }

// Style returns the ambient style.
func (e *Editor) Style() Style { return e.style }

// Marquee returns the rubber-band rectangle while a marquee drag is active.
func (e *Editor) Marquee() (geom.Rect, bool) { return e.marquee, e.phase == Marquee }

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Selected returns the selected items in creation order.
func (e *Editor) Selected() []item.Item { return e.doc.Selected() }

// PointerDown begins a drag gesture at p according to the active tool. The
// shell is expected to deliver taps through Tap instead, so a press here
// always precedes movement.
func (e *Editor) PointerDown(p geom.Point) {
	if e.phase != Idle {
		return
	}
	e.commitPendingText()
	switch {
	case e.tool == item.ToolSelect:
		if target, corner, ok := e.grabHandle(p); ok {
			e.resize = &resizeState{target: target, corner: corner, start: target.Rect()}
			e.phase = Resizing
			return
		}
		e.doc.ClearSelection()
		e.anchor = p
		e.marquee = geom.RectFromPoints(p, p)
		e.phase = Marquee
	case e.tool.Freehand():
		e.draft = item.NewStroke(e.tool, p, e.style.Color, e.style.Width, e.background)
		e.phase = Drawing
	case e.tool == item.ToolArrow:
		e.draft = item.NewArrow(p, e.style.Color, e.style.Width)
		e.anchor = p
		e.phase = Drawing
	case e.tool == item.ToolRect || e.tool == item.ToolCircle:
		e.draft = item.NewShape(e.tool, p, e.style.Color, e.style.Width)
		e.anchor = p
		e.phase = Drawing
	case e.tool == item.ToolText:
		// Text items are created on tap, never by drag.
	}
}

// PointerMove advances the active gesture; outside a gesture it is a no-op.
func (e *Editor) PointerMove(p geom.Point) {
	switch e.phase {
	case Resizing:
		e.resize.target.SetRect(geom.ResizeTo(e.resize.start, e.resize.corner, p))
	case Marquee:
		e.marquee = geom.RectFromPoints(e.anchor, p)
	case Drawing:
		switch it := e.draft.(type) {
		case *item.Stroke:
			it.Append(p)
		case *item.Shape:
			it.End = p
		case *item.Arrow:
			it.End = p
		}
	}
}

// PointerUp ends the gesture at p, committing whatever it produced.
func (e *Editor) PointerUp(p geom.Point) {
	switch e.phase {
	case Resizing:
		changed := e.resize.target.Rect() != e.resize.start
		e.resize = nil
		e.phase = Idle
		if changed {
			e.commit()
		}
	case Marquee:
		// A zero-area marquee selects nothing, including the degenerate
		// one-dimensional drag.
		if e.marquee.W > 0 && e.marquee.H > 0 {
			e.doc.SelectWithin(e.marquee)
		}
		e.marquee = geom.Rect{}
		e.phase = Idle
	case Drawing:
		e.phase = Idle
		e.finishDraft(p)
	}
}

// Tap handles a press and release with no intervening movement.
func (e *Editor) Tap(p geom.Point) {
	if e.phase != Idle {
		return
	}
	e.commitPendingText()
	switch e.tool {
	case item.ToolText:
		t := item.NewText(p, e.style.Color, e.style.Width)
		e.doc.Append(t)
		e.text = &textSession{target: t}
	case item.ToolSelect:
		e.doc.SelectAt(p)
	default:
		// A tap with a drawing tool leaves no mark.
	}
}

// finishDraft appends the completed draft unless its geometry is degenerate:
// a stroke needs at least two points, an arrow a direction, a shape some
// extent.
func (e *Editor) finishDraft(p geom.Point) {
	draft := e.draft
	e.draft = nil
	switch it := draft.(type) {
	case *item.Stroke:
		if len(it.Points) < 2 {
			return
		}
	case *item.Shape:
		it.End = p
		if it.Rect().Empty() {
			return
		}
	case *item.Arrow:
		it.End = p
		if it.Start == it.End {
			return
		}
	default:
		return
	}
	e.doc.Append(draft)
	e.commit()
}

// grabHandle looks for a corner handle of a selected, resizable item under p,
// scanning front-most first to match picking order.
func (e *Editor) grabHandle(p geom.Point) (item.Boxed, geom.Corner, bool) {
	items := e.doc.Items()
	for i := len(items) - 1; i >= 0; i-- {
		target, ok := items[i].(item.Boxed)
		if !ok || !target.Base().Selected {
			continue
		}
		for corner, hr := range geom.HandleRects(target.Rect(), HandleSize) {
			if hr.Contains(p) {
				return target, geom.Corner(corner), true
			}
		}
	}
	return nil, 0, false
}

// SetTool switches the active tool. Switching away while a text session is
// open commits the session first.
func (e *Editor) SetTool(t item.Tool) {
	if t == e.tool {
		return
	}
	e.commitPendingText()
	e.tool = t
}

// SetColor makes c the ambient color and recolors the selected items. Only an
// edit that changes at least one item reaches history.
func (e *Editor) SetColor(c color.RGBA) {
	e.style.Color = c
	if e.doc.SetSelectedColor(c) > 0 {
		e.commit()
	}
}

// SetLineWidth makes w the ambient width and resizes the selected items'
// strokes under the same no-op rule as SetColor.
func (e *Editor) SetLineWidth(w float64) {
	if w <= 0 {
		return
	}
	e.style.Width = w
	if e.doc.SetSelectedWidth(w) > 0 {
		e.commit()
	}
}

// Undo restores the previous snapshot; restored items arrive deselected. It
// reports whether anything changed. An open text session is abandoned rather
// than committed, since committing would immediately be undone.
func (e *Editor) Undo() bool {
	if e.phase != Idle {
		return false
	}
	e.cancelText()
	items, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.doc.Replace(items)
	return true
}

// Redo reapplies the most recently undone snapshot.
func (e *Editor) Redo() bool {
	if e.phase != Idle {
		return false
	}
	e.cancelText()
	items, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.doc.Replace(items)
	return true
}

// DeleteSelection removes the selected items; deleting nothing stays out of
// history.
func (e *Editor) DeleteSelection() {
	if e.phase != Idle {
		return
	}
	if e.doc.RemoveSelected() > 0 {
		e.commit()
	}
}

// SelectAll flags every item selected.
func (e *Editor) SelectAll() {
	if e.phase != Idle {
		return
	}
	e.doc.SelectAll()
}

func (e *Editor) commit() { e.hist.Commit(e.doc.Items()) }
