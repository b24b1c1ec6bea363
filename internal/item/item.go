// Package item defines the annotation item model: a closed set of variants
// (freehand strokes, shapes, arrows, text labels) sharing a common core of
// identity and style. Items carry their own hit-testing so pickers can stay
// variant-agnostic.
package item

import (
	"image/color"

	"github.com/oklog/ulid/v2"

	"github.com/example/snapmark/internal/geom"
)

// Tool identifies the annotation mode an item was created with. The tag is
// fixed for the item's lifetime; the active tool only affects what new items
// get created.
type Tool int

const (
	ToolSelect Tool = iota
	ToolArrow
	ToolRect
	ToolCircle
	ToolText
	ToolHighlighter
	ToolPen
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolArrow:
		return "arrow"
	case ToolRect:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolText:
		return "text"
	case ToolHighlighter:
		return "highlighter"
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	}
	return "tool?"
}

// Freehand reports whether the tool records an append-only polyline.
func (t Tool) Freehand() bool {
	return t == ToolPen || t == ToolHighlighter || t == ToolEraser
}

// HighlighterWidth is the stroke width every highlighter uses, regardless of
// the ambient width setting.
const HighlighterWidth = 20.0

// strokeHitSlop is the minimum pick distance for thin freehand strokes.
const strokeHitSlop = 5.0

// arrowHitMargin widens an arrow's bounding box for hit-testing; a bare
// bounding box is too thin to grab for near-horizontal or vertical arrows.
const arrowHitMargin = 10.0

// Core carries the fields every variant shares. Selected is transient UI
// state and never survives a history snapshot.
type Core struct {
	ID       string
	Color    color.RGBA
	Width    float64
	Selected bool
}

func newCore(col color.RGBA, width float64) Core {
	return Core{ID: ulid.Make().String(), Color: col, Width: width}
}

// Item is one annotation in the document. The concrete variants are Stroke,
// Shape, Arrow and Text.
type Item interface {
	// Tool returns the variant tag fixed at creation.
	Tool() Tool
	// Base exposes the shared mutable fields.
	Base() *Core
	// Bounds returns the normalized bounding rectangle.
	Bounds() geom.Rect
	// Hit reports whether a click at p picks the item.
	Hit(p geom.Point) bool
	// HitRect reports whether the marquee rectangle r captures the item.
	HitRect(r geom.Rect) bool
	// Clone returns an independent deep copy.
	Clone() Item
}

// Boxed is implemented by variants whose geometry can be replaced wholesale
// with a rectangle, which is what makes them resizable by corner handles.
type Boxed interface {
	Item
	Rect() geom.Rect
	SetRect(geom.Rect)
}
