package shell

import (
	"image"
	"image/color"

	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/theme"
)

const (
	toolbarWidth = 96
	buttonHeight = 22
	buttonGap    = 2
	swatchSize   = 18
	swatchGap    = 3
	sectionGap   = 8
)

type buttonKind int

const (
	toolButton buttonKind = iota
	actionButton
	swatchButton
	widthButton
)

const (
	actionUndo   = "undo"
	actionRedo   = "redo"
	actionDelete = "delete"
	actionSave   = "save"
	actionCopy   = "copy"
)

// button is one clickable toolbar region. Exactly one of tool, action,
// color and width is meaningful, per kind.
type button struct {
	kind   buttonKind
	label  string
	rect   image.Rectangle
	tool   item.Tool
	action string
	color  color.RGBA
	width  float64
}

// toolbar is the static left-hand control strip. Layout is computed once;
// the window never resizes it.
type toolbar struct {
	theme   *theme.Theme
	buttons []button
}

// strokeWidths are the line-width choices offered in the toolbar.
var strokeWidths = []float64{1, 2, 4, 8}

// buildToolbar lays out tool buttons, the color palette, width options and
// the action buttons top to bottom.
func buildToolbar(th *theme.Theme) *toolbar {
	tb := &toolbar{theme: th}
	y := buttonGap

	addRow := func(b button) {
		b.rect = image.Rect(buttonGap, y, toolbarWidth-buttonGap, y+buttonHeight)
		tb.buttons = append(tb.buttons, b)
		y += buttonHeight + buttonGap
	}

	for _, t := range []struct {
		label string
		tool  item.Tool
	}{
		{"S:Select", item.ToolSelect},
		{"P:Pen", item.ToolPen},
		{"H:Mark", item.ToolHighlighter},
		{"E:Erase", item.ToolEraser},
		{"A:Arrow", item.ToolArrow},
		{"X:Rect", item.ToolRect},
		{"O:Circle", item.ToolCircle},
		{"T:Text", item.ToolText},
	} {
		addRow(button{kind: toolButton, label: t.label, tool: t.tool})
	}

	y += sectionGap
	perRow := (toolbarWidth - buttonGap) / (swatchSize + swatchGap)
	if perRow < 1 {
		perRow = 1
	}
	for i, col := range th.Palette {
		cx := buttonGap + (i%perRow)*(swatchSize+swatchGap)
		cy := y + (i/perRow)*(swatchSize+swatchGap)
		tb.buttons = append(tb.buttons, button{
			kind:  swatchButton,
			rect:  image.Rect(cx, cy, cx+swatchSize, cy+swatchSize),
			color: col,
		})
	}
	if n := len(th.Palette); n > 0 {
		rows := (n + perRow - 1) / perRow
		y += rows*(swatchSize+swatchGap) + sectionGap
	}

	for _, wd := range strokeWidths {
		addRow(button{kind: widthButton, label: widthLabel(wd), width: wd})
	}

	y += sectionGap
	for _, a := range []struct{ label, action string }{
		{"Undo", actionUndo},
		{"Redo", actionRedo},
		{"Delete", actionDelete},
		{"Save", actionSave},
		{"Copy", actionCopy},
	} {
		addRow(button{kind: actionButton, label: a.label, action: a.action})
	}

	return tb
}

func widthLabel(w float64) string {
	switch w {
	case 1:
		return "Fine"
	case 2:
		return "Thin"
	case 4:
		return "Wide"
	default:
		return "Heavy"
	}
}

// minHeight returns the window height needed to show every control.
func (tb *toolbar) minHeight() int {
	max := 0
	for _, b := range tb.buttons {
		if b.rect.Max.Y > max {
			max = b.rect.Max.Y
		}
	}
	return max + buttonGap + statusHeight
}

// hit returns the button under p, if any.
func (tb *toolbar) hit(p image.Point) (button, bool) {
	if p.X >= toolbarWidth {
		return button{}, false
	}
	for _, b := range tb.buttons {
		if p.In(b.rect) {
			return b, true
		}
	}
	return button{}, false
}
