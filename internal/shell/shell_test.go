package shell

import (
	"image"
	"testing"

	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/theme"
)

func TestToolbarHit(t *testing.T) {
	tb := buildToolbar(theme.Default())

	b, ok := tb.hit(image.Pt(10, buttonGap+buttonHeight/2))
	if !ok {
		t.Fatal("expected first button to be hit")
	}
	if b.kind != toolButton || b.tool != item.ToolSelect {
		t.Fatalf("first button = %+v, want select tool", b)
	}

	if _, ok := tb.hit(image.Pt(toolbarWidth+1, 10)); ok {
		t.Error("hit outside the toolbar column")
	}
}

func TestToolbarLayoutCoversAllControls(t *testing.T) {
	th := theme.Default()
	tb := buildToolbar(th)

	tools, swatches, widths, actions := 0, 0, 0, 0
	for _, b := range tb.buttons {
		if b.rect.Empty() {
			t.Errorf("button %q has empty rect", b.label)
		}
		if b.rect.Max.X > toolbarWidth {
			t.Errorf("button %q overflows the toolbar", b.label)
		}
		switch b.kind {
		case toolButton:
			tools++
		case swatchButton:
			swatches++
		case widthButton:
			widths++
		case actionButton:
			actions++
		}
	}
	if tools != 8 {
		t.Errorf("tool buttons = %d, want 8", tools)
	}
	if swatches != len(th.Palette) {
		t.Errorf("swatches = %d, want %d", swatches, len(th.Palette))
	}
	if widths != len(strokeWidths) {
		t.Errorf("width options = %d, want %d", widths, len(strokeWidths))
	}
	if actions != 5 {
		t.Errorf("action buttons = %d, want 5", actions)
	}
	if tb.minHeight() <= 0 {
		t.Error("minHeight not positive")
	}
}

func TestToolbarButtonsDoNotOverlap(t *testing.T) {
	tb := buildToolbar(theme.Default())
	for i, a := range tb.buttons {
		for _, b := range tb.buttons[i+1:] {
			if a.rect.Overlaps(b.rect) {
				t.Fatalf("buttons %q and %q overlap", a.label, b.label)
			}
		}
	}
}

func TestExceedsTapSlop(t *testing.T) {
	origin := image.Pt(100, 100)
	if exceedsTapSlop(origin, image.Pt(102, 101)) {
		t.Error("small jitter should stay a tap")
	}
	if !exceedsTapSlop(origin, image.Pt(100, 104)) {
		t.Error("movement past the slop should become a drag")
	}
	if !exceedsTapSlop(origin, image.Pt(95, 100)) {
		t.Error("negative movement past the slop should become a drag")
	}
}

func TestCanvasPoint(t *testing.T) {
	p := canvasPoint(image.Pt(toolbarWidth+15, 40))
	if p.X != 15 || p.Y != 40 {
		t.Errorf("canvasPoint = %+v, want (15, 40)", p)
	}
}

func TestToolForKey(t *testing.T) {
	for r, want := range map[rune]item.Tool{
		's': item.ToolSelect,
		'P': item.ToolPen,
		'h': item.ToolHighlighter,
		'e': item.ToolEraser,
		'a': item.ToolArrow,
		'x': item.ToolRect,
		'o': item.ToolCircle,
		't': item.ToolText,
	} {
		got, ok := toolForKey(r)
		if !ok || got != want {
			t.Errorf("toolForKey(%q) = %v, %v; want %v", r, got, ok, want)
		}
	}
	if _, ok := toolForKey('z'); ok {
		t.Error("unmapped rune resolved to a tool")
	}
}
