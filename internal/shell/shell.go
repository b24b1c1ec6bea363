// Package shell runs the interactive annotation window: it paints the
// document over the captured image and translates window-system input into
// the editor's event vocabulary. All editor access happens on the event-loop
// goroutine.
package shell

import (
	"image"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/export"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

const (
	statusHeight = 20
	// tapSlop is how far the pointer may travel between press and release
	// and still count as a tap.
	tapSlop      = 3
	messageDelay = 2 * time.Second
)

// Shell owns the annotation window for one editing session.
type Shell struct {
	base     *image.RGBA
	ed       *editor.Editor
	sink     *export.Sink
	notifier *notify.Notifier
	theme    *theme.Theme
	output   string
	log      *logrus.Entry

	onClose   func()
	closeOnce sync.Once
}

// Option configures a Shell.
type Option func(*Shell)

// WithSink sets the export sink save and copy actions go through.
func WithSink(s *export.Sink) Option {
	return func(sh *Shell) { sh.sink = s }
}

// WithNotifier raises desktop notifications for save and copy actions.
func WithNotifier(n *notify.Notifier) Option {
	return func(sh *Shell) { sh.notifier = n }
}

// WithTheme sets the UI palette.
func WithTheme(t *theme.Theme) Option {
	return func(sh *Shell) { sh.theme = t }
}

// WithOutput sets the file path the save action writes to; empty derives a
// timestamped name through the sink.
func WithOutput(path string) Option {
	return func(sh *Shell) { sh.output = path }
}

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) Option {
	return func(sh *Shell) { sh.onClose = fn }
}

// WithLogger routes shell logging through log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(sh *Shell) { sh.log = log.WithField("component", "shell") }
}

// New builds a Shell editing annotations over base.
func New(base *image.RGBA, ed *editor.Editor, opts ...Option) *Shell {
	sh := &Shell{
		base:  render.ToRGBA(base),
		ed:    ed,
		theme: theme.Default(),
		log:   logrus.StandardLogger().WithField("component", "shell"),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Flatten renders the current document over the base image.
func (sh *Shell) Flatten() *image.RGBA {
	return render.Flatten(sh.base, sh.ed.Items())
}

// Run executes the window loop until the user quits.
func (sh *Shell) Run() { driver.Main(sh.main) }

func (sh *Shell) notifyClose() {
	sh.closeOnce.Do(func() {
		if sh.onClose != nil {
			sh.onClose()
		}
	})
}

func (sh *Shell) main(s screen.Screen) {
	defer sh.notifyClose()

	tb := buildToolbar(sh.theme)
	width := sh.base.Bounds().Dx() + toolbarWidth
	height := sh.base.Bounds().Dy() + statusHeight
	if height < tb.minHeight() {
		height = tb.minHeight()
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Snapmark"})
	if err != nil {
		sh.log.WithError(err).Error("Failed to open window")
		return
	}
	defer w.Release()

	var (
		pressed   bool
		dragging  bool
		pressPt   image.Point
		message   string
		messageAt time.Time
	)

	say := func(text string) {
		message = text
		messageAt = time.Now()
		sh.log.Info(text)
	}

	save := func() {
		if sh.sink == nil {
			say("no export sink configured")
			return
		}
		path, err := sh.sink.SaveFile(sh.Flatten(), sh.output)
		if err != nil {
			sh.log.WithError(err).Error("Save failed")
			say("save failed: " + err.Error())
			return
		}
		say("saved " + path)
		if sh.notifier != nil {
			sh.notifier.Save(path)
		}
	}

	copyOut := func() {
		if sh.sink == nil {
			say("no export sink configured")
			return
		}
		if err := sh.sink.CopyClipboard(sh.Flatten()); err != nil {
			sh.log.WithError(err).Error("Copy failed")
			say("copy failed: " + err.Error())
			return
		}
		say("copied to clipboard")
		if sh.notifier != nil {
			sh.notifier.Copy("annotated image")
		}
	}

	repaint := func() { w.Send(paint.Event{}) }

	activate := func(b button) {
		switch b.kind {
		case toolButton:
			sh.ed.SetTool(b.tool)
		case swatchButton:
			sh.ed.SetColor(b.color)
		case widthButton:
			sh.ed.SetLineWidth(b.width)
		case actionButton:
			switch b.action {
			case actionUndo:
				sh.ed.Undo()
			case actionRedo:
				sh.ed.Redo()
			case actionDelete:
				sh.ed.DeleteSelection()
			case actionSave:
				save()
			case actionCopy:
				copyOut()
			}
		}
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			repaint()
		case paint.Event:
			if time.Since(messageAt) > messageDelay {
				message = ""
			}
			sh.paintFrame(s, w, tb, width, height, message)
		case mouse.Event:
			pt := image.Pt(int(e.X), int(e.Y))
			switch {
			case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft:
				if b, ok := tb.hit(pt); ok {
					activate(b)
					repaint()
					continue
				}
				pressed = true
				dragging = false
				pressPt = pt
			case e.Direction == mouse.DirNone && pressed:
				if !dragging && exceedsTapSlop(pressPt, pt) {
					dragging = true
					sh.ed.PointerDown(canvasPoint(pressPt))
				}
				if dragging {
					sh.ed.PointerMove(canvasPoint(pt))
					repaint()
				}
			case e.Direction == mouse.DirRelease && pressed:
				if dragging {
					sh.ed.PointerUp(canvasPoint(pt))
				} else {
					sh.ed.Tap(canvasPoint(pt))
				}
				pressed = false
				dragging = false
				repaint()
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if sh.ed.TextActive() {
				if sh.handleTextKey(e) {
					repaint()
				}
				continue
			}
			if quit := sh.handleKey(e, save, copyOut); quit {
				return
			}
			repaint()
		}
	}
}

// handleTextKey feeds one key press into the open text session. It reports
// whether the display changed.
func (sh *Shell) handleTextKey(e key.Event) bool {
	switch e.Code {
	case key.CodeReturnEnter:
		sh.ed.CommitText(sh.ed.PendingText())
	case key.CodeEscape:
		sh.ed.CancelText()
	case key.CodeDeleteBackspace:
		sh.ed.DeleteTextRune()
	default:
		if e.Rune <= 0 {
			return false
		}
		sh.ed.AppendText(string(e.Rune))
	}
	return true
}

// handleKey dispatches a key press outside text entry; it reports whether
// the shell should quit.
func (sh *Shell) handleKey(e key.Event, save, copyOut func()) bool {
	if e.Modifiers&key.ModControl != 0 {
		switch unicode.ToLower(e.Rune) {
		case 'z':
			if e.Modifiers&key.ModShift != 0 {
				sh.ed.Redo()
			} else {
				sh.ed.Undo()
			}
		case 'y':
			sh.ed.Redo()
		case 'a':
			sh.ed.SelectAll()
		case 's':
			save()
		case 'c':
			copyOut()
		}
		return false
	}
	if tool, ok := toolForKey(e.Rune); ok {
		sh.ed.SetTool(tool)
		return false
	}
	switch e.Code {
	case key.CodeDeleteBackspace, key.CodeDeleteForward:
		sh.ed.DeleteSelection()
		return false
	case key.CodeEscape:
		return true
	}
	switch e.Rune {
	case 'q', 'Q':
		return true
	}
	return false
}

// toolForKey maps single-letter hotkeys to tools.
func toolForKey(r rune) (item.Tool, bool) {
	switch unicode.ToLower(r) {
	case 's':
		return item.ToolSelect, true
	case 'p':
		return item.ToolPen, true
	case 'h':
		return item.ToolHighlighter, true
	case 'e':
		return item.ToolEraser, true
	case 'a':
		return item.ToolArrow, true
	case 'x':
		return item.ToolRect, true
	case 'o':
		return item.ToolCircle, true
	case 't':
		return item.ToolText, true
	}
	return 0, false
}

// canvasPoint converts a window point to editor coordinates.
func canvasPoint(p image.Point) geom.Point {
	return geom.Pt(float64(p.X-toolbarWidth), float64(p.Y))
}

// exceedsTapSlop reports whether the pointer moved far enough from the press
// point to count as a drag.
func exceedsTapSlop(a, b image.Point) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx > tapSlop || dy > tapSlop
}
