package editor

import "github.com/example/snapmark/internal/item"

// TextActive reports whether an inline text session is open.
func (e *Editor) TextActive() bool { return e.text != nil }

// PendingText returns the text typed so far in the open session.
func (e *Editor) PendingText() string {
	if e.text == nil {
		return ""
	}
	return string(e.text.pending)
}

// TextTarget returns the provisional item of the open session, or nil; the
// shell draws the caret at its anchor.
func (e *Editor) TextTarget() *item.Text {
	if e.text == nil {
		return nil
	}
	return e.text.target
}

// AppendText adds keyboard input to the open session.
func (e *Editor) AppendText(s string) {
	if e.text == nil {
		return
	}
	e.text.pending = append(e.text.pending, []rune(s)...)
}

// DeleteTextRune removes the last pending rune.
func (e *Editor) DeleteTextRune() {
	if e.text == nil || len(e.text.pending) == 0 {
		return
	}
	e.text.pending = e.text.pending[:len(e.text.pending)-1]
}

// CommitText closes the open session with the final content, sizing the box
// to the measured extent. An empty commit removes the provisional item
// instead of keeping an empty label.
func (e *Editor) CommitText(content string) {
	if e.text == nil {
		return
	}
	target := e.text.target
	e.text = nil
	if content == "" {
		e.doc.Remove(target)
		return
	}
	w, h := e.measure(content)
	target.SetContent(content, w, h)
	e.commit()
}

// CancelText abandons the open session and removes its provisional item.
func (e *Editor) CancelText() { e.cancelText() }

func (e *Editor) cancelText() {
	if e.text == nil {
		return
	}
	target := e.text.target
	e.text = nil
	e.doc.Remove(target)
}

// commitPendingText force-commits whatever the open session holds; used when
// a tool switch or a new gesture implicitly ends text entry.
func (e *Editor) commitPendingText() {
	if e.text != nil {
		e.CommitText(string(e.text.pending))
	}
}
