// Package notify raises desktop notifications for capture and export
// events.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/snapmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture fires when a capture completes.
	EventCapture Event = "capture"
	// EventSave fires when an export is written to disk.
	EventSave Event = "save"
	// EventCopy fires when an export lands on the clipboard.
	EventCopy Event = "copy"
)

// Preferences controls which events notify and how they read.
type Preferences struct {
	Title     string
	Enabled   map[Event]bool
	Templates map[Event]string
}

// DefaultPreferences returns the stock notification settings. Every event
// starts disabled; configuration switches them on.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   "Snapmark",
		Enabled: map[Event]bool{},
		Templates: map[Event]string{
			EventCapture: "Captured %s",
			EventSave:    "Saved %s",
			EventCopy:    "Copied %s to clipboard",
		},
	}
}

// ApplyEnv overlays SNAPMARK_NOTIFY_* environment variables onto prefs.
func ApplyEnv(prefs Preferences) Preferences {
	if v := strings.TrimSpace(os.Getenv("SNAPMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	overlay := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	overlay("SNAPMARK_NOTIFY_CAPTURE_TEXT", EventCapture)
	overlay("SNAPMARK_NOTIFY_SAVE_TEXT", EventSave)
	overlay("SNAPMARK_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// notifyFn dispatches to the host platform; swapped by tests.
var notifyFn = platform.Notify

// Notifier sends OS notifications according to the configured preferences.
type Notifier struct {
	prefs Preferences
	log   *logrus.Entry
}

// New returns a Notifier over a private copy of prefs.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{
		Title:     prefs.Title,
		Enabled:   make(map[Event]bool, len(prefs.Enabled)),
		Templates: make(map[Event]string, len(prefs.Templates)),
	}
	for k, v := range prefs.Enabled {
		cloned.Enabled[k] = v
	}
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{
		prefs: cloned,
		log:   logrus.StandardLogger().WithField("component", "notify"),
	}
}

// Enable toggles a single event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.prefs.Enabled[event] = enabled
}

// Capture announces a completed capture with an optional image preview.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := previewFile(img); err != nil {
			n.log.WithError(err).Debug("notification preview skipped")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save announces a file export, pointing the notification at the file.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard export.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.prefs.Enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := notifyFn(n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("Notification failed")
	}
}

func previewFile(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "snapmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Debug("remove notification preview")
		}
	}
	return path, cleanup, nil
}
