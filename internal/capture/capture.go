// Package capture acquires screen pixels from the desktop environment. A
// Provider hands back Pending futures so interactive flows can be cancelled
// without a late backend result leaking into the caller.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// Sentinels for errors.Is checks against capture failures.
var (
	ErrPermissionDenied = errors.New("screen capture permission denied")
	ErrNoDisplay        = errors.New("no display available")
	ErrStreamFailure    = errors.New("capture stream failed")
	ErrCancelled        = errors.New("capture cancelled")
)

// errNoPortal marks failures that mean the screenshot portal cannot serve
// requests at all, as opposed to refusing one.
var errNoPortal = errors.New("screenshot portal unavailable")

// Code classifies a capture failure.
type Code int

const (
	PermissionDenied Code = iota
	NoDisplay
	StreamFailure
	Cancelled
)

func (c Code) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case NoDisplay:
		return "no display"
	case StreamFailure:
		return "stream failure"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

func (c Code) sentinel() error {
	switch c {
	case PermissionDenied:
		return ErrPermissionDenied
	case NoDisplay:
		return ErrNoDisplay
	case Cancelled:
		return ErrCancelled
	}
	return ErrStreamFailure
}

// Error is the failure type returned by capture operations.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error code, so
// errors.Is(err, ErrCancelled) works through wrapping.
func (e *Error) Is(target error) bool { return target == e.Code.sentinel() }

func failure(op string, code Code, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// asError normalizes err into *Error, defaulting the code to StreamFailure.
func asError(op string, err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Code: StreamFailure, Op: op, Err: err}
}

// Mode selects what a capture request grabs.
type Mode int

const (
	// FullScreen grabs the entire virtual desktop.
	FullScreen Mode = iota
	// SelectionRect lets the user drag out a region interactively.
	SelectionRect
	// DisplayRect grabs the single display resolved from Request.Display.
	DisplayRect
	// FixedRect grabs Request.Rect in global desktop coordinates.
	FixedRect
)

func (m Mode) String() string {
	switch m {
	case FullScreen:
		return "fullscreen"
	case SelectionRect:
		return "selection"
	case DisplayRect:
		return "display"
	case FixedRect:
		return "rect"
	}
	return "unknown"
}

// Request describes a single capture.
type Request struct {
	Mode Mode
	// Display selects the display for DisplayRect: an index, "primary" or a
	// name fragment.
	Display string
	// Rect is the region for FixedRect, in global desktop coordinates.
	Rect          image.Rectangle
	IncludeCursor bool
}

// Result is the outcome of a capture. Exactly one of Image and Err is set.
type Result struct {
	Image *image.RGBA
	Err   error
}

// Pending is an in-flight capture. The result is delivered on Done exactly
// once to a single consumer; Cancel is safe to call at any time, from any
// goroutine, repeatedly.
type Pending struct {
	done   chan Result
	cancel context.CancelFunc
	once   sync.Once
}

// Done returns the channel the result is delivered on.
func (p *Pending) Done() <-chan Result { return p.done }

// Wait blocks until the result arrives or ctx ends. A context end cancels
// the capture and returns the cancellation result.
func (p *Pending) Wait(ctx context.Context) Result {
	select {
	case r := <-p.done:
		return r
	case <-ctx.Done():
		p.Cancel()
		return <-p.done
	}
}

// Cancel abandons the capture. The pending result resolves to ErrCancelled
// unless it was already delivered; a late backend result is discarded.
func (p *Pending) Cancel() {
	p.cancel()
	p.resolve(Result{Err: failure("capture", Cancelled, context.Canceled)})
}

func (p *Pending) resolve(r Result) {
	p.once.Do(func() { p.done <- r })
}

// Backend hooks, swapped by tests.
var (
	portalScreenshotFn = portalScreenshot
	displaysFn         = listDisplays
	displayCaptureFn   = captureRect
	desktopCaptureFn   = desktopCapture
	x11CaptureFn       = x11Capture
)

// Provider runs captures against the platform backends: the desktop portal
// first, then direct display capture when the portal is unavailable.
type Provider struct {
	log *logrus.Entry
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger routes provider logging through log.
func WithLogger(log logrus.FieldLogger) ProviderOption {
	return func(p *Provider) { p.log = log.WithField("component", "capture") }
}

// NewProvider returns a Provider backed by the platform capture paths.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{log: logrus.StandardLogger().WithField("component", "capture")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Capture starts the capture described by req. The caller owns the returned
// future: receive from Done or Wait, and Cancel to abandon it.
func (p *Provider) Capture(ctx context.Context, req Request) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	pending := &Pending{done: make(chan Result, 1), cancel: cancel}
	go func() {
		defer cancel()
		img, err := p.acquire(ctx, req)
		if err != nil {
			if ctx.Err() != nil && !errors.Is(err, ErrCancelled) {
				err = failure("capture", Cancelled, ctx.Err())
			}
			pending.resolve(Result{Err: err})
			return
		}
		pending.resolve(Result{Image: img})
	}()
	return pending
}

func (p *Provider) acquire(ctx context.Context, req Request) (*image.RGBA, error) {
	switch req.Mode {
	case SelectionRect:
		// Interactive selection is the portal's call alone; a failure here
		// reflects the user's session and must not silently widen to a
		// different capture path.
		img, err := portalScreenshotFn(ctx, true, req)
		if err != nil {
			return nil, asError("select region", err)
		}
		return img, nil
	case DisplayRect:
		displays, err := displaysFn()
		if err != nil {
			return nil, asError("capture display", err)
		}
		d, err := FindDisplay(displays, req.Display)
		if err != nil {
			return nil, asError("capture display", err)
		}
		img, err := displayCaptureFn(d.Rect)
		if err != nil {
			return nil, asError("capture display", err)
		}
		return img, nil
	case FixedRect:
		if req.Rect.Empty() {
			return nil, failure("capture rect", StreamFailure, errors.New("empty rectangle"))
		}
		img, err := p.fullDesktop(ctx, req)
		if err != nil {
			return nil, err
		}
		return cropToRect(img, req.Rect)
	default:
		return p.fullDesktop(ctx, req)
	}
}

// fullDesktop tries the portal, then falls back to direct capture when the
// portal service is missing. Permission and cancellation outcomes are the
// user's decision and never fall back.
func (p *Provider) fullDesktop(ctx context.Context, req Request) (*image.RGBA, error) {
	img, err := portalScreenshotFn(ctx, false, req)
	if err == nil {
		return img, nil
	}
	if !portalUnavailable(err) {
		return nil, asError("capture screen", err)
	}
	p.log.WithError(err).Debug("portal unavailable, using direct capture")
	img, dErr := desktopCaptureFn()
	if dErr == nil {
		return img, nil
	}
	img, xErr := x11CaptureFn()
	if xErr == nil {
		return img, nil
	}
	p.log.WithFields(logrus.Fields{"portal": err, "display": dErr, "x11": xErr}).
		Warn("all capture paths failed")
	return nil, asError("capture screen", dErr)
}

// portalUnavailable reports whether err means the desktop portal cannot
// serve screenshots at all, as opposed to refusing this one.
func portalUnavailable(err error) bool {
	if errors.Is(err, errNoPortal) {
		return true
	}
	var dbusErr *dbus.Error
	if !errors.As(err, &dbusErr) {
		return false
	}
	switch dbusErr.Name {
	case "org.freedesktop.DBus.Error.ServiceUnknown",
		"org.freedesktop.DBus.Error.NameHasNoOwner",
		"org.freedesktop.DBus.Error.UnknownMethod",
		"org.freedesktop.DBus.Error.UnknownInterface",
		"org.freedesktop.DBus.Error.UnknownObject",
		"org.freedesktop.DBus.Error.Disconnected",
		"org.freedesktop.portal.Error.NotSupported":
		return true
	}
	return false
}

// Display describes one monitor in the desktop layout.
type Display struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Displays lists the attached displays.
func Displays() ([]Display, error) {
	return displaysFn()
}

// FindDisplay resolves selector against displays: an index, "primary", or a
// case-insensitive name fragment. An empty selector picks the primary.
func FindDisplay(displays []Display, selector string) (Display, error) {
	if len(displays) == 0 {
		return Display{}, failure("find display", NoDisplay, errors.New("none attached"))
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == "primary" {
		for _, d := range displays {
			if d.Primary {
				return d, nil
			}
		}
		return displays[0], nil
	}
	sel = strings.TrimPrefix(sel, "#")
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(displays) {
			return Display{}, failure("find display", NoDisplay, fmt.Errorf("index %d out of range", idx))
		}
		return displays[idx], nil
	}
	for _, d := range displays {
		if strings.Contains(strings.ToLower(d.Name), sel) {
			return d, nil
		}
	}
	return Display{}, failure("find display", NoDisplay, fmt.Errorf("no display matches %q", selector))
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, failure("crop", StreamFailure, errors.New("region outside captured image"))
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
