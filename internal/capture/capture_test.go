package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

// stubBackends replaces every platform hook with a failing stub and restores
// the originals when the test ends. Individual tests overwrite the hooks
// they exercise.
func stubBackends(t *testing.T) {
	t.Helper()
	prevPortal := portalScreenshotFn
	prevDisplays := displaysFn
	prevDisplayCapture := displayCaptureFn
	prevDesktop := desktopCaptureFn
	prevX11 := x11CaptureFn
	t.Cleanup(func() {
		portalScreenshotFn = prevPortal
		displaysFn = prevDisplays
		displayCaptureFn = prevDisplayCapture
		desktopCaptureFn = prevDesktop
		x11CaptureFn = prevX11
	})
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return nil, failure("portal", StreamFailure, errNoPortal)
	}
	displaysFn = func() ([]Display, error) {
		return nil, failure("displays", NoDisplay, errors.New("stub"))
	}
	displayCaptureFn = func(image.Rectangle) (*image.RGBA, error) {
		return nil, failure("capture rect", StreamFailure, errors.New("stub"))
	}
	desktopCaptureFn = func() (*image.RGBA, error) {
		return nil, failure("capture", StreamFailure, errors.New("stub"))
	}
	x11CaptureFn = func() (*image.RGBA, error) {
		return nil, failure("x11", StreamFailure, errors.New("stub"))
	}
}

func TestCaptureDeliversExactlyOnce(t *testing.T) {
	stubBackends(t)
	want := image.NewRGBA(image.Rect(0, 0, 8, 8))
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return want, nil
	}

	p := NewProvider().Capture(context.Background(), Request{Mode: FullScreen})
	res := p.Wait(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Image != want {
		t.Fatalf("wrong image delivered")
	}
	select {
	case extra := <-p.Done():
		t.Fatalf("second result delivered: %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(ctx context.Context, _ bool, _ Request) (*image.RGBA, error) {
		<-ctx.Done()
		return nil, failure("portal", Cancelled, ctx.Err())
	}

	p := NewProvider().Capture(context.Background(), Request{Mode: FullScreen})
	p.Cancel()
	p.Cancel()
	res := <-p.Done()
	if !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", res.Err)
	}
	p.Cancel()
	select {
	case extra := <-p.Done():
		t.Fatalf("cancel after delivery produced a result: %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestLateBackendResultSuppressedAfterCancel(t *testing.T) {
	stubBackends(t)
	gate := make(chan struct{})
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		<-gate
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}

	p := NewProvider().Capture(context.Background(), Request{Mode: FullScreen})
	p.Cancel()
	close(gate)

	res := <-p.Done()
	if !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", res.Err)
	}
	if res.Image != nil {
		t.Fatal("stale image delivered with cancellation")
	}
	select {
	case extra := <-p.Done():
		t.Fatalf("late backend result leaked: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWaitCancelsWhenContextEnds(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(ctx context.Context, _ bool, _ Request) (*image.RGBA, error) {
		<-ctx.Done()
		return nil, failure("portal", Cancelled, ctx.Err())
	}

	p := NewProvider().Capture(context.Background(), Request{Mode: FullScreen})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := p.Wait(ctx)
	if !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", res.Err)
	}
}

func TestFullScreenFallsBackWhenPortalMissing(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return nil, &dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}
	}
	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	desktopCaptureFn = func() (*image.RGBA, error) { return want, nil }

	res := NewProvider().Capture(context.Background(), Request{Mode: FullScreen}).Wait(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Image != want {
		t.Fatal("expected the direct capture result")
	}
}

func TestFullScreenFallsThroughToX11(t *testing.T) {
	stubBackends(t)
	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	x11CaptureFn = func() (*image.RGBA, error) { return want, nil }

	res := NewProvider().Capture(context.Background(), Request{Mode: FullScreen}).Wait(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Image != want {
		t.Fatal("expected the x11 result")
	}
}

func TestSelectionDoesNotFallBack(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(_ context.Context, interactive bool, _ Request) (*image.RGBA, error) {
		if !interactive {
			t.Error("selection capture must be interactive")
		}
		return nil, &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}
	}
	fallbackUsed := false
	desktopCaptureFn = func() (*image.RGBA, error) {
		fallbackUsed = true
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	res := NewProvider().Capture(context.Background(), Request{Mode: SelectionRect}).Wait(context.Background())
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if fallbackUsed {
		t.Fatal("interactive selection must not widen to a desktop grab")
	}
	if !errors.Is(res.Err, ErrStreamFailure) {
		t.Fatalf("expected ErrStreamFailure, got %v", res.Err)
	}
}

func TestPermissionDeniedSurfacesWithoutFallback(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return nil, failure("portal", PermissionDenied, errors.New("response code 2"))
	}
	fallbackUsed := false
	desktopCaptureFn = func() (*image.RGBA, error) {
		fallbackUsed = true
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	res := NewProvider().Capture(context.Background(), Request{Mode: FullScreen}).Wait(context.Background())
	if !errors.Is(res.Err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", res.Err)
	}
	if fallbackUsed {
		t.Fatal("permission refusal must not fall back")
	}
	var ce *Error
	if !errors.As(res.Err, &ce) || ce.Code != PermissionDenied {
		t.Fatalf("expected *Error with PermissionDenied, got %#v", res.Err)
	}
}

func TestUserDismissalMapsToCancelled(t *testing.T) {
	stubBackends(t)
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return nil, failure("portal", Cancelled, errors.New("dismissed by user"))
	}

	res := NewProvider().Capture(context.Background(), Request{Mode: SelectionRect}).Wait(context.Background())
	if !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", res.Err)
	}
}

func TestFixedRectCropsCapturedImage(t *testing.T) {
	stubBackends(t)
	full := image.NewRGBA(image.Rect(0, 0, 100, 100))
	mark := color.RGBA{R: 255, A: 255}
	full.SetRGBA(15, 15, mark)
	portalScreenshotFn = func(context.Context, bool, Request) (*image.RGBA, error) {
		return full, nil
	}

	req := Request{Mode: FixedRect, Rect: image.Rect(10, 10, 40, 40)}
	res := NewProvider().Capture(context.Background(), req).Wait(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := res.Image.Bounds(); got.Dx() != 30 || got.Dy() != 30 {
		t.Fatalf("unexpected crop bounds %v", got)
	}
	if got := res.Image.RGBAAt(5, 5); got != mark {
		t.Fatalf("crop misplaced: got %+v at (5,5)", got)
	}
}

func TestFixedRectRejectsEmptyRect(t *testing.T) {
	stubBackends(t)
	res := NewProvider().Capture(context.Background(), Request{Mode: FixedRect}).Wait(context.Background())
	if !errors.Is(res.Err, ErrStreamFailure) {
		t.Fatalf("expected ErrStreamFailure, got %v", res.Err)
	}
}

func TestDisplayRectUsesResolvedBounds(t *testing.T) {
	stubBackends(t)
	second := image.Rect(1920, 0, 3840, 1080)
	displaysFn = func() ([]Display, error) {
		return []Display{
			{Index: 0, Name: "display-0", Rect: image.Rect(0, 0, 1920, 1080), Primary: true},
			{Index: 1, Name: "display-1", Rect: second},
		}, nil
	}
	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	displayCaptureFn = func(rect image.Rectangle) (*image.RGBA, error) {
		if rect != second {
			return nil, fmt.Errorf("captured wrong bounds %v", rect)
		}
		return want, nil
	}

	req := Request{Mode: DisplayRect, Display: "1"}
	res := NewProvider().Capture(context.Background(), req).Wait(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Image != want {
		t.Fatal("expected the display capture result")
	}
}

func TestDisplayRectMissingDisplay(t *testing.T) {
	stubBackends(t)
	displaysFn = func() ([]Display, error) {
		return []Display{{Index: 0, Name: "display-0", Primary: true}}, nil
	}

	req := Request{Mode: DisplayRect, Display: "7"}
	res := NewProvider().Capture(context.Background(), req).Wait(context.Background())
	if !errors.Is(res.Err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", res.Err)
	}
}

func TestFindDisplaySelectors(t *testing.T) {
	displays := []Display{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "HDMI-A-1", Rect: image.Rect(1920, 0, 4480, 1440), Primary: true},
	}
	cases := []struct {
		selector string
		want     int
	}{
		{"", 1},
		{"primary", 1},
		{"0", 0},
		{"#1", 1},
		{"hdmi", 1},
		{"edp", 0},
	}
	for _, tc := range cases {
		got, err := FindDisplay(displays, tc.selector)
		if err != nil {
			t.Fatalf("FindDisplay(%q) error: %v", tc.selector, err)
		}
		if got.Index != tc.want {
			t.Fatalf("FindDisplay(%q) = %d, want %d", tc.selector, got.Index, tc.want)
		}
	}

	if _, err := FindDisplay(displays, "dvi"); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay for unmatched name, got %v", err)
	}
	if _, err := FindDisplay(displays, "9"); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay for out of range index, got %v", err)
	}
	if _, err := FindDisplay(nil, "primary"); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay for empty layout, got %v", err)
	}
}

func TestErrorSentinelMapping(t *testing.T) {
	cases := []struct {
		code Code
		want error
	}{
		{PermissionDenied, ErrPermissionDenied},
		{NoDisplay, ErrNoDisplay},
		{StreamFailure, ErrStreamFailure},
		{Cancelled, ErrCancelled},
	}
	for _, tc := range cases {
		err := fmt.Errorf("outer: %w", failure("op", tc.code, errors.New("inner")))
		if !errors.Is(err, tc.want) {
			t.Fatalf("code %v did not match its sentinel", tc.code)
		}
		for _, other := range cases {
			if other.want != tc.want && errors.Is(err, other.want) {
				t.Fatalf("code %v matched foreign sentinel %v", tc.code, other.want)
			}
		}
	}

	inner := errors.New("inner")
	err := failure("grab", StreamFailure, inner)
	if !errors.Is(err, inner) {
		t.Fatal("Unwrap lost the underlying error")
	}
	if got, want := err.Error(), "grab: stream failure: inner"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestPortalUnavailableClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, true},
		{&dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}, true},
		{fmt.Errorf("call: %w", &dbus.Error{Name: "org.freedesktop.DBus.Error.Disconnected"}), true},
		{failure("portal", StreamFailure, fmt.Errorf("%w: no session bus", errNoPortal)), true},
		{&dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}, false},
		{errors.New("plain failure"), false},
	}
	for i, tc := range cases {
		if got := portalUnavailable(tc.err); got != tc.want {
			t.Fatalf("case %d: portalUnavailable(%v) = %v, want %v", i, tc.err, got, tc.want)
		}
	}
}
