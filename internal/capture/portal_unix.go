//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	portalDest     = "org.freedesktop.portal.Desktop"
	portalPath     = "/org/freedesktop/portal/desktop"
	portalMethod   = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse = "org.freedesktop.portal.Request.Response"
)

var portalHandleToken = newPortalHandleToken

func portalScreenshot(ctx context.Context, interactive bool, req Request) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, failure("portal", StreamFailure, fmt.Errorf("%w: %v", errNoPortal, err))
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "dbus close: %v\n", cerr)
		}
	}()

	obj := conn.Object(portalDest, portalPath)
	call := obj.CallWithContext(ctx, portalMethod, 0, "", portalOptions(interactive, req))
	if call.Err != nil {
		return nil, portalCallError(call.Err)
	}
	var handle dbus.ObjectPath
	if err := call.Store(&handle); err != nil {
		return nil, failure("portal", StreamFailure, err)
	}

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, failure("portal", StreamFailure, err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, failure("portal", Cancelled, ctx.Err())
		case sig, ok := <-sigc:
			if !ok {
				return nil, failure("portal", StreamFailure, errors.New("signal stream closed"))
			}
			if sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			return portalResult(sig)
		}
	}
}

// portalResult maps a Response signal to pixels. Code 0 carries a file URI,
// 1 is a user dismissal, anything else is the portal refusing the request.
func portalResult(sig *dbus.Signal) (*image.RGBA, error) {
	if len(sig.Body) < 2 {
		return nil, failure("portal", StreamFailure, errors.New("malformed response"))
	}
	code, ok := sig.Body[0].(uint32)
	if !ok {
		return nil, failure("portal", StreamFailure, fmt.Errorf("malformed response code %T", sig.Body[0]))
	}
	switch code {
	case 0:
	case 1:
		return nil, failure("portal", Cancelled, errors.New("dismissed by user"))
	default:
		return nil, failure("portal", PermissionDenied, fmt.Errorf("response code %d", code))
	}
	res, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, failure("portal", StreamFailure, errors.New("malformed response body"))
	}
	uriVar, ok := res["uri"]
	if !ok {
		return nil, failure("portal", StreamFailure, errors.New("response missing image uri"))
	}
	uri, ok := uriVar.Value().(string)
	if !ok {
		return nil, failure("portal", StreamFailure, errors.New("malformed image uri"))
	}
	img, err := loadPNG(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return nil, failure("portal", StreamFailure, err)
	}
	return img, nil
}

func portalCallError(err error) *Error {
	var dbusErr *dbus.Error
	if errors.As(err, &dbusErr) && dbusErr.Name == "org.freedesktop.DBus.Error.AccessDenied" {
		return failure("portal", PermissionDenied, err)
	}
	return failure("portal", StreamFailure, err)
}

// newPortalHandleToken returns a fresh request token. The portal only allows
// [A-Za-z0-9_] here.
func newPortalHandleToken() string {
	return "snapmark_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func portalOptions(interactive bool, req Request) map[string]dbus.Variant {
	cursorMode := "hidden"
	if req.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", path, cerr)
		}
	}()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", path, err)
		}
	}() // the portal leaves the file behind otherwise

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
