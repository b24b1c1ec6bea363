//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"image"
)

func portalScreenshot(context.Context, bool, Request) (*image.RGBA, error) {
	return nil, failure("portal", StreamFailure, errNoPortal)
}
