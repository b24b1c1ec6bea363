//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

func x11Capture() (*image.RGBA, error) {
	return nil, failure("x11", StreamFailure, errors.New("requires an X session"))
}
