//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	errNoCGO     = errors.New("clipboard requires cgo support")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = errNoCGO
	})
	return initErr
}

func WriteImage(image.Image) error { return ensureInit() }

func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return nil, errNoCGO
}

func WriteText(string) error { return ensureInit() }

func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	return "", errNoCGO
}
