package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// listDisplays reads the desktop layout from the OS.
func listDisplays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, failure("displays", NoDisplay, errors.New("none attached"))
	}
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		displays = append(displays, Display{
			Index:   i,
			Name:    fmt.Sprintf("display-%d", i),
			Rect:    screenshot.GetDisplayBounds(i),
			Primary: i == 0,
		})
	}
	return displays, nil
}

// captureRect grabs a rectangle in global desktop coordinates.
func captureRect(rect image.Rectangle) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, failure("capture rect", StreamFailure, err)
	}
	return img, nil
}

// desktopCapture grabs the union of all displays.
func desktopCapture() (*image.RGBA, error) {
	displays, err := listDisplays()
	if err != nil {
		return nil, err
	}
	bounds := displays[0].Rect
	for _, d := range displays[1:] {
		bounds = bounds.Union(d.Rect)
	}
	return captureRect(bounds)
}
