//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Capture grabs the root window over the X protocol. Last resort for
// sessions with neither a portal nor usable display enumeration.
func x11Capture() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, failure("x11", NoDisplay, err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	w := int(screen.WidthInPixels)
	h := int(screen.HeightInPixels)
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		0, 0, uint16(w), uint16(h), 0xffffffff).Reply()
	if err != nil {
		return nil, failure("x11", StreamFailure, err)
	}
	img, err := xImageToRGBA(setup, reply, w, h)
	if err != nil {
		return nil, failure("x11", StreamFailure, err)
	}
	return img, nil
}

// xImageToRGBA converts a ZPixmap reply to RGBA. X serves BGR(A) rows padded
// to the pixmap stride.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || len(reply.Data) == 0 {
		return nil, fmt.Errorf("empty root geometry")
	}
	bpp := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bpp = int(format.BitsPerPixel)
			break
		}
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported pixel format %d bpp at depth %d", bpp, reply.Depth)
	}
	bytesPer := bpp / 8
	stride := len(reply.Data) / h
	if stride*h != len(reply.Data) || stride < w*bytesPer {
		return nil, fmt.Errorf("unexpected image stride %d for width %d", stride, w)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := reply.Data[y*stride:]
		for x := 0; x < w; x++ {
			off := x * bytesPer
			i := img.PixOffset(x, y)
			img.Pix[i+0] = row[off+2]
			img.Pix[i+1] = row[off+1]
			img.Pix[i+2] = row[off+0]
			img.Pix[i+3] = 0xFF
		}
	}
	return img, nil
}
