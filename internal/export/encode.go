// Package export writes flattened captures out of the editor: encoded files,
// the system clipboard, and a bounded history log of recent exports.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/tiff"
)

// Format identifies an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case PDF:
		return "pdf"
	}
	return "unknown"
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	case PDF:
		return ".pdf"
	}
	return ".png"
}

// ParseFormat resolves a format name such as "png" or "jpg". The empty
// string means PNG.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "pdf":
		return PDF, nil
	}
	return PNG, fmt.Errorf("unknown image format %q", name)
}

// FormatFromPath guesses the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".pdf":
		return PDF
	}
	return PNG
}

// Encode writes img to w in the given format. Quality affects JPEG only and
// is clamped to [1, 100]; zero means the encoder default.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case JPEG:
		opts := &jpeg.Options{Quality: jpeg.DefaultQuality}
		if quality != 0 {
			if quality < 1 {
				quality = 1
			}
			if quality > 100 {
				quality = 100
			}
			opts.Quality = quality
		}
		return jpeg.Encode(w, img, opts)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case PDF:
		return encodePDF(w, img)
	default:
		return png.Encode(w, img)
	}
}

// encodePDF embeds img on a single page sized to the pixel grid at 72 dpi.
func encodePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	wpt := float64(img.Bounds().Dx())
	hpt := float64(img.Bounds().Dy())
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wpt, Ht: hpt},
	})
	doc.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("capture", opts, &buf)
	doc.ImageOptions("capture", 0, 0, wpt, hpt, false, opts, 0, "")
	return doc.Output(w)
}
