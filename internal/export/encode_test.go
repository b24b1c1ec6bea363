package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodeMagicBytes(t *testing.T) {
	img := gradientImage(16, 16)
	cases := []struct {
		format Format
		magic  []byte
	}{
		{PNG, []byte("\x89PNG")},
		{JPEG, []byte{0xFF, 0xD8}},
		{TIFF, []byte("II")},
		{PDF, []byte("%PDF")},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := Encode(&buf, img, tc.format, 0); err != nil {
			t.Fatalf("Encode(%v): %v", tc.format, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), tc.magic) {
			t.Fatalf("Encode(%v) output starts with %q, want magic %q", tc.format, buf.Bytes()[:4], tc.magic)
		}
	}
}

func TestEncodeJPEGQuality(t *testing.T) {
	img := gradientImage(64, 64)
	var low, high bytes.Buffer
	if err := Encode(&low, img, JPEG, 10); err != nil {
		t.Fatalf("quality 10: %v", err)
	}
	if err := Encode(&high, img, JPEG, 95); err != nil {
		t.Fatalf("quality 95: %v", err)
	}
	if low.Len() >= high.Len() {
		t.Fatalf("expected quality 95 output (%d bytes) to exceed quality 10 (%d bytes)", high.Len(), low.Len())
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{"", PNG},
		{"JPG", JPEG},
		{"jpeg", JPEG},
		{"tif", TIFF},
		{"pdf", PDF},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseFormat("bmp"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFormatFromPath(t *testing.T) {
	if got := FormatFromPath("shot.JPEG"); got != JPEG {
		t.Fatalf("FormatFromPath(shot.JPEG) = %v", got)
	}
	if got := FormatFromPath("/tmp/a/b.tiff"); got != TIFF {
		t.Fatalf("FormatFromPath(b.tiff) = %v", got)
	}
	if got := FormatFromPath("noext"); got != PNG {
		t.Fatalf("FormatFromPath(noext) = %v", got)
	}
}
