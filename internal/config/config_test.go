package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = slate
save_dir = /tmp/screens
format = jpeg
jpeg_quality = 85
color = #2563EB
line_width = 4
shadow = true
history_db = /tmp/history.db

[notify]
capture = true
save = false
copy = true

[theme.slate]
Background = #111111
Foreground = #FFFFFF
Palette = #FF0000, #00FF00
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "slate" {
		t.Errorf("Theme = %q, want slate", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if cfg.Format != "jpeg" || cfg.JPEGQuality != 85 {
		t.Errorf("format = %q quality %d", cfg.Format, cfg.JPEGQuality)
	}
	if cfg.LineWidth != 4 {
		t.Errorf("LineWidth = %g", cfg.LineWidth)
	}
	if !cfg.Shadow {
		t.Error("Shadow not set")
	}
	if cfg.HistoryDB != "/tmp/history.db" {
		t.Errorf("HistoryDB = %q", cfg.HistoryDB)
	}
	if !cfg.Notify.Capture || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["slate"]
	if !ok {
		t.Fatal("theme slate not loaded")
	}
	if th.Background != (color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 255}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if len(th.Palette) != 2 || th.Palette[1] != (color.RGBA{G: 0xFF, A: 255}) {
		t.Errorf("Palette = %+v", th.Palette)
	}
}

func TestStringRoundTrip(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/shots
format = tiff
line_width = 3

[notify]
capture = true
save = true
copy = false

[theme.custom]
Background = #000000
Foreground = #FFFFFF
Selection = #00FF00
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("round-trip parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.Format != cfg2.Format {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.LineWidth != cfg2.LineWidth {
		t.Errorf("LineWidth mismatch: %g vs %g", cfg.LineWidth, cfg2.LineWidth)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	t1, t2 := cfg.Themes["custom"], cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatal("custom theme missing after round trip")
	}
	if t1.Background != t2.Background || t1.Selection != t2.Selection {
		t.Errorf("theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := New()
	cfg.Theme = "dark"
	if got := cfg.ResolveTheme(""); got.Name != "dark" {
		t.Errorf("ResolveTheme default = %q, want dark", got.Name)
	}
	if got := cfg.ResolveTheme("no-such-theme"); got.Name != "default" {
		t.Errorf("unknown theme resolved to %q, want default", got.Name)
	}
}

func TestLoaderEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.rc")
	contents := "save_dir = /from/file\nline_width = 2\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNAPMARK_SAVE_DIR", "/from/env")
	t.Setenv("SNAPMARK_LINE_WIDTH", "7")
	t.Setenv("SNAPMARK_NOTIFY_SAVE", "true")

	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SaveDir != "/from/env" {
		t.Errorf("SaveDir = %q, want env override", cfg.SaveDir)
	}
	if cfg.LineWidth != 7 {
		t.Errorf("LineWidth = %g, want 7", cfg.LineWidth)
	}
	if !cfg.Notify.Save {
		t.Error("Notify.Save not overridden")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader("1.0.0", filepath.Join(t.TempDir(), "nope.rc"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "png" || cfg.LineWidth != 2 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
