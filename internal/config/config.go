// Package config loads and serializes the application's rc-style
// configuration: a root section of key=value pairs plus [notify] and
// [theme.*] sections. Environment variables prefixed SNAPMARK_ override
// file values, and a .env file in the working directory is overlaid first.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/snapmark/internal/theme"
)

// Notify holds the per-event notification switches.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	// Theme names the active UI palette, built-in or from a [theme.*]
	// section.
	Theme string
	// SaveDir is where derived export filenames land.
	SaveDir string
	// Format is the default export encoding (png, jpeg, tiff, pdf).
	Format string
	// JPEGQuality applies to JPEG exports; zero means the encoder default.
	JPEGQuality int
	// Color is the initial annotation color, hex or a common name.
	Color string
	// LineWidth is the initial stroke width.
	LineWidth float64
	// Shadow composites a drop shadow onto exports.
	Shadow bool
	// HistoryDB is the SQLite path for the export history log; empty keeps
	// the log in memory only.
	HistoryDB string

	Notify Notify
	Themes map[string]*theme.Theme
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Format:    "png",
		LineWidth: 2,
		Themes:    make(map[string]*theme.Theme),
	}
}

// ResolveTheme returns the active theme: a [theme.*] section when one
// matches, a built-in otherwise, and the default as the last resort.
func (c *Config) ResolveTheme(name string) *theme.Theme {
	if name == "" {
		name = c.Theme
	}
	if t, ok := c.Themes[name]; ok {
		return t
	}
	if t, ok := theme.BuiltIn(name); ok {
		return t
	}
	return theme.Default()
}

// String renders the configuration back out in rc format, parseable by
// Parse.
func (c *Config) String() string {
	var sb strings.Builder
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Format != "" {
		fmt.Fprintf(&sb, "format = %s\n", c.Format)
	}
	if c.JPEGQuality != 0 {
		fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.JPEGQuality)
	}
	if c.Color != "" {
		fmt.Fprintf(&sb, "color = %s\n", c.Color)
	}
	fmt.Fprintf(&sb, "line_width = %g\n", c.LineWidth)
	if c.Shadow {
		sb.WriteString("shadow = true\n")
	}
	if c.HistoryDB != "" {
		fmt.Fprintf(&sb, "history_db = %s\n", c.HistoryDB)
	}
	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Background = %s\n", toHex(t.Background))
		fmt.Fprintf(&sb, "Foreground = %s\n", toHex(t.Foreground))
		fmt.Fprintf(&sb, "ToolbarBackground = %s\n", toHex(t.ToolbarBackground))
		fmt.Fprintf(&sb, "ButtonBackground = %s\n", toHex(t.ButtonBackground))
		fmt.Fprintf(&sb, "ButtonBackgroundHover = %s\n", toHex(t.ButtonBackgroundHover))
		fmt.Fprintf(&sb, "ButtonBackgroundPress = %s\n", toHex(t.ButtonBackgroundPress))
		fmt.Fprintf(&sb, "ButtonText = %s\n", toHex(t.ButtonText))
		fmt.Fprintf(&sb, "ButtonBorder = %s\n", toHex(t.ButtonBorder))
		fmt.Fprintf(&sb, "Selection = %s\n", toHex(t.Selection))
		fmt.Fprintf(&sb, "Marquee = %s\n", toHex(t.Marquee))
		fmt.Fprintf(&sb, "Handle = %s\n", toHex(t.Handle))
		if len(t.Palette) > 0 {
			swatches := make([]string, len(t.Palette))
			for i, col := range t.Palette {
				swatches[i] = toHex(col)
			}
			fmt.Fprintf(&sb, "Palette = %s\n", strings.Join(swatches, ", "))
		}
	}
	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
