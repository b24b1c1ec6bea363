// Package theme defines the color palettes the window shell and the
// annotation tools draw from. Additional themes are declared in config
// [theme.*] sections; the built-ins cover the common cases.
package theme

import "image/color"

// Theme is one named UI palette.
type Theme struct {
	Name string

	// Window chrome.
	Background color.RGBA
	Foreground color.RGBA

	// Toolbar and its buttons.
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Editing affordances on the canvas.
	Selection color.RGBA
	Marquee   color.RGBA
	Handle    color.RGBA

	// Palette holds the annotation color swatches, first entry default.
	Palette []color.RGBA
}

// defaultPalette is shared by the built-in themes; annotation colors are a
// property of the markup, not the chrome.
func defaultPalette() []color.RGBA {
	return []color.RGBA{
		{R: 220, G: 38, B: 38, A: 255},  // red
		{R: 234, G: 88, B: 12, A: 255},  // orange
		{R: 202, G: 138, B: 4, A: 255},  // yellow
		{R: 22, G: 163, B: 74, A: 255},  // green
		{R: 37, G: 99, B: 235, A: 255},  // blue
		{R: 147, G: 51, B: 234, A: 255}, // purple
		{R: 0, G: 0, B: 0, A: 255},      // black
		{R: 255, G: 255, B: 255, A: 255},
	}
}

// Default returns the stock light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Background:            color.RGBA{R: 220, G: 220, B: 220, A: 255},
		Foreground:            color.RGBA{A: 255},
		ToolbarBackground:     color.RGBA{R: 232, G: 232, B: 232, A: 255},
		ButtonBackground:      color.RGBA{R: 200, G: 200, B: 200, A: 255},
		ButtonBackgroundHover: color.RGBA{R: 180, G: 180, B: 180, A: 255},
		ButtonBackgroundPress: color.RGBA{R: 150, G: 150, B: 150, A: 255},
		ButtonText:            color.RGBA{A: 255},
		ButtonBorder:          color.RGBA{R: 120, G: 120, B: 120, A: 255},
		Selection:             color.RGBA{R: 37, G: 99, B: 235, A: 255},
		Marquee:               color.RGBA{R: 80, G: 80, B: 80, A: 255},
		Handle:                color.RGBA{R: 37, G: 99, B: 235, A: 255},
		Palette:               defaultPalette(),
	}
}

// Dark returns the stock dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{R: 32, G: 32, B: 36, A: 255},
		Foreground:            color.RGBA{R: 230, G: 230, B: 230, A: 255},
		ToolbarBackground:     color.RGBA{R: 44, G: 44, B: 48, A: 255},
		ButtonBackground:      color.RGBA{R: 58, G: 58, B: 64, A: 255},
		ButtonBackgroundHover: color.RGBA{R: 74, G: 74, B: 82, A: 255},
		ButtonBackgroundPress: color.RGBA{R: 96, G: 96, B: 104, A: 255},
		ButtonText:            color.RGBA{R: 230, G: 230, B: 230, A: 255},
		ButtonBorder:          color.RGBA{R: 90, G: 90, B: 96, A: 255},
		Selection:             color.RGBA{R: 96, G: 165, B: 250, A: 255},
		Marquee:               color.RGBA{R: 180, G: 180, B: 180, A: 255},
		Handle:                color.RGBA{R: 96, G: 165, B: 250, A: 255},
		Palette:               defaultPalette(),
	}
}

// HighContrast returns the stock high-contrast theme.
func HighContrast() *Theme {
	return &Theme{
		Name:                  "high_contrast",
		Background:            color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Foreground:            color.RGBA{A: 255},
		ToolbarBackground:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ButtonBackground:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ButtonBackgroundHover: color.RGBA{R: 255, G: 255, B: 0, A: 255},
		ButtonBackgroundPress: color.RGBA{A: 255},
		ButtonText:            color.RGBA{A: 255},
		ButtonBorder:          color.RGBA{A: 255},
		Selection:             color.RGBA{A: 255},
		Marquee:               color.RGBA{A: 255},
		Handle:                color.RGBA{A: 255},
		Palette:               defaultPalette(),
	}
}

// BuiltIn resolves a built-in theme by name; unknown names report false. The
// empty name means the default theme.
func BuiltIn(name string) (*Theme, bool) {
	switch name {
	case "", "default":
		return Default(), true
	case "dark":
		return Dark(), true
	case "high_contrast":
		return HighContrast(), true
	}
	return nil, false
}
