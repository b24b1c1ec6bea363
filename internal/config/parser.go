package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/theme"
)

// Parse reads rc-format configuration: `key = value` lines, `#` and `//`
// comments, and `[section]` headers. A [theme.<name>] section starts from
// the default theme so partial definitions are fine.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = setThemeField(currentTheme, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("config section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

// splitKeyValue accepts both `key = value` and `key: value` forms and strips
// surrounding quotes from the value.
func splitKeyValue(line string) (key, value string, ok bool) {
	var parts []string
	switch {
	case strings.Contains(line, "="):
		parts = strings.SplitN(line, "=", 2)
	case strings.Contains(line, ":"):
		parts = strings.SplitN(line, ":", 2)
	default:
		return "", "", false
	}
	key = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(parts[1])
	if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "format":
		cfg.Format = strings.ToLower(value)
	case "jpeg_quality":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid jpeg_quality: %w", err)
		}
		cfg.JPEGQuality = q
	case "color":
		cfg.Color = value
	case "line_width":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid line_width: %w", err)
		}
		cfg.LineWidth = w
	case "shadow":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid shadow: %w", err)
		}
		cfg.Shadow = b
	case "history_db":
		cfg.HistoryDB = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "capture":
		n.Capture = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// setThemeField assigns one theme key. Color fields are matched by name,
// case-insensitively, through reflection; Palette takes a comma-separated
// list of colors. Unknown keys are ignored.
func setThemeField(t *theme.Theme, key, value string) error {
	switch {
	case strings.EqualFold(key, "Name"):
		t.Name = value
		return nil
	case strings.EqualFold(key, "Palette"):
		var palette []color.RGBA
		for _, s := range strings.Split(value, ",") {
			col, err := ParseColor(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("invalid palette entry %q: %w", s, err)
			}
			palette = append(palette, col)
		}
		t.Palette = palette
		return nil
	}

	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != reflect.TypeOf(color.RGBA{}) {
			continue
		}
		col, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8(val >> 8),
			B: uint8(val),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8(val >> 16),
			B: uint8(val >> 8),
			A: uint8(val),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
