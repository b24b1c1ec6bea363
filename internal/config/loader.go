package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Loader finds and loads the configuration file.
type Loader struct {
	// Version is the build version; "dev" enables the working-directory rc
	// lookup.
	Version string
	// OverridePath takes precedence over every other location when set.
	OverridePath string
}

// NewLoader returns a Loader for the given build version.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the configuration file, overlays a .env file from the working
// directory, and applies SNAPMARK_* environment overrides. A missing config
// file yields defaults, not an error.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.ConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cfg, err = Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	// Missing .env is the normal case.
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the configuration file in use, or empty when none
// exists. Order: override path, working-directory .snapmarkrc in dev builds,
// then the XDG locations.
func (l *Loader) ConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		local := filepath.Join(wd, ".snapmarkrc")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	home, _ := os.UserHomeDir()
	for _, name := range []string{"config.rc", "snapmark.rc"} {
		path := filepath.Join(home, ".config", "snapmark", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath is where config-writing commands create the file when none
// exists yet.
func (l *Loader) DefaultPath() (string, error) {
	if l.OverridePath != "" {
		return l.OverridePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "snapmark", "config.rc"), nil
}

// applyEnv overlays SNAPMARK_* variables onto cfg.
func applyEnv(cfg *Config) error {
	if v, ok := lookup("SNAPMARK_THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := lookup("SNAPMARK_SAVE_DIR"); ok {
		cfg.SaveDir = v
	}
	if v, ok := lookup("SNAPMARK_FORMAT"); ok {
		cfg.Format = strings.ToLower(v)
	}
	if v, ok := lookup("SNAPMARK_JPEG_QUALITY"); ok {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SNAPMARK_JPEG_QUALITY: %w", err)
		}
		cfg.JPEGQuality = q
	}
	if v, ok := lookup("SNAPMARK_COLOR"); ok {
		cfg.Color = v
	}
	if v, ok := lookup("SNAPMARK_LINE_WIDTH"); ok {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SNAPMARK_LINE_WIDTH: %w", err)
		}
		cfg.LineWidth = w
	}
	if v, ok := lookup("SNAPMARK_SHADOW"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SNAPMARK_SHADOW: %w", err)
		}
		cfg.Shadow = b
	}
	if v, ok := lookup("SNAPMARK_HISTORY_DB"); ok {
		cfg.HistoryDB = v
	}
	for key, dst := range map[string]*bool{
		"SNAPMARK_NOTIFY_CAPTURE": &cfg.Notify.Capture,
		"SNAPMARK_NOTIFY_SAVE":    &cfg.Notify.Save,
		"SNAPMARK_NOTIFY_COPY":    &cfg.Notify.Copy,
	} {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
