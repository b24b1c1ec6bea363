package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/export"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	loader   *config.Loader
	notifier *notify.Notifier
	theme    *theme.Theme

	verbose       bool
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
}

func (r *root) Program() string { return r.program }

func (r *root) FlagSet() *flag.FlagSet { return r.fs }

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("snapmark", flag.ExitOnError),
		program:  "snapmark",
		config:   cfg,
		loader:   loader,
		notifier: notify.New(notify.ApplyEnv(notify.DefaultPreferences())),
	}
	r.fs.BoolVar(&r.verbose, "verbose", false, "enable debug logging")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme (default, dark, high_contrast, or a [theme.*] config section)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.theme = r.config.ResolveTheme(r.themeName)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "snapshot":
		cmd, err = parseSnapshotCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "history":
		cmd, err = parseHistoryCmd(subArgs, r)
	case "displays":
		cmd, err = parseDisplaysCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// captureFn runs a capture request to completion; swapped by tests.
var captureFn = func(ctx context.Context, req capture.Request) (*image.RGBA, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	res := capture.NewProvider().Capture(ctx, req).Wait(ctx)
	return res.Image, res.Err
}

// newSink builds the export sink from the loaded configuration. format and
// quality override the configured defaults when non-zero.
func (r *root) newSink(format string, quality int) (*export.Sink, error) {
	cfg := r.config
	if format == "" {
		format = cfg.Format
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if quality == 0 {
		quality = cfg.JPEGQuality
	}
	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	opts := []export.Option{
		export.WithSaveDir(cfg.SaveDir),
		export.WithFormat(f),
		export.WithQuality(quality),
		export.WithStore(store),
		export.WithClipboard(clipboard.System{}),
	}
	if cfg.Shadow {
		opts = append(opts, export.WithShadow(render.DefaultShadow()))
	}
	return export.NewSink(opts...), nil
}

// openStore returns the configured history store: SQLite when history_db is
// set, in-memory otherwise.
func (r *root) openStore() (export.Store, error) {
	if r.config.HistoryDB == "" {
		return export.NewMemoryStore(), nil
	}
	store, err := export.NewSQLiteStore(r.config.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

// style resolves the initial annotation style from config.
func (r *root) style() (editor.Style, error) {
	s := editor.Style{
		Color: color.RGBA{R: 220, G: 38, B: 38, A: 255},
		Width: r.config.LineWidth,
	}
	if s.Width <= 0 {
		s.Width = 2
	}
	if r.config.Color != "" {
		col, err := parseStyleColor(r.config.Color)
		if err != nil {
			return s, fmt.Errorf("config color: %w", err)
		}
		s.Color = col
	}
	return s, nil
}

// parseStyleColor accepts SVG color names and #hex specs.
func parseStyleColor(spec string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(spec))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		return config.ParseColor(name)
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", spec)
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
