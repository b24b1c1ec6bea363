package export

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/snapmark/internal/render"
)

// Clipboard is the system clipboard surface the sink writes to.
type Clipboard interface {
	WriteImage(img image.Image) error
}

// Sink writes flattened captures out and records each export in the
// history log.
type Sink struct {
	dir       string
	format    Format
	quality   int
	store     Store
	clipboard Clipboard
	shadow    *render.ShadowStyle
	log       *logrus.Entry
}

// Option configures a Sink.
type Option func(*Sink)

// WithSaveDir sets the directory derived filenames are written to.
func WithSaveDir(dir string) Option {
	return func(s *Sink) { s.dir = dir }
}

// WithFormat sets the encoding used when the path does not pick one.
func WithFormat(f Format) Option {
	return func(s *Sink) { s.format = f }
}

// WithQuality sets the JPEG quality.
func WithQuality(q int) Option {
	return func(s *Sink) { s.quality = q }
}

// WithStore sets the history log backing the sink.
func WithStore(st Store) Option {
	return func(s *Sink) { s.store = st }
}

// WithClipboard enables clipboard exports.
func WithClipboard(cb Clipboard) Option {
	return func(s *Sink) { s.clipboard = cb }
}

// WithShadow composites a drop shadow onto every export.
func WithShadow(style render.ShadowStyle) Option {
	return func(s *Sink) { s.shadow = &style }
}

// WithLogger routes sink logging through log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sink) { s.log = log.WithField("component", "export") }
}

// NewSink returns a Sink writing PNG files and recording exports in memory
// unless configured otherwise.
func NewSink(opts ...Option) *Sink {
	s := &Sink{
		format: PNG,
		store:  NewMemoryStore(),
		log:    logrus.StandardLogger().WithField("component", "export"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the history log backing the sink.
func (s *Sink) Store() Store { return s.store }

// SaveFile encodes img and writes it to path. An empty path derives a
// timestamped name in the configured save directory; a path with an
// extension picks the encoding. Returns the path written.
func (s *Sink) SaveFile(img *image.RGBA, path string) (string, error) {
	format := s.format
	if path == "" {
		path = filepath.Join(s.dir, defaultName(time.Now(), format))
	} else if filepath.Ext(path) != "" {
		format = FormatFromPath(path)
	} else {
		path += format.Ext()
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s.styled(img), format, s.quality); err != nil {
		return "", fmt.Errorf("encode %s: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create save dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	s.record(filepath.Base(path), path, buf.Bytes())
	s.log.WithFields(logrus.Fields{"path": path, "bytes": buf.Len()}).Info("Capture saved")
	return path, nil
}

// CopyClipboard pushes img to the system clipboard and records the export
// with an empty path.
func (s *Sink) CopyClipboard(img *image.RGBA) error {
	if s.clipboard == nil {
		return fmt.Errorf("clipboard unavailable")
	}
	out := s.styled(img)
	var buf bytes.Buffer
	if err := Encode(&buf, out, PNG, 0); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := s.clipboard.WriteImage(out); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	s.record(defaultName(time.Now(), PNG), "", buf.Bytes())
	s.log.WithField("bytes", buf.Len()).Info("Capture copied")
	return nil
}

// record appends to the history log. A log failure does not fail the export.
func (s *Sink) record(filename, path string, data []byte) {
	if s.store == nil {
		return
	}
	rec := Record{
		ID:       ulid.Make().String(),
		Created:  time.Now(),
		Filename: filename,
		Image:    data,
		Path:     path,
	}
	if err := s.store.Add(rec); err != nil {
		s.log.WithError(err).Warn("Failed to record export history")
	}
}

func (s *Sink) styled(img *image.RGBA) *image.RGBA {
	if s.shadow == nil {
		return img
	}
	return render.AddShadow(img, *s.shadow)
}

func defaultName(ts time.Time, format Format) string {
	return "snapmark-" + ts.Format("20060102-150405") + format.Ext()
}
