package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/capture"
)

// snapshotCmd captures straight to a destination without opening a window.
type snapshotCmd struct {
	mode        string // screen | region | display | rect
	selector    string
	rect        string
	output      string
	format      string
	quality     int
	toClipboard bool
	stdout      bool
	*root
	fs *flag.FlagSet
}

func (s *snapshotCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.output, "output", "", "write the capture to this file path")
	fs.StringVar(&s.format, "format", "", "output format: png, jpeg, tiff, or pdf")
	fs.IntVar(&s.quality, "quality", 0, "JPEG quality from 1 to 100")
	fs.BoolVar(&s.toClipboard, "clipboard", false, "copy the capture to the clipboard")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -clipboard")
	}
	operands := fs.Args()
	if len(operands) < 1 {
		return nil, &UsageError{of: s}
	}
	s.mode = strings.ToLower(operands[0])
	operands = operands[1:]
	switch s.mode {
	case "screen", "region":
	case "display":
		if len(operands) > 0 {
			s.selector = operands[0]
		}
	case "rect":
		if len(operands) < 1 {
			return nil, &UsageError{of: s}
		}
		s.rect = operands[0]
	default:
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	req, err := s.request()
	if err != nil {
		return err
	}
	img, err := captureFn(context.Background(), req)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", s.mode, err)
	}
	s.root.notifyCapture(s.mode, img)

	if s.stdout {
		if err := png.Encode(os.Stdout, img); err != nil {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return nil
	}

	sink, err := s.root.newSink(s.format, s.quality)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Store().Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing history store: %v\n", cerr)
		}
	}()

	if s.toClipboard {
		if err := sink.CopyClipboard(img); err != nil {
			return fmt.Errorf("copy capture to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied capture to clipboard")
		s.root.notifyCopy(s.mode + " capture")
		return nil
	}

	path, err := sink.SaveFile(img, s.output)
	if err != nil {
		return fmt.Errorf("save capture: %w", err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	s.root.notifySave(path)
	return nil
}

func (s *snapshotCmd) request() (capture.Request, error) {
	switch s.mode {
	case "region":
		return capture.Request{Mode: capture.SelectionRect}, nil
	case "display":
		return capture.Request{Mode: capture.DisplayRect, Display: s.selector}, nil
	case "rect":
		r, err := parseRectSpec(s.rect)
		if err != nil {
			return capture.Request{}, err
		}
		return capture.Request{Mode: capture.FixedRect, Rect: r}, nil
	default:
		return capture.Request{Mode: capture.FullScreen}, nil
	}
}

// parseRectSpec reads a capture rectangle as x0,y0,x1,y1.
func parseRectSpec(spec string) (image.Rectangle, error) {
	parts := strings.Split(strings.TrimSpace(spec), ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("rect must be x0,y0,x1,y1, got %q", spec)
	}
	vals := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("rect coordinate %q: %w", part, err)
		}
		vals[i] = v
	}
	r := image.Rect(vals[0], vals[1], vals[2], vals[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("rect %q has no area", spec)
	}
	return r, nil
}
