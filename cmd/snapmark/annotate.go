package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/shell"
)

// annotateCmd opens the interactive annotation window over a captured or
// loaded image.
type annotateCmd struct {
	action string // capture | open | clipboard
	target string // capture mode or file path
	output string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.output, "output", "", "save to this file path instead of a derived name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	operands := fs.Args()
	if len(operands) < 1 {
		return nil, &UsageError{of: a}
	}
	a.action = operands[0]
	switch a.action {
	case "capture":
		if len(operands) < 2 {
			return nil, &UsageError{of: a}
		}
		a.target = operands[1]
		switch a.target {
		case "screen", "region":
		case "display":
			if len(operands) >= 3 {
				a.target = "display:" + operands[2]
			} else {
				a.target = "display:"
			}
		default:
			return nil, &UsageError{of: a}
		}
	case "open":
		if len(operands) < 2 {
			return nil, &UsageError{of: a}
		}
		a.target = operands[1]
	case "clipboard":
	default:
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	img, detail, err := a.acquire()
	if err != nil {
		return err
	}
	a.root.notifyCapture(detail, img)

	style, err := a.root.style()
	if err != nil {
		return err
	}
	sink, err := a.root.newSink("", 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Store().Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing history store: %v\n", cerr)
		}
	}()

	ed := editor.New(editor.WithStyle(style))
	sh := shell.New(img, ed,
		shell.WithSink(sink),
		shell.WithNotifier(a.root.notifier),
		shell.WithTheme(a.root.theme),
		shell.WithOutput(a.output),
	)
	sh.Run()
	return nil
}

func (a *annotateCmd) acquire() (*image.RGBA, string, error) {
	switch a.action {
	case "capture":
		req := capture.Request{}
		detail := "screen"
		switch {
		case a.target == "screen":
			req.Mode = capture.FullScreen
		case a.target == "region":
			req.Mode = capture.SelectionRect
			detail = "region"
		default: // display:<selector>
			req.Mode = capture.DisplayRect
			req.Display = a.target[len("display:"):]
			detail = "display " + req.Display
		}
		img, err := captureFn(context.Background(), req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to capture %s: %w", detail, err)
		}
		return img, detail, nil
	case "open":
		f, err := os.Open(a.target)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", a.target, err)
		}
		defer f.Close()
		dec, _, err := image.Decode(f)
		if err != nil {
			return nil, "", fmt.Errorf("decode %s: %w", a.target, err)
		}
		return toRGBA(dec), a.target, nil
	default: // clipboard
		dec, err := clipboard.ReadImage()
		if err != nil {
			return nil, "", fmt.Errorf("read clipboard image: %w", err)
		}
		return toRGBA(dec), "clipboard image", nil
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
