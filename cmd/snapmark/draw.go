package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/item"
	"github.com/example/snapmark/internal/render"
)

// drawCmd annotates an image from command-line operations, driving the same
// editor the window uses.
type drawCmd struct {
	input         string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	width         float64
	ops           []drawOp
	*root
	fs *flag.FlagSet
}

type drawOp struct {
	tool item.Tool
	pts  []geom.Point
	text string
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.input, "input", "", "image file to annotate")
	fs.StringVar(&d.output, "output", "", "output file path")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "", "annotation color, a name or #hex")
	fs.Float64Var(&d.width, "width", 0, "stroke width")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if d.input == "" && !d.fromClipboard {
		return nil, fmt.Errorf("an input image is required: -input or -from-clipboard")
	}
	if d.input != "" && d.fromClipboard {
		return nil, fmt.Errorf("-input cannot be used with -from-clipboard")
	}
	if d.output == "" && !d.toClipboard {
		return nil, fmt.Errorf("output file is required: -output or -to-clipboard")
	}
	ops, err := parseDrawOps(fs.Args())
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, &UsageError{of: d}
	}
	d.ops = ops
	return d, nil
}

// parseDrawOps reads the operation list: freehand tools take x,y point
// tokens, shapes take four coordinates, text takes a point and a string.
func parseDrawOps(args []string) ([]drawOp, error) {
	var ops []drawOp
	for i := 0; i < len(args); {
		switch name := strings.ToLower(args[i]); name {
		case "pen", "highlighter", "eraser":
			tool := map[string]item.Tool{
				"pen":         item.ToolPen,
				"highlighter": item.ToolHighlighter,
				"eraser":      item.ToolEraser,
			}[name]
			i++
			var pts []geom.Point
			for i < len(args) && strings.Contains(args[i], ",") {
				p, err := parsePointSpec(args[i])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				pts = append(pts, p)
				i++
			}
			if len(pts) < 2 {
				return nil, fmt.Errorf("%s needs at least two x,y points", name)
			}
			ops = append(ops, drawOp{tool: tool, pts: pts})
		case "rect", "circle", "arrow":
			tool := map[string]item.Tool{
				"rect":   item.ToolRect,
				"circle": item.ToolCircle,
				"arrow":  item.ToolArrow,
			}[name]
			if len(args)-i-1 < 4 {
				return nil, fmt.Errorf("%s needs four coordinates", name)
			}
			coords := make([]float64, 4)
			for j := 0; j < 4; j++ {
				v, err := strconv.ParseFloat(args[i+1+j], 64)
				if err != nil {
					return nil, fmt.Errorf("%s coordinate %q: %w", name, args[i+1+j], err)
				}
				coords[j] = v
			}
			ops = append(ops, drawOp{
				tool: tool,
				pts:  []geom.Point{geom.Pt(coords[0], coords[1]), geom.Pt(coords[2], coords[3])},
			})
			i += 5
		case "text":
			if len(args)-i-1 < 3 {
				return nil, fmt.Errorf("text needs x, y and a string")
			}
			x, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("text x %q: %w", args[i+1], err)
			}
			y, err := strconv.ParseFloat(args[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("text y %q: %w", args[i+2], err)
			}
			content := args[i+3]
			if strings.TrimSpace(content) == "" {
				return nil, fmt.Errorf("text string cannot be empty")
			}
			ops = append(ops, drawOp{tool: item.ToolText, pts: []geom.Point{geom.Pt(x, y)}, text: content})
			i += 4
		default:
			return nil, fmt.Errorf("unknown draw operation %q", args[i])
		}
	}
	return ops, nil
}

func parsePointSpec(spec string) (geom.Point, error) {
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("point must be x,y, got %q", spec)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: %w", spec, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: %w", spec, err)
	}
	return geom.Pt(x, y), nil
}

func (d *drawCmd) Run() error {
	base, err := d.loadInput()
	if err != nil {
		return err
	}

	style, err := d.root.style()
	if err != nil {
		return err
	}
	if d.colorSpec != "" {
		col, err := parseStyleColor(d.colorSpec)
		if err != nil {
			return err
		}
		style.Color = col
	}
	if d.width > 0 {
		style.Width = d.width
	}

	ed := editor.New(editor.WithStyle(style))
	for _, op := range d.ops {
		applyDrawOp(ed, op)
	}
	out := render.Flatten(base, ed.Items())

	sink, err := d.root.newSink("", 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Store().Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing history store: %v\n", cerr)
		}
	}()

	if d.toClipboard {
		if err := sink.CopyClipboard(out); err != nil {
			return fmt.Errorf("copy result to clipboard: %w", err)
		}
		d.root.notifyCopy("annotated image")
		return nil
	}
	path, err := sink.SaveFile(out, d.output)
	if err != nil {
		return fmt.Errorf("save annotated image: %w", err)
	}
	d.root.notifySave(path)
	return nil
}

// applyDrawOp replays one operation through the editor's gesture surface so
// headless annotations share the interactive code path.
func applyDrawOp(ed *editor.Editor, op drawOp) {
	ed.SetTool(op.tool)
	if op.tool == item.ToolText {
		ed.Tap(op.pts[0])
		ed.CommitText(op.text)
		return
	}
	ed.PointerDown(op.pts[0])
	for _, p := range op.pts[1:] {
		ed.PointerMove(p)
	}
	ed.PointerUp(op.pts[len(op.pts)-1])
}

func (d *drawCmd) loadInput() (*image.RGBA, error) {
	if d.fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return toRGBA(img), nil
	}
	f, err := os.Open(d.input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.input, err)
	}
	defer f.Close()
	dec, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.input, err)
	}
	return toRGBA(dec), nil
}
