package main

import (
	"flag"
	"fmt"

	"github.com/example/snapmark/internal/capture"
)

// displaysCmd lists the attached displays.
type displaysCmd struct {
	*root
	fs *flag.FlagSet
}

func (d *displaysCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseDisplaysCmd(args []string, r *root) (*displaysCmd, error) {
	fs := flag.NewFlagSet("displays", flag.ExitOnError)
	d := &displaysCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *displaysCmd) Run() error {
	displays, err := capture.Displays()
	if err != nil {
		return fmt.Errorf("list displays: %w", err)
	}
	for _, disp := range displays {
		marker := " "
		if disp.Primary {
			marker = "*"
		}
		fmt.Printf("%s %d  %s  %dx%d at (%d,%d)\n",
			marker, disp.Index, disp.Name,
			disp.Rect.Dx(), disp.Rect.Dy(), disp.Rect.Min.X, disp.Rect.Min.Y)
	}
	return nil
}
