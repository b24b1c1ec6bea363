package main

import (
	"bytes"
	"embed"
	"flag"
	"sync"
	"text/template"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// HelpData is what a command exposes to its help template.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError renders a command's help text; the CLI prints it without an
// error exit.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	data := struct {
		Program string
		Flags   []flagInfo
	}{Program: e.of.Program()}
	if fs := e.of.FlagSet(); fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			data.Flags = append(data.Flags, flagInfo{f.Name, f.DefValue, f.Usage})
		})
	}
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), data); err != nil {
		logrus.WithError(err).Error("Failed to render help template")
		return "", err
	}
	return buf.String(), nil
}

// usageFunc adapts a UsageError to flag.FlagSet.Usage.
func usageFunc(of HelpData) func() {
	return func() {
		err := &UsageError{of: of}
		_, _ = bytes.NewBufferString(err.Error()).WriteTo(flag.CommandLine.Output())
	}
}

func (r *root) Template() string { return "root.txt" }

func (a *annotateCmd) Template() string { return "annotate.txt" }

func (s *snapshotCmd) Template() string { return "snapshot.txt" }

func (d *drawCmd) Template() string { return "draw.txt" }

func (h *historyCmd) Template() string { return "history.txt" }

func (d *displaysCmd) Template() string { return "displays.txt" }

func (c *configCmd) Template() string { return "config.txt" }
