package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/snapmark/internal/export"
)

// historyCmd inspects the export history log.
type historyCmd struct {
	action string // list | save | clear
	id     string
	output string
	*root
	fs *flag.FlagSet
}

func (h *historyCmd) FlagSet() *flag.FlagSet { return h.fs }

func parseHistoryCmd(args []string, r *root) (*historyCmd, error) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	h := &historyCmd{root: r, fs: fs}
	fs.Usage = usageFunc(h)
	fs.StringVar(&h.output, "output", "", "file path to save a record's image to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	operands := fs.Args()
	if len(operands) < 1 {
		h.action = "list"
		return h, nil
	}
	h.action = operands[0]
	switch h.action {
	case "list", "clear":
	case "save":
		if len(operands) < 2 {
			return nil, &UsageError{of: h}
		}
		h.id = operands[1]
		if h.output == "" {
			return nil, fmt.Errorf("-output is required when saving a record")
		}
	default:
		return nil, &UsageError{of: h}
	}
	return h, nil
}

func (h *historyCmd) Run() error {
	if h.root.config.HistoryDB == "" {
		return fmt.Errorf("no history database configured; set history_db in the config")
	}
	store, err := h.root.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing history store: %v\n", cerr)
		}
	}()

	switch h.action {
	case "save":
		rec, err := store.Get(h.id)
		if err != nil {
			return fmt.Errorf("load record %s: %w", h.id, err)
		}
		if err := os.WriteFile(h.output, rec.Image, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", h.output, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", h.output)
		return nil
	case "clear":
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintln(os.Stderr, "history cleared")
		return nil
	default:
		return h.list(store)
	}
}

func (h *historyCmd) list(store export.Store) error {
	records, err := store.List()
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no exports recorded")
		return nil
	}
	for _, rec := range records {
		dest := rec.Path
		if dest == "" {
			dest = "(clipboard)"
		}
		fmt.Printf("%s  %s  %s  %s\n",
			rec.ID, rec.Created.Format("2006-01-02 15:04:05"), rec.Filename, dest)
	}
	return nil
}
