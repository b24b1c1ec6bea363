package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// configCmd shows or initializes the configuration file.
type configCmd struct {
	action string // show | path | init
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.action = fs.Arg(0)
	switch c.action {
	case "show", "path", "init":
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch c.action {
	case "show":
		fmt.Print(c.root.config.String())
		return nil
	case "path":
		path := c.root.loader.ConfigPath()
		if path == "" {
			fmt.Println("(no config file; using defaults)")
			return nil
		}
		fmt.Println(path)
		return nil
	default:
		return c.runInit()
	}
}

// runInit writes the effective configuration to the default location; an
// existing file is left alone.
func (c *configCmd) runInit() error {
	path := c.root.loader.ConfigPath()
	if path != "" {
		return fmt.Errorf("config file already exists at %s", path)
	}
	path, err := c.root.loader.DefaultPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.root.config.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "configuration written to %s\n", path)
	return nil
}
