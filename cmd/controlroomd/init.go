package main

import (
	"fmt"
	"io"
	"os"

	"github.com/vmunix/controlroom/internal/config"
)

// runInit writes the default config to path. An existing file is kept unless force is set.
func runInit(w io.Writer, path string, force bool) error {
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use -force to overwrite", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	_, _ = fmt.Fprintln(w, "Set CONTROLROOM_JWT_SECRET and PLEX_TOKEN, then start controlroomd.")
	return nil
}
