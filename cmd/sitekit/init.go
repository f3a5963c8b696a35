package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/config"
)

//go:embed templates/sitekit.yaml
var starterConfig []byte

// errConfigExists is returned when init would clobber a file without --force.
var errConfigExists = errors.New("config file already exists")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .sitekit file",
		Long: `Write a commented starter config with every sitekit default spelled out:
the site address, request headers, timeout and proxy, the feed title and
the portfolio starting equity. Uncomment and edit what you need.

  sitekit init                  # ./.sitekit
  sitekit init -o site.yaml     # somewhere else
  sitekit init -f               # replace an existing file`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "where to write the config")
	cmd.Flags().BoolP("force", "f", false, "replace an existing file")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeStarterConfig(path, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// writeStarterConfig creates path, and its directory, from the embedded
// template. An existing file is only replaced when force is set.
func writeStarterConfig(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%w: %s (pass -f to replace it)", errConfigExists, path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check %s: %w", path, err)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(starterConfig)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
