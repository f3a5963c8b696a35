package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitekit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitekit",
		Short: "Toolkit for the Terminator2 dashboard site",
		Long: `sitekit renders, fetches and generates the content of the Terminator2
dashboard site.

Text is escaped and linkified exactly as the pages do it, documents are
loaded through a per-run cache with cache-busting requests, and the diary
export and RSS feed are written atomically.

Settings are read from .sitekit in the current or home directory, or from
the file given with --config. Flags override the file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .sitekit in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory of the local state database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewSummaryCmd())
	cmd.AddCommand(NewDiaryCmd())
	cmd.AddCommand(NewFeedCmd())
	cmd.AddCommand(NewStateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
