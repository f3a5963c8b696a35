package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/diary"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// NewDiaryCmd creates the diary command group.
func NewDiaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Work with the agent's diary",
		Long: `Diary converts the agent's Markdown diary into the JSON document the
site reads.`,
	}
	cmd.AddCommand(newDiaryExportCmd())
	return cmd
}

func newDiaryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <diary.md>",
		Short: "Export a Markdown diary to diary_entries.json",
		Long: `Export splits a Markdown diary at its "## YYYY-MM-DD HH:MM UTC" headings
and writes the entries, numbered from 1, as diary_entries.json.

The file is replaced atomically, so the site never serves a partial
document. Use "-o -" to print the JSON instead.

Examples:
  sitekit diary export diary.md
  sitekit diary export diary.md -o site/diary_entries.json`,
		Args: cobra.ExactArgs(1),
		RunE: runDiaryExportCmd,
	}
	cmd.Flags().StringP("output", "o", diary.FileName,
		`Output file path ("-" for stdout)`)
	return cmd
}

// runDiaryExportCmd executes the diary export command.
func runDiaryExportCmd(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, getVerboseFlag(cmd))

	entries, err := diary.ParseFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("diary parsed", "path", args[0], "entries", len(entries))

	if output == stdoutPath {
		return diary.Export(cmd.OutOrStdout(), entries)
	}
	if err := diary.ExportFile(output, entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), output)
	return nil
}
