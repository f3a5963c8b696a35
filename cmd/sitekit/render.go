package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/markup"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Escape and linkify text the way the site renders it",
		Long: `Render turns plain text into the HTML the site shows for it.

The text is HTML-escaped, then [label](https://...) links and bare http(s)
URLs become anchors that open in a new tab. Links to manifold.markets,
moltbook.com and metaculus.com are shortened to their slug and get a
per-site CSS class. Anchors already in the input are left alone.

Examples:
  # Render a file
  sitekit render entry.txt

  # Render piped text
  echo "see https://manifold.markets/u/will-it-rain" | sitekit render

  # Input that is already escaped
  sitekit render --raw fragment.html

  # List the links instead of rendering
  sitekit render --links entry.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRenderCmd,
	}

	cmd.Flags().Bool("raw", false,
		"Treat the input as already escaped HTML")
	cmd.Flags().Bool("links", false,
		"Print the links found in the input instead of rendering it")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return err
	}
	links, err := cmd.Flags().GetBool("links")
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	text := string(input)
	if !raw {
		text = markup.EscapeHTML(text)
	}

	out := cmd.OutOrStdout()
	if links {
		for _, l := range markup.Links(text) {
			fmt.Fprintf(out, "%s\t%s\t%s\n", l.Domain, l.DisplayText, l.URL)
		}
		return nil
	}

	_, err = io.WriteString(out, markup.Linkify(text))
	return err
}

// readInput reads the file named by args[0], or stdin when no file is
// given. An interactive terminal on stdin is an error rather than a wait.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0]) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return data, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return nil, errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
