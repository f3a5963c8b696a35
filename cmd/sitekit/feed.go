package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/config"
	"github.com/terminator2-agent/sitekit/internal/diary"
	"github.com/terminator2-agent/sitekit/internal/feed"
)

// NewFeedCmd creates the feed command.
func NewFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed [diary_entries.json]",
		Short: "Generate the RSS feed of the diary",
		Long: `Feed builds an RSS 2.0 feed of the latest diary entries, newest first,
from the exported diary_entries.json.

Each item links to its entry on the site and carries the first part of
the entry as its description. The feed is replaced atomically.

Examples:
  sitekit feed
  sitekit feed site/diary_entries.json -o site/feed.xml --limit 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFeedCmd,
	}
	cmd.Flags().StringP("output", "o", feed.FileName,
		`Output file path ("-" for stdout)`)
	cmd.Flags().String("site-url", "",
		"Site the item links point to (default: from config)")
	cmd.Flags().Int("limit", 0,
		"Number of entries in the feed (default: from config)")
	return cmd
}

// runFeedCmd executes the feed command.
func runFeedCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyFeedFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	input := diary.FileName
	if len(args) == 1 {
		input = args[0]
	}

	logger := setupLogger(cmd, cfg.Verbose)

	entries, err := diary.ReadFile(input)
	if err != nil {
		return err
	}

	rss := feed.Build(entries,
		feed.WithSiteURL(cfg.Feed.SiteURL),
		feed.WithTitle(cfg.Feed.Title),
		feed.WithDescription(cfg.Feed.Description),
		feed.WithLimit(cfg.Feed.Limit),
		feed.WithDescriptionLength(cfg.Feed.DescriptionLength),
	)
	logger.Debug("feed built", "entries", len(entries), "items", len(rss.Channel.Items))

	if output == stdoutPath {
		_, err := rss.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := feed.WriteFile(output, rss); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", len(rss.Channel.Items), output)
	return nil
}

// applyFeedFlags copies the feed flags the user set onto cfg.
func applyFeedFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("site-url") {
		if cfg.Feed.SiteURL, err = flags.GetString("site-url"); err != nil {
			return err
		}
	}
	if flags.Changed("limit") {
		if cfg.Feed.Limit, err = flags.GetInt("limit"); err != nil {
			return err
		}
	}
	return nil
}
