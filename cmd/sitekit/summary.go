package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/config"
	"github.com/terminator2-agent/sitekit/internal/model"
	"github.com/terminator2-agent/sitekit/internal/portfolio"
	"github.com/terminator2-agent/sitekit/internal/report"
	"github.com/terminator2-agent/sitekit/internal/store"
)

const (
	// defaultSnapshotPath is the portfolio document published by the agent.
	defaultSnapshotPath = "portfolio_data.json"

	// lastSummaryKey stores the most recent summary in the local state.
	lastSummaryKey = "summary.last"

	summaryHint = "summary"
)

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [path]",
		Short: "Summarize the portfolio snapshot",
		Long: `Summary loads the portfolio snapshot and prints the figures the
dashboard shows: equity, ROI, capital deployed, annualized return, the
agent's heartbeat, edge health, the strongest positions and the capital
that frees up as markets close.

The snapshot path defaults to portfolio_data.json on the site.

Examples:
  # Human-readable summary
  sitekit summary

  # Markdown summary written to a file
  sitekit summary --markdown -o reports/portfolio.md

  # JSON for scripts
  sitekit summary --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSummaryCmd,
	}

	addNetworkFlags(cmd)
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown and --html)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output an HTML fragment (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write summary to specified file path (creates directories if needed)")

	return cmd
}

// runSummaryCmd executes the summary command.
func runSummaryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	inception, err := cfg.InceptionDate()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	path := defaultSnapshotPath
	if len(args) == 1 {
		path = args[0]
	}

	logger := setupLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	l, err := newLoader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	var snapshot model.Snapshot
	if !l.LoadInto(ctx, path, &snapshot) {
		return fmt.Errorf("failed to load portfolio snapshot %s", path)
	}

	summary := portfolio.Summarize(&snapshot, time.Now(),
		portfolio.WithStartingEquity(cfg.Portfolio.StartingEquity),
		portfolio.WithInception(inception),
	)

	if err := writeSummary(cmd.OutOrStdout(), cfg, summary); err != nil {
		return err
	}

	st := openStore(cfg, logger)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Debug("failed to close local state", "error", err)
		}
	}()
	rememberSummary(ctx, st, summary, logger)

	if cfg.ReportFile == "" && !cfg.JSONReport && st.ShowOnce(ctx, summaryHint) {
		fmt.Fprintln(cmd.ErrOrStderr(),
			"tip: use --markdown or --html with -o to publish this summary")
	}
	return nil
}

// applyReportFlags copies the output flags onto cfg.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.HTMLReport, err = cmd.Flags().GetBool("html"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	return nil
}

// reportFormat returns the writer format selected by cfg.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.HTMLReport:
		return report.FormatHTML
	default:
		return report.FormatText
	}
}

// newReportWriter returns the writer selected by cfg. JSON documents
// record the sitekit version.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	if cfg.JSONReport {
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	}
	return report.New(reportFormat(cfg), w, report.WithCurrency(cfg.Currency))
}

// writeSummary renders s to stdout, or atomically to cfg.ReportFile.
func writeSummary(stdout io.Writer, cfg *config.Config, s *portfolio.Summary) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(cfg, stdout).Write(s)
		return err
	}

	var buf bytes.Buffer
	if _, err := newReportWriter(cfg, &buf).Write(s); err != nil {
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := atomic.WriteFile(cfg.ReportFile, &buf); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// lastSummary is the part of a summary kept between runs.
type lastSummary struct {
	GeneratedAt time.Time `json:"generated_at"`
	Cycles      int       `json:"cycles"`
	Equity      *float64  `json:"equity"`
	ROI         *float64  `json:"roi"`
}

// rememberSummary logs the previous run's summary and stores this one.
func rememberSummary(ctx context.Context, st *store.Store, s *portfolio.Summary, logger *slog.Logger) {
	var prev lastSummary
	if st.Load(ctx, lastSummaryKey, &prev) {
		logger.Debug("previous summary", "generated_at", prev.GeneratedAt, "cycles", prev.Cycles)
	}
	st.Save(ctx, lastSummaryKey, lastSummary{
		GeneratedAt: s.GeneratedAt,
		Cycles:      s.Cycles,
		Equity:      s.Equity,
		ROI:         s.ROI,
	})
}
