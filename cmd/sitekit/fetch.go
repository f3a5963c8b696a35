package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/config"
	"github.com/terminator2-agent/sitekit/internal/format"
)

// errFieldNotFound is returned when --field names a missing value.
var errFieldNotFound = errors.New("field not found")

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <path>...",
		Short: "Fetch JSON documents from the site",
		Long: `Fetch loads JSON documents the way the site's pages do.

Every request carries a _t=<milliseconds> query parameter so caches are
bypassed. All paths share one session: a path given twice is requested
once, and different paths are fetched in parallel.

A single value can be extracted with --field, using dots for object keys
and array indexes, and formatted as an amount or a timestamp.

Examples:
  # Print a document
  sitekit fetch portfolio_data.json

  # Print the equity as an amount
  sitekit fetch portfolio_data.json --field total_equity --mana

  # When did the agent last report in?
  sitekit fetch portfolio_data.json --field last_updated --time

  # The first position's question
  sitekit fetch portfolio_data.json --field positions.0.question`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFetchCmd,
	}

	addNetworkFlags(cmd)
	cmd.Flags().StringP("field", "F", "",
		"Print only this value (dot-separated keys and indexes)")
	cmd.Flags().Bool("mana", false,
		"Format the field as a mana amount")
	cmd.Flags().Bool("time", false,
		"Format the field as a timestamp with its relative age")
	cmd.Flags().Int("decimals", -1,
		"Fixed number of decimals for --mana (default: by magnitude)")

	return cmd
}

// fetchOptions are the output flags of the fetch command.
type fetchOptions struct {
	field    string
	mana     bool
	time     bool
	decimals int
	currency string
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := getFetchOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	l, err := newLoader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	docs := l.LoadAll(ctx, args...)
	logger.Debug("fetch finished", "requested", l.Cached())

	out := cmd.OutOrStdout()
	failed := 0
	for i, doc := range docs {
		if doc == nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to load %s\n", args[i])
			continue
		}
		if len(args) > 1 {
			fmt.Fprintf(out, "%s: ", args[i])
		}
		if err := writeDocument(out, doc, opts); err != nil {
			return fmt.Errorf("%s: %w", args[i], err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to load", failed, len(args))
	}
	return nil
}

func getFetchOptions(cmd *cobra.Command, cfg *config.Config) (fetchOptions, error) {
	opts := fetchOptions{currency: cfg.Currency}
	var err error

	if opts.field, err = cmd.Flags().GetString("field"); err != nil {
		return opts, err
	}
	if opts.mana, err = cmd.Flags().GetBool("mana"); err != nil {
		return opts, err
	}
	if opts.time, err = cmd.Flags().GetBool("time"); err != nil {
		return opts, err
	}
	if opts.decimals, err = cmd.Flags().GetInt("decimals"); err != nil {
		return opts, err
	}
	if opts.mana && opts.time {
		return opts, errors.New("--mana and --time cannot be used together")
	}
	if (opts.mana || opts.time) && opts.field == "" {
		return opts, errors.New("--mana and --time need --field")
	}
	return opts, nil
}

// writeDocument prints doc, or the selected field of it.
func writeDocument(w io.Writer, doc json.RawMessage, opts fetchOptions) error {
	if opts.field == "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	}

	var root any
	if err := json.Unmarshal(doc, &root); err != nil {
		return err
	}
	v, err := lookupField(root, opts.field)
	if err != nil {
		return err
	}

	s, err := formatValue(v, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// lookupField walks a decoded document along a dot-separated path.
func lookupField(v any, path string) (any, error) {
	for _, key := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("%w: %s", errFieldNotFound, path)
			}
			v = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%w: %s", errFieldNotFound, path)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("%w: %s", errFieldNotFound, path)
		}
	}
	return v, nil
}

// formatValue renders a field value. Strings are printed bare, other
// values as JSON unless a formatting flag applies.
func formatValue(v any, opts fetchOptions) (string, error) {
	switch {
	case opts.mana:
		n, ok := v.(float64)
		if !ok {
			return format.FormatManaPtr(nil, format.WithPrefix(opts.currency)), nil
		}
		manaOpts := []format.ManaOption{format.WithPrefix(opts.currency)}
		if opts.decimals >= 0 {
			manaOpts = append(manaOpts, format.WithDecimals(opts.decimals))
		}
		return format.FormatMana(n, manaOpts...), nil
	case opts.time:
		s, _ := v.(string)
		abs := format.FormatTimestampString(s)
		if abs == format.Placeholder {
			return abs, nil
		}
		return abs + " (" + format.RelativeTimeString(s) + ")", nil
	}

	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
