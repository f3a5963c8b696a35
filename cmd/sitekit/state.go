package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/store"
)

// NewStateCmd creates the state command group.
func NewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and edit the local state",
		Long: `State manages the small key/value store that keeps preferences and
one-time hints between runs. Values are JSON.

Examples:
  sitekit state list
  sitekit state set theme '"dark"'
  sitekit state get summary.last
  sitekit state delete hint.seen.summary`,
	}
	cmd.AddCommand(newStateGetCmd())
	cmd.AddCommand(newStateSetCmd())
	cmd.AddCommand(newStateListCmd())
	cmd.AddCommand(newStateDeleteCmd())
	return cmd
}

func newStateGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				raw, err := st.GetRaw(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := json.Indent(&buf, raw, "", "  "); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), buf.String())
				return nil
			})
		},
	}
}

func newStateSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a key",
		Long: `Set stores value under key. A value that is not valid JSON is stored as
a JSON string.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				return st.PutRaw(cmd.Context(), args[0], stateValue(args[1]))
			})
		},
	}
}

func newStateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys with their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(st *store.Store) error {
				entries, err := st.Entries(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No state stored.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tVALUE\tUPDATED")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

func newStateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				return st.Delete(cmd.Context(), args[0])
			})
		},
	}
}

// withStore opens the state database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DataDir == "" {
		return errors.New("no data directory configured")
	}

	opts := store.DefaultOptions()
	opts.Logger = setupLogger(cmd, cfg.Verbose)
	st, err := store.Open(cfg.DataDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open local state in %s: %w", cfg.DataDir, err)
	}

	fnErr := fn(st)
	if err := st.Close(); err != nil && fnErr == nil {
		return fmt.Errorf("failed to close local state: %w", err)
	}
	return fnErr
}

// stateValue returns s as JSON, quoting it when it is not JSON already.
func stateValue(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s) //nolint:errcheck // strings always marshal
	return quoted
}

