package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/terminator2-agent/sitekit/internal/config"
	sitelog "github.com/terminator2-agent/sitekit/internal/log"
	"github.com/terminator2-agent/sitekit/internal/loader"
	"github.com/terminator2-agent/sitekit/internal/store"
	"github.com/terminator2-agent/sitekit/internal/transport"
)

// addNetworkFlags registers the flags of commands that load documents.
func addNetworkFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Site the document paths are resolved against")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout (0 waits until the request completes)")
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of documents fetched in parallel")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getGlobalString retrieves a persistent string flag from the command or
// its root.
func getGlobalString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the config file and the
// flags the user set, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getGlobalString(cmd, "config")

	// If the user explicitly specified a config file path, error if not found.
	// If no path is specified, silently use defaults if no file is found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if dir := getGlobalString(cmd, "data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	if err := applyNetworkFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyNetworkFlags copies the network flags the user set onto cfg.
func applyNetworkFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger returns the redacting logger writing to the command's
// stderr, as JSON when --log-json is set.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs, _ = cmd.Root().PersistentFlags().GetBool("log-json") //nolint:errcheck // absent flag means text
	}
	if jsonLogs {
		return sitelog.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return sitelog.NewLogger(cmd.ErrOrStderr(), verbose)
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newLoader opens a loader session configured from cfg. When a proxy is
// configured it is checked first, so a dead proxy fails fast instead of
// every document failing on its own.
func newLoader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*loader.Loader, error) {
	opts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
	}
	for k, v := range cfg.Headers {
		opts = append(opts, transport.WithHeader(k, v))
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, transport.WithProxy(cfg.ProxyAddress))
	}

	client, err := transport.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	if cfg.ProxyAddress != "" {
		if status := client.CheckProxy(ctx); status != transport.ProxyStatusOK {
			return nil, fmt.Errorf("proxy check failed: %w (make sure the proxy is running at %s)",
				status.Err(), cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	return loader.New(
		loader.WithHTTPClient(client.HTTPClient()),
		loader.WithBaseURL(cfg.BaseURL),
		loader.WithLogger(logger),
		loader.WithTimeout(cfg.Timeout),
		loader.WithMaxBodySize(cfg.MaxBodySize),
		loader.WithConcurrency(cfg.Concurrency),
	)
}

// openStore opens the local state database. Commands that only use state
// for conveniences continue without it, so a failure is logged and a nil
// store returned.
func openStore(cfg *config.Config, logger *slog.Logger) *store.Store {
	opts := store.DefaultOptions()
	opts.Logger = logger
	st, err := store.Open(cfg.DataDir, opts)
	if err != nil {
		logger.Debug("local state unavailable", "dir", cfg.DataDir, "error", err)
		return nil
	}
	return st
}

// errNoInput is returned when a command needs a file or piped input.
var errNoInput = errors.New("no input: pass a file or pipe text on stdin")
