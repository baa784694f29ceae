// Package cli implements the heldkarp command-line interface.
//
// # Commands
//
//   - solve:   solve one or more instance files concurrently
//   - trace:   solve one instance and stream every relaxation
//   - verify:  cross-check Held–Karp against exhaustive search
//   - serve:   run the HTTP API
//   - version: print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/heldkarp/cache"
	"github.com/katalvlaran/heldkarp/config"
	"github.com/katalvlaran/heldkarp/metrics"
	"github.com/katalvlaran/heldkarp/runner"
)

const appName = "heldkarp"

// CLI holds state shared by all commands.
type CLI struct {
	Out    io.Writer
	Err    io.Writer
	Config config.Config

	configPath string
	verbose    bool
	noCache    bool
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	return &CLI{Out: out, Err: errOut, Config: config.Default()}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "heldkarp finds optimal travelling-salesman tours",
		Long:          `heldkarp solves small travelling-salesman instances exactly with the Held–Karp dynamic program, over directed weighted graphs with optional missing edges.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if c.verbose {
				c.Config.Log.Level = "debug"
			}
			logger, err := newLogger(c.Err, c.Config.Log)
			if err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionTemplate())
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// Execute builds the root command and runs it with args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

// newRunner creates a runner over the configured cache. The returned close
// function releases the cache.
func (c *CLI) newRunner(ctx context.Context, reg prometheus.Registerer, maxCities int) (*runner.Runner, func() error, error) {
	logger := loggerFromContext(ctx)
	store, err := c.openCache(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	var m *metrics.Collector
	if reg != nil {
		if m, err = metrics.New(reg); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}
	if maxCities <= 0 {
		maxCities = c.Config.Solver.MaxCities
	}
	r := runner.New(store, m, logger, maxCities)
	r.TTL = c.Config.Cache.TTL

	return r, store.Close, nil
}

func (c *CLI) openCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	cfg := c.Config.Cache
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	var (
		store cache.Cache
		err   error
	)
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "memory":
		store, err = cache.OpenBadger(cache.BadgerConfig{InMemory: true, Logger: logger})
	case "badger":
		store, err = cache.OpenBadger(cache.BadgerConfig{Path: cfg.Path, Logger: logger})
	case "redis":
		prefix := cfg.Prefix
		if prefix != "" && !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		store, err = cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   prefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	logger.Debug("cache opened", "backend", cfg.Backend)

	return store, nil
}
