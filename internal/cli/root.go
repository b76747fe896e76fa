// Package cli is the lumen command line.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lumen/config"
	"lumen/internal/logging"
	"lumen/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Seed       int64
	Endpoint   string
}

// NewRootCommand creates the root command for the lumen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lumen",
		Short: "lumen - timed ops as particles",
		Long: `Render a stream of timed ops as layered particle passes.

The composition is described by a YAML config; ops come from a JSON
document that can be streamed or reloaded while running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "override the render seed")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "otel-endpoint", "", "export traces to this OTLP/HTTP endpoint")

	cmd.AddCommand(NewLiveCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// setup loads the config, applies the flags the user set, builds the
// logger and starts tracing. apply runs before validation. The returned
// finish flushes traces and logs and must be deferred.
func (o *RootOptions) setup(cmd *cobra.Command, apply func(*config.Config)) (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Render.Seed = o.Seed
	}
	if cmd.Flags().Changed("otel-endpoint") {
		cfg.Tracing.Endpoint = o.Endpoint
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(o.Verbose)
	if err != nil {
		return nil, nil, nil, err
	}
	shutdown, err := tracing.Setup(cmd.Context(), cfg.Tracing)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	if cfg.Tracing.Active() {
		log.Info("tracing", zap.String("endpoint", cfg.Tracing.Endpoint), zap.String("service", cfg.Tracing.Service))
	}
	finish := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("trace shutdown", zap.Error(err))
		}
		_ = log.Sync()
	}
	return cfg, log, finish, nil
}
