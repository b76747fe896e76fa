package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lumen/app"
	"lumen/config"
	"lumen/internal/buildinfo"
)

// NewLiveCommand creates the live command.
func NewLiveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		headless    bool
		ticks       uint64
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Render in a window (or headless) in real time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, finish, err := rootOpts.setup(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("headless") {
					cfg.Window.Headless = headless
				}
				if cmd.Flags().Changed("ticks") {
					cfg.Window.Ticks = ticks
				}
				if cmd.Flags().Changed("metrics-addr") {
					cfg.Metrics.Addr = metricsAddr
				}
			})
			if err != nil {
				return err
			}
			defer finish()

			log.Info("live", zap.String("version", buildinfo.Short()), zap.Bool("headless", cfg.Window.Headless))
			err = app.Live(cmd.Context(), cfg, app.Options{Log: log})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	cmd.Flags().Uint64Var(&ticks, "ticks", 0, "stop after N ticks in headless mode (0 = run forever)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		frames int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render a fixed number of frames to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, finish, err := rootOpts.setup(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("frames") {
					cfg.Print.Frames = frames
				}
				if cmd.Flags().Changed("out") {
					cfg.Print.Out = out
				}
			})
			if err != nil {
				return err
			}
			defer finish()

			dir, err := app.Print(cmd.Context(), cfg, app.Options{Log: log})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "number of frames to render")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory")
	return cmd
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the pass order and frame usage of the composition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, finish, err := rootOpts.setup(cmd, nil)
			if err != nil {
				return err
			}
			defer finish()
			plan, err := app.Plan(cfg, app.Options{Log: log})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan)
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
