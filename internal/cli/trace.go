package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/tsp"
)

func (c *CLI) traceCommand() *cobra.Command {
	var (
		format    string
		maxCities int
	)

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Solve one instance and print every relaxation",
		Long: `Trace solves a single instance and reports each step of the sweep.

With --format log, improvements and closing candidates are logged at info
level and every relaxation attempt at debug level (-v). With --format json,
one JSON object per event is written to stdout, followed by the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := instance.Load(args[0])
			if err != nil {
				return err
			}
			r, closeCache, err := c.newRunner(ctx, nil, maxCities)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeCache(); err != nil {
					loggerFromContext(ctx).Warn("close cache", "err", err)
				}
			}()

			var (
				tr        tsp.Tracer
				encodeErr error
			)
			switch format {
			case "log":
				level := log.InfoLevel
				if c.verbose {
					level = log.DebugLevel
				}
				tr = tsp.LoggingTracer{
					Logger: log.NewWithOptions(c.Out, log.Options{Level: level, Prefix: inst.Name}),
					N:      inst.N(),
				}
			case "json":
				enc := json.NewEncoder(c.Out)
				tr = tsp.TracerFunc(func(e tsp.Event) {
					if encodeErr != nil {
						return
					}
					if err := enc.Encode(e); err != nil {
						encodeErr = fmt.Errorf("write event %d: %w", e.Seq, err)
					}
				})
			default:
				return fmt.Errorf("unknown format %q (want log or json)", format)
			}

			out, err := r.Trace(ctx, inst, tr)
			if err != nil {
				return err
			}
			if encodeErr != nil {
				return encodeErr
			}
			if format == "json" {
				return json.NewEncoder(c.Out).Encode(out)
			}
			printOutcome(c.Out, inst, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "log", "event format: log or json")
	cmd.Flags().IntVar(&maxCities, "max-cities", 0, "admission ceiling (default from config)")

	return cmd
}
