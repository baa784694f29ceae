package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/runner"
)

type solveOpts struct {
	output    string
	maxCities int
	workers   int
}

// solveResult is one line of `solve --output json`.
type solveResult struct {
	File string `json:"file"`
	runner.Outcome
	Labeled string `json:"labeled_tour,omitempty"`
}

func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <file>...",
		Short: "Solve instance files (.toml, .yaml, .json)",
		Long: `Solve finds the minimum-cost tour of each instance file.

Files are solved concurrently; results are printed in argument order.
An instance without a tour or above the ceiling is reported, not an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("unknown output %q (want text or json)", opts.output)
			}
			return c.runSolve(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().IntVar(&opts.maxCities, "max-cities", 0, "admission ceiling (default from config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent solves (default from config)")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, files []string, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	r, closeCache, err := c.newRunner(ctx, nil, opts.maxCities)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("close cache", "err", err)
		}
	}()

	workers := opts.workers
	if workers <= 0 {
		workers = c.Config.Solver.Workers
	}

	insts := make([]*instance.Instance, len(files))
	outs := make([]runner.Outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			inst, err := instance.Load(file)
			if err != nil {
				return err
			}
			out, err := r.Solve(gctx, inst)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			insts[i], outs[i] = inst, out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.output == "json" {
		enc := json.NewEncoder(c.Out)
		for i := range outs {
			res := solveResult{File: files[i], Outcome: outs[i]}
			if outs[i].Found() {
				res.Labeled = insts[i].FormatTour(outs[i].Tour)
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range outs {
		printOutcome(c.Out, insts[i], outs[i])
	}

	return nil
}
