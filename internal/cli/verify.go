package cli

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/tsp"
)

// ErrMismatch is returned by verify when the solvers disagree.
var ErrMismatch = errors.New("held-karp and brute force disagree")

func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Cross-check Held–Karp against exhaustive search",
		Long: fmt.Sprintf(`Verify solves each instance twice, with Held–Karp and by enumerating
every permutation, and compares status and cost. The returned tour is
re-priced independently. Instances above %d cities are skipped.`, tsp.BruteForceMaxCities),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			var failed int
			for _, file := range args {
				inst, err := instance.Load(file)
				if err != nil {
					return err
				}
				msg, err := verifyInstance(inst)
				switch {
				case errors.Is(err, ErrMismatch):
					failed++
					fmt.Fprintf(c.Out, "%s %s: %s\n", styleError.Render(iconError), inst.Name, msg)
				case err != nil:
					return fmt.Errorf("%s: %w", file, err)
				default:
					fmt.Fprintf(c.Out, "%s %s: %s\n", styleSuccess.Render(iconSuccess), inst.Name, msg)
				}
				logger.Debug("verified", "instance", inst.Name, "result", msg)
			}
			if failed > 0 {
				return fmt.Errorf("%w on %d of %d instances", ErrMismatch, failed, len(args))
			}
			return nil
		},
	}
}

// verifyInstance returns a short description and ErrMismatch when the two
// solvers disagree.
func verifyInstance(inst *instance.Instance) (string, error) {
	m, err := inst.Matrix()
	if err != nil {
		return "", err
	}
	opts := inst.Options()
	bf, err := tsp.BruteForce(m, opts...)
	if err != nil {
		return "", err
	}
	if bf.Status == tsp.StatusTooLarge {
		return fmt.Sprintf("skipped (%d cities)", inst.N()), nil
	}
	hk, err := tsp.Solve(m, append(slices.Clone(opts), tsp.WithMaxCities(tsp.BruteForceMaxCities))...)
	if err != nil {
		return "", err
	}

	if hk.Status != bf.Status {
		return fmt.Sprintf("status %s vs %s", hk.Status, bf.Status), ErrMismatch
	}
	if !hk.Found() {
		return "both report no tour", nil
	}
	if math.Abs(hk.Cost-bf.Cost) > 1e-9 {
		return fmt.Sprintf("cost %s vs %s", formatCost(hk.Cost), formatCost(bf.Cost)), ErrMismatch
	}
	priced, err := tsp.TourCost(m, hk.Tour, opts...)
	if err != nil {
		return err.Error(), ErrMismatch
	}
	if math.Abs(priced-hk.Cost) > 1e-9 {
		return fmt.Sprintf("tour prices at %s, reported %s", formatCost(priced), formatCost(hk.Cost)), ErrMismatch
	}

	return fmt.Sprintf("cost %s (%d permutations)", formatCost(hk.Cost), bf.Stats.Attempts), nil
}
