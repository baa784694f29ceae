package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/runner"
	"github.com/katalvlaran/heldkarp/tsp"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
)

// printOutcome writes a one-block human summary of out.
func printOutcome(w io.Writer, inst *instance.Instance, out runner.Outcome) {
	source := ""
	if out.CacheHit {
		source = styleDim.Render(" (cached)")
	}
	switch out.Status {
	case tsp.StatusFound:
		fmt.Fprintf(w, "%s %s%s\n", styleSuccess.Render(iconSuccess), styleTitle.Render(inst.Name), source)
		fmt.Fprintf(w, "  tour  %s\n", inst.FormatTour(out.Tour))
		fmt.Fprintf(w, "  cost  %s\n", styleNumber.Render(formatCost(out.Cost)))
	case tsp.StatusNotFound:
		fmt.Fprintf(w, "%s %s%s\n", styleWarning.Render(iconWarning), styleTitle.Render(inst.Name), source)
		fmt.Fprintf(w, "  no Hamiltonian cycle through %s\n", inst.Label(inst.Source))
	case tsp.StatusTooLarge:
		fmt.Fprintf(w, "%s %s\n", styleError.Render(iconError), styleTitle.Render(inst.Name))
		fmt.Fprintf(w, "  %d cities exceeds the ceiling (raise --max-cities, at most %d)\n", out.N, tsp.HardMaxCities)
	}
	if out.Stats.States > 0 {
		fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("  %d states, %d relaxations, %d improvements",
			out.Stats.States, out.Stats.Attempts, out.Stats.Improvements)))
	}
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
