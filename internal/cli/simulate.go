package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/roach88/shufflepad/internal/harness"
)

// metricPrefix selects the families the simulate command reports.
const metricPrefix = "shufflepad_"

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Metrics bool
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay one scenario and print its trace",
		Long: `Replay a scenario on the simulated device: a manual clock, a scripted
joystick and button, and a character display. The trace shows every device
event and every button edge the debounce gate decided on, followed by the
final frame.

Exit codes:
  0 - Scenario expectations held
  1 - An expectation failed
  2 - Command error (unreadable or invalid scenario)

Example:
  shufflepad simulate ./scenarios/correct_pin.yaml
  shufflepad simulate ./scenarios/debounce.yaml --metrics`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print shufflepad_* counters after the run")

	return cmd
}

// SimulateResult is the simulate command's JSON payload.
type SimulateResult struct {
	Scenario string             `json:"scenario"`
	Result   *harness.Result    `json:"result"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = newLogger(opts.RootOptions, cmd.ErrOrStderr())
	}

	result, err := harness.RunWithLogger(scenario, logger)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := SimulateResult{Scenario: scenario.Name, Result: result}
	if opts.Metrics {
		out.Metrics, err = gatherCounters(prometheus.DefaultGatherer, metricPrefix)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
	}
	text := formatSimulation(scenario, result, out.Metrics)

	if !result.Pass {
		msg := fmt.Sprintf("scenario %s: %d expectation(s) failed", scenario.Name, len(result.Errors))
		if err := formatter.Failure(out, ErrCodeScenario, msg, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(out, text)
}

// formatSimulation renders the trace, the final frame and any failures.
func formatSimulation(s *harness.Scenario, r *harness.Result, metrics map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", s.Name)
	fmt.Fprintf(&b, "  %s\n\n", s.Description)
	for _, e := range r.Trace {
		fmt.Fprintf(&b, "%s\n", e)
	}
	fmt.Fprintf(&b, "\nTicks: %d  Sessions: %d  Row: %d  Pending: %d\n", r.Ticks, r.Sessions, r.FinalRow, r.PendingSelections)
	b.WriteString(r.Frame)

	if len(metrics) > 0 {
		b.WriteString("\nMetrics:\n")
		for _, name := range sortedKeys(metrics) {
			fmt.Fprintf(&b, "  %s %g\n", name, metrics[name])
		}
	}

	if r.Pass {
		b.WriteString("✓ Expectations held")
	} else {
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "%s\n", e)
		}
		b.WriteString("✗ Expectations failed")
	}
	return b.String()
}

// gatherCounters flattens every counter family whose name starts with
// prefix into "name{label=value,...}" keys.
func gatherCounters(g prometheus.Gatherer, prefix string) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) || mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			out[mf.GetName()+formatLabels(m.GetLabel())] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
