package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shufflepad/internal/device"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective device config",
		Long: `Load the device config named by --config (or the defaults), validate it
and print the values the device would run with. The PIN is masked.

Example:
  shufflepad config --config ./keypad.cue
  shufflepad config --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	cfg, err := loadConfigForCommand(opts, formatter)
	if err != nil {
		return err
	}

	fc := fileConfigOf(cfg)
	var b strings.Builder
	fmt.Fprintf(&b, "pin:            %s\n", fc.Pin)
	fmt.Fprintf(&b, "axis_low:       %d\n", fc.AxisLow)
	fmt.Fprintf(&b, "axis_high:      %d\n", fc.AxisHigh)
	fmt.Fprintf(&b, "debounce_ms:    %d\n", fc.DebounceMS)
	fmt.Fprintf(&b, "poll_period_ms: %d\n", fc.PollPeriodMS)
	fmt.Fprintf(&b, "feedback_ms:    %d\n", fc.FeedbackMS)
	fmt.Fprintf(&b, "press_policy:   %s", fc.PressPolicy)
	return formatter.Success(fc, b.String())
}

// loadConfigForCommand loads --config, reporting failures through
// formatter and as an ExitCommandError.
func loadConfigForCommand(opts *RootOptions, formatter *OutputFormatter) (device.Config, error) {
	cfg, err := LoadConfig(opts.Config)
	if err == nil {
		return cfg, nil
	}

	var le *LoadError
	if errors.As(err, &le) {
		var details any
		if le.Pos.IsValid() {
			details = map[string]any{"file": le.Pos.Filename(), "line": le.Pos.Line(), "column": le.Pos.Column()}
		}
		_ = formatter.Error(le.Code, le.Message, details)
	} else {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return device.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
}
