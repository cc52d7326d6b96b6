package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/shufflepad/internal/device"
	"github.com/roach88/shufflepad/internal/feedback"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Bell    bool
	NoClear bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the keypad in the terminal",
		Long: `Run the keypad on the terminal. The screen shows the shuffled rows and
the row indicator. Type commands and press enter:

  u, up      move the indicator up one row
  d, down    move the indicator down one row
  p, press   press the button (an empty line also presses)
  q, quit    stop

Several commands can share a line. Commands are applied in the order typed,
one per tick, and a press always selects the row the moves before it reached.
Every attempt gets a fresh layout from the
cryptographic generator.

Example:
  shufflepad run
  shufflepad run --config ./keypad.cue --bell`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevice(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Bell, "bell", false, "ring the terminal bell on each result")
	cmd.Flags().BoolVar(&opts.NoClear, "no-clear", false, "print frames one after another instead of redrawing")

	return cmd
}

// RunSummary is reported when the device stops.
type RunSummary struct {
	Sessions int `json:"sessions"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
}

func runDevice(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfigForCommand(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	screen := io.Discard
	if opts.Format == "text" {
		screen = cmd.OutOrStdout()
	}
	var bell io.Writer
	if opts.Bell {
		bell = screen
	}

	clock := device.NewMonotonicTime()
	gate := device.NewPressGate(cfg.Debounce, clock)
	st := newStick(gate, logger)
	term := newTerminalDisplay(screen, !opts.NoClear && opts.Format == "text")

	var summary RunSummary
	dev, err := device.New(cfg, term, feedback.NewPaced(logger, bell, cfg.FeedbackPacing),
		device.GatedInput{Axis: st, Gate: gate},
		device.Options{
			Logger: logger,
			Observer: device.ObserverFunc(func(e device.Event) {
				if e.Kind != device.EventVerified {
					return
				}
				if e.Passed {
					summary.Passed++
				} else {
					summary.Failed++
				}
			}),
		})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start device", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader blocks on stdin and cannot be interrupted, so it stays
	// outside the group and only cancels it, once the device has taken
	// every command read before quit or end of input.
	go func() {
		if readCommands(cmd.InOrStdin(), st, logger) {
			logger.Info("quit requested")
		}
		waitDrained(ctx, st, cfg.PollPeriod)
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dev.Run(gctx, device.NewTicker(cfg.PollPeriod))
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "device stopped", err)
	}

	summary.Sessions = dev.Session().Number
	return formatter.Success(summary, fmt.Sprintf("\nStopped after %d session(s): %d passed, %d failed",
		summary.Sessions, summary.Passed, summary.Failed))
}

// waitDrained blocks until the device loop has taken every queued command
// or ctx is done.
func waitDrained(ctx context.Context, st *stick, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for st.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
