package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shufflepad/internal/harness"
	"github.com/roach88/shufflepad/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Database string
	Batch    string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every matrix of a stored batch",
		Long: `Re-read a stored batch and check each matrix: three different digits per
row, no digit more than twice in the grid. The report is stored with the
batch.

Exit codes:
  0 - Every matrix is valid
  1 - At least one matrix is invalid
  2 - Command error (database, missing batch)

Example:
  shufflepad validate --db ./corpus.db
  shufflepad validate --db ./corpus.db --batch 0190f5a4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Batch, "batch", "", "batch id (default: latest)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// ValidationResult is the validate command's JSON payload.
type ValidationResult struct {
	BatchID         string `json:"batch_id"`
	Valid           int    `json:"valid"`
	Invalid         int    `json:"invalid"`
	FirstInvalidSeq int    `json:"first_invalid_seq,omitempty"`
	Distinct        int    `json:"distinct_layouts"`
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx := cmd.Context()

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	report, err := harness.ValidateBatch(ctx, st, opts.Batch)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to validate batch", err)
	}
	distinct, err := st.DistinctLayouts(ctx, report.BatchID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count layouts", err)
	}
	formatter.VerboseLog("batch %s: %d distinct layouts", report.BatchID, distinct)

	result := ValidationResult{
		BatchID:         report.BatchID,
		Valid:           report.Valid,
		Invalid:         report.Invalid,
		FirstInvalidSeq: report.FirstInvalidSeq,
		Distinct:        distinct,
	}
	text := fmt.Sprintf("Batch %s\n  valid:   %d\n  invalid: %d", report.BatchID, report.Valid, report.Invalid)

	if report.Invalid > 0 {
		logger.Warn("batch has invalid matrices", "batch_id", report.BatchID, "invalid", report.Invalid, "first_invalid_seq", report.FirstInvalidSeq)
		msg := fmt.Sprintf("%d invalid matrices, first at seq %d", report.Invalid, report.FirstInvalidSeq)
		if err := formatter.Failure(result, ErrCodeInvalidBatch, msg, text+"\n✗ "+msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	logger.Info("batch valid", "batch_id", report.BatchID, "valid", report.Valid)
	return formatter.Success(result, text+"\n✓ All matrices valid")
}
