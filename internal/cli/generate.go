package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shufflepad/internal/harness"
	"github.com/roach88/shufflepad/internal/matrix"
	"github.com/roach88/shufflepad/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Database string
	Count    int
	Seed     uint64
	Label    string
	ID       string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of matrices into a database",
		Long: `Generate matrices with the session generator and store them as one batch.
Without --seed a random seed is drawn and recorded, so every batch can be
regenerated.

Example:
  shufflepad generate --db ./corpus.db
  shufflepad generate --db ./corpus.db -n 1000 --seed 42 --label nightly`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.Seed = matrix.SeedFromEntropy()
			}
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", harness.DefaultSamples, "number of matrices")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "generator seed (default: random)")
	cmd.Flags().StringVar(&opts.Label, "label", "default", "batch label")
	cmd.Flags().StringVar(&opts.ID, "id", "", "batch id (default: UUIDv7)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// GenerateResult is the generate command's JSON payload.
type GenerateResult struct {
	BatchID     string `json:"batch_id"`
	Label       string `json:"label"`
	Seed        string `json:"seed"`
	Count       int    `json:"count"`
	Fingerprint string `json:"fingerprint"`
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Count < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("count must not be negative, got %d", opts.Count))
	}

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

	logger.Info("generating batch", "db", opts.Database, "count", opts.Count, "seed", opts.Seed, "label", opts.Label)
	b, err := harness.GenerateBatch(cmd.Context(), st, harness.GenerateOptions{
		ID:    opts.ID,
		Label: opts.Label,
		Seed:  opts.Seed,
		Count: opts.Count,
		Progress: func(written int) {
			logger.Debug("chunk stored", "written", written, "count", opts.Count)
		},
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to generate batch", err)
	}
	logger.Info("batch stored", "batch_id", b.ID, "fingerprint", b.Fingerprint)

	return formatter.Success(GenerateResult{
		BatchID:     b.ID,
		Label:       b.Label,
		Seed:        fmt.Sprintf("%d", b.Seed),
		Count:       b.Count,
		Fingerprint: b.Fingerprint,
	}, fmt.Sprintf("Generated %d matrices into batch %s (seed %d)", b.Count, b.ID, b.Seed))
}
