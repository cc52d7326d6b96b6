package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/shufflepad/internal/matrix"
	"github.com/roach88/shufflepad/internal/store"
)

// DefaultChunkSize is how many matrices GenerateBatch writes per transaction.
const DefaultChunkSize = 5000

// GenerateOptions configures a stored batch.
type GenerateOptions struct {
	// ID names the batch. Defaults to a UUIDv7.
	ID string

	Label string
	Seed  uint64
	Count int

	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int

	// Progress, if set, is called after each stored chunk with the number
	// of matrices written so far.
	Progress func(written int)
}

// GenerateBatch generates opts.Count matrices from a seeded source and
// stores them as one batch. The matrices are not validated here; that is
// ValidateBatch's job. If a chunk fails or ctx is cancelled part way, the
// partial batch is deleted so it can never be picked as the latest batch.
func GenerateBatch(ctx context.Context, st *store.Store, opts GenerateOptions) (store.Batch, error) {
	if opts.Count < 0 {
		return store.Batch{}, fmt.Errorf("generate: count must not be negative, got %d", opts.Count)
	}
	if opts.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return store.Batch{}, fmt.Errorf("generate: batch id: %w", err)
		}
		opts.ID = id.String()
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	fp, err := matrix.BatchFingerprint(opts.Label, opts.Seed, opts.Count)
	if err != nil {
		return store.Batch{}, err
	}
	b := store.Batch{ID: opts.ID, Label: opts.Label, Seed: opts.Seed, Count: opts.Count, Fingerprint: fp}
	if err := st.CreateBatch(ctx, b); err != nil {
		return store.Batch{}, err
	}

	if err := writeChunks(ctx, st, b.ID, opts, chunk); err != nil {
		if derr := st.DeleteBatch(context.WithoutCancel(ctx), b.ID); derr != nil {
			return store.Batch{}, errors.Join(err, derr)
		}
		return store.Batch{}, err
	}
	return b, nil
}

func writeChunks(ctx context.Context, st *store.Store, batchID string, opts GenerateOptions, chunk int) error {
	src := matrix.NewSeededSource(opts.Seed)
	buf := make([]matrix.DigitMatrix, 0, min(chunk, opts.Count))
	written := 0
	for written < opts.Count {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generate %s: %w", batchID, err)
		}
		buf = buf[:0]
		for len(buf) < chunk && written+len(buf) < opts.Count {
			buf = append(buf, matrix.Generate(src))
		}
		if err := st.WriteMatrices(ctx, batchID, written+1, buf); err != nil {
			return err
		}
		written += len(buf)
		if opts.Progress != nil {
			opts.Progress(written)
		}
	}
	return nil
}

// ErrBatchIncomplete is returned when a stored batch holds fewer matrices
// than it declares.
var ErrBatchIncomplete = errors.New("batch incomplete")

// ValidateBatch re-reads a stored batch, checks every matrix and stores the
// report. An empty batchID selects the latest batch.
func ValidateBatch(ctx context.Context, st *store.Store, batchID string) (store.Report, error) {
	var (
		b   store.Batch
		err error
	)
	if batchID == "" {
		b, err = st.LatestBatch(ctx)
	} else {
		b, err = st.GetBatch(ctx, batchID)
	}
	if err != nil {
		return store.Report{}, fmt.Errorf("validate: %w", err)
	}

	report := store.Report{BatchID: b.ID}
	err = st.ReadMatrices(ctx, b.ID, func(seq int, m matrix.DigitMatrix) error {
		valid := matrix.IsValid(m)
		harnessMatrices.WithLabelValues(validityLabel(valid)).Inc()
		if valid {
			report.Valid++
			return nil
		}
		report.Invalid++
		if report.FirstInvalidSeq == 0 {
			report.FirstInvalidSeq = seq
		}
		return nil
	})
	if err != nil {
		return store.Report{}, fmt.Errorf("validate: %w", err)
	}
	if seen := report.Valid + report.Invalid; seen != b.Count {
		return store.Report{}, fmt.Errorf("validate %s: %w: %d of %d matrices", b.ID, ErrBatchIncomplete, seen, b.Count)
	}

	report.ID, err = st.WriteReport(ctx, report)
	if err != nil {
		return store.Report{}, fmt.Errorf("validate: %w", err)
	}
	return report, nil
}
