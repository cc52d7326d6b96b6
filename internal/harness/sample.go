package harness

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/shufflepad/internal/matrix"
)

// DefaultSamples is the population the firmware's validator checked.
const DefaultSamples = 170000

// SampleOptions configures an in-memory statistical run.
type SampleOptions struct {
	// N is the number of matrices to generate.
	N int

	// Workers splits the run into shards. Zero means GOMAXPROCS.
	Workers int

	// Seed makes the run reproducible for a fixed Workers.
	Seed uint64
}

// SampleReport aggregates a statistical run.
type SampleReport struct {
	Samples int `json:"samples"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`

	// Duplicated[k] counts matrices in which exactly k digits occur twice.
	Duplicated [matrix.DigitCount + 1]int `json:"duplicated"`

	// DigitTotals counts occurrences of each digit over every cell drawn.
	DigitTotals [matrix.DigitCount]int `json:"digit_totals"`

	// MaxOccurrence is the highest per-matrix count any digit reached.
	MaxOccurrence int `json:"max_occurrence"`

	// FirstInvalid is the first rejected matrix seen, if any.
	FirstInvalid *matrix.DigitMatrix `json:"first_invalid,omitempty"`
}

// Held reports whether every sampled matrix satisfied both grid invariants.
func (r *SampleReport) Held() bool {
	return r.Invalid == 0 && r.MaxOccurrence <= matrix.MaxPerDigit
}

// Add folds one matrix into the report.
func (r *SampleReport) Add(m matrix.DigitMatrix) bool {
	valid := matrix.IsValid(m)
	h := matrix.Count(m)

	r.Samples++
	if valid {
		r.Valid++
	} else {
		r.Invalid++
		if r.FirstInvalid == nil {
			bad := m
			r.FirstInvalid = &bad
		}
	}
	r.Duplicated[min(h.Duplicated(), matrix.DigitCount)]++
	for d, n := range h {
		r.DigitTotals[d] += n
	}
	r.MaxOccurrence = max(r.MaxOccurrence, h.Max())
	return valid
}

// Merge folds another report into r.
func (r *SampleReport) Merge(o *SampleReport) {
	r.Samples += o.Samples
	r.Valid += o.Valid
	r.Invalid += o.Invalid
	for i := range r.Duplicated {
		r.Duplicated[i] += o.Duplicated[i]
	}
	for i := range r.DigitTotals {
		r.DigitTotals[i] += o.DigitTotals[i]
	}
	r.MaxOccurrence = max(r.MaxOccurrence, o.MaxOccurrence)
	if r.FirstInvalid == nil {
		r.FirstInvalid = o.FirstInvalid
	}
}

// cancelCheckInterval is how many matrices a shard generates between
// context checks.
const cancelCheckInterval = 1024

// Sample generates opts.N matrices across parallel shards and checks each.
//
// Shard w draws from matrix.NewSeededSource(opts.Seed + w), so a run is
// reproducible for a given seed and worker count. Shards are merged in
// index order.
func Sample(ctx context.Context, opts SampleOptions) (*SampleReport, error) {
	if opts.N < 0 {
		return nil, fmt.Errorf("sample: n must not be negative, got %d", opts.N)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(min(workers, opts.N), 1)

	shards := make([]SampleReport, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := opts.N / workers
		if w < opts.N%workers {
			n++
		}
		src := matrix.NewSeededSource(opts.Seed + uint64(w))
		report := &shards[w]
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if i%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				valid := report.Add(matrix.Generate(src))
				harnessMatrices.WithLabelValues(validityLabel(valid)).Inc()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}

	total := &SampleReport{}
	for i := range shards {
		total.Merge(&shards[i])
	}
	return total, nil
}
