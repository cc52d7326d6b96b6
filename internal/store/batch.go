package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/shufflepad/internal/matrix"
)

// Batch is one generator run.
type Batch struct {
	ID          string
	Label       string
	Seed        uint64
	Count       int
	Fingerprint string
}

// Report is the outcome of validating a stored batch.
type Report struct {
	ID              int64
	BatchID         string
	Valid           int
	Invalid         int
	FirstInvalidSeq int // 0 when every matrix is valid
}

// CreateBatch inserts a batch record. The matrices are written separately.
func (s *Store) CreateBatch(ctx context.Context, b Batch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (id, label, seed, count, fingerprint)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.Label, marshalSeed(b.Seed), b.Count, b.Fingerprint)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// WriteMatrices appends matrices to a batch in one transaction. The first
// matrix gets sequence number firstSeq (1-based).
//
// Rewriting an existing (batch, seq) fails; batches are append-only.
func (s *Store) WriteMatrices(ctx context.Context, batchID string, firstSeq int, ms []matrix.DigitMatrix) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write matrices: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matrices (batch_id, seq, matrix_id, cells)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write matrices: prepare: %w", err)
	}
	defer stmt.Close()

	for i, m := range ms {
		if _, err := stmt.ExecContext(ctx, batchID, firstSeq+i, m.ID(), marshalCells(m)); err != nil {
			return fmt.Errorf("write matrices: seq %d: %w", firstSeq+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write matrices: commit: %w", err)
	}
	return nil
}

// GetBatch returns the batch with id, or ErrNotFound.
func (s *Store) GetBatch(ctx context.Context, id string) (Batch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, seed, count, fingerprint FROM batches WHERE id = ?
	`, id)
	return scanBatch(row)
}

// LatestBatch returns the most recently created batch, or ErrNotFound.
func (s *Store) LatestBatch(ctx context.Context) (Batch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, seed, count, fingerprint FROM batches ORDER BY rowid DESC LIMIT 1
	`)
	return scanBatch(row)
}

// ListBatches returns all batches in creation order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, seed, count, fingerprint FROM batches ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// CountMatrices returns how many matrices a batch holds.
func (s *Store) CountMatrices(ctx context.Context, batchID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matrices WHERE batch_id = ?`, batchID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count matrices: %w", err)
	}
	return n, nil
}

// DistinctLayouts counts the different matrices in a batch. Equal layouts
// share a matrix_id.
func (s *Store) DistinctLayouts(ctx context.Context, batchID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT matrix_id) FROM matrices WHERE batch_id = ?`, batchID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("distinct layouts: %w", err)
	}
	return n, nil
}

// DeleteBatch removes a batch with its matrices and reports. Deleting a
// missing batch returns ErrNotFound.
func (s *Store) DeleteBatch(ctx context.Context, batchID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, batchID)
	if err != nil {
		return fmt.Errorf("delete batch %s: %w", batchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete batch %s: %w", batchID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete batch %s: %w", batchID, ErrNotFound)
	}
	return nil
}

// ReadMatrices streams a batch's matrices in generation order.
// Stops at the first error returned by fn.
func (s *Store) ReadMatrices(ctx context.Context, batchID string, fn func(seq int, m matrix.DigitMatrix) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, matrix_id, cells FROM matrices WHERE batch_id = ? ORDER BY seq ASC
	`, batchID)
	if err != nil {
		return fmt.Errorf("query matrices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq   int
			id    string
			cells string
		)
		if err := rows.Scan(&seq, &id, &cells); err != nil {
			return fmt.Errorf("scan matrix: %w", err)
		}
		m, err := unmarshalCells(cells)
		if err != nil {
			return fmt.Errorf("matrix seq %d: %w", seq, err)
		}
		if m.ID() != id {
			return fmt.Errorf("matrix seq %d: content does not match id %s", seq, id)
		}
		if err := fn(seq, m); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate matrices: %w", err)
	}
	return nil
}

// WriteReport stores a validation report and returns its id.
func (s *Store) WriteReport(ctx context.Context, r Report) (int64, error) {
	var first any
	if r.FirstInvalidSeq > 0 {
		first = r.FirstInvalidSeq
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO validation_reports (batch_id, valid, invalid, first_invalid_seq)
		VALUES (?, ?, ?, ?)
	`, r.BatchID, r.Valid, r.Invalid, first)
	if err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	return id, nil
}

// ReadReports returns a batch's reports, oldest first.
func (s *Store) ReadReports(ctx context.Context, batchID string) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, valid, invalid, first_invalid_seq
		FROM validation_reports WHERE batch_id = ? ORDER BY id ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var (
			r     Report
			first sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Valid, &r.Invalid, &first); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if first.Valid {
			r.FirstInvalidSeq = int(first.Int64)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (Batch, error) {
	var (
		b    Batch
		seed string
	)
	if err := row.Scan(&b.ID, &b.Label, &seed, &b.Count, &b.Fingerprint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrNotFound
		}
		return Batch{}, fmt.Errorf("scan batch: %w", err)
	}
	parsed, err := unmarshalSeed(seed)
	if err != nil {
		return Batch{}, fmt.Errorf("scan batch: %w", err)
	}
	b.Seed = parsed
	return b, nil
}
