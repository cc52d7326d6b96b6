// Package store provides SQLite-backed storage for the statistical harness.
//
// The store keeps the matrix corpus the harness produces offline:
//   - Batches: one generator run (label, seed, size, fingerprint)
//   - Matrices: every generated grid of a batch, in generation order
//   - Validation reports: valid/invalid counts from re-reading a batch
//
// The device itself stores nothing; a PIN attempt leaves no trace here.
//
// # Ordering
//
// Matrices are keyed by (batch_id, seq) and always read ORDER BY seq ASC, so
// a re-validation visits them in the order they were generated.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
