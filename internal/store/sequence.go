package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Named sequences handed out by the counter.
const (
	seqDiagnosis = "diagnosis"
	seqLLMEvent  = "llm_event"
)

// sequenceCounter hands out monotonic numbers per named sequence. Record ids
// come from here rather than from SQLite's rowid so that an id freed by a
// delete is never issued again.
//
// Uses raw SQL because the ent builder has no notion of an atomic counter.
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB, drv *entsql.Driver) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	for _, name := range []string{seqDiagnosis, seqLLMEvent} {
		_, err = db.Exec(`INSERT OR IGNORE INTO sequences (name, next_val) VALUES (?, 1)`, name)
		if err != nil {
			return nil, fmt.Errorf("seed sequence %s: %w", name, err)
		}
	}

	return &sequenceCounter{drv: drv}, nil
}

// Next atomically returns the next number of the named sequence.
func (sc *sequenceCounter) Next(ctx context.Context, name string) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.next(ctx, sc.drv, name)
}

// InsertWithNext draws the next number of the named sequence and passes it
// to insert inside one transaction. When insert fails the transaction is
// rolled back and the number is not consumed.
func (sc *sequenceCounter) InsertWithNext(ctx context.Context, name string, insert func(tx dialect.Tx, seq int64) error) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin %s transaction: %w", name, err)
	}
	seq, err := sc.next(ctx, tx, name)
	if err == nil {
		err = insert(tx, seq)
	}
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s transaction: %w", name, err)
	}
	return seq, nil
}

func (sc *sequenceCounter) next(ctx context.Context, q dialect.ExecQuerier, name string) (int64, error) {
	var rows entsql.Rows
	err := q.Query(ctx,
		`UPDATE sequences SET next_val = next_val + 1 WHERE name = ? RETURNING next_val - 1`,
		[]any{name}, &rows,
	)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next %s sequence: %w", name, err)
		}
		return 0, fmt.Errorf("next %s sequence: unknown sequence", name)
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return seq, nil
}
