package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
)

const (
	openBatchSQL = `INSERT INTO raw.ingestion_batches (batch_id, source_system, description, started_at, status)
	VALUES ($1, $2, $3, $4, $5)`

	closeBatchSQL = `UPDATE raw.ingestion_batches
	SET finished_at = $1, status = $2, error_message = $3
	WHERE batch_id = $4`
)

var _ batch.Ledger = (*Ledger)(nil)

// Ledger implements batch.Ledger on raw.ingestion_batches.
type Ledger struct {
	db  DB
	now func() time.Time
}

// NewLedger returns a Ledger that uses the given connection.
func NewLedger(conn DB) *Ledger {
	return &Ledger{db: conn, now: time.Now}
}

// Open inserts a RUNNING batch started at b.StartedAt, or at the current
// time when unset. An id that already exists yields a raw.WriteError
// wrapping batch.ErrExists.
func (l *Ledger) Open(ctx context.Context, b batch.Batch) error {
	startedAt := b.StartedAt
	if startedAt.IsZero() {
		startedAt = l.now()
	}
	_, err := l.db.Exec(ctx, openBatchSQL,
		b.ID, b.SourceSystem, b.Description, startedAt.UTC(), string(batch.StatusRunning),
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = errors.Wrapf(batch.ErrExists, "open batch %s: %v", b.ID, err)
		}
		return writeError(raw.TableBatches, err)
	}
	return nil
}

// Close records the finish time and terminal status of batch id.
func (l *Ledger) Close(ctx context.Context, id string, status batch.Status, errMsg *string) error {
	if !status.Terminal() {
		return errors.Errorf("close batch %s: status %s is not terminal", id, status)
	}

	tag, err := l.db.Exec(ctx, closeBatchSQL, l.now().UTC(), string(status), errMsg, id)
	if err != nil {
		return writeError(raw.TableBatches, err)
	}
	if tag.RowsAffected() == 0 {
		return writeError(raw.TableBatches, errors.Wrapf(batch.ErrNotFound, "close batch %s", id))
	}
	return nil
}
