package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	l := NewLedger(mock)
	l.now = func() time.Time { return fixedNow }
	return l, mock
}

func TestLedger_Open(t *testing.T) {
	l, mock := newTestLedger(t)

	mock.ExpectExec(regexp.QuoteMeta(openBatchSQL)).
		WithArgs("20250314T092653Z", "FakeStore+SimulatedCoupons", "Full RAW load", fixedNow, "RUNNING").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := l.Open(context.Background(), batch.Batch{
		ID:           "20250314T092653Z",
		SourceSystem: "FakeStore+SimulatedCoupons",
		Description:  "Full RAW load",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_OpenDuplicate(t *testing.T) {
	l, mock := newTestLedger(t)

	mock.ExpectExec(regexp.QuoteMeta(openBatchSQL)).
		WithArgs("20250314T092653Z", pgxmock.AnyArg(), pgxmock.AnyArg(), fixedNow, "RUNNING").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := l.Open(context.Background(), batch.Batch{ID: "20250314T092653Z"})
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrExists)

	var we *raw.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, raw.TableBatches, we.Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_OpenConnectionError(t *testing.T) {
	l, mock := newTestLedger(t)

	mock.ExpectExec(regexp.QuoteMeta(openBatchSQL)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := l.Open(context.Background(), batch.Batch{ID: "b1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, batch.ErrExists)
	assert.Contains(t, err.Error(), "raw.ingestion_batches")
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_OpenUsesBatchStart(t *testing.T) {
	l, mock := newTestLedger(t)
	startedAt := time.Date(2025, 3, 14, 9, 26, 52, 0, time.FixedZone("CET", 3600))

	mock.ExpectExec(regexp.QuoteMeta(openBatchSQL)).
		WithArgs("20250314T082652Z", pgxmock.AnyArg(), pgxmock.AnyArg(), startedAt.UTC(), "RUNNING").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, l.Open(context.Background(), batch.Batch{
		ID:        "20250314T082652Z",
		StartedAt: startedAt,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Close(t *testing.T) {
	msg := "fetch carts: status 500"

	tests := []struct {
		name   string
		status batch.Status
		errMsg *string
	}{
		{name: "success", status: batch.StatusSuccess},
		{name: "failed", status: batch.StatusFailed, errMsg: &msg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mock := newTestLedger(t)

			mock.ExpectExec(regexp.QuoteMeta(closeBatchSQL)).
				WithArgs(fixedNow, string(tt.status), pgxmock.AnyArg(), "b1").
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))

			require.NoError(t, l.Close(context.Background(), "b1", tt.status, tt.errMsg))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLedger_CloseRejectsRunning(t *testing.T) {
	l, mock := newTestLedger(t)

	err := l.Close(context.Background(), "b1", batch.StatusRunning, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_CloseUnknownBatch(t *testing.T) {
	l, mock := newTestLedger(t)

	mock.ExpectExec(regexp.QuoteMeta(closeBatchSQL)).
		WithArgs(fixedNow, "SUCCESS", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := l.Close(context.Background(), "missing", batch.StatusSuccess, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS raw").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, RunMigrations(context.Background(), mock))

	mock.ExpectExec("CREATE SCHEMA").WillReturnError(errors.New("permission denied"))
	err = RunMigrations(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running migrations")

	assert.NoError(t, mock.ExpectationsWereMet())
}
