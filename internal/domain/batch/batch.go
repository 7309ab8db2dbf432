// Package batch describes ingestion runs and the ledger that records them.
package batch

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status is the lifecycle state of an ingestion batch as stored in the ledger.
type Status string

const (
	// StatusRunning marks a batch that has been opened and not yet closed.
	StatusRunning Status = "RUNNING"
	// StatusSuccess marks a batch whose every stage completed.
	StatusSuccess Status = "SUCCESS"
	// StatusFailed marks a batch aborted by a fetch or write error.
	StatusFailed Status = "FAILED"
)

// Terminal reports whether s is a final ledger status.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

var (
	// ErrExists is returned when opening a batch whose id is already recorded.
	ErrExists = errors.New("batch already exists")
	// ErrNotFound is returned when closing a batch that was never opened.
	ErrNotFound = errors.New("batch not found")
)

// idLayout renders a batch id with second precision, e.g. 20250314T093000Z.
const idLayout = "20060102T150405Z"

// NewID derives a batch id from t in UTC.
func NewID(t time.Time) string {
	return t.UTC().Format(idLayout)
}

// Batch is one row of the ingestion ledger.
type Batch struct {
	ID           string
	SourceSystem string
	Description  string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       Status
	ErrorMessage *string
}

// Ledger records the start and end of every ingestion run.
type Ledger interface {
	// Open inserts b as a RUNNING batch.
	Open(ctx context.Context, b Batch) error
	// Close sets the finish time, terminal status and optional error message.
	Close(ctx context.Context, id string, status Status, errMsg *string) error
}

type idKey struct{}

// WithID returns a copy of ctx carrying the batch id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// IDFromContext extracts the batch id from ctx.
// It returns an empty string if none is present.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(idKey{}).(string); ok {
		return id
	}
	return ""
}
