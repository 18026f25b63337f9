package store

import (
	"context"
	"errors"
	"time"

	"salespulse/internal/models"
)

// ErrUnavailable marks a failure to reach the underlying store. Callers use
// errors.Is to tell "the source is down" apart from "the source answered
// with zero rows", since the two surface differently to users.
var ErrUnavailable = errors.New("record store unavailable")

// RecordStore is the read contract the engine depends on. Implementations
// return an empty slice, not an error, when no rows match; they return an
// error wrapping ErrUnavailable when the store cannot be reached.
type RecordStore interface {
	FetchAll(ctx context.Context) ([]models.TransactionRecord, error)
	FetchByDateRange(ctx context.Context, startInclusive, endExclusive time.Time) ([]models.TransactionRecord, error)
}
