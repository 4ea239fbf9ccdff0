// Package store persists solved designs.
//
// Implementations:
//   - [MemoryStore]: in-process map for the CLI, tests and single-instance
//     servers
//   - [MongoStore]: a MongoDB collection for shared deployments
//
// Records are identified by a random UUID assigned on [Store.Put].
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a solved design together with the inputs that produced it.
type Record struct {
	ID          uuid.UUID        `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Design      column.Design    `json:"design"`
	Equilibrium equilibrium.Spec `json:"equilibrium"`
	Report      column.Report    `json:"report"`
}

// NewRecord builds an unsaved record.
func NewRecord(design column.Design, spec equilibrium.Spec, report column.Report) *Record {
	return &Record{
		Design:      design,
		Equilibrium: spec,
		Report:      report,
	}
}

// Store is the interface for design storage backends.
type Store interface {
	// Put saves rec. A nil ID is replaced by a fresh UUID and a zero
	// CreatedAt by the current time; both are written back to rec.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with id, or an ErrCodeNotFound error.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes the record with id, or returns an ErrCodeNotFound error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases resources held by the store.
	Close() error
}

// ParseID parses a record ID from its string form.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid design id %q", s)
	}
	return id, nil
}

func prepare(rec *Record) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func notFound(id uuid.UUID) error {
	return errors.New(errors.ErrCodeNotFound, "design %s not found", id)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
