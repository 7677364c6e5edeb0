package availability

import (
	"context"
)

// Repository persists per-(entity, date) availability records.
//
// Update is a conditional write: it only succeeds when the stored record
// still carries the version the caller read, and bumps the version on
// success. A lost race surfaces as ErrConcurrentModification so callers can
// re-read and retry.
type Repository interface {
	// Create inserts a new record. Fails with ErrAlreadyGenerated when a
	// record already exists for the same (org, entity type, entity, date).
	Create(ctx context.Context, a *Availability) error

	// Get is a point lookup. A missing record returns (nil, nil), not an
	// error; absence is an expected state (generation never ran).
	Get(ctx context.Context, orgID string, entityType EntityType, entityID, date string) (*Availability, error)

	// GetRange returns all records for the inclusive date range, ordered by
	// date ascending.
	GetRange(ctx context.Context, orgID string, entityType EntityType, entityID, startDate, endDate string) ([]*Availability, error)

	// Update replaces the record's slot list and flags, guarded by the
	// version read. Returns ErrConcurrentModification on version mismatch
	// and ErrNotGenerated when the record does not exist at all.
	Update(ctx context.Context, a *Availability) error
}
