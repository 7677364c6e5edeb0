package availability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryRepository is an in-memory Repository with the same optimistic
// concurrency behavior as the Postgres implementation. It backs package
// tests and lets dependent packages test booking flows without a database.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]*Availability
}

// NewMemoryRepository returns an empty in-memory availability store.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[string]*Availability)}
}

func key(orgID string, entityType EntityType, entityID, date string) string {
	return orgID + "|" + string(entityType) + "|" + entityID + "|" + date
}

func clone(a *Availability) *Availability {
	c := *a
	c.TimeSlots = make([]TimeSlot, len(a.TimeSlots))
	copy(c.TimeSlots, a.TimeSlots)
	return &c
}

func (r *memoryRepository) Create(_ context.Context, a *Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(a.OrgID, a.EntityType, a.EntityID, a.Date)
	if _, exists := r.records[k]; exists {
		return ErrAlreadyGenerated
	}

	a.Version = 1
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.records[k] = clone(a)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, orgID string, entityType EntityType, entityID, date string) (*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[key(orgID, entityType, entityID, date)]
	if !ok {
		return nil, nil
	}
	return clone(a), nil
}

func (r *memoryRepository) GetRange(_ context.Context, orgID string, entityType EntityType, entityID, startDate, endDate string) ([]*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Availability
	for _, a := range r.records {
		if a.OrgID == orgID && a.EntityType == entityType && a.EntityID == entityID &&
			a.Date >= startDate && a.Date <= endDate {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, a *Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(a.OrgID, a.EntityType, a.EntityID, a.Date)
	stored, ok := r.records[k]
	if !ok {
		return ErrNotGenerated
	}
	if stored.Version != a.Version {
		return ErrConcurrentModification
	}

	a.Version++
	a.UpdatedAt = time.Now().UTC()
	r.records[k] = clone(a)
	return nil
}
