package app

import (
	"context"
	"errors"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/resource"
	"github.com/slotwise/booking-backend/internal/staff"
)

// entityDirectory adapts the staff and resource modules to the directory
// view the availability service works against.
type entityDirectory struct {
	staff     staff.Service
	resources resource.Service
}

func NewEntityDirectory(staffService staff.Service, resourceService resource.Service) availability.Directory {
	return &entityDirectory{staff: staffService, resources: resourceService}
}

func (d *entityDirectory) Get(ctx context.Context, orgID string, entityType availability.EntityType, entityID string) (*availability.Entity, error) {
	switch entityType {
	case availability.EntityStaff:
		st, err := d.staff.GetByID(ctx, orgID, entityID)
		if err != nil {
			if errors.Is(err, staff.ErrNotFound) {
				return nil, availability.ErrEntityNotFound
			}
			return nil, err
		}
		return &availability.Entity{
			ID:          st.ID,
			Name:        st.Name,
			Schedule:    st.Schedule,
			Specialties: st.Specialties,
		}, nil

	case availability.EntityResource:
		res, err := d.resources.GetByID(ctx, orgID, entityID)
		if err != nil {
			if errors.Is(err, resource.ErrNotFound) {
				return nil, availability.ErrEntityNotFound
			}
			return nil, err
		}
		return &availability.Entity{
			ID:       res.ID,
			Name:     res.Name,
			Schedule: res.Schedule,
		}, nil

	default:
		return nil, availability.ErrInvalidEntityType
	}
}

func (d *entityDirectory) ListActive(ctx context.Context, orgID string, entityType availability.EntityType) ([]*availability.Entity, error) {
	switch entityType {
	case availability.EntityStaff:
		members, err := d.staff.ListActive(ctx, orgID)
		if err != nil {
			return nil, err
		}
		entities := make([]*availability.Entity, len(members))
		for i, st := range members {
			entities[i] = &availability.Entity{
				ID:          st.ID,
				Name:        st.Name,
				Schedule:    st.Schedule,
				Specialties: st.Specialties,
			}
		}
		return entities, nil

	case availability.EntityResource:
		resources, err := d.resources.ListActive(ctx, orgID)
		if err != nil {
			return nil, err
		}
		entities := make([]*availability.Entity, len(resources))
		for i, res := range resources {
			entities[i] = &availability.Entity{
				ID:       res.ID,
				Name:     res.Name,
				Schedule: res.Schedule,
			}
		}
		return entities, nil

	default:
		return nil, availability.ErrInvalidEntityType
	}
}
