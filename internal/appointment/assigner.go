package appointment

import (
	"context"
	"errors"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
)

// Assignment is the outcome of the assignment engine: the entity (or
// entities) an appointment will occupy.
type Assignment struct {
	StaffID        string
	ResourceID     string
	AssignmentType AssignmentType
}

// AssignRequest describes the booking the engine must place.
type AssignRequest struct {
	OrgID               string
	Date                string // YYYY-MM-DD
	StartTime           string // HH:MM
	Duration            int    // minutes
	PreferredStaffID    string
	PreferredResourceID string
	Specialties         []string
}

// Assigner picks staff/resources for a booking according to the
// organization's appointment model. "First available" means first in the
// directory's enumeration order; there is no fairness weighting.
type Assigner struct {
	avail availability.Service
}

func NewAssigner(avail availability.Service) *Assigner {
	return &Assigner{avail: avail}
}

// Assign resolves the booking to a concrete assignment, or fails with one of
// the availability error kinds (ErrStaffUnavailable, ErrNoStaffAvailable,
// ErrResourceUnavailable, ErrNoResourceAvailable, ErrNoAvailability).
func (a *Assigner) Assign(ctx context.Context, cfg *organization.BusinessConfiguration, req AssignRequest) (*Assignment, error) {
	switch cfg.AppointmentModel {
	case organization.ModelProfessional:
		staffID, err := a.pickEntity(ctx, cfg, req, availability.EntityStaff, req.PreferredStaffID)
		if err != nil {
			return nil, err
		}
		return &Assignment{StaffID: staffID, AssignmentType: AssignStaffOnly}, nil

	case organization.ModelResource:
		resourceID, err := a.pickEntity(ctx, cfg, req, availability.EntityResource, req.PreferredResourceID)
		if err != nil {
			return nil, err
		}
		return &Assignment{ResourceID: resourceID, AssignmentType: AssignResourceOnly}, nil

	case organization.ModelHybrid:
		return a.assignHybrid(ctx, cfg, req)

	default:
		return nil, organization.ErrInvalidModel
	}
}

func (a *Assigner) assignHybrid(ctx context.Context, cfg *organization.BusinessConfiguration, req AssignRequest) (*Assignment, error) {
	if cfg.RequireResourceAssignment {
		staffID, err := a.pickEntity(ctx, cfg, req, availability.EntityStaff, req.PreferredStaffID)
		if err != nil {
			return nil, err
		}
		resourceID, err := a.pickEntity(ctx, cfg, req, availability.EntityResource, req.PreferredResourceID)
		if err != nil {
			return nil, err
		}
		return &Assignment{
			StaffID:        staffID,
			ResourceID:     resourceID,
			AssignmentType: AssignStaffAndResource,
		}, nil
	}

	// Without a required pairing, honor whichever single preference the
	// caller supplied.
	switch {
	case req.PreferredStaffID != "" && req.PreferredResourceID != "":
		return nil, ErrConflictingPreference

	case req.PreferredStaffID != "":
		staffID, err := a.pickEntity(ctx, cfg, req, availability.EntityStaff, req.PreferredStaffID)
		if err != nil {
			return nil, err
		}
		return &Assignment{StaffID: staffID, AssignmentType: AssignStaffOnly}, nil

	case req.PreferredResourceID != "":
		resourceID, err := a.pickEntity(ctx, cfg, req, availability.EntityResource, req.PreferredResourceID)
		if err != nil {
			return nil, err
		}
		return &Assignment{ResourceID: resourceID, AssignmentType: AssignResourceOnly}, nil
	}

	// No preference at all: staff first, then resources.
	staffID, err := a.pickEntity(ctx, cfg, req, availability.EntityStaff, "")
	if err == nil {
		return &Assignment{StaffID: staffID, AssignmentType: AssignStaffOnly}, nil
	}
	if !errors.Is(err, ErrNoStaffAvailable) {
		return nil, err
	}

	resourceID, err := a.pickEntity(ctx, cfg, req, availability.EntityResource, "")
	if err == nil {
		return &Assignment{ResourceID: resourceID, AssignmentType: AssignResourceOnly}, nil
	}
	if !errors.Is(err, ErrNoResourceAvailable) {
		return nil, err
	}
	return nil, ErrNoAvailability
}

// pickEntity verifies the preferred entity can take the booking, or walks
// the directory in enumeration order for the first entity that can. The
// organization's buffer travels with every check so candidates are judged
// against the grid the reservation will actually book.
func (a *Assigner) pickEntity(ctx context.Context, cfg *organization.BusinessConfiguration, req AssignRequest, entityType availability.EntityType, preferredID string) (string, error) {
	if preferredID != "" {
		ok, err := a.avail.HasFittingSlot(ctx, req.OrgID, entityType, preferredID, req.Date, req.StartTime, req.Duration, cfg.BufferBetweenAppointments)
		if err != nil {
			return "", err
		}
		if !ok {
			if entityType == availability.EntityStaff {
				return "", ErrStaffUnavailable
			}
			return "", ErrResourceUnavailable
		}
		return preferredID, nil
	}

	query := availability.SlotQuery{
		OrgID:      req.OrgID,
		Date:       req.Date,
		Duration:   req.Duration,
		Buffer:     cfg.BufferBetweenAppointments,
		EntityType: entityType,
	}
	if entityType == availability.EntityStaff {
		query.Specialties = req.Specialties
	}

	candidates, err := a.avail.FindAvailableSlots(ctx, query)
	if err != nil {
		return "", err
	}

	for _, candidate := range candidates {
		ok, err := a.avail.HasFittingSlot(ctx, req.OrgID, entityType, candidate.EntityID, req.Date, req.StartTime, req.Duration, cfg.BufferBetweenAppointments)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate.EntityID, nil
		}
	}

	if entityType == availability.EntityStaff {
		return "", ErrNoStaffAvailable
	}
	return "", ErrNoResourceAvailable
}
