package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotwise/booking-backend/internal/schedule"
)

const dateLayout = "2006-01-02"

// Entity is the directory view the availability service needs of a staff
// member or resource: identity, display name, weekly template and (for
// staff) specialties.
type Entity struct {
	ID          string
	Name        string
	Schedule    schedule.Weekly
	Specialties []string
}

// Directory resolves entities from the staff and resource modules. A missing
// entity returns ErrEntityNotFound.
type Directory interface {
	Get(ctx context.Context, orgID string, entityType EntityType, entityID string) (*Entity, error)
	ListActive(ctx context.Context, orgID string, entityType EntityType) ([]*Entity, error)
}

// GenerateRequest asks for availability records covering a date range.
// EntityID may be "all" to cover every active entity of the type.
type GenerateRequest struct {
	OrgID        string
	EntityType   EntityType
	EntityID     string
	StartDate    string
	EndDate      string
	SlotDuration int
	Buffer       int
	Override     bool
}

// SlotQuery selects bookable slots for one date. EntityType and EntityID are
// optional; Specialties only applies when querying staff. Buffer is the
// organization's spacing between appointments: dates that were never
// generated derive their slots with it, so the transient grid matches the
// one the booking path will persist.
type SlotQuery struct {
	OrgID       string
	Date        string
	Duration    int
	Buffer      int
	EntityType  EntityType
	EntityID    string
	Specialties []string
}

// EntityAvailability is one entity's bookable slots for a date.
type EntityAvailability struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name"`
	Date       string     `json:"date"`
	Slots      []TimeSlot `json:"slots"`
}

// BlockRequest marks a window unavailable for manual blackouts.
type BlockRequest struct {
	OrgID        string
	EntityType   EntityType
	EntityID     string
	Date         string
	StartTime    string
	EndTime      string
	Reason       UnavailableReason
	CustomReason string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (int, error)
	EnsureGenerated(ctx context.Context, orgID string, entityType EntityType, entityID, date string, slotDuration, buffer int) error
	FindAvailableSlots(ctx context.Context, q SlotQuery) ([]EntityAvailability, error)
	GetEntityAvailability(ctx context.Context, orgID string, entityType EntityType, entityID, startDate, endDate string) ([]*Availability, error)
	BookSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, startTime, endTime, appointmentID string) error
	ReleaseSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, appointmentID string) error
	BlockTimeSlot(ctx context.Context, req BlockRequest) error
	HasFittingSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, startTime string, duration, buffer int) (bool, error)
	FindFirstFittingSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date string, duration int, preferredStartTime string) (*TimeSlot, error)
}

type service struct {
	repo                Repository
	directory           Directory
	defaultSlotDuration int
}

func NewService(repo Repository, directory Directory, defaultSlotDuration int) Service {
	return &service{
		repo:                repo,
		directory:           directory,
		defaultSlotDuration: defaultSlotDuration,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (int, error) {
	if !req.EntityType.Valid() {
		return 0, ErrInvalidEntityType
	}
	if req.SlotDuration <= 0 {
		req.SlotDuration = s.defaultSlotDuration
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, ErrInvalidDateRange
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil || end.Before(start) {
		return 0, ErrInvalidDateRange
	}

	var entities []*Entity
	if req.EntityID == "" || req.EntityID == "all" {
		entities, err = s.directory.ListActive(ctx, req.OrgID, req.EntityType)
		if err != nil {
			return 0, err
		}
	} else {
		entity, err := s.directory.Get(ctx, req.OrgID, req.EntityType, req.EntityID)
		if err != nil {
			return 0, err
		}
		entities = []*Entity{entity}
	}

	created := 0
	for _, entity := range entities {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			n, err := s.generateOne(ctx, req, entity, d)
			if err != nil {
				return created, err
			}
			created += n
		}
	}
	return created, nil
}

// generateOne writes one entity-date record. Existing records are skipped
// unless the request overrides, in which case the slot list is regenerated
// in place through the conditional-write path.
func (s *service) generateOne(ctx context.Context, req GenerateRequest, entity *Entity, day time.Time) (int, error) {
	slots, err := GenerateDaySlots(entity.Schedule.DayFor(day), req.SlotDuration, req.Buffer)
	if err != nil {
		return 0, err
	}
	if len(slots) == 0 {
		return 0, nil
	}

	date := day.Format(dateLayout)
	existing, err := s.repo.Get(ctx, req.OrgID, req.EntityType, entity.ID, date)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		if !req.Override {
			return 0, nil
		}
		existing.TimeSlots = slots
		existing.Override = true
		existing.IsActive = true
		if err := s.repo.Update(ctx, existing); err != nil {
			return 0, err
		}
		return 1, nil
	}

	record := &Availability{
		OrgID:      req.OrgID,
		EntityType: req.EntityType,
		EntityID:   entity.ID,
		Date:       date,
		TimeSlots:  slots,
		IsActive:   true,
		Override:   false,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// A concurrent generator beat us to this date; treat as skipped.
		if errors.Is(err, ErrAlreadyGenerated) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}

func (s *service) EnsureGenerated(ctx context.Context, orgID string, entityType EntityType, entityID, date string, slotDuration, buffer int) error {
	existing, err := s.repo.Get(ctx, orgID, entityType, entityID, date)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	entity, err := s.directory.Get(ctx, orgID, entityType, entityID)
	if err != nil {
		return err
	}

	_, err = s.Generate(ctx, GenerateRequest{
		OrgID:        orgID,
		EntityType:   entityType,
		EntityID:     entity.ID,
		StartDate:    date,
		EndDate:      date,
		SlotDuration: slotDuration,
		Buffer:       buffer,
	})
	return err
}

func (s *service) FindAvailableSlots(ctx context.Context, q SlotQuery) ([]EntityAvailability, error) {
	if _, err := time.Parse(dateLayout, q.Date); err != nil {
		return nil, ErrInvalidDateRange
	}

	switch {
	case q.EntityID != "":
		if !q.EntityType.Valid() {
			return nil, ErrInvalidEntityType
		}
		entity, err := s.directory.Get(ctx, q.OrgID, q.EntityType, q.EntityID)
		if err != nil {
			return nil, err
		}
		result, err := s.entitySlots(ctx, q, q.EntityType, entity)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, nil
		}
		return []EntityAvailability{*result}, nil

	case q.EntityType.Valid():
		return s.collectSlots(ctx, q, q.EntityType)

	default:
		staff, err := s.collectSlots(ctx, q, EntityStaff)
		if err != nil {
			return nil, err
		}
		resources, err := s.collectSlots(ctx, q, EntityResource)
		if err != nil {
			return nil, err
		}
		return append(staff, resources...), nil
	}
}

func (s *service) collectSlots(ctx context.Context, q SlotQuery, entityType EntityType) ([]EntityAvailability, error) {
	entities, err := s.directory.ListActive(ctx, q.OrgID, entityType)
	if err != nil {
		return nil, err
	}

	var results []EntityAvailability
	for _, entity := range entities {
		if entityType == EntityStaff && !matchesSpecialties(entity.Specialties, q.Specialties) {
			continue
		}
		result, err := s.entitySlots(ctx, q, entityType, entity)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	return results, nil
}

// entitySlots resolves one entity's bookable slots for the query date,
// falling back to on-demand generation from the weekly template when no
// record was persisted. A slot fits when a booking of the requested
// duration starting at it would be fully covered by available slots, so a
// long appointment may span several contiguous short slots. Returns nil
// when nothing fits.
func (s *service) entitySlots(ctx context.Context, q SlotQuery, entityType EntityType, entity *Entity) (*EntityAvailability, error) {
	slots, err := s.slotsFor(ctx, q.OrgID, entityType, entity, q.Date, q.Buffer)
	if err != nil {
		return nil, err
	}

	record := &Availability{TimeSlots: slots}
	var fitting []TimeSlot
	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		start, err := schedule.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		if q.Duration <= 0 || record.canAccommodate(start, q.Duration) {
			fitting = append(fitting, slot)
		}
	}
	if len(fitting) == 0 {
		return nil, nil
	}

	return &EntityAvailability{
		EntityType: entityType,
		EntityID:   entity.ID,
		EntityName: entity.Name,
		Date:       q.Date,
		Slots:      fitting,
	}, nil
}

// slotsFor returns the persisted slot list, or derives one from the weekly
// template with the same slot-duration and buffer parameters generation
// would use, so queries never see a grid the booking path would not create.
func (s *service) slotsFor(ctx context.Context, orgID string, entityType EntityType, entity *Entity, date string, buffer int) ([]TimeSlot, error) {
	record, err := s.repo.Get(ctx, orgID, entityType, entity.ID, date)
	if err != nil {
		return nil, err
	}
	if record != nil {
		if !record.IsActive {
			return nil, nil
		}
		return record.TimeSlots, nil
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	return GenerateDaySlots(entity.Schedule.DayFor(day), s.defaultSlotDuration, buffer)
}

func (s *service) GetEntityAvailability(ctx context.Context, orgID string, entityType EntityType, entityID, startDate, endDate string) ([]*Availability, error) {
	if !entityType.Valid() {
		return nil, ErrInvalidEntityType
	}
	return s.repo.GetRange(ctx, orgID, entityType, entityID, startDate, endDate)
}

func (s *service) BookSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, startTime, endTime, appointmentID string) error {
	record, err := s.mustGet(ctx, orgID, entityType, entityID, date)
	if err != nil {
		return err
	}

	startMin, err := schedule.ParseClock(startTime)
	if err != nil {
		return fmt.Errorf("invalid booking window: %w", err)
	}
	endMin, err := schedule.ParseClock(endTime)
	if err != nil {
		return fmt.Errorf("invalid booking window: %w", err)
	}

	if err := record.bookRange(startMin, endMin, appointmentID); err != nil {
		return err
	}
	return s.repo.Update(ctx, record)
}

func (s *service) ReleaseSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, appointmentID string) error {
	record, err := s.mustGet(ctx, orgID, entityType, entityID, date)
	if err != nil {
		return err
	}

	if record.releaseByAppointment(appointmentID) == 0 {
		// Nothing held by this appointment; releasing twice is a no-op.
		return nil
	}
	return s.repo.Update(ctx, record)
}

func (s *service) BlockTimeSlot(ctx context.Context, req BlockRequest) error {
	record, err := s.mustGet(ctx, req.OrgID, req.EntityType, req.EntityID, req.Date)
	if err != nil {
		return err
	}

	startMin, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		return fmt.Errorf("invalid block window: %w", err)
	}
	endMin, err := schedule.ParseClock(req.EndTime)
	if err != nil {
		return fmt.Errorf("invalid block window: %w", err)
	}

	reason := req.Reason
	if reason == "" {
		reason = ReasonBlocked
	}

	if record.blockRange(startMin, endMin, reason, req.CustomReason) == 0 {
		return nil
	}
	return s.repo.Update(ctx, record)
}

func (s *service) HasFittingSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date, startTime string, duration, buffer int) (bool, error) {
	entity, err := s.directory.Get(ctx, orgID, entityType, entityID)
	if err != nil {
		return false, err
	}
	slots, err := s.slotsFor(ctx, orgID, entityType, entity, date, buffer)
	if err != nil {
		return false, err
	}

	startMin, err := schedule.ParseClock(startTime)
	if err != nil {
		return false, fmt.Errorf("invalid start time: %w", err)
	}

	record := &Availability{TimeSlots: slots}
	return record.canAccommodate(startMin, duration), nil
}

func (s *service) FindFirstFittingSlot(ctx context.Context, orgID string, entityType EntityType, entityID, date string, duration int, preferredStartTime string) (*TimeSlot, error) {
	record, err := s.mustGet(ctx, orgID, entityType, entityID, date)
	if err != nil {
		return nil, err
	}

	preferred := -1
	if preferredStartTime != "" {
		preferred, err = schedule.ParseClock(preferredStartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid preferred start time: %w", err)
		}
	}

	return record.firstFittingSlot(duration, preferred), nil
}

func (s *service) mustGet(ctx context.Context, orgID string, entityType EntityType, entityID, date string) (*Availability, error) {
	if !entityType.Valid() {
		return nil, ErrInvalidEntityType
	}
	record, err := s.repo.Get(ctx, orgID, entityType, entityID, date)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotGenerated
	}
	return record, nil
}

// matchesSpecialties reports whether the entity's specialty set intersects
// the required set. An empty requirement matches everything.
func matchesSpecialties(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
