package appointment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
	redisclient "github.com/slotwise/booking-backend/internal/redis"
	"github.com/slotwise/booking-backend/internal/schedule"
)

const dateLayout = "2006-01-02"

// maxReserveAttempts bounds the retry loop for reservation races: a lost
// optimistic-concurrency write or a stolen slot re-runs assignment against
// fresh state before giving up with ErrBookingConflict.
const maxReserveAttempts = 3

type CreateRequest struct {
	OrgID               string
	Datetime            time.Time
	Duration            int // minutes
	ClientInfo          ClientInfo
	ServiceInfo         ServiceInfo
	PreferredStaffID    string
	PreferredResourceID string
	Specialties         []string
	Notes               string
}

type UpdateRequest struct {
	Datetime    *time.Time
	StaffID     *string
	ResourceID  *string
	ClientInfo  *ClientInfo
	ServiceInfo *ServiceInfo
	Notes       *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Appointment, error)
	GetByID(ctx context.Context, orgID, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Appointment, error)
	Cancel(ctx context.Context, orgID, id, cancelledBy, reason string) (*Appointment, error)
	Reschedule(ctx context.Context, orgID, id string, newDatetime time.Time, rescheduledBy, reason string) (*Appointment, error)
	UpdateStatus(ctx context.Context, orgID, id string, next Status) (*Appointment, error)
}

type service struct {
	repo     Repository
	avail    availability.Service
	orgs     organization.Service
	assigner *Assigner
	locker   redisclient.Locker
	now      func() time.Time
}

func NewService(repo Repository, avail availability.Service, orgs organization.Service, assigner *Assigner, locker redisclient.Locker) Service {
	return &service{
		repo:     repo,
		avail:    avail,
		orgs:     orgs,
		assigner: assigner,
		locker:   locker,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	cfg, err := s.orgs.GetConfiguration(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}

	if req.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if crossesMidnight(req.Datetime, req.Duration) {
		return nil, ErrCrossesMidnight
	}
	if err := s.validateTiming(cfg, req.Datetime); err != nil {
		return nil, err
	}

	// The appointment id exists before any slot is reserved, so the slots'
	// booked-appointment id always matches the record we persist.
	id := uuid.NewString()
	date, start, end := window(req.Datetime, req.Duration)

	assignReq := AssignRequest{
		OrgID:               req.OrgID,
		Date:                date,
		StartTime:           start,
		Duration:            req.Duration,
		PreferredStaffID:    req.PreferredStaffID,
		PreferredResourceID: req.PreferredResourceID,
		Specialties:         req.Specialties,
	}

	var assignment *Assignment
	reserved := false
	for attempt := 0; attempt < maxReserveAttempts && !reserved; attempt++ {
		assignment, err = s.assigner.Assign(ctx, cfg, assignReq)
		if err != nil {
			return nil, err
		}

		err = s.reserve(ctx, req.OrgID, assignment, date, start, end, id, cfg.BufferBetweenAppointments)
		switch {
		case err == nil:
			reserved = true
		case isReservationRace(err):
			// Another writer got there first; re-run assignment on fresh state.
		default:
			return nil, err
		}
	}
	if !reserved {
		return nil, ErrBookingConflict
	}

	status := StatusConfirmed
	if cfg.RequireConfirmation {
		status = StatusPending
	}

	appt := &Appointment{
		ID:             id,
		OrgID:          req.OrgID,
		StaffID:        assignment.StaffID,
		ResourceID:     assignment.ResourceID,
		ClientInfo:     req.ClientInfo,
		ServiceInfo:    req.ServiceInfo,
		Datetime:       req.Datetime.UTC(),
		Duration:       req.Duration,
		Status:         status,
		AssignmentType: assignment.AssignmentType,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.releaseWindow(ctx, req.OrgID, assignment.StaffID, assignment.ResourceID, date, id)
		return nil, fmt.Errorf("persist appointment failed: %w", err)
	}
	return appt, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	return s.repo.List(ctx, filter)
}

// Update applies field changes. When the datetime or entity assignment
// changes it releases the currently-held slots and reserves the new window.
// Unlike Reschedule it performs no booking-window re-validation; the two
// operations intentionally differ until product says otherwise.
func (s *service) Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	newDatetime := appt.Datetime
	if req.Datetime != nil {
		newDatetime = req.Datetime.UTC()
	}
	newStaffID := appt.StaffID
	if req.StaffID != nil {
		newStaffID = *req.StaffID
	}
	newResourceID := appt.ResourceID
	if req.ResourceID != nil {
		newResourceID = *req.ResourceID
	}

	slotsChange := !newDatetime.Equal(appt.Datetime) || newStaffID != appt.StaffID || newResourceID != appt.ResourceID
	if slotsChange {
		if crossesMidnight(newDatetime, appt.Duration) {
			return nil, ErrCrossesMidnight
		}
		cfg, err := s.orgs.GetConfiguration(ctx, orgID)
		if err != nil {
			return nil, err
		}

		oldDate, _, _ := window(appt.Datetime, appt.Duration)
		newDate, newStart, newEnd := window(newDatetime, appt.Duration)

		s.releaseWindow(ctx, orgID, appt.StaffID, appt.ResourceID, oldDate, appt.ID)

		reassignment := &Assignment{StaffID: newStaffID, ResourceID: newResourceID, AssignmentType: appt.AssignmentType}
		if err := s.reserve(ctx, orgID, reassignment, newDate, newStart, newEnd, appt.ID, cfg.BufferBetweenAppointments); err != nil {
			// Put the old reservation back so the appointment keeps its slots.
			s.rebookWindow(ctx, orgID, appt)
			if isReservationRace(err) {
				return nil, ErrBookingConflict
			}
			return nil, err
		}

		appt.Datetime = newDatetime
		appt.StaffID = newStaffID
		appt.ResourceID = newResourceID
	}

	if req.ClientInfo != nil {
		appt.ClientInfo = *req.ClientInfo
	}
	if req.ServiceInfo != nil {
		appt.ServiceInfo = *req.ServiceInfo
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *service) Cancel(ctx context.Context, orgID, id, cancelledBy, reason string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	cfg, err := s.orgs.GetConfiguration(ctx, orgID)
	if err != nil {
		return nil, err
	}

	date, _, _ := window(appt.Datetime, appt.Duration)
	s.releaseWindow(ctx, orgID, appt.StaffID, appt.ResourceID, date, appt.ID)

	penalty := 0.0
	if cancelledBy == "client" {
		hoursUntil := appt.Datetime.Sub(s.now()).Hours()
		if hoursUntil < float64(cfg.CancellationPolicy.HoursBeforeAppointment) {
			penalty = cfg.CancellationPolicy.PenaltyPercentage
		}
	}

	appt.Status = StatusCancelled
	appt.Cancellation = &CancellationInfo{
		CancelledBy:    cancelledBy,
		Reason:         reason,
		CancelledAt:    s.now().UTC(),
		PenaltyApplied: penalty,
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *service) Reschedule(ctx context.Context, orgID, id string, newDatetime time.Time, rescheduledBy, reason string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(StatusRescheduled) {
		return nil, ErrInvalidTransition
	}

	if crossesMidnight(newDatetime, appt.Duration) {
		return nil, ErrCrossesMidnight
	}
	cfg, err := s.orgs.GetConfiguration(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.validateTiming(cfg, newDatetime); err != nil {
		return nil, err
	}

	oldDatetime := appt.Datetime
	oldDate, _, _ := window(oldDatetime, appt.Duration)
	newDate, newStart, newEnd := window(newDatetime, appt.Duration)

	s.releaseWindow(ctx, orgID, appt.StaffID, appt.ResourceID, oldDate, appt.ID)

	assignment := &Assignment{StaffID: appt.StaffID, ResourceID: appt.ResourceID, AssignmentType: appt.AssignmentType}
	if err := s.reserve(ctx, orgID, assignment, newDate, newStart, newEnd, appt.ID, cfg.BufferBetweenAppointments); err != nil {
		s.rebookWindow(ctx, orgID, appt)
		if isReservationRace(err) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}

	appt.Datetime = newDatetime.UTC()
	appt.Status = StatusRescheduled
	appt.Rescheduling = append(appt.Rescheduling, RescheduleEntry{
		PreviousDatetime: oldDatetime,
		NewDatetime:      newDatetime.UTC(),
		RescheduledAt:    s.now().UTC(),
		RescheduledBy:    rescheduledBy,
		Reason:           reason,
	})

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *service) UpdateStatus(ctx context.Context, orgID, id string, next Status) (*Appointment, error) {
	if !next.Valid() {
		return nil, ErrInvalidTransition
	}

	appt, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	appt.Status = next
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// validateTiming enforces the no-past-booking and advance-window policies.
// The advance window counts calendar days, so a booking on the last allowed
// day is accepted regardless of time of day. Both dates come from the UTC
// instants so the count does not depend on the server's local zone.
func (s *service) validateTiming(cfg *organization.BusinessConfiguration, datetime time.Time) error {
	now := s.now().UTC()
	if datetime.Before(now) {
		return ErrPastBooking
	}

	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dt := datetime.UTC()
	bookDate := time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC)
	daysAhead := int(bookDate.Sub(nowDate).Hours() / 24)
	if daysAhead > cfg.MaxAdvanceBookingDays {
		return ErrAdvanceLimit
	}
	return nil
}

// reserve books the appointment window on every assigned entity, generating
// availability on demand when a date was never generated. If the second
// entity of a pair fails, the first is released again.
func (s *service) reserve(ctx context.Context, orgID string, assignment *Assignment, date, start, end, apptID string, buffer int) error {
	if assignment.StaffID != "" {
		if err := s.bookEntity(ctx, orgID, availability.EntityStaff, assignment.StaffID, date, start, end, apptID, buffer); err != nil {
			return err
		}
	}
	if assignment.ResourceID != "" {
		if err := s.bookEntity(ctx, orgID, availability.EntityResource, assignment.ResourceID, date, start, end, apptID, buffer); err != nil {
			if assignment.StaffID != "" {
				s.releaseEntity(ctx, orgID, availability.EntityStaff, assignment.StaffID, date, apptID)
			}
			return err
		}
	}
	return nil
}

func (s *service) bookEntity(ctx context.Context, orgID string, entityType availability.EntityType, entityID, date, start, end, apptID string, buffer int) error {
	return s.locker.WithEntityDateLock(ctx, string(entityType), entityID, date, func(lockCtx context.Context) error {
		err := s.avail.BookSlot(lockCtx, orgID, entityType, entityID, date, start, end, apptID)
		if errors.Is(err, availability.ErrNotGenerated) {
			if genErr := s.avail.EnsureGenerated(lockCtx, orgID, entityType, entityID, date, 0, buffer); genErr != nil {
				return genErr
			}
			err = s.avail.BookSlot(lockCtx, orgID, entityType, entityID, date, start, end, apptID)
		}
		return err
	})
}

// releaseWindow frees every slot held by the appointment on its assigned
// entities. Release is best-effort: a failure is logged, not propagated,
// because callers are already unwinding.
func (s *service) releaseWindow(ctx context.Context, orgID, staffID, resourceID, date, apptID string) {
	if staffID != "" {
		s.releaseEntity(ctx, orgID, availability.EntityStaff, staffID, date, apptID)
	}
	if resourceID != "" {
		s.releaseEntity(ctx, orgID, availability.EntityResource, resourceID, date, apptID)
	}
}

func (s *service) releaseEntity(ctx context.Context, orgID string, entityType availability.EntityType, entityID, date, apptID string) {
	err := s.avail.ReleaseSlot(ctx, orgID, entityType, entityID, date, apptID)
	if err != nil && !errors.Is(err, availability.ErrNotGenerated) {
		log.Printf("failed to release slots for appointment %s (%s %s on %s): %v", apptID, entityType, entityID, date, err)
	}
}

// rebookWindow restores the appointment's previous reservation after a
// failed move. Best-effort; a failure leaves the appointment without slots
// and is logged for manual repair.
func (s *service) rebookWindow(ctx context.Context, orgID string, appt *Appointment) {
	date, start, end := window(appt.Datetime, appt.Duration)
	assignment := &Assignment{StaffID: appt.StaffID, ResourceID: appt.ResourceID, AssignmentType: appt.AssignmentType}
	if err := s.reserve(ctx, orgID, assignment, date, start, end, appt.ID, 0); err != nil {
		log.Printf("failed to restore reservation for appointment %s on %s: %v", appt.ID, date, err)
	}
}

func isReservationRace(err error) bool {
	return errors.Is(err, availability.ErrConcurrentModification) ||
		errors.Is(err, availability.ErrSlotTaken) ||
		errors.Is(err, redisclient.ErrLockNotAcquired)
}

// crossesMidnight reports whether the booking window would run past the last
// clock value the slot store can express; a day's slots never spill into the
// next date.
func crossesMidnight(datetime time.Time, duration int) bool {
	dt := datetime.UTC()
	return dt.Hour()*60+dt.Minute()+duration >= 24*60
}

// window converts an instant plus duration into the store's (date, start,
// end) string coordinates. Callers reject windows that cross midnight before
// getting here.
func window(datetime time.Time, duration int) (date, start, end string) {
	dt := datetime.UTC()
	date = dt.Format(dateLayout)
	startMin := dt.Hour()*60 + dt.Minute()
	return date, schedule.FormatClock(startMin), schedule.FormatClock(startMin + duration)
}
