package availability

import (
	"net/http"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
	"github.com/slotwise/booking-backend/internal/schedule"
)

var (
	ErrNotGenerated           = apperror.New(http.StatusNotFound, "availability has not been generated for this date")
	ErrAlreadyGenerated       = apperror.New(http.StatusConflict, "availability already exists for this date")
	ErrSlotTaken              = apperror.New(http.StatusConflict, "requested time window is not available")
	ErrConcurrentModification = apperror.New(http.StatusConflict, "availability was modified concurrently")
	ErrEntityNotFound         = apperror.New(http.StatusNotFound, "staff member or resource not found")
	ErrInvalidEntityType      = apperror.New(http.StatusBadRequest, "entity type must be staff or resource")
	ErrInvalidDateRange       = apperror.New(http.StatusBadRequest, "start date must not be after end date")
	ErrInvalidSlotDuration    = apperror.New(http.StatusBadRequest, "slot duration must be positive")
)

// EntityType distinguishes the two kinds of schedulable entities.
type EntityType string

const (
	EntityStaff    EntityType = "staff"
	EntityResource EntityType = "resource"
)

func (t EntityType) Valid() bool {
	return t == EntityStaff || t == EntityResource
}

// UnavailableReason explains why a slot cannot be booked.
type UnavailableReason string

const (
	ReasonBreak   UnavailableReason = "break"
	ReasonBooked  UnavailableReason = "booked"
	ReasonBlocked UnavailableReason = "blocked"
)

// TimeSlot is one bookable window within a day. Times are "HH:MM" strings.
type TimeSlot struct {
	StartTime           string            `json:"start_time"`
	EndTime             string            `json:"end_time"`
	IsAvailable         bool              `json:"is_available"`
	BookedAppointmentID string            `json:"booked_appointment_id,omitempty"`
	ReasonUnavailable   UnavailableReason `json:"reason_unavailable,omitempty"`
	CustomReason        string            `json:"custom_reason,omitempty"`
}

// SpanMinutes returns the slot length in minutes, or 0 for malformed times.
func (s TimeSlot) SpanMinutes() int {
	start, err := schedule.ParseClock(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := schedule.ParseClock(s.EndTime)
	if err != nil {
		return 0
	}
	return end - start
}

// Availability is the persisted slot list for one entity on one calendar date.
// Version backs the conditional write used to serialize concurrent mutations.
type Availability struct {
	OrgID      string
	EntityType EntityType
	EntityID   string
	Date       string // YYYY-MM-DD
	TimeSlots  []TimeSlot
	IsActive   bool
	Override   bool
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// bookRange marks every slot fully contained in [start, end) as booked by
// the given appointment. It fails with ErrSlotTaken unless those slots are
// all available and together cover the whole window, so a booking never
// holds less time than it occupies. Slots are assumed to be in ascending
// order, as the generator emits them.
func (a *Availability) bookRange(startMin, endMin int, appointmentID string) error {
	covered := startMin
	for i := range a.TimeSlots {
		s, err := schedule.ParseClock(a.TimeSlots[i].StartTime)
		if err != nil {
			continue
		}
		e, err := schedule.ParseClock(a.TimeSlots[i].EndTime)
		if err != nil {
			continue
		}
		if s < startMin || e > endMin {
			continue
		}
		if !a.TimeSlots[i].IsAvailable || s > covered {
			return ErrSlotTaken
		}
		if e > covered {
			covered = e
		}
	}
	if covered < endMin {
		return ErrSlotTaken
	}

	for i := range a.TimeSlots {
		s, _ := schedule.ParseClock(a.TimeSlots[i].StartTime)
		e, _ := schedule.ParseClock(a.TimeSlots[i].EndTime)
		if s >= startMin && e <= endMin {
			a.TimeSlots[i].IsAvailable = false
			a.TimeSlots[i].BookedAppointmentID = appointmentID
			a.TimeSlots[i].ReasonUnavailable = ReasonBooked
			a.TimeSlots[i].CustomReason = ""
		}
	}
	return nil
}

// releaseByAppointment restores every slot held by the given appointment.
// Calling it when no slot matches is a no-op, which makes release idempotent.
func (a *Availability) releaseByAppointment(appointmentID string) int {
	released := 0
	for i := range a.TimeSlots {
		if a.TimeSlots[i].BookedAppointmentID != appointmentID {
			continue
		}
		a.TimeSlots[i].IsAvailable = true
		a.TimeSlots[i].BookedAppointmentID = ""
		a.TimeSlots[i].ReasonUnavailable = ""
		a.TimeSlots[i].CustomReason = ""
		released++
	}
	return released
}

// blockRange marks every slot fully contained in [start, end) unavailable
// with the given reason. Already-unavailable slots are left untouched.
func (a *Availability) blockRange(startMin, endMin int, reason UnavailableReason, customReason string) int {
	blocked := 0
	for i := range a.TimeSlots {
		s, err := schedule.ParseClock(a.TimeSlots[i].StartTime)
		if err != nil {
			continue
		}
		e, err := schedule.ParseClock(a.TimeSlots[i].EndTime)
		if err != nil {
			continue
		}
		if s < startMin || e > endMin || !a.TimeSlots[i].IsAvailable {
			continue
		}
		a.TimeSlots[i].IsAvailable = false
		a.TimeSlots[i].ReasonUnavailable = reason
		a.TimeSlots[i].CustomReason = customReason
		blocked++
	}
	return blocked
}

// canAccommodate reports whether the window [start, start+duration) is fully
// covered by slots that are all currently available.
func (a *Availability) canAccommodate(startMin, durationMin int) bool {
	endMin := startMin + durationMin
	covered := startMin
	for _, slot := range a.TimeSlots {
		s, err := schedule.ParseClock(slot.StartTime)
		if err != nil {
			return false
		}
		e, err := schedule.ParseClock(slot.EndTime)
		if err != nil {
			return false
		}
		if e <= covered || s >= endMin {
			continue
		}
		if !slot.IsAvailable || s > covered {
			return false
		}
		covered = e
	}
	return covered >= endMin
}

// firstFittingSlot returns the first available slot whose span covers the
// requested duration. When preferredStart is >= 0, a slot covering
// [preferredStart, preferredStart+duration) wins over plain first-available.
func (a *Availability) firstFittingSlot(durationMin, preferredStart int) *TimeSlot {
	var first *TimeSlot
	for i := range a.TimeSlots {
		slot := &a.TimeSlots[i]
		if !slot.IsAvailable || slot.SpanMinutes() < durationMin {
			continue
		}
		if first == nil {
			first = slot
		}
		if preferredStart >= 0 {
			s, _ := schedule.ParseClock(slot.StartTime)
			e, _ := schedule.ParseClock(slot.EndTime)
			if s <= preferredStart && e >= preferredStart+durationMin {
				return slot
			}
		}
	}
	return first
}
