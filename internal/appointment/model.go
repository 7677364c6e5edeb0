package appointment

import (
	"net/http"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "appointment not found")
	ErrPastBooking           = apperror.New(http.StatusBadRequest, "cannot book an appointment in the past")
	ErrAdvanceLimit          = apperror.New(http.StatusBadRequest, "appointment exceeds the advance booking window")
	ErrInvalidDuration       = apperror.New(http.StatusBadRequest, "duration must be positive")
	ErrCrossesMidnight       = apperror.New(http.StatusBadRequest, "appointment must end before midnight")
	ErrNoStaffAvailable      = apperror.New(http.StatusConflict, "no staff member is available at the requested time")
	ErrNoResourceAvailable   = apperror.New(http.StatusConflict, "no resource is available at the requested time")
	ErrNoAvailability        = apperror.New(http.StatusConflict, "no availability found at the requested time")
	ErrStaffUnavailable      = apperror.New(http.StatusConflict, "the requested staff member is not available at that time")
	ErrResourceUnavailable   = apperror.New(http.StatusConflict, "the requested resource is not available at that time")
	ErrBookingConflict       = apperror.New(http.StatusConflict, "the requested slot was just taken, please refresh and retry")
	ErrInvalidTransition     = apperror.New(http.StatusBadRequest, "invalid appointment status transition")
	ErrConflictingPreference = apperror.New(http.StatusBadRequest, "preferred staff and preferred resource are mutually exclusive here")
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

// validTransitions is the explicit state machine: a status maps to the set
// of statuses it may move to. completed, cancelled and no_show are terminal.
var validTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed:   true,
		StatusCancelled:   true,
		StatusRescheduled: true,
	},
	StatusConfirmed: {
		StatusCompleted:   true,
		StatusNoShow:      true,
		StatusCancelled:   true,
		StatusRescheduled: true,
	},
	StatusRescheduled: {
		StatusConfirmed:   true,
		StatusCompleted:   true,
		StatusNoShow:      true,
		StatusCancelled:   true,
		StatusRescheduled: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := validTransitions[s]
	return ok && allowed[next]
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// AssignmentType records which kinds of entities the appointment occupies.
type AssignmentType string

const (
	AssignStaffOnly        AssignmentType = "staff_only"
	AssignResourceOnly     AssignmentType = "resource_only"
	AssignStaffAndResource AssignmentType = "staff_and_resource"
)

// ClientInfo identifies the person the appointment is for.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ServiceInfo describes the service being booked.
type ServiceInfo struct {
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// CancellationInfo is recorded when an appointment is cancelled.
type CancellationInfo struct {
	CancelledBy    string    `json:"cancelled_by"`
	Reason         string    `json:"reason,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at"`
	PenaltyApplied float64   `json:"penalty_applied"`
}

// RescheduleEntry is one hop in the appointment's rescheduling history.
type RescheduleEntry struct {
	PreviousDatetime time.Time `json:"previous_datetime"`
	NewDatetime      time.Time `json:"new_datetime"`
	RescheduledAt    time.Time `json:"rescheduled_at"`
	RescheduledBy    string    `json:"rescheduled_by"`
	Reason           string    `json:"reason,omitempty"`
}

// Appointment is a confirmed or pending booking against one or two entities.
// Exactly the entity IDs implied by AssignmentType are populated.
type Appointment struct {
	ID             string
	OrgID          string
	StaffID        string
	ResourceID     string
	ClientInfo     ClientInfo
	ServiceInfo    ServiceInfo
	Datetime       time.Time
	Duration       int // minutes
	Status         Status
	AssignmentType AssignmentType
	Notes          string
	Cancellation   *CancellationInfo
	Rescheduling   []RescheduleEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing appointments.
type Filter struct {
	OrgID      string
	StaffID    string
	ResourceID string
	Status     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
