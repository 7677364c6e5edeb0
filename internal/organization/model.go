package organization

import (
	"net/http"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "organization not found")
	ErrConfigMissing        = apperror.New(http.StatusNotFound, "organization has no business configuration")
	ErrEmptyName            = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidModel         = apperror.New(http.StatusBadRequest, "invalid appointment model")
	ErrInvalidPolicy        = apperror.New(http.StatusBadRequest, "invalid cancellation policy")
	ErrInvalidAdvanceWindow = apperror.New(http.StatusBadRequest, "max advance booking days must be positive")
)

// AppointmentModel determines whether bookings are assigned to staff,
// resources, or both.
type AppointmentModel string

const (
	ModelProfessional AppointmentModel = "professional_based"
	ModelResource     AppointmentModel = "resource_based"
	ModelHybrid       AppointmentModel = "hybrid"
)

func (m AppointmentModel) Valid() bool {
	return m == ModelProfessional || m == ModelResource || m == ModelHybrid
}

// Organization is the tenant root. Every core operation is scoped by its ID.
type Organization struct {
	ID        string
	Name      string
	Industry  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CancellationPolicy controls when a client-initiated cancellation incurs a
// penalty.
type CancellationPolicy struct {
	HoursBeforeAppointment int     `json:"hours_before_appointment"`
	PenaltyPercentage      float64 `json:"penalty_percentage"`
}

// BusinessConfiguration carries the per-organization booking rules the
// assignment engine and lifecycle manager consult.
type BusinessConfiguration struct {
	OrgID                     string
	AppointmentModel          AppointmentModel
	AllowClientSelection      bool
	RequireResourceAssignment bool
	RequireConfirmation       bool
	BufferBetweenAppointments int // minutes
	MaxAdvanceBookingDays     int
	CancellationPolicy        CancellationPolicy
	UpdatedAt                 time.Time
}

// Filter defines parameters for listing organizations.
type Filter struct {
	Page     int
	PageSize int
}
