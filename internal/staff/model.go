package staff

import (
	"net/http"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
	"github.com/slotwise/booking-backend/internal/schedule"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "staff member not found")
	ErrEmptyName = apperror.New(http.StatusBadRequest, "name cannot be empty")
)

// Staff is a schedulable person within an organization.
type Staff struct {
	ID          string
	OrgID       string
	Name        string
	Email       string
	Role        string
	Specialties []string
	Schedule    schedule.Weekly
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing staff.
type Filter struct {
	OrgID      string
	Specialty  string
	ActiveOnly bool
	Page       int
	PageSize   int
}
