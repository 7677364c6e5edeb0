package resource

import (
	"net/http"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
	"github.com/slotwise/booking-backend/internal/schedule"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName = apperror.New(http.StatusBadRequest, "name cannot be empty")
)

// Resource is a bookable unit owned by an organization (room, chair,
// equipment).
type Resource struct {
	ID        string
	OrgID     string
	Name      string
	Type      string
	Schedule  schedule.Weekly
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	OrgID      string
	Type       string
	ActiveOnly bool
	Page       int
	PageSize   int
}
