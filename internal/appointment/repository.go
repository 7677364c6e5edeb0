package appointment

import (
	"context"
)

// Repository persists appointment records. IDs are generated by the caller
// (before slot reservation) so the slots' booked-appointment id always
// matches the persisted record.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, orgID, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	Update(ctx context.Context, appt *Appointment) error
}
