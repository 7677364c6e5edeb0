package http

import (
	"time"

	"github.com/slotwise/booking-backend/internal/appointment"
)

type AppointmentResponse struct {
	ID             string                         `json:"id"`
	StaffID        string                         `json:"staff_id,omitempty"`
	ResourceID     string                         `json:"resource_id,omitempty"`
	ClientInfo     appointment.ClientInfo         `json:"client_info"`
	ServiceInfo    appointment.ServiceInfo        `json:"service_info"`
	Datetime       time.Time                      `json:"datetime"`
	Duration       int                            `json:"duration"`
	Status         string                         `json:"status"`
	AssignmentType string                         `json:"assignment_type"`
	Notes          string                         `json:"notes,omitempty"`
	Cancellation   *appointment.CancellationInfo  `json:"cancellation,omitempty"`
	Rescheduling   []appointment.RescheduleEntry  `json:"rescheduling,omitempty"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}

func NewAppointmentResponse(appt *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             appt.ID,
		StaffID:        appt.StaffID,
		ResourceID:     appt.ResourceID,
		ClientInfo:     appt.ClientInfo,
		ServiceInfo:    appt.ServiceInfo,
		Datetime:       appt.Datetime,
		Duration:       appt.Duration,
		Status:         string(appt.Status),
		AssignmentType: string(appt.AssignmentType),
		Notes:          appt.Notes,
		Cancellation:   appt.Cancellation,
		Rescheduling:   appt.Rescheduling,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}
}

type ClientInfoRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

type ServiceInfoRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"omitempty,gte=0"`
}

type CreateAppointmentRequest struct {
	Datetime            time.Time          `json:"datetime" binding:"required"`
	Duration            int                `json:"duration" binding:"required,gt=0"`
	ClientInfo          ClientInfoRequest  `json:"client_info" binding:"required"`
	ServiceInfo         ServiceInfoRequest `json:"service_info" binding:"required"`
	PreferredStaffID    string             `json:"preferred_staff_id"`
	PreferredResourceID string             `json:"preferred_resource_id"`
	Specialties         []string           `json:"specialties"`
	Notes               string             `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Datetime    *time.Time          `json:"datetime"`
	StaffID     *string             `json:"staff_id"`
	ResourceID  *string             `json:"resource_id"`
	ClientInfo  *ClientInfoRequest  `json:"client_info"`
	ServiceInfo *ServiceInfoRequest `json:"service_info"`
	Notes       *string             `json:"notes"`
}

type CancelAppointmentRequest struct {
	CancelledBy string `json:"cancelled_by" binding:"required,oneof=client staff system"`
	Reason      string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	NewDatetime   time.Time `json:"new_datetime" binding:"required"`
	RescheduledBy string    `json:"rescheduled_by" binding:"required,oneof=client staff system"`
	Reason        string    `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled no_show rescheduled"`
}

type ListAppointmentsRequest struct {
	StaffID    string     `form:"staff_id"`
	ResourceID string     `form:"resource_id"`
	Status     string     `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `form:"page,default=1"`
	PageSize   int        `form:"page_size,default=50"`
}
