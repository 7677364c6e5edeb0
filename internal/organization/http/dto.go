package http

import (
	"time"

	"github.com/slotwise/booking-backend/internal/organization"
)

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOrganizationResponse(org *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Industry:  org.Industry,
		IsActive:  org.IsActive,
		CreatedAt: org.CreatedAt,
	}
}

type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	IsActive *bool   `json:"is_active"`
}

type CancellationPolicyBody struct {
	HoursBeforeAppointment int     `json:"hours_before_appointment" binding:"min=0"`
	PenaltyPercentage      float64 `json:"penalty_percentage" binding:"min=0,max=100"`
}

type ConfigurationRequest struct {
	AppointmentModel          string                 `json:"appointment_model" binding:"required,oneof=professional_based resource_based hybrid"`
	AllowClientSelection      bool                   `json:"allow_client_selection"`
	RequireResourceAssignment bool                   `json:"require_resource_assignment"`
	RequireConfirmation       bool                   `json:"require_confirmation"`
	BufferBetweenAppointments int                    `json:"buffer_between_appointments" binding:"min=0"`
	MaxAdvanceBookingDays     int                    `json:"max_advance_booking_days" binding:"required,min=1"`
	CancellationPolicy        CancellationPolicyBody `json:"cancellation_policy"`
}

type ConfigurationResponse struct {
	OrgID                     string                 `json:"org_id"`
	AppointmentModel          string                 `json:"appointment_model"`
	AllowClientSelection      bool                   `json:"allow_client_selection"`
	RequireResourceAssignment bool                   `json:"require_resource_assignment"`
	RequireConfirmation       bool                   `json:"require_confirmation"`
	BufferBetweenAppointments int                    `json:"buffer_between_appointments"`
	MaxAdvanceBookingDays     int                    `json:"max_advance_booking_days"`
	CancellationPolicy        CancellationPolicyBody `json:"cancellation_policy"`
	UpdatedAt                 time.Time              `json:"updated_at"`
}

func NewConfigurationResponse(cfg *organization.BusinessConfiguration) ConfigurationResponse {
	return ConfigurationResponse{
		OrgID:                     cfg.OrgID,
		AppointmentModel:          string(cfg.AppointmentModel),
		AllowClientSelection:      cfg.AllowClientSelection,
		RequireResourceAssignment: cfg.RequireResourceAssignment,
		RequireConfirmation:       cfg.RequireConfirmation,
		BufferBetweenAppointments: cfg.BufferBetweenAppointments,
		MaxAdvanceBookingDays:     cfg.MaxAdvanceBookingDays,
		CancellationPolicy: CancellationPolicyBody{
			HoursBeforeAppointment: cfg.CancellationPolicy.HoursBeforeAppointment,
			PenaltyPercentage:      cfg.CancellationPolicy.PenaltyPercentage,
		},
		UpdatedAt: cfg.UpdatedAt,
	}
}
