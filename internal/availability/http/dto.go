package http

import (
	"github.com/slotwise/booking-backend/internal/availability"
)

type GenerateRequest struct {
	EntityType   string `json:"entity_type" binding:"required,oneof=staff resource"`
	EntityID     string `json:"entity_id" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	SlotDuration int    `json:"slot_duration" binding:"omitempty,gt=0"`
	Buffer       *int   `json:"buffer" binding:"omitempty,gte=0"`
	Override     bool   `json:"override"`
}

type GenerateResponse struct {
	DaysGenerated int `json:"days_generated"`
}

type FindSlotsRequest struct {
	Date        string   `form:"date" binding:"required"`
	Duration    int      `form:"duration" binding:"omitempty,gt=0"`
	EntityType  string   `form:"entity_type" binding:"omitempty,oneof=staff resource"`
	EntityID    string   `form:"entity_id"`
	Specialties []string `form:"specialties"`
}

type CalendarRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type CalendarDayResponse struct {
	Date      string                  `json:"date"`
	TimeSlots []availability.TimeSlot `json:"time_slots"`
	IsActive  bool                    `json:"is_active"`
	Override  bool                    `json:"override"`
}

type BlockRequest struct {
	EntityType   string `json:"entity_type" binding:"required,oneof=staff resource"`
	EntityID     string `json:"entity_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	CustomReason string `json:"custom_reason"`
}

type entityURI struct {
	EntityType string `uri:"entityType" binding:"required,oneof=staff resource"`
	EntityID   string `uri:"entityId" binding:"required"`
}
