package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/booking-backend/internal/auth"
	"github.com/slotwise/booking-backend/internal/availability"
	"github.com/slotwise/booking-backend/internal/organization"
	"github.com/slotwise/booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
	orgs    organization.Service
}

func NewHandler(service availability.Service, orgs organization.Service) *Handler {
	return &Handler{service: service, orgs: orgs}
}

func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orgID := auth.GetOrgID(c)

	var buffer int
	if req.Buffer != nil {
		buffer = *req.Buffer
	} else {
		var ok bool
		buffer, ok = h.configuredBuffer(c, orgID)
		if !ok {
			return
		}
	}

	created, err := h.service.Generate(c.Request.Context(), availability.GenerateRequest{
		OrgID:        orgID,
		EntityType:   availability.EntityType(req.EntityType),
		EntityID:     req.EntityID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SlotDuration: req.SlotDuration,
		Buffer:       buffer,
		Override:     req.Override,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{DaysGenerated: created})
}

func (h *Handler) FindSlots(c *gin.Context) {
	var req FindSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orgID := auth.GetOrgID(c)
	buffer, ok := h.configuredBuffer(c, orgID)
	if !ok {
		return
	}

	results, err := h.service.FindAvailableSlots(c.Request.Context(), availability.SlotQuery{
		OrgID:       orgID,
		Date:        req.Date,
		Duration:    req.Duration,
		Buffer:      buffer,
		EntityType:  availability.EntityType(req.EntityType),
		EntityID:    req.EntityID,
		Specialties: req.Specialties,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if results == nil {
		results = []availability.EntityAvailability{}
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "results": results})
}

// configuredBuffer resolves the organization's appointment buffer. A missing
// configuration falls back to zero; any other failure is written to the
// response and reported through ok=false.
func (h *Handler) configuredBuffer(c *gin.Context, orgID string) (buffer int, ok bool) {
	cfg, err := h.orgs.GetConfiguration(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, organization.ErrConfigMissing) {
			return 0, true
		}
		response.Error(c, err)
		return 0, false
	}
	return cfg.BufferBetweenAppointments, true
}

func (h *Handler) Calendar(c *gin.Context) {
	var uri entityURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.service.GetEntityAvailability(
		c.Request.Context(),
		auth.GetOrgID(c),
		availability.EntityType(uri.EntityType),
		uri.EntityID,
		req.StartDate,
		req.EndDate,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	days := make([]CalendarDayResponse, len(records))
	for i, record := range records {
		days[i] = CalendarDayResponse{
			Date:      record.Date,
			TimeSlots: record.TimeSlots,
			IsActive:  record.IsActive,
			Override:  record.Override,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"entity_type": uri.EntityType,
		"entity_id":   uri.EntityID,
		"days":        days,
	})
}

func (h *Handler) Block(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.BlockTimeSlot(c.Request.Context(), availability.BlockRequest{
		OrgID:        auth.GetOrgID(c),
		EntityType:   availability.EntityType(req.EntityType),
		EntityID:     req.EntityID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Reason:       availability.ReasonBlocked,
		CustomReason: req.CustomReason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
