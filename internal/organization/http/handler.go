package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/booking-backend/internal/auth"
	"github.com/slotwise/booking-backend/internal/organization"
	"github.com/slotwise/booking-backend/internal/pkg/response"
)

type Handler struct {
	service organization.Service
}

func NewHandler(service organization.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.service.Create(c.Request.Context(), organization.CreateRequest{
		Name:     req.Name,
		Industry: req.Industry,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrganizationResponse(org))
}

func (h *Handler) Get(c *gin.Context) {
	org, err := h.service.GetByID(c.Request.Context(), auth.GetOrgID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.service.Update(c.Request.Context(), auth.GetOrgID(c), organization.UpdateRequest{
		Name:     req.Name,
		Industry: req.Industry,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *Handler) GetConfiguration(c *gin.Context) {
	cfg, err := h.service.GetConfiguration(c.Request.Context(), auth.GetOrgID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewConfigurationResponse(cfg))
}

func (h *Handler) SetConfiguration(c *gin.Context) {
	var req ConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.service.SetConfiguration(c.Request.Context(), auth.GetOrgID(c), organization.ConfigurationRequest{
		AppointmentModel:          organization.AppointmentModel(req.AppointmentModel),
		AllowClientSelection:      req.AllowClientSelection,
		RequireResourceAssignment: req.RequireResourceAssignment,
		RequireConfirmation:       req.RequireConfirmation,
		BufferBetweenAppointments: req.BufferBetweenAppointments,
		MaxAdvanceBookingDays:     req.MaxAdvanceBookingDays,
		CancellationPolicy: organization.CancellationPolicy{
			HoursBeforeAppointment: req.CancellationPolicy.HoursBeforeAppointment,
			PenaltyPercentage:      req.CancellationPolicy.PenaltyPercentage,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewConfigurationResponse(cfg))
}
