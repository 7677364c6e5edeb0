package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/booking-backend/internal/appointment"
	"github.com/slotwise/booking-backend/internal/auth"
	"github.com/slotwise/booking-backend/internal/pkg/request"
	"github.com/slotwise/booking-backend/internal/pkg/response"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.service.Create(c.Request.Context(), appointment.CreateRequest{
		OrgID:    auth.GetOrgID(c),
		Datetime: req.Datetime,
		Duration: req.Duration,
		ClientInfo: appointment.ClientInfo{
			Name:  req.ClientInfo.Name,
			Email: req.ClientInfo.Email,
			Phone: req.ClientInfo.Phone,
		},
		ServiceInfo: appointment.ServiceInfo{
			Name:  req.ServiceInfo.Name,
			Price: req.ServiceInfo.Price,
		},
		PreferredStaffID:    req.PreferredStaffID,
		PreferredResourceID: req.PreferredResourceID,
		Specialties:         req.Specialties,
		Notes:               req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAppointmentResponse(appt))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.service.GetByID(c.Request.Context(), auth.GetOrgID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appts, total, err := h.service.List(c.Request.Context(), appointment.Filter{
		OrgID:      auth.GetOrgID(c),
		StaffID:    req.StaffID,
		ResourceID: req.ResourceID,
		Status:     req.Status,
		From:       req.From,
		To:         req.To,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AppointmentResponse, len(appts))
	for i, appt := range appts {
		items[i] = NewAppointmentResponse(appt)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := appointment.UpdateRequest{
		Datetime:   req.Datetime,
		StaffID:    req.StaffID,
		ResourceID: req.ResourceID,
		Notes:      req.Notes,
	}
	if req.ClientInfo != nil {
		update.ClientInfo = &appointment.ClientInfo{
			Name:  req.ClientInfo.Name,
			Email: req.ClientInfo.Email,
			Phone: req.ClientInfo.Phone,
		}
	}
	if req.ServiceInfo != nil {
		update.ServiceInfo = &appointment.ServiceInfo{
			Name:  req.ServiceInfo.Name,
			Price: req.ServiceInfo.Price,
		}
	}

	appt, err := h.service.Update(c.Request.Context(), auth.GetOrgID(c), uri.ID, update)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.service.Cancel(c.Request.Context(), auth.GetOrgID(c), uri.ID, req.CancelledBy, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func (h *Handler) Reschedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.service.Reschedule(c.Request.Context(), auth.GetOrgID(c), uri.ID, req.NewDatetime, req.RescheduledBy, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), auth.GetOrgID(c), uri.ID, appointment.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}
