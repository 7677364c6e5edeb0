package http

import (
	"time"

	"github.com/slotwise/booking-backend/internal/resource"
	"github.com/slotwise/booking-backend/internal/schedule"
)

type ResourceResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	Schedule  schedule.Weekly `json:"schedule"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewResourceResponse(res *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        res.ID,
		Name:      res.Name,
		Type:      res.Type,
		Schedule:  res.Schedule,
		IsActive:  res.IsActive,
		CreatedAt: res.CreatedAt,
	}
}

type CreateResourceRequest struct {
	Name     string          `json:"name" binding:"required"`
	Type     string          `json:"type"`
	Schedule schedule.Weekly `json:"schedule" binding:"required"`
}

type UpdateResourceRequest struct {
	Name     *string          `json:"name"`
	Type     *string          `json:"type"`
	Schedule *schedule.Weekly `json:"schedule"`
	IsActive *bool            `json:"is_active"`
}

type ListResourcesRequest struct {
	Type       string `form:"type"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=50"`
}
