package http

import (
	"time"

	"github.com/slotwise/booking-backend/internal/schedule"
	"github.com/slotwise/booking-backend/internal/staff"
)

type StaffResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Role        string          `json:"role,omitempty"`
	Specialties []string        `json:"specialties,omitempty"`
	Schedule    schedule.Weekly `json:"schedule"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewStaffResponse(st *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          st.ID,
		Name:        st.Name,
		Email:       st.Email,
		Role:        st.Role,
		Specialties: st.Specialties,
		Schedule:    st.Schedule,
		IsActive:    st.IsActive,
		CreatedAt:   st.CreatedAt,
	}
}

type CreateStaffRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Role        string          `json:"role"`
	Specialties []string        `json:"specialties"`
	Schedule    schedule.Weekly `json:"schedule" binding:"required"`
}

type UpdateStaffRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Role        *string          `json:"role"`
	Specialties *[]string        `json:"specialties"`
	Schedule    *schedule.Weekly `json:"schedule"`
	IsActive    *bool            `json:"is_active"`
}

type ListStaffRequest struct {
	Specialty  string `form:"specialty"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=50"`
}
