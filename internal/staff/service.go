package staff

import (
	"context"
	"strings"

	"github.com/slotwise/booking-backend/internal/schedule"
)

type CreateRequest struct {
	OrgID       string
	Name        string
	Email       string
	Role        string
	Specialties []string
	Schedule    schedule.Weekly
}

type UpdateRequest struct {
	Name        *string
	Email       *string
	Role        *string
	Specialties *[]string
	Schedule    *schedule.Weekly
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Staff, error)
	GetByID(ctx context.Context, orgID, id string) (*Staff, error)
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	ListActive(ctx context.Context, orgID string) ([]*Staff, error)
	Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Staff, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if err := req.Schedule.Validate(); err != nil {
		return nil, err
	}

	st := &Staff{
		OrgID:       req.OrgID,
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Specialties: req.Specialties,
		Schedule:    req.Schedule,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListActive(ctx context.Context, orgID string) ([]*Staff, error) {
	members, _, err := s.repo.List(ctx, Filter{OrgID: orgID, ActiveOnly: true, PageSize: 500})
	return members, err
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Staff, error) {
	st, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		st.Name = *req.Name
	}
	if req.Email != nil {
		st.Email = *req.Email
	}
	if req.Role != nil {
		st.Role = *req.Role
	}
	if req.Specialties != nil {
		st.Specialties = *req.Specialties
	}
	if req.Schedule != nil {
		if err := req.Schedule.Validate(); err != nil {
			return nil, err
		}
		st.Schedule = *req.Schedule
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
