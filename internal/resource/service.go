package resource

import (
	"context"
	"strings"

	"github.com/slotwise/booking-backend/internal/schedule"
)

type CreateRequest struct {
	OrgID    string
	Name     string
	Type     string
	Schedule schedule.Weekly
}

type UpdateRequest struct {
	Name     *string
	Type     *string
	Schedule *schedule.Weekly
	IsActive *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, orgID, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	ListActive(ctx context.Context, orgID string) ([]*Resource, error)
	Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Resource, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if err := req.Schedule.Validate(); err != nil {
		return nil, err
	}

	res := &Resource{
		OrgID:    req.OrgID,
		Name:     req.Name,
		Type:     req.Type,
		Schedule: req.Schedule,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListActive(ctx context.Context, orgID string) ([]*Resource, error) {
	resources, _, err := s.repo.List(ctx, Filter{OrgID: orgID, ActiveOnly: true, PageSize: 500})
	return resources, err
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = *req.Name
	}
	if req.Type != nil {
		res.Type = *req.Type
	}
	if req.Schedule != nil {
		if err := req.Schedule.Validate(); err != nil {
			return nil, err
		}
		res.Schedule = *req.Schedule
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}
