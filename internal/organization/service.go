package organization

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name     string
	Industry string
}

type UpdateRequest struct {
	Name     *string
	Industry *string
	IsActive *bool
}

// ConfigurationRequest sets or replaces the organization's booking rules.
type ConfigurationRequest struct {
	AppointmentModel          AppointmentModel
	AllowClientSelection      bool
	RequireResourceAssignment bool
	RequireConfirmation       bool
	BufferBetweenAppointments int
	MaxAdvanceBookingDays     int
	CancellationPolicy        CancellationPolicy
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Organization, error)

	// GetConfiguration fails with ErrConfigMissing when the organization has
	// never completed configuration; callers must not treat that as retryable.
	GetConfiguration(ctx context.Context, orgID string) (*BusinessConfiguration, error)
	SetConfiguration(ctx context.Context, orgID string, req ConfigurationRequest) (*BusinessConfiguration, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Organization, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	org := &Organization{
		Name:     req.Name,
		Industry: req.Industry,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Organization, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		org.Name = *req.Name
	}
	if req.Industry != nil {
		org.Industry = *req.Industry
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) GetConfiguration(ctx context.Context, orgID string) (*BusinessConfiguration, error) {
	return s.repo.GetConfiguration(ctx, orgID)
}

func (s *service) SetConfiguration(ctx context.Context, orgID string, req ConfigurationRequest) (*BusinessConfiguration, error) {
	if !req.AppointmentModel.Valid() {
		return nil, ErrInvalidModel
	}
	if req.MaxAdvanceBookingDays <= 0 {
		return nil, ErrInvalidAdvanceWindow
	}
	if req.CancellationPolicy.HoursBeforeAppointment < 0 ||
		req.CancellationPolicy.PenaltyPercentage < 0 || req.CancellationPolicy.PenaltyPercentage > 100 {
		return nil, ErrInvalidPolicy
	}

	// The organization must exist before rules can be attached to it.
	if _, err := s.repo.GetByID(ctx, orgID); err != nil {
		return nil, err
	}

	cfg := &BusinessConfiguration{
		OrgID:                     orgID,
		AppointmentModel:          req.AppointmentModel,
		AllowClientSelection:      req.AllowClientSelection,
		RequireResourceAssignment: req.RequireResourceAssignment,
		RequireConfirmation:       req.RequireConfirmation,
		BufferBetweenAppointments: req.BufferBetweenAppointments,
		MaxAdvanceBookingDays:     req.MaxAdvanceBookingDays,
		CancellationPolicy:        req.CancellationPolicy,
	}
	if err := s.repo.UpsertConfiguration(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
