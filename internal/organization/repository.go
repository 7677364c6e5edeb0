package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, int, error)
	Update(ctx context.Context, org *Organization) error

	GetConfiguration(ctx context.Context, orgID string) (*BusinessConfiguration, error)
	UpsertConfiguration(ctx context.Context, cfg *BusinessConfiguration) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, org *Organization) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.organizations").
		Columns("name", "industry", "is_active").
		Values(org.Name, org.Industry, org.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create organization query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Organization, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "industry", "is_active", "created_at", "updated_at").
		From("public.organizations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get organization query failed: %w", err)
	}

	var org Organization
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&org.ID, &org.Name, &org.Industry, &org.IsActive, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get organization failed: %w", err)
	}
	return &org, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Organization, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "industry", "is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.organizations").
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list organizations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations failed: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	var total int
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Industry, &org.IsActive, &org.CreatedAt, &org.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan organization failed: %w", err)
		}
		orgs = append(orgs, &org)
	}
	return orgs, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, org *Organization) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.organizations").
		Set("name", org.Name).
		Set("industry", org.Industry).
		Set("is_active", org.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": org.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update organization failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetConfiguration(ctx context.Context, orgID string) (*BusinessConfiguration, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"org_id", "appointment_model", "allow_client_selection", "require_resource_assignment",
		"require_confirmation", "buffer_between_appointments", "max_advance_booking_days",
		"cancellation_hours_before", "cancellation_penalty_pct", "updated_at",
	).
		From("public.business_configurations").
		Where(squirrel.Eq{"org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get configuration query failed: %w", err)
	}

	var cfg BusinessConfiguration
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&cfg.OrgID, &cfg.AppointmentModel, &cfg.AllowClientSelection, &cfg.RequireResourceAssignment,
		&cfg.RequireConfirmation, &cfg.BufferBetweenAppointments, &cfg.MaxAdvanceBookingDays,
		&cfg.CancellationPolicy.HoursBeforeAppointment, &cfg.CancellationPolicy.PenaltyPercentage,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigMissing
		}
		return nil, fmt.Errorf("get configuration failed: %w", err)
	}
	return &cfg, nil
}

func (r *pgxRepository) UpsertConfiguration(ctx context.Context, cfg *BusinessConfiguration) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.business_configurations").
		Columns(
			"org_id", "appointment_model", "allow_client_selection", "require_resource_assignment",
			"require_confirmation", "buffer_between_appointments", "max_advance_booking_days",
			"cancellation_hours_before", "cancellation_penalty_pct",
		).
		Values(
			cfg.OrgID, cfg.AppointmentModel, cfg.AllowClientSelection, cfg.RequireResourceAssignment,
			cfg.RequireConfirmation, cfg.BufferBetweenAppointments, cfg.MaxAdvanceBookingDays,
			cfg.CancellationPolicy.HoursBeforeAppointment, cfg.CancellationPolicy.PenaltyPercentage,
		).
		Suffix(`ON CONFLICT (org_id) DO UPDATE SET
			appointment_model = EXCLUDED.appointment_model,
			allow_client_selection = EXCLUDED.allow_client_selection,
			require_resource_assignment = EXCLUDED.require_resource_assignment,
			require_confirmation = EXCLUDED.require_confirmation,
			buffer_between_appointments = EXCLUDED.buffer_between_appointments,
			max_advance_booking_days = EXCLUDED.max_advance_booking_days,
			cancellation_hours_before = EXCLUDED.cancellation_hours_before,
			cancellation_penalty_pct = EXCLUDED.cancellation_penalty_pct,
			updated_at = now()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert configuration query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&cfg.UpdatedAt)
}
