package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, orgID, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	sched, err := json.Marshal(res.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.resources").
		Columns("org_id", "name", "type", "schedule", "is_active").
		Values(res.OrgID, res.Name, res.Type, sched, res.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, orgID, id string) (*Resource, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "org_id", "name", "type", "schedule", "is_active", "created_at", "updated_at",
	).
		From("public.resources").
		Where(squirrel.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "org_id", "name", "type", "schedule", "is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.resources").
		Where(squirrel.Eq{"org_id": filter.OrgID})

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}

	// Stable enumeration order; see the staff repository.
	query = query.OrderBy("created_at ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	var total int
	for rows.Next() {
		var res Resource
		var sched []byte
		if err := rows.Scan(
			&res.ID, &res.OrgID, &res.Name, &res.Type, &sched,
			&res.IsActive, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		if err := json.Unmarshal(sched, &res.Schedule); err != nil {
			return nil, 0, fmt.Errorf("unmarshal schedule failed: %w", err)
		}
		resources = append(resources, &res)
	}
	return resources, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	sched, err := json.Marshal(res.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.resources").
		Set("name", res.Name).
		Set("type", res.Type).
		Set("schedule", sched).
		Set("is_active", res.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID, "org_id": res.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResource(row interface{ Scan(dest ...any) error }) (*Resource, error) {
	var res Resource
	var sched []byte
	if err := row.Scan(
		&res.ID, &res.OrgID, &res.Name, &res.Type, &sched,
		&res.IsActive, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sched, &res.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule failed: %w", err)
	}
	return &res, nil
}
