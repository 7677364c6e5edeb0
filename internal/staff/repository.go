package staff

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
	Create(ctx context.Context, st *Staff) error
	GetByID(ctx context.Context, orgID, id string) (*Staff, error)
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	Update(ctx context.Context, st *Staff) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, st *Staff) error {
	sched, err := json.Marshal(st.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.staff").
		Columns("org_id", "name", "email", "role", "specialties", "schedule", "is_active").
		Values(st.OrgID, st.Name, st.Email, st.Role, st.Specialties, sched, st.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create staff query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, orgID, id string) (*Staff, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "org_id", "name", "email", "role", "specialties", "schedule", "is_active", "created_at", "updated_at",
	).
		From("public.staff").
		Where(squirrel.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get staff query failed: %w", err)
	}

	st, err := scanStaff(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff failed: %w", err)
	}
	return st, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "org_id", "name", "email", "role", "specialties", "schedule", "is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.staff").
		Where(squirrel.Eq{"org_id": filter.OrgID})

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Specialty != "" {
		query = query.Where("specialties @> ARRAY[?]::text[]", filter.Specialty)
	}

	// Creation order doubles as the "first available" enumeration order used
	// by the assignment engine, so keep it stable.
	query = query.OrderBy("created_at ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var members []*Staff
	var total int
	for rows.Next() {
		st, err := scanStaffWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff failed: %w", err)
		}
		members = append(members, st)
	}
	return members, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, st *Staff) error {
	sched, err := json.Marshal(st.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.staff").
		Set("name", st.Name).
		Set("email", st.Email).
		Set("role", st.Role).
		Set("specialties", st.Specialties).
		Set("schedule", sched).
		Set("is_active", st.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": st.ID, "org_id": st.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update staff query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update staff failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (*Staff, error) {
	var st Staff
	var sched []byte
	if err := row.Scan(
		&st.ID, &st.OrgID, &st.Name, &st.Email, &st.Role,
		&st.Specialties, &sched, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sched, &st.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule failed: %w", err)
	}
	return &st, nil
}

func scanStaffWithTotal(row rowScanner, total *int) (*Staff, error) {
	var st Staff
	var sched []byte
	if err := row.Scan(
		&st.ID, &st.OrgID, &st.Name, &st.Email, &st.Role,
		&st.Specialties, &sched, &st.IsActive, &st.CreatedAt, &st.UpdatedAt, total,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sched, &st.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule failed: %w", err)
	}
	return &st, nil
}
