package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Availability) error {
	slots, err := json.Marshal(a.TimeSlots)
	if err != nil {
		return fmt.Errorf("marshal time slots failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.availabilities").
		Columns("org_id", "entity_type", "entity_id", "date", "time_slots", "is_active", "override", "version").
		Values(a.OrgID, a.EntityType, a.EntityID, a.Date, slots, a.IsActive, a.Override, 1).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create availability query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyGenerated
		}
		return fmt.Errorf("create availability failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Get(ctx context.Context, orgID string, entityType EntityType, entityID, date string) (*Availability, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"org_id", "entity_type", "entity_id", "date",
		"time_slots", "is_active", "override", "version", "created_at", "updated_at",
	).
		From("public.availabilities").
		Where(squirrel.Eq{
			"org_id":      orgID,
			"entity_type": entityType,
			"entity_id":   entityID,
			"date":        date,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get availability query failed: %w", err)
	}

	a, err := scanAvailability(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) GetRange(ctx context.Context, orgID string, entityType EntityType, entityID, startDate, endDate string) ([]*Availability, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"org_id", "entity_type", "entity_id", "date",
		"time_slots", "is_active", "override", "version", "created_at", "updated_at",
	).
		From("public.availabilities").
		Where(squirrel.Eq{
			"org_id":      orgID,
			"entity_type": entityType,
			"entity_id":   entityID,
		}).
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build range availability query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("range availability query failed: %w", err)
	}
	defer rows.Close()

	var records []*Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability failed: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, a *Availability) error {
	slots, err := json.Marshal(a.TimeSlots)
	if err != nil {
		return fmt.Errorf("marshal time slots failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availabilities").
		Set("time_slots", slots).
		Set("is_active", a.IsActive).
		Set("override", a.Override).
		Set("version", a.Version+1).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"org_id":      a.OrgID,
			"entity_type": a.EntityType,
			"entity_id":   a.EntityID,
			"date":        a.Date,
			"version":     a.Version,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update availability query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the record vanished or another writer bumped the version.
		existing, err := r.Get(ctx, a.OrgID, a.EntityType, a.EntityID, a.Date)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotGenerated
		}
		return ErrConcurrentModification
	}

	a.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAvailability(row rowScanner) (*Availability, error) {
	var a Availability
	var slots []byte
	if err := row.Scan(
		&a.OrgID, &a.EntityType, &a.EntityID, &a.Date,
		&slots, &a.IsActive, &a.Override, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(slots, &a.TimeSlots); err != nil {
		return nil, fmt.Errorf("unmarshal time slots failed: %w", err)
	}
	return &a, nil
}
