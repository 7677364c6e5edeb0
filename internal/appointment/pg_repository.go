package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, appt *Appointment) error {
	client, service, cancellation, rescheduling, err := marshalPayloads(appt)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.appointments").
		Columns(
			"id", "org_id", "staff_id", "resource_id", "client_info", "service_info",
			"datetime", "duration", "status", "assignment_type", "notes",
			"cancellation", "rescheduling",
		).
		Values(
			appt.ID, appt.OrgID, nullable(appt.StaffID), nullable(appt.ResourceID),
			client, service, appt.Datetime, appt.Duration, appt.Status,
			appt.AssignmentType, appt.Notes, cancellation, rescheduling,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create appointment query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&appt.CreatedAt, &appt.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, orgID, id string) (*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "org_id", "staff_id", "resource_id", "client_info", "service_info",
		"datetime", "duration", "status", "assignment_type", "notes",
		"cancellation", "rescheduling", "created_at", "updated_at",
	).
		From("public.appointments").
		Where(squirrel.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return appt, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "org_id", "staff_id", "resource_id", "client_info", "service_info",
		"datetime", "duration", "status", "assignment_type", "notes",
		"cancellation", "rescheduling", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.appointments").
		Where(squirrel.Eq{"org_id": filter.OrgID})

	if filter.StaffID != "" {
		query = query.Where(squirrel.Eq{"staff_id": filter.StaffID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"datetime": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"datetime": *filter.To})
	}

	query = query.OrderBy("datetime ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var appts []*Appointment
	var total int
	for rows.Next() {
		appt, err := scanAppointmentWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan appointment failed: %w", err)
		}
		appts = append(appts, appt)
	}
	return appts, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, appt *Appointment) error {
	client, service, cancellation, rescheduling, err := marshalPayloads(appt)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.appointments").
		Set("staff_id", nullable(appt.StaffID)).
		Set("resource_id", nullable(appt.ResourceID)).
		Set("client_info", client).
		Set("service_info", service).
		Set("datetime", appt.Datetime).
		Set("duration", appt.Duration).
		Set("status", appt.Status).
		Set("assignment_type", appt.AssignmentType).
		Set("notes", appt.Notes).
		Set("cancellation", cancellation).
		Set("rescheduling", rescheduling).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": appt.ID, "org_id": appt.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update appointment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update appointment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func marshalPayloads(appt *Appointment) (client, service, cancellation, rescheduling []byte, err error) {
	if client, err = json.Marshal(appt.ClientInfo); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal client info failed: %w", err)
	}
	if service, err = json.Marshal(appt.ServiceInfo); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal service info failed: %w", err)
	}
	if appt.Cancellation != nil {
		if cancellation, err = json.Marshal(appt.Cancellation); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal cancellation failed: %w", err)
		}
	}
	if rescheduling, err = json.Marshal(appt.Rescheduling); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal rescheduling history failed: %w", err)
	}
	return client, service, cancellation, rescheduling, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	return scanInto(row, nil)
}

func scanAppointmentWithTotal(row rowScanner, total *int) (*Appointment, error) {
	return scanInto(row, total)
}

func scanInto(row rowScanner, total *int) (*Appointment, error) {
	var appt Appointment
	var staffID, resourceID sql.NullString
	var client, service, cancellation, rescheduling []byte
	var datetime time.Time

	dest := []any{
		&appt.ID, &appt.OrgID, &staffID, &resourceID, &client, &service,
		&datetime, &appt.Duration, &appt.Status, &appt.AssignmentType, &appt.Notes,
		&cancellation, &rescheduling, &appt.CreatedAt, &appt.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	appt.StaffID = staffID.String
	appt.ResourceID = resourceID.String
	appt.Datetime = datetime.UTC()

	if err := json.Unmarshal(client, &appt.ClientInfo); err != nil {
		return nil, fmt.Errorf("unmarshal client info failed: %w", err)
	}
	if err := json.Unmarshal(service, &appt.ServiceInfo); err != nil {
		return nil, fmt.Errorf("unmarshal service info failed: %w", err)
	}
	if len(cancellation) > 0 {
		appt.Cancellation = &CancellationInfo{}
		if err := json.Unmarshal(cancellation, appt.Cancellation); err != nil {
			return nil, fmt.Errorf("unmarshal cancellation failed: %w", err)
		}
	}
	if len(rescheduling) > 0 {
		if err := json.Unmarshal(rescheduling, &appt.Rescheduling); err != nil {
			return nil, fmt.Errorf("unmarshal rescheduling history failed: %w", err)
		}
	}
	return &appt, nil
}
