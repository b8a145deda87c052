package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

const uniqueViolation = "23505"

type availabilityRepoPG struct{ pool *pgxpool.Pool }

func NewAvailabilityRepoPG(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepoPG{pool: pool}
}

func (r *availabilityRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const avCols = `id, doctor_id, weekday, start_time, end_time`

func scanAvailability(row pgx.Row) (*Availability, error) {
	var (
		av         Availability
		start, end string
	)
	if err := row.Scan(&av.ID, &av.DoctorID, &av.Weekday, &start, &end); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	if av.Start, err = ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("availability %s: %w", av.ID, err)
	}
	if av.End, err = ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("availability %s: %w", av.ID, err)
	}
	return &av, nil
}

func (r *availabilityRepoPG) Create(ctx context.Context, av *Availability) error {
	av.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO availability (id, doctor_id, weekday, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5)`,
		av.ID, av.DoctorID, av.Weekday, av.Start.String(), av.End.String())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateAvailability
	}
	return err
}

func (r *availabilityRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Availability, error) {
	return scanAvailability(r.conn(ctx).QueryRow(ctx,
		`SELECT `+avCols+` FROM availability WHERE id = $1`, id))
}

func (r *availabilityRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM availability WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *availabilityRepoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Availability, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, av)
	}
	return items, rows.Err()
}

func (r *availabilityRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	return r.list(ctx, `SELECT `+avCols+` FROM availability
		WHERE doctor_id = $1 ORDER BY weekday, start_time`, doctorID)
}

func (r *availabilityRepoPG) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day Weekday) ([]*Availability, error) {
	return r.list(ctx, `SELECT `+avCols+` FROM availability
		WHERE doctor_id = $1 AND weekday = $2 ORDER BY start_time`, doctorID, day)
}

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, date, start_time, end_time,
	status, reason, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a          Appointment
		start, end string
	)
	if err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &start, &end,
		&a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	if a.Start, err = ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if a.End, err = ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, date, start_time, end_time, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Start.String(), a.End.String(),
		a.Status, a.Reason, a.Notes).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment
		SET date=$2, start_time=$3, end_time=$4, status=$5, reason=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Date, a.Start.String(), a.End.String(), a.Status, a.Reason, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) List(ctx context.Context, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	where := "TRUE"
	args := []interface{}{}
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s = $%d", clause, len(args))
	}
	if f.DoctorID != nil {
		add("doctor_id", *f.DoctorID)
	}
	if f.PatientID != nil {
		add("patient_id", *f.PatientID)
	}
	if f.Date != nil {
		add("date", *f.Date)
	}
	if f.Status != nil {
		add("status", *f.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT %s FROM appointment WHERE %s ORDER BY date DESC, start_time LIMIT $%d OFFSET $%d`,
		apptCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *appointmentRepoPG) BookedForDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND date = $2 AND status IN ($3, $4)
		ORDER BY start_time`,
		doctorID, date, StatusScheduled, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, ivl Interval, excludeID *uuid.UUID) (bool, error) {
	// Zero-padded HH:MM strings order lexicographically the same as the
	// times they encode, so the overlap test runs directly in SQL.
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE doctor_id = $1 AND date = $2
			  AND status IN ($3, $4)
			  AND start_time < $6 AND end_time > $5
			  AND ($7::uuid IS NULL OR id <> $7)
		)`,
		doctorID, date, StatusScheduled, StatusConfirmed,
		ivl.Start.String(), ivl.End.String(), excludeID).Scan(&exists)
	return exists, err
}
