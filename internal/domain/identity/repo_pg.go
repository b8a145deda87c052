package identity

import (
	"context"
	"errors"
	"fmt"

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, first_name, last_name, email, date_of_birth, phone,
	address, insurance_provider, insurance_id, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.DateOfBirth,
		&p.Phone, &p.Address, &p.InsuranceProvider, &p.InsuranceID, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient (id, first_name, last_name, email, date_of_birth,
			phone, address, insurance_provider, insurance_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.DateOfBirth,
		p.Phone, p.Address, p.InsuranceProvider, p.InsuranceID).Scan(&p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient
		SET first_name=$2, last_name=$3, email=$4, date_of_birth=$5, phone=$6,
			address=$7, insurance_provider=$8, insurance_id=$9
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Email, p.DateOfBirth, p.Phone,
		p.Address, p.InsuranceProvider, p.InsuranceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	q := conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+patientCols+` FROM patient
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *patientRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// PatientExists satisfies the scheduling directory contract.
func (r *patientRepoPG) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.Exists(ctx, id)
}

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `d.id, d.first_name, d.last_name, d.email, d.biography, d.created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Biography, &d.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO doctor (id, first_name, last_name, email, biography)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		d.ID, d.FirstName, d.LastName, d.Email, d.Biography).Scan(&d.CreatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctor d WHERE d.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadSpecializations(ctx, []*Doctor{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE doctor SET first_name=$2, last_name=$3, email=$4, biography=$5
		WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.Email, d.Biography)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *doctorRepoPG) List(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	q := conn(ctx, r.pool)

	where := ``
	args := []interface{}{}
	if specialization != "" {
		where = ` WHERE EXISTS (
			SELECT 1 FROM doctor_specialization ds
			JOIN specialization s ON s.id = ds.specialization_id
			WHERE ds.doctor_id = d.id AND s.name ILIKE $1)`
		args = append(args, specialization)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM doctor d`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM doctor d%s ORDER BY d.last_name, d.first_name LIMIT $%d OFFSET $%d`,
		doctorCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadSpecializations(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *doctorRepoPG) loadSpecializations(ctx context.Context, doctors []*Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(doctors))
	byID := make(map[uuid.UUID]*Doctor, len(doctors))
	for i, d := range doctors {
		ids[i] = d.ID
		byID[d.ID] = d
		d.Specializations = []Specialization{}
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT ds.doctor_id, s.id, s.name
		FROM doctor_specialization ds
		JOIN specialization s ON s.id = ds.specialization_id
		WHERE ds.doctor_id = ANY($1)
		ORDER BY s.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			doctorID uuid.UUID
			sp       Specialization
		)
		if err := rows.Scan(&doctorID, &sp.ID, &sp.Name); err != nil {
			return err
		}
		if d := byID[doctorID]; d != nil {
			d.Specializations = append(d.Specializations, sp)
		}
	}
	return rows.Err()
}

func (r *doctorRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// DoctorExists satisfies the scheduling directory contract.
func (r *doctorRepoPG) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.Exists(ctx, id)
}

func (r *doctorRepoPG) SetSpecializations(ctx context.Context, doctorID uuid.UUID, specializationIDs []uuid.UUID) error {
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx,
		`DELETE FROM doctor_specialization WHERE doctor_id = $1`, doctorID); err != nil {
		return err
	}
	for _, sid := range specializationIDs {
		if _, err := q.Exec(ctx, `
			INSERT INTO doctor_specialization (doctor_id, specialization_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, doctorID, sid); err != nil {
			return err
		}
	}
	return nil
}

type specializationRepoPG struct{ pool *pgxpool.Pool }

func NewSpecializationRepoPG(pool *pgxpool.Pool) SpecializationRepository {
	return &specializationRepoPG{pool: pool}
}

func (r *specializationRepoPG) GetOrCreate(ctx context.Context, name string) (*Specialization, error) {
	var sp Specialization
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO specialization (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`,
		uuid.New(), name).Scan(&sp.ID, &sp.Name)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *specializationRepoPG) List(ctx context.Context) ([]*Specialization, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, name FROM specialization ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Specialization
	for rows.Next() {
		var sp Specialization
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, err
		}
		items = append(items, &sp)
	}
	return items, rows.Err()
}
