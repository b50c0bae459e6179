package repository

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `
	id, patient_id, patient_name, patient_email, patient_phone,
	unique_patient_id, clinic_name, doctor_name, specialty,
	appointment_day, appointment_time, price, currency,
	payment_status, booking_status, deleted, created_at, updated_at
`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.PatientID,
		&b.PatientName,
		&b.PatientEmail,
		&b.PatientPhone,
		&b.UniquePatientID,
		&b.ClinicName,
		&b.DoctorName,
		&b.Specialty,
		&b.AppointmentDay,
		&b.AppointmentTime,
		&b.Price,
		&b.Currency,
		&b.PaymentStatus,
		&b.BookingStatus,
		&b.Deleted,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking. A unique violation on the identifying tuple is
// returned unwrapped semantics-wise: callers test it with
// base.IsUniqueViolation.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payment_bookings (
			id, patient_id, patient_name, patient_email, patient_phone,
			unique_patient_id, clinic_name, doctor_name, specialty,
			appointment_day, appointment_time, price, currency,
			payment_status, booking_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		b.ID,
		b.PatientID,
		b.PatientName,
		b.PatientEmail,
		b.PatientPhone,
		b.UniquePatientID,
		b.ClinicName,
		b.DoctorName,
		b.Specialty,
		b.AppointmentDay,
		b.AppointmentTime,
		b.Price,
		b.Currency,
		b.PaymentStatus,
		b.BookingStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID returns a booking or nil when none exists.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM payment_bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return b, nil
}

// ListActiveByIdentity returns the patient's non-deleted bookings, matched by
// internal user id or email to tolerate inconsistent identity linkage.
func (r *BookingRepository) ListActiveByIdentity(ctx context.Context, patientID, email string) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM payment_bookings
		WHERE (patient_id = $1 OR patient_email = $2) AND NOT deleted
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, patientID, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings by identity: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// GetByKey returns the non-deleted booking matching the exact identifying
// tuple, or nil. Used by the collision resolver, which does not know the
// conflicting row's id.
func (r *BookingRepository) GetByKey(ctx context.Context, key model.BookingKey) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM payment_bookings
		WHERE patient_id = $1 AND clinic_name = $2 AND doctor_name = $3
		  AND appointment_day = $4 AND appointment_time = $5 AND NOT deleted
		LIMIT 1
	`

	b, err := scanBooking(r.pool.QueryRow(
		ctx, query,
		key.PatientID, key.ClinicName, key.DoctorName, key.AppointmentDay, key.AppointmentTime,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by key: %w", err)
	}
	return b, nil
}

// DeleteStaleByKey removes rows matching the identifying tuple that are
// still pending payment. Paid rows are never touched here.
func (r *BookingRepository) DeleteStaleByKey(ctx context.Context, key model.BookingKey) (int64, error) {
	query := `
		DELETE FROM payment_bookings
		WHERE patient_id = $1 AND clinic_name = $2 AND doctor_name = $3
		  AND appointment_day = $4 AND appointment_time = $5
		  AND payment_status = 'pending'
	`

	tag, err := r.pool.Exec(
		ctx, query,
		key.PatientID, key.ClinicName, key.DoctorName, key.AppointmentDay, key.AppointmentTime,
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale bookings by key: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdatePaymentStatus overwrites the payment status. Calling it repeatedly
// with the same status is safe.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	query := `
		UPDATE payment_bookings
		SET payment_status = $1, updated_at = now()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

// Delete hard-deletes a booking (patient cancellation).
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

// SoftDeleteStalePending marks pending bookings older than the cutoff as
// deleted and returns how many rows were touched. The partial unique index
// ignores them afterwards, so the slot becomes bookable again.
func (r *BookingRepository) SoftDeleteStalePending(ctx context.Context, cutoff int) (int64, error) {
	query := `
		UPDATE payment_bookings
		SET deleted = TRUE, updated_at = now()
		WHERE payment_status = 'pending' AND NOT deleted
		  AND created_at < now() - make_interval(hours => $1)
	`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("soft delete stale bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
