package repository

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// ListByDoctor returns the doctor's declared availability slots.
func (r *AvailabilityRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, doctor_id, day, start_time, end_time, created_at
		FROM availability_slots
		WHERE doctor_id = $1
		ORDER BY day, start_time
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list availability by doctor: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		var s model.AvailabilitySlot
		err := rows.Scan(&s.ID, &s.DoctorID, &s.Day, &s.StartTime, &s.EndTime, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, rows.Err()
}

// GetDoctor returns the doctor row used for price lookup, or nil.
func (r *AvailabilityRepository) GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error) {
	query := `
		SELECT id, name, clinic_id, specialty, price
		FROM doctors
		WHERE id = $1
	`

	var d model.Doctor
	err := r.pool.QueryRow(ctx, query, doctorID).Scan(&d.ID, &d.Name, &d.ClinicID, &d.Specialty, &d.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return &d, nil
}
