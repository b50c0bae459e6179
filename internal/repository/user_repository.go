package repository

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns the user profile or nil. The booking flow tolerates a
// missing profile and falls back to the token email.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.UserInfo, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, unique_patient_id, role, created_at
		FROM userinfo
		WHERE id = $1
	`

	var u model.UserInfo
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PhoneNumber,
		&u.UniquePatientID,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}
