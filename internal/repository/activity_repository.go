package repository

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append writes an audit entry.
func (r *ActivityRepository) Append(ctx context.Context, e *model.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (action, user_email, details, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, e.Action, e.UserEmail, e.Details, e.Status).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append activity entry: %w", err)
	}
	return nil
}

// CreateNotification appends an in-app notification addressed by email.
func (r *ActivityRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_email, title, message, kind, related_type, related_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		n.UserEmail, n.Title, n.Message, n.Kind, n.RelatedType, n.RelatedID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
