package repository

import (
	"context"
	"fmt"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// CreateTransaction records a payment against a booking.
func (r *PaymentRepository) CreateTransaction(ctx context.Context, t *model.PaymentTransaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payment_transactions (
			id, payment_booking_id, payment_method, amount, currency,
			transaction_status, transaction_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		t.ID, t.PaymentBookingID, t.PaymentMethod, t.Amount, t.Currency,
		t.Status, t.TransactionID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create payment transaction: %w", err)
	}

	return nil
}

// AppendLog writes a payment attempt entry. Callers treat failures here as
// non-fatal.
func (r *PaymentRepository) AppendLog(ctx context.Context, l *model.PaymentLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payment_logs (
			id, payment_booking_id, payment_method, amount, log_status, error_message
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(
		ctx, query,
		l.ID, l.PaymentBookingID, l.PaymentMethod, l.Amount, l.LogStatus, l.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append payment log: %w", err)
	}

	return nil
}

// CountLogs returns how many attempt entries a booking has accumulated.
func (r *PaymentRepository) CountLogs(ctx context.Context, bookingID string) (int, error) {
	var n int
	err := r.pool.QueryRow(
		ctx,
		`SELECT count(*) FROM payment_logs WHERE payment_booking_id = $1`,
		bookingID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count payment logs: %w", err)
	}
	return n, nil
}
