package model

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// PaymentTransaction records a payment against a booking.
type PaymentTransaction struct {
	ID               string            `json:"id"`
	PaymentBookingID string            `json:"payment_booking_id"`
	PaymentMethod    PaymentMethod     `json:"payment_method"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	Status           TransactionStatus `json:"transaction_status"`
	TransactionID    string            `json:"transaction_id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// PaymentLog is a best-effort attempt trail. Writing it must never fail the
// payment itself.
type PaymentLog struct {
	ID               string        `json:"id"`
	PaymentBookingID string        `json:"payment_booking_id"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Amount           float64       `json:"amount"`
	LogStatus        string        `json:"log_status"`
	ErrorMessage     string        `json:"error_message"`
	CreatedAt        time.Time     `json:"created_at"`
}
