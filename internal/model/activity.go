package model

import "time"

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusFailed  ActivityStatus = "failed"
	ActivityStatusPending ActivityStatus = "pending"
)

// ActivityEntry is an audit record. Appends are fire-and-forget.
type ActivityEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	UserEmail string         `json:"user_email"`
	Details   string         `json:"details"`
	Status    ActivityStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// Notification is an in-app message addressed to a user by email.
type Notification struct {
	ID          int64     `json:"id"`
	UserEmail   string    `json:"user_email"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"` // success | info | warning | error
	RelatedType string    `json:"related_type"`
	RelatedID   string    `json:"related_id"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
