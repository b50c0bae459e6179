package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is the admin-facing scheduling entity. Unlike Booking it is
// keyed by foreign-key ids and collision-checked by interval overlap, not by
// exact tuple match.
type Appointment struct {
	ID            string            `json:"id"`
	PatientID     string            `json:"patient_id"`
	DoctorID      string            `json:"doctor_id"`
	ClinicID      string            `json:"clinic_id"`
	Date          string            `json:"date"` // yyyy-MM-dd
	Time          string            `json:"time"` // HH:MM
	Status        AppointmentStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Price         float64           `json:"price"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
