package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a patient-facing appointment created by the payment flow.
// The identifying tuple (patient_id, clinic_name, doctor_name,
// appointment_day, appointment_time) is guarded by a partial unique index
// over non-deleted rows.
type Booking struct {
	ID              string        `json:"id"`
	PatientID       string        `json:"patient_id"`
	PatientName     string        `json:"patient_name"`
	PatientEmail    string        `json:"patient_email"`
	PatientPhone    string        `json:"patient_phone"`
	UniquePatientID string        `json:"unique_patient_id"`
	ClinicName      string        `json:"clinic_name"`
	DoctorName      string        `json:"doctor_name"`
	Specialty       string        `json:"specialty"`
	AppointmentDay  string        `json:"appointment_day"` // yyyy-MM-dd
	AppointmentTime string        `json:"appointment_time"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	BookingStatus   BookingStatus `json:"booking_status"`
	Deleted         bool          `json:"deleted"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ConfirmationNumber is the human-readable reference shown to the patient,
// derived from the last 8 characters of the booking id.
func (b *Booking) ConfirmationNumber() string {
	if len(b.ID) <= 8 {
		return "#" + b.ID
	}
	return "#" + b.ID[len(b.ID)-8:]
}

// BookingKey is the five-field identifying tuple used for duplicate
// detection and collision cleanup.
type BookingKey struct {
	PatientID       string
	ClinicName      string
	DoctorName      string
	AppointmentDay  string
	AppointmentTime string
}

func (b *Booking) Key() BookingKey {
	return BookingKey{
		PatientID:       b.PatientID,
		ClinicName:      b.ClinicName,
		DoctorName:      b.DoctorName,
		AppointmentDay:  b.AppointmentDay,
		AppointmentTime: b.AppointmentTime,
	}
}
