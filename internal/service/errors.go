package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no resolved identity; callers redirect to login.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrBookingNotFound means the payment step was reached without a booking.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrValidation covers malformed or incomplete input.
	ErrValidation = errors.New("invalid input")
)

// DuplicateBookingError is returned when the identifying tuple already has a
// booking, whether caught by the pre-check or by the database constraint.
// The patient-facing message is localized.
type DuplicateBookingError struct {
	DoctorName string
	ClinicName string
	Date       string
	Time       string
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("duplicate booking with %s at %s on %s at %s",
		e.DoctorName, e.ClinicName, e.Date, e.Time)
}

// MessageEN is the English user-facing description.
func (e *DuplicateBookingError) MessageEN() string {
	return fmt.Sprintf(
		"You already have an existing appointment with %s at %s on %s at %s. Cannot book the same appointment twice.",
		e.DoctorName, e.ClinicName, e.Date, e.Time)
}

// MessageAR is the Arabic user-facing description.
func (e *DuplicateBookingError) MessageAR() string {
	return fmt.Sprintf(
		"لديك موعد موجود مسبقاً مع %s في %s في %s الساعة %s. لا يمكن حجز نفس الموعد مرتين.",
		e.DoctorName, e.ClinicName, e.Date, e.Time)
}

// SlotConflictError is returned by the admin path when the requested window
// overlaps an existing appointment at the clinic.
type SlotConflictError struct {
	ClinicID string
	Date     string
	Range    string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("time slot conflict at clinic %s on %s for %s", e.ClinicID, e.Date, e.Range)
}
