package model

import "time"

// AvailabilitySlot is a doctor-declared bookable window on a weekday.
// Booked appointments only store their start time, so when checking for
// overlaps the slot matching (day, start) supplies the appointment's end.
type AvailabilitySlot struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	Day       string    `json:"day"`        // English weekday name
	StartTime string    `json:"start_time"` // HH:MM
	EndTime   string    `json:"end_time"`   // HH:MM
	CreatedAt time.Time `json:"created_at"`
}

// Doctor carries the subset of doctor data the scheduling flows need.
type Doctor struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ClinicID  string  `json:"clinic_id"`
	Specialty string  `json:"specialty"`
	Price     float64 `json:"price"`
}
