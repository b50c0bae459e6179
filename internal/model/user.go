package model

import "time"

// UserInfo is the patient profile used to fill booking contact fields.
// First/last name columns mirror the registration form.
type UserInfo struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	UniquePatientID string    `json:"unique_patient_id"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

// DisplayName builds the name stored on bookings, falling back to the email
// when the profile has no name set.
func (u *UserInfo) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
