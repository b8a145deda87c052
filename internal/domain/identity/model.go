package identity

import (
	"time"

	"github.com/google/uuid"
)

// Specialization is a medical discipline a doctor practices. Names are
// unique; creating a doctor with an unknown specialization name creates
// the row on the fly.
type Specialization struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Patient is a patient profile. Contact and insurance details live here;
// authentication identity is carried by the token, not this row.
type Patient struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	InsuranceProvider string    `json:"insurance_provider,omitempty"`
	InsuranceID       string    `json:"insurance_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Doctor is a doctor profile with the specializations they practice.
type Doctor struct {
	ID              uuid.UUID        `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email"`
	Biography       string           `json:"biography"`
	Specializations []Specialization `json:"specializations"`
	CreatedAt       time.Time        `json:"created_at"`
}
