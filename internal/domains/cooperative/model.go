package cooperative

import "time"

// Cooperative is a tenant: every farmer and project hangs off exactly one.
type Cooperative struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Region             string    `json:"region" db:"region"`
	ContactNumber      *string   `json:"contact_number,omitempty" db:"contact_number"`
	Address            *string   `json:"address,omitempty" db:"address"`
	RegistrationNumber *string   `json:"registration_number,omitempty" db:"registration_number"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// PendingAccount is a cooperative awaiting admin approval, joined with the
// account that registered it.
type PendingAccount struct {
	Cooperative
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}
