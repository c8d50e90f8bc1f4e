package user

import "time"

// User is an account: either the platform admin or the owner of one
// cooperative. Cooperative accounts start unapproved and cannot log in until
// an admin approves them.
type User struct {
	ID                 int64      `json:"id" db:"id"`
	Username           string     `json:"username" db:"username"`
	Email              string     `json:"email" db:"email"`
	Password           string     `json:"-" db:"password"`
	FullName           string     `json:"full_name" db:"full_name"`
	PhoneNumber        *string    `json:"phone_number,omitempty" db:"phone_number"`
	Role               string     `json:"role" db:"role"`
	IsApproved         bool       `json:"is_approved" db:"is_approved"`
	CooperativeID      *int64     `json:"cooperative_id,omitempty" db:"cooperative_id"`
	RegistrationNumber *string    `json:"registration_number,omitempty" db:"registration_number"`
	ResetToken         *string    `json:"-" db:"reset_token"`
	ResetTokenExpiry   *time.Time `json:"-" db:"reset_token_expiry"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}
