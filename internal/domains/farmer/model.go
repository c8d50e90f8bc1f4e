package farmer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the registry state of a farmer.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatuses lists every accepted farmer status.
func ValidStatuses() []Status {
	return []Status{StatusActive, StatusInactive}
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	for _, valid := range ValidStatuses() {
		if s == valid {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: invalid status. Must be one of: active, inactive", ErrInvalidStatus)
}

// Farmer is a member of a cooperative with a declared land area that its
// projects allocate against. PhoneNumber is stored normalized (+237 form)
// and Location as "City, Region" with a canonical region name.
type Farmer struct {
	ID            int64     `json:"id" db:"id"`
	CooperativeID int64     `json:"cooperative_id" db:"cooperative_id"`
	FullName      string    `json:"full_name" db:"full_name"`
	PhoneNumber   string    `json:"phone_number" db:"phone_number"`
	Location      string    `json:"location" db:"location"`
	TotalAreaHa   float64   `json:"total_area_ha" db:"total_area_ha"`
	Language      string    `json:"language" db:"language"`
	Latitude      *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64  `json:"longitude,omitempty" db:"longitude"`
	QRCodeData    string    `json:"qr_code_data" db:"qr_code_data"`
	Status        Status    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// GenerateQRCode produces a candidate QR payload. Uniqueness is checked
// against the store by the caller.
func GenerateQRCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "QR-" + strings.ToUpper(id[:8])
}

// StatsCacheKey is the cache key holding a cooperative's farmer statistics.
func StatsCacheKey(cooperativeID int64) string {
	return fmt.Sprintf("farmer:stats:%d", cooperativeID)
}
