package project

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a crop project.
type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusPlanned    Status = "planned"
	StatusPlanning   Status = "planning"
	StatusHarvesting Status = "harvesting"
)

// ValidStatuses lists every accepted project status, in the order reported
// to clients.
func ValidStatuses() []Status {
	return []Status{StatusActive, StatusCompleted, StatusPlanned, StatusPlanning, StatusHarvesting}
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	for _, valid := range ValidStatuses() {
		if s == valid {
			return s, nil
		}
	}

	names := make([]string, 0, len(ValidStatuses()))
	for _, v := range ValidStatuses() {
		names = append(names, string(v))
	}
	return "", fmt.Errorf("%w: invalid status. Must be one of: %s", ErrInvalidStatus, strings.Join(names, ", "))
}

// Project is a crop-specific land allocation belonging to one farmer.
type Project struct {
	ID                  int64      `json:"id" db:"id"`
	FarmerID            int64      `json:"farmer_id" db:"farmer_id"`
	CropName            string     `json:"crop_name" db:"crop_name"`
	AreaHa              float64    `json:"area_ha" db:"area_ha"`
	Status              Status     `json:"status" db:"status"`
	PlantingDate        *time.Time `json:"planting_date,omitempty" db:"planting_date"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date,omitempty" db:"expected_harvest_date"`
	Notes               *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
