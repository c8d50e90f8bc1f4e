package project

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ProjectRequest is one requested project entry in a farmer create/update
// call, or the body of the standalone project endpoints. A nil ID means the
// entry is new.
type ProjectRequest struct {
	ID                  *int64     `json:"id,omitempty"`
	CropName            string     `json:"crop_name" binding:"required"`
	AreaHa              float64    `json:"area_ha" binding:"required"`
	Status              *string    `json:"status,omitempty"`
	PlantingDate        *time.Time `json:"planting_date,omitempty"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

func (r ProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CropName,
			validation.Required.Error("crop name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.AreaHa,
			validation.Required.Error("area is required"),
			validation.Min(0.0).Exclusive().Error("area must be greater than 0"),
		),
	)
}

// EffectiveStatus resolves the requested status, defaulting to active.
func (r ProjectRequest) EffectiveStatus() (Status, error) {
	if r.Status == nil || *r.Status == "" {
		return StatusActive, nil
	}
	return ParseStatus(*r.Status)
}

// ProjectResponse is the client view of a project.
type ProjectResponse struct {
	ID                  int64      `json:"id"`
	CropName            string     `json:"crop_name"`
	AreaHa              float64    `json:"area_ha"`
	Status              Status     `json:"status"`
	PlantingDate        *time.Time `json:"planting_date,omitempty"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	FarmerID            int64      `json:"farmer_id"`
	FarmerName          string     `json:"farmer_name,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ToResponse maps a project entity to its client view.
func ToResponse(p Project, farmerName string) ProjectResponse {
	return ProjectResponse{
		ID:                  p.ID,
		CropName:            p.CropName,
		AreaHa:              p.AreaHa,
		Status:              p.Status,
		PlantingDate:        p.PlantingDate,
		ExpectedHarvestDate: p.ExpectedHarvestDate,
		Notes:               p.Notes,
		FarmerID:            p.FarmerID,
		FarmerName:          farmerName,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
