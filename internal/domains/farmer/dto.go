package farmer

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"harvest-backend/internal/domains/project"
)

// CoordinatesRequest is an optional GPS point on a farmer payload.
type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FarmerRequest is the body of farmer create and update calls. On update the
// Projects list is authoritative: it is reconciled against the farmer's
// persisted projects.
type FarmerRequest struct {
	FullName    string                   `json:"full_name" binding:"required"`
	PhoneNumber string                   `json:"phone_number" binding:"required"`
	Location    string                   `json:"location" binding:"required"`
	TotalAreaHa float64                  `json:"total_area_ha" binding:"required"`
	Language    string                   `json:"language,omitempty"`
	Coordinates *CoordinatesRequest      `json:"coordinates,omitempty"`
	Status      *string                  `json:"status,omitempty"`
	Projects    []project.ProjectRequest `json:"projects,omitempty"`
}

func (r FarmerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.PhoneNumber,
			validation.Required.Error("phone number is required"),
		),
		validation.Field(&r.Location,
			validation.Required.Error("location is required"),
		),
		validation.Field(&r.TotalAreaHa,
			validation.Required.Error("total area is required"),
			validation.Min(0.0).Exclusive().Error("total area must be greater than 0"),
		),
		validation.Field(&r.Projects),
	)
}

// StatusRequest is the body of the status toggle endpoint.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkImportRequest carries the rows of a bulk import. Row N of the payload
// is reported as spreadsheet row N+2 in errors.
type BulkImportRequest struct {
	Farmers []FarmerRequest `json:"farmers" binding:"required"`
}

// CoordinatesResponse mirrors CoordinatesRequest on the way out.
type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FarmerResponse is the client view of a farmer, including its projects and
// the derived area figures.
type FarmerResponse struct {
	ID              int64                     `json:"id"`
	CooperativeID   int64                     `json:"cooperative_id"`
	FullName        string                    `json:"full_name"`
	PhoneNumber     string                    `json:"phone_number"`
	Location        string                    `json:"location"`
	TotalAreaHa     float64                   `json:"total_area_ha"`
	AllocatedAreaHa float64                   `json:"allocated_area_ha"`
	RemainingAreaHa float64                   `json:"remaining_area_ha"`
	Language        string                    `json:"language"`
	Coordinates     *CoordinatesResponse      `json:"coordinates,omitempty"`
	QRCodeData      string                    `json:"qr_code_data"`
	Status          Status                    `json:"status"`
	Projects        []project.ProjectResponse `json:"projects,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// ToResponse maps a farmer and its projects to the client view. Allocated
// and remaining areas are derived here so every read path reports the same
// figures.
func ToResponse(f Farmer, projects []project.Project) FarmerResponse {
	allocated := project.AllocatedArea(projects)

	resp := FarmerResponse{
		ID:              f.ID,
		CooperativeID:   f.CooperativeID,
		FullName:        f.FullName,
		PhoneNumber:     f.PhoneNumber,
		Location:        f.Location,
		TotalAreaHa:     f.TotalAreaHa,
		AllocatedAreaHa: allocated,
		RemainingAreaHa: project.RemainingArea(f.TotalAreaHa, allocated),
		Language:        f.Language,
		QRCodeData:      f.QRCodeData,
		Status:          f.Status,
		Projects:        make([]project.ProjectResponse, 0, len(projects)),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
	if f.Latitude != nil && f.Longitude != nil {
		resp.Coordinates = &CoordinatesResponse{Latitude: *f.Latitude, Longitude: *f.Longitude}
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, project.ToResponse(p, f.FullName))
	}
	return resp
}

// ToSummaryResponse maps a farmer to the list view: derived area figures are
// kept, the nested project detail is not.
func ToSummaryResponse(f Farmer, allocated float64) FarmerResponse {
	resp := FarmerResponse{
		ID:              f.ID,
		CooperativeID:   f.CooperativeID,
		FullName:        f.FullName,
		PhoneNumber:     f.PhoneNumber,
		Location:        f.Location,
		TotalAreaHa:     f.TotalAreaHa,
		AllocatedAreaHa: allocated,
		RemainingAreaHa: project.RemainingArea(f.TotalAreaHa, allocated),
		Language:        f.Language,
		QRCodeData:      f.QRCodeData,
		Status:          f.Status,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
	if f.Latitude != nil && f.Longitude != nil {
		resp.Coordinates = &CoordinatesResponse{Latitude: *f.Latitude, Longitude: *f.Longitude}
	}
	return resp
}

// Statistics is the cooperative-level rollup. TotalRemainingAreaHa is the
// plain difference of declared and allocated totals and can go negative when
// individual farmers are over-allocated by legacy data.
type Statistics struct {
	TotalFarmers         int64   `json:"total_farmers"`
	ActiveFarmers        int64   `json:"active_farmers"`
	InactiveFarmers      int64   `json:"inactive_farmers"`
	TotalProjects        int64   `json:"total_projects"`
	TotalAreaHa          float64 `json:"total_area_ha"`
	TotalAllocatedAreaHa float64 `json:"total_allocated_area_ha"`
	TotalRemainingAreaHa float64 `json:"total_remaining_area_ha"`
}

// ImportRowData echoes a rejected row back as submitted, before any
// normalization, so the client can fix and resubmit it.
type ImportRowData struct {
	FullName    string              `json:"full_name"`
	PhoneNumber string              `json:"phone_number"`
	Location    string              `json:"location"`
	Language    string              `json:"language,omitempty"`
	TotalAreaHa float64             `json:"total_area_ha"`
	Coordinates *CoordinatesRequest `json:"coordinates,omitempty"`
}

// ImportError describes one rejected row of a bulk import. Row numbering
// starts at 2, matching spreadsheet rows under a header line.
type ImportError struct {
	Row     int           `json:"row"`
	Field   string        `json:"field,omitempty"`
	Value   string        `json:"value,omitempty"`
	Data    ImportRowData `json:"data"`
	Message string        `json:"message"`
}

// BulkImportResponse reports the outcome of a bulk import: every accepted
// farmer plus one error entry per rejected row. TotalProcessed always equals
// Imported + Failed.
type BulkImportResponse struct {
	TotalProcessed int              `json:"total_processed"`
	Imported       int              `json:"imported"`
	Failed         int              `json:"failed"`
	Farmers        []FarmerResponse `json:"farmers"`
	Errors         []ImportError    `json:"errors"`
}

// ListFilter narrows and paginates farmer listings.
type ListFilter struct {
	Page   int
	Size   int
	Status *Status
	Search string
}

// Normalize clamps paging values to sane defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 100 {
		f.Size = 20
	}
}

// Offset is the row offset for the current page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Size
}
