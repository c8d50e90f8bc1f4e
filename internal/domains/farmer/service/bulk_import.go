package service

import (
	"context"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/pkg/logger"
)

// fieldError pins a rejection to the field that caused it, for bulk-import
// error reporting.
type fieldError struct {
	field string
	value string
}

// BulkImport registers a batch of farmers with per-row isolation: each row
// runs through the full create pipeline in its own transaction, and one bad
// row never blocks the rest. Reported row numbers start at 2, matching
// spreadsheet rows under a header line. Rows are processed in order, so a
// duplicate inside the batch is rejected against the rows already imported.
func (s *farmerService) BulkImport(ctx context.Context, cooperativeID int64, reqs []farmer.FarmerRequest) (*farmer.BulkImportResponse, error) {
	resp := &farmer.BulkImportResponse{
		Farmers: []farmer.FarmerResponse{},
		Errors:  []farmer.ImportError{},
	}

	for i, req := range reqs {
		row := i + 2

		created, ferr, err := s.importRow(ctx, cooperativeID, req)
		if err != nil {
			importErr := farmer.ImportError{Row: row, Data: submittedRow(req), Message: err.Error()}
			if ferr != nil {
				importErr.Field = ferr.field
				importErr.Value = ferr.value
			}
			resp.Errors = append(resp.Errors, importErr)
			resp.Failed++

			logger.Info("BulkImport: row rejected", map[string]interface{}{
				"row":   row,
				"error": err.Error(),
			})
			continue
		}

		resp.Farmers = append(resp.Farmers, *created)
		resp.Imported++
	}

	resp.TotalProcessed = resp.Imported + resp.Failed

	if resp.Imported > 0 {
		s.invalidateStats(ctx, cooperativeID)
	}
	return resp, nil
}

// importRow persists one farmer without projects: bulk import does not accept
// nested project rows, so any supplied ones are ignored.
func (s *farmerService) importRow(ctx context.Context, cooperativeID int64, req farmer.FarmerRequest) (*farmer.FarmerResponse, *fieldError, error) {
	req.Projects = nil

	f, ferr, err := s.buildFarmer(ctx, cooperativeID, req, nil)
	if err != nil {
		return nil, ferr, err
	}

	qrCode, err := s.generateUniqueQRCode(ctx)
	if err != nil {
		return nil, nil, err
	}
	f.QRCodeData = qrCode

	if err := s.farmers.CreateWithProjects(ctx, f, nil); err != nil {
		return nil, nil, err
	}

	created := farmer.ToResponse(*f, nil)
	return &created, nil, nil
}

// submittedRow echoes the row back as submitted, before normalization.
func submittedRow(req farmer.FarmerRequest) farmer.ImportRowData {
	return farmer.ImportRowData{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
		Language:    req.Language,
		TotalAreaHa: req.TotalAreaHa,
		Coordinates: req.Coordinates,
	}
}
