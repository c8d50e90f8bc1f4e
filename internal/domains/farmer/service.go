package farmer

import "context"

// Service exposes the farmer aggregate operations, all scoped to the
// caller's cooperative.
type Service interface {
	Create(ctx context.Context, cooperativeID int64, req FarmerRequest) (*FarmerResponse, error)
	Update(ctx context.Context, cooperativeID, id int64, req FarmerRequest) (*FarmerResponse, error)
	Delete(ctx context.Context, cooperativeID, id int64) error
	GetByID(ctx context.Context, cooperativeID, id int64) (*FarmerResponse, error)
	List(ctx context.Context, cooperativeID int64, filter ListFilter) ([]FarmerResponse, int64, error)
	UpdateStatus(ctx context.Context, cooperativeID, id int64, status string) (*FarmerResponse, error)
	Statistics(ctx context.Context, cooperativeID int64) (*Statistics, error)
	BulkImport(ctx context.Context, cooperativeID int64, reqs []FarmerRequest) (*BulkImportResponse, error)
}
