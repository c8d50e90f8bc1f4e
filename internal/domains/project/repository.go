package project

import "context"

// Repository is the persistence port for projects. Farmer-scoped bulk writes
// (reconcile application, cascade delete) run inside the farmer repository's
// transactions; this interface covers standalone project operations and reads.
type Repository interface {
	FindByFarmerID(ctx context.Context, farmerID int64) ([]Project, error)
	FindByIDAndFarmerID(ctx context.Context, id, farmerID int64) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id int64) error
	SumAreaByFarmerID(ctx context.Context, farmerID int64) (float64, error)
	SumAreaByFarmerIDs(ctx context.Context, farmerIDs []int64) (map[int64]float64, error)
	CountByCooperativeID(ctx context.Context, cooperativeID int64) (int64, error)
	SumAreaByCooperativeID(ctx context.Context, cooperativeID int64) (float64, error)
}
