package farmer

import (
	"context"

	"harvest-backend/internal/domains/project"
)

// Repository is the persistence port for farmers. The *WithProjects methods
// write the farmer and its project rows inside a single transaction so a
// failed project write never leaves a partially saved farmer behind.
type Repository interface {
	CreateWithProjects(ctx context.Context, f *Farmer, projects []project.Project) error
	UpdateWithProjects(ctx context.Context, f *Farmer, plan *project.ReconcilePlan) error
	DeleteWithProjects(ctx context.Context, id int64) error

	FindByIDAndCooperativeID(ctx context.Context, id, cooperativeID int64) (*Farmer, error)
	List(ctx context.Context, cooperativeID int64, filter ListFilter) ([]Farmer, int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error

	ExistsByPhoneAndCooperativeID(ctx context.Context, phone string, cooperativeID, excludeID int64) (bool, error)
	ExistsByNameAndCooperativeID(ctx context.Context, name string, cooperativeID, excludeID int64) (bool, error)
	ExistsByQRCode(ctx context.Context, qrCode string) (bool, error)

	// Statistics returns the rollup with TotalRemainingAreaHa left to the
	// caller to derive.
	Statistics(ctx context.Context, cooperativeID int64) (*Statistics, error)
}
