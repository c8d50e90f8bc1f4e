package project

import "context"

// Service exposes the standalone project operations, always scoped to a
// farmer within the caller's cooperative.
type Service interface {
	ListByFarmer(ctx context.Context, cooperativeID, farmerID int64) ([]ProjectResponse, error)
	Create(ctx context.Context, cooperativeID, farmerID int64, req ProjectRequest) (*ProjectResponse, error)
	Update(ctx context.Context, cooperativeID, farmerID, projectID int64, req ProjectRequest) (*ProjectResponse, error)
	UpdateStatus(ctx context.Context, cooperativeID, farmerID, projectID int64, status string) (*ProjectResponse, error)
	Delete(ctx context.Context, cooperativeID, farmerID, projectID int64) error
}
