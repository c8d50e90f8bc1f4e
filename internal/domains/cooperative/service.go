package cooperative

import "context"

// Service is the admin approval surface.
type Service interface {
	ListPending(ctx context.Context) ([]PendingAccount, error)
	Approve(ctx context.Context, cooperativeID int64) (*PendingAccount, error)
	Reject(ctx context.Context, cooperativeID int64) error
}
