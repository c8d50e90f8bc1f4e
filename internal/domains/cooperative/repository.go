package cooperative

import "context"

// Repository is the persistence port for cooperatives and the approval
// workflow. Creation happens inside the user repository's signup transaction;
// here live the reads and the admin state changes.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Cooperative, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListPending(ctx context.Context) ([]PendingAccount, error)

	// Approve flips the owning account to approved and returns it for
	// notification. ErrAlreadyApproved when there is nothing to flip.
	Approve(ctx context.Context, cooperativeID int64) (*PendingAccount, error)

	// Reject deletes the cooperative and its account in one transaction and
	// returns the deleted account for notification.
	Reject(ctx context.Context, cooperativeID int64) (*PendingAccount, error)
}
