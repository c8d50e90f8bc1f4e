package user

import (
	"context"
	"time"

	"harvest-backend/internal/domains/cooperative"
)

// Repository is the persistence port for accounts.
type Repository interface {
	// CreateWithCooperative inserts the cooperative and its owner account in
	// one transaction, filling in both generated ids.
	CreateWithCooperative(ctx context.Context, u *User, c *cooperative.Cooperative) error

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	// FindByValidResetToken matches an unexpired token.
	FindByValidResetToken(ctx context.Context, token string) (*User, error)
	// UpdatePassword replaces the hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	// DeleteExpiredResetTokens clears tokens whose expiry is before cutoff
	// and reports how many were cleared.
	DeleteExpiredResetTokens(ctx context.Context, cutoff time.Time) (int, error)
}
