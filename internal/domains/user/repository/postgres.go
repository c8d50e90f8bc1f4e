package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/domains/user"
	"harvest-backend/pkg/database"
	"harvest-backend/pkg/logger"
)

const userColumns = `id, username, email, password, full_name, phone_number, role, is_approved,
	cooperative_id, registration_number, reset_token, reset_token_expiry, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateWithCooperative(ctx context.Context, u *user.User, c *cooperative.Cooperative) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO cooperatives (name, region, contact_number, address, registration_number)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			c.Name, c.Region, c.ContactNumber, c.Address, c.RegistrationNumber,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create cooperative: %w", err)
		}

		u.CooperativeID = &c.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password, full_name, phone_number, role, is_approved,
				cooperative_id, registration_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			u.Username, u.Email, u.Password, u.FullName, u.PhoneNumber, u.Role, u.IsApproved,
			u.CooperativeID, u.RegistrationNumber,
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email=$1`, userColumns)
	return r.findOne(ctx, query, email)
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1`, userColumns)
	return r.findOne(ctx, query, id)
}

func (r *postgresRepository) FindByValidResetToken(ctx context.Context, token string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE reset_token=$1 AND reset_token_expiry > NOW()`, userColumns)
	u, err := r.findOne(ctx, query, token)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidResetToken
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email)
}

func (r *postgresRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE phone_number=$1)`, phone)
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username)
}

func (r *postgresRepository) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token=$2, reset_token_expiry=$3, updated_at=NOW() WHERE id=$1`,
		userID, token, expiry)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET password=$2, reset_token=NULL, reset_token_expiry=NULL, updated_at=NOW() WHERE id=$1`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteExpiredResetTokens(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token=NULL, reset_token_expiry=NULL
		WHERE reset_token IS NOT NULL AND reset_token_expiry < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", err)
	}
	return int(result.RowsAffected()), nil
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.FullName, &u.PhoneNumber, &u.Role, &u.IsApproved,
		&u.CooperativeID, &u.RegistrationNumber, &u.ResetToken, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		logger.Error("findOne: database error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}
