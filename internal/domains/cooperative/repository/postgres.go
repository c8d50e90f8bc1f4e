package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/pkg/database"
	"harvest-backend/pkg/logger"
)

const pendingAccountQuery = `SELECT c.id, c.name, c.region, c.contact_number, c.address, c.registration_number,
		c.created_at, c.updated_at, u.id, u.email, u.full_name, u.created_at
	FROM cooperatives c
	JOIN users u ON u.cooperative_id = c.id AND u.role = 'cooperative'`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) cooperative.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*cooperative.Cooperative, error) {
	var c cooperative.Cooperative
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, region, contact_number, address, registration_number, created_at, updated_at
		FROM cooperatives WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Region, &c.ContactNumber, &c.Address, &c.RegistrationNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cooperative.ErrCooperativeNotFound
		}
		logger.Error("FindByID: database error", err)
		return nil, fmt.Errorf("failed to get cooperative: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cooperatives WHERE LOWER(name)=LOWER($1))`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cooperative name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListPending(ctx context.Context) ([]cooperative.PendingAccount, error) {
	query := pendingAccountQuery + ` WHERE u.is_approved = FALSE ORDER BY u.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("ListPending: query failed", err)
		return nil, fmt.Errorf("failed to list pending cooperatives: %w", err)
	}
	defer rows.Close()

	pending := []cooperative.PendingAccount{}
	for rows.Next() {
		var p cooperative.PendingAccount
		if err := scanPendingAccount(rows, &p); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *postgresRepository) Approve(ctx context.Context, cooperativeID int64) (*cooperative.PendingAccount, error) {
	var p cooperative.PendingAccount
	err := r.pool.QueryRow(ctx, pendingAccountQuery+` WHERE c.id=$1`, cooperativeID).
		Scan(&p.ID, &p.Name, &p.Region, &p.ContactNumber, &p.Address, &p.RegistrationNumber,
			&p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.Email, &p.FullName, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cooperative.ErrCooperativeNotFound
		}
		return nil, fmt.Errorf("failed to get cooperative account: %w", err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE users SET is_approved=TRUE, updated_at=NOW()
		WHERE cooperative_id=$1 AND role='cooperative' AND is_approved=FALSE`, cooperativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to approve cooperative: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, cooperative.ErrAlreadyApproved
	}
	return &p, nil
}

func (r *postgresRepository) Reject(ctx context.Context, cooperativeID int64) (*cooperative.PendingAccount, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*cooperative.PendingAccount, error) {
		var p cooperative.PendingAccount
		err := tx.QueryRow(ctx, pendingAccountQuery+` WHERE c.id=$1`, cooperativeID).
			Scan(&p.ID, &p.Name, &p.Region, &p.ContactNumber, &p.Address, &p.RegistrationNumber,
				&p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.Email, &p.FullName, &p.RegisteredAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, cooperative.ErrCooperativeNotFound
			}
			return nil, fmt.Errorf("failed to get cooperative account: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE cooperative_id=$1`, cooperativeID); err != nil {
			return nil, fmt.Errorf("failed to delete cooperative account: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cooperatives WHERE id=$1`, cooperativeID); err != nil {
			return nil, fmt.Errorf("failed to delete cooperative: %w", err)
		}
		return &p, nil
	})
}

func scanPendingAccount(rows pgx.Rows, p *cooperative.PendingAccount) error {
	if err := rows.Scan(
		&p.ID, &p.Name, &p.Region, &p.ContactNumber, &p.Address, &p.RegistrationNumber,
		&p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.Email, &p.FullName, &p.RegisteredAt,
	); err != nil {
		return fmt.Errorf("failed to scan pending cooperative: %w", err)
	}
	return nil
}
