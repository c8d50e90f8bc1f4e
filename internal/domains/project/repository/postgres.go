package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"harvest-backend/internal/domains/project"
	"harvest-backend/pkg/logger"
)

const projectColumns = `id, farmer_id, crop_name, area_ha, status,
	planting_date, expected_harvest_date, notes, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) project.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) FindByFarmerID(ctx context.Context, farmerID int64) ([]project.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE farmer_id=$1 ORDER BY created_at, id`, projectColumns)

	rows, err := r.pool.Query(ctx, query, farmerID)
	if err != nil {
		logger.Error("FindByFarmerID: query failed", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (r *postgresRepository) FindByIDAndFarmerID(ctx context.Context, id, farmerID int64) (*project.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id=$1 AND farmer_id=$2`, projectColumns)

	var p project.Project
	err := r.pool.QueryRow(ctx, query, id, farmerID).Scan(
		&p.ID, &p.FarmerID, &p.CropName, &p.AreaHa, &p.Status,
		&p.PlantingDate, &p.ExpectedHarvestDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		logger.Error("FindByIDAndFarmerID: database error", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *project.Project) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO projects (farmer_id, crop_name, area_ha, status,
		planting_date, expected_harvest_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.FarmerID, p.CropName, p.AreaHa, p.Status, p.PlantingDate, p.ExpectedHarvestDate, p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *project.Project) error {
	err := r.pool.QueryRow(ctx, `UPDATE projects SET crop_name=$2, area_ha=$3, status=$4,
		planting_date=$5, expected_harvest_date=$6, notes=$7, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at`,
		p.ID, p.CropName, p.AreaHa, p.Status, p.PlantingDate, p.ExpectedHarvestDate, p.Notes,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.ErrProjectNotFound
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *postgresRepository) SumAreaByFarmerID(ctx context.Context, farmerID int64) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(area_ha), 0) FROM projects WHERE farmer_id=$1`, farmerID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum project area: %w", err)
	}
	return sum, nil
}

func (r *postgresRepository) SumAreaByFarmerIDs(ctx context.Context, farmerIDs []int64) (map[int64]float64, error) {
	result := make(map[int64]float64, len(farmerIDs))
	if len(farmerIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT farmer_id, COALESCE(SUM(area_ha), 0) FROM projects WHERE farmer_id = ANY($1) GROUP BY farmer_id`,
		farmerIDs,
	)
	if err != nil {
		logger.Error("SumAreaByFarmerIDs: query failed", err)
		return nil, fmt.Errorf("failed to sum project area: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var farmerID int64
		var sum float64
		if err := rows.Scan(&farmerID, &sum); err != nil {
			return nil, fmt.Errorf("failed to sum project area: %w", err)
		}
		result[farmerID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sum project area: %w", err)
	}
	return result, nil
}

func (r *postgresRepository) CountByCooperativeID(ctx context.Context, cooperativeID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects p JOIN farmers f ON f.id = p.farmer_id WHERE f.cooperative_id=$1`,
		cooperativeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) SumAreaByCooperativeID(ctx context.Context, cooperativeID int64) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(p.area_ha), 0) FROM projects p JOIN farmers f ON f.id = p.farmer_id WHERE f.cooperative_id=$1`,
		cooperativeID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum project area: %w", err)
	}
	return sum, nil
}

func scanProjects(rows pgx.Rows) ([]project.Project, error) {
	projects := []project.Project{}
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(
			&p.ID, &p.FarmerID, &p.CropName, &p.AreaHa, &p.Status,
			&p.PlantingDate, &p.ExpectedHarvestDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
