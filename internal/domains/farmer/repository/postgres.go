package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
	"harvest-backend/pkg/database"
	"harvest-backend/pkg/logger"
)

const farmerColumns = `id, cooperative_id, full_name, phone_number, location, total_area_ha,
	language, latitude, longitude, qr_code_data, status, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) farmer.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateWithProjects(ctx context.Context, f *farmer.Farmer, projects []project.Project) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO farmers (cooperative_id, full_name, phone_number, location, total_area_ha,
			language, latitude, longitude, qr_code_data, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, query,
			f.CooperativeID, f.FullName, f.PhoneNumber, f.Location, f.TotalAreaHa,
			f.Language, f.Latitude, f.Longitude, f.QRCodeData, f.Status,
		).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create farmer: %w", err)
		}

		for i := range projects {
			projects[i].FarmerID = f.ID
			if err := insertProject(ctx, tx, &projects[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresRepository) UpdateWithProjects(ctx context.Context, f *farmer.Farmer, plan *project.ReconcilePlan) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `UPDATE farmers SET full_name=$2, phone_number=$3, location=$4, total_area_ha=$5,
			language=$6, latitude=$7, longitude=$8, status=$9, updated_at=NOW()
			WHERE id=$1
			RETURNING updated_at`
		err := tx.QueryRow(ctx, query,
			f.ID, f.FullName, f.PhoneNumber, f.Location, f.TotalAreaHa,
			f.Language, f.Latitude, f.Longitude, f.Status,
		).Scan(&f.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return farmer.ErrFarmerNotFound
			}
			return fmt.Errorf("failed to update farmer: %w", err)
		}

		if len(plan.DeleteIDs) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = ANY($1)`, plan.DeleteIDs); err != nil {
				return fmt.Errorf("failed to delete projects: %w", err)
			}
		}
		for i := range plan.Updates {
			p := &plan.Updates[i]
			err := tx.QueryRow(ctx, `UPDATE projects SET crop_name=$2, area_ha=$3, status=$4,
				planting_date=$5, expected_harvest_date=$6, notes=$7, updated_at=NOW()
				WHERE id=$1
				RETURNING updated_at`,
				p.ID, p.CropName, p.AreaHa, p.Status, p.PlantingDate, p.ExpectedHarvestDate, p.Notes,
			).Scan(&p.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update project %d: %w", p.ID, err)
			}
		}
		for i := range plan.Creates {
			plan.Creates[i].FarmerID = f.ID
			if err := insertProject(ctx, tx, &plan.Creates[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresRepository) DeleteWithProjects(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE farmer_id=$1`, id); err != nil {
			return fmt.Errorf("failed to delete farmer's projects: %w", err)
		}
		result, err := tx.Exec(ctx, `DELETE FROM farmers WHERE id=$1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete farmer: %w", err)
		}
		if result.RowsAffected() == 0 {
			return farmer.ErrFarmerNotFound
		}
		return nil
	})
}

func (r *postgresRepository) FindByIDAndCooperativeID(ctx context.Context, id, cooperativeID int64) (*farmer.Farmer, error) {
	query := fmt.Sprintf(`SELECT %s FROM farmers WHERE id=$1 AND cooperative_id=$2`, farmerColumns)

	var f farmer.Farmer
	err := r.pool.QueryRow(ctx, query, id, cooperativeID).Scan(
		&f.ID, &f.CooperativeID, &f.FullName, &f.PhoneNumber, &f.Location, &f.TotalAreaHa,
		&f.Language, &f.Latitude, &f.Longitude, &f.QRCodeData, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, farmer.ErrFarmerNotFound
		}
		logger.Error("FindByIDAndCooperativeID: database error", err)
		return nil, fmt.Errorf("failed to get farmer: %w", err)
	}
	return &f, nil
}

func (r *postgresRepository) List(ctx context.Context, cooperativeID int64, filter farmer.ListFilter) ([]farmer.Farmer, int64, error) {
	conditions := []string{"cooperative_id=$1"}
	args := []interface{}{cooperativeID}
	idx := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status=$%d", idx))
		args = append(args, *filter.Status)
		idx++
	}
	if filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(full_name ILIKE $%d OR phone_number ILIKE $%d OR location ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM farmers WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("List: count query failed", err)
		return nil, 0, fmt.Errorf("failed to count farmers: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM farmers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		farmerColumns, where, idx, idx+1)
	args = append(args, filter.Size, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("List: query failed", err)
		return nil, 0, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer rows.Close()

	farmers := []farmer.Farmer{}
	for rows.Next() {
		var f farmer.Farmer
		if err := rows.Scan(
			&f.ID, &f.CooperativeID, &f.FullName, &f.PhoneNumber, &f.Location, &f.TotalAreaHa,
			&f.Language, &f.Latitude, &f.Longitude, &f.QRCodeData, &f.Status, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan farmer: %w", err)
		}
		farmers = append(farmers, f)
	}
	return farmers, total, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status farmer.Status) error {
	result, err := r.pool.Exec(ctx, `UPDATE farmers SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update farmer status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return farmer.ErrFarmerNotFound
	}
	return nil
}

func (r *postgresRepository) ExistsByPhoneAndCooperativeID(ctx context.Context, phone string, cooperativeID, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM farmers WHERE phone_number=$1 AND cooperative_id=$2 AND id<>$3)`,
		phone, cooperativeID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check phone number: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByNameAndCooperativeID(ctx context.Context, name string, cooperativeID, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM farmers WHERE LOWER(full_name)=LOWER($1) AND cooperative_id=$2 AND id<>$3)`,
		name, cooperativeID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check farmer name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByQRCode(ctx context.Context, qrCode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM farmers WHERE qr_code_data=$1)`, qrCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check qr code: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Statistics(ctx context.Context, cooperativeID int64) (*farmer.Statistics, error) {
	var stats farmer.Statistics

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status='active'),
			COUNT(*) FILTER (WHERE status='inactive'),
			COALESCE(SUM(total_area_ha), 0)
		FROM farmers WHERE cooperative_id=$1`,
		cooperativeID,
	).Scan(&stats.TotalFarmers, &stats.ActiveFarmers, &stats.InactiveFarmers, &stats.TotalAreaHa)
	if err != nil {
		logger.Error("Statistics: farmer aggregates failed", err)
		return nil, fmt.Errorf("failed to aggregate farmers: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(p.area_ha), 0)
		FROM projects p
		JOIN farmers f ON f.id = p.farmer_id
		WHERE f.cooperative_id=$1`,
		cooperativeID,
	).Scan(&stats.TotalProjects, &stats.TotalAllocatedAreaHa)
	if err != nil {
		logger.Error("Statistics: project aggregates failed", err)
		return nil, fmt.Errorf("failed to aggregate projects: %w", err)
	}

	return &stats, nil
}

func insertProject(ctx context.Context, tx pgx.Tx, p *project.Project) error {
	err := tx.QueryRow(ctx, `INSERT INTO projects (farmer_id, crop_name, area_ha, status,
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
