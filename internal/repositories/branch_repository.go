package repositories

import (
	"context"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	query := `
		INSERT INTO branches (code, display_name, color, data_key, forecast_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRow(ctx, query,
		branch.Code,
		branch.DisplayName,
		branch.Color,
		branch.DataKey,
		branch.ForecastKey,
	).Scan(&branch.ID)
}

func (r *BranchRepository) Get(ctx context.Context, id string) (*models.Branch, error) {
	query := `
		SELECT id, code, display_name, color, data_key, forecast_key
		FROM branches
		WHERE id = $1
	`
	branch := &models.Branch{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&branch.ID,
		&branch.Code,
		&branch.DisplayName,
		&branch.Color,
		&branch.DataKey,
		&branch.ForecastKey,
	)
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// List returns branches in code order so chart series and export columns
// are stable across requests.
func (r *BranchRepository) List(ctx context.Context) ([]*models.Branch, error) {
	query := `
		SELECT id, code, display_name, color, data_key, forecast_key
		FROM branches
		ORDER BY code
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		branch := &models.Branch{}
		err := rows.Scan(
			&branch.ID,
			&branch.Code,
			&branch.DisplayName,
			&branch.Color,
			&branch.DataKey,
			&branch.ForecastKey,
		)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}
