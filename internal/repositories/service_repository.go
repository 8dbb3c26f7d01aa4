package repositories

import (
	"context"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRepository struct {
	DB *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (name, base_price, duration_days, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRow(ctx, query,
		service.Name,
		service.BasePrice,
		service.DurationDays,
		service.Kind,
	).Scan(&service.ID)
}

func (r *ServiceRepository) Get(ctx context.Context, id string) (*models.Service, error) {
	query := `
		SELECT id, name, base_price, duration_days, kind
		FROM services
		WHERE id = $1
	`
	service := &models.Service{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.Name,
		&service.BasePrice,
		&service.DurationDays,
		&service.Kind,
	)
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*models.Service, error) {
	query := `
		SELECT id, name, base_price, duration_days, kind
		FROM services
		ORDER BY kind, name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service := &models.Service{}
		err := rows.Scan(
			&service.ID,
			&service.Name,
			&service.BasePrice,
			&service.DurationDays,
			&service.Kind,
		)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}
