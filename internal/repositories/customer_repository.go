package repositories

import (
	"context"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, phone, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Address,
	).Scan(&customer.ID, &customer.CreatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*models.Customer, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM customers
		WHERE id = $1
	`
	customer := &models.Customer{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) SearchByPhone(ctx context.Context, phone string) ([]*models.Customer, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM customers
		WHERE phone LIKE $1 || '%'
		ORDER BY name
		LIMIT 20
	`
	rows, err := r.DB.Query(ctx, query, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM customers
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func scanCustomers(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.Customer, error) {
	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Phone,
			&customer.Address,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
