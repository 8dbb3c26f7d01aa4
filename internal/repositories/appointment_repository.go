package repositories

import (
	"context"
	"time"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	DB *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (customer_id, branch_id, scheduled_at, notes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		appointment.CustomerID,
		appointment.BranchID,
		appointment.ScheduledAt,
		appointment.Notes,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt)
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (*models.Appointment, error) {
	query := `
		SELECT id, customer_id, branch_id, scheduled_at, COALESCE(notes, ''), status, created_at
		FROM appointments
		WHERE id = $1
	`
	appointment := &models.Appointment{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.CustomerID,
		&appointment.BranchID,
		&appointment.ScheduledAt,
		&appointment.Notes,
		&appointment.Status,
		&appointment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// ListByBranchAndRange powers the scheduling calendar view.
func (r *AppointmentRepository) ListByBranchAndRange(ctx context.Context, branchID string, from, to time.Time) ([]*models.Appointment, error) {
	query := `
		SELECT id, customer_id, branch_id, scheduled_at, COALESCE(notes, ''), status, created_at
		FROM appointments
		WHERE branch_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at
	`
	rows, err := r.DB.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		appointment := &models.Appointment{}
		err := rows.Scan(
			&appointment.ID,
			&appointment.CustomerID,
			&appointment.BranchID,
			&appointment.ScheduledAt,
			&appointment.Notes,
			&appointment.Status,
			&appointment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $2 WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, status)
	return err
}
