package repositories

import (
	"context"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LineItemEventRepository struct {
	DB *pgxpool.Pool
}

func NewLineItemEventRepository(db *pgxpool.Pool) *LineItemEventRepository {
	return &LineItemEventRepository{DB: db}
}

func (r *LineItemEventRepository) Create(ctx context.Context, event *models.LineItemEvent) error {
	query := `
		INSERT INTO line_item_events (line_item_id, from_status, to_status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		event.LineItemID,
		event.FromStatus,
		event.ToStatus,
		event.UserID,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *LineItemEventRepository) ListByLineItem(ctx context.Context, lineItemID string) ([]*models.LineItemEvent, error) {
	query := `
		SELECT id, line_item_id, from_status, to_status, user_id, created_at
		FROM line_item_events
		WHERE line_item_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.Query(ctx, query, lineItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.LineItemEvent
	for rows.Next() {
		event := &models.LineItemEvent{}
		err := rows.Scan(
			&event.ID,
			&event.LineItemID,
			&event.FromStatus,
			&event.ToStatus,
			&event.UserID,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
