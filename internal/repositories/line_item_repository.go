package repositories

import (
	"context"
	"encoding/json"
	"time"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LineItemRepository struct {
	DB *pgxpool.Pool
}

func NewLineItemRepository(db *pgxpool.Pool) *LineItemRepository {
	return &LineItemRepository{DB: db}
}

const lineItemColumns = `id, transaction_id, model, services, rush, current_status, storage_fee, pickup_notice_date, created_at`

func (r *LineItemRepository) Get(ctx context.Context, id string) (*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE id = $1`
	return scanLineItem(r.DB.QueryRow(ctx, query, id))
}

func (r *LineItemRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE transaction_id = $1 ORDER BY created_at, id`
	rows, err := r.DB.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLineItems(rows)
}

// ListByStatus feeds the operational queue views (queued, in process,
// ready for pickup and so on).
func (r *LineItemRepository) ListByStatus(ctx context.Context, status models.LineItemStatus) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE current_status = $1 ORDER BY created_at, id`
	rows, err := r.DB.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLineItems(rows)
}

func (r *LineItemRepository) UpdateStatus(ctx context.Context, id string, status models.LineItemStatus) error {
	query := `UPDATE line_items SET current_status = $2 WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, status)
	return err
}

// SetPickupNotice stamps the date the customer was told the item is ready.
// Storage fees accrue relative to this date.
func (r *LineItemRepository) SetPickupNotice(ctx context.Context, id string, notice time.Time) error {
	query := `UPDATE line_items SET pickup_notice_date = $2 WHERE id = $1 AND pickup_notice_date IS NULL`
	_, err := r.DB.Exec(ctx, query, id, notice)
	return err
}

// AddStorageFee adds an accrual delta to the item's running fee.
func (r *LineItemRepository) AddStorageFee(ctx context.Context, id string, delta float64) error {
	query := `UPDATE line_items SET storage_fee = storage_fee + $2 WHERE id = $1`
	_, err := r.DB.Exec(ctx, query, id, delta)
	return err
}

// ClearStorageFees zeroes fees on all items of a transaction after they
// have been collected in a payment.
func (r *LineItemRepository) ClearStorageFees(ctx context.Context, transactionID string) error {
	query := `UPDATE line_items SET storage_fee = 0 WHERE transaction_id = $1`
	_, err := r.DB.Exec(ctx, query, transactionID)
	return err
}

// CountUnreleased counts items of a transaction not yet picked up.
func (r *LineItemRepository) CountUnreleased(ctx context.Context, transactionID string) (int, error) {
	query := `SELECT COUNT(*) FROM line_items WHERE transaction_id = $1 AND current_status != 'PickedUp'`
	var n int
	err := r.DB.QueryRow(ctx, query, transactionID).Scan(&n)
	return n, err
}

// ListAccruable returns items still on the rack past their pickup notice.
// The daily accrual job walks this list.
func (r *LineItemRepository) ListAccruable(ctx context.Context) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE current_status = 'ReadyForPickup' AND pickup_notice_date IS NOT NULL
		ORDER BY pickup_notice_date`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLineItems(rows)
}

func scanLineItem(row rowScanner) (*models.LineItem, error) {
	item := &models.LineItem{}
	var servicesJSON []byte
	err := row.Scan(
		&item.ID,
		&item.TransactionID,
		&item.Model,
		&servicesJSON,
		&item.Rush,
		&item.CurrentStatus,
		&item.StorageFee,
		&item.PickupNoticeDate,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(servicesJSON) > 0 {
		if err := json.Unmarshal(servicesJSON, &item.Services); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func scanLineItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.LineItem, error) {
	var items []*models.LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
