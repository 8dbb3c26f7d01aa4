package repositories

import (
	"context"
	"encoding/json"
	"time"

	"solecare-backend/internal/models"
	"solecare-backend/internal/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateWithItems inserts the transaction header and all its line items in
// one database transaction. The caller has already computed totals.
func (r *TransactionRepository) CreateWithItems(ctx context.Context, txn *models.Transaction, items []*models.LineItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO transactions (customer_id, branch_id, total_amount, amount_paid, discount_amount, payment_status, date_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, headerQuery,
		txn.CustomerID,
		txn.BranchID,
		txn.TotalAmount,
		txn.AmountPaid,
		txn.DiscountAmount,
		txn.PaymentStatus,
		txn.DateIn,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO line_items (transaction_id, model, services, rush, current_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	for _, item := range items {
		item.TransactionID = txn.ID
		servicesJSON, err := json.Marshal(item.Services)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, itemQuery,
			item.TransactionID,
			item.Model,
			servicesJSON,
			item.Rush,
			item.CurrentStatus,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, customer_id, branch_id, total_amount, amount_paid, discount_amount, payment_status, date_in, date_out, created_at
		FROM transactions
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(ctx, query, id))
}

func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Transaction, error) {
	query := `
		SELECT id, customer_id, branch_id, total_amount, amount_paid, discount_amount, payment_status, date_in, date_out, created_at
		FROM transactions
		WHERE customer_id = $1
		ORDER BY date_in DESC
	`
	rows, err := r.DB.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListUnsettled returns transactions that still carry a balance or have
// items not yet picked up.
func (r *TransactionRepository) ListUnsettled(ctx context.Context, branchID string) ([]*models.Transaction, error) {
	query := `
		SELECT DISTINCT t.id, t.customer_id, t.branch_id, t.total_amount, t.amount_paid, t.discount_amount, t.payment_status, t.date_in, t.date_out, t.created_at
		FROM transactions t
		JOIN line_items li ON li.transaction_id = t.id
		WHERE t.branch_id = $1
		  AND (t.payment_status != 'PAID' OR li.current_status != 'PickedUp' OR li.storage_fee > 0)
		ORDER BY t.date_in
	`
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// UpdatePayment persists the post-payment snapshot on the header.
func (r *TransactionRepository) UpdatePayment(ctx context.Context, id string, amountPaid float64, status pricing.PaymentStatus, dateOut *time.Time) error {
	query := `
		UPDATE transactions
		SET amount_paid = $2, payment_status = $3, date_out = COALESCE($4, date_out)
		WHERE id = $1
	`
	_, err := r.DB.Exec(ctx, query, id, amountPaid, status, dateOut)
	return err
}

// BranchRevenueRow is one day's collected revenue for one branch.
type BranchRevenueRow struct {
	Day      time.Time
	BranchID string
	Total    float64
}

// DailyRevenue sums payment amounts per branch per day over [from, to].
// Days are bucketed in the business timezone so a late-evening payment
// lands on the local calendar day.
func (r *TransactionRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]BranchRevenueRow, error) {
	query := `
		SELECT date_trunc('day', pr.payment_date AT TIME ZONE 'Asia/Manila') AS day,
		       t.branch_id,
		       COALESCE(SUM(pr.amount), 0) AS total
		FROM payment_records pr
		JOIN transactions t ON t.id = pr.transaction_id
		WHERE pr.payment_date >= $1 AND pr.payment_date <= $2
		GROUP BY day, t.branch_id
		ORDER BY day, t.branch_id
	`
	rows, err := r.DB.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BranchRevenueRow
	for rows.Next() {
		var row BranchRevenueRow
		if err := rows.Scan(&row.Day, &row.BranchID, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyRevenue sums payment amounts per branch per month over [from, to].
func (r *TransactionRepository) MonthlyRevenue(ctx context.Context, from, to time.Time) ([]BranchRevenueRow, error) {
	query := `
		SELECT date_trunc('month', pr.payment_date AT TIME ZONE 'Asia/Manila') AS month,
		       t.branch_id,
		       COALESCE(SUM(pr.amount), 0) AS total
		FROM payment_records pr
		JOIN transactions t ON t.id = pr.transaction_id
		WHERE pr.payment_date >= $1 AND pr.payment_date <= $2
		GROUP BY month, t.branch_id
		ORDER BY month, t.branch_id
	`
	rows, err := r.DB.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BranchRevenueRow
	for rows.Next() {
		var row BranchRevenueRow
		if err := rows.Scan(&row.Day, &row.BranchID, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TransactionRepository) scanOne(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(
		&txn.ID,
		&txn.CustomerID,
		&txn.BranchID,
		&txn.TotalAmount,
		&txn.AmountPaid,
		&txn.DiscountAmount,
		&txn.PaymentStatus,
		&txn.DateIn,
		&txn.DateOut,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *TransactionRepository) scanMany(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	for rows.Next() {
		txn, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
