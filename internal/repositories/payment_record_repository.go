package repositories

import (
	"context"
	"fmt"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRecordRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRecordRepository(db *pgxpool.Pool) *PaymentRecordRepository {
	return &PaymentRecordRepository{DB: db}
}

// NextReceiptNumber draws from the database sequence so receipt numbers are
// unique across concurrent cashiers.
func (r *PaymentRecordRepository) NextReceiptNumber(ctx context.Context) (string, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT nextval('receipt_number_sequence')`).Scan(&n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP-%06d", n), nil
}

// Create inserts an immutable payment record. A duplicate guard rejects an
// identical amount on the same transaction within 10 seconds, which catches
// double-clicked save buttons.
func (r *PaymentRecordRepository) Create(ctx context.Context, payment *models.PaymentRecord) error {
	var recent int
	guard := `
		SELECT COUNT(*)
		FROM payment_records
		WHERE transaction_id = $1 AND amount = $2 AND created_at > NOW() - INTERVAL '10 seconds'
	`
	if err := r.DB.QueryRow(ctx, guard, payment.TransactionID, payment.Amount).Scan(&recent); err != nil {
		return err
	}
	if recent > 0 {
		return fmt.Errorf("duplicate payment detected for transaction %s", payment.TransactionID)
	}

	query := `
		INSERT INTO payment_records (transaction_id, receipt_number, amount, mode, payment_date, cashier_name, processed_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		payment.TransactionID,
		payment.ReceiptNumber,
		payment.Amount,
		payment.Mode,
		payment.PaymentDate,
		payment.CashierName,
		payment.ProcessedByUserID,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *PaymentRecordRepository) Get(ctx context.Context, id string) (*models.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, receipt_number, amount, mode, payment_date, cashier_name, processed_by_user_id, created_at
		FROM payment_records
		WHERE id = $1
	`
	return scanPaymentRecord(r.DB.QueryRow(ctx, query, id))
}

func (r *PaymentRecordRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, receipt_number, amount, mode, payment_date, cashier_name, processed_by_user_id, created_at
		FROM payment_records
		WHERE receipt_number = $1
	`
	return scanPaymentRecord(r.DB.QueryRow(ctx, query, receiptNumber))
}

// ListIDsByTransaction returns the ids of every payment attached to the
// transaction. Ledger reconstruction fetches each record individually and
// substitutes a placeholder when a fetch fails.
func (r *PaymentRecordRepository) ListIDsByTransaction(ctx context.Context, transactionID string) ([]string, error) {
	query := `SELECT id FROM payment_records WHERE transaction_id = $1`
	rows, err := r.DB.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PaymentRecordRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*models.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, receipt_number, amount, mode, payment_date, cashier_name, processed_by_user_id, created_at
		FROM payment_records
		WHERE transaction_id = $1
	`
	rows, err := r.DB.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PaymentRecord
	for rows.Next() {
		record, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanPaymentRecord(row rowScanner) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{}
	err := row.Scan(
		&record.ID,
		&record.TransactionID,
		&record.ReceiptNumber,
		&record.Amount,
		&record.Mode,
		&record.PaymentDate,
		&record.CashierName,
		&record.ProcessedByUserID,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}
