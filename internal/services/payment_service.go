package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"solecare-backend/internal/cache"
	"solecare-backend/internal/events"
	"solecare-backend/internal/metrics"
	"solecare-backend/internal/models"
	"solecare-backend/internal/pricing"
	"solecare-backend/internal/timeutil"
)

// Payment validation errors, one per rejection reason so handlers can map
// them to distinct messages.
var (
	ErrCashierRequired    = errors.New("cashier name is required")
	ErrDueNowOutOfRange   = errors.New("amount due now exceeds the outstanding balance")
	ErrInsufficientTender = errors.New("customer payment is less than the amount due now")
	ErrBalanceNotZero     = errors.New("pickup requires the balance to be settled exactly")
	ErrAmbiguousRelease   = errors.New("line item must be specified when releasing one of several items")
)

// ledgerFetchWorkers bounds the fan-out when reconstructing a ledger
const ledgerFetchWorkers = 4

type transactionStore interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
	UpdatePayment(ctx context.Context, id string, amountPaid float64, status pricing.PaymentStatus, dateOut *time.Time) error
}

type lineItemStore interface {
	ListByTransaction(ctx context.Context, transactionID string) ([]*models.LineItem, error)
	AddStorageFee(ctx context.Context, id string, delta float64) error
	UpdateStatus(ctx context.Context, id string, status models.LineItemStatus) error
}

type paymentStore interface {
	NextReceiptNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, payment *models.PaymentRecord) error
	Get(ctx context.Context, id string) (*models.PaymentRecord, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentRecord, error)
	ListIDsByTransaction(ctx context.Context, transactionID string) ([]string, error)
}

type receiptRenderer interface {
	Render(data *ReceiptData) ([]byte, error)
}

// PaymentService is the single code path for every payment save: partial
// payments, full settlement, storage-fee collection and pickup release all
// run through ProcessPayment with different parameters.
type PaymentService struct {
	txns     transactionStore
	items    lineItemStore
	payments paymentStore
	receipts receiptRenderer
	bus      *events.Bus
}

func NewPaymentService(txns transactionStore, items lineItemStore, payments paymentStore, receipts receiptRenderer, bus *events.Bus) *PaymentService {
	return &PaymentService{
		txns:     txns,
		items:    items,
		payments: payments,
		receipts: receipts,
		bus:      bus,
	}
}

// ProcessPayment validates and persists one payment against a transaction.
//
// The amount due now is collected against the combined balance (unpaid bill
// plus accrued storage fees). The portion of the cumulative collected amount
// that exceeds the bill total is redistributed onto line items as storage-fee
// credit. When markPickedUp is set, the payment must settle the combined
// balance to exactly zero and the released item is moved to PickedUp.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.ProcessPaymentRequest, userID int) (*models.PaymentResult, error) {
	if req.CashierName == "" {
		return nil, ErrCashierRequired
	}

	txn, err := s.txns.Get(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	lineItems, err := s.items.ListByTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}

	feeItems := make([]pricing.FeeItem, 0, len(lineItems))
	for _, item := range lineItems {
		feeItems = append(feeItems, item.FeeItem())
	}
	storageFee := pricing.TotalStorageFee(feeItems)
	combinedBalance := txn.RemainingBalance() + storageFee

	if req.DueNow < 0 || req.DueNow > combinedBalance {
		return nil, fmt.Errorf("%w: due %.2f, balance %.2f", ErrDueNowOutOfRange, req.DueNow, combinedBalance)
	}
	if req.CustomerPaid < req.DueNow {
		return nil, fmt.Errorf("%w: tendered %.2f, due %.2f", ErrInsufficientTender, req.CustomerPaid, req.DueNow)
	}

	// Resolve which item a pickup releases before touching anything.
	var releaseItemID string
	if req.MarkPickedUp {
		releaseItemID, err = s.resolveReleaseItem(lineItems, req.LineItemID)
		if err != nil {
			return nil, err
		}
	}

	dueNow := pricing.ClampDueNow(req.DueNow, combinedBalance)
	change := pricing.ComputeChange(req.CustomerPaid, dueNow)
	amountPaidAfter := txn.AmountPaid + dueNow
	totalDue := txn.TotalAmount + storageFee
	newStatus := pricing.DeriveStatus(txn.AmountPaid, dueNow, totalDue)

	// Overflow past the bill total settles storage fees item by item.
	lineItemIDs := make([]string, 0, len(lineItems))
	for _, item := range lineItems {
		lineItemIDs = append(lineItemIDs, item.ID)
	}
	feeDeltas := pricing.RedistributeOverflow(txn.AmountPaid, dueNow, txn.TotalAmount, lineItemIDs, releaseItemID)

	feeCredit := 0.0
	for _, delta := range feeDeltas {
		feeCredit += delta
	}
	storageFeeAfter := storageFee - feeCredit
	newBalance := pricing.ComputeUpdatedBalance(txn.TotalAmount, amountPaidAfter, storageFeeAfter)

	if req.MarkPickedUp && newBalance != 0 {
		return nil, fmt.Errorf("%w: %.2f would remain", ErrBalanceNotZero, newBalance)
	}

	receiptNumber, err := s.payments.NextReceiptNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate receipt number: %w", err)
	}

	now := timeutil.Now()
	payment := &models.PaymentRecord{
		TransactionID:     req.TransactionID,
		ReceiptNumber:     receiptNumber,
		Amount:            dueNow,
		Mode:              req.Mode,
		PaymentDate:       &now,
		CashierName:       req.CashierName,
		ProcessedByUserID: userID,
	}

	// Snapshot the receipt inputs before any persistence so the printed
	// receipt reflects the state the cashier saw, not a concurrent update.
	snapshot := s.receiptSnapshot(ctx, txn, payment, dueNow, change, newBalance)

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	var dateOut *time.Time
	if req.MarkPickedUp {
		dateOut = &now
	}
	if err := s.txns.UpdatePayment(ctx, req.TransactionID, amountPaidAfter, newStatus, dateOut); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	for itemID, delta := range feeDeltas {
		if err := s.items.AddStorageFee(ctx, itemID, -delta); err != nil {
			log.Printf("[Payment] fee credit failed for item %s: %v", itemID, err)
		}
	}

	if req.MarkPickedUp {
		if err := s.items.UpdateStatus(ctx, releaseItemID, models.StatusPickedUp); err != nil {
			log.Printf("[Payment] release failed for item %s: %v", releaseItemID, err)
		} else {
			s.bus.Publish(events.Change{
				EntityType: "line_item",
				EntityID:   releaseItemID,
				Kind:       events.ChangeStatusUpdated,
				Status:     string(models.StatusPickedUp),
			})
		}
	}

	// Re-fetch rather than trusting local arithmetic for the response.
	updatedTxn, err := s.txns.Get(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("reload transaction: %w", err)
	}

	receiptGenerated := false
	if s.receipts != nil {
		if _, err := s.receipts.Render(snapshot); err != nil {
			log.Printf("[Payment] receipt render failed for %s: %v", receiptNumber, err)
		} else {
			receiptGenerated = true
		}
	}

	cache.InvalidatePaymentCaches(ctx)
	cache.InvalidateTransactionCaches(ctx)
	metrics.PaymentsProcessedTotal.WithLabelValues(string(req.Mode)).Inc()
	s.bus.Publish(events.Change{
		EntityType: "transaction",
		EntityID:   req.TransactionID,
		Kind:       events.ChangeUpdated,
		Status:     string(newStatus),
	})
	log.Printf("[Payment] %s: collected %.2f on %s, status %s, balance %.2f", receiptNumber, dueNow, req.TransactionID, newStatus, newBalance)

	return &models.PaymentResult{
		Payment:          payment,
		Transaction:      updatedTxn,
		Change:           change,
		NewBalance:       newBalance,
		FeeDeltas:        feeDeltas,
		ReceiptGenerated: receiptGenerated,
	}, nil
}

// resolveReleaseItem picks the line item a pickup releases. With several
// items still unreleased the caller must name one explicitly.
func (s *PaymentService) resolveReleaseItem(lineItems []*models.LineItem, requested string) (string, error) {
	var unreleased []*models.LineItem
	for _, item := range lineItems {
		if item.CurrentStatus != models.StatusPickedUp {
			unreleased = append(unreleased, item)
		}
	}
	if requested != "" {
		for _, item := range unreleased {
			if item.ID == requested {
				return requested, nil
			}
		}
		return "", fmt.Errorf("line item %s is not releasable on this transaction", requested)
	}
	if len(unreleased) == 1 {
		return unreleased[0].ID, nil
	}
	return "", ErrAmbiguousRelease
}

func (s *PaymentService) receiptSnapshot(ctx context.Context, txn *models.Transaction, payment *models.PaymentRecord, dueNow, change, newBalance float64) *ReceiptData {
	ledger, err := s.ReconstructLedger(ctx, txn.ID)
	if err != nil {
		log.Printf("[Payment] ledger reconstruction failed for %s: %v", txn.ID, err)
	}
	ledger = append(ledger, payment)
	models.SortLedger(ledger)

	return &ReceiptData{
		ReceiptNumber: payment.ReceiptNumber,
		Transaction:   txn,
		Payment:       payment,
		Ledger:        ledger,
		AmountDue:     dueNow,
		Change:        change,
		NewBalance:    newBalance,
	}
}

// ReceiptForNumber rebuilds the receipt snapshot for a past payment so its
// PDF can be re-printed. Change is not recorded on the payment row and is
// rendered as zero on reprints.
func (s *PaymentService) ReceiptForNumber(ctx context.Context, receiptNumber string) (*ReceiptData, error) {
	payment, err := s.payments.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	txn, err := s.txns.Get(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	lineItems, err := s.items.ListByTransaction(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	feeItems := make([]pricing.FeeItem, 0, len(lineItems))
	for _, item := range lineItems {
		feeItems = append(feeItems, item.FeeItem())
	}
	balance := txn.RemainingBalance() + pricing.TotalStorageFee(feeItems)

	ledger, err := s.ReconstructLedger(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}

	return &ReceiptData{
		ReceiptNumber: payment.ReceiptNumber,
		Transaction:   txn,
		Payment:       payment,
		Ledger:        ledger,
		AmountDue:     payment.Amount,
		Change:        0,
		NewBalance:    balance,
	}, nil
}

// ReconstructLedger fetches every payment attached to the transaction by id,
// in parallel with a bounded worker count. A record whose fetch fails is
// replaced by a placeholder carrying only its id so the ledger length always
// matches the id list. The result is date-sorted.
func (s *PaymentService) ReconstructLedger(ctx context.Context, transactionID string) ([]*models.PaymentRecord, error) {
	ids, err := s.payments.ListIDsByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records := make([]*models.PaymentRecord, len(ids))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := ledgerFetchWorkers
	if len(ids) < workers {
		workers = len(ids)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := s.payments.Get(ctx, ids[i])
				if err != nil {
					log.Printf("[Payment] ledger fetch failed for %s: %v", ids[i], err)
					record = &models.PaymentRecord{ID: ids[i], TransactionID: transactionID, Placeholder: true}
				}
				records[i] = record
			}
		}()
	}
	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	models.SortLedger(records)
	return records, nil
}
