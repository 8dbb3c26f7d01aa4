package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"solecare-backend/internal/events"
	"solecare-backend/internal/models"
	"solecare-backend/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxnStore struct {
	txn         *models.Transaction
	updatedPaid float64
	updatedStat pricing.PaymentStatus
	dateOut     *time.Time
}

func (f *fakeTxnStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	copied := *f.txn
	return &copied, nil
}

func (f *fakeTxnStore) UpdatePayment(ctx context.Context, id string, amountPaid float64, status pricing.PaymentStatus, dateOut *time.Time) error {
	f.updatedPaid = amountPaid
	f.updatedStat = status
	f.dateOut = dateOut
	f.txn.AmountPaid = amountPaid
	f.txn.PaymentStatus = status
	return nil
}

type fakeItemStore struct {
	items      []*models.LineItem
	feeDeltas  map[string]float64
	released   []string
}

func (f *fakeItemStore) ListByTransaction(ctx context.Context, transactionID string) ([]*models.LineItem, error) {
	return f.items, nil
}

func (f *fakeItemStore) AddStorageFee(ctx context.Context, id string, delta float64) error {
	if f.feeDeltas == nil {
		f.feeDeltas = make(map[string]float64)
	}
	f.feeDeltas[id] += delta
	return nil
}

func (f *fakeItemStore) UpdateStatus(ctx context.Context, id string, status models.LineItemStatus) error {
	if status == models.StatusPickedUp {
		f.released = append(f.released, id)
	}
	return nil
}

type fakePaymentStore struct {
	created  []*models.PaymentRecord
	records  map[string]*models.PaymentRecord
	failIDs  map[string]bool
	sequence int
}

func (f *fakePaymentStore) NextReceiptNumber(ctx context.Context) (string, error) {
	f.sequence++
	return "RCP-000001", nil
}

func (f *fakePaymentStore) Create(ctx context.Context, payment *models.PaymentRecord) error {
	payment.ID = "pay-new"
	f.created = append(f.created, payment)
	return nil
}

func (f *fakePaymentStore) Get(ctx context.Context, id string) (*models.PaymentRecord, error) {
	if f.failIDs[id] {
		return nil, errors.New("row scan failed")
	}
	record, ok := f.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return record, nil
}

func (f *fakePaymentStore) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentRecord, error) {
	for _, record := range f.records {
		if record.ReceiptNumber == receiptNumber {
			return record, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakePaymentStore) ListIDsByTransaction(ctx context.Context, transactionID string) ([]string, error) {
	var ids []string
	for id := range f.records {
		ids = append(ids, id)
	}
	for id := range f.failIDs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeReceipts struct {
	rendered  int
	lastData  *ReceiptData
	shouldErr bool
}

func (f *fakeReceipts) Render(data *ReceiptData) ([]byte, error) {
	if f.shouldErr {
		return nil, errors.New("pdf backend unavailable")
	}
	f.rendered++
	f.lastData = data
	return []byte("%PDF"), nil
}

func newTestService(txn *models.Transaction, items []*models.LineItem) (*PaymentService, *fakeTxnStore, *fakeItemStore, *fakePaymentStore, *fakeReceipts) {
	txns := &fakeTxnStore{txn: txn}
	itemStore := &fakeItemStore{items: items}
	payments := &fakePaymentStore{records: map[string]*models.PaymentRecord{}, failIDs: map[string]bool{}}
	receipts := &fakeReceipts{}
	svc := NewPaymentService(txns, itemStore, payments, receipts, events.NewBus())
	return svc, txns, itemStore, payments, receipts
}

func item(id string, status models.LineItemStatus, fee float64) *models.LineItem {
	return &models.LineItem{ID: id, TransactionID: "txn-1", CurrentStatus: status, StorageFee: fee}
}

func TestProcessPaymentRequiresCashier(t *testing.T) {
	svc, _, _, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 100},
		[]*models.LineItem{item("li-1", models.StatusReadyForPickup, 0)},
	)

	_, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		DueNow:        100,
		CustomerPaid:  100,
		Mode:          models.ModeCash,
	}, 1)
	assert.ErrorIs(t, err, ErrCashierRequired)
}

func TestProcessPaymentRejectsDueBeyondBalance(t *testing.T) {
	svc, _, _, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 100, AmountPaid: 80},
		[]*models.LineItem{item("li-1", models.StatusReadyForPickup, 0)},
	)

	_, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        25,
		CustomerPaid:  25,
		Mode:          models.ModeCash,
	}, 1)
	assert.ErrorIs(t, err, ErrDueNowOutOfRange)
}

func TestProcessPaymentRejectsShortTender(t *testing.T) {
	svc, _, _, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 100},
		[]*models.LineItem{item("li-1", models.StatusReadyForPickup, 0)},
	)

	_, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        100,
		CustomerPaid:  50,
		Mode:          models.ModeCash,
	}, 1)
	assert.ErrorIs(t, err, ErrInsufficientTender)
}

func TestProcessPaymentPartial(t *testing.T) {
	svc, txns, _, payments, receipts := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 1000, PaymentStatus: pricing.StatusNotPaid},
		[]*models.LineItem{item("li-1", models.StatusInProcess, 0)},
	)

	result, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        400,
		CustomerPaid:  500,
		Mode:          models.ModeGCash,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Change)
	assert.Equal(t, 600.0, result.NewBalance)
	assert.Equal(t, pricing.StatusPartial, txns.updatedStat)
	assert.Equal(t, 400.0, txns.updatedPaid)
	assert.Nil(t, txns.dateOut)
	require.Len(t, payments.created, 1)
	assert.Equal(t, 400.0, payments.created[0].Amount)
	assert.Equal(t, models.ModeGCash, payments.created[0].Mode)
	assert.Equal(t, 7, payments.created[0].ProcessedByUserID)
	assert.True(t, result.ReceiptGenerated)
	assert.Equal(t, 1, receipts.rendered)
}

func TestProcessPaymentSettlesStorageFeeOnPickup(t *testing.T) {
	// Bill fully paid, a 50.00 storage fee accrued while unclaimed.
	svc, txns, itemStore, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 500, AmountPaid: 500, PaymentStatus: pricing.StatusPaid},
		[]*models.LineItem{item("li-1", models.StatusReadyForPickup, 50)},
	)

	result, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        50,
		CustomerPaid:  50,
		Mode:          models.ModeCash,
		MarkPickedUp:  true,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.NewBalance)
	assert.Equal(t, 0.0, result.Change)
	// The 50.00 overflow past the bill total credits the item's fee.
	assert.Equal(t, -50.0, itemStore.feeDeltas["li-1"])
	assert.Equal(t, []string{"li-1"}, itemStore.released)
	require.NotNil(t, txns.dateOut)
}

func TestProcessPaymentRejectsPickupWithResidualBalance(t *testing.T) {
	svc, _, itemStore, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 500, AmountPaid: 500, PaymentStatus: pricing.StatusPaid},
		[]*models.LineItem{item("li-1", models.StatusReadyForPickup, 50.01)},
	)

	_, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        50,
		CustomerPaid:  50,
		Mode:          models.ModeCash,
		MarkPickedUp:  true,
	}, 1)
	assert.ErrorIs(t, err, ErrBalanceNotZero)
	assert.Empty(t, itemStore.released)
}

func TestProcessPaymentAmbiguousPickupNeedsLineItem(t *testing.T) {
	svc, _, _, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 500, AmountPaid: 500, PaymentStatus: pricing.StatusPaid},
		[]*models.LineItem{
			item("li-1", models.StatusReadyForPickup, 0),
			item("li-2", models.StatusReadyForPickup, 0),
		},
	)

	_, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        0,
		CustomerPaid:  0,
		Mode:          models.ModeCash,
		MarkPickedUp:  true,
	}, 1)
	assert.ErrorIs(t, err, ErrAmbiguousRelease)
}

func TestProcessPaymentSplitsOverflowAcrossItems(t *testing.T) {
	// Two items each carrying 100.00 of fees; a 200.00 collection past the
	// settled bill splits evenly.
	svc, _, itemStore, _, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 300, AmountPaid: 300, PaymentStatus: pricing.StatusPaid},
		[]*models.LineItem{
			item("li-1", models.StatusReadyForPickup, 100),
			item("li-2", models.StatusReadyForPickup, 100),
		},
	)

	result, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        200,
		CustomerPaid:  200,
		Mode:          models.ModeBank,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, -100.0, itemStore.feeDeltas["li-1"])
	assert.Equal(t, -100.0, itemStore.feeDeltas["li-2"])
	assert.Equal(t, 0.0, result.NewBalance)
}

func TestReconstructLedgerSubstitutesPlaceholders(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	svc, _, _, payments, _ := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 100},
		nil,
	)
	payments.records["pay-b"] = &models.PaymentRecord{ID: "pay-b", PaymentDate: &d2, Amount: 40}
	payments.records["pay-a"] = &models.PaymentRecord{ID: "pay-a", PaymentDate: &d1, Amount: 60}
	payments.failIDs["pay-broken"] = true

	ledger, err := svc.ReconstructLedger(context.Background(), "txn-1")
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	assert.Equal(t, "pay-a", ledger[0].ID)
	assert.Equal(t, "pay-b", ledger[1].ID)
	assert.Equal(t, "pay-broken", ledger[2].ID)
	assert.True(t, ledger[2].Placeholder)
}

func TestReceiptRenderFailureDoesNotBlockPayment(t *testing.T) {
	svc, _, _, _, receipts := newTestService(
		&models.Transaction{ID: "txn-1", TotalAmount: 100},
		[]*models.LineItem{item("li-1", models.StatusInProcess, 0)},
	)
	receipts.shouldErr = true

	result, err := svc.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		TransactionID: "txn-1",
		CashierName:   "Ana",
		DueNow:        100,
		CustomerPaid:  100,
		Mode:          models.ModeCash,
	}, 1)
	require.NoError(t, err)
	assert.False(t, result.ReceiptGenerated)
}
