package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"solecare-backend/internal/cache"
	"solecare-backend/internal/events"
	"solecare-backend/internal/models"
	"solecare-backend/internal/pricing"
	"solecare-backend/internal/repositories"
	"solecare-backend/internal/timeutil"
)

// Fallbacks when a system setting is missing
const (
	DefaultRushFee          = 100.00
	DefaultStorageGraceDays = 7
	DefaultStorageFeePerDay = 10.00
)

var ErrNoShoes = errors.New("transaction must contain at least one shoe")

// TransactionService owns intake and the derived-balance detail view
type TransactionService struct {
	txnRepo      *repositories.TransactionRepository
	lineItemRepo *repositories.LineItemRepository
	settingRepo  *repositories.SystemSettingRepository
	catalogSvc   *CatalogService
	bus          *events.Bus
}

func NewTransactionService(
	txnRepo *repositories.TransactionRepository,
	lineItemRepo *repositories.LineItemRepository,
	settingRepo *repositories.SystemSettingRepository,
	catalogSvc *CatalogService,
	bus *events.Bus,
) *TransactionService {
	return &TransactionService{
		txnRepo:      txnRepo,
		lineItemRepo: lineItemRepo,
		settingRepo:  settingRepo,
		catalogSvc:   catalogSvc,
		bus:          bus,
	}
}

// CreateIntake prices the submitted shoes against the live catalog, applies
// the optional discount, and persists the transaction with one line item per
// shoe. Additionals with quantity below 1 are dropped at this boundary.
func (s *TransactionService) CreateIntake(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if len(req.Shoes) == 0 {
		return nil, ErrNoShoes
	}

	catalog, err := s.catalogSvc.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	for i := range req.Shoes {
		for id, qty := range req.Shoes[i].Additionals {
			if qty < 1 {
				delete(req.Shoes[i].Additionals, id)
			}
		}
		if unknown := pricing.UnknownServiceIDs(req.Shoes[i], catalog); len(unknown) > 0 {
			log.Printf("[Transaction] intake references unknown service ids %v, pricing them at 0", unknown)
		}
	}

	rushFee := s.settingRepo.GetFloat(ctx, models.SettingRushFee, DefaultRushFee)
	billTotal := pricing.ComputeBillTotal(req.Shoes, catalog, rushFee)

	total := billTotal
	discount := 0.0
	if req.Discount != nil {
		total, discount = pricing.ApplyDiscount(billTotal, *req.Discount)
	}

	txn := &models.Transaction{
		CustomerID:     req.CustomerID,
		BranchID:       req.BranchID,
		TotalAmount:    total,
		AmountPaid:     0,
		DiscountAmount: discount,
		PaymentStatus:  pricing.StatusNotPaid,
		DateIn:         timeutil.Now(),
	}

	items := make([]*models.LineItem, 0, len(req.Shoes))
	for _, shoe := range req.Shoes {
		services := make([]models.ServiceLine, 0, len(shoe.ServiceIDs)+len(shoe.Additionals))
		for _, id := range shoe.ServiceIDs {
			services = append(services, models.ServiceLine{ServiceID: id, Quantity: 1})
		}
		for id, qty := range shoe.Additionals {
			services = append(services, models.ServiceLine{ServiceID: id, Quantity: qty})
		}
		items = append(items, &models.LineItem{
			Model:         shoe.Model,
			Services:      services,
			Rush:          shoe.Rush,
			CurrentStatus: models.StatusQueued,
		})
	}

	if err := s.txnRepo.CreateWithItems(ctx, txn, items); err != nil {
		return nil, fmt.Errorf("persist intake: %w", err)
	}

	cache.InvalidateTransactionCaches(ctx)
	s.bus.Publish(events.Change{
		EntityType: "transaction",
		EntityID:   txn.ID,
		Kind:       events.ChangeCreated,
		Status:     string(txn.PaymentStatus),
	})
	log.Printf("[Transaction] intake %s: %d items, total %.2f (discount %.2f)", txn.ID, len(items), total, discount)
	return txn, nil
}

// GetDetail loads the transaction with its items and the derived balances.
// The combined balance is the unpaid bill remainder plus accrued storage fees;
// it is what a cashier may collect against.
func (s *TransactionService) GetDetail(ctx context.Context, id string) (*models.TransactionDetail, error) {
	txn, err := s.txnRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.lineItemRepo.ListByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	feeItems := make([]pricing.FeeItem, 0, len(items))
	for _, item := range items {
		feeItems = append(feeItems, item.FeeItem())
	}
	storageFee := pricing.TotalStorageFee(feeItems)
	remaining := txn.RemainingBalance()

	return &models.TransactionDetail{
		Transaction:      txn,
		LineItems:        items,
		StorageFeeTotal:  storageFee,
		RemainingBalance: remaining,
		CombinedBalance:  remaining + storageFee,
	}, nil
}

func (s *TransactionService) ListByCustomer(ctx context.Context, customerID string) ([]*models.Transaction, error) {
	return s.txnRepo.ListByCustomer(ctx, customerID)
}

func (s *TransactionService) ListUnsettled(ctx context.Context, branchID string) ([]*models.Transaction, error) {
	return s.txnRepo.ListUnsettled(ctx, branchID)
}
