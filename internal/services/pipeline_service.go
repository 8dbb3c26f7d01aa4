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

var (
	ErrInvalidTransition  = errors.New("transition is not the next pipeline step")
	ErrBalanceOutstanding = errors.New("item cannot be released while a balance remains")
)

// PipelineService moves line items through the operational pipeline one
// step at a time, stamping an event per transition.
type PipelineService struct {
	lineItemRepo *repositories.LineItemRepository
	eventRepo    *repositories.LineItemEventRepository
	txnRepo      *repositories.TransactionRepository
	bus          *events.Bus
}

func NewPipelineService(
	lineItemRepo *repositories.LineItemRepository,
	eventRepo *repositories.LineItemEventRepository,
	txnRepo *repositories.TransactionRepository,
	bus *events.Bus,
) *PipelineService {
	return &PipelineService{
		lineItemRepo: lineItemRepo,
		eventRepo:    eventRepo,
		txnRepo:      txnRepo,
		bus:          bus,
	}
}

// NextStatus returns the pipeline step after current, or "" when current is
// terminal or unknown.
func NextStatus(current models.LineItemStatus) models.LineItemStatus {
	for i, status := range models.PipelineOrder {
		if status == current && i+1 < len(models.PipelineOrder) {
			return models.PipelineOrder[i+1]
		}
	}
	return ""
}

// Transition advances a line item to the requested status. Only the next
// forward step is allowed. Reaching ReadyForPickup stamps the pickup notice
// date that storage-fee accrual counts from. PickedUp additionally requires
// the transaction's combined balance to be exactly zero.
func (s *PipelineService) Transition(ctx context.Context, lineItemID string, to models.LineItemStatus, userID int) (*models.LineItem, error) {
	item, err := s.lineItemRepo.Get(ctx, lineItemID)
	if err != nil {
		return nil, err
	}

	if NextStatus(item.CurrentStatus) != to {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, item.CurrentStatus, to)
	}

	if to == models.StatusPickedUp {
		if err := s.checkReleasable(ctx, item.TransactionID); err != nil {
			return nil, err
		}
	}

	if err := s.lineItemRepo.UpdateStatus(ctx, lineItemID, to); err != nil {
		return nil, err
	}

	if to == models.StatusReadyForPickup {
		if err := s.lineItemRepo.SetPickupNotice(ctx, lineItemID, timeutil.Now()); err != nil {
			log.Printf("[Pipeline] failed to stamp pickup notice on %s: %v", lineItemID, err)
		}
	}

	event := &models.LineItemEvent{
		LineItemID: lineItemID,
		FromStatus: item.CurrentStatus,
		ToStatus:   to,
		UserID:     userID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("[Pipeline] failed to record transition event for %s: %v", lineItemID, err)
	}

	item.CurrentStatus = to
	cache.InvalidateTransactionCaches(ctx)
	s.bus.Publish(events.Change{
		EntityType: "line_item",
		EntityID:   lineItemID,
		Kind:       events.ChangeStatusUpdated,
		Status:     string(to),
	})
	return item, nil
}

// checkReleasable enforces the zero-combined-balance gate on release
func (s *PipelineService) checkReleasable(ctx context.Context, transactionID string) error {
	txn, err := s.txnRepo.Get(ctx, transactionID)
	if err != nil {
		return err
	}
	items, err := s.lineItemRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	feeItems := make([]pricing.FeeItem, 0, len(items))
	for _, li := range items {
		feeItems = append(feeItems, li.FeeItem())
	}
	combined := txn.RemainingBalance() + pricing.TotalStorageFee(feeItems)
	if combined != 0 {
		return fmt.Errorf("%w: %.2f outstanding", ErrBalanceOutstanding, combined)
	}
	return nil
}

// Queue returns the items currently sitting at one pipeline status
func (s *PipelineService) Queue(ctx context.Context, status models.LineItemStatus) ([]*models.LineItem, error) {
	return s.lineItemRepo.ListByStatus(ctx, status)
}

// History returns the transition trail of a line item
func (s *PipelineService) History(ctx context.Context, lineItemID string) ([]*models.LineItemEvent, error) {
	return s.eventRepo.ListByLineItem(ctx, lineItemID)
}

// FeeDiagnostics recomputes the incremental storage fee per line item of a
// transaction. Comparing it with the persisted fees catches a skipped or
// double-applied accrual after a refresh round-trip.
func (s *PipelineService) FeeDiagnostics(ctx context.Context, transactionID string, graceDays int, ratePerDay float64) (*pricing.FeeDiagnostics, error) {
	items, err := s.lineItemRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	feeItems := make([]pricing.FeeItem, 0, len(items))
	for _, li := range items {
		feeItems = append(feeItems, li.FeeItem())
	}
	diag := pricing.ComputeFeeDiagnostics(feeItems, timeutil.Now(), graceDays, ratePerDay)
	return &diag, nil
}

// ClearFees waives all accrued storage fees on a transaction's items
func (s *PipelineService) ClearFees(ctx context.Context, transactionID string) error {
	if err := s.lineItemRepo.ClearStorageFees(ctx, transactionID); err != nil {
		return err
	}
	cache.InvalidateTransactionCaches(ctx)
	log.Printf("[Pipeline] cleared storage fees on transaction %s", transactionID)
	return nil
}

// AccrueStorageFees runs the daily accrual: every item past its pickup
// allowance gets one day's fee added. Intended to be invoked once per day
// in the business timezone.
func (s *PipelineService) AccrueStorageFees(ctx context.Context, graceDays int, ratePerDay float64) (int, error) {
	items, err := s.lineItemRepo.ListAccruable(ctx)
	if err != nil {
		return 0, err
	}

	now := timeutil.Now()
	accrued := 0
	for _, item := range items {
		if item.PickupNoticeDate == nil {
			continue
		}
		allowance := pricing.PickupAllowanceDays(*item.PickupNoticeDate, now, graceDays)
		if allowance >= 0 {
			continue
		}
		if err := s.lineItemRepo.AddStorageFee(ctx, item.ID, ratePerDay); err != nil {
			log.Printf("[Pipeline] fee accrual failed for %s: %v", item.ID, err)
			continue
		}
		accrued++
	}
	if accrued > 0 {
		cache.InvalidateTransactionCaches(ctx)
		log.Printf("[Pipeline] accrued storage fees on %d items", accrued)
	}
	return accrued, nil
}
