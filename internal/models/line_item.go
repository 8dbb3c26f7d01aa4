package models

import (
	"time"

	"solecare-backend/internal/pricing"
)

// LineItemStatus is the operational pipeline state of a single pair
type LineItemStatus string

const (
	StatusQueued                 LineItemStatus = "Queued"
	StatusReadyForDelivery       LineItemStatus = "ReadyForDelivery"
	StatusIncomingBranchDelivery LineItemStatus = "IncomingBranchDelivery"
	StatusInProcess              LineItemStatus = "InProcess"
	StatusReturningToBranch      LineItemStatus = "ReturningToBranch"
	StatusToPack                 LineItemStatus = "ToPack"
	StatusReadyForPickup         LineItemStatus = "ReadyForPickup"
	StatusPickedUp               LineItemStatus = "PickedUp"
)

// PipelineOrder is the forward order of the operational pipeline.
// PickedUp is terminal and reachable only at zero combined balance.
var PipelineOrder = []LineItemStatus{
	StatusQueued,
	StatusReadyForDelivery,
	StatusIncomingBranchDelivery,
	StatusInProcess,
	StatusReturningToBranch,
	StatusToPack,
	StatusReadyForPickup,
	StatusPickedUp,
}

// ServiceLine is one service applied to a line item
type ServiceLine struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type LineItem struct {
	ID               string         `json:"id"`
	TransactionID    string         `json:"transaction_id"`
	Model            string         `json:"model"`
	Services         []ServiceLine  `json:"services"`
	Rush             bool           `json:"rush"`
	CurrentStatus    LineItemStatus `json:"current_status"`
	StorageFee       float64        `json:"storage_fee"`
	PickupNoticeDate *time.Time     `json:"pickup_notice_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FeeItem converts to the pricing package's storage-fee shape
func (li *LineItem) FeeItem() pricing.FeeItem {
	return pricing.FeeItem{
		ID:               li.ID,
		PickupNoticeDate: li.PickupNoticeDate,
		StorageFee:       li.StorageFee,
	}
}

// LineItemEvent records a pipeline transition timestamp
type LineItemEvent struct {
	ID         int            `json:"id"`
	LineItemID string         `json:"line_item_id"`
	FromStatus LineItemStatus `json:"from_status"`
	ToStatus   LineItemStatus `json:"to_status"`
	UserID     int            `json:"user_id"`
	CreatedAt  time.Time      `json:"created_at"`
}

type TransitionRequest struct {
	ToStatus LineItemStatus `json:"to_status"`
}
