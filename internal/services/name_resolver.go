package services

import (
	"context"

	"solecare-backend/internal/cache"
	"solecare-backend/internal/repositories"
)

// NameResolver memoizes customer and branch display names for queue views.
// The injected Store replaces per-view mutable maps so the memo is shared
// across requests and bounded in size. A failed lookup yields an empty name
// rather than an error; queue rows render without it.
type NameResolver struct {
	txnRepo      *repositories.TransactionRepository
	customerRepo *repositories.CustomerRepository
	branchRepo   *repositories.BranchRepository
	store        cache.Store
}

func NewNameResolver(
	txnRepo *repositories.TransactionRepository,
	customerRepo *repositories.CustomerRepository,
	branchRepo *repositories.BranchRepository,
	store cache.Store,
) *NameResolver {
	return &NameResolver{
		txnRepo:      txnRepo,
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		store:        store,
	}
}

// CustomerNameForTransaction resolves the owning customer's name for a
// transaction, memoized per transaction id.
func (r *NameResolver) CustomerNameForTransaction(ctx context.Context, transactionID string) string {
	key := "txncust:" + transactionID
	if name, ok := r.store.Get(key); ok {
		return name
	}

	txn, err := r.txnRepo.Get(ctx, transactionID)
	if err != nil {
		return ""
	}
	customer, err := r.customerRepo.Get(ctx, txn.CustomerID)
	if err != nil {
		return ""
	}
	r.store.Set(key, customer.Name)
	return customer.Name
}

// BranchName resolves a branch's display name, memoized per branch id
func (r *NameResolver) BranchName(ctx context.Context, branchID string) string {
	key := "branch:" + branchID
	if name, ok := r.store.Get(key); ok {
		return name
	}

	branch, err := r.branchRepo.Get(ctx, branchID)
	if err != nil {
		return ""
	}
	r.store.Set(key, branch.DisplayName)
	return branch.DisplayName
}
