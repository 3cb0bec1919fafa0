package memory

import (
	"context"
	"sort"
	"sync"

	"universe-backend/domain/core/entities"
	pkgerrors "universe-backend/pkg/errors"
)

// LedgerRepository is an in-memory implementation of ports.LedgerRepository.
// It shares the account repository so a transfer can move balances and
// append the record as one operation.
type LedgerRepository struct {
	accounts *AccountRepository

	mu      sync.RWMutex
	records []*entities.Transaction
	byID    map[string]*entities.Transaction
}

// NewLedgerRepository creates an in-memory ledger bound to an account
// repository
func NewLedgerRepository(accounts *AccountRepository) *LedgerRepository {
	return &LedgerRepository{
		accounts: accounts,
		byID:     make(map[string]*entities.Transaction),
	}
}

// ApplyTransfer atomically debits the sender, credits the recipient and
// appends the record. A failed debit leaves balances and the ledger
// untouched.
func (r *LedgerRepository) ApplyTransfer(ctx context.Context, tx *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[tx.ID()]; exists {
		return pkgerrors.NewConflictError("transaction already recorded: " + tx.ID())
	}

	if err := r.accounts.transferBalances(tx.SenderID(), tx.RecipientID(), tx.Amount().Coins()); err != nil {
		return err
	}

	r.records = append(r.records, tx)
	r.byID[tx.ID()] = tx
	return nil
}

// GetByAccount retrieves every movement touching the account, newest first
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID string) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*entities.Transaction{}
	for _, tx := range r.records {
		if tx.SenderID() == accountID || tx.RecipientID() == accountID {
			matched = append(matched, tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp().After(matched[j].Timestamp())
	})
	return matched, nil
}

// GetByID retrieves a single transaction record
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("transaction")
	}
	return tx, nil
}
