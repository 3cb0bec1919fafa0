// Package memory provides in-memory repository implementations used for
// local development and tests. They honor the same contracts as the
// DynamoDB implementations, including the atomic transfer semantics.
package memory

import (
	"context"
	"sync"

	"universe-backend/domain/core/entities"
	pkgerrors "universe-backend/pkg/errors"
)

// AccountRepository is an in-memory implementation of ports.AccountRepository
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*entities.Account
	byName   map[string]string // username -> account ID
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*entities.Account),
		byName:   make(map[string]string),
	}
}

// Save persists an account, replacing any existing record. The username
// index check happens under the same lock as the write, so two racing saves
// can never both claim the same name.
func (r *AccountRepository) Save(ctx context.Context, account *entities.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ownerID, ok := r.byName[account.Username()]; ok && ownerID != account.ID() {
		return pkgerrors.NewConflictError("username already taken: " + account.Username())
	}

	if prev, ok := r.accounts[account.ID()]; ok && prev.Username() != account.Username() {
		delete(r.byName, prev.Username())
	}

	copied, err := cloneAccount(account)
	if err != nil {
		return err
	}
	r.accounts[account.ID()] = copied
	r.byName[account.Username()] = account.ID()
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("account")
	}
	return cloneAccount(account)
}

// GetByUsername retrieves an account by its unique username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("account")
	}
	return cloneAccount(r.accounts[id])
}

// Exists reports whether an account with the given ID is present
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[id]
	return ok, nil
}

// transferBalances debits the sender and credits the recipient under a single
// lock so concurrent transfers cannot interleave between the balance check
// and the writes. Both balances change or neither does.
func (r *AccountRepository) transferBalances(senderID, recipientID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.accounts[senderID]
	if !ok {
		return pkgerrors.NewNotFoundError("account")
	}
	recipient, ok := r.accounts[recipientID]
	if !ok {
		return pkgerrors.NewNotFoundError("account")
	}

	if err := sender.AdjustBalance(-amount); err != nil {
		return err
	}
	if err := recipient.AdjustBalance(amount); err != nil {
		// undo the debit; the movement must be all-or-nothing
		sender.AdjustBalance(amount)
		return err
	}
	return nil
}

func cloneAccount(account *entities.Account) (*entities.Account, error) {
	return entities.ReconstructAccount(
		account.ID(),
		account.Username(),
		account.Coins(),
		account.Level(),
		account.Bio(),
		account.CreatedAt(),
		account.UpdatedAt(),
	)
}
