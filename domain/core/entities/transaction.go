package entities

import (
	"time"

	"github.com/google/uuid"

	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
)

// TransactionKind distinguishes how a value movement was initiated
type TransactionKind string

const (
	// KindTransfer is a direct account-to-account transfer
	KindTransfer TransactionKind = "transfer"

	// KindTip is a transfer whose recipient was resolved from a node's creator
	KindTip TransactionKind = "tip"
)

// Transaction is the immutable record of one completed coin movement.
// Records are append-only: once created they are never mutated or deleted.
type Transaction struct {
	id          string
	senderID    string
	recipientID string
	amount      valueobjects.Amount
	kind        TransactionKind
	timestamp   time.Time
}

// NewTransaction creates a transaction record for a movement that is about to
// be applied. The amount is strictly positive by construction of Amount. An
// empty id gets a generated one.
func NewTransaction(id, senderID, recipientID string, amount valueobjects.Amount, kind TransactionKind) (*Transaction, error) {
	if senderID == "" {
		return nil, pkgerrors.NewValidationError("sender ID cannot be empty")
	}
	if recipientID == "" {
		return nil, pkgerrors.NewValidationError("recipient ID cannot be empty")
	}
	if amount.IsZero() {
		return nil, pkgerrors.NewInvalidAmountError(0)
	}
	if id == "" {
		id = uuid.New().String()
	}

	return &Transaction{
		id:          id,
		senderID:    senderID,
		recipientID: recipientID,
		amount:      amount,
		kind:        kind,
		timestamp:   time.Now(),
	}, nil
}

// ReconstructTransaction reconstructs a transaction from repository data
func ReconstructTransaction(id, senderID, recipientID string, amount valueobjects.Amount, kind TransactionKind, timestamp time.Time) (*Transaction, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("transaction ID cannot be empty")
	}
	if amount.IsZero() {
		return nil, pkgerrors.NewInvalidAmountError(0)
	}

	return &Transaction{
		id:          id,
		senderID:    senderID,
		recipientID: recipientID,
		amount:      amount,
		kind:        kind,
		timestamp:   timestamp,
	}, nil
}

// ID returns the transaction's unique identifier
func (t *Transaction) ID() string {
	return t.id
}

// SenderID returns the debited account
func (t *Transaction) SenderID() string {
	return t.senderID
}

// RecipientID returns the credited account
func (t *Transaction) RecipientID() string {
	return t.recipientID
}

// Amount returns the number of coins moved
func (t *Transaction) Amount() valueobjects.Amount {
	return t.amount
}

// Kind returns how the movement was initiated
func (t *Transaction) Kind() TransactionKind {
	return t.kind
}

// Timestamp returns when the movement was committed
func (t *Transaction) Timestamp() time.Time {
	return t.timestamp
}
