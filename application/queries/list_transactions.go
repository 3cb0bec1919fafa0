package queries

import pkgerrors "universe-backend/pkg/errors"

// ListTransactionsQuery represents a query for an account's ledger history,
// every movement where the account was sender or recipient
type ListTransactionsQuery struct {
	AccountID string
}

// Validate validates the ListTransactionsQuery
func (q ListTransactionsQuery) Validate() error {
	if q.AccountID == "" {
		return pkgerrors.NewValidationError("account ID is required")
	}
	return nil
}

// ListTransactionsResult carries the ledger history, newest first
type ListTransactionsResult struct {
	Transactions []TransactionView `json:"transactions"`
	Total        int               `json:"total"`
}
