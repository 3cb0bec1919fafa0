package queries

import pkgerrors "universe-backend/pkg/errors"

// GetAccountQuery represents a query for an account summary. Exactly one of
// AccountID or Username must be set.
type GetAccountQuery struct {
	AccountID string
	Username  string
}

// Validate validates the GetAccountQuery
func (q GetAccountQuery) Validate() error {
	if q.AccountID == "" && q.Username == "" {
		return pkgerrors.NewValidationError("account ID or username is required")
	}
	if q.AccountID != "" && q.Username != "" {
		return pkgerrors.NewValidationError("account ID and username are mutually exclusive")
	}
	return nil
}

// GetAccountResult carries the account summary together with the account's
// published ideas, newest first
type GetAccountResult struct {
	Account AccountView `json:"account"`
	Nodes   []NodeView  `json:"nodes"`
}
