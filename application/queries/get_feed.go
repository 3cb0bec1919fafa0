package queries

import pkgerrors "universe-backend/pkg/errors"

// MaxFeedLimit bounds how many nodes a single feed page can return
const MaxFeedLimit = 100

// GetFeedQuery represents a query for the global feed of ideas, newest first
type GetFeedQuery struct {
	Limit int
}

// Validate validates the GetFeedQuery
func (q GetFeedQuery) Validate() error {
	if q.Limit < 0 {
		return pkgerrors.NewValidationError("limit cannot be negative")
	}
	if q.Limit > MaxFeedLimit {
		return pkgerrors.NewValidationError("limit exceeds maximum page size")
	}
	return nil
}

// GetFeedResult represents the feed page
type GetFeedResult struct {
	Nodes []NodeView `json:"nodes"`
	Total int        `json:"total"`
}
