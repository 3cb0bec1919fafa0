package queries

import pkgerrors "universe-backend/pkg/errors"

// GetNodeQuery represents a query for a single idea and its direct children
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// GetNodeResult carries the node detail view. Children are in creation
// order, oldest first.
type GetNodeResult struct {
	Node     NodeView   `json:"node"`
	Children []NodeView `json:"children"`
}
