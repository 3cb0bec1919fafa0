package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/application/queries"
	"universe-backend/domain/core/valueobjects"
)

// GetNodeHandler handles single node detail queries
type GetNodeHandler struct {
	nodeRepo ports.NodeRepository
	logger   *zap.Logger
}

// NewGetNodeHandler creates a new node detail handler
func NewGetNodeHandler(nodeRepo ports.NodeRepository, logger *zap.Logger) *GetNodeHandler {
	return &GetNodeHandler{
		nodeRepo: nodeRepo,
		logger:   logger,
	}
}

// Handle executes the node detail query
func (h *GetNodeHandler) Handle(ctx context.Context, query queries.GetNodeQuery) (*queries.GetNodeResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(query.NodeID)
	if err != nil {
		return nil, err
	}

	node, err := h.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	children, err := h.nodeRepo.GetChildren(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	return &queries.GetNodeResult{
		Node:     toNodeView(node),
		Children: toNodeViews(children),
	}, nil
}
