package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/application/queries"
)

// GetFeedHandler handles global feed queries
type GetFeedHandler struct {
	nodeRepo ports.NodeRepository
	logger   *zap.Logger
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(nodeRepo ports.NodeRepository, logger *zap.Logger) *GetFeedHandler {
	return &GetFeedHandler{
		nodeRepo: nodeRepo,
		logger:   logger,
	}
}

// Handle executes the feed query
func (h *GetFeedHandler) Handle(ctx context.Context, query queries.GetFeedQuery) (*queries.GetFeedResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	nodes, err := h.nodeRepo.GetFeed(ctx, query.Limit)
	if err != nil {
		return nil, err
	}

	return &queries.GetFeedResult{
		Nodes: toNodeViews(nodes),
		Total: len(nodes),
	}, nil
}
