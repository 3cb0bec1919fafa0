package commands

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
)

// BranchNodeCommand creates a new idea extending an existing one. The parent
// must exist; branching off a deleted or unknown node fails with not found.
type BranchNodeCommand struct {
	NodeID    string `json:"node_id" validate:"required,uuid"`
	CreatorID string `json:"creator_id" validate:"required"`
	ParentID  string `json:"parent_id" validate:"required,uuid"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Body      string `json:"body" validate:"max=50000"`
}

// Validate validates the command
func (cmd BranchNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	if cmd.CreatorID == "" {
		return pkgerrors.NewValidationError("creator ID is required")
	}
	if cmd.ParentID == "" {
		return pkgerrors.NewValidationError("parent ID is required")
	}
	if cmd.Title == "" {
		return pkgerrors.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(cmd.Title) > MaxTitleLength {
		return pkgerrors.NewValidationError("title exceeds maximum length")
	}
	if utf8.RuneCountInString(cmd.Body) > MaxBodyLength {
		return pkgerrors.NewValidationError("body exceeds maximum length")
	}
	return nil
}

// BranchNodeHandler handles the BranchNodeCommand
type BranchNodeHandler struct {
	nodeRepo    ports.NodeRepository
	accountRepo ports.AccountRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewBranchNodeHandler creates a new handler instance
func NewBranchNodeHandler(
	nodeRepo ports.NodeRepository,
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *BranchNodeHandler {
	return &BranchNodeHandler{
		nodeRepo:    nodeRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the branch node command
func (h *BranchNodeHandler) Handle(ctx context.Context, cmd BranchNodeCommand) (*entities.Node, error) {
	if _, err := h.accountRepo.GetByID(ctx, cmd.CreatorID); err != nil {
		return nil, err
	}

	parentID, err := valueobjects.NewNodeIDFromString(cmd.ParentID)
	if err != nil {
		return nil, err
	}

	// The parent lookup is what keeps the tree closed: a branch can only
	// attach below a node that currently exists.
	parent, err := h.nodeRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewNodeContent(cmd.Title, cmd.Body)
	if err != nil {
		return nil, err
	}

	node, err := entities.NewChildNode(nodeID, cmd.CreatorID, content, parent.ID())
	if err != nil {
		return nil, err
	}

	if err := h.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}

	if err := h.publisher.PublishBatch(ctx, node.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish node events",
			zap.String("nodeID", node.ID().String()),
			zap.Error(err),
		)
	}
	node.MarkEventsAsCommitted()

	h.logger.Info("node branched",
		zap.String("nodeID", node.ID().String()),
		zap.String("parentID", parent.ID().String()),
		zap.String("creatorID", node.CreatorID()),
	)

	return node, nil
}
