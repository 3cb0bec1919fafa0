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

const (
	MaxTitleLength = 200
	MaxBodyLength  = 50000
)

// PublishNodeCommand creates a new root idea, a fresh trunk in the tree
type PublishNodeCommand struct {
	NodeID    string `json:"node_id" validate:"required,uuid"`
	CreatorID string `json:"creator_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Body      string `json:"body" validate:"max=50000"`
}

// Validate validates the command
func (cmd PublishNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	if cmd.CreatorID == "" {
		return pkgerrors.NewValidationError("creator ID is required")
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

// PublishNodeHandler handles the PublishNodeCommand
type PublishNodeHandler struct {
	nodeRepo    ports.NodeRepository
	accountRepo ports.AccountRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewPublishNodeHandler creates a new handler instance
func NewPublishNodeHandler(
	nodeRepo ports.NodeRepository,
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *PublishNodeHandler {
	return &PublishNodeHandler{
		nodeRepo:    nodeRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the publish node command
func (h *PublishNodeHandler) Handle(ctx context.Context, cmd PublishNodeCommand) (*entities.Node, error) {
	if _, err := h.accountRepo.GetByID(ctx, cmd.CreatorID); err != nil {
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

	node, err := entities.NewRootNode(nodeID, cmd.CreatorID, content)
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

	h.logger.Info("node published",
		zap.String("nodeID", node.ID().String()),
		zap.String("creatorID", node.CreatorID()),
	)

	return node, nil
}
