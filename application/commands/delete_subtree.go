package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/valueobjects"
	"universe-backend/domain/events"
	pkgerrors "universe-backend/pkg/errors"
)

// DeleteSubtreeCommand removes a node and every descendant below it. The
// delete is explicit and cascading: orphaned children are never left behind.
type DeleteSubtreeCommand struct {
	NodeID  string `json:"node_id" validate:"required,uuid"`
	ActorID string `json:"actor_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteSubtreeCommand) Validate() error {
	if cmd.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	if cmd.ActorID == "" {
		return pkgerrors.NewValidationError("actor ID is required")
	}
	return nil
}

// DeleteSubtreeHandler handles the DeleteSubtreeCommand
type DeleteSubtreeHandler struct {
	nodeRepo  ports.NodeRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteSubtreeHandler creates a new handler instance
func NewDeleteSubtreeHandler(
	nodeRepo ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteSubtreeHandler {
	return &DeleteSubtreeHandler{
		nodeRepo:  nodeRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the delete subtree command
func (h *DeleteSubtreeHandler) Handle(ctx context.Context, cmd DeleteSubtreeCommand) error {
	rootID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	root, err := h.nodeRepo.GetByID(ctx, rootID)
	if err != nil {
		return err
	}

	// Only the creator may prune their idea, descendants included even when
	// other accounts branched them
	if root.CreatorID() != cmd.ActorID {
		return pkgerrors.NewForbiddenError("only the creator can delete a node")
	}

	ids, err := h.collectSubtree(ctx, rootID)
	if err != nil {
		return err
	}

	if err := h.nodeRepo.DeleteBatch(ctx, ids); err != nil {
		return err
	}

	event := events.NewSubtreeDeleted(rootID, len(ids), cmd.ActorID, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish subtree deleted event",
			zap.String("nodeID", rootID.String()),
			zap.Error(err),
		)
	}

	h.logger.Info("subtree deleted",
		zap.String("nodeID", rootID.String()),
		zap.Int("deletedCount", len(ids)),
		zap.String("actorID", cmd.ActorID),
	)

	return nil
}

// collectSubtree walks the tree breadth-first from the root and returns every
// node ID in the subtree, root included
func (h *DeleteSubtreeHandler) collectSubtree(ctx context.Context, rootID valueobjects.NodeID) ([]valueobjects.NodeID, error) {
	ids := []valueobjects.NodeID{rootID}
	frontier := []valueobjects.NodeID{rootID}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		children, err := h.nodeRepo.GetChildren(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			ids = append(ids, child.ID())
			frontier = append(frontier, child.ID())
		}
	}

	return ids, nil
}
