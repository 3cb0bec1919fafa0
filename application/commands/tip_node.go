package commands

import (
	"context"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	"universe-backend/domain/events"
	pkgerrors "universe-backend/pkg/errors"
)

// TipNodeCommand rewards the creator of an idea. The recipient is never named
// by the caller; it is resolved from the node's creator at execution time.
type TipNodeCommand struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
	SenderID      string `json:"sender_id" validate:"required"`
	NodeID        string `json:"node_id" validate:"required,uuid"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
}

// Validate validates the command
func (cmd TipNodeCommand) Validate() error {
	if cmd.TransactionID == "" {
		return pkgerrors.NewValidationError("transaction ID is required")
	}
	if cmd.SenderID == "" {
		return pkgerrors.NewValidationError("sender ID is required")
	}
	if cmd.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// TipNodeHandler handles the TipNodeCommand
type TipNodeHandler struct {
	accountRepo ports.AccountRepository
	nodeRepo    ports.NodeRepository
	ledgerRepo  ports.LedgerRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewTipNodeHandler creates a new handler instance
func NewTipNodeHandler(
	accountRepo ports.AccountRepository,
	nodeRepo ports.NodeRepository,
	ledgerRepo ports.LedgerRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *TipNodeHandler {
	return &TipNodeHandler{
		accountRepo: accountRepo,
		nodeRepo:    nodeRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the tip node command
func (h *TipNodeHandler) Handle(ctx context.Context, cmd TipNodeCommand) (*entities.Transaction, error) {
	amount, err := valueobjects.NewAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}

	sender, err := h.accountRepo.GetByID(ctx, cmd.SenderID)
	if err != nil {
		return nil, err
	}

	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return nil, err
	}

	node, err := h.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	if node.CreatorID() == sender.ID() {
		return nil, pkgerrors.NewSelfPaymentError("cannot tip your own idea")
	}

	// The creator always has an account; a node cannot outlive its creator
	recipient, err := h.accountRepo.GetByID(ctx, node.CreatorID())
	if err != nil {
		return nil, err
	}

	tx, err := entities.NewTransaction(cmd.TransactionID, sender.ID(), recipient.ID(), amount, entities.KindTip)
	if err != nil {
		return nil, err
	}

	if err := h.ledgerRepo.ApplyTransfer(ctx, tx); err != nil {
		return nil, err
	}

	event := events.NewCoinsMoved(tx.ID(), tx.SenderID(), tx.RecipientID(), amount.Coins(), string(tx.Kind()), tx.Timestamp())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish coins moved event",
			zap.String("transactionID", tx.ID()),
			zap.Error(err),
		)
	}

	h.logger.Info("node tipped",
		zap.String("transactionID", tx.ID()),
		zap.String("nodeID", node.ID().String()),
		zap.String("senderID", tx.SenderID()),
		zap.String("recipientID", tx.RecipientID()),
		zap.Int64("amount", amount.Coins()),
	)

	return tx, nil
}
