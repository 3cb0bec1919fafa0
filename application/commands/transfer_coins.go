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

// TransferCoinsCommand moves coins from the sender to another account
// addressed by username. The debit, the credit and the ledger record commit
// together or not at all.
type TransferCoinsCommand struct {
	TransactionID     string `json:"transaction_id" validate:"required,uuid"`
	SenderID          string `json:"sender_id" validate:"required"`
	RecipientUsername string `json:"recipient_username" validate:"required"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
}

// Validate validates the command
func (cmd TransferCoinsCommand) Validate() error {
	if cmd.TransactionID == "" {
		return pkgerrors.NewValidationError("transaction ID is required")
	}
	if cmd.SenderID == "" {
		return pkgerrors.NewValidationError("sender ID is required")
	}
	if cmd.RecipientUsername == "" {
		return pkgerrors.NewValidationError("recipient username is required")
	}
	return nil
}

// TransferCoinsHandler handles the TransferCoinsCommand
type TransferCoinsHandler struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewTransferCoinsHandler creates a new handler instance
func NewTransferCoinsHandler(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *TransferCoinsHandler {
	return &TransferCoinsHandler{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the transfer coins command
func (h *TransferCoinsHandler) Handle(ctx context.Context, cmd TransferCoinsCommand) (*entities.Transaction, error) {
	amount, err := valueobjects.NewAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}

	sender, err := h.accountRepo.GetByID(ctx, cmd.SenderID)
	if err != nil {
		return nil, err
	}

	recipient, err := h.accountRepo.GetByUsername(ctx, cmd.RecipientUsername)
	if err != nil {
		return nil, err
	}

	if sender.ID() == recipient.ID() {
		return nil, pkgerrors.NewSelfPaymentError("cannot transfer coins to yourself")
	}

	tx, err := entities.NewTransaction(cmd.TransactionID, sender.ID(), recipient.ID(), amount, entities.KindTransfer)
	if err != nil {
		return nil, err
	}

	// All-or-nothing: the repository rejects the whole movement when the
	// sender's live balance does not cover it
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

	h.logger.Info("coins transferred",
		zap.String("transactionID", tx.ID()),
		zap.String("senderID", tx.SenderID()),
		zap.String("recipientID", tx.RecipientID()),
		zap.Int64("amount", amount.Coins()),
	)

	return tx, nil
}
