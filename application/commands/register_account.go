package commands

import (
	"context"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/events"
	pkgerrors "universe-backend/pkg/errors"
)

// RegisterAccountCommand provisions the account record for a principal the
// identity provider has already authenticated. Registration is idempotent:
// re-registering an existing account is a no-op.
type RegisterAccountCommand struct {
	AccountID string `json:"account_id" validate:"required"`
	Username  string `json:"username" validate:"required,min=1,max=150"`
}

// Validate validates the command
func (cmd RegisterAccountCommand) Validate() error {
	if cmd.AccountID == "" {
		return pkgerrors.NewValidationError("account ID is required")
	}
	if cmd.Username == "" {
		return pkgerrors.NewValidationError("username is required")
	}
	if len(cmd.Username) > 150 {
		return pkgerrors.NewValidationError("username exceeds maximum length")
	}
	return nil
}

// RegisterAccountHandler handles the RegisterAccountCommand
type RegisterAccountHandler struct {
	accountRepo ports.AccountRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewRegisterAccountHandler creates a new handler instance
func NewRegisterAccountHandler(
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		accountRepo: accountRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the register account command
func (h *RegisterAccountHandler) Handle(ctx context.Context, cmd RegisterAccountCommand) (*entities.Account, error) {
	existing, err := h.accountRepo.GetByID(ctx, cmd.AccountID)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	// Usernames are unique across the world
	if _, err := h.accountRepo.GetByUsername(ctx, cmd.Username); err == nil {
		return nil, pkgerrors.NewConflictError("username already taken: " + cmd.Username)
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	account, err := entities.NewAccount(cmd.AccountID, cmd.Username)
	if err != nil {
		return nil, err
	}

	if err := h.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	event := events.NewAccountRegistered(account.ID(), account.Username(), account.CreatedAt())
	if err := h.publisher.Publish(ctx, event); err != nil {
		// Events are best effort; the account record is already durable
		h.logger.Warn("failed to publish account registered event",
			zap.String("accountID", account.ID()),
			zap.Error(err),
		)
	}

	h.logger.Info("account registered",
		zap.String("accountID", account.ID()),
		zap.String("username", account.Username()),
	)

	return account, nil
}
