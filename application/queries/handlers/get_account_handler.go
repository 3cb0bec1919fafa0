package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/application/queries"
	"universe-backend/domain/core/entities"
)

// GetAccountHandler handles account summary queries
type GetAccountHandler struct {
	accountRepo ports.AccountRepository
	nodeRepo    ports.NodeRepository
	logger      *zap.Logger
}

// NewGetAccountHandler creates a new account summary handler
func NewGetAccountHandler(
	accountRepo ports.AccountRepository,
	nodeRepo ports.NodeRepository,
	logger *zap.Logger,
) *GetAccountHandler {
	return &GetAccountHandler{
		accountRepo: accountRepo,
		nodeRepo:    nodeRepo,
		logger:      logger,
	}
}

// Handle executes the account summary query
func (h *GetAccountHandler) Handle(ctx context.Context, query queries.GetAccountQuery) (*queries.GetAccountResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	var account *entities.Account
	var err error
	if query.AccountID != "" {
		account, err = h.accountRepo.GetByID(ctx, query.AccountID)
	} else {
		account, err = h.accountRepo.GetByUsername(ctx, query.Username)
	}
	if err != nil {
		return nil, err
	}

	nodes, err := h.nodeRepo.GetByCreator(ctx, account.ID())
	if err != nil {
		return nil, err
	}

	return &queries.GetAccountResult{
		Account: toAccountView(account),
		Nodes:   toNodeViews(nodes),
	}, nil
}
