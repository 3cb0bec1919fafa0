package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/application/queries"
)

// ListTransactionsHandler handles ledger history queries
type ListTransactionsHandler struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	logger      *zap.Logger
}

// NewListTransactionsHandler creates a new ledger history handler
func NewListTransactionsHandler(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	logger *zap.Logger,
) *ListTransactionsHandler {
	return &ListTransactionsHandler{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

// Handle executes the ledger history query
func (h *ListTransactionsHandler) Handle(ctx context.Context, query queries.ListTransactionsQuery) (*queries.ListTransactionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	if _, err := h.accountRepo.GetByID(ctx, query.AccountID); err != nil {
		return nil, err
	}

	txs, err := h.ledgerRepo.GetByAccount(ctx, query.AccountID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}

	return &queries.ListTransactionsResult{
		Transactions: views,
		Total:        len(views),
	}, nil
}
