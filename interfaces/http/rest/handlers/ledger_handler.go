package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"universe-backend/application/commands"
	"universe-backend/application/commands/bus"
	"universe-backend/application/queries"
	querybus "universe-backend/application/queries/bus"
	"universe-backend/pkg/common"
	"universe-backend/pkg/utils"
)

// LedgerHandler handles coin movement HTTP requests
type LedgerHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *LedgerHandler {
	return &LedgerHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createTransferRequest struct {
	RecipientUsername string `json:"recipient_username" validate:"required,min=1,max=150"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
}

type transferResponse struct {
	TransactionID string `json:"transaction_id"`
}

// CreateTransfer moves coins from the caller to the named recipient
func (h *LedgerHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	cmd := commands.TransferCoinsCommand{
		TransactionID:     uuid.New().String(),
		SenderID:          accountID,
		RecipientUsername: req.RecipientUsername,
		Amount:            req.Amount,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, transferResponse{TransactionID: cmd.TransactionID})
}

type tipNodeRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// TipNode rewards the creator of an idea. The recipient is resolved from the
// node, never named by the caller.
func (h *LedgerHandler) TipNode(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	var req tipNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	cmd := commands.TipNodeCommand{
		TransactionID: uuid.New().String(),
		SenderID:      accountID,
		NodeID:        chi.URLParam(r, "nodeID"),
		Amount:        req.Amount,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, transferResponse{TransactionID: cmd.TransactionID})
}

// ListTransactions returns the caller's ledger history, newest first
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListTransactionsQuery{AccountID: accountID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
