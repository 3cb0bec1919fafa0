package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"universe-backend/application/commands"
	"universe-backend/application/commands/bus"
	"universe-backend/application/queries"
	querybus "universe-backend/application/queries/bus"
	"universe-backend/pkg/common"
	"universe-backend/pkg/utils"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type registerAccountRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
}

// RegisterAccount provisions the account record for the authenticated
// principal. New accounts start with the registration grant of coins.
func (h *AccountHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	var req registerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	cmd := commands.RegisterAccountCommand{
		AccountID: accountID,
		Username:  req.Username,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetAccountQuery{AccountID: accountID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}

// GetAccount returns an account summary with its published ideas. Accepts
// either a path account ID or a ?username= lookup on the collection route.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	query := queries.GetAccountQuery{
		AccountID: chi.URLParam(r, "accountID"),
		Username:  r.URL.Query().Get("username"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetMe returns the caller's own account summary
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetAccountQuery{AccountID: accountID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
