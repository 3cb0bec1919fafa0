package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

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

// NodeHandler handles idea tree HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createNodeRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Body     string `json:"body" validate:"max=50000"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// CreateNode publishes a root idea or, when parent_id is set, branches an
// existing one
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	nodeID := uuid.New().String()

	var cmd bus.Command
	if req.ParentID != "" {
		cmd = commands.BranchNodeCommand{
			NodeID:    nodeID,
			CreatorID: accountID,
			ParentID:  req.ParentID,
			Title:     req.Title,
			Body:      req.Body,
		}
	} else {
		cmd = commands.PublishNodeCommand{
			NodeID:    nodeID,
			CreatorID: accountID,
			Title:     req.Title,
			Body:      req.Body,
		}
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{NodeID: nodeID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}

// GetNode returns an idea and its direct children
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	query := queries.GetNodeQuery{NodeID: chi.URLParam(r, "nodeID")}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetFeed returns the newest ideas first
func (h *NodeHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "limit must be an integer")
			return
		}
		limit = parsed
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetFeedQuery{Limit: limit})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteNode removes an idea and its whole subtree
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	accountID, ok := common.GetAccountID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account context")
		return
	}

	cmd := commands.DeleteSubtreeCommand{
		NodeID:  chi.URLParam(r, "nodeID"),
		ActorID: accountID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
