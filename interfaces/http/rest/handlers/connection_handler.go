package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/commands/bus"
	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
	"insightmap-backend/pkg/utils"
)

// ConnectionHandler handles typed-connection HTTP requests
type ConnectionHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateConnectionRequest represents the request body for creating a
// connection
type CreateConnectionRequest struct {
	SourceGroupID string `json:"sourceGroupId" validate:"required,uuid"`
	TargetGroupID string `json:"targetGroupId" validate:"required,uuid"`
	Type          string `json:"type" validate:"required,oneof=related hierarchy dependency contradiction"`
	Label         string `json:"label" validate:"max=200"`
	Strength      int    `json:"strength" validate:"min=0,max=5"`
}

// UpdateConnectionRequest represents the request body for updating a
// connection. Absent fields are left unchanged.
type UpdateConnectionRequest struct {
	Type     *string `json:"type,omitempty" validate:"omitempty,oneof=related hierarchy dependency contradiction"`
	Label    *string `json:"label,omitempty" validate:"omitempty,max=200"`
	Strength *int    `json:"strength,omitempty" validate:"omitempty,min=1,max=5"`
}

// CreateConnection handles POST /maps/{mapID}/connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req CreateConnectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	connectionID := uuid.New().String()
	cmd := commands.CreateConnectionCommand{
		ConnectionID:  connectionID,
		MapID:         mapID,
		SourceGroupID: req.SourceGroupID,
		TargetGroupID: req.TargetGroupID,
		Type:          req.Type,
		Label:         req.Label,
		Strength:      req.Strength,
		UserID:        userCtx.UserID,
		UserName:      userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create connection",
			zap.String("mapID", mapID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": connectionID})
}

// UpdateConnection handles PUT /maps/{mapID}/connections/{connectionID}
func (h *ConnectionHandler) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	connectionID := chi.URLParam(r, "connectionID")

	var req UpdateConnectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.UpdateConnectionCommand{
		ConnectionID: connectionID,
		MapID:        mapID,
		Type:         req.Type,
		Label:        req.Label,
		Strength:     req.Strength,
		UserID:       userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Connection updated"})
}

// DeleteConnection handles DELETE /maps/{mapID}/connections/{connectionID}
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	connectionID := chi.URLParam(r, "connectionID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.DeleteConnectionCommand{
		ConnectionID: connectionID,
		MapID:        mapID,
		UserID:       userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Connection deleted"})
}

// ListConnections handles GET /maps/{mapID}/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetConnectionsByMapQuery{
		MapID:  mapID,
		UserID: userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListGroupConnections handles GET /maps/{mapID}/groups/{groupID}/connections
func (h *ConnectionHandler) ListGroupConnections(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetConnectionsByGroupQuery{
		MapID:   mapID,
		GroupID: groupID,
		UserID:  userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
