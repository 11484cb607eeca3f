package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/commands/bus"
	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
)

// PresenceHandler handles live-presence and typing HTTP requests
type PresenceHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *PresenceHandler {
	return &PresenceHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// UpsertPresenceRequest represents the heartbeat body
type UpsertPresenceRequest struct {
	CursorX   float64  `json:"cursorX"`
	CursorY   float64  `json:"cursorY"`
	Selection []string `json:"selection"`
}

// StartTypingRequest represents the request body for a typing signal
type StartTypingRequest struct {
	GroupID string `json:"groupId"`
}

// UpsertPresence handles PUT /maps/{mapID}/presence
func (h *PresenceHandler) UpsertPresence(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req UpsertPresenceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.UpsertPresenceCommand{
		MapID:     mapID,
		UserID:    userCtx.UserID,
		CursorX:   req.CursorX,
		CursorY:   req.CursorY,
		Selection: req.Selection,
		User: entities.UserInfo{
			ID:     userCtx.UserID,
			Name:   userCtx.Name,
			Avatar: userCtx.Avatar,
		},
		CallerID: userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Presence updated"})
}

// RemovePresence handles DELETE /maps/{mapID}/presence/{userID}
func (h *PresenceHandler) RemovePresence(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	userID := chi.URLParam(r, "userID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.RemovePresenceCommand{
		MapID:    mapID,
		UserID:   userID,
		CallerID: userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Presence removed"})
}

// GetPresence handles GET /maps/{mapID}/presence
func (h *PresenceHandler) GetPresence(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetPresenceQuery{
		MapID:  mapID,
		UserID: userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// StartTyping handles POST /maps/{mapID}/typing/start
func (h *PresenceHandler) StartTyping(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req StartTypingRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.StartTypingCommand{
		MapID:    mapID,
		GroupID:  req.GroupID,
		UserID:   userCtx.UserID,
		UserName: userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Typing started"})
}

// StopTyping handles POST /maps/{mapID}/typing/stop
func (h *PresenceHandler) StopTyping(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.StopTypingCommand{
		MapID:  mapID,
		UserID: userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Typing stopped"})
}

// GetTypingUsers handles GET /maps/{mapID}/typing
func (h *PresenceHandler) GetTypingUsers(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTypingUsersQuery{
		MapID:   mapID,
		GroupID: r.URL.Query().Get("groupId"),
		UserID:  userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
