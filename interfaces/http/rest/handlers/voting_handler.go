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

// VotingHandler handles dot-voting HTTP requests
type VotingHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewVotingHandler creates a new voting handler
func NewVotingHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *VotingHandler {
	return &VotingHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateVotingSessionRequest represents the request body for opening a
// voting session
type CreateVotingSessionRequest struct {
	MapID    string `json:"mapId" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	MaxVotes int    `json:"maxVotes" validate:"required,min=1,max=100"`
}

// CastVoteRequest represents the request body for casting votes.
// Zero votes retracts the caller's previous allocation on the group.
type CastVoteRequest struct {
	GroupID string `json:"groupId" validate:"required,uuid"`
	Votes   int    `json:"votes" validate:"min=0,max=100"`
}

// CreateSession handles POST /projects/{projectID}/voting-sessions
func (h *VotingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req CreateVotingSessionRequest
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

	sessionID := uuid.New().String()
	cmd := commands.CreateVotingSessionCommand{
		SessionID: sessionID,
		ProjectID: projectID,
		MapID:     req.MapID,
		Name:      req.Name,
		MaxVotes:  req.MaxVotes,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": sessionID})
}

// ListSessions handles GET /projects/{projectID}/voting-sessions
func (h *VotingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListVotingSessionsQuery{
		ProjectID: projectID,
		UserID:    userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// CloseSession handles POST /voting-sessions/{sessionID}/close
func (h *VotingHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.CloseVotingSessionCommand{
		SessionID: sessionID,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Session closed"})
}

// CastVote handles POST /voting-sessions/{sessionID}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req CastVoteRequest
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

	cmd := commands.CastVoteCommand{
		SessionID: sessionID,
		GroupID:   req.GroupID,
		Votes:     req.Votes,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Vote recorded"})
}

// GetResults handles GET /voting-sessions/{sessionID}/results
func (h *VotingHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetVotingResultsQuery{
		SessionID: sessionID,
		UserID:    userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
