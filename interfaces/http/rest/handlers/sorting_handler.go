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

// SortingHandler handles silent-sorting session HTTP requests
type SortingHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewSortingHandler creates a new sorting handler
func NewSortingHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *SortingHandler {
	return &SortingHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// StartSortingSessionRequest represents the request body for starting
// a silent round. Duration is in minutes.
type StartSortingSessionRequest struct {
	Duration     int      `json:"duration" validate:"required,min=1,max=180"`
	Participants []string `json:"participants"`
}

// UpdateSortingPhaseRequest represents the request body for a phase
// change
type UpdateSortingPhaseRequest struct {
	Phase string `json:"phase" validate:"required,oneof=preparation idle sorting discussion completed"`
}

// UpdateSortingTimerRequest represents the request body for a
// countdown tick
type UpdateSortingTimerRequest struct {
	TimeRemaining int `json:"timeRemaining" validate:"min=0"`
}

// StartSession handles POST /maps/{mapID}/sorting-sessions
func (h *SortingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req StartSortingSessionRequest
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
	cmd := commands.StartSortingSessionCommand{
		SessionID:    sessionID,
		MapID:        mapID,
		Duration:     req.Duration,
		Participants: req.Participants,
		UserID:       userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": sessionID})
}

// GetActiveSession handles GET /maps/{mapID}/sorting-sessions/active
func (h *SortingHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetSortingSessionQuery{
		MapID:  mapID,
		UserID: userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdatePhase handles PUT /sorting-sessions/{sessionID}/phase
func (h *SortingHandler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req UpdateSortingPhaseRequest
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

	cmd := commands.UpdateSortingPhaseCommand{
		SessionID: sessionID,
		Phase:     req.Phase,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Phase updated"})
}

// UpdateTimer handles PUT /sorting-sessions/{sessionID}/timer
func (h *SortingHandler) UpdateTimer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req UpdateSortingTimerRequest
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

	cmd := commands.UpdateSortingTimerCommand{
		SessionID:     sessionID,
		TimeRemaining: req.TimeRemaining,
		UserID:        userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Timer updated"})
}
