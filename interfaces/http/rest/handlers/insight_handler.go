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

// InsightHandler handles insight HTTP requests
type InsightHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *InsightHandler {
	return &InsightHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateInsightRequest represents the request body for creating a
// manual insight
type CreateInsightRequest struct {
	Type string `json:"type" validate:"required,oneof=pain-point quote insight follow-up custom"`
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// CreateInsight handles POST /projects/{projectID}/insights
func (h *InsightHandler) CreateInsight(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req CreateInsightRequest
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

	insightID := uuid.New().String()
	cmd := commands.CreateManualInsightCommand{
		InsightID: insightID,
		ProjectID: projectID,
		Type:      req.Type,
		Text:      req.Text,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": insightID})
}

// ListInsights handles GET /projects/{projectID}/insights
func (h *InsightHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListInsightsQuery{
		ProjectID:   projectID,
		InterviewID: r.URL.Query().Get("interviewId"),
		Page:        params.Page,
		PageSize:    params.PageSize,
		UserID:      userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteInsight handles DELETE /insights/{insightID}
func (h *InsightHandler) DeleteInsight(w http.ResponseWriter, r *http.Request) {
	insightID := chi.URLParam(r, "insightID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.DeleteInsightCommand{
		InsightID: insightID,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Insight deleted"})
}
