package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
)

// AnalyticsHandler serves cluster, recommendation and density reads
type AnalyticsHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetMapAnalytics handles GET /maps/{mapID}/analytics
func (h *AnalyticsHandler) GetMapAnalytics(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMapAnalyticsQuery{
		MapID:  mapID,
		UserID: userCtx.UserID,
	})
	if err != nil {
		h.logger.Error("Failed to compute map analytics",
			zap.String("mapID", mapID),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
