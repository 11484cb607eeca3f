package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
)

// ActivityHandler serves the per-map activity feed
type ActivityHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetActivity handles GET /maps/{mapID}/activity
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid limit")
			return
		}
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetActivityQuery{
		MapID:  mapID,
		Limit:  limit,
		UserID: userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
