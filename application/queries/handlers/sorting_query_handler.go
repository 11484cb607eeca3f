package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// SortingQueryHandler serves the active sorting session for a map
type SortingQueryHandler struct {
	sorting  ports.SortingRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewSortingQueryHandler creates the sorting query handler
func NewSortingQueryHandler(
	sorting ports.SortingRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *SortingQueryHandler {
	return &SortingQueryHandler{
		sorting:  sorting,
		maps:     maps,
		projects: projects,
		logger:   logger,
	}
}

// Handle returns the map's non-completed session, or a nil Session
// when no round is running
func (h *SortingQueryHandler) Handle(ctx context.Context, query queries.GetSortingSessionQuery) (*queries.SortingSessionResult, error) {
	mapID, err := valueobjects.NewMapIDFromString(query.MapID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid map ID format")
	}

	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, h.projects, m.ProjectID(), query.UserID); err != nil {
		return nil, err
	}

	session, err := h.sorting.GetActiveByMap(ctx, mapID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return &queries.SortingSessionResult{}, nil
		}
		return nil, err
	}

	rules := session.Rules()
	return &queries.SortingSessionResult{
		Session: &queries.SortingSessionView{
			ID:            session.ID(),
			MapID:         session.MapID().String(),
			Phase:         string(session.Phase()),
			Duration:      session.DurationMinutes(),
			TimeRemaining: session.TimeRemaining(),
			Participants:  session.Participants(),
			Rules: queries.Rules{
				NoTalking:          rules.NoTalking,
				IndependentSorting: rules.IndependentSorting,
				MoveFreely:         rules.MoveFreely,
				CreateGroups:       rules.CreateGroups,
			},
			StartedBy: session.StartedBy(),
			StartedAt: session.StartedAt().Format(time.RFC3339),
		},
	}, nil
}
