// Package handlers contains the query handlers. Reads are authorized
// against project membership and return flat DTOs from the queries
// package.
package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// MapQueryHandler serves map reads
type MapQueryHandler struct {
	maps     ports.MapRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewMapQueryHandler creates the map query handler
func NewMapQueryHandler(maps ports.MapRepository, projects ports.ProjectRepository, logger *zap.Logger) *MapQueryHandler {
	return &MapQueryHandler{maps: maps, projects: projects, logger: logger}
}

// HandleGetMap fetches one map by id
func (h *MapQueryHandler) HandleGetMap(ctx context.Context, query queries.GetMapQuery) (*queries.MapResult, error) {
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

	return mapToResult(m), nil
}

// HandleGetCurrentMap fetches the project's current map
func (h *MapQueryHandler) HandleGetCurrentMap(ctx context.Context, query queries.GetCurrentMapQuery) (*queries.MapResult, error) {
	if err := authorizeRead(ctx, h.projects, query.ProjectID, query.UserID); err != nil {
		return nil, err
	}

	m, err := h.maps.GetCurrent(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}
	return mapToResult(m), nil
}

// HandleListMaps lists a project's maps, current first then most
// recently updated
func (h *MapQueryHandler) HandleListMaps(ctx context.Context, query queries.ListMapsQuery) (*queries.ListMapsResult, error) {
	if err := authorizeRead(ctx, h.projects, query.ProjectID, query.UserID); err != nil {
		return nil, err
	}

	maps, err := h.maps.GetByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}

	result := &queries.ListMapsResult{Maps: make([]queries.MapSummary, 0, len(maps))}
	for _, m := range maps {
		summary := queries.MapSummary{
			ID:         m.ID().String(),
			Name:       m.Name(),
			IsCurrent:  m.IsCurrent(),
			GroupCount: m.GroupCount(),
			CreatedAt:  m.CreatedAt().Format(time.RFC3339),
			UpdatedAt:  m.UpdatedAt().Format(time.RFC3339),
		}
		if m.IsCurrent() {
			result.Maps = append([]queries.MapSummary{summary}, result.Maps...)
		} else {
			result.Maps = append(result.Maps, summary)
		}
	}
	return result, nil
}

func mapToResult(m *aggregates.AffinityMap) *queries.MapResult {
	groups := m.Groups()
	views := make([]queries.GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, queries.GroupView{
			ID:         g.ID.String(),
			Title:      g.Title,
			Color:      g.Color,
			Position:   queries.Position{X: g.Position.X, Y: g.Position.Y},
			InsightIDs: g.InsightIDs,
		})
	}

	return &queries.MapResult{
		ID:        m.ID().String(),
		ProjectID: m.ProjectID(),
		Name:      m.Name(),
		Version:   m.Version(),
		IsCurrent: m.IsCurrent(),
		Groups:    views,
		CreatedBy: m.CreatedBy(),
		CreatedAt: m.CreatedAt().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt().Format(time.RFC3339),
	}
}

// authorizeRead checks that the caller belongs to the project
func authorizeRead(ctx context.Context, projects ports.ProjectRepository, projectID, userID string) error {
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsMember(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}
