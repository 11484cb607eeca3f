package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// ConnectionQueryHandler serves connection reads
type ConnectionQueryHandler struct {
	connections ports.ConnectionRepository
	maps        ports.MapRepository
	projects    ports.ProjectRepository
	logger      *zap.Logger
}

// NewConnectionQueryHandler creates the connection query handler
func NewConnectionQueryHandler(
	connections ports.ConnectionRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *ConnectionQueryHandler {
	return &ConnectionQueryHandler{
		connections: connections,
		maps:        maps,
		projects:    projects,
		logger:      logger,
	}
}

// HandleGetConnectionsByMap lists all connections of a map
func (h *ConnectionQueryHandler) HandleGetConnectionsByMap(ctx context.Context, query queries.GetConnectionsByMapQuery) (*queries.ConnectionListResult, error) {
	mapID, err := h.authorizeMap(ctx, query.MapID, query.UserID)
	if err != nil {
		return nil, err
	}

	conns, err := h.connections.GetByMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return connectionsToResult(conns), nil
}

// HandleGetConnectionsByGroup lists the connections touching one group
func (h *ConnectionQueryHandler) HandleGetConnectionsByGroup(ctx context.Context, query queries.GetConnectionsByGroupQuery) (*queries.ConnectionListResult, error) {
	mapID, err := h.authorizeMap(ctx, query.MapID, query.UserID)
	if err != nil {
		return nil, err
	}

	groupID, err := valueobjects.NewGroupIDFromString(query.GroupID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid group ID format")
	}

	conns, err := h.connections.GetByGroup(ctx, mapID, groupID)
	if err != nil {
		return nil, err
	}
	return connectionsToResult(conns), nil
}

func (h *ConnectionQueryHandler) authorizeMap(ctx context.Context, rawMapID, userID string) (valueobjects.MapID, error) {
	mapID, err := valueobjects.NewMapIDFromString(rawMapID)
	if err != nil {
		return valueobjects.MapID{}, pkgerrors.NewValidationError("invalid map ID format")
	}

	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return valueobjects.MapID{}, err
	}
	if err := authorizeRead(ctx, h.projects, m.ProjectID(), userID); err != nil {
		return valueobjects.MapID{}, err
	}
	return mapID, nil
}

func connectionsToResult(conns []*entities.Connection) *queries.ConnectionListResult {
	result := &queries.ConnectionListResult{Connections: make([]queries.ConnectionView, 0, len(conns))}
	for _, c := range conns {
		result.Connections = append(result.Connections, queries.ConnectionView{
			ID:            c.ID(),
			MapID:         c.MapID().String(),
			SourceGroupID: c.SourceGroupID().String(),
			TargetGroupID: c.TargetGroupID().String(),
			Type:          string(c.Type()),
			Label:         c.Label(),
			Strength:      c.Strength(),
			CreatedBy:     c.CreatedBy(),
			CreatedAt:     c.CreatedAt().Format(time.RFC3339),
		})
	}
	return result
}
