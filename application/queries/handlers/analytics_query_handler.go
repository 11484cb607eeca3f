package handlers

import (
	"context"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/application/services"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// AnalyticsQueryHandler serves the map analytics read: clusters,
// connection suggestions and graph metrics over one snapshot
type AnalyticsQueryHandler struct {
	maps        ports.MapRepository
	connections ports.ConnectionRepository
	projects    ports.ProjectRepository
	analytics   *services.AnalyticsService
	logger      *zap.Logger
}

// NewAnalyticsQueryHandler creates the analytics query handler
func NewAnalyticsQueryHandler(
	maps ports.MapRepository,
	connections ports.ConnectionRepository,
	projects ports.ProjectRepository,
	analytics *services.AnalyticsService,
	logger *zap.Logger,
) *AnalyticsQueryHandler {
	return &AnalyticsQueryHandler{
		maps:        maps,
		connections: connections,
		projects:    projects,
		analytics:   analytics,
		logger:      logger,
	}
}

// Handle computes all analytics from a single load of the map and its
// connections, so the three results are consistent with each other
func (h *AnalyticsQueryHandler) Handle(ctx context.Context, query queries.GetMapAnalyticsQuery) (*queries.GetMapAnalyticsResult, error) {
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

	conns, err := h.connections.GetByMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	groups := m.Groups()
	placed := 0
	for _, g := range groups {
		placed += len(g.InsightIDs)
	}

	result := &queries.GetMapAnalyticsResult{
		GroupCount:         len(groups),
		PlacedInsightCount: placed,
		Clusters:           h.analytics.DetectClusters(groups, conns),
		Recommendations:    h.analytics.RecommendConnections(groups, conns),
		Metrics:            h.analytics.ComputeConnectionMetrics(groups, conns),
	}

	h.logger.Debug("map analytics computed",
		zap.String("mapId", query.MapID),
		zap.Int("groups", result.GroupCount),
		zap.Int("clusters", len(result.Clusters)),
		zap.Int("recommendations", len(result.Recommendations)))

	return result, nil
}
