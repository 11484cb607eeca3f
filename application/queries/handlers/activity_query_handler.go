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

// ActivityQueryHandler serves the activity feed and the caller's
// notification list
type ActivityQueryHandler struct {
	activities    ports.ActivityRepository
	notifications ports.NotificationRepository
	maps          ports.MapRepository
	projects      ports.ProjectRepository
	logger        *zap.Logger
}

// NewActivityQueryHandler creates the activity query handler
func NewActivityQueryHandler(
	activities ports.ActivityRepository,
	notifications ports.NotificationRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *ActivityQueryHandler {
	return &ActivityQueryHandler{
		activities:    activities,
		notifications: notifications,
		maps:          maps,
		projects:      projects,
		logger:        logger,
	}
}

// HandleGetActivity returns a map's activity, most recent first
func (h *ActivityQueryHandler) HandleGetActivity(ctx context.Context, query queries.GetActivityQuery) (*queries.ActivityFeedResult, error) {
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

	limit := query.Limit
	if limit == 0 {
		limit = queries.DefaultActivityLimit
	}

	entries, err := h.activities.GetByMap(ctx, mapID, limit)
	if err != nil {
		return nil, err
	}

	result := &queries.ActivityFeedResult{Entries: make([]queries.ActivityView, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, queries.ActivityView{
			ID:         e.ID(),
			UserID:     e.UserID(),
			UserName:   e.UserName(),
			Action:     string(e.Action()),
			TargetID:   e.TargetID(),
			TargetName: e.TargetName(),
			Details:    e.Details(),
			Timestamp:  e.Timestamp().Format(time.RFC3339),
		})
	}
	return result, nil
}

// HandleGetNotifications returns the caller's notifications, most
// recent first
func (h *ActivityQueryHandler) HandleGetNotifications(ctx context.Context, query queries.GetNotificationsQuery) (*queries.NotificationListResult, error) {
	limit := query.Limit
	if limit == 0 {
		limit = queries.DefaultActivityLimit
	}

	notifs, err := h.notifications.GetByUser(ctx, query.UserID, limit)
	if err != nil {
		return nil, err
	}

	result := &queries.NotificationListResult{Notifications: make([]queries.NotificationView, 0, len(notifs))}
	for _, n := range notifs {
		result.Notifications = append(result.Notifications, queries.NotificationView{
			ID:          n.ID,
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			ActionURL:   n.ActionURL,
			RelatedType: n.RelatedType,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
