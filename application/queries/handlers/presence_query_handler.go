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

// PresenceQueryHandler serves the live collaboration reads. Both
// reads exclude the viewer's own rows; typing indicators are filtered
// down to the short active window.
type PresenceQueryHandler struct {
	presence ports.PresenceStore
	typing   ports.TypingStore
	logger   *zap.Logger
}

// NewPresenceQueryHandler creates the presence query handler
func NewPresenceQueryHandler(presence ports.PresenceStore, typing ports.TypingStore, logger *zap.Logger) *PresenceQueryHandler {
	return &PresenceQueryHandler{presence: presence, typing: typing, logger: logger}
}

// HandleGetPresence lists who else is live on the map
func (h *PresenceQueryHandler) HandleGetPresence(ctx context.Context, query queries.GetPresenceQuery) (*queries.PresenceListResult, error) {
	mapID, err := valueobjects.NewMapIDFromString(query.MapID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid map ID format")
	}

	records, err := h.presence.GetByMap(ctx, mapID, query.UserID)
	if err != nil {
		return nil, err
	}

	result := &queries.PresenceListResult{Users: make([]queries.PresenceView, 0, len(records))}
	for _, r := range records {
		result.Users = append(result.Users, queries.PresenceView{
			UserID:    r.UserID,
			Name:      r.User.Name,
			Avatar:    r.User.Avatar,
			Cursor:    queries.Position{X: r.Cursor.X, Y: r.Cursor.Y},
			Selection: r.Selection,
			LastSeen:  r.LastSeen.Format(time.RFC3339),
		})
	}
	return result, nil
}

// HandleGetTypingUsers lists the indicators that read as active from
// the viewer's perspective right now
func (h *PresenceQueryHandler) HandleGetTypingUsers(ctx context.Context, query queries.GetTypingUsersQuery) (*queries.TypingUsersResult, error) {
	mapID, err := valueobjects.NewMapIDFromString(query.MapID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid map ID format")
	}

	indicators, err := h.typing.GetByMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &queries.TypingUsersResult{Users: []queries.TypingUserView{}}
	for _, ind := range indicators {
		if !ind.IsActiveFor(query.UserID, now) {
			continue
		}
		if query.GroupID != "" && ind.GroupID.String() != query.GroupID {
			continue
		}
		view := queries.TypingUserView{UserID: ind.UserID, UserName: ind.UserName}
		if !ind.GroupID.IsZero() {
			view.GroupID = ind.GroupID.String()
		}
		result.Users = append(result.Users, view)
	}
	return result, nil
}
