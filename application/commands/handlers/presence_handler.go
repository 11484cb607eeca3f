package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// PresenceCommandHandler handles the ephemeral collaboration state:
// presence heartbeats and typing indicators. None of it is durable and
// failures to broadcast are swallowed.
type PresenceCommandHandler struct {
	presence ports.PresenceStore
	typing   ports.TypingStore
	notifier ports.Notifier
	logger   *zap.Logger
}

// NewPresenceCommandHandler creates the presence command handler
func NewPresenceCommandHandler(
	presence ports.PresenceStore,
	typing ports.TypingStore,
	notifier ports.Notifier,
	logger *zap.Logger,
) *PresenceCommandHandler {
	return &PresenceCommandHandler{
		presence: presence,
		typing:   typing,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleUpsertPresence refreshes the caller's presence row. A caller
// can only ever write its own row.
func (h *PresenceCommandHandler) HandleUpsertPresence(ctx context.Context, cmd commands.UpsertPresenceCommand) error {
	if cmd.CallerID != cmd.UserID {
		return pkgerrors.NewForbiddenError("Cannot update another user's presence")
	}

	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	record := entities.NewPresenceRecord(mapID, cmd.UserID,
		valueobjects.NewPosition(cmd.CursorX, cmd.CursorY), cmd.Selection, cmd.User)

	if err := h.presence.Upsert(ctx, record); err != nil {
		return pkgerrors.Wrap(err, "failed to upsert presence")
	}

	h.broadcast(ctx, mapID)
	return nil
}

// HandleRemovePresence drops the caller's presence row on disconnect
func (h *PresenceCommandHandler) HandleRemovePresence(ctx context.Context, cmd commands.RemovePresenceCommand) error {
	if cmd.CallerID != cmd.UserID {
		return pkgerrors.NewForbiddenError("Cannot update another user's presence")
	}

	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	if err := h.presence.Remove(ctx, mapID, cmd.UserID); err != nil {
		return pkgerrors.Wrap(err, "failed to remove presence")
	}

	h.broadcast(ctx, mapID)
	return nil
}

// HandleStartTyping marks the caller as typing on a group, refreshing
// the activity timestamp on every keystroke batch
func (h *PresenceCommandHandler) HandleStartTyping(ctx context.Context, cmd commands.StartTypingCommand) error {
	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	indicator := entities.TypingIndicator{
		MapID:        mapID,
		UserID:       cmd.UserID,
		UserName:     cmd.UserName,
		IsTyping:     true,
		LastActivity: time.Now(),
	}
	if cmd.GroupID != "" {
		groupID, err := valueobjects.NewGroupIDFromString(cmd.GroupID)
		if err != nil {
			return pkgerrors.NewValidationError("invalid group ID format")
		}
		indicator.GroupID = groupID
	}

	if err := h.typing.Upsert(ctx, indicator); err != nil {
		return pkgerrors.Wrap(err, "failed to upsert typing indicator")
	}
	return nil
}

// HandleStopTyping flips the caller's typing flag off without deleting
// the row; the background sweep reclaims it later
func (h *PresenceCommandHandler) HandleStopTyping(ctx context.Context, cmd commands.StopTypingCommand) error {
	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	indicator, found, err := h.typing.Get(ctx, mapID, cmd.UserID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load typing indicator")
	}
	if !found {
		return nil
	}

	indicator.IsTyping = false
	indicator.LastActivity = time.Now()
	if err := h.typing.Upsert(ctx, indicator); err != nil {
		return pkgerrors.Wrap(err, "failed to upsert typing indicator")
	}
	return nil
}

func (h *PresenceCommandHandler) broadcast(ctx context.Context, mapID valueobjects.MapID) {
	if err := h.notifier.BroadcastPresence(ctx, mapID); err != nil {
		h.logger.Debug("presence broadcast failed",
			zap.String("mapId", mapID.String()), zap.Error(err))
	}
}
