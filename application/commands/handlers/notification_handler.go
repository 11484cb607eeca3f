package handlers

import (
	"context"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	pkgerrors "insightmap-backend/pkg/errors"
)

// NotificationCommandHandler handles notification state changes
type NotificationCommandHandler struct {
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationCommandHandler creates the notification command handler
func NewNotificationCommandHandler(notifications ports.NotificationRepository, logger *zap.Logger) *NotificationCommandHandler {
	return &NotificationCommandHandler{notifications: notifications, logger: logger}
}

// HandleMarkRead marks a notification as read. The repository scopes
// the write to the caller so users cannot touch each other's rows.
func (h *NotificationCommandHandler) HandleMarkRead(ctx context.Context, cmd commands.MarkNotificationReadCommand) error {
	if err := h.notifications.MarkRead(ctx, cmd.NotificationID, cmd.UserID); err != nil {
		return pkgerrors.Wrap(err, "failed to mark notification read")
	}
	return nil
}
