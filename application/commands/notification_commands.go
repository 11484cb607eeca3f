package commands

import "errors"

// MarkNotificationReadCommand marks one of the caller's notifications
// as read
type MarkNotificationReadCommand struct {
	NotificationID string `json:"notification_id" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd MarkNotificationReadCommand) Validate() error {
	if cmd.NotificationID == "" {
		return errors.New("notification ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
