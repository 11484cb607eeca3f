package commands

import (
	"errors"

	"insightmap-backend/domain/core/entities"
)

// UpsertPresenceCommand refreshes the caller's live presence on a map.
// CallerID comes from the authenticated request and must match UserID.
type UpsertPresenceCommand struct {
	MapID     string            `json:"map_id" validate:"required"`
	UserID    string            `json:"user_id" validate:"required"`
	CursorX   float64           `json:"cursor_x"`
	CursorY   float64           `json:"cursor_y"`
	Selection []string          `json:"selection"`
	User      entities.UserInfo `json:"user"`
	CallerID  string            `json:"-"`
}

// Validate validates the command
func (cmd UpsertPresenceCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CallerID == "" {
		return errors.New("caller ID is required")
	}
	return nil
}

// RemovePresenceCommand drops the caller's presence row, typically on
// disconnect
type RemovePresenceCommand struct {
	MapID    string `json:"map_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	CallerID string `json:"-"`
}

// Validate validates the command
func (cmd RemovePresenceCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.CallerID == "" {
		return errors.New("caller ID is required")
	}
	return nil
}

// StartTypingCommand marks the caller as typing on a group
type StartTypingCommand struct {
	MapID    string `json:"map_id" validate:"required"`
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name"`
}

// Validate validates the command
func (cmd StartTypingCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// StopTypingCommand clears the caller's typing flag
type StopTypingCommand struct {
	MapID  string `json:"map_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd StopTypingCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
