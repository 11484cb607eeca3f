package commands

import (
	"errors"

	"insightmap-backend/domain/core/entities"
)

// CreateConnectionCommand draws a typed edge between two groups of a map
type CreateConnectionCommand struct {
	ConnectionID  string `json:"connection_id" validate:"required"`
	MapID         string `json:"map_id" validate:"required"`
	SourceGroupID string `json:"source_group_id" validate:"required"`
	TargetGroupID string `json:"target_group_id" validate:"required"`
	Type          string `json:"type" validate:"required,oneof=related hierarchy dependency contradiction"`
	Label         string `json:"label" validate:"max=200"`
	Strength      int    `json:"strength" validate:"min=0,max=5"`
	UserID        string `json:"user_id" validate:"required"`
	UserName      string `json:"user_name"`
}

// Validate validates the command
func (cmd CreateConnectionCommand) Validate() error {
	if cmd.ConnectionID == "" {
		return errors.New("connection ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.SourceGroupID == "" {
		return errors.New("source group ID is required")
	}
	if cmd.TargetGroupID == "" {
		return errors.New("target group ID is required")
	}
	if !entities.ConnectionType(cmd.Type).IsValid() {
		return errors.New("invalid connection type")
	}
	if cmd.Strength < 0 || cmd.Strength > 5 {
		return errors.New("strength must be between 1 and 5")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// UpdateConnectionCommand edits a connection's type, label or
// strength. Nil fields are left untouched. Only the creator may update.
type UpdateConnectionCommand struct {
	ConnectionID string  `json:"connection_id" validate:"required"`
	MapID        string  `json:"map_id" validate:"required"`
	Type         *string `json:"type,omitempty"`
	Label        *string `json:"label,omitempty"`
	Strength     *int    `json:"strength,omitempty"`
	UserID       string  `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd UpdateConnectionCommand) Validate() error {
	if cmd.ConnectionID == "" {
		return errors.New("connection ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.Type != nil && !entities.ConnectionType(*cmd.Type).IsValid() {
		return errors.New("invalid connection type")
	}
	if cmd.Strength != nil && (*cmd.Strength < 1 || *cmd.Strength > 5) {
		return errors.New("strength must be between 1 and 5")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// DeleteConnectionCommand removes a connection. Only the creator may
// delete.
type DeleteConnectionCommand struct {
	ConnectionID string `json:"connection_id" validate:"required"`
	MapID        string `json:"map_id" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteConnectionCommand) Validate() error {
	if cmd.ConnectionID == "" {
		return errors.New("connection ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
