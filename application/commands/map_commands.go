// Package commands defines the write operations of the workspace and
// their shape-level validation. Identifier fields for new entities
// are pre-generated by the caller so they are known before dispatch.
package commands

import (
	"errors"

	"insightmap-backend/domain/core/aggregates"
)

const (
	MaxNameLength  = 200
	MaxTitleLength = 200
)

// CreateMapCommand creates a new current map for a project, demoting
// every other map of the project
type CreateMapCommand struct {
	MapID     string `json:"map_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name"`
}

// Validate validates the command
func (cmd CreateMapCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	if len(cmd.Name) > MaxNameLength {
		return errors.New("name exceeds maximum length")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// AddGroupCommand appends a new empty group to a map
type AddGroupCommand struct {
	MapID    string  `json:"map_id" validate:"required"`
	GroupID  string  `json:"group_id" validate:"required"`
	Title    string  `json:"title" validate:"required,min=1,max=200"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	UserID   string  `json:"user_id" validate:"required"`
	UserName string  `json:"user_name"`
}

// Validate validates the command
func (cmd AddGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// MoveGroupCommand repositions a group on the canvas
type MoveGroupCommand struct {
	MapID    string  `json:"map_id" validate:"required"`
	GroupID  string  `json:"group_id" validate:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	UserID   string  `json:"user_id" validate:"required"`
	UserName string  `json:"user_name"`
}

// Validate validates the command
func (cmd MoveGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// RenameGroupCommand changes a group's title
type RenameGroupCommand struct {
	MapID    string `json:"map_id" validate:"required"`
	GroupID  string `json:"group_id" validate:"required"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	UserID   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name"`
}

// Validate validates the command
func (cmd RenameGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// RemoveGroupCommand deletes a group and its connections
type RemoveGroupCommand struct {
	MapID    string `json:"map_id" validate:"required"`
	GroupID  string `json:"group_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name"`
}

// Validate validates the command
func (cmd RemoveGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// AddInsightToGroupCommand places an insight in a group, moving it
// out of any group that currently holds it
type AddInsightToGroupCommand struct {
	MapID     string `json:"map_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	InsightID string `json:"insight_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name"`
}

// Validate validates the command
func (cmd AddInsightToGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.InsightID == "" {
		return errors.New("insight ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// RemoveInsightFromGroupCommand takes an insight off a group
type RemoveInsightFromGroupCommand struct {
	MapID     string `json:"map_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	InsightID string `json:"insight_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name"`
}

// Validate validates the command
func (cmd RemoveInsightFromGroupCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.InsightID == "" {
		return errors.New("insight ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ReorderInsightsCommand replaces a group's insight order wholesale.
// The list must contain exactly the ids currently in the group.
type ReorderInsightsCommand struct {
	MapID      string   `json:"map_id" validate:"required"`
	GroupID    string   `json:"group_id" validate:"required"`
	InsightIDs []string `json:"insight_ids" validate:"required"`
	UserID     string   `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd ReorderInsightsCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.InsightIDs == nil {
		return errors.New("insight IDs are required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ReplaceAllGroupsCommand overwrites the whole group list, used by
// undo/redo to restore a history snapshot
type ReplaceAllGroupsCommand struct {
	MapID  string             `json:"map_id" validate:"required"`
	Groups []aggregates.Group `json:"groups"`
	UserID string             `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd ReplaceAllGroupsCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// CreateIndependentInsightCommand creates a manual insight plus a
// fresh single-insight note group at the given position, in one
// mutation against the map
type CreateIndependentInsightCommand struct {
	MapID     string  `json:"map_id" validate:"required"`
	InsightID string  `json:"insight_id" validate:"required"`
	GroupID   string  `json:"group_id" validate:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=pain-point quote insight follow-up custom"`
	UserID    string  `json:"user_id" validate:"required"`
	UserName  string  `json:"user_name"`
}

// Validate validates the command
func (cmd CreateIndependentInsightCommand) Validate() error {
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.InsightID == "" {
		return errors.New("insight ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.Text == "" {
		return errors.New("text is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
