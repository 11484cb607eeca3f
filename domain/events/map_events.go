package events

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
)

// Map events

// MapCreated is raised when a new affinity map is created
type MapCreated struct {
	BaseEvent
	MapID     valueobjects.MapID `json:"map_id"`
	ProjectID string             `json:"project_id"`
	Name      string             `json:"name"`
	CreatedBy string             `json:"created_by"`
}

// NewMapCreated creates a MapCreated event
func NewMapCreated(mapID valueobjects.MapID, projectID, name, createdBy string, ts time.Time) MapCreated {
	return MapCreated{
		BaseEvent: newBase(mapID.String(), "map.created", ts),
		MapID:     mapID,
		ProjectID: projectID,
		Name:      name,
		CreatedBy: createdBy,
	}
}

// Group events

// GroupCreated is raised when a group is added to a map
type GroupCreated struct {
	BaseEvent
	MapID    valueobjects.MapID    `json:"map_id"`
	GroupID  valueobjects.GroupID  `json:"group_id"`
	Title    string                `json:"title"`
	Position valueobjects.Position `json:"position"`
	ActorID  string                `json:"actor_id"`
}

// NewGroupCreated creates a GroupCreated event
func NewGroupCreated(mapID valueobjects.MapID, groupID valueobjects.GroupID, title string, pos valueobjects.Position, actorID string, ts time.Time) GroupCreated {
	return GroupCreated{
		BaseEvent: newBase(mapID.String(), "map.group_created", ts),
		MapID:     mapID,
		GroupID:   groupID,
		Title:     title,
		Position:  pos,
		ActorID:   actorID,
	}
}

// GroupMoved is raised when a group is repositioned
type GroupMoved struct {
	BaseEvent
	MapID       valueobjects.MapID    `json:"map_id"`
	GroupID     valueobjects.GroupID  `json:"group_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
	ActorID     string                `json:"actor_id"`
}

// NewGroupMoved creates a GroupMoved event
func NewGroupMoved(mapID valueobjects.MapID, groupID valueobjects.GroupID, oldPos, newPos valueobjects.Position, actorID string, ts time.Time) GroupMoved {
	return GroupMoved{
		BaseEvent:   newBase(mapID.String(), "map.group_moved", ts),
		MapID:       mapID,
		GroupID:     groupID,
		OldPosition: oldPos,
		NewPosition: newPos,
		ActorID:     actorID,
	}
}

// GroupRenamed is raised when a group's title changes
type GroupRenamed struct {
	BaseEvent
	MapID    valueobjects.MapID   `json:"map_id"`
	GroupID  valueobjects.GroupID `json:"group_id"`
	OldTitle string               `json:"old_title"`
	NewTitle string               `json:"new_title"`
	ActorID  string               `json:"actor_id"`
}

// NewGroupRenamed creates a GroupRenamed event
func NewGroupRenamed(mapID valueobjects.MapID, groupID valueobjects.GroupID, oldTitle, newTitle, actorID string, ts time.Time) GroupRenamed {
	return GroupRenamed{
		BaseEvent: newBase(mapID.String(), "map.group_renamed", ts),
		MapID:     mapID,
		GroupID:   groupID,
		OldTitle:  oldTitle,
		NewTitle:  newTitle,
		ActorID:   actorID,
	}
}

// GroupRemoved is raised when a group is deleted from a map
type GroupRemoved struct {
	BaseEvent
	MapID   valueobjects.MapID   `json:"map_id"`
	GroupID valueobjects.GroupID `json:"group_id"`
	ActorID string               `json:"actor_id"`
}

// NewGroupRemoved creates a GroupRemoved event
func NewGroupRemoved(mapID valueobjects.MapID, groupID valueobjects.GroupID, actorID string, ts time.Time) GroupRemoved {
	return GroupRemoved{
		BaseEvent: newBase(mapID.String(), "map.group_removed", ts),
		MapID:     mapID,
		GroupID:   groupID,
		ActorID:   actorID,
	}
}

// Insight placement events

// InsightMoved is raised when an insight lands in a group, covering
// both first placement and moves between groups
type InsightMoved struct {
	BaseEvent
	MapID     valueobjects.MapID   `json:"map_id"`
	GroupID   valueobjects.GroupID `json:"group_id"`
	InsightID string               `json:"insight_id"`
	ActorID   string               `json:"actor_id"`
}

// NewInsightMoved creates an InsightMoved event
func NewInsightMoved(mapID valueobjects.MapID, groupID valueobjects.GroupID, insightID, actorID string, ts time.Time) InsightMoved {
	return InsightMoved{
		BaseEvent: newBase(mapID.String(), "map.insight_moved", ts),
		MapID:     mapID,
		GroupID:   groupID,
		InsightID: insightID,
		ActorID:   actorID,
	}
}

// InsightRemoved is raised when an insight is taken off a group
type InsightRemoved struct {
	BaseEvent
	MapID     valueobjects.MapID   `json:"map_id"`
	GroupID   valueobjects.GroupID `json:"group_id"`
	InsightID string               `json:"insight_id"`
	ActorID   string               `json:"actor_id"`
}

// NewInsightRemoved creates an InsightRemoved event
func NewInsightRemoved(mapID valueobjects.MapID, groupID valueobjects.GroupID, insightID, actorID string, ts time.Time) InsightRemoved {
	return InsightRemoved{
		BaseEvent: newBase(mapID.String(), "map.insight_removed", ts),
		MapID:     mapID,
		GroupID:   groupID,
		InsightID: insightID,
		ActorID:   actorID,
	}
}

// Connection events

// ConnectionCreated is raised when two groups are connected
type ConnectionCreated struct {
	BaseEvent
	MapID         valueobjects.MapID   `json:"map_id"`
	ConnectionID  string               `json:"connection_id"`
	SourceGroupID valueobjects.GroupID `json:"source_group_id"`
	TargetGroupID valueobjects.GroupID `json:"target_group_id"`
	Type          string               `json:"type"`
	ActorID       string               `json:"actor_id"`
}

// NewConnectionCreated creates a ConnectionCreated event
func NewConnectionCreated(mapID valueobjects.MapID, connectionID string, source, target valueobjects.GroupID, connType, actorID string, ts time.Time) ConnectionCreated {
	return ConnectionCreated{
		BaseEvent:     newBase(mapID.String(), "map.connection_created", ts),
		MapID:         mapID,
		ConnectionID:  connectionID,
		SourceGroupID: source,
		TargetGroupID: target,
		Type:          connType,
		ActorID:       actorID,
	}
}

// ConnectionDeleted is raised when a connection is removed
type ConnectionDeleted struct {
	BaseEvent
	MapID        valueobjects.MapID `json:"map_id"`
	ConnectionID string             `json:"connection_id"`
	ActorID      string             `json:"actor_id"`
}

// NewConnectionDeleted creates a ConnectionDeleted event
func NewConnectionDeleted(mapID valueobjects.MapID, connectionID, actorID string, ts time.Time) ConnectionDeleted {
	return ConnectionDeleted{
		BaseEvent:    newBase(mapID.String(), "map.connection_deleted", ts),
		MapID:        mapID,
		ConnectionID: connectionID,
		ActorID:      actorID,
	}
}

// Collaboration events

// CommentAdded is raised when a comment is posted on a group
type CommentAdded struct {
	BaseEvent
	MapID     valueobjects.MapID   `json:"map_id"`
	GroupID   valueobjects.GroupID `json:"group_id"`
	CommentID string               `json:"comment_id"`
	ActorID   string               `json:"actor_id"`
	Mentions  []string             `json:"mentions,omitempty"`
}

// NewCommentAdded creates a CommentAdded event
func NewCommentAdded(mapID valueobjects.MapID, groupID valueobjects.GroupID, commentID, actorID string, mentions []string, ts time.Time) CommentAdded {
	return CommentAdded{
		BaseEvent: newBase(mapID.String(), "map.comment_added", ts),
		MapID:     mapID,
		GroupID:   groupID,
		CommentID: commentID,
		ActorID:   actorID,
		Mentions:  mentions,
	}
}
