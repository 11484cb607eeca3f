package entities

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// ActivityAction enumerates the user-visible actions recorded per map
type ActivityAction string

const (
	ActionGroupCreated   ActivityAction = "group_created"
	ActionGroupMoved     ActivityAction = "group_moved"
	ActionGroupRenamed   ActivityAction = "group_renamed"
	ActionGroupDeleted   ActivityAction = "group_deleted"
	ActionInsightAdded   ActivityAction = "insight_added"
	ActionInsightRemoved ActivityAction = "insight_removed"
	ActionInsightMoved   ActivityAction = "insight_moved"
	ActionCommentAdded   ActivityAction = "comment_added"
	ActionUserMentioned  ActivityAction = "user_mentioned"
)

// IsValid reports whether the action is one of the closed set
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionGroupCreated, ActionGroupMoved, ActionGroupRenamed, ActionGroupDeleted,
		ActionInsightAdded, ActionInsightRemoved, ActionInsightMoved,
		ActionCommentAdded, ActionUserMentioned:
		return true
	}
	return false
}

// notifiableActions are the actions that additionally fan out
// notifications to the other project members
var notifiableActions = map[ActivityAction]bool{
	ActionGroupCreated:  true,
	ActionCommentAdded:  true,
	ActionInsightMoved:  true,
	ActionUserMentioned: true,
}

// Notifies reports whether the action triggers notification fan-out
func (a ActivityAction) Notifies() bool {
	return notifiableActions[a]
}

// ActivityEntry is one append-only audit record of a mutation against
// a map. Entries are never updated or deleted.
type ActivityEntry struct {
	id         string
	mapID      valueobjects.MapID
	userID     string
	userName   string
	action     ActivityAction
	targetID   string
	targetName string
	details    string
	timestamp  time.Time
}

// NewActivityEntry creates an activity record
func NewActivityEntry(mapID valueobjects.MapID, userID, userName string, action ActivityAction, targetID, targetName, details string) (*ActivityEntry, error) {
	if mapID.IsZero() {
		return nil, pkgerrors.NewValidationError("mapID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if !action.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid activity action")
	}

	return &ActivityEntry{
		id:         valueobjects.NewID(),
		mapID:      mapID,
		userID:     userID,
		userName:   userName,
		action:     action,
		targetID:   targetID,
		targetName: targetName,
		details:    details,
		timestamp:  time.Now(),
	}, nil
}

// ReconstructActivityEntry rebuilds an entry from repository data
func ReconstructActivityEntry(id string, mapID valueobjects.MapID, userID, userName string, action ActivityAction, targetID, targetName, details string, timestamp time.Time) *ActivityEntry {
	return &ActivityEntry{
		id:         id,
		mapID:      mapID,
		userID:     userID,
		userName:   userName,
		action:     action,
		targetID:   targetID,
		targetName: targetName,
		details:    details,
		timestamp:  timestamp,
	}
}

func (e *ActivityEntry) ID() string                { return e.id }
func (e *ActivityEntry) MapID() valueobjects.MapID { return e.mapID }
func (e *ActivityEntry) UserID() string            { return e.userID }
func (e *ActivityEntry) UserName() string          { return e.userName }
func (e *ActivityEntry) Action() ActivityAction    { return e.action }
func (e *ActivityEntry) TargetID() string          { return e.targetID }
func (e *ActivityEntry) TargetName() string        { return e.targetName }
func (e *ActivityEntry) Details() string           { return e.details }
func (e *ActivityEntry) Timestamp() time.Time      { return e.timestamp }
