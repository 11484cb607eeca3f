package queries

import "errors"

// GetPresenceQuery lists who else is live on a map
type GetPresenceQuery struct {
	MapID  string
	UserID string
}

// Validate validates the GetPresenceQuery
func (q GetPresenceQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// PresenceView is the read model of one collaborator's presence
type PresenceView struct {
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar,omitempty"`
	Cursor    Position `json:"cursor"`
	Selection []string `json:"selection,omitempty"`
	LastSeen  string   `json:"lastSeen"`
}

// PresenceListResult holds the live collaborators, viewer excluded
type PresenceListResult struct {
	Users []PresenceView `json:"users"`
}

// GetTypingUsersQuery lists who is typing on a map right now, from the
// viewer's perspective. GroupID optionally narrows to one group.
type GetTypingUsersQuery struct {
	MapID   string
	GroupID string
	UserID  string
}

// Validate validates the GetTypingUsersQuery
func (q GetTypingUsersQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// TypingUserView is the read model of one active typing indicator
type TypingUserView struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	GroupID  string `json:"groupId,omitempty"`
}

// TypingUsersResult holds the active typers, viewer excluded
type TypingUsersResult struct {
	Users []TypingUserView `json:"users"`
}
