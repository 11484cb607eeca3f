package entities

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
)

// Typing indicator windows. An indicator reads as active for a short
// window after the last keystroke; the sweeper reclaims rows after a
// longer one regardless of the isTyping flag.
const (
	TypingActiveWindow = 5 * time.Second
	TypingSweepCutoff  = 10 * time.Second
)

// UserInfo is the display identity attached to presence records
type UserInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// PresenceRecord is a user's live cursor and selection on a map.
// One record per (userId, mapId), overwritten on each heartbeat and
// deleted on disconnect. Loss on restart is acceptable.
type PresenceRecord struct {
	MapID     valueobjects.MapID    `json:"mapId"`
	UserID    string                `json:"userId"`
	Cursor    valueobjects.Position `json:"cursor"`
	Selection []string              `json:"selection"`
	User      UserInfo              `json:"user"`
	LastSeen  time.Time             `json:"lastSeen"`
}

// NewPresenceRecord creates a presence record stamped now
func NewPresenceRecord(mapID valueobjects.MapID, userID string, cursor valueobjects.Position, selection []string, user UserInfo) PresenceRecord {
	return PresenceRecord{
		MapID:     mapID,
		UserID:    userID,
		Cursor:    cursor,
		Selection: selection,
		User:      user,
		LastSeen:  time.Now(),
	}
}

// TypingIndicator signals that a user is composing input in a group.
// One row per (userId, mapId); stopTyping flips the flag without
// deleting the row.
type TypingIndicator struct {
	MapID        valueobjects.MapID   `json:"mapId"`
	GroupID      valueobjects.GroupID `json:"groupId"`
	UserID       string               `json:"userId"`
	UserName     string               `json:"userName"`
	IsTyping     bool                 `json:"isTyping"`
	LastActivity time.Time            `json:"lastActivity"`
}

// IsActiveFor reports whether the indicator should be shown to the
// given viewer at the given instant: still typing, recent enough, and
// not the viewer's own indicator.
func (t TypingIndicator) IsActiveFor(viewerID string, now time.Time) bool {
	if !t.IsTyping {
		return false
	}
	if t.UserID == viewerID {
		return false
	}
	return now.Sub(t.LastActivity) < TypingActiveWindow
}

// IsSweepable reports whether the row is old enough for the
// background sweep to delete, regardless of the isTyping flag
func (t TypingIndicator) IsSweepable(now time.Time) bool {
	return now.Sub(t.LastActivity) >= TypingSweepCutoff
}
