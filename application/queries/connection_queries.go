package queries

import "errors"

// GetConnectionsByMapQuery lists all connections of a map
type GetConnectionsByMapQuery struct {
	MapID  string
	UserID string
}

// Validate validates the GetConnectionsByMapQuery
func (q GetConnectionsByMapQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GetConnectionsByGroupQuery lists the connections touching one group
type GetConnectionsByGroupQuery struct {
	MapID   string
	GroupID string
	UserID  string
}

// Validate validates the GetConnectionsByGroupQuery
func (q GetConnectionsByGroupQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.GroupID == "" {
		return errors.New("group ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ConnectionView is the read model of one connection
type ConnectionView struct {
	ID            string `json:"id"`
	MapID         string `json:"mapId"`
	SourceGroupID string `json:"sourceGroupId"`
	TargetGroupID string `json:"targetGroupId"`
	Type          string `json:"type"`
	Label         string `json:"label,omitempty"`
	Strength      int    `json:"strength,omitempty"`
	CreatedBy     string `json:"createdBy"`
	CreatedAt     string `json:"createdAt"`
}

// ConnectionListResult holds a set of connections
type ConnectionListResult struct {
	Connections []ConnectionView `json:"connections"`
}
