package queries

import "errors"

// Default and maximum page of the activity feed
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

// GetActivityQuery fetches the most recent activity of a map
type GetActivityQuery struct {
	MapID  string
	Limit  int
	UserID string
}

// Validate validates the GetActivityQuery
func (q GetActivityQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.Limit < 0 || q.Limit > MaxActivityLimit {
		return errors.New("limit out of range")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ActivityView is the read model of one activity entry
type ActivityView struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Action     string `json:"action"`
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName"`
	Details    string `json:"details,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// ActivityFeedResult holds activity entries, most recent first
type ActivityFeedResult struct {
	Entries []ActivityView `json:"entries"`
}

// GetNotificationsQuery fetches the caller's notifications
type GetNotificationsQuery struct {
	UserID string
	Limit  int
}

// Validate validates the GetNotificationsQuery
func (q GetNotificationsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Limit < 0 || q.Limit > MaxActivityLimit {
		return errors.New("limit out of range")
	}
	return nil
}

// NotificationView is the read model of one notification
type NotificationView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ActionURL   string `json:"actionUrl"`
	RelatedType string `json:"relatedType"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"createdAt"`
}

// NotificationListResult holds a user's notifications
type NotificationListResult struct {
	Notifications []NotificationView `json:"notifications"`
}
