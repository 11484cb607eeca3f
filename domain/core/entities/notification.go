package entities

import (
	"fmt"
	"time"

	"insightmap-backend/domain/core/valueobjects"
)

// Notification is a per-member record produced by the activity
// fan-out. Each carries a deep link back to the affected group.
type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	RelatedID   string    `json:"relatedId"`
	RelatedType string    `json:"relatedType"`
	ActionURL   string    `json:"actionUrl"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GroupFocusURL builds the deep link that opens the affinity canvas
// focused on a specific group
func GroupFocusURL(projectID string, groupID valueobjects.GroupID) string {
	return fmt.Sprintf("/project/%s/affinity?focus=%s", projectID, groupID.String())
}

// NewGroupNotification creates a notification pointing at a group
func NewGroupNotification(userID, notifType, title, message, projectID string, groupID valueobjects.GroupID) Notification {
	return Notification{
		ID:          valueobjects.NewID(),
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		RelatedID:   groupID.String(),
		RelatedType: "group",
		ActionURL:   GroupFocusURL(projectID, groupID),
		CreatedAt:   time.Now(),
	}
}
