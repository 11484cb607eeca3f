package queries

import "errors"

// GetCommentsQuery fetches the comments of a map, optionally narrowed
// to one group
type GetCommentsQuery struct {
	MapID   string
	GroupID string
	UserID  string
}

// Validate validates the GetCommentsQuery
func (q GetCommentsQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// CommentView is the read model of one comment
type CommentView struct {
	ID        string   `json:"id"`
	GroupID   string   `json:"groupId"`
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	Text      string   `json:"text"`
	Mentions  []string `json:"mentions,omitempty"`
	Resolved  bool     `json:"resolved"`
	CreatedAt string   `json:"createdAt"`
}

// CommentListResult holds a map's or group's comments
type CommentListResult struct {
	Comments []CommentView `json:"comments"`
}
