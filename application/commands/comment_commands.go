package commands

import "errors"

// AddCommentCommand attaches a comment to a group. Mentions embedded
// in the text fan out user_mentioned notifications.
type AddCommentCommand struct {
	CommentID string `json:"comment_id" validate:"required"`
	MapID     string `json:"map_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	Text      string `json:"text" validate:"required,min=1,max=2000"`
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name"`
}

// Validate validates the command
func (cmd AddCommentCommand) Validate() error {
	if cmd.CommentID == "" {
		return errors.New("comment ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
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

// ResolveCommentCommand marks a comment as resolved
type ResolveCommentCommand struct {
	CommentID string `json:"comment_id" validate:"required"`
	MapID     string `json:"map_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd ResolveCommentCommand) Validate() error {
	if cmd.CommentID == "" {
		return errors.New("comment ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
