package entities

import (
	"regexp"
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// Comment is a discussion entry attached to a group on a map
type Comment struct {
	id        string
	mapID     valueobjects.MapID
	groupID   valueobjects.GroupID
	userID    string
	userName  string
	text      string
	resolved  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewComment creates a comment with validation. An empty id gets a
// fresh one.
func NewComment(id string, mapID valueobjects.MapID, groupID valueobjects.GroupID, userID, userName, text string) (*Comment, error) {
	if id == "" {
		id = valueobjects.NewID()
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewValidationError("mapID cannot be empty")
	}
	if groupID.IsZero() {
		return nil, pkgerrors.NewValidationError("groupID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if text == "" {
		return nil, pkgerrors.NewValidationError("text cannot be empty")
	}

	now := time.Now()
	return &Comment{
		id:        id,
		mapID:     mapID,
		groupID:   groupID,
		userID:    userID,
		userName:  userName,
		text:      text,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructComment rebuilds a comment from repository data
func ReconstructComment(id string, mapID valueobjects.MapID, groupID valueobjects.GroupID, userID, userName, text string, resolved bool, createdAt, updatedAt time.Time) *Comment {
	return &Comment{
		id:        id,
		mapID:     mapID,
		groupID:   groupID,
		userID:    userID,
		userName:  userName,
		text:      text,
		resolved:  resolved,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Comment) ID() string                      { return c.id }
func (c *Comment) MapID() valueobjects.MapID       { return c.mapID }
func (c *Comment) GroupID() valueobjects.GroupID   { return c.groupID }
func (c *Comment) UserID() string                  { return c.userID }
func (c *Comment) UserName() string                { return c.userName }
func (c *Comment) Text() string                    { return c.text }
func (c *Comment) Resolved() bool                  { return c.resolved }
func (c *Comment) CreatedAt() time.Time            { return c.createdAt }
func (c *Comment) UpdatedAt() time.Time            { return c.updatedAt }

// Resolve marks the comment thread as handled
func (c *Comment) Resolve() {
	c.resolved = true
	c.updatedAt = time.Now()
}

var mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)

// Mentions extracts the @name handles referenced in the comment text
func (c *Comment) Mentions() []string {
	return ExtractMentions(c.text)
}

// ExtractMentions returns the unique @name handles in the text, in
// order of first appearance
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			names = append(names, m[1])
			seen[m[1]] = true
		}
	}
	return names
}
