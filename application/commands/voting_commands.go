package commands

import "errors"

// CreateVotingSessionCommand opens a dot-voting session over a map's
// groups with a per-user vote budget
type CreateVotingSessionCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
	MapID     string `json:"map_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	MaxVotes  int    `json:"max_votes" validate:"min=1,max=100"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd CreateVotingSessionCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.Name == "" {
		return errors.New("name is required")
	}
	if cmd.MaxVotes < 1 {
		return errors.New("max votes must be at least 1")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// CloseVotingSessionCommand closes a session; further votes are rejected
type CloseVotingSessionCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd CloseVotingSessionCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// CastVoteCommand spends votes from the caller's budget on a group.
// Votes set to zero retracts the caller's votes on that group.
type CastVoteCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	Votes     int    `json:"votes" validate:"min=0,max=100"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd CastVoteCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.GroupID == "" {
		return errors.New("group ID is required")
	}
	if cmd.Votes < 0 {
		return errors.New("votes must not be negative")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
