package queries

import "errors"

// GetVotingResultsQuery tallies a voting session's results for the
// viewer
type GetVotingResultsQuery struct {
	SessionID string
	UserID    string
}

// Validate validates the GetVotingResultsQuery
func (q GetVotingResultsQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GroupVotesView is one group's tally in a session
type GroupVotesView struct {
	GroupID    string `json:"groupId"`
	Title      string `json:"title"`
	TotalVotes int    `json:"totalVotes"`
	UserVotes  int    `json:"userVotes"`
}

// VotingResultsResult is the full session tally, sorted by total
// votes descending, plus the viewer's remaining budget
type VotingResultsResult struct {
	SessionID       string           `json:"sessionId"`
	Name            string           `json:"name"`
	IsActive        bool             `json:"isActive"`
	MaxVotesPerUser int              `json:"maxVotesPerUser"`
	RemainingVotes  int              `json:"remainingVotes"`
	Results         []GroupVotesView `json:"results"`
}

// ListVotingSessionsQuery lists a project's active sessions
type ListVotingSessionsQuery struct {
	ProjectID string
	UserID    string
}

// Validate validates the ListVotingSessionsQuery
func (q ListVotingSessionsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// VotingSessionView is the list-view shape of a session
type VotingSessionView struct {
	ID              string `json:"id"`
	MapID           string `json:"mapId"`
	Name            string `json:"name"`
	MaxVotesPerUser int    `json:"maxVotesPerUser"`
	IsActive        bool   `json:"isActive"`
	CreatedBy       string `json:"createdBy"`
	CreatedAt       string `json:"createdAt"`
}

// VotingSessionListResult holds a project's sessions
type VotingSessionListResult struct {
	Sessions []VotingSessionView `json:"sessions"`
}
