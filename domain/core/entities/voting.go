package entities

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// VotingSession is a dot-voting round over the groups of a map
type VotingSession struct {
	id              string
	projectID       string
	mapID           valueobjects.MapID
	name            string
	maxVotesPerUser int
	isActive        bool
	createdBy       string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewVotingSession creates an active voting session. An empty id
// gets a fresh one.
func NewVotingSession(id, projectID string, mapID valueobjects.MapID, name string, maxVotesPerUser int, createdBy string) (*VotingSession, error) {
	if id == "" {
		id = valueobjects.NewID()
	}
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("projectID cannot be empty")
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewValidationError("mapID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if maxVotesPerUser <= 0 {
		return nil, pkgerrors.NewValidationError("maxVotesPerUser must be positive")
	}

	now := time.Now()
	return &VotingSession{
		id:              id,
		projectID:       projectID,
		mapID:           mapID,
		name:            name,
		maxVotesPerUser: maxVotesPerUser,
		isActive:        true,
		createdBy:       createdBy,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructVotingSession rebuilds a session from repository data
func ReconstructVotingSession(id, projectID string, mapID valueobjects.MapID, name string, maxVotesPerUser int, isActive bool, createdBy string, createdAt, updatedAt time.Time) *VotingSession {
	return &VotingSession{
		id:              id,
		projectID:       projectID,
		mapID:           mapID,
		name:            name,
		maxVotesPerUser: maxVotesPerUser,
		isActive:        isActive,
		createdBy:       createdBy,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (s *VotingSession) ID() string                { return s.id }
func (s *VotingSession) ProjectID() string         { return s.projectID }
func (s *VotingSession) MapID() valueobjects.MapID { return s.mapID }
func (s *VotingSession) Name() string              { return s.name }
func (s *VotingSession) MaxVotesPerUser() int      { return s.maxVotesPerUser }
func (s *VotingSession) IsActive() bool            { return s.isActive }
func (s *VotingSession) CreatedBy() string         { return s.createdBy }
func (s *VotingSession) CreatedAt() time.Time      { return s.createdAt }
func (s *VotingSession) UpdatedAt() time.Time      { return s.updatedAt }

// Close ends the session; further votes are rejected
func (s *VotingSession) Close() {
	s.isActive = false
	s.updatedAt = time.Now()
}

// Touch bumps the session's updatedAt after a vote lands
func (s *VotingSession) Touch() {
	s.updatedAt = time.Now()
}

// ValidateCast checks a proposed vote against the session state and
// the caller's existing allocation on other groups
func (s *VotingSession) ValidateCast(groupID valueobjects.GroupID, votes int, spentElsewhere int) error {
	if !s.isActive {
		return pkgerrors.NewConflictError("Voting session is closed")
	}
	if groupID.IsZero() {
		return pkgerrors.NewValidationError("groupID cannot be empty")
	}
	if votes < 0 {
		return pkgerrors.NewValidationError("votes cannot be negative")
	}
	if spentElsewhere+votes > s.maxVotesPerUser {
		return pkgerrors.NewConflictError("Vote budget exceeded for this session")
	}
	return nil
}

// Vote is one user's dot allocation on one group in a session.
// Casting again for the same group replaces the previous allocation.
type Vote struct {
	ID        string               `json:"id"`
	SessionID string               `json:"sessionId"`
	UserID    string               `json:"userId"`
	GroupID   valueobjects.GroupID `json:"groupId"`
	Votes     int                  `json:"votes"`
	CreatedAt time.Time            `json:"createdAt"`
}

// NewVote creates a vote row
func NewVote(sessionID, userID string, groupID valueobjects.GroupID, votes int) Vote {
	return Vote{
		ID:        valueobjects.NewID(),
		SessionID: sessionID,
		UserID:    userID,
		GroupID:   groupID,
		Votes:     votes,
		CreatedAt: time.Now(),
	}
}

// GroupVoteResult aggregates votes per group for session results
type GroupVoteResult struct {
	GroupID    valueobjects.GroupID `json:"groupId"`
	TotalVotes int                  `json:"totalVotes"`
	UserVotes  int                  `json:"userVotes"`
}

// TallyVotes aggregates a session's votes per group, reporting both
// the grand total and the viewer's own allocation, sorted by total
// descending with ties keeping group order.
func TallyVotes(votes []Vote, groupIDs []valueobjects.GroupID, viewerID string) []GroupVoteResult {
	totals := make(map[string]int)
	mine := make(map[string]int)
	for _, v := range votes {
		totals[v.GroupID.String()] += v.Votes
		if v.UserID == viewerID {
			mine[v.GroupID.String()] = v.Votes
		}
	}

	results := make([]GroupVoteResult, 0, len(groupIDs))
	for _, gid := range groupIDs {
		results = append(results, GroupVoteResult{
			GroupID:    gid,
			TotalVotes: totals[gid.String()],
			UserVotes:  mine[gid.String()],
		})
	}

	// stable insertion sort by total desc
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].TotalVotes > results[j-1].TotalVotes; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	return results
}
