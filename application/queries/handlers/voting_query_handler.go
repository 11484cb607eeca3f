package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

// VotingQueryHandler serves dot-voting reads
type VotingQueryHandler struct {
	voting   ports.VotingRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewVotingQueryHandler creates the voting query handler
func NewVotingQueryHandler(
	voting ports.VotingRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *VotingQueryHandler {
	return &VotingQueryHandler{
		voting:   voting,
		maps:     maps,
		projects: projects,
		logger:   logger,
	}
}

// HandleGetResults tallies a session per group, sorted by total votes
// descending, and reports the viewer's remaining budget
func (h *VotingQueryHandler) HandleGetResults(ctx context.Context, query queries.GetVotingResultsQuery) (*queries.VotingResultsResult, error) {
	session, err := h.voting.GetSession(ctx, query.SessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, h.projects, session.ProjectID(), query.UserID); err != nil {
		return nil, err
	}

	m, err := h.maps.GetByID(ctx, session.MapID())
	if err != nil {
		return nil, err
	}

	votes, err := h.voting.GetVotesBySession(ctx, query.SessionID)
	if err != nil {
		return nil, err
	}

	groups := m.Groups()
	groupIDs := make([]valueobjects.GroupID, 0, len(groups))
	titles := make(map[string]string, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		titles[g.ID.String()] = g.Title
	}

	tally := entities.TallyVotes(votes, groupIDs, query.UserID)

	spent := 0
	for _, v := range votes {
		if v.UserID == query.UserID {
			spent += v.Votes
		}
	}
	remaining := session.MaxVotesPerUser() - spent
	if remaining < 0 {
		remaining = 0
	}

	result := &queries.VotingResultsResult{
		SessionID:       session.ID(),
		Name:            session.Name(),
		IsActive:        session.IsActive(),
		MaxVotesPerUser: session.MaxVotesPerUser(),
		RemainingVotes:  remaining,
		Results:         make([]queries.GroupVotesView, 0, len(tally)),
	}
	for _, t := range tally {
		result.Results = append(result.Results, queries.GroupVotesView{
			GroupID:    t.GroupID.String(),
			Title:      titles[t.GroupID.String()],
			TotalVotes: t.TotalVotes,
			UserVotes:  t.UserVotes,
		})
	}
	return result, nil
}

// HandleListSessions lists a project's active sessions
func (h *VotingQueryHandler) HandleListSessions(ctx context.Context, query queries.ListVotingSessionsQuery) (*queries.VotingSessionListResult, error) {
	if err := authorizeRead(ctx, h.projects, query.ProjectID, query.UserID); err != nil {
		return nil, err
	}

	sessions, err := h.voting.GetActiveSessionsByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}

	result := &queries.VotingSessionListResult{Sessions: make([]queries.VotingSessionView, 0, len(sessions))}
	for _, s := range sessions {
		result.Sessions = append(result.Sessions, queries.VotingSessionView{
			ID:              s.ID(),
			MapID:           s.MapID().String(),
			Name:            s.Name(),
			MaxVotesPerUser: s.MaxVotesPerUser(),
			IsActive:        s.IsActive(),
			CreatedBy:       s.CreatedBy(),
			CreatedAt:       s.CreatedAt().Format(time.RFC3339),
		})
	}
	return result, nil
}
