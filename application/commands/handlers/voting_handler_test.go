package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/application/commands"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func newVotingHandler(env *testEnv, voting *fakeVotingRepo) *VotingCommandHandler {
	return NewVotingCommandHandler(voting, env.maps, env.projects, env.logger)
}

func seedSession(t *testing.T, voting *fakeVotingRepo, projectID string, mapID valueobjects.MapID, budget int) *entities.VotingSession {
	t.Helper()
	session, err := entities.NewVotingSession("", projectID, mapID, "Priorities", budget, "owner")
	require.NoError(t, err)
	require.NoError(t, voting.SaveSession(context.Background(), session))
	return session
}

func TestHandleCreateVotingSession(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-1")

	err := handler.HandleCreateVotingSession(context.Background(), commands.CreateVotingSessionCommand{
		SessionID: valueobjects.NewID(),
		ProjectID: "project-1",
		MapID:     m.ID().String(),
		Name:      "Priorities",
		MaxVotes:  5,
		UserID:    "member",
	})
	require.NoError(t, err)

	sessions, err := voting.GetActiveSessionsByProject(context.Background(), "project-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsActive())
}

func TestHandleCreateVotingSessionWrongProject(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"), testProject("project-2", "owner"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-2")

	err := handler.HandleCreateVotingSession(context.Background(), commands.CreateVotingSessionCommand{
		SessionID: valueobjects.NewID(),
		ProjectID: "project-1",
		MapID:     m.ID().String(),
		Name:      "Priorities",
		MaxVotes:  5,
		UserID:    "owner",
	})
	require.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "map does not belong to this project")
}

func TestHandleCastVoteBudget(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-1")
	session := seedSession(t, voting, "project-1", m.ID(), 5)

	g1 := valueobjects.NewGroupID()
	g2 := valueobjects.NewGroupID()
	ctx := context.Background()

	cast := func(groupID valueobjects.GroupID, votes int) error {
		return handler.HandleCastVote(ctx, commands.CastVoteCommand{
			SessionID: session.ID(),
			GroupID:   groupID.String(),
			Votes:     votes,
			UserID:    "member",
		})
	}

	require.NoError(t, cast(g1, 3))

	// 3 already spent on g1 leaves room for 2 elsewhere
	err := cast(g2, 3)
	require.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "Vote budget exceeded")

	require.NoError(t, cast(g2, 2))

	// recasting g1 replaces the earlier allocation rather than stacking
	require.NoError(t, cast(g1, 1))
	require.NoError(t, cast(g2, 4))

	votes, err := voting.GetVotesBySession(ctx, session.ID())
	require.NoError(t, err)
	total := 0
	for _, v := range votes {
		total += v.Votes
	}
	assert.Equal(t, 5, total)
}

func TestHandleCastVoteBudgetsArePerUser(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-1")
	session := seedSession(t, voting, "project-1", m.ID(), 5)

	g := valueobjects.NewGroupID()
	ctx := context.Background()

	require.NoError(t, handler.HandleCastVote(ctx, commands.CastVoteCommand{
		SessionID: session.ID(), GroupID: g.String(), Votes: 5, UserID: "owner",
	}))
	require.NoError(t, handler.HandleCastVote(ctx, commands.CastVoteCommand{
		SessionID: session.ID(), GroupID: g.String(), Votes: 5, UserID: "member",
	}))
}

func TestHandleCastVoteClosedSession(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-1")
	session := seedSession(t, voting, "project-1", m.ID(), 5)
	session.Close()

	err := handler.HandleCastVote(context.Background(), commands.CastVoteCommand{
		SessionID: session.ID(),
		GroupID:   valueobjects.NewGroupID().String(),
		Votes:     1,
		UserID:    "owner",
	})
	require.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "Voting session is closed")
}

func TestHandleCloseVotingSessionCreatorOnly(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	voting := newFakeVotingRepo()
	handler := newVotingHandler(env, voting)
	m := seedMap(t, env, "project-1")
	session := seedSession(t, voting, "project-1", m.ID(), 5)

	err := handler.HandleCloseVotingSession(context.Background(), commands.CloseVotingSessionCommand{
		SessionID: session.ID(),
		UserID:    "member",
	})
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, handler.HandleCloseVotingSession(context.Background(), commands.CloseVotingSessionCommand{
		SessionID: session.ID(),
		UserID:    "owner",
	}))
	stored, err := voting.GetSession(context.Background(), session.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
}
