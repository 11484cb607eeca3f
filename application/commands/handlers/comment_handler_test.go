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

func newCommentHandler(env *testEnv, comments *fakeCommentRepo) *CommentCommandHandler {
	return NewCommentCommandHandler(comments, env.maps, env.projects, env.activity, env.logger)
}

func TestHandleAddComment(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "dana", "sam"))
	comments := newFakeCommentRepo()
	handler := newCommentHandler(env, comments)
	m := seedMap(t, env, "project-1")
	g := seedGroup(t, m)

	commentID := valueobjects.NewID()
	err := handler.HandleAddComment(context.Background(), commands.AddCommentCommand{
		CommentID: commentID,
		MapID:     m.ID().String(),
		GroupID:   g.String(),
		Text:      "Should we split this theme?",
		UserID:    "dana",
		UserName:  "Dana",
	})
	require.NoError(t, err)

	stored, err := comments.GetByID(context.Background(), commentID)
	require.NoError(t, err)
	assert.Equal(t, "dana", stored.UserID())
	assert.False(t, stored.Resolved())

	require.Len(t, env.activities.entries, 1)
	assert.Equal(t, entities.ActionCommentAdded, env.activities.entries[0].Action())

	// fan-out reaches every other member but never the actor
	assert.ElementsMatch(t, []string{"owner", "sam"}, env.notifications.recipients())
	assert.Equal(t, 1, env.notifier.mapUpdates)
}

func TestHandleAddCommentWithMentions(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "dana"))
	comments := newFakeCommentRepo()
	handler := newCommentHandler(env, comments)
	m := seedMap(t, env, "project-1")
	g := seedGroup(t, m)

	err := handler.HandleAddComment(context.Background(), commands.AddCommentCommand{
		CommentID: valueobjects.NewID(),
		MapID:     m.ID().String(),
		GroupID:   g.String(),
		Text:      "@sam can you verify this with @dana?",
		UserID:    "owner",
		UserName:  "Alex",
	})
	require.NoError(t, err)

	// one comment entry plus one mention entry
	assert.Equal(t, []entities.ActivityAction{
		entities.ActionCommentAdded,
		entities.ActionUserMentioned,
	}, env.activities.actions())
	assert.Equal(t, "sam, dana", env.activities.entries[1].Details())
}

func TestHandleAddCommentMissingGroup(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	comments := newFakeCommentRepo()
	handler := newCommentHandler(env, comments)
	m := seedMap(t, env, "project-1")

	err := handler.HandleAddComment(context.Background(), commands.AddCommentCommand{
		CommentID: valueobjects.NewID(),
		MapID:     m.ID().String(),
		GroupID:   valueobjects.NewGroupID().String(),
		Text:      "orphan",
		UserID:    "owner",
	})
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, env.activities.entries)
}

func TestHandleAddCommentForbidden(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	comments := newFakeCommentRepo()
	handler := newCommentHandler(env, comments)
	m := seedMap(t, env, "project-1")
	g := seedGroup(t, m)

	err := handler.HandleAddComment(context.Background(), commands.AddCommentCommand{
		CommentID: valueobjects.NewID(),
		MapID:     m.ID().String(),
		GroupID:   g.String(),
		Text:      "hi",
		UserID:    "stranger",
	})
	assert.True(t, pkgerrors.IsForbidden(err))
}

func TestHandleResolveComment(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "dana"))
	comments := newFakeCommentRepo()
	handler := newCommentHandler(env, comments)
	m := seedMap(t, env, "project-1")
	g := seedGroup(t, m)

	comment, err := entities.NewComment("", m.ID(), g, "dana", "Dana", "Should we split this?")
	require.NoError(t, err)
	require.NoError(t, comments.Save(context.Background(), comment))

	// any member may resolve, not just the author
	require.NoError(t, handler.HandleResolveComment(context.Background(), commands.ResolveCommentCommand{
		CommentID: comment.ID(),
		MapID:     m.ID().String(),
		UserID:    "owner",
	}))

	stored, err := comments.GetByID(context.Background(), comment.ID())
	require.NoError(t, err)
	assert.True(t, stored.Resolved())
}
