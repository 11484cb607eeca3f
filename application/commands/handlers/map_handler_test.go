package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/application/commands"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func newMapHandler(env *testEnv) *MapCommandHandler {
	return NewMapCommandHandler(
		env.maps,
		env.projects,
		env.connections,
		env.insights,
		env.uow,
		env.activity,
		env.logger,
	)
}

func seedMap(t *testing.T, env *testEnv, projectID string) *aggregates.AffinityMap {
	t.Helper()
	m, err := aggregates.NewAffinityMap(valueobjects.NewMapID(), projectID, "Session 1", "owner")
	require.NoError(t, err)
	m.MarkEventsAsCommitted()
	require.NoError(t, env.maps.Save(context.Background(), m))
	return m
}

func seedGroup(t *testing.T, m *aggregates.AffinityMap) valueobjects.GroupID {
	t.Helper()
	id, err := m.AddGroup(valueobjects.NewGroupID(), "Onboarding", "#fde047", valueobjects.NewPosition(0, 0), "owner")
	require.NoError(t, err)
	m.MarkEventsAsCommitted()
	return id
}

func TestHandleCreateMapFlipsCurrent(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	handler := newMapHandler(env)
	old := seedMap(t, env, "project-1")
	require.True(t, old.IsCurrent())

	newID := valueobjects.NewMapID()
	err := handler.HandleCreateMap(context.Background(), commands.CreateMapCommand{
		MapID:     newID.String(),
		ProjectID: "project-1",
		Name:      "Session 2",
		UserID:    "member",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.uow.calls)

	// exactly one current map survives
	current, err := env.maps.GetCurrent(context.Background(), "project-1")
	require.NoError(t, err)
	assert.True(t, current.ID().Equals(newID))

	demoted, err := env.maps.GetByID(context.Background(), old.ID())
	require.NoError(t, err)
	assert.False(t, demoted.IsCurrent())

	assert.Positive(t, env.publisher.published)
}

func TestHandleCreateMapForbidden(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)

	err := handler.HandleCreateMap(context.Background(), commands.CreateMapCommand{
		MapID:     valueobjects.NewMapID().String(),
		ProjectID: "project-1",
		Name:      "Session 2",
		UserID:    "stranger",
	})
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Zero(t, env.uow.calls)
}

func TestHandleAddGroupRecordsAndNotifies(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")

	groupID := valueobjects.NewGroupID()
	err := handler.HandleAddGroup(context.Background(), commands.AddGroupCommand{
		MapID:    m.ID().String(),
		GroupID:  groupID.String(),
		Title:    "Checkout friction",
		X:        120,
		Y:        80,
		UserID:   "member",
		UserName: "Dana",
	})
	require.NoError(t, err)

	saved, err := env.maps.GetByID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.True(t, saved.HasGroup(groupID))

	require.Len(t, env.activities.entries, 1)
	assert.Equal(t, entities.ActionGroupCreated, env.activities.entries[0].Action())
	assert.Equal(t, "Checkout friction", env.activities.entries[0].TargetName())

	// group_created fans out to everyone but the actor
	assert.Equal(t, []string{"owner"}, env.notifications.recipients())
	assert.Equal(t, 1, env.notifier.mapUpdates)

	require.Len(t, env.notifications.saved, 1)
	assert.Contains(t, env.notifications.saved[0].ActionURL, "focus="+groupID.String())
}

func TestHandleMoveGroupMissing(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")

	err := handler.HandleMoveGroup(context.Background(), commands.MoveGroupCommand{
		MapID:   m.ID().String(),
		GroupID: valueobjects.NewGroupID().String(),
		X:       10,
		Y:       10,
		UserID:  "owner",
	})
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, env.activities.entries)
}

func TestHandleAddInsightMoveAction(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	ctx := context.Background()
	err := handler.HandleAddInsightToGroup(ctx, commands.AddInsightToGroupCommand{
		MapID:     m.ID().String(),
		GroupID:   g1.String(),
		InsightID: "insight-1",
		UserID:    "owner",
	})
	require.NoError(t, err)

	err = handler.HandleAddInsightToGroup(ctx, commands.AddInsightToGroupCommand{
		MapID:     m.ID().String(),
		GroupID:   g2.String(),
		InsightID: "insight-1",
		UserID:    "owner",
	})
	require.NoError(t, err)

	// first placement logs an add, the second a move
	assert.Equal(t, []entities.ActivityAction{
		entities.ActionInsightAdded,
		entities.ActionInsightMoved,
	}, env.activities.actions())

	saved, _ := env.maps.GetByID(ctx, m.ID())
	owner, ok := saved.InsightMembership("insight-1")
	require.True(t, ok)
	assert.True(t, owner.Equals(g2))
}

func TestHandleReorderInsightsMismatch(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")
	g := seedGroup(t, m)

	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, handler.HandleAddInsightToGroup(ctx, commands.AddInsightToGroupCommand{
			MapID: m.ID().String(), GroupID: g.String(), InsightID: id, UserID: "owner",
		}))
	}

	err := handler.HandleReorderInsights(ctx, commands.ReorderInsightsCommand{
		MapID:      m.ID().String(),
		GroupID:    g.String(),
		InsightIDs: []string{"a", "c"},
		UserID:     "owner",
	})
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, handler.HandleReorderInsights(ctx, commands.ReorderInsightsCommand{
		MapID:      m.ID().String(),
		GroupID:    g.String(),
		InsightIDs: []string{"b", "a"},
		UserID:     "owner",
	}))
	saved, _ := env.maps.GetByID(ctx, m.ID())
	group, _ := saved.FindGroup(g)
	assert.Equal(t, []string{"b", "a"}, group.InsightIDs)
}

func TestHandleRemoveGroupCascadesConnections(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	conn, err := entities.NewConnection("", m.ID(), g1, g2, entities.ConnectionTypeRelated, "", 0, "owner")
	require.NoError(t, err)
	require.NoError(t, env.connections.Save(context.Background(), conn))

	err = handler.HandleRemoveGroup(context.Background(), commands.RemoveGroupCommand{
		MapID:   m.ID().String(),
		GroupID: g1.String(),
		UserID:  "owner",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{g1.String()}, env.connections.deletedByGroup)
	remaining, _ := env.connections.GetByMap(context.Background(), m.ID())
	assert.Empty(t, remaining)
}

func TestHandleCreateIndependentInsight(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newMapHandler(env)
	m := seedMap(t, env, "project-1")

	insightID := valueobjects.NewID()
	groupID := valueobjects.NewGroupID()
	err := handler.HandleCreateIndependentInsight(context.Background(), commands.CreateIndependentInsightCommand{
		MapID:     m.ID().String(),
		InsightID: insightID,
		GroupID:   groupID.String(),
		X:         40,
		Y:         60,
		Text:      "Users expect autosave",
		Type:      "insight",
		UserID:    "owner",
	})
	require.NoError(t, err)

	insight, err := env.insights.GetByID(context.Background(), insightID)
	require.NoError(t, err)
	assert.Equal(t, "project-1", insight.ProjectID())

	saved, _ := env.maps.GetByID(context.Background(), m.ID())
	group, ok := saved.FindGroup(groupID)
	require.True(t, ok)
	assert.Equal(t, "Note", group.Title)
	assert.Equal(t, []string{insightID}, group.InsightIDs)
	assert.Equal(t, valueobjects.NewPosition(40, 60), group.Position)
}
