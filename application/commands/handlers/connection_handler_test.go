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

func newConnectionHandler(env *testEnv) *ConnectionCommandHandler {
	return NewConnectionCommandHandler(env.connections, env.maps, env.projects, env.activity, env.logger)
}

func TestHandleCreateConnection(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newConnectionHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	connID := valueobjects.NewID()
	err := handler.HandleCreateConnection(context.Background(), commands.CreateConnectionCommand{
		ConnectionID:  connID,
		MapID:         m.ID().String(),
		SourceGroupID: g1.String(),
		TargetGroupID: g2.String(),
		Type:          "related",
		Strength:      3,
		UserID:        "owner",
	})
	require.NoError(t, err)

	conn, err := env.connections.GetByID(context.Background(), connID)
	require.NoError(t, err)
	assert.Equal(t, entities.ConnectionTypeRelated, conn.Type())
	assert.Equal(t, 1, env.notifier.mapUpdates)
}

func TestHandleCreateConnectionGraphRules(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	handler := newConnectionHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	ctx := context.Background()
	create := func(source, target valueobjects.GroupID) error {
		return handler.HandleCreateConnection(ctx, commands.CreateConnectionCommand{
			ConnectionID:  valueobjects.NewID(),
			MapID:         m.ID().String(),
			SourceGroupID: source.String(),
			TargetGroupID: target.String(),
			Type:          "related",
			UserID:        "owner",
		})
	}

	t.Run("missing endpoint", func(t *testing.T) {
		err := create(valueobjects.NewGroupID(), g2)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("self loop", func(t *testing.T) {
		err := create(g1, g1)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("duplicate rejected in reverse direction", func(t *testing.T) {
		require.NoError(t, create(g1, g2))
		err := create(g2, g1)
		require.True(t, pkgerrors.IsConflict(err))
		assert.Contains(t, err.Error(), "Connection already exists")
	})
}

func TestHandleUpdateConnectionCreatorOnly(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	handler := newConnectionHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	conn, err := entities.NewConnection("", m.ID(), g1, g2, entities.ConnectionTypeRelated, "", 0, "member")
	require.NoError(t, err)
	require.NoError(t, env.connections.Save(context.Background(), conn))

	label := "blocks"
	// even the project owner cannot edit someone else's connection
	err = handler.HandleUpdateConnection(context.Background(), commands.UpdateConnectionCommand{
		ConnectionID: conn.ID(),
		Label:        &label,
		UserID:       "owner",
	})
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, handler.HandleUpdateConnection(context.Background(), commands.UpdateConnectionCommand{
		ConnectionID: conn.ID(),
		Label:        &label,
		UserID:       "member",
	}))
	stored, _ := env.connections.GetByID(context.Background(), conn.ID())
	assert.Equal(t, "blocks", stored.Label())
}

func TestHandleDeleteConnectionCreatorOnly(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	handler := newConnectionHandler(env)
	m := seedMap(t, env, "project-1")
	g1 := seedGroup(t, m)
	g2 := seedGroup(t, m)

	conn, err := entities.NewConnection("", m.ID(), g1, g2, entities.ConnectionTypeRelated, "", 0, "member")
	require.NoError(t, err)
	require.NoError(t, env.connections.Save(context.Background(), conn))

	err = handler.HandleDeleteConnection(context.Background(), commands.DeleteConnectionCommand{
		ConnectionID: conn.ID(),
		UserID:       "owner",
	})
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, handler.HandleDeleteConnection(context.Background(), commands.DeleteConnectionCommand{
		ConnectionID: conn.ID(),
		UserID:       "member",
	}))
	_, err = env.connections.GetByID(context.Background(), conn.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}
