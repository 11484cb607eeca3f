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

func newPresenceHandler(env *testEnv, presence *fakePresenceStore, typing *fakeTypingStore) *PresenceCommandHandler {
	return NewPresenceCommandHandler(presence, typing, env.notifier, env.logger)
}

func TestHandleUpsertPresenceOwnRowOnly(t *testing.T) {
	env := newTestEnv()
	presence := newFakePresenceStore()
	handler := newPresenceHandler(env, presence, newFakeTypingStore())
	mapID := valueobjects.NewMapID()

	err := handler.HandleUpsertPresence(context.Background(), commands.UpsertPresenceCommand{
		MapID:    mapID.String(),
		UserID:   "user-2",
		CallerID: "user-1",
	})
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Empty(t, presence.records)

	require.NoError(t, handler.HandleUpsertPresence(context.Background(), commands.UpsertPresenceCommand{
		MapID:    mapID.String(),
		UserID:   "user-1",
		CallerID: "user-1",
		CursorX:  40,
		CursorY:  60,
		User:     entities.UserInfo{ID: "user-1", Name: "Dana"},
	}))

	records, err := presence.GetByMap(context.Background(), mapID, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, valueobjects.NewPosition(40, 60), records[0].Cursor)
	assert.Equal(t, 1, env.notifier.presence)
}

func TestHandleRemovePresenceOwnRowOnly(t *testing.T) {
	env := newTestEnv()
	presence := newFakePresenceStore()
	handler := newPresenceHandler(env, presence, newFakeTypingStore())
	mapID := valueobjects.NewMapID()

	require.NoError(t, presence.Upsert(context.Background(), entities.NewPresenceRecord(
		mapID, "user-1", valueobjects.NewPosition(0, 0), nil, entities.UserInfo{ID: "user-1"})))

	err := handler.HandleRemovePresence(context.Background(), commands.RemovePresenceCommand{
		MapID:    mapID.String(),
		UserID:   "user-1",
		CallerID: "user-2",
	})
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, handler.HandleRemovePresence(context.Background(), commands.RemovePresenceCommand{
		MapID:    mapID.String(),
		UserID:   "user-1",
		CallerID: "user-1",
	}))
	records, _ := presence.GetByMap(context.Background(), mapID, "")
	assert.Empty(t, records)
}

func TestHandleStopTypingKeepsRow(t *testing.T) {
	env := newTestEnv()
	typing := newFakeTypingStore()
	handler := newPresenceHandler(env, newFakePresenceStore(), typing)
	mapID := valueobjects.NewMapID()

	require.NoError(t, handler.HandleStartTyping(context.Background(), commands.StartTypingCommand{
		MapID:    mapID.String(),
		GroupID:  valueobjects.NewGroupID().String(),
		UserID:   "user-1",
		UserName: "Dana",
	}))

	row, found, err := typing.Get(context.Background(), mapID, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, row.IsTyping)

	require.NoError(t, handler.HandleStopTyping(context.Background(), commands.StopTypingCommand{
		MapID:  mapID.String(),
		UserID: "user-1",
	}))

	// the row survives with the flag flipped; the sweeper deletes it later
	row, found, err = typing.Get(context.Background(), mapID, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, row.IsTyping)
}

func TestHandleStopTypingWithoutRow(t *testing.T) {
	env := newTestEnv()
	handler := newPresenceHandler(env, newFakePresenceStore(), newFakeTypingStore())

	// stopping without ever starting is a silent no-op
	assert.NoError(t, handler.HandleStopTyping(context.Background(), commands.StopTypingCommand{
		MapID:  valueobjects.NewMapID().String(),
		UserID: "user-1",
	}))
}
