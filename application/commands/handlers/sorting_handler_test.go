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

func newSortingHandler(env *testEnv, sorting *fakeSortingRepo) *SortingCommandHandler {
	return NewSortingCommandHandler(sorting, env.maps, env.projects, env.notifier, env.logger)
}

func startSession(t *testing.T, handler *SortingCommandHandler, mapID, userID string) string {
	t.Helper()
	sessionID := valueobjects.NewID()
	require.NoError(t, handler.HandleStartSortingSession(context.Background(), commands.StartSortingSessionCommand{
		SessionID:    sessionID,
		MapID:        mapID,
		Duration:     10,
		Participants: []string{"owner", "member"},
		UserID:       userID,
	}))
	return sessionID
}

func TestHandleStartSortingSession(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")

	sessionID := startSession(t, handler, m.ID().String(), "member")

	stored, err := sorting.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SortingPhasePreparation, stored.Phase())
	assert.Equal(t, 600, stored.TimeRemaining())
	assert.True(t, stored.Rules().NoTalking)
	assert.Equal(t, 1, env.notifier.mapUpdates)
}

func TestHandleStartSortingSessionAlreadyRunning(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")

	startSession(t, handler, m.ID().String(), "owner")

	err := handler.HandleStartSortingSession(context.Background(), commands.StartSortingSessionCommand{
		SessionID: valueobjects.NewID(),
		MapID:     m.ID().String(),
		Duration:  5,
		UserID:    "owner",
	})
	require.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "already running")
}

func TestHandleStartSortingSessionAfterCompletion(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")

	sessionID := startSession(t, handler, m.ID().String(), "owner")
	require.NoError(t, handler.HandleUpdateSortingPhase(context.Background(), commands.UpdateSortingPhaseCommand{
		SessionID: sessionID,
		Phase:     string(entities.SortingPhaseCompleted),
		UserID:    "owner",
	}))

	// a completed round no longer blocks the next one
	startSession(t, handler, m.ID().String(), "owner")
}

func TestHandleStartSortingSessionNonMember(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")

	err := handler.HandleStartSortingSession(context.Background(), commands.StartSortingSessionCommand{
		SessionID: valueobjects.NewID(),
		MapID:     m.ID().String(),
		Duration:  10,
		UserID:    "stranger",
	})
	assert.True(t, pkgerrors.IsForbidden(err))
}

func TestHandleUpdateSortingPhase(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner", "member"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")
	sessionID := startSession(t, handler, m.ID().String(), "owner")

	ctx := context.Background()
	setPhase := func(phase string, userID string) error {
		return handler.HandleUpdateSortingPhase(ctx, commands.UpdateSortingPhaseCommand{
			SessionID: sessionID,
			Phase:     phase,
			UserID:    userID,
		})
	}

	// any project member may drive the phase machine
	require.NoError(t, setPhase("sorting", "member"))
	require.NoError(t, setPhase("discussion", "owner"))
	require.NoError(t, setPhase("completed", "owner"))

	// completed is terminal
	err := setPhase("sorting", "owner")
	require.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "completed")

	err = setPhase("lunch", "owner")
	assert.Error(t, err)
}

func TestHandleUpdateSortingTimer(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)
	m := seedMap(t, env, "project-1")
	sessionID := startSession(t, handler, m.ID().String(), "owner")

	ctx := context.Background()
	require.NoError(t, handler.HandleUpdateSortingTimer(ctx, commands.UpdateSortingTimerCommand{
		SessionID:     sessionID,
		TimeRemaining: 120,
		UserID:        "owner",
	}))

	stored, err := sorting.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 120, stored.TimeRemaining())

	err = handler.HandleUpdateSortingTimer(ctx, commands.UpdateSortingTimerCommand{
		SessionID:     sessionID,
		TimeRemaining: -1,
		UserID:        "owner",
	})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestHandleUpdateSortingPhaseUnknownSession(t *testing.T) {
	env := newTestEnv(testProject("project-1", "owner"))
	sorting := newFakeSortingRepo()
	handler := newSortingHandler(env, sorting)

	err := handler.HandleUpdateSortingPhase(context.Background(), commands.UpdateSortingPhaseCommand{
		SessionID: valueobjects.NewID(),
		Phase:     "sorting",
		UserID:    "owner",
	})
	assert.True(t, pkgerrors.IsNotFound(err))
}
