package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

type stubPresenceStore struct {
	records []entities.PresenceRecord
}

func (s *stubPresenceStore) Upsert(ctx context.Context, record entities.PresenceRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubPresenceStore) Remove(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	return nil
}

func (s *stubPresenceStore) GetByMap(ctx context.Context, mapID valueobjects.MapID, excludeUserID string) ([]entities.PresenceRecord, error) {
	var out []entities.PresenceRecord
	for _, r := range s.records {
		if r.MapID.Equals(mapID) && r.UserID != excludeUserID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubTypingStore struct {
	indicators []entities.TypingIndicator
}

func (s *stubTypingStore) Upsert(ctx context.Context, indicator entities.TypingIndicator) error {
	s.indicators = append(s.indicators, indicator)
	return nil
}

func (s *stubTypingStore) Get(ctx context.Context, mapID valueobjects.MapID, userID string) (entities.TypingIndicator, bool, error) {
	for _, ind := range s.indicators {
		if ind.MapID.Equals(mapID) && ind.UserID == userID {
			return ind, true, nil
		}
	}
	return entities.TypingIndicator{}, false, nil
}

func (s *stubTypingStore) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]entities.TypingIndicator, error) {
	var out []entities.TypingIndicator
	for _, ind := range s.indicators {
		if ind.MapID.Equals(mapID) {
			out = append(out, ind)
		}
	}
	return out, nil
}

func (s *stubTypingStore) Delete(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	return nil
}

func (s *stubTypingStore) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	return 0, nil
}

func TestHandleGetPresenceExcludesViewer(t *testing.T) {
	presence := &stubPresenceStore{}
	handler := NewPresenceQueryHandler(presence, &stubTypingStore{}, zap.NewNop())
	mapID := valueobjects.NewMapID()

	require.NoError(t, presence.Upsert(context.Background(), entities.NewPresenceRecord(
		mapID, "dana", valueobjects.NewPosition(10, 20), []string{"g-1"}, entities.UserInfo{ID: "dana", Name: "Dana"})))
	require.NoError(t, presence.Upsert(context.Background(), entities.NewPresenceRecord(
		mapID, "sam", valueobjects.NewPosition(0, 0), nil, entities.UserInfo{ID: "sam", Name: "Sam"})))

	result, err := handler.HandleGetPresence(context.Background(), queries.GetPresenceQuery{
		MapID:  mapID.String(),
		UserID: "sam",
	})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "dana", result.Users[0].UserID)
	assert.Equal(t, queries.Position{X: 10, Y: 20}, result.Users[0].Cursor)
	assert.Equal(t, []string{"g-1"}, result.Users[0].Selection)
}

func TestHandleGetTypingUsersActiveWindow(t *testing.T) {
	typing := &stubTypingStore{}
	handler := NewPresenceQueryHandler(&stubPresenceStore{}, typing, zap.NewNop())
	mapID := valueobjects.NewMapID()
	groupID := valueobjects.NewGroupID()
	now := time.Now()

	seed := func(userID, userName string, isTyping bool, age time.Duration) {
		require.NoError(t, typing.Upsert(context.Background(), entities.TypingIndicator{
			MapID:        mapID,
			GroupID:      groupID,
			UserID:       userID,
			UserName:     userName,
			IsTyping:     isTyping,
			LastActivity: now.Add(-age),
		}))
	}

	seed("dana", "Dana", true, 2*time.Second)
	seed("sam", "Sam", true, 8*time.Second)   // past the active window
	seed("alex", "Alex", false, time.Second)  // stopped typing
	seed("viewer", "Me", true, 0)             // the viewer's own row

	result, err := handler.HandleGetTypingUsers(context.Background(), queries.GetTypingUsersQuery{
		MapID:  mapID.String(),
		UserID: "viewer",
	})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "dana", result.Users[0].UserID)
	assert.Equal(t, groupID.String(), result.Users[0].GroupID)

	// narrowing to a different group hides the remaining indicator
	filtered, err := handler.HandleGetTypingUsers(context.Background(), queries.GetTypingUsersQuery{
		MapID:   mapID.String(),
		GroupID: valueobjects.NewGroupID().String(),
		UserID:  "viewer",
	})
	require.NoError(t, err)
	assert.Empty(t, filtered.Users)
}

func TestHandleGetPresenceInvalidMapID(t *testing.T) {
	handler := NewPresenceQueryHandler(&stubPresenceStore{}, &stubTypingStore{}, zap.NewNop())

	_, err := handler.HandleGetPresence(context.Background(), queries.GetPresenceQuery{
		MapID:  "",
		UserID: "dana",
	})
	assert.Error(t, err)
}
