package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"insightmap-backend/domain/core/valueobjects"
)

func TestTypingIndicatorIsActiveFor(t *testing.T) {
	now := time.Now()
	base := TypingIndicator{
		MapID:        valueobjects.NewMapID(),
		GroupID:      valueobjects.NewGroupID(),
		UserID:       "user-1",
		UserName:     "Dana",
		IsTyping:     true,
		LastActivity: now,
	}

	tests := []struct {
		name     string
		mutate   func(*TypingIndicator)
		viewerID string
		want     bool
	}{
		{"fresh for another viewer", func(*TypingIndicator) {}, "user-2", true},
		{"own indicator hidden", func(*TypingIndicator) {}, "user-1", false},
		{"stopped typing", func(i *TypingIndicator) { i.IsTyping = false }, "user-2", false},
		{"just inside window", func(i *TypingIndicator) {
			i.LastActivity = now.Add(-TypingActiveWindow + time.Second)
		}, "user-2", true},
		{"past window", func(i *TypingIndicator) {
			i.LastActivity = now.Add(-TypingActiveWindow - time.Second)
		}, "user-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator := base
			tt.mutate(&indicator)
			assert.Equal(t, tt.want, indicator.IsActiveFor(tt.viewerID, now))
		})
	}
}

func TestTypingIndicatorIsSweepable(t *testing.T) {
	now := time.Now()
	indicator := TypingIndicator{UserID: "user-1", IsTyping: true, LastActivity: now}

	assert.False(t, indicator.IsSweepable(now))
	assert.False(t, indicator.IsSweepable(now.Add(TypingSweepCutoff-time.Second)))
	assert.True(t, indicator.IsSweepable(now.Add(TypingSweepCutoff)))

	// sweepability ignores the flag
	indicator.IsTyping = false
	assert.True(t, indicator.IsSweepable(now.Add(TypingSweepCutoff)))
}

func TestNewPresenceRecord(t *testing.T) {
	mapID := valueobjects.NewMapID()
	record := NewPresenceRecord(mapID, "user-1", valueobjects.NewPosition(10, 20), []string{"g-1"}, UserInfo{
		ID:   "user-1",
		Name: "Dana",
	})

	assert.Equal(t, mapID, record.MapID)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, []string{"g-1"}, record.Selection)
	assert.WithinDuration(t, time.Now(), record.LastSeen, time.Second)
}
