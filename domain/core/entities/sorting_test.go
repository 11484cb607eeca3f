package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func testSortingSession(t *testing.T) *SortingSession {
	t.Helper()
	s, err := NewSortingSession("", valueobjects.NewMapID(), 10, []string{"dana", "sam"}, "dana")
	require.NoError(t, err)
	return s
}

func TestNewSortingSession(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		starter  string
		wantErr  bool
	}{
		{name: "valid", duration: 10, starter: "dana"},
		{name: "zero duration", duration: 0, starter: "dana", wantErr: true},
		{name: "negative duration", duration: -5, starter: "dana", wantErr: true},
		{name: "missing starter", duration: 10, starter: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSortingSession("", valueobjects.NewMapID(), tt.duration, nil, tt.starter)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SortingPhasePreparation, s.Phase())
			assert.Equal(t, tt.duration*60, s.TimeRemaining())
			assert.True(t, s.IsActive())
			assert.Equal(t, DefaultSortingRules(), s.Rules())
		})
	}
}

func TestSortingSessionPhases(t *testing.T) {
	s := testSortingSession(t)

	require.NoError(t, s.SetPhase(SortingPhaseSorting))
	require.NoError(t, s.SetPhase(SortingPhaseDiscussion))
	require.NoError(t, s.SetPhase(SortingPhaseCompleted))
	assert.False(t, s.IsActive())

	// completed is terminal
	err := s.SetPhase(SortingPhaseSorting)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, SortingPhaseCompleted, s.Phase())
}

func TestSortingSessionUnknownPhase(t *testing.T) {
	s := testSortingSession(t)

	err := s.SetPhase(SortingPhase("lunch"))
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, SortingPhasePreparation, s.Phase())
}

func TestSortingSessionTimer(t *testing.T) {
	s := testSortingSession(t)

	require.NoError(t, s.SetTimeRemaining(90))
	assert.Equal(t, 90, s.TimeRemaining())

	err := s.SetTimeRemaining(-1)
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, s.SetPhase(SortingPhaseCompleted))
	err = s.SetTimeRemaining(30)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestSortingSessionParticipantsCopied(t *testing.T) {
	participants := []string{"dana", "sam"}
	s, err := NewSortingSession("", valueobjects.NewMapID(), 10, participants, "dana")
	require.NoError(t, err)

	participants[0] = "mallory"
	got := s.Participants()
	assert.Equal(t, []string{"dana", "sam"}, got)

	got[1] = "mallory"
	assert.Equal(t, []string{"dana", "sam"}, s.Participants())
}
