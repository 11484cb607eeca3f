package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func testSession(t *testing.T, budget int) *VotingSession {
	t.Helper()
	s, err := NewVotingSession("", "project-1", valueobjects.NewMapID(), "Priorities", budget, "user-1")
	require.NoError(t, err)
	return s
}

func TestNewVotingSessionValidation(t *testing.T) {
	mapID := valueobjects.NewMapID()

	_, err := NewVotingSession("", "", mapID, "Priorities", 5, "user-1")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewVotingSession("", "project-1", valueobjects.MapID{}, "Priorities", 5, "user-1")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewVotingSession("", "project-1", mapID, "", 5, "user-1")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewVotingSession("", "project-1", mapID, "Priorities", 0, "user-1")
	assert.True(t, pkgerrors.IsValidation(err))

	s, err := NewVotingSession("", "project-1", mapID, "Priorities", 5, "user-1")
	require.NoError(t, err)
	assert.True(t, s.IsActive())
}

func TestValidateCast(t *testing.T) {
	groupID := valueobjects.NewGroupID()

	tests := []struct {
		name           string
		votes          int
		spentElsewhere int
		wantConflict   bool
		wantValidation bool
	}{
		{"within budget", 3, 2, false, false},
		{"exactly at budget", 5, 0, false, false},
		{"over budget", 3, 3, true, false},
		{"retract with zero", 0, 5, false, false},
		{"negative votes", -1, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, 5)
			err := s.ValidateCast(groupID, tt.votes, tt.spentElsewhere)
			switch {
			case tt.wantConflict:
				assert.True(t, pkgerrors.IsConflict(err))
			case tt.wantValidation:
				assert.True(t, pkgerrors.IsValidation(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCastClosedSession(t *testing.T) {
	s := testSession(t, 5)
	s.Close()

	err := s.ValidateCast(valueobjects.NewGroupID(), 1, 0)
	require.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "Voting session is closed")
}

func TestTallyVotes(t *testing.T) {
	g1 := valueobjects.NewGroupID()
	g2 := valueobjects.NewGroupID()
	g3 := valueobjects.NewGroupID()

	votes := []Vote{
		NewVote("s-1", "user-1", g1, 2),
		NewVote("s-1", "user-2", g1, 1),
		NewVote("s-1", "user-1", g2, 4),
		NewVote("s-1", "user-2", g3, 4),
	}

	results := TallyVotes(votes, []valueobjects.GroupID{g1, g2, g3}, "user-1")
	require.Len(t, results, 3)

	// g2 and g3 tie at 4; g2 keeps its earlier slot
	assert.True(t, results[0].GroupID.Equals(g2))
	assert.Equal(t, 4, results[0].TotalVotes)
	assert.Equal(t, 4, results[0].UserVotes)

	assert.True(t, results[1].GroupID.Equals(g3))
	assert.Equal(t, 0, results[1].UserVotes)

	assert.True(t, results[2].GroupID.Equals(g1))
	assert.Equal(t, 3, results[2].TotalVotes)
	assert.Equal(t, 2, results[2].UserVotes)
}
