package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func newTestMap(t *testing.T) *AffinityMap {
	t.Helper()
	m, err := NewAffinityMap(valueobjects.NewMapID(), "project-1", "Session 1", "user-1")
	require.NoError(t, err)
	return m
}

func addTestGroup(t *testing.T, m *AffinityMap, title string) valueobjects.GroupID {
	t.Helper()
	id, err := m.AddGroup(valueobjects.NewGroupID(), title, "#fde047", valueobjects.NewPosition(0, 0), "user-1")
	require.NoError(t, err)
	return id
}

func TestNewAffinityMap(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		mapName   string
		createdBy string
		wantErr   bool
	}{
		{"valid", "project-1", "Session 1", "user-1", false},
		{"missing project", "", "Session 1", "user-1", true},
		{"missing name", "project-1", "", "user-1", true},
		{"missing creator", "project-1", "Session 1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewAffinityMap(valueobjects.NewMapID(), tt.projectID, tt.mapName, tt.createdBy)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, m.IsCurrent())
			assert.Equal(t, 1, m.Version())
			assert.Empty(t, m.Groups())
			assert.Len(t, m.GetUncommittedEvents(), 1)
		})
	}
}

func TestAddInsightToGroupSingleMembership(t *testing.T) {
	m := newTestMap(t)
	g1 := addTestGroup(t, m, "Onboarding")
	g2 := addTestGroup(t, m, "Checkout")

	require.NoError(t, m.AddInsightToGroup(g1, "insight-1", "user-1"))

	owner, ok := m.InsightMembership("insight-1")
	require.True(t, ok)
	assert.True(t, owner.Equals(g1))

	// moving to another group removes it from the first in the same mutation
	require.NoError(t, m.AddInsightToGroup(g2, "insight-1", "user-1"))

	owner, ok = m.InsightMembership("insight-1")
	require.True(t, ok)
	assert.True(t, owner.Equals(g2))

	first, _ := m.FindGroup(g1)
	second, _ := m.FindGroup(g2)
	assert.Empty(t, first.InsightIDs)
	assert.Equal(t, []string{"insight-1"}, second.InsightIDs)
}

func TestAddInsightToGroupAppendsAtEnd(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")

	require.NoError(t, m.AddInsightToGroup(g, "a", "user-1"))
	require.NoError(t, m.AddInsightToGroup(g, "b", "user-1"))
	require.NoError(t, m.AddInsightToGroup(g, "a", "user-1"))

	group, _ := m.FindGroup(g)
	assert.Equal(t, []string{"b", "a"}, group.InsightIDs)
}

func TestAddInsightToGroupMissingGroup(t *testing.T) {
	m := newTestMap(t)
	err := m.AddInsightToGroup(valueobjects.NewGroupID(), "insight-1", "user-1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestMoveGroup(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")

	require.NoError(t, m.MoveGroup(g, valueobjects.NewPosition(120, 80), "user-1"))
	group, _ := m.FindGroup(g)
	assert.Equal(t, valueobjects.NewPosition(120, 80), group.Position)

	// moving to the same position is a no-op and does not bump the version
	before := m.Version()
	require.NoError(t, m.MoveGroup(g, valueobjects.NewPosition(120, 80), "user-1"))
	assert.Equal(t, before, m.Version())

	err := m.MoveGroup(valueobjects.NewGroupID(), valueobjects.NewPosition(1, 1), "user-1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRenameGroup(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")

	require.NoError(t, m.RenameGroup(g, "First run", "user-1"))
	group, _ := m.FindGroup(g)
	assert.Equal(t, "First run", group.Title)

	assert.True(t, pkgerrors.IsValidation(m.RenameGroup(g, "", "user-1")))
	assert.True(t, pkgerrors.IsNotFound(m.RenameGroup(valueobjects.NewGroupID(), "X", "user-1")))
}

func TestRemoveGroup(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")
	require.NoError(t, m.AddInsightToGroup(g, "insight-1", "user-1"))

	require.NoError(t, m.RemoveGroup(g, "user-1"))
	assert.False(t, m.HasGroup(g))
	_, ok := m.InsightMembership("insight-1")
	assert.False(t, ok)

	assert.True(t, pkgerrors.IsNotFound(m.RemoveGroup(g, "user-1")))
}

func TestReorderInsights(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.AddInsightToGroup(g, id, "user-1"))
	}

	require.NoError(t, m.ReorderInsights(g, []string{"c", "a", "b"}, "user-1"))
	group, _ := m.FindGroup(g)
	assert.Equal(t, []string{"c", "a", "b"}, group.InsightIDs)

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing id", []string{"a", "b"}},
		{"extra id", []string{"a", "b", "c", "d"}},
		{"duplicated id", []string{"a", "a", "b"}},
		{"foreign id", []string{"a", "b", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ReorderInsights(g, tt.ids, "user-1")
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}

	err := m.ReorderInsights(valueobjects.NewGroupID(), []string{"a"}, "user-1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestReplaceAllGroupsCopies(t *testing.T) {
	m := newTestMap(t)
	addTestGroup(t, m, "Onboarding")

	snapshot := m.Groups()
	replacement := []Group{
		{
			ID:         valueobjects.NewGroupID(),
			Title:      "Restored",
			Position:   valueobjects.NewPosition(10, 10),
			InsightIDs: []string{"a"},
		},
	}
	m.ReplaceAllGroups(replacement)

	// mutating the caller's slice must not leak into the aggregate
	replacement[0].InsightIDs[0] = "mutated"
	group, _ := m.FindGroup(replacement[0].ID)
	assert.Equal(t, []string{"a"}, group.InsightIDs)

	// the earlier snapshot is equally isolated
	assert.Equal(t, "Onboarding", snapshot[0].Title)
}

func TestAddGroupDuplicateID(t *testing.T) {
	m := newTestMap(t)
	g := addTestGroup(t, m, "Onboarding")

	_, err := m.AddGroup(g, "Other", "", valueobjects.NewPosition(0, 0), "user-1")
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestMarkNotCurrent(t *testing.T) {
	m := newTestMap(t)
	before := m.Version()

	m.MarkNotCurrent()
	assert.False(t, m.IsCurrent())
	assert.Greater(t, m.Version(), before)

	// demoting twice does not bump the version again
	after := m.Version()
	m.MarkNotCurrent()
	assert.Equal(t, after, m.Version())
}
