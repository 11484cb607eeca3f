package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

func testConnection(t *testing.T, source, target valueobjects.GroupID, createdBy string) *Connection {
	t.Helper()
	conn, err := NewConnection("", valueobjects.NewMapID(), source, target, ConnectionTypeRelated, "", 0, createdBy)
	require.NoError(t, err)
	return conn
}

func TestNewConnectionValidation(t *testing.T) {
	mapID := valueobjects.NewMapID()
	source := valueobjects.NewGroupID()
	target := valueobjects.NewGroupID()

	tests := []struct {
		name      string
		connType  ConnectionType
		strength  int
		createdBy string
		wantErr   bool
	}{
		{"valid related", ConnectionTypeRelated, 3, "user-1", false},
		{"valid without strength", ConnectionTypeHierarchy, 0, "user-1", false},
		{"unknown type", ConnectionType("similar"), 0, "user-1", true},
		{"strength too low", ConnectionTypeRelated, -1, "user-1", true},
		{"strength too high", ConnectionTypeRelated, 6, "user-1", true},
		{"missing creator", ConnectionTypeRelated, 3, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := NewConnection("", mapID, source, target, tt.connType, "label", tt.strength, tt.createdBy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, conn.ID())
			assert.Equal(t, tt.connType, conn.Type())
		})
	}
}

func TestValidateNewConnectionOrder(t *testing.T) {
	a := valueobjects.NewGroupID()
	b := valueobjects.NewGroupID()
	missing := valueobjects.NewGroupID()

	exists := func(known ...valueobjects.GroupID) func(valueobjects.GroupID) bool {
		return func(id valueobjects.GroupID) bool {
			for _, k := range known {
				if k.Equals(id) {
					return true
				}
			}
			return false
		}
	}

	t.Run("source missing", func(t *testing.T) {
		err := ValidateNewConnection(missing, b, nil, exists(b))
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("target missing", func(t *testing.T) {
		err := ValidateNewConnection(a, missing, nil, exists(a))
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("self loop", func(t *testing.T) {
		err := ValidateNewConnection(a, a, nil, exists(a))
		require.True(t, pkgerrors.IsConflict(err))
		assert.Contains(t, err.Error(), "Cannot connect a group to itself")
	})

	t.Run("duplicate either direction", func(t *testing.T) {
		existing := []*Connection{testConnection(t, a, b, "user-1")}

		err := ValidateNewConnection(a, b, existing, exists(a, b))
		require.True(t, pkgerrors.IsConflict(err))
		assert.Contains(t, err.Error(), "Connection already exists between these groups")

		err = ValidateNewConnection(b, a, existing, exists(a, b))
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("degree cap on source", func(t *testing.T) {
		var existing []*Connection
		for i := 0; i < MaxConnectionsPerGroup; i++ {
			existing = append(existing, testConnection(t, a, valueobjects.NewGroupID(), "user-1"))
		}

		err := ValidateNewConnection(a, b, existing, exists(a, b))
		require.True(t, pkgerrors.IsConflict(err))
		assert.Contains(t, err.Error(), "Source group has too many connections")
	})

	t.Run("degree cap on target", func(t *testing.T) {
		var existing []*Connection
		for i := 0; i < MaxConnectionsPerGroup; i++ {
			existing = append(existing, testConnection(t, b, valueobjects.NewGroupID(), "user-1"))
		}

		err := ValidateNewConnection(a, b, existing, exists(a, b))
		require.True(t, pkgerrors.IsConflict(err))
		assert.Contains(t, err.Error(), "Target group has too many connections")
	})
}

func TestApplyUpdateCreatorOnly(t *testing.T) {
	conn := testConnection(t, valueobjects.NewGroupID(), valueobjects.NewGroupID(), "user-1")

	newType := ConnectionTypeContradiction
	label := "conflicting findings"
	strength := 4

	err := conn.ApplyUpdate("user-2", ConnectionUpdates{Type: &newType})
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, conn.ApplyUpdate("user-1", ConnectionUpdates{
		Type:     &newType,
		Label:    &label,
		Strength: &strength,
	}))
	assert.Equal(t, ConnectionTypeContradiction, conn.Type())
	assert.Equal(t, "conflicting findings", conn.Label())
	assert.Equal(t, 4, conn.Strength())

	bad := 9
	err = conn.ApplyUpdate("user-1", ConnectionUpdates{Strength: &bad})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestAuthorizeDelete(t *testing.T) {
	conn := testConnection(t, valueobjects.NewGroupID(), valueobjects.NewGroupID(), "user-1")

	assert.True(t, pkgerrors.IsForbidden(conn.AuthorizeDelete("user-2")))
	assert.NoError(t, conn.AuthorizeDelete("user-1"))
}

func TestTouchesAndLinks(t *testing.T) {
	a := valueobjects.NewGroupID()
	b := valueobjects.NewGroupID()
	c := valueobjects.NewGroupID()
	conn := testConnection(t, a, b, "user-1")

	assert.True(t, conn.Touches(a))
	assert.True(t, conn.Touches(b))
	assert.False(t, conn.Touches(c))

	assert.True(t, conn.Links(a, b))
	assert.True(t, conn.Links(b, a))
	assert.False(t, conn.Links(a, c))
}
