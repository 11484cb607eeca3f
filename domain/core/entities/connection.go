package entities

import (
	"fmt"
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// ConnectionType defines the kind of relationship between two groups
type ConnectionType string

const (
	ConnectionTypeRelated       ConnectionType = "related"
	ConnectionTypeHierarchy     ConnectionType = "hierarchy"
	ConnectionTypeDependency    ConnectionType = "dependency"
	ConnectionTypeContradiction ConnectionType = "contradiction"
)

// IsValid reports whether the type is one of the closed set
func (t ConnectionType) IsValid() bool {
	switch t {
	case ConnectionTypeRelated, ConnectionTypeHierarchy, ConnectionTypeDependency, ConnectionTypeContradiction:
		return true
	}
	return false
}

// MaxConnectionsPerGroup caps the degree of any group in the graph
const MaxConnectionsPerGroup = 10

// Connection is a typed edge between two groups on a map.
// Only its creator may update or delete it.
type Connection struct {
	id            string
	mapID         valueobjects.MapID
	sourceGroupID valueobjects.GroupID
	targetGroupID valueobjects.GroupID
	connType      ConnectionType
	label         string
	strength      int
	createdBy     string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewConnection creates a connection after shape-level validation.
// Graph-level rules (duplicates, degree caps) are checked separately
// against the map's existing connection set. Callers pre-generate the
// id; an empty id gets a fresh one.
func NewConnection(id string, mapID valueobjects.MapID, source, target valueobjects.GroupID, connType ConnectionType, label string, strength int, createdBy string) (*Connection, error) {
	if id == "" {
		id = valueobjects.NewID()
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}
	if !connType.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid connection type: %s", connType))
	}
	if strength != 0 && (strength < 1 || strength > 5) {
		return nil, pkgerrors.NewValidationError("strength must be between 1 and 5")
	}

	now := time.Now()
	return &Connection{
		id:            id,
		mapID:         mapID,
		sourceGroupID: source,
		targetGroupID: target,
		connType:      connType,
		label:         label,
		strength:      strength,
		createdBy:     createdBy,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructConnection rebuilds a connection from repository data
func ReconstructConnection(id string, mapID valueobjects.MapID, source, target valueobjects.GroupID, connType ConnectionType, label string, strength int, createdBy string, createdAt, updatedAt time.Time) *Connection {
	return &Connection{
		id:            id,
		mapID:         mapID,
		sourceGroupID: source,
		targetGroupID: target,
		connType:      connType,
		label:         label,
		strength:      strength,
		createdBy:     createdBy,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (c *Connection) ID() string                           { return c.id }
func (c *Connection) MapID() valueobjects.MapID            { return c.mapID }
func (c *Connection) SourceGroupID() valueobjects.GroupID  { return c.sourceGroupID }
func (c *Connection) TargetGroupID() valueobjects.GroupID  { return c.targetGroupID }
func (c *Connection) Type() ConnectionType                 { return c.connType }
func (c *Connection) Label() string                        { return c.label }
func (c *Connection) Strength() int                        { return c.strength }
func (c *Connection) CreatedBy() string                    { return c.createdBy }
func (c *Connection) CreatedAt() time.Time                 { return c.createdAt }
func (c *Connection) UpdatedAt() time.Time                 { return c.updatedAt }

// Touches reports whether the connection has the group as an endpoint
func (c *Connection) Touches(groupID valueobjects.GroupID) bool {
	return c.sourceGroupID.Equals(groupID) || c.targetGroupID.Equals(groupID)
}

// Links reports whether the connection joins the unordered pair
func (c *Connection) Links(a, b valueobjects.GroupID) bool {
	return (c.sourceGroupID.Equals(a) && c.targetGroupID.Equals(b)) ||
		(c.sourceGroupID.Equals(b) && c.targetGroupID.Equals(a))
}

// ConnectionUpdates carries the mutable fields of a connection
type ConnectionUpdates struct {
	Type     *ConnectionType
	Label    *string
	Strength *int
}

// ApplyUpdate mutates the connection on behalf of the caller.
// Only the creator may update, project owners included.
func (c *Connection) ApplyUpdate(caller string, updates ConnectionUpdates) error {
	if c.createdBy != caller {
		return pkgerrors.NewForbiddenError("Only the connection creator can update it")
	}
	if updates.Type != nil {
		if !updates.Type.IsValid() {
			return pkgerrors.NewValidationError(fmt.Sprintf("invalid connection type: %s", *updates.Type))
		}
		c.connType = *updates.Type
	}
	if updates.Label != nil {
		c.label = *updates.Label
	}
	if updates.Strength != nil {
		if *updates.Strength < 1 || *updates.Strength > 5 {
			return pkgerrors.NewValidationError("strength must be between 1 and 5")
		}
		c.strength = *updates.Strength
	}
	c.updatedAt = time.Now()
	return nil
}

// AuthorizeDelete checks that the caller may delete the connection
func (c *Connection) AuthorizeDelete(caller string) error {
	if c.createdBy != caller {
		return pkgerrors.NewForbiddenError("Only the connection creator can delete it")
	}
	return nil
}

// ValidateNewConnection runs the graph-level rules for a proposed edge
// against the map's existing connection set, in a fixed order so the
// first violated rule is the one reported: source exists, target
// exists, no self loop, no duplicate in either direction, then degree
// caps on source and target. Messages are surfaced verbatim to users.
func ValidateNewConnection(source, target valueobjects.GroupID, existing []*Connection, groupExists func(valueobjects.GroupID) bool) error {
	if !groupExists(source) {
		return pkgerrors.NewNotFoundError("Source group")
	}
	if !groupExists(target) {
		return pkgerrors.NewNotFoundError("Target group")
	}
	if source.Equals(target) {
		return pkgerrors.NewConflictError("Cannot connect a group to itself")
	}

	for _, conn := range existing {
		if conn.Links(source, target) {
			return pkgerrors.NewConflictError(fmt.Sprintf("Connection already exists between these groups (%s)", conn.connType))
		}
	}

	sourceDegree := 0
	targetDegree := 0
	for _, conn := range existing {
		if conn.Touches(source) {
			sourceDegree++
		}
		if conn.Touches(target) {
			targetDegree++
		}
	}
	if sourceDegree >= MaxConnectionsPerGroup {
		return pkgerrors.NewConflictError(fmt.Sprintf("Source group has too many connections (max: %d)", MaxConnectionsPerGroup))
	}
	if targetDegree >= MaxConnectionsPerGroup {
		return pkgerrors.NewConflictError(fmt.Sprintf("Target group has too many connections (max: %d)", MaxConnectionsPerGroup))
	}

	return nil
}
