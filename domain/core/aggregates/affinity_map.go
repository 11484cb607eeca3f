package aggregates

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/domain/events"
	pkgerrors "insightmap-backend/pkg/errors"
)

// Group is a positioned, titled container of insight references.
// Groups live only inside a map's group list and have no identity
// beyond the map document.
type Group struct {
	ID         valueobjects.GroupID  `json:"id"`
	Title      string                `json:"title"`
	Color      string                `json:"color"`
	Position   valueobjects.Position `json:"position"`
	InsightIDs []string              `json:"insightIds"`
}

// Clone returns a deep copy of the group
func (g Group) Clone() Group {
	ids := make([]string, len(g.InsightIDs))
	copy(ids, g.InsightIDs)
	g.InsightIDs = ids
	return g
}

// CloneGroups deep-copies a group slice, used by history snapshots
// and the bulk-replace path
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

// AffinityMap is the aggregate root for one shared canvas. All group
// and insight-placement mutations go through it so its invariants
// hold: each insight id appears in at most one group's list, and all
// writes bump updatedAt. The version field backs optimistic locking
// in the repository.
type AffinityMap struct {
	id        valueobjects.MapID
	projectID string
	name      string
	version   int
	isCurrent bool
	groups    []Group
	createdBy string
	createdAt time.Time
	updatedAt time.Time
	events    []events.DomainEvent
}

// NewAffinityMap creates a new current map with no groups. Callers
// pre-generate the id so it is known before the command is dispatched.
func NewAffinityMap(id valueobjects.MapID, projectID, name, createdBy string) (*AffinityMap, error) {
	if id.IsZero() {
		id = valueobjects.NewMapID()
	}
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("projectID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}

	now := time.Now()
	m := &AffinityMap{
		id:        id,
		projectID: projectID,
		name:      name,
		version:   1,
		isCurrent: true,
		groups:    []Group{},
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
		events:    []events.DomainEvent{},
	}

	m.addEvent(events.NewMapCreated(m.id, projectID, name, createdBy, now))

	return m, nil
}

// ReconstructAffinityMap recreates a map from stored data
func ReconstructAffinityMap(id valueobjects.MapID, projectID, name string, version int, isCurrent bool, groups []Group, createdBy string, createdAt, updatedAt time.Time) (*AffinityMap, error) {
	if id.IsZero() || projectID == "" {
		return nil, pkgerrors.NewValidationError("required fields missing for map reconstruction")
	}
	return &AffinityMap{
		id:        id,
		projectID: projectID,
		name:      name,
		version:   version,
		isCurrent: isCurrent,
		groups:    groups,
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
		events:    []events.DomainEvent{},
	}, nil
}

func (m *AffinityMap) ID() valueobjects.MapID { return m.id }
func (m *AffinityMap) ProjectID() string      { return m.projectID }
func (m *AffinityMap) Name() string           { return m.name }
func (m *AffinityMap) Version() int           { return m.version }
func (m *AffinityMap) IsCurrent() bool        { return m.isCurrent }
func (m *AffinityMap) CreatedBy() string      { return m.createdBy }
func (m *AffinityMap) CreatedAt() time.Time   { return m.createdAt }
func (m *AffinityMap) UpdatedAt() time.Time   { return m.updatedAt }

// Groups returns a deep copy of the map's groups
func (m *AffinityMap) Groups() []Group {
	return CloneGroups(m.groups)
}

// GroupCount returns the number of groups on the map
func (m *AffinityMap) GroupCount() int {
	return len(m.groups)
}

// FindGroup returns a copy of the group with the given id
func (m *AffinityMap) FindGroup(groupID valueobjects.GroupID) (Group, bool) {
	for _, g := range m.groups {
		if g.ID.Equals(groupID) {
			return g.Clone(), true
		}
	}
	return Group{}, false
}

// HasGroup reports whether the group exists on the map
func (m *AffinityMap) HasGroup(groupID valueobjects.GroupID) bool {
	_, ok := m.FindGroup(groupID)
	return ok
}

// MarkNotCurrent demotes the map when a newer one becomes current
func (m *AffinityMap) MarkNotCurrent() {
	if !m.isCurrent {
		return
	}
	m.isCurrent = false
	m.touch()
}

// AddGroup appends a new empty group under the given id, generating
// one when the id is zero, and returns the id used
func (m *AffinityMap) AddGroup(id valueobjects.GroupID, title, color string, position valueobjects.Position, actorID string) (valueobjects.GroupID, error) {
	if id.IsZero() {
		id = valueobjects.NewGroupID()
	}
	if title == "" {
		return valueobjects.GroupID{}, pkgerrors.NewValidationError("title cannot be empty")
	}
	if m.HasGroup(id) {
		return valueobjects.GroupID{}, pkgerrors.NewConflictError("Group id already exists on this map")
	}

	group := Group{
		ID:         id,
		Title:      title,
		Color:      color,
		Position:   position,
		InsightIDs: []string{},
	}
	m.groups = append(m.groups, group)
	m.touch()

	m.addEvent(events.NewGroupCreated(m.id, group.ID, title, position, actorID, m.updatedAt))

	return group.ID, nil
}

// AddGroupWithInsight appends a group already holding one insight,
// used for independent note creation
func (m *AffinityMap) AddGroupWithInsight(id valueobjects.GroupID, title, color string, position valueobjects.Position, insightID, actorID string) (valueobjects.GroupID, error) {
	groupID, err := m.AddGroup(id, title, color, position, actorID)
	if err != nil {
		return valueobjects.GroupID{}, err
	}
	if err := m.AddInsightToGroup(groupID, insightID, actorID); err != nil {
		return valueobjects.GroupID{}, err
	}
	return groupID, nil
}

// MoveGroup replaces the position of the matching group. A missing
// group is an error rather than a silent no-op.
func (m *AffinityMap) MoveGroup(groupID valueobjects.GroupID, position valueobjects.Position, actorID string) error {
	for i := range m.groups {
		if m.groups[i].ID.Equals(groupID) {
			oldPos := m.groups[i].Position
			if oldPos.Equals(position) {
				return nil
			}
			m.groups[i].Position = position
			m.touch()
			m.addEvent(events.NewGroupMoved(m.id, groupID, oldPos, position, actorID, m.updatedAt))
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("Group")
}

// RenameGroup replaces the title of the matching group
func (m *AffinityMap) RenameGroup(groupID valueobjects.GroupID, title, actorID string) error {
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	for i := range m.groups {
		if m.groups[i].ID.Equals(groupID) {
			oldTitle := m.groups[i].Title
			if oldTitle == title {
				return nil
			}
			m.groups[i].Title = title
			m.touch()
			m.addEvent(events.NewGroupRenamed(m.id, groupID, oldTitle, title, actorID, m.updatedAt))
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("Group")
}

// RemoveGroup deletes the matching group and its insight references
func (m *AffinityMap) RemoveGroup(groupID valueobjects.GroupID, actorID string) error {
	for i := range m.groups {
		if m.groups[i].ID.Equals(groupID) {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			m.touch()
			m.addEvent(events.NewGroupRemoved(m.id, groupID, actorID, m.updatedAt))
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("Group")
}

// AddInsightToGroup places an insight in the target group. The
// insight is first removed from every group on the map, then appended
// to the target, so a single call implements both first placement and
// move semantics while keeping the single-membership invariant. The
// whole step is one document mutation from the caller's perspective.
func (m *AffinityMap) AddInsightToGroup(groupID valueobjects.GroupID, insightID, actorID string) error {
	if insightID == "" {
		return pkgerrors.NewValidationError("insightID cannot be empty")
	}
	if !m.HasGroup(groupID) {
		return pkgerrors.NewNotFoundError("Group")
	}

	for i := range m.groups {
		filtered := make([]string, 0, len(m.groups[i].InsightIDs))
		for _, id := range m.groups[i].InsightIDs {
			if id != insightID {
				filtered = append(filtered, id)
			}
		}
		if m.groups[i].ID.Equals(groupID) {
			filtered = append(filtered, insightID)
		}
		m.groups[i].InsightIDs = filtered
	}

	m.touch()
	m.addEvent(events.NewInsightMoved(m.id, groupID, insightID, actorID, m.updatedAt))
	return nil
}

// RemoveInsightFromGroup takes an insight off the matching group
func (m *AffinityMap) RemoveInsightFromGroup(groupID valueobjects.GroupID, insightID, actorID string) error {
	for i := range m.groups {
		if !m.groups[i].ID.Equals(groupID) {
			continue
		}
		filtered := make([]string, 0, len(m.groups[i].InsightIDs))
		for _, id := range m.groups[i].InsightIDs {
			if id != insightID {
				filtered = append(filtered, id)
			}
		}
		m.groups[i].InsightIDs = filtered
		m.touch()
		m.addEvent(events.NewInsightRemoved(m.id, groupID, insightID, actorID, m.updatedAt))
		return nil
	}
	return pkgerrors.NewNotFoundError("Group")
}

// ReorderInsights replaces a group's insight order wholesale. The new
// order must contain exactly the ids already in the group.
func (m *AffinityMap) ReorderInsights(groupID valueobjects.GroupID, insightIDs []string, actorID string) error {
	for i := range m.groups {
		if !m.groups[i].ID.Equals(groupID) {
			continue
		}
		if !sameIDSet(m.groups[i].InsightIDs, insightIDs) {
			return pkgerrors.NewValidationError("insightIds must contain exactly the group's current insights")
		}
		reordered := make([]string, len(insightIDs))
		copy(reordered, insightIDs)
		m.groups[i].InsightIDs = reordered
		m.touch()
		return nil
	}
	return pkgerrors.NewNotFoundError("Group")
}

// ReplaceAllGroups overwrites the whole group list, bypassing
// per-field diffing. Used by undo/redo to restore a snapshot.
func (m *AffinityMap) ReplaceAllGroups(groups []Group) {
	m.groups = CloneGroups(groups)
	m.touch()
}

// InsightMembership returns the id of the group currently holding the
// insight, if any
func (m *AffinityMap) InsightMembership(insightID string) (valueobjects.GroupID, bool) {
	for _, g := range m.groups {
		for _, id := range g.InsightIDs {
			if id == insightID {
				return g.ID, true
			}
		}
	}
	return valueobjects.GroupID{}, false
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *AffinityMap) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (m *AffinityMap) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
}

func (m *AffinityMap) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}

func (m *AffinityMap) touch() {
	m.updatedAt = time.Now()
	m.version++
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
