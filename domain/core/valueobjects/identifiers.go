package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// MapID is a value object identifying an affinity map
// Value objects are immutable and have no identity beyond their value
type MapID struct {
	value string
}

// NewMapID creates a new random MapID
func NewMapID() MapID {
	return MapID{value: uuid.New().String()}
}

// NewMapIDFromString creates a MapID from an existing string
func NewMapIDFromString(id string) (MapID, error) {
	if id == "" {
		return MapID{}, errors.New("map ID cannot be empty")
	}
	return MapID{value: id}, nil
}

// String returns the string representation of the MapID
func (id MapID) String() string {
	return id.value
}

// Equals checks if two MapIDs are equal
func (id MapID) Equals(other MapID) bool {
	return id.value == other.value
}

// IsZero checks if the MapID is the zero value
func (id MapID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MapID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MapID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("MapID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// GroupID is a value object identifying a group on a map
type GroupID struct {
	value string
}

// NewGroupID creates a new random GroupID
func NewGroupID() GroupID {
	return GroupID{value: uuid.New().String()}
}

// NewGroupIDFromString creates a GroupID from an existing string
func NewGroupIDFromString(id string) (GroupID, error) {
	if id == "" {
		return GroupID{}, errors.New("group ID cannot be empty")
	}
	return GroupID{value: id}, nil
}

// String returns the string representation of the GroupID
func (id GroupID) String() string {
	return id.value
}

// Equals checks if two GroupIDs are equal
func (id GroupID) Equals(other GroupID) bool {
	return id.value == other.value
}

// IsZero checks if the GroupID is the zero value
func (id GroupID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id GroupID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *GroupID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("GroupID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// NewID generates a random identifier for entities that carry their
// id as a plain string (connections, insights, comments, votes)
func NewID() string {
	return uuid.New().String()
}
