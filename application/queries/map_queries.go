// Package queries defines the read operations and their result DTOs.
// Results are flat JSON-ready shapes; domain types never cross the
// query boundary.
package queries

import "errors"

// GetMapQuery fetches one map by id
type GetMapQuery struct {
	MapID  string
	UserID string
}

// Validate validates the GetMapQuery
func (q GetMapQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GetCurrentMapQuery fetches the project's current map
type GetCurrentMapQuery struct {
	ProjectID string
	UserID    string
}

// Validate validates the GetCurrentMapQuery
func (q GetCurrentMapQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// ListMapsQuery lists all maps of a project
type ListMapsQuery struct {
	ProjectID string
	UserID    string
}

// Validate validates the ListMapsQuery
func (q ListMapsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// Position is a 2D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GroupView is the read model of one group on a map
type GroupView struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Color      string   `json:"color"`
	Position   Position `json:"position"`
	InsightIDs []string `json:"insightIds"`
}

// MapResult is the full read model of a map
type MapResult struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectId"`
	Name      string      `json:"name"`
	Version   int         `json:"version"`
	IsCurrent bool        `json:"isCurrent"`
	Groups    []GroupView `json:"groups"`
	CreatedBy string      `json:"createdBy"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

// MapSummary is the list-view shape of a map
type MapSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsCurrent  bool   `json:"isCurrent"`
	GroupCount int    `json:"groupCount"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ListMapsResult holds a project's maps, current first
type ListMapsResult struct {
	Maps []MapSummary `json:"maps"`
}
