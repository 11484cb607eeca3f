package queries

import "errors"

// GetSortingSessionQuery fetches the map's active silent-sorting
// session, if any
type GetSortingSessionQuery struct {
	MapID  string
	UserID string
}

// Validate validates the GetSortingSessionQuery
func (q GetSortingSessionQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// SortingSessionView is the read model of one sorting session
type SortingSessionView struct {
	ID            string   `json:"id"`
	MapID         string   `json:"mapId"`
	Phase         string   `json:"phase"`
	Duration      int      `json:"duration"`
	TimeRemaining int      `json:"timeRemaining"`
	Participants  []string `json:"participants"`
	Rules         Rules    `json:"rules"`
	StartedBy     string   `json:"startedBy"`
	StartedAt     string   `json:"startedAt"`
}

// Rules mirrors the session ground rules for clients
type Rules struct {
	NoTalking          bool `json:"noTalking"`
	IndependentSorting bool `json:"independentSorting"`
	MoveFreely         bool `json:"moveFreely"`
	CreateGroups       bool `json:"createGroups"`
}

// SortingSessionResult wraps the active session; Session is nil when
// the map has none
type SortingSessionResult struct {
	Session *SortingSessionView `json:"session"`
}
