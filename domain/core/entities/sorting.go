package entities

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// SortingPhase is the stage a silent sorting session is in
type SortingPhase string

const (
	SortingPhasePreparation SortingPhase = "preparation"
	SortingPhaseIdle        SortingPhase = "idle"
	SortingPhaseSorting     SortingPhase = "sorting"
	SortingPhaseDiscussion  SortingPhase = "discussion"
	SortingPhaseCompleted   SortingPhase = "completed"
)

// ValidSortingPhase reports whether the value names a known phase
func ValidSortingPhase(phase SortingPhase) bool {
	switch phase {
	case SortingPhasePreparation, SortingPhaseIdle, SortingPhaseSorting,
		SortingPhaseDiscussion, SortingPhaseCompleted:
		return true
	}
	return false
}

// SortingRules are the ground rules shown to participants during a
// silent round. All default to on.
type SortingRules struct {
	NoTalking          bool `json:"noTalking"`
	IndependentSorting bool `json:"independentSorting"`
	MoveFreely         bool `json:"moveFreely"`
	CreateGroups       bool `json:"createGroups"`
}

// DefaultSortingRules returns the standard silent-round rules
func DefaultSortingRules() SortingRules {
	return SortingRules{
		NoTalking:          true,
		IndependentSorting: true,
		MoveFreely:         true,
		CreateGroups:       true,
	}
}

// SortingSession is a timed silent-sorting round on one map. The
// facilitator drives the phase and the shared countdown; once the
// session reaches completed it stays there.
type SortingSession struct {
	id              string
	mapID           valueobjects.MapID
	phase           SortingPhase
	durationMinutes int
	timeRemaining   int
	participants    []string
	rules           SortingRules
	startedBy       string
	startedAt       time.Time
	updatedAt       time.Time
}

// NewSortingSession starts a session in the preparation phase with the
// full duration on the clock. An empty id gets a fresh one.
func NewSortingSession(id string, mapID valueobjects.MapID, durationMinutes int, participants []string, startedBy string) (*SortingSession, error) {
	if id == "" {
		id = valueobjects.NewID()
	}
	if mapID.IsZero() {
		return nil, pkgerrors.NewValidationError("mapID cannot be empty")
	}
	if durationMinutes <= 0 {
		return nil, pkgerrors.NewValidationError("duration must be positive")
	}
	if startedBy == "" {
		return nil, pkgerrors.NewValidationError("startedBy cannot be empty")
	}

	now := time.Now()
	return &SortingSession{
		id:              id,
		mapID:           mapID,
		phase:           SortingPhasePreparation,
		durationMinutes: durationMinutes,
		timeRemaining:   durationMinutes * 60,
		participants:    append([]string(nil), participants...),
		rules:           DefaultSortingRules(),
		startedBy:       startedBy,
		startedAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructSortingSession rebuilds a session from repository data
func ReconstructSortingSession(id string, mapID valueobjects.MapID, phase SortingPhase, durationMinutes, timeRemaining int, participants []string, rules SortingRules, startedBy string, startedAt, updatedAt time.Time) *SortingSession {
	return &SortingSession{
		id:              id,
		mapID:           mapID,
		phase:           phase,
		durationMinutes: durationMinutes,
		timeRemaining:   timeRemaining,
		participants:    participants,
		rules:           rules,
		startedBy:       startedBy,
		startedAt:       startedAt,
		updatedAt:       updatedAt,
	}
}

func (s *SortingSession) ID() string                { return s.id }
func (s *SortingSession) MapID() valueobjects.MapID { return s.mapID }
func (s *SortingSession) Phase() SortingPhase       { return s.phase }
func (s *SortingSession) DurationMinutes() int      { return s.durationMinutes }
func (s *SortingSession) TimeRemaining() int        { return s.timeRemaining }
func (s *SortingSession) Rules() SortingRules       { return s.rules }
func (s *SortingSession) StartedBy() string         { return s.startedBy }
func (s *SortingSession) StartedAt() time.Time      { return s.startedAt }
func (s *SortingSession) UpdatedAt() time.Time      { return s.updatedAt }

// Participants returns a copy of the participant list
func (s *SortingSession) Participants() []string {
	return append([]string(nil), s.participants...)
}

// IsActive reports whether the session still drives the map
func (s *SortingSession) IsActive() bool {
	return s.phase != SortingPhaseCompleted
}

// SetPhase moves the session to the given phase. Completed is
// terminal.
func (s *SortingSession) SetPhase(phase SortingPhase) error {
	if !ValidSortingPhase(phase) {
		return pkgerrors.NewValidationError("unknown sorting phase")
	}
	if s.phase == SortingPhaseCompleted {
		return pkgerrors.NewConflictError("Sorting session is completed")
	}
	s.phase = phase
	s.updatedAt = time.Now()
	return nil
}

// SetTimeRemaining records the facilitator's countdown tick
func (s *SortingSession) SetTimeRemaining(seconds int) error {
	if seconds < 0 {
		return pkgerrors.NewValidationError("timeRemaining cannot be negative")
	}
	if s.phase == SortingPhaseCompleted {
		return pkgerrors.NewConflictError("Sorting session is completed")
	}
	s.timeRemaining = seconds
	s.updatedAt = time.Now()
	return nil
}
