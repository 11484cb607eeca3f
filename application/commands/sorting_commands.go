package commands

import "errors"

// StartSortingSessionCommand opens a timed silent-sorting round on a
// map, starting in the preparation phase
type StartSortingSessionCommand struct {
	SessionID    string   `json:"session_id" validate:"required"`
	MapID        string   `json:"map_id" validate:"required"`
	Duration     int      `json:"duration" validate:"min=1,max=180"`
	Participants []string `json:"participants"`
	UserID       string   `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd StartSortingSessionCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.MapID == "" {
		return errors.New("map ID is required")
	}
	if cmd.Duration < 1 {
		return errors.New("duration must be at least 1 minute")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// UpdateSortingPhaseCommand moves a session to another phase
type UpdateSortingPhaseCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	Phase     string `json:"phase" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd UpdateSortingPhaseCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.Phase == "" {
		return errors.New("phase is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// UpdateSortingTimerCommand records the facilitator's countdown tick
type UpdateSortingTimerCommand struct {
	SessionID     string `json:"session_id" validate:"required"`
	TimeRemaining int    `json:"time_remaining" validate:"min=0"`
	UserID        string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd UpdateSortingTimerCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.TimeRemaining < 0 {
		return errors.New("time remaining must not be negative")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
