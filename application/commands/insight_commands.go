package commands

import (
	"errors"

	"insightmap-backend/domain/core/entities"
)

// CreateManualInsightCommand records a user-authored insight for a
// project, independent of any interview
type CreateManualInsightCommand struct {
	InsightID string `json:"insight_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=pain-point quote insight follow-up custom"`
	Text      string `json:"text" validate:"required,min=1,max=2000"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd CreateManualInsightCommand) Validate() error {
	if cmd.InsightID == "" {
		return errors.New("insight ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if !entities.InsightType(cmd.Type).IsValid() {
		return errors.New("invalid insight type")
	}
	if cmd.Text == "" {
		return errors.New("text is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// DeleteInsightCommand removes an insight from the project corpus
type DeleteInsightCommand struct {
	InsightID string `json:"insight_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteInsightCommand) Validate() error {
	if cmd.InsightID == "" {
		return errors.New("insight ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
