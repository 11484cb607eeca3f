package handlers

import (
	"context"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	pkgerrors "insightmap-backend/pkg/errors"
)

// InsightCommandHandler handles the insight corpus mutations that do
// not touch any map
type InsightCommandHandler struct {
	insights ports.InsightRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewInsightCommandHandler creates the insight command handler
func NewInsightCommandHandler(
	insights ports.InsightRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *InsightCommandHandler {
	return &InsightCommandHandler{
		insights: insights,
		projects: projects,
		logger:   logger,
	}
}

// HandleCreateManualInsight records a user-authored insight for a
// project
func (h *InsightCommandHandler) HandleCreateManualInsight(ctx context.Context, cmd commands.CreateManualInsightCommand) error {
	if err := h.authorize(ctx, cmd.ProjectID, cmd.UserID); err != nil {
		return err
	}

	insight, err := entities.NewManualInsight(cmd.InsightID, cmd.ProjectID, entities.InsightType(cmd.Type), cmd.Text, cmd.UserID)
	if err != nil {
		return err
	}

	if err := h.insights.Save(ctx, insight); err != nil {
		return pkgerrors.Wrap(err, "failed to save insight")
	}

	h.logger.Info("manual insight created",
		zap.String("insightId", insight.ID()),
		zap.String("projectId", cmd.ProjectID))
	return nil
}

// HandleDeleteInsight removes an insight from the project corpus. Map
// group lists referencing it are left to the client to clean up
// through the group operations.
func (h *InsightCommandHandler) HandleDeleteInsight(ctx context.Context, cmd commands.DeleteInsightCommand) error {
	insight, err := h.insights.GetByID(ctx, cmd.InsightID)
	if err != nil {
		return err
	}

	if err := h.authorize(ctx, insight.ProjectID(), cmd.UserID); err != nil {
		return err
	}

	if err := h.insights.Delete(ctx, cmd.InsightID); err != nil {
		return pkgerrors.Wrap(err, "failed to delete insight")
	}
	return nil
}

func (h *InsightCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}
