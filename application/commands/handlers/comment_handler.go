package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/application/services"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// CommentCommandHandler handles group comments and the mention fan-out
// they trigger
type CommentCommandHandler struct {
	comments ports.CommentRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	activity *services.ActivityService
	logger   *zap.Logger
}

// NewCommentCommandHandler creates the comment command handler
func NewCommentCommandHandler(
	comments ports.CommentRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	activity *services.ActivityService,
	logger *zap.Logger,
) *CommentCommandHandler {
	return &CommentCommandHandler{
		comments: comments,
		maps:     maps,
		projects: projects,
		activity: activity,
		logger:   logger,
	}
}

// HandleAddComment attaches a comment to a group. The comment action
// notifies the other members; @mentions in the text additionally fan
// out a mention notification.
func (h *CommentCommandHandler) HandleAddComment(ctx context.Context, cmd commands.AddCommentCommand) error {
	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return err
	}
	if err := h.authorize(ctx, m.ProjectID(), cmd.UserID); err != nil {
		return err
	}

	groupID, err := valueobjects.NewGroupIDFromString(cmd.GroupID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid group ID format")
	}
	group, ok := m.FindGroup(groupID)
	if !ok {
		return pkgerrors.NewNotFoundError("Group")
	}

	comment, err := entities.NewComment(cmd.CommentID, mapID, groupID, cmd.UserID, cmd.UserName, cmd.Text)
	if err != nil {
		return err
	}

	if err := h.comments.Save(ctx, comment); err != nil {
		return pkgerrors.Wrap(err, "failed to save comment")
	}

	actor := services.Actor{UserID: cmd.UserID, UserName: cmd.UserName}
	h.activity.Record(ctx, mapID, m.ProjectID(), actor,
		entities.ActionCommentAdded, cmd.GroupID, group.Title, firstLine(cmd.Text))

	if mentions := comment.Mentions(); len(mentions) > 0 {
		h.activity.Record(ctx, mapID, m.ProjectID(), actor,
			entities.ActionUserMentioned, cmd.GroupID, group.Title, strings.Join(mentions, ", "))
	}

	h.activity.BroadcastMapUpdated(ctx, mapID)
	return nil
}

// HandleResolveComment marks a comment thread as resolved
func (h *CommentCommandHandler) HandleResolveComment(ctx context.Context, cmd commands.ResolveCommentCommand) error {
	comment, err := h.comments.GetByID(ctx, cmd.CommentID)
	if err != nil {
		return err
	}

	m, err := h.maps.GetByID(ctx, comment.MapID())
	if err != nil {
		return err
	}
	if err := h.authorize(ctx, m.ProjectID(), cmd.UserID); err != nil {
		return err
	}

	comment.Resolve()
	if err := h.comments.Save(ctx, comment); err != nil {
		return pkgerrors.Wrap(err, "failed to save comment")
	}

	h.activity.BroadcastMapUpdated(ctx, comment.MapID())
	return nil
}

func (h *CommentCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}
