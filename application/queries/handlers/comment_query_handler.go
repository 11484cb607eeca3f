package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// CommentQueryHandler serves comment reads
type CommentQueryHandler struct {
	comments ports.CommentRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewCommentQueryHandler creates the comment query handler
func NewCommentQueryHandler(
	comments ports.CommentRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *CommentQueryHandler {
	return &CommentQueryHandler{
		comments: comments,
		maps:     maps,
		projects: projects,
		logger:   logger,
	}
}

// Handle lists a map's comments, narrowed to one group when a group
// id is given
func (h *CommentQueryHandler) Handle(ctx context.Context, query queries.GetCommentsQuery) (*queries.CommentListResult, error) {
	mapID, err := valueobjects.NewMapIDFromString(query.MapID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid map ID format")
	}

	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, h.projects, m.ProjectID(), query.UserID); err != nil {
		return nil, err
	}

	var comments []*entities.Comment
	if query.GroupID != "" {
		groupID, err := valueobjects.NewGroupIDFromString(query.GroupID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid group ID format")
		}
		comments, err = h.comments.GetByGroup(ctx, mapID, groupID)
		if err != nil {
			return nil, err
		}
	} else {
		comments, err = h.comments.GetByMap(ctx, mapID)
		if err != nil {
			return nil, err
		}
	}

	result := &queries.CommentListResult{Comments: make([]queries.CommentView, 0, len(comments))}
	for _, c := range comments {
		result.Comments = append(result.Comments, queries.CommentView{
			ID:        c.ID(),
			GroupID:   c.GroupID().String(),
			UserID:    c.UserID(),
			UserName:  c.UserName(),
			Text:      c.Text(),
			Mentions:  c.Mentions(),
			Resolved:  c.Resolved(),
			CreatedAt: c.CreatedAt().Format(time.RFC3339),
		})
	}
	return result, nil
}
