package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/application/queries"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/pkg/common"
)

// InsightQueryHandler pages through a project's insight corpus
type InsightQueryHandler struct {
	insights ports.InsightRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewInsightQueryHandler creates the insight query handler
func NewInsightQueryHandler(insights ports.InsightRepository, projects ports.ProjectRepository, logger *zap.Logger) *InsightQueryHandler {
	return &InsightQueryHandler{insights: insights, projects: projects, logger: logger}
}

// Handle lists a page of the project's insights
func (h *InsightQueryHandler) Handle(ctx context.Context, query queries.ListInsightsQuery) (*queries.ListInsightsResult, error) {
	if err := authorizeRead(ctx, h.projects, query.ProjectID, query.UserID); err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = common.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	var (
		insights []*entities.Insight
		total    int
		err      error
	)
	if query.InterviewID != "" {
		insights, total, err = h.insights.GetByInterview(ctx, query.InterviewID, pageSize, offset)
	} else {
		insights, total, err = h.insights.GetByProject(ctx, query.ProjectID, pageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	result := &queries.ListInsightsResult{
		Insights:   make([]queries.InsightView, 0, len(insights)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: common.CalculateTotalPages(total, pageSize),
	}
	for _, i := range insights {
		result.Insights = append(result.Insights, queries.InsightView{
			ID:               i.ID(),
			ProjectID:        i.ProjectID(),
			InterviewID:      i.InterviewID(),
			Type:             string(i.Type()),
			Text:             i.Text(),
			TimestampSeconds: i.TimestampSeconds(),
			Source:           string(i.Source()),
			Tags:             i.Tags(),
			CreatedBy:        i.CreatedBy(),
			CreatedAt:        i.CreatedAt().Format(time.RFC3339),
		})
	}
	return result, nil
}
