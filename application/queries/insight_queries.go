package queries

import "errors"

// ListInsightsQuery pages through a project's insight corpus,
// optionally narrowed to one interview
type ListInsightsQuery struct {
	ProjectID   string
	InterviewID string
	Page        int
	PageSize    int
	UserID      string
}

// Validate validates the ListInsightsQuery
func (q ListInsightsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.Page < 0 {
		return errors.New("page must not be negative")
	}
	if q.PageSize < 0 || q.PageSize > 100 {
		return errors.New("page size out of range")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// InsightView is the read model of one insight
type InsightView struct {
	ID               string   `json:"id"`
	ProjectID        string   `json:"projectId"`
	InterviewID      string   `json:"interviewId,omitempty"`
	Type             string   `json:"type"`
	Text             string   `json:"text"`
	TimestampSeconds float64  `json:"timestampSeconds,omitempty"`
	Source           string   `json:"source"`
	Tags             []string `json:"tags,omitempty"`
	CreatedBy        string   `json:"createdBy"`
	CreatedAt        string   `json:"createdAt"`
}

// ListInsightsResult is a page of insights
type ListInsightsResult struct {
	Insights   []InsightView `json:"insights"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}
