package entities

import (
	"time"

	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// InsightType categorizes a research observation
type InsightType string

const (
	InsightTypePainPoint InsightType = "pain-point"
	InsightTypeQuote     InsightType = "quote"
	InsightTypeInsight   InsightType = "insight"
	InsightTypeFollowUp  InsightType = "follow-up"
	InsightTypeCustom    InsightType = "custom"
)

// IsValid reports whether the type is one of the closed set
func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypePainPoint, InsightTypeQuote, InsightTypeInsight, InsightTypeFollowUp, InsightTypeCustom:
		return true
	}
	return false
}

// InsightSource tells whether an insight was extracted or hand written
type InsightSource string

const (
	InsightSourceAI     InsightSource = "ai"
	InsightSourceManual InsightSource = "manual"
)

// Insight is a single atomic research observation. Insights are
// immutable once created; the only mutation is deletion.
type Insight struct {
	id               string
	projectID        string
	interviewID      string
	insightType      InsightType
	text             string
	timestampSeconds float64
	source           InsightSource
	createdBy        string
	createdAt        time.Time
	tags             []string
	priority         int
}

// NewInsight creates a new insight with validation. An empty id gets
// a fresh one.
func NewInsight(id, projectID, interviewID string, insightType InsightType, text string, timestampSeconds float64, source InsightSource, createdBy string) (*Insight, error) {
	if id == "" {
		id = valueobjects.NewID()
	}
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("projectID cannot be empty")
	}
	if text == "" {
		return nil, pkgerrors.NewValidationError("text cannot be empty")
	}
	if !insightType.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid insight type")
	}
	if source != InsightSourceAI && source != InsightSourceManual {
		return nil, pkgerrors.NewValidationError("invalid insight source")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}

	return &Insight{
		id:               id,
		projectID:        projectID,
		interviewID:      interviewID,
		insightType:      insightType,
		text:             text,
		timestampSeconds: timestampSeconds,
		source:           source,
		createdBy:        createdBy,
		createdAt:        time.Now(),
	}, nil
}

// NewManualInsight creates a hand-written insight not tied to an interview
func NewManualInsight(id, projectID string, insightType InsightType, text, createdBy string) (*Insight, error) {
	return NewInsight(id, projectID, "", insightType, text, 0, InsightSourceManual, createdBy)
}

// ReconstructInsight rebuilds an insight from repository data
func ReconstructInsight(id, projectID, interviewID string, insightType InsightType, text string, timestampSeconds float64, source InsightSource, createdBy string, createdAt time.Time, tags []string, priority int) *Insight {
	return &Insight{
		id:               id,
		projectID:        projectID,
		interviewID:      interviewID,
		insightType:      insightType,
		text:             text,
		timestampSeconds: timestampSeconds,
		source:           source,
		createdBy:        createdBy,
		createdAt:        createdAt,
		tags:             tags,
		priority:         priority,
	}
}

func (i *Insight) ID() string                { return i.id }
func (i *Insight) ProjectID() string         { return i.projectID }
func (i *Insight) InterviewID() string       { return i.interviewID }
func (i *Insight) Type() InsightType         { return i.insightType }
func (i *Insight) Text() string              { return i.text }
func (i *Insight) TimestampSeconds() float64 { return i.timestampSeconds }
func (i *Insight) Source() InsightSource     { return i.source }
func (i *Insight) CreatedBy() string         { return i.createdBy }
func (i *Insight) CreatedAt() time.Time      { return i.createdAt }
func (i *Insight) Priority() int             { return i.priority }

// Tags returns a copy of the insight's tags
func (i *Insight) Tags() []string {
	tags := make([]string, len(i.tags))
	copy(tags, i.tags)
	return tags
}
