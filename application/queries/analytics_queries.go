package queries

import (
	"errors"

	"insightmap-backend/application/services"
)

// GetMapAnalyticsQuery computes clusters, connection suggestions and
// graph metrics for a map in one shot
type GetMapAnalyticsQuery struct {
	MapID  string
	UserID string
}

// Validate validates the GetMapAnalyticsQuery
func (q GetMapAnalyticsQuery) Validate() error {
	if q.MapID == "" {
		return errors.New("map ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GetMapAnalyticsResult bundles the analytics read models
type GetMapAnalyticsResult struct {
	GroupCount         int                        `json:"groupCount"`
	PlacedInsightCount int                        `json:"placedInsightCount"`
	Clusters           []services.Cluster         `json:"clusters"`
	Recommendations    []services.Recommendation  `json:"recommendations"`
	Metrics            services.ConnectionMetrics `json:"metrics"`
}
