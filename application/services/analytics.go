// Package services holds application services that operate on domain
// snapshots without touching persistence themselves.
package services

import (
	"sort"

	"insightmap-backend/domain/config"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

// Cluster is a maximal set of groups mutually reachable via
// connections, size at least 2
type Cluster struct {
	GroupIDs        []string              `json:"groupIds"`
	Size            int                   `json:"size"`
	ConnectionCount int                   `json:"connectionCount"`
	Centroid        valueobjects.Position `json:"centroid"`
}

// Recommendation is a suggested connection between two currently
// unconnected groups
type Recommendation struct {
	SourceGroupID string                  `json:"sourceGroupId"`
	TargetGroupID string                  `json:"targetGroupId"`
	Score         float64                 `json:"score"`
	SuggestedType entities.ConnectionType `json:"suggestedType"`
	Reason        string                  `json:"reason"`
}

// Fixed recommendation reasons, keyed off the suggested type
const (
	ReasonHierarchy  = "Groups are very close together and may form a parent/child theme"
	ReasonDependency = "Both groups are rich in insights and may depend on each other"
	ReasonRelated    = "Groups are near each other or share insight density"
)

// AnalyticsService computes read-only analytics over a map snapshot.
// It never mutates state and has no storage dependency.
type AnalyticsService struct {
	cfg *config.DomainConfig
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(cfg *config.DomainConfig) *AnalyticsService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AnalyticsService{cfg: cfg}
}

// DetectClusters finds the connected components of the group graph,
// treating connections as undirected edges. Groups are visited in
// input order with an iterative stack-based traversal; every group is
// assigned to at most one component, components of size 1 are
// discarded, and the survivors are ordered by size descending with
// ties keeping discovery order.
func (s *AnalyticsService) DetectClusters(groups []aggregates.Group, connections []*entities.Connection) []Cluster {
	adjacency := make(map[string][]string, len(groups))
	for _, conn := range connections {
		src := conn.SourceGroupID().String()
		dst := conn.TargetGroupID().String()
		adjacency[src] = append(adjacency[src], dst)
		adjacency[dst] = append(adjacency[dst], src)
	}

	positions := make(map[string]valueobjects.Position, len(groups))
	for _, g := range groups {
		positions[g.ID.String()] = g.Position
	}

	visited := make(map[string]bool, len(groups))
	var clusters []Cluster

	for _, g := range groups {
		start := g.ID.String()
		if visited[start] {
			continue
		}

		var component []string
		stack := []string{start}
		visited[start] = true
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, current)

			for _, neighbor := range adjacency[current] {
				if _, known := positions[neighbor]; !known {
					continue
				}
				if !visited[neighbor] {
					visited[neighbor] = true
					stack = append(stack, neighbor)
				}
			}
		}

		if len(component) < 2 {
			continue
		}

		members := make(map[string]bool, len(component))
		for _, id := range component {
			members[id] = true
		}

		internal := 0
		for _, conn := range connections {
			if members[conn.SourceGroupID().String()] && members[conn.TargetGroupID().String()] {
				internal++
			}
		}

		var sumX, sumY float64
		for _, id := range component {
			pos := positions[id]
			sumX += pos.X
			sumY += pos.Y
		}
		n := float64(len(component))

		clusters = append(clusters, Cluster{
			GroupIDs:        component,
			Size:            len(component),
			ConnectionCount: internal,
			Centroid:        valueobjects.NewPosition(sumX/n, sumY/n),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})

	return clusters
}

// RecommendConnections scores every unordered pair of groups not
// already connected in either direction and returns the strongest
// suggestions. Proximity under the radius adds a flat bonus; shared
// insight density adds a weighted bonus. Pairs below the minimum
// score are dropped, the rest are ordered by score descending, capped
// at the configured maximum.
func (s *AnalyticsService) RecommendConnections(groups []aggregates.Group, connections []*entities.Connection) []Recommendation {
	connected := make(map[[2]string]bool, len(connections))
	for _, conn := range connections {
		a := conn.SourceGroupID().String()
		b := conn.TargetGroupID().String()
		connected[pairKey(a, b)] = true
	}

	var recs []Recommendation
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			a, b := groups[i], groups[j]
			if connected[pairKey(a.ID.String(), b.ID.String())] {
				continue
			}

			distance := a.Position.DistanceTo(b.Position)
			countA := len(a.InsightIDs)
			countB := len(b.InsightIDs)

			score := 0.0
			if distance < s.cfg.ProximityRadius {
				score += s.cfg.ProximityScore
			}
			if countA >= 1 && countB >= 1 {
				score += s.cfg.SharedInsightWeight * float64(min(countA, countB))
			}

			if score < s.cfg.MinSuggestionScore {
				continue
			}

			suggestedType, reason := s.suggestType(distance, countA, countB)
			recs = append(recs, Recommendation{
				SourceGroupID: a.ID.String(),
				TargetGroupID: b.ID.String(),
				Score:         score,
				SuggestedType: suggestedType,
				Reason:        reason,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > s.cfg.MaxSuggestions {
		recs = recs[:s.cfg.MaxSuggestions]
	}
	return recs
}

// suggestType picks the connection type for a pair, first match wins
func (s *AnalyticsService) suggestType(distance float64, countA, countB int) (entities.ConnectionType, string) {
	switch {
	case distance < s.cfg.HierarchyRadius:
		return entities.ConnectionTypeHierarchy, ReasonHierarchy
	case countA > s.cfg.DenseInsightCount && countB > s.cfg.DenseInsightCount:
		return entities.ConnectionTypeDependency, ReasonDependency
	default:
		return entities.ConnectionTypeRelated, ReasonRelated
	}
}

// GroupDegree is a group's connection count, used for the most
// connected list in map metrics
type GroupDegree struct {
	GroupID string `json:"groupId"`
	Title   string `json:"title"`
	Degree  int    `json:"degree"`
}

// ConnectionMetrics summarizes the state of a map's connection graph
type ConnectionMetrics struct {
	TotalConnections   int                `json:"totalConnections"`
	ConnectedGroupRate float64            `json:"connectedGroupRate"`
	TypeDistribution   map[string]int     `json:"typeDistribution"`
	AverageStrength    float64            `json:"averageStrength"`
	MostConnected      []GroupDegree      `json:"mostConnected"`
}

// ComputeConnectionMetrics derives graph metrics from a snapshot
func (s *AnalyticsService) ComputeConnectionMetrics(groups []aggregates.Group, connections []*entities.Connection) ConnectionMetrics {
	metrics := ConnectionMetrics{
		TotalConnections: len(connections),
		TypeDistribution: make(map[string]int),
	}

	degrees := make(map[string]int, len(groups))
	strengthSum := 0
	strengthCount := 0
	for _, conn := range connections {
		metrics.TypeDistribution[string(conn.Type())]++
		degrees[conn.SourceGroupID().String()]++
		degrees[conn.TargetGroupID().String()]++
		if conn.Strength() > 0 {
			strengthSum += conn.Strength()
			strengthCount++
		}
	}
	if strengthCount > 0 {
		metrics.AverageStrength = float64(strengthSum) / float64(strengthCount)
	}

	connectedGroups := 0
	for _, g := range groups {
		if degrees[g.ID.String()] > 0 {
			connectedGroups++
		}
	}
	if len(groups) > 0 {
		metrics.ConnectedGroupRate = float64(connectedGroups) / float64(len(groups))
	}

	for _, g := range groups {
		if d := degrees[g.ID.String()]; d > 0 {
			metrics.MostConnected = append(metrics.MostConnected, GroupDegree{
				GroupID: g.ID.String(),
				Title:   g.Title,
				Degree:  d,
			})
		}
	}
	sort.SliceStable(metrics.MostConnected, func(i, j int) bool {
		return metrics.MostConnected[i].Degree > metrics.MostConnected[j].Degree
	})
	if len(metrics.MostConnected) > 5 {
		metrics.MostConnected = metrics.MostConnected[:5]
	}

	return metrics
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
