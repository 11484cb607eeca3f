package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/config"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

func makeGroup(t *testing.T, x, y float64, insightCount int) aggregates.Group {
	t.Helper()
	ids := make([]string, insightCount)
	for i := range ids {
		ids[i] = valueobjects.NewID()
	}
	return aggregates.Group{
		ID:         valueobjects.NewGroupID(),
		Title:      "group",
		Position:   valueobjects.NewPosition(x, y),
		InsightIDs: ids,
	}
}

func connect(t *testing.T, a, b aggregates.Group, connType entities.ConnectionType, strength int) *entities.Connection {
	t.Helper()
	conn, err := entities.NewConnection("", valueobjects.NewMapID(), a.ID, b.ID, connType, "", strength, "user-1")
	require.NoError(t, err)
	return conn
}

func groupIDs(groups ...aggregates.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.ID.String()
	}
	return out
}

func TestDetectClusters(t *testing.T) {
	svc := NewAnalyticsService(nil)

	a := makeGroup(t, 0, 0, 0)
	b := makeGroup(t, 100, 0, 0)
	c := makeGroup(t, 200, 0, 0)
	d := makeGroup(t, 1000, 1000, 0)
	e := makeGroup(t, 1100, 1000, 0)
	isolated := makeGroup(t, 5000, 5000, 0)

	groups := []aggregates.Group{a, b, c, d, e, isolated}
	connections := []*entities.Connection{
		connect(t, a, b, entities.ConnectionTypeRelated, 0),
		connect(t, b, c, entities.ConnectionTypeRelated, 0),
		connect(t, d, e, entities.ConnectionTypeRelated, 0),
	}

	clusters := svc.DetectClusters(groups, connections)
	require.Len(t, clusters, 2)

	// largest component first, singletons discarded
	assert.Equal(t, 3, clusters[0].Size)
	assert.ElementsMatch(t, groupIDs(a, b, c), clusters[0].GroupIDs)
	assert.Equal(t, 2, clusters[0].ConnectionCount)
	assert.Equal(t, valueobjects.NewPosition(100, 0), clusters[0].Centroid)

	assert.Equal(t, 2, clusters[1].Size)
	assert.ElementsMatch(t, groupIDs(d, e), clusters[1].GroupIDs)
	assert.Equal(t, 1, clusters[1].ConnectionCount)
}

func TestDetectClustersTieKeepsDiscoveryOrder(t *testing.T) {
	svc := NewAnalyticsService(nil)

	a := makeGroup(t, 0, 0, 0)
	b := makeGroup(t, 10, 0, 0)
	c := makeGroup(t, 500, 0, 0)
	d := makeGroup(t, 510, 0, 0)

	clusters := svc.DetectClusters(
		[]aggregates.Group{a, b, c, d},
		[]*entities.Connection{
			connect(t, a, b, entities.ConnectionTypeRelated, 0),
			connect(t, c, d, entities.ConnectionTypeRelated, 0),
		},
	)
	require.Len(t, clusters, 2)
	assert.Contains(t, clusters[0].GroupIDs, a.ID.String())
	assert.Contains(t, clusters[1].GroupIDs, c.ID.String())
}

func TestDetectClustersEmpty(t *testing.T) {
	svc := NewAnalyticsService(nil)

	assert.Empty(t, svc.DetectClusters(nil, nil))
	assert.Empty(t, svc.DetectClusters([]aggregates.Group{makeGroup(t, 0, 0, 0)}, nil))
}

func TestRecommendConnections(t *testing.T) {
	svc := NewAnalyticsService(nil)

	t.Run("close pair suggests hierarchy", func(t *testing.T) {
		a := makeGroup(t, 0, 0, 2)
		b := makeGroup(t, 50, 0, 3)

		recs := svc.RecommendConnections([]aggregates.Group{a, b}, nil)
		require.Len(t, recs, 1)
		assert.Equal(t, a.ID.String(), recs[0].SourceGroupID)
		assert.Equal(t, b.ID.String(), recs[0].TargetGroupID)
		assert.InDelta(t, 2.2, recs[0].Score, 1e-9)
		assert.Equal(t, entities.ConnectionTypeHierarchy, recs[0].SuggestedType)
		assert.Equal(t, ReasonHierarchy, recs[0].Reason)
	})

	t.Run("dense pair suggests dependency", func(t *testing.T) {
		a := makeGroup(t, 0, 0, 6)
		b := makeGroup(t, 250, 0, 7)

		recs := svc.RecommendConnections([]aggregates.Group{a, b}, nil)
		require.Len(t, recs, 1)
		assert.Equal(t, entities.ConnectionTypeDependency, recs[0].SuggestedType)
		assert.Equal(t, ReasonDependency, recs[0].Reason)
	})

	t.Run("near pair with sparse insights suggests related", func(t *testing.T) {
		a := makeGroup(t, 0, 0, 1)
		b := makeGroup(t, 250, 0, 1)

		recs := svc.RecommendConnections([]aggregates.Group{a, b}, nil)
		require.Len(t, recs, 1)
		assert.Equal(t, entities.ConnectionTypeRelated, recs[0].SuggestedType)
		assert.Equal(t, ReasonRelated, recs[0].Reason)
	})

	t.Run("already connected pair skipped in either direction", func(t *testing.T) {
		a := makeGroup(t, 0, 0, 2)
		b := makeGroup(t, 50, 0, 2)

		existing := []*entities.Connection{connect(t, b, a, entities.ConnectionTypeRelated, 0)}
		assert.Empty(t, svc.RecommendConnections([]aggregates.Group{a, b}, existing))
	})

	t.Run("pairs below the minimum score dropped", func(t *testing.T) {
		a := makeGroup(t, 0, 0, 0)
		b := makeGroup(t, 2000, 2000, 0)

		assert.Empty(t, svc.RecommendConnections([]aggregates.Group{a, b}, nil))
	})

	t.Run("ordered by score descending and capped", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.MaxSuggestions = 2
		capped := NewAnalyticsService(cfg)

		// a cluster of close groups yields more pairs than the cap
		groups := []aggregates.Group{
			makeGroup(t, 0, 0, 1),
			makeGroup(t, 40, 0, 2),
			makeGroup(t, 80, 0, 3),
			makeGroup(t, 120, 0, 4),
		}

		recs := capped.RecommendConnections(groups, nil)
		require.Len(t, recs, 2)
		assert.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
	})
}

func TestRecommendConnectionsScoreMonotonicInDistance(t *testing.T) {
	svc := NewAnalyticsService(nil)
	cfg := config.DefaultDomainConfig()

	// both groups carry enough insights that the pair stays above the
	// minimum score even when far apart
	scoreAt := func(distance float64) float64 {
		a := makeGroup(t, 0, 0, 20)
		b := makeGroup(t, distance, 0, 20)
		recs := svc.RecommendConnections([]aggregates.Group{a, b}, nil)
		require.Len(t, recs, 1)
		return recs[0].Score
	}

	// moving a pair closer must never lower its score
	distances := []float64{400, 350, 300, 250, 150, 50}
	prev := scoreAt(distances[0])
	for _, d := range distances[1:] {
		score := scoreAt(d)
		assert.GreaterOrEqual(t, score, prev, "score dropped at distance %.0f", d)
		prev = score
	}

	// crossing the radius adds the proximity bonus exactly once; closing
	// in further does not stack it
	outside := scoreAt(350)
	inside := scoreAt(250)
	assert.InDelta(t, cfg.ProximityScore, inside-outside, 1e-9)
	assert.InDelta(t, inside, scoreAt(10), 1e-9)
}

func TestComputeConnectionMetrics(t *testing.T) {
	svc := NewAnalyticsService(nil)

	a := makeGroup(t, 0, 0, 0)
	b := makeGroup(t, 100, 0, 0)
	c := makeGroup(t, 200, 0, 0)
	lonely := makeGroup(t, 900, 900, 0)

	connections := []*entities.Connection{
		connect(t, a, b, entities.ConnectionTypeRelated, 4),
		connect(t, a, c, entities.ConnectionTypeHierarchy, 2),
		connect(t, b, c, entities.ConnectionTypeRelated, 0),
	}

	metrics := svc.ComputeConnectionMetrics([]aggregates.Group{a, b, c, lonely}, connections)

	assert.Equal(t, 3, metrics.TotalConnections)
	assert.InDelta(t, 0.75, metrics.ConnectedGroupRate, 1e-9)
	assert.Equal(t, map[string]int{"related": 2, "hierarchy": 1}, metrics.TypeDistribution)
	assert.InDelta(t, 3.0, metrics.AverageStrength, 1e-9)

	require.Len(t, metrics.MostConnected, 3)
	assert.Equal(t, 2, metrics.MostConnected[0].Degree)
}

func TestComputeConnectionMetricsEmpty(t *testing.T) {
	svc := NewAnalyticsService(nil)

	metrics := svc.ComputeConnectionMetrics(nil, nil)
	assert.Zero(t, metrics.TotalConnections)
	assert.Zero(t, metrics.ConnectedGroupRate)
	assert.Zero(t, metrics.AverageStrength)
	assert.Empty(t, metrics.MostConnected)
}
