package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Connection graph constraints
	MaxConnectionsPerGroup int
	DefaultConnectionType  string

	// History constraints
	HistoryDepth int

	// Typing indicator windows
	TypingActiveWindow time.Duration
	TypingSweepCutoff  time.Duration
	TypingSweepPeriod  time.Duration

	// Presence
	PresenceTTL time.Duration

	// Recommendation thresholds
	ProximityRadius     float64
	HierarchyRadius     float64
	MinSuggestionScore  float64
	MaxSuggestions      int
	DenseInsightCount   int
	ProximityScore      float64
	SharedInsightWeight float64

	// Group constraints
	MaxLabelLength   int
	MaxInsightLength int

	// Voting
	DefaultVoteBudget int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxConnectionsPerGroup: 10,
		DefaultConnectionType:  "related",

		HistoryDepth: 20,

		TypingActiveWindow: 5 * time.Second,
		TypingSweepCutoff:  10 * time.Second,
		TypingSweepPeriod:  30 * time.Second,

		PresenceTTL: 60 * time.Second,

		ProximityRadius:     300,
		HierarchyRadius:     200,
		MinSuggestionScore:  2,
		MaxSuggestions:      10,
		DenseInsightCount:   5,
		ProximityScore:      2,
		SharedInsightWeight: 0.1,

		MaxLabelLength:   200,
		MaxInsightLength: 2000,

		DefaultVoteBudget: 5,
	}
}

// LoadDomainConfig loads domain configuration based on environment.
// The rule set is the same everywhere; development only stretches the
// sweep cadence to make local debugging less noisy.
func LoadDomainConfig(environment string) *DomainConfig {
	cfg := DefaultDomainConfig()
	if environment == "development" {
		cfg.TypingSweepPeriod = 2 * time.Minute
	}
	return cfg
}
