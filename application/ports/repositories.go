package ports

import (
	"context"
	"time"

	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/domain/events"
)

// MapRepository defines the interface for affinity map persistence.
// This is a port in hexagonal architecture - the domain doesn't know
// about the implementation.
type MapRepository interface {
	// Save persists a map (create or update). Updates are optimistic
	// writes conditioned on the stored version being older than the
	// one being written; a lost race surfaces as a Conflict.
	Save(ctx context.Context, m *aggregates.AffinityMap) error

	// GetByID retrieves a map by its ID
	GetByID(ctx context.Context, id valueobjects.MapID) (*aggregates.AffinityMap, error)

	// GetByProject retrieves all maps of a project
	GetByProject(ctx context.Context, projectID string) ([]*aggregates.AffinityMap, error)

	// GetCurrent retrieves the project's current map
	GetCurrent(ctx context.Context, projectID string) (*aggregates.AffinityMap, error)

	// Delete removes a map
	Delete(ctx context.Context, id valueobjects.MapID) error
}

// ConnectionRepository defines the interface for connection persistence
type ConnectionRepository interface {
	Save(ctx context.Context, conn *entities.Connection) error
	GetByID(ctx context.Context, id string) (*entities.Connection, error)
	GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Connection, error)
	GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Connection, error)
	Delete(ctx context.Context, id string) error

	// DeleteByGroup removes all connections touching a group, used
	// when the group itself is removed from the map
	DeleteByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) error
}

// InsightRepository defines the interface for insight persistence
type InsightRepository interface {
	Save(ctx context.Context, insight *entities.Insight) error
	GetByID(ctx context.Context, id string) (*entities.Insight, error)
	GetByProject(ctx context.Context, projectID string, limit, offset int) ([]*entities.Insight, int, error)
	GetByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*entities.Insight, int, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository supplies the membership view of projects. Project
// lifecycle is owned elsewhere; the core only reads.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Project, error)
}

// ActivityRepository defines the append-only activity log
type ActivityRepository interface {
	Append(ctx context.Context, entry *entities.ActivityEntry) error

	// GetByMap returns entries most-recent-first, capped at limit
	GetByMap(ctx context.Context, mapID valueobjects.MapID, limit int) ([]*entities.ActivityEntry, error)
}

// NotificationRepository persists fan-out notification records
type NotificationRepository interface {
	Save(ctx context.Context, n entities.Notification) error
	GetByUser(ctx context.Context, userID string, limit int) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// CommentRepository defines comment persistence
type CommentRepository interface {
	Save(ctx context.Context, c *entities.Comment) error
	GetByID(ctx context.Context, id string) (*entities.Comment, error)
	GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Comment, error)
	GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Comment, error)
}

// VotingRepository defines dot-voting persistence
type VotingRepository interface {
	SaveSession(ctx context.Context, s *entities.VotingSession) error
	GetSession(ctx context.Context, id string) (*entities.VotingSession, error)
	GetActiveSessionsByProject(ctx context.Context, projectID string) ([]*entities.VotingSession, error)
	SaveVote(ctx context.Context, v entities.Vote) error
	GetVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error)
}

// SortingRepository persists silent-sorting sessions
type SortingRepository interface {
	SaveSession(ctx context.Context, s *entities.SortingSession) error
	GetSession(ctx context.Context, id string) (*entities.SortingSession, error)

	// GetActiveByMap returns the map's non-completed session, or
	// NotFound when the map has none
	GetActiveByMap(ctx context.Context, mapID valueobjects.MapID) (*entities.SortingSession, error)
}

// PresenceStore holds ephemeral presence records. Loss on restart is
// acceptable; implementations may expire records on a TTL.
type PresenceStore interface {
	Upsert(ctx context.Context, record entities.PresenceRecord) error
	Remove(ctx context.Context, mapID valueobjects.MapID, userID string) error

	// GetByMap returns all live records for the map except the viewer's
	GetByMap(ctx context.Context, mapID valueobjects.MapID, excludeUserID string) ([]entities.PresenceRecord, error)
}

// TypingStore holds ephemeral typing indicators
type TypingStore interface {
	Upsert(ctx context.Context, indicator entities.TypingIndicator) error
	Get(ctx context.Context, mapID valueobjects.MapID, userID string) (entities.TypingIndicator, bool, error)
	GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]entities.TypingIndicator, error)
	Delete(ctx context.Context, mapID valueobjects.MapID, userID string) error

	// Sweep deletes indicators with lastActivity older than the cutoff
	// and returns how many were removed
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

// UnitOfWork groups writes that must land atomically, such as the
// isCurrent demotions plus the insert when a new map becomes current
type UnitOfWork interface {
	// SaveNewCurrentMap demotes every other map of the project and
	// inserts the new current map in a single transaction
	SaveNewCurrentMap(ctx context.Context, newMap *aggregates.AffinityMap, demote []*aggregates.AffinityMap) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Notifier pushes best-effort frames to connected clients so
// collaborators see changes without polling
type Notifier interface {
	// BroadcastMapUpdated tells subscribers of a map to refetch
	BroadcastMapUpdated(ctx context.Context, mapID valueobjects.MapID) error

	// BroadcastPresence pushes a presence change to map subscribers
	BroadcastPresence(ctx context.Context, mapID valueobjects.MapID) error
}

// Cache defines the interface for caching query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
