package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

const presenceScanBatch = 100

// PresenceStore keeps live cursor records in Redis. Each record gets
// its own key with a TTL, so crashed clients fall out on their own
// without a sweeper.
type PresenceStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPresenceStore creates a new PresenceStore
func NewPresenceStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) ports.PresenceStore {
	return &PresenceStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func presenceKey(mapID valueobjects.MapID, userID string) string {
	return fmt.Sprintf("presence:%s:%s", mapID.String(), userID)
}

// Upsert writes the record and refreshes its TTL
func (s *PresenceStore) Upsert(ctx context.Context, record entities.PresenceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence record: %w", err)
	}

	key := presenceKey(record.MapID, record.UserID)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store presence record: %w", err)
	}
	return nil
}

// Remove deletes the user's record for the map
func (s *PresenceStore) Remove(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	if err := s.client.Del(ctx, presenceKey(mapID, userID)).Err(); err != nil {
		return fmt.Errorf("failed to remove presence record: %w", err)
	}
	return nil
}

// GetByMap returns all live records for the map except the viewer's
func (s *PresenceStore) GetByMap(ctx context.Context, mapID valueobjects.MapID, excludeUserID string) ([]entities.PresenceRecord, error) {
	pattern := fmt.Sprintf("presence:%s:*", mapID.String())

	records := make([]entities.PresenceRecord, 0)
	iter := s.client.Scan(ctx, 0, pattern, presenceScanBatch).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read presence record: %w", err)
		}

		var record entities.PresenceRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			s.logger.Warn("dropping malformed presence record",
				zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		if record.UserID == excludeUserID {
			continue
		}
		records = append(records, record)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan presence records: %w", err)
	}
	return records, nil
}
