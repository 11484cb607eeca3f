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

// TypingStore keeps typing indicators in Redis. Rows are not given a
// TTL because stopTyping flips the flag in place; the background sweep
// reclaims rows whose last activity is past the cutoff.
type TypingStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTypingStore creates a new TypingStore
func NewTypingStore(client *redis.Client, logger *zap.Logger) ports.TypingStore {
	return &TypingStore{
		client: client,
		logger: logger,
	}
}

func typingKey(mapID valueobjects.MapID, userID string) string {
	return fmt.Sprintf("typing:%s:%s", mapID.String(), userID)
}

// Upsert writes the indicator
func (s *TypingStore) Upsert(ctx context.Context, indicator entities.TypingIndicator) error {
	payload, err := json.Marshal(indicator)
	if err != nil {
		return fmt.Errorf("failed to marshal typing indicator: %w", err)
	}

	key := typingKey(indicator.MapID, indicator.UserID)
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store typing indicator: %w", err)
	}
	return nil
}

// Get reads one user's indicator; the bool reports whether it exists
func (s *TypingStore) Get(ctx context.Context, mapID valueobjects.MapID, userID string) (entities.TypingIndicator, bool, error) {
	raw, err := s.client.Get(ctx, typingKey(mapID, userID)).Bytes()
	if err == redis.Nil {
		return entities.TypingIndicator{}, false, nil
	}
	if err != nil {
		return entities.TypingIndicator{}, false, fmt.Errorf("failed to read typing indicator: %w", err)
	}

	var indicator entities.TypingIndicator
	if err := json.Unmarshal(raw, &indicator); err != nil {
		return entities.TypingIndicator{}, false, fmt.Errorf("failed to unmarshal typing indicator: %w", err)
	}
	return indicator, true, nil
}

// GetByMap returns every indicator row for the map, active or not
func (s *TypingStore) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]entities.TypingIndicator, error) {
	pattern := fmt.Sprintf("typing:%s:*", mapID.String())

	indicators := make([]entities.TypingIndicator, 0)
	iter := s.client.Scan(ctx, 0, pattern, presenceScanBatch).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read typing indicator: %w", err)
		}

		var indicator entities.TypingIndicator
		if err := json.Unmarshal(raw, &indicator); err != nil {
			s.logger.Warn("dropping malformed typing indicator",
				zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		indicators = append(indicators, indicator)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan typing indicators: %w", err)
	}
	return indicators, nil
}

// Delete removes one user's indicator row
func (s *TypingStore) Delete(ctx context.Context, mapID valueobjects.MapID, userID string) error {
	if err := s.client.Del(ctx, typingKey(mapID, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete typing indicator: %w", err)
	}
	return nil
}

// Sweep deletes indicator rows across all maps whose last activity is
// older than the cutoff and returns how many were removed
func (s *TypingStore) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, "typing:*", presenceScanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to read typing indicator: %w", err)
		}

		var indicator entities.TypingIndicator
		if err := json.Unmarshal(raw, &indicator); err != nil {
			// Unreadable rows are stale by definition
			if delErr := s.client.Del(ctx, key).Err(); delErr == nil {
				removed++
			}
			continue
		}
		if indicator.LastActivity.Before(olderThan) {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return removed, fmt.Errorf("failed to delete typing indicator: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan typing indicators: %w", err)
	}
	return removed, nil
}
