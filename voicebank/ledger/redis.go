package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// ErrStoreUnavailable wraps store failures, including an open circuit
// breaker, so callers can report a system fault without leaking backend
// details.
var ErrStoreUnavailable = errors.New("ledger store unavailable")

const redisKeyPrefix = "voicebank:ledger:"

// RedisStore persists ledger snapshots as JSON in Redis, keyed by user id.
// Every call runs through a circuit breaker so a struggling Redis degrades
// to fast failures instead of piling up timeouts.
type RedisStore struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore builds a store over an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ledger-redis",
			MaxRequests: 3,
			Interval:    2 * time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, userID string) (Snapshot, bool, error) {
	raw, err := s.breaker.Execute(func() (any, error) {
		payload, err := s.client.Get(ctx, redisKey(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return []byte(nil), nil
		}

		return payload, err
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	payload, _ := raw.([]byte)
	if len(payload) == 0 {
		return Snapshot{}, false, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode ledger snapshot for %q: %w", userID, err)
	}

	return snapshot, true, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, userID string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode ledger snapshot for %q: %w", userID, err)
	}

	if _, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.Set(ctx, redisKey(userID), payload, 0).Err()
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.Del(ctx, redisKey(userID)).Err()
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}
