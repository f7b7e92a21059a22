package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Store persists the full cart snapshot per session. Implementations must
// degrade a missing or corrupt record to an empty cart.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load rehydrates the session's cart. A missing key or an unparseable
// payload yields an empty cart, never an error for the shopper.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	payload, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("store: failed to load cart for session %s: %w", sessionID, err)
	}

	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("store: corrupt cart snapshot, starting empty")
		return New(), nil
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}

	return &c, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: failed to marshal cart for session %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store: failed to save cart for session %s: %w", sessionID, err)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("store: failed to delete cart for session %s: %w", sessionID, err)
	}
	return nil
}
