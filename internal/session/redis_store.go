package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/civicdesk/internal/domain"
)

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed store. ttl <= 0 means no expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	token := newToken()
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	var expiry time.Duration
	if s.ttl > 0 {
		expiry = s.ttl
	}
	if err := s.client.Set(ctx, redisKeyPrefix+token, payload, expiry).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (domain.Identity, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Identity{}, ErrNotFound
		}
		return domain.Identity{}, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisKeyPrefix+token).Err()
}
