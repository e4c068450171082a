package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"theater-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userCacheKeyPrefix = "theater-booking:user:username:"

type cachedUserRepository struct {
	next  UserRepository
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedUserRepository puts a read-through Redis cache in front of
// username lookups. Users are never updated, so entries only expire.
// Cache failures are logged and fall back to next.
func NewCachedUserRepository(next UserRepository, cache *redis.Client, ttl time.Duration, log *zap.Logger) UserRepository {
	return &cachedUserRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With(zap.String("repository", "user_cache")),
	}
}

func userCacheKey(username string) string {
	return userCacheKeyPrefix + username
}

func (c *cachedUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := c.next.Create(ctx, user); err != nil {
		return err
	}
	// the row may still be rolled back, so only drop whatever is cached
	if err := c.cache.Del(ctx, userCacheKey(user.Username)).Err(); err != nil {
		c.log.Warn("Failed to evict cached user", zap.String("username", user.Username), zap.Error(err))
	}
	return nil
}

func (c *cachedUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return c.next.FindByID(ctx, id)
}

func (c *cachedUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	key := userCacheKey(username)

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user entity.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
		c.log.Warn("Dropping unreadable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("User cache unavailable", zap.Error(err))
	}

	user, err := c.next.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return user, err
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return user, nil
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache user", zap.String("username", username), zap.Error(err))
	}

	return user, nil
}
