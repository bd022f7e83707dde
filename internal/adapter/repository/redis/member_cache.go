package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/coopledger/internal/usecase"
)

// MemberDirectoryCache decorates a usecase.MemberDirectory with a Redis cache
// of member existence. Members are deactivated, never removed, so only
// positive answers are cached.
type MemberDirectoryCache struct {
	next   usecase.MemberDirectory
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewMemberDirectoryCache creates a new MemberDirectoryCache.
func NewMemberDirectoryCache(next usecase.MemberDirectory, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *MemberDirectoryCache {
	return &MemberDirectoryCache{
		next:   next,
		client: client,
		prefix: "member:exists:",
		ttl:    ttl,
		logger: logger,
	}
}

// MemberExists answers from the cache when possible and falls back to the
// wrapped directory. Cache failures are logged and never fail the lookup.
func (c *MemberDirectoryCache) MemberExists(ctx context.Context, id string) (bool, error) {
	key := c.prefix + id

	n, err := c.client.Exists(ctx, key).Result()
	if err == nil && n == 1 {
		return true, nil
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("member_id", id).Msg("member cache read failed")
	}

	exists, err := c.next.MemberExists(ctx, id)
	if err != nil || !exists {
		return exists, err
	}

	if err := c.client.Set(ctx, key, "1", c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("member_id", id).Msg("member cache write failed")
	}

	return true, nil
}

// ListActiveMembers is not cached: active status changes on deactivation.
func (c *MemberDirectoryCache) ListActiveMembers(ctx context.Context) ([]string, error) {
	return c.next.ListActiveMembers(ctx)
}
