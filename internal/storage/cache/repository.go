// Package cache provides a Redis read-through cache for user records.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultNamespace = "users"

	// invalidated marks a key whose record was just written. Fills only use
	// SET NX, so a read that started before the write cannot cache the old
	// record while the marker lives.
	invalidated     = "-"
	invalidationTTL = 10 * time.Second
)

// CachingUserRepository decorates a UserRepository with Redis caching of
// LoadByID results. Only the default projection is cached, so password
// hashes never reach Redis.
//
// Save replaces the entry with a short-lived marker instead of deleting it.
// A LoadByID that read the store before the Save cannot fill the key until
// the marker expires.
type CachingUserRepository struct {
	inner     repository.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingUserRepository decorates inner. A non-positive ttl means five
// minutes and an empty namespace means "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner repository.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// LoadByID serves default-projection reads from cache when possible.
func (c *CachingUserRepository) LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error) {
	if c.rdb == nil || model.HasField(fields, model.FieldPassword) {
		return c.inner.LoadByID(ctx, id, fields...)
	}

	key := c.cacheKey(id)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 && string(b) != invalidated {
		var u model.User
		if err := json.Unmarshal(b, &u); err == nil {
			return &u, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	u, err := c.inner.LoadByID(ctx, id, fields...)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(u); err == nil {
		_ = c.rdb.SetNX(ctx, key, b, c.ttl).Err()
	}
	return u, nil
}

// Save writes through and invalidates the cached entry.
func (c *CachingUserRepository) Save(ctx context.Context, u *model.User) (string, error) {
	id, err := c.inner.Save(ctx, u)
	if err != nil {
		return "", err
	}
	if c.rdb != nil {
		_ = c.rdb.Set(ctx, c.cacheKey(id), invalidated, invalidationTTL).Err()
	}
	return id, nil
}

// FindByField is not cached.
func (c *CachingUserRepository) FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error) {
	return c.inner.FindByField(ctx, name, value, fields...)
}

func (c *CachingUserRepository) cacheKey(id string) string {
	return c.namespace + ":" + id
}

var _ repository.UserRepository = (*CachingUserRepository)(nil)
