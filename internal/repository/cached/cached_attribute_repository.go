// Package cached provides a caching wrapper over a primary repository using Redis.
package cached

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

const typeKeyPrefix = "attributes:type:"

// key helpers
func keyAttribute(id int64) string           { return "attribute:" + strconv.FormatInt(id, 10) }
func keyEntityType(entityType string) string { return typeKeyPrefix + entityType }

// AttributeRepository is a cache-aside repository combining Redis with a primary store.
// Attribute declarations are read on every value write, so single lookups and per-type
// listings are cached; paged listings and translations always hit the primary.
type AttributeRepository struct {
	repository.AttributeRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewAttributeRepository creates a new cached repository.
func NewAttributeRepository(primary repository.AttributeRepository, redis *redis.Client, ttl time.Duration) *AttributeRepository {
	return &AttributeRepository{AttributeRepository: primary, redis: redis, ttl: ttl}
}

// FindByID attempts Redis then falls back to primary.
func (r *AttributeRepository) FindByID(ctx context.Context, id int64) (domain.Attribute, error) {
	var a domain.Attribute
	if r.get(ctx, keyAttribute(id), &a) {
		return a, nil
	}
	a, err := r.AttributeRepository.FindByID(ctx, id)
	if err != nil {
		return domain.Attribute{}, err
	}
	r.set(ctx, keyAttribute(id), a)
	return a, nil
}

// ListByEntityType attempts Redis then falls back to primary.
func (r *AttributeRepository) ListByEntityType(ctx context.Context, entityType string) ([]domain.Attribute, error) {
	var items []domain.Attribute
	if r.get(ctx, keyEntityType(entityType), &items) {
		return items, nil
	}
	items, err := r.AttributeRepository.ListByEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}
	r.set(ctx, keyEntityType(entityType), items)
	return items, nil
}

// Insert writes through to primary and busts the listing of the attribute's type.
func (r *AttributeRepository) Insert(ctx context.Context, a domain.Attribute) (domain.Attribute, error) {
	out, err := r.AttributeRepository.Insert(ctx, a)
	if err != nil {
		return domain.Attribute{}, err
	}
	r.del(ctx, keyEntityType(out.EntityType))
	return out, nil
}

// Update writes through to primary and busts the cached attribute and its type listing.
func (r *AttributeRepository) Update(ctx context.Context, a domain.Attribute) (domain.Attribute, error) {
	out, err := r.AttributeRepository.Update(ctx, a)
	if err != nil {
		return domain.Attribute{}, err
	}
	r.del(ctx, keyAttribute(out.ID), keyEntityType(out.EntityType))
	return out, nil
}

// Delete removes through primary. The entity type is not known here, so every type listing is busted.
func (r *AttributeRepository) Delete(ctx context.Context, id int64, cascade bool) (bool, error) {
	deleted, err := r.AttributeRepository.Delete(ctx, id, cascade)
	if err != nil {
		return false, err
	}
	r.del(ctx, keyAttribute(id))
	if err := r.invalidateTypeKeys(ctx); err != nil {
		logger.Warn(ctx, "attribute cache invalidation failed: %v", err)
	}
	return deleted, nil
}

func (r *AttributeRepository) get(ctx context.Context, key string, dst any) bool {
	val, err := r.redis.Get(ctx, key).Result()
	if err != nil || val == "" {
		return false
	}
	return json.Unmarshal([]byte(val), dst) == nil
}

func (r *AttributeRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.Debug(ctx, "attribute cache set %s: %v", key, err)
	}
}

func (r *AttributeRepository) del(ctx context.Context, keys ...string) {
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx, "attribute cache delete %v: %v", keys, err)
	}
}

func (r *AttributeRepository) invalidateTypeKeys(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, typeKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.redis.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ repository.AttributeRepository = (*AttributeRepository)(nil)
