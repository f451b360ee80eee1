package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
)

const keyListPrefix = "todo:list:"

// TodoCache caches per-user todo list pages in Redis. Keys carry the
// user id so invalidation on write only touches that user's entries.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached page or nil if miss.
func (c *TodoCache) GetList(ctx context.Context, userID int64, skip, limit int) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, skip, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the page in cache.
func (c *TodoCache) SetList(ctx context.Context, userID int64, skip, limit int, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, skip, limit), b, c.ttl).Err()
}

// Invalidate removes every cached page for the user (cache
// invalidation on write).
func (c *TodoCache) Invalidate(ctx context.Context, userID int64) error {
	pattern := keyListPrefix + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func listKey(userID int64, skip, limit int) string {
	return keyListPrefix + strconv.FormatInt(userID, 10) + ":" + strconv.Itoa(skip) + ":" + strconv.Itoa(limit)
}
