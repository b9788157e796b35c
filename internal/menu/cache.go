package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-delivery-api/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keeps menu-item listings in redis. A nil *Cache is valid and
// disables caching entirely.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: client, TTL: ttl}
}

func itemsKey(categoryID *uint) string {
	if categoryID == nil {
		return "menu:items:all"
	}
	return fmt.Sprintf("menu:items:category:%d", *categoryID)
}

func (c *Cache) GetItems(ctx context.Context, categoryID *uint) ([]*Item, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}

	raw, err := c.Client.Get(ctx, itemsKey(categoryID)).Bytes()
	if err != nil {
		return nil, false
	}

	var items []*Item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.FromCtx(ctx).Warn("menu cache decode failed", zap.Error(err))
		return nil, false
	}

	return items, true
}

func (c *Cache) SetItems(ctx context.Context, categoryID *uint, items []*Item) {
	if c == nil || c.Client == nil {
		return
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return
	}

	if err := c.Client.Set(ctx, itemsKey(categoryID), raw, c.TTL).Err(); err != nil {
		logger.FromCtx(ctx).Warn("menu cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached menu listing after a mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.Client == nil {
		return
	}

	iter := c.Client.Scan(ctx, 0, "menu:items:*", 0).Iterator()
	for iter.Next(ctx) {
		c.Client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.FromCtx(ctx).Warn("menu cache invalidation failed", zap.Error(err))
	}
}
