// internal/infrastructure/database/redis/product_cache.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/sirupsen/logrus"
)

const productKeyPrefix = "product:"

// ProductCache caches single products as JSON. Cache failures are logged
// and treated as misses.
type ProductCache struct {
	client *Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewProductCache creates a product cache with the given TTL
func NewProductCache(client *Client, ttl time.Duration, logger logrus.FieldLogger) *ProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

func (c *ProductCache) Get(ctx context.Context, id string) (*product.Product, bool) {
	var p product.Product
	if err := c.client.GetJSON(ctx, productKeyPrefix+id, &p); err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("product_id", id).Warn("product cache read failed")
		}
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *product.Product) {
	if err := c.client.SetJSON(ctx, productKeyPrefix+p.ID, p, c.ttl); err != nil {
		c.logger.WithError(err).WithField("product_id", p.ID).Warn("product cache write failed")
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, productKeyPrefix+id); err != nil {
		c.logger.WithError(err).WithField("product_id", id).Warn("product cache invalidation failed")
	}
}
