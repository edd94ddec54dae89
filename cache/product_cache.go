package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yashrajoria/storefront-service/models"

	"github.com/redis/go-redis/v9"
)

const productListKey = "catalog:products"

// ProductCache is a small cache-aside layer over the product listing.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached product list, or (nil, nil) on a miss.
func (c *ProductCache) Get(ctx context.Context) ([]models.Product, error) {
	data, err := c.client.Get(ctx, productListKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Set stores the product list for the configured TTL.
func (c *ProductCache) Set(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productListKey, data, c.ttl).Err()
}

// Invalidate drops the cached list. Called after catalog writes.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, productListKey).Err()
}
