package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sahanw/travelbooking/config"
	"github.com/sahanw/travelbooking/internal/domain"
)

type RedisCache struct {
	client       *redis.Client
	resourcesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, resourcesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		resourcesTTL: resourcesTTL,
	}
}

func (c *RedisCache) GetResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	data, err := c.client.Get(ctx, resourcesKey(kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resources []domain.Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *RedisCache) SetResources(ctx context.Context, kind domain.ResourceKind, resources []domain.Resource) error {
	payload, err := json.Marshal(resources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resourcesKey(kind), payload, c.resourcesTTL).Err()
}

func (c *RedisCache) InvalidateResources(ctx context.Context, kind domain.ResourceKind) error {
	return c.client.Del(ctx, resourcesKey(kind)).Err()
}

func resourcesKey(kind domain.ResourceKind) string {
	return fmt.Sprintf("cache:resources:%s", kind)
}
