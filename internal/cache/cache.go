package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sochow/internal/config"
	"sochow/pkg/logger"
	"sochow/pkg/models"

	"github.com/redis/go-redis/v9"
)

const (
	menuKey = "menu:available"
	MenuTTL = 5 * time.Minute
)

// Cache is a read-through cache for the available-menu listing. Every
// failure degrades to the database; callers never see a cache error.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func Connect(cfg *config.Redis, log *logger.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("startup", "redis_connected", "Connected to Redis")
	return &Cache{client: client, logger: log}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetMenu(ctx context.Context) ([]models.MenuItem, bool) {
	data, err := c.client.Get(ctx, menuKey).Result()
	if err != nil {
		return nil, false
	}

	var items []models.MenuItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *Cache) SetMenu(ctx context.Context, items []models.MenuItem) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, menuKey, data, MenuTTL).Err(); err != nil {
		c.logger.Warn("", "menu_cache_set_failed", "Failed to cache menu listing")
	}
}

// InvalidateMenu drops the cached listing after a staff menu mutation.
func (c *Cache) InvalidateMenu(ctx context.Context) {
	if err := c.client.Del(ctx, menuKey).Err(); err != nil {
		c.logger.Warn("", "menu_cache_invalidate_failed", "Failed to invalidate menu cache")
	}
}
