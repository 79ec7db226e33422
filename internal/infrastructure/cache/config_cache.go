package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appfacility "github.com/jhoicas/facility-inventory-api/internal/application/facility"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

var _ appfacility.ConfigCache = (*ConfigCache)(nil)

const (
	configKeyPrefix = "facility:config:"
	scanBatch       = 100
)

// ConfigCache guarda configuraciones ya resueltas como JSON con TTL.
type ConfigCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConfigCache construye la caché; ttl <= 0 significa sin expiración.
func NewConfigCache(client *redis.Client, ttl time.Duration) *ConfigCache {
	if ttl < 0 {
		ttl = 0
	}
	return &ConfigCache{client: client, ttl: ttl}
}

func configKey(facilityID string) string {
	return configKeyPrefix + facilityID
}

// Get devuelve la configuración cacheada o nil, nil si no existe.
func (c *ConfigCache) Get(ctx context.Context, facilityID string) (*entity.FacilityConfig, error) {
	data, err := c.client.Get(ctx, configKey(facilityID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", facilityID, err)
	}
	var cfg entity.FacilityConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", facilityID, err)
	}
	return &cfg, nil
}

// Set guarda la configuración resuelta.
func (c *ConfigCache) Set(ctx context.Context, facilityID string, cfg *entity.FacilityConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", facilityID, err)
	}
	if err := c.client.Set(ctx, configKey(facilityID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", facilityID, err)
	}
	return nil
}

// Invalidate borra todas las configuraciones cacheadas (SCAN por prefijo, sin KEYS).
func (c *ConfigCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, configKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
