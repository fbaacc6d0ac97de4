package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

// RedisCache holds short-lived copies of the event listing and of per-event
// availability. It is never consulted when admitting a reservation.
type RedisCache struct {
	client          *redis.Client
	eventsTTL       time.Duration
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl config.CacheConfig) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		eventsTTL:       ttl.EventsTTL,
		availabilityTTL: ttl.AvailabilityTTL,
	}
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl config.CacheConfig) *RedisCache {
	return &RedisCache{client: client, eventsTTL: ttl.EventsTTL, availabilityTTL: ttl.AvailabilityTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetEvents returns nil, nil on a miss.
func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	ok, err := c.get(ctx, eventsKey(), &events)
	if err != nil || !ok {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	return c.set(ctx, eventsKey(), events, c.eventsTTL)
}

// GetAvailability returns nil, nil on a miss.
func (c *RedisCache) GetAvailability(ctx context.Context, eventID string) (*domain.Availability, error) {
	var a domain.Availability
	ok, err := c.get(ctx, availabilityKey(eventID), &a)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, a domain.Availability) error {
	return c.set(ctx, availabilityKey(a.EventID), a, c.availabilityTTL)
}

// Invalidate drops the listing and, when eventID is set, that event's availability.
func (c *RedisCache) Invalidate(ctx context.Context, eventID string) error {
	keys := []string{eventsKey()}
	if eventID != "" {
		keys = append(keys, availabilityKey(eventID))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func eventsKey() string {
	return "cache:events"
}

func availabilityKey(eventID string) string {
	return "cache:event:" + eventID + ":availability"
}
