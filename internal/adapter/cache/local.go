package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/observability/telemetry"
	"github.com/conutlabs/chiefops/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is the in-memory answer cache used when no Redis URL is
// configured, and the fallback when Redis is unreachable at startup.
type LocalCache struct {
	mu     sync.RWMutex
	data   map[string]entry
	log    *zap.Logger
	stopCh chan struct{}
}

func NewLocalCache(cleanupInterval time.Duration, log *zap.Logger) ports.Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &LocalCache{
		data:   make(map[string]entry),
		log:    log,
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop(cleanupInterval)

	log.Info("Local answer cache initialized",
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok {
		telemetry.CacheHitsTotal.WithLabelValues("miss").Inc()
		return "", fmt.Errorf("key not found: %s", key)
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(time.Now()) {
		telemetry.CacheHitsTotal.WithLabelValues("expired").Inc()
		return "", fmt.Errorf("key expired: %s", key)
	}

	telemetry.CacheHitsTotal.WithLabelValues("hit").Inc()
	return e.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	str, err := encode(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: str}
	if expiration > 0 {
		e.expiresAt = time.Now().Add(expiration)
	}
	c.data[key] = e
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	close(c.stopCh)
	return nil
}

func encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal cache value: %w", err)
		}
		return string(data), nil
	}
}

func (c *LocalCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0
	for key, e := range c.data {
		if !e.expiresAt.IsZero() && e.expiresAt.Before(now) {
			delete(c.data, key)
			expired++
		}
	}
	if expired > 0 {
		c.log.Debug("Answer cache cleanup completed", zap.Int("expired_entries", expired))
	}
}
