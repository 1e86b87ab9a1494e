package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"market-gateway/src/logger"
	"market-gateway/src/models"

	"github.com/redis/go-redis/v9"
)

// -----------------------------------------------------------------------------
// Remote Cache (optional Redis mirror)
// -----------------------------------------------------------------------------

// RemoteCache mirrors the latest quote to Redis under a fixed key so pull
// queries survive a process restart. Availability is probed once at startup;
// when the probe fails every operation becomes a no-op. No reconnect is
// attempted during the process lifetime.
type RemoteCache struct {
	client    *redis.Client
	key       string
	available bool
	logger    *logger.Logger
}

// -----------------------------------------------------------------------------

// NewRemoteCache connects to Redis and probes it. A disabled config or a
// failed probe yields an unavailable (but safe to use) cache.
func NewRemoteCache(cfg models.MCacheConfig, log *logger.Logger) *RemoteCache {
	rc := &RemoteCache{key: cfg.Key, logger: log}

	if !cfg.Enabled {
		log.Info("Remote cache disabled by config")
		return rc
	}

	rc.client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rc.client.Ping(ctx).Err(); err != nil {
		log.Warning("Remote cache not available: %v. Proceeding without it.", err)
		rc.client = nil
		return rc
	}

	rc.available = true
	log.Info("Remote cache connected at %s", cfg.Addr)
	return rc
}

// -----------------------------------------------------------------------------

// Available reports whether the startup probe succeeded.
func (rc *RemoteCache) Available() bool {
	return rc.available
}

// -----------------------------------------------------------------------------

// Set stores the quote JSON under the fixed key. No-op when unavailable;
// write failures are logged and swallowed so the poll loop never stalls.
func (rc *RemoteCache) Set(ctx context.Context, quote json.RawMessage) {
	if !rc.available {
		return
	}
	if err := rc.client.Set(ctx, rc.key, string(quote), 0).Err(); err != nil {
		rc.logger.Warning("Remote cache write failed: %v", err)
	}
}

// -----------------------------------------------------------------------------

// Get returns the mirrored quote, or an error when unavailable or empty.
func (rc *RemoteCache) Get(ctx context.Context) (json.RawMessage, error) {
	if !rc.available {
		return nil, fmt.Errorf("remote cache not available")
	}

	val, err := rc.client.Get(ctx, rc.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no quote stored")
		}
		return nil, fmt.Errorf("remote cache read: %w", err)
	}
	return json.RawMessage(val), nil
}

// -----------------------------------------------------------------------------

// Close releases the Redis connection if one was established.
func (rc *RemoteCache) Close() error {
	if rc.client == nil {
		return nil
	}
	return rc.client.Close()
}
