package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"strconv"
	"sync"
	"time"

	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

const (
	redisAttempts = 4

	menuCacheKey          = "menu:active"
	statisticsCachePrefix = "statistics:"
	rateLimitPrefix       = "ratelimit:"

	defaultMenuTTL       = 10 * time.Minute
	defaultStatisticsTTL = 30 * time.Second
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

// CacheService keeps the cashier menu, statistics snapshots and rate-limit counters in Redis.
// Every read degrades to a miss when Redis is unreachable.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(cfg),
	}
}

// getRedisClient returns the process-wide Redis client, created on first use
func getRedisClient(cfg *structs.Config) *redis.Client {
	redisOnce.Do(func() {
		c := cfg.Cache
		redisClient = redis.NewClient(&redis.Options{
			Addr:            c.Address,
			Username:        c.Username,
			Password:        c.Password,
			DB:              c.DB,
			PoolSize:        c.PoolSize,
			MinIdleConns:    c.MinIdleConns,
			MaxIdleConns:    c.MaxIdleConns,
			PoolTimeout:     c.PoolTimeout,
			ConnMaxIdleTime: c.IdleTimeout,
			DialTimeout:     c.DialTimeout,
			ReadTimeout:     c.ReadTimeout,
			WriteTimeout:    c.WriteTimeout,
			MaxRetries:      c.MaxRetries,
			MinRetryBackoff: c.MinRetryBackoff,
			MaxRetryBackoff: c.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close releases the Redis pool
func (cs *CacheService) Close() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}

// do runs op until it succeeds or fails with a non-transient error, sleeping a
// jittered, doubling backoff between the configured bounds.
func (cs *CacheService) do(op func(ctx context.Context) error) error {
	backoff, maxBackoff := cs.retryBackoff()

	var err error
	for attempt := 1; attempt <= redisAttempts; attempt++ {
		if err = op(redisCtx); err == nil || !isTransientRedisError(err) {
			return err
		}
		if attempt < redisAttempts {
			time.Sleep(backoff/2 + rand.N(backoff/2+1))
			backoff = min(backoff*2, maxBackoff)
		}
	}
	return fmt.Errorf("redis unavailable after %d attempts: %w", redisAttempts, err)
}

func (cs *CacheService) retryBackoff() (time.Duration, time.Duration) {
	minBackoff, maxBackoff := 8*time.Millisecond, 512*time.Millisecond
	if cs.config != nil && cs.config.Cache != nil {
		if cs.config.Cache.MinRetryBackoff > 0 {
			minBackoff = cs.config.Cache.MinRetryBackoff
		}
		if cs.config.Cache.MaxRetryBackoff > 0 {
			maxBackoff = cs.config.Cache.MaxRetryBackoff
		}
	}
	return minBackoff, max(minBackoff, maxBackoff)
}

// isTransientRedisError reports network failures. A missing key is never transient.
func isTransientRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// Ping checks that Redis answers
func (cs *CacheService) Ping() error {
	return cs.do(func(ctx context.Context) error {
		return cs.client.Ping(ctx).Err()
	})
}

// GetConnectionStats returns Redis pool counters
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ClearAll flushes the selected Redis database
func (cs *CacheService) ClearAll() error {
	return cs.do(func(ctx context.Context) error {
		return cs.client.FlushDB(ctx).Err()
	})
}

func rateLimitKey(ip, endpoint string) string {
	return rateLimitPrefix + ip + ":" + endpoint
}

// IncrementRateLimit counts one request of ip against endpoint. The window starts with the first request.
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, window time.Duration) (int, error) {
	key := rateLimitKey(ip, endpoint)

	var count int64
	err := cs.do(func(ctx context.Context) error {
		n, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		count = n
		if n > 1 {
			return nil
		}
		return cs.client.Expire(ctx, key, window).Err()
	})
	return int(count), err
}

// GetRateLimitStatus returns the current counter and remaining window of ip on endpoint
func (cs *CacheService) GetRateLimitStatus(ip, endpoint string) (map[string]any, error) {
	key := rateLimitKey(ip, endpoint)
	status := map[string]any{"count": 0, "ttl": 0}

	err := cs.do(func(ctx context.Context) error {
		var get *redis.StringCmd
		var ttl *redis.DurationCmd
		_, err := cs.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			get = pipe.Get(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		count, err := strconv.Atoi(get.Val())
		if err != nil {
			return fmt.Errorf("invalid rate limit counter %q: %w", key, err)
		}
		status["count"] = count
		status["ttl"] = int(ttl.Val().Seconds())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// GetMenu returns the cached cashier menu, or nil on a miss
func (cs *CacheService) GetMenu() ([]tables.Category, error) {
	menu, err := readJSON[[]tables.Category](cs, menuCacheKey)
	if err != nil || menu == nil {
		return nil, err
	}
	return *menu, nil
}

func (cs *CacheService) SetMenu(menu []tables.Category) error {
	return writeJSON(cs, menuCacheKey, menu, cs.ttl(cs.config.Cache.MenuTTL, defaultMenuTTL))
}

// InvalidateMenu drops the cached menu. Called after any category or item change.
func (cs *CacheService) InvalidateMenu() error {
	return cs.do(func(ctx context.Context) error {
		return cs.client.Del(ctx, menuCacheKey).Err()
	})
}

// GetStatistics returns the cached statistics of period, or nil on a miss
func (cs *CacheService) GetStatistics(period string) (*structs.Statistics, error) {
	return readJSON[structs.Statistics](cs, statisticsCachePrefix+period)
}

func (cs *CacheService) SetStatistics(period string, stats *structs.Statistics) error {
	return writeJSON(cs, statisticsCachePrefix+period, stats, cs.ttl(cs.config.Cache.StatisticsTTL, defaultStatisticsTTL))
}

// InvalidateStatistics drops the snapshots of every period
func (cs *CacheService) InvalidateStatistics() error {
	return cs.deleteMatching(statisticsCachePrefix + "*")
}

// deleteMatching removes every key matching pattern, walking the keyspace with SCAN
func (cs *CacheService) deleteMatching(pattern string) error {
	return cs.do(func(ctx context.Context) error {
		var keys []string
		iter := cs.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) == 0 {
			return nil
		}
		if err := cs.client.Unlink(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("unlink %s: %w", pattern, err)
		}

		cs.logger.Debug("Deleted cache keys", gecho.Field("pattern", pattern), gecho.Field("count", len(keys)))
		return nil
	})
}

func (cs *CacheService) ttl(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

func writeJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return cs.do(func(ctx context.Context) error {
		return cs.client.Set(ctx, key, data, ttl).Err()
	})
}

func readJSON[T any](cs *CacheService, key string) (*T, error) {
	var data []byte
	err := cs.do(func(ctx context.Context) error {
		b, err := cs.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		cs.logger.Warn("Cache read failed", gecho.Field("key", key), gecho.Field("error", err.Error()))
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &value, nil
}
