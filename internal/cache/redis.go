package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	CatalogKey      = "catalog:all"
	BranchListKey   = "branches:all"
	RevenueKeyDaily = "reports:revenue:daily"
)

// BranchListTTL bounds staleness of the cached branch list
const BranchListTTL = 30 * time.Minute

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateCatalogCaches clears catalog caches.
// Called when: CreateService
func InvalidateCatalogCaches(ctx context.Context) {
	InvalidateKeys(ctx, CatalogKey)
}

// InvalidateTransactionCaches clears transaction list caches.
// Called when: CreateTransaction, ProcessPayment, pipeline transitions
func InvalidateTransactionCaches(ctx context.Context) {
	InvalidatePattern(ctx, "transactions:*")
	InvalidatePattern(ctx, "reports:*")
}

// InvalidatePaymentCaches clears payment-related caches.
// Called when: ProcessPayment
func InvalidatePaymentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "payments:*")
	InvalidatePattern(ctx, "reports:*")
}

// InvalidateBranchCaches clears branch metadata caches
func InvalidateBranchCaches(ctx context.Context) {
	InvalidateKeys(ctx, BranchListKey)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
