package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // String conversion
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CatalogCacheKey is the shared asset catalog view. It gets a short TTL
// because the market feed mutates prices continuously.
const CatalogCacheKey = "catalog"

// WalletCacheKey is the per-user wallet view; invalidated on every
// balance-changing mutation
func WalletCacheKey(userID uint) string {
	return "wallet:user:" + strconv.Itoa(int(userID))
}

// DashboardCacheKey is the per-user dashboard view; invalidated alongside
// the wallet view
func DashboardCacheKey(userID uint) string {
	return "dashboard:user:" + strconv.Itoa(int(userID))
}

// AdminUsersCacheKey is the paginated admin user listing
func AdminUsersCacheKey(page, pageSize string) string {
	return "admin:users:page=" + page + ":size=" + pageSize
}

// AdminTransactionsCacheKey is the paginated admin transaction listing
func AdminTransactionsCacheKey(page, pageSize string) string {
	return "admin:transactions:page=" + page + ":size=" + pageSize
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}
