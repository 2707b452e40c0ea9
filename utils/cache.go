package utils

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Exists checks whether a cache key exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var errCacheDisabled = errors.New("cache disabled")

// noopCache stands in when Redis is not configured. Every read misses
// and every write succeeds, so callers never branch on cache presence.
type noopCache struct{}

func (noopCache) Get(context.Context, string, interface{}) error { return errCacheDisabled }
func (noopCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopCache) Delete(context.Context, string) error         { return nil }
func (noopCache) Exists(context.Context, string) (bool, error) { return false, nil }

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		if repo.Redis == nil {
			globalCacheManager = &CacheManager{cache: noopCache{}}
			return
		}
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// GetCacheManager returns the cache manager.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyFolderList = "folder:list"
	CacheKeyFileList   = "file:list"
)

// GetFolderListFromCache reads the cached child-folder listing for one
// parent key (0 is the root level).
func GetFolderListFromCache(ctx context.Context, parentKey uint64) ([]model.Folder, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, parentKey)

	var result []model.Folder
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetFolderListToCache writes the child-folder listing for one parent key.
func SetFolderListToCache(ctx context.Context, parentKey uint64, folders []model.Folder, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, parentKey)
	return manager.cache.Set(ctx, key, folders, expiration)
}

// InvalidateFolderListCache clears the cached listing for one parent key.
func InvalidateFolderListCache(ctx context.Context, parentKey uint64) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, parentKey)
	return manager.cache.Delete(ctx, key)
}

// GetFileListFromCache reads the cached file listing for one folder key.
func GetFileListFromCache(ctx context.Context, folderKey uint64) ([]model.File, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, folderKey)

	var result []model.File
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetFileListToCache writes the file listing for one folder key.
func SetFileListToCache(ctx context.Context, folderKey uint64, files []model.File, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, folderKey)
	return manager.cache.Set(ctx, key, files, expiration)
}

// InvalidateFileListCache clears the cached file listing for one folder key.
func InvalidateFileListCache(ctx context.Context, folderKey uint64) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, folderKey)
	return manager.cache.Delete(ctx, key)
}
