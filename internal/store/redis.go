package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the redis client used as a read-through cache for image bytes.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

const imageCachePrefix = "rollcall:image:"

// CachedImage returns cached image bytes and content type, or ok=false on miss.
// The two values are stored under separate keys with the same TTL.
func (r *Redis) CachedImage(ctx context.Context, imageID string) (data []byte, contentType string, ok bool) {
	if r == nil || r.Client == nil {
		return nil, "", false
	}
	data, err := r.Client.Get(ctx, imageCachePrefix+imageID).Bytes()
	if err != nil {
		return nil, "", false
	}
	contentType, err = r.Client.Get(ctx, imageCachePrefix+imageID+":ct").Result()
	if err != nil {
		return nil, "", false
	}
	return data, contentType, true
}

// CacheImage stores image bytes and content type for ttl. Failures are
// ignored; the cache is best effort.
func (r *Redis) CacheImage(ctx context.Context, imageID string, data []byte, contentType string, ttl time.Duration) {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Set(ctx, imageCachePrefix+imageID, data, ttl).Err()
	_ = r.Client.Set(ctx, imageCachePrefix+imageID+":ct", contentType, ttl).Err()
}

// DropImage evicts a cached image, used when its attendance is deleted.
func (r *Redis) DropImage(ctx context.Context, imageID string) {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Del(ctx, imageCachePrefix+imageID, imageCachePrefix+imageID+":ct").Err()
}
