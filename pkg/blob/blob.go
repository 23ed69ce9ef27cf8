// Package blob is the blob-store collaborator boundary: avatar payloads
// and cached listing pages live behind it.
package blob

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"cpnotes/pkg/errs"
)

// Store reads and writes opaque blobs addressed by bucket and path.
type Store interface {
	Get(ctx context.Context, bucket, path string) ([]byte, error)
	Put(ctx context.Context, bucket, path string, data []byte, contentType string) error
}

// RedisStore keeps blobs in Redis under "bucket/path" keys. The cache
// deployment fronting this service treats the data as rebuildable.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: c}, nil
}

func blobKey(bucket, path string) string {
	return bucket + "/" + path
}

func (s *RedisStore) Get(ctx context.Context, bucket, path string) ([]byte, error) {
	data, err := s.client.Get(ctx, blobKey(bucket, path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.New(errs.KindNotFound, "BlobNotFound", "blob not found: "+blobKey(bucket, path))
	}
	return data, err
}

func (s *RedisStore) Put(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	key := blobKey(bucket, path)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return err
	}
	if contentType != "" {
		return s.client.Set(ctx, key+":content-type", contentType, 0).Err()
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process Store. It doubles as the production
// fallback when no Redis address is configured, so access is locked.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, bucket, path string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[blobKey(bucket, path)]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.KindNotFound, "BlobNotFound", "blob not found: "+blobKey(bucket, path))
	}
	return data, nil
}

func (s *MemoryStore) Put(_ context.Context, bucket, path string, data []byte, _ string) error {
	s.mu.Lock()
	s.blobs[blobKey(bucket, path)] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}
