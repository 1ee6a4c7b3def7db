package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued refresh tokens server-side. A refresh token that
// is not present in the store is treated as revoked.
type TokenStore interface {
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Validate(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, token string) error
}

var ErrTokenNotTracked = errors.New("refresh token not tracked")

// tokenKey hashes the raw token so the store never holds usable credentials.
func tokenKey(prefix, token string) string {
	sum := sha256.Sum256([]byte(token))
	return prefix + ":refresh:" + hex.EncodeToString(sum[:])
}

// RedisTokenStore keeps refresh tokens in Redis with a per-token TTL, so
// revocation state survives restarts and is shared across instances.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client, prefix string) *RedisTokenStore {
	if prefix == "" {
		prefix = "auth"
	}
	return &RedisTokenStore{client: client, prefix: prefix}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(s.prefix, token), strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *RedisTokenStore) Validate(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, tokenKey(s.prefix, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotTracked
		}
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(s.prefix, token)).Err()
}

// MemoryTokenStore is a single-process fallback used in development and tests.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryTokenStore) Save(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenKey("auth", token)] = memoryEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Validate(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	entry, ok := s.entries[tokenKey("auth", token)]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return 0, ErrTokenNotTracked
	}
	return entry.userID, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tokenKey("auth", token))
	return nil
}
