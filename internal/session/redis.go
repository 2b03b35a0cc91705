package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
)

// RedisStore はセッションを Redis に保存します。
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Create はレコードを保存してトークンを返します。
func (s *RedisStore) Create(ctx context.Context, record Record) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.ExpiresAt = now.Add(s.ttl)

	payload, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	// トークン衝突時に既存セッションを上書きしないよう SetNX を使う
	ok, err := s.rdb.SetNX(ctx, sessionKey(token), payload, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("session token collision")
	}
	return token, nil
}

// Get はトークンに対応するレコードを取得します。
func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	if !validToken(token) {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete はトークンを破棄します。
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if !validToken(token) {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close は Redis クライアントを閉じます。
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
