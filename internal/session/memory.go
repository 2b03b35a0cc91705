package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore はプロセス内のマップでセッションを保持します。
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore は期限切れレコードを定期的に掃除する MemoryStore を作成します。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStore(ttl, time.Now, time.Minute)
}

func newMemoryStore(ttl time.Duration, now func() time.Time, cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		ttl:     ttl,
		now:     now,
		stop:    make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval)
	return s
}

// Create はレコードを保存してトークンを返します。
func (s *MemoryStore) Create(_ context.Context, record Record) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	record.CreatedAt = now
	record.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	s.records[token] = record
	s.mu.Unlock()
	return token, nil
}

// Get はトークンに対応するレコードを返します。
func (s *MemoryStore) Get(_ context.Context, token string) (*Record, error) {
	if !validToken(token) {
		return nil, nil
	}

	s.mu.RLock()
	record, ok := s.records[token]
	s.mu.RUnlock()
	if !ok || s.now().After(record.ExpiresAt) {
		return nil, nil
	}
	return &record, nil
}

// Delete はトークンを破棄します。
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.records, token)
	s.mu.Unlock()
	return nil
}

// Len は保持しているレコード数を返します（期限切れで未掃除のものを含む）。
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close は掃除用 goroutine を停止します。
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, record := range s.records {
		if now.After(record.ExpiresAt) {
			delete(s.records, token)
		}
	}
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}
