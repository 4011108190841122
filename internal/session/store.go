package session

import (
	"context"
	"sync"
	"time"

	"cryptonest/internal/utils"

	"github.com/redis/go-redis/v9"
)

// Store keeps session data server-side, keyed by session id
type Store interface {
	Get(ctx context.Context, id string) (*Data, bool, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions as JSON under session:<id>
type RedisStore struct {
	rdb redis.Cmdable
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Data, bool, error) {
	var d Data
	ok, err := utils.GetJSON(ctx, s.rdb, redisKey(id), &d)
	if err != nil || !ok {
		return nil, false, err
	}
	return &d, true, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, data *Data, ttl time.Duration) error {
	return utils.SetJSON(ctx, s.rdb, redisKey(id), data, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return utils.DeleteKey(ctx, s.rdb, redisKey(id))
}

type memoryEntry struct {
	data    Data
	expires time.Time
}

// sweepInterval is how often Set drops expired entries
const sweepInterval = time.Minute

// MemoryStore keeps sessions in process memory; used when no Redis is configured.
// Expired entries are dropped on read and by a sweep that runs at most once per sweepInterval on write.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// sweep removes expired entries; callers hold mu
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, id)
		return nil, false, nil
	}
	d := e.data.clone()
	return &d, true, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, data *Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.entries[id] = memoryEntry{data: data.clone(), expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len reports how many sessions are held, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
