package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const (
	defaultShards          = 16
	defaultTTL             = 15 * time.Minute
	defaultCleanupInterval = time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Memory is a sharded in-memory cache. Expired entries are invisible to
// Get and are removed by a janitor goroutine that runs until Close.
type Memory struct {
	shards []*shard
	ttl    time.Duration
	now    func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// MemoryOption configures a Memory cache
type MemoryOption func(*Memory)

// WithShards sets the number of independently locked shards
func WithShards(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.shards = newShards(n)
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a cache whose entries live for ttl unless Set is given
// another duration. A cleanup interval of zero or less disables the
// janitor.
func NewMemory(ttl, cleanupInterval time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	m := &Memory{
		shards: newShards(defaultShards),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if cleanupInterval > 0 {
		m.wg.Add(1)
		go m.janitor(cleanupInterval)
	}
	return m
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{entries: make(map[string]entry)}
	}
	return shards
}

func (m *Memory) shard(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return m.shards[h.Sum32()%uint32(len(m.shards))]
}

// Get returns a copy of the stored value
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := m.shard(key)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrMiss
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	s := m.shard(key)
	s.mu.Lock()
	s.entries[key] = entry{value: append([]byte(nil), value...), expiresAt: m.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := m.shard(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not
func (m *Memory) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Sweep removes expired entries and reports how many were removed
func (m *Memory) Sweep() int {
	now := m.now()
	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

func (m *Memory) janitor(interval time.Duration) {
	defer m.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

// Close stops the janitor. It is safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	m.wg.Wait()
	return nil
}

var _ Cache = (*Memory)(nil)
